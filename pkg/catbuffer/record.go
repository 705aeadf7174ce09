package catbuffer

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/ccoveille/go-safecast"
	"github.com/pkg/errors"

	"github.com/nemtech/gocatbuffer/pkg/errs"
)

// Record holds the values of one schema instance. Values are keyed by field name and
// have the following Go types:
//
//	uint fields                 uint64
//	fixed fields                []byte
//	flags fields                FlagSet
//	arrays of uint elements     []uint64
//	arrays of fixed elements    [][]byte
//	arrays of struct elements   []*Record
//	struct fields               *Record
//
// Count and reserved fields are never stored.
type Record struct {
	schema *Schema
	values map[string]any
}

func NewRecord(s *Schema) *Record {
	return &Record{schema: s, values: make(map[string]any, len(s.fields))}
}

func (r *Record) Schema() *Schema {
	return r.schema
}

func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Fields returns the names of the set fields in schema order.
func (r *Record) Fields() []string {
	out := make([]string, 0, len(r.values))
	for _, f := range r.schema.fields {
		if _, ok := r.values[f.Name]; ok {
			out = append(out, f.Name)
		}
	}
	return out
}

// Value returns the raw value of the field, see Record for the possible types.
func (r *Record) Value(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *Record) Delete(name string) {
	delete(r.values, name)
}

func (r *Record) field(name string, kind Kind) (Field, error) {
	f, ok := r.schema.Field(name)
	if !ok {
		return Field{}, errs.NewInvalidRecord(fmt.Sprintf("%s has no field %q", r.schema.name, name))
	}
	if f.Kind != kind {
		return Field{}, errs.NewInvalidRecord(fmt.Sprintf("field %s.%s is %s, not %s", r.schema.name, name, f.Kind, kind))
	}
	return f, nil
}

func (r *Record) arrayField(name string, kind Kind) (Field, error) {
	f, err := r.field(name, KindArray)
	if err != nil {
		return Field{}, err
	}
	if f.Element.Kind != kind {
		return Field{}, errs.NewInvalidRecord(
			fmt.Sprintf("items of %s.%s are %s, not %s", r.schema.name, name, f.Element.Kind, kind))
	}
	return f, nil
}

func fitsWidth(v uint64, width int) bool {
	var err error
	switch width {
	case 1:
		_, err = safecast.ToUint8(v)
	case 2:
		_, err = safecast.ToUint16(v)
	case 4:
		_, err = safecast.ToUint32(v)
	case 8:
		return true
	default:
		return false
	}
	return err == nil
}

func (r *Record) SetUint(name string, v uint64) error {
	f, err := r.field(name, KindUint)
	if err != nil {
		return err
	}
	if !fitsWidth(v, f.Size) {
		return errs.NewInvalidRecord(fmt.Sprintf("value %d does not fit into %d bytes of %s.%s", v, f.Size, r.schema.name, name))
	}
	r.values[name] = v
	return nil
}

func (r *Record) SetBytes(name string, b []byte) error {
	f, err := r.field(name, KindFixed)
	if err != nil {
		return err
	}
	if len(b) != f.Size {
		return errs.NewInvalidRecord(fmt.Sprintf("%s.%s requires %d bytes, got %d", r.schema.name, name, f.Size, len(b)))
	}
	r.values[name] = bytes.Clone(b)
	return nil
}

func (r *Record) SetFlags(name string, s FlagSet) error {
	f, err := r.field(name, KindFlags)
	if err != nil {
		return err
	}
	if s.table != f.Flags {
		return errs.NewInvalidRecord(fmt.Sprintf("%s.%s requires flags of %s", r.schema.name, name, f.Flags.name))
	}
	r.values[name] = s
	return nil
}

func (r *Record) SetUints(name string, items []uint64) error {
	f, err := r.arrayField(name, KindUint)
	if err != nil {
		return err
	}
	for i, v := range items {
		if !fitsWidth(v, f.Element.Size) {
			return errs.NewInvalidRecord(
				fmt.Sprintf("item %d of %s.%s: value %d does not fit into %d bytes", i, r.schema.name, name, v, f.Element.Size))
		}
	}
	r.values[name] = append(make([]uint64, 0, len(items)), items...)
	return nil
}

func (r *Record) SetByteArray(name string, items [][]byte) error {
	f, err := r.arrayField(name, KindFixed)
	if err != nil {
		return err
	}
	out := make([][]byte, 0, len(items))
	for i, b := range items {
		if len(b) != f.Element.Size {
			return errs.NewInvalidRecord(
				fmt.Sprintf("item %d of %s.%s requires %d bytes, got %d", i, r.schema.name, name, f.Element.Size, len(b)))
		}
		out = append(out, bytes.Clone(b))
	}
	r.values[name] = out
	return nil
}

func (r *Record) SetRecords(name string, items []*Record) error {
	f, err := r.arrayField(name, KindStruct)
	if err != nil {
		return err
	}
	for i, item := range items {
		if item == nil || item.schema != f.Element.Schema {
			return errs.NewInvalidRecord(
				fmt.Sprintf("item %d of %s.%s must be a %s record", i, r.schema.name, name, f.Element.Schema.name))
		}
	}
	r.values[name] = append(make([]*Record, 0, len(items)), items...)
	return nil
}

func (r *Record) SetStruct(name string, v *Record) error {
	f, err := r.field(name, KindStruct)
	if err != nil {
		return err
	}
	if v == nil || v.schema != f.Schema {
		return errs.NewInvalidRecord(fmt.Sprintf("%s.%s must be a %s record", r.schema.name, name, f.Schema.name))
	}
	r.values[name] = v
	return nil
}

func lookup[T any](r *Record, name string) (T, error) {
	var zero T
	v, ok := r.values[name]
	if !ok {
		return zero, errors.Errorf("field %s.%s is not set", r.schema.name, name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("field %s.%s holds %T", r.schema.name, name, v)
	}
	return t, nil
}

func (r *Record) Uint(name string) (uint64, error) {
	return lookup[uint64](r, name)
}

// Bytes returns a copy of the fixed field value.
func (r *Record) Bytes(name string) ([]byte, error) {
	b, err := lookup[[]byte](r, name)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

func (r *Record) Flags(name string) (FlagSet, error) {
	return lookup[FlagSet](r, name)
}

func (r *Record) Uints(name string) ([]uint64, error) {
	v, err := lookup[[]uint64](r, name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(v), nil
}

func (r *Record) ByteArray(name string) ([][]byte, error) {
	v, err := lookup[[][]byte](r, name)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(v))
	for i := range v {
		out[i] = bytes.Clone(v[i])
	}
	return out, nil
}

func (r *Record) Records(name string) ([]*Record, error) {
	v, err := lookup[[]*Record](r, name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(v), nil
}

func (r *Record) Struct(name string) (*Record, error) {
	return lookup[*Record](r, name)
}

// Equal reports whether both records belong to the same schema and hold equal values.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.schema != o.schema || len(r.values) != len(o.values) {
		return false
	}
	for k, v := range r.values {
		ov, ok := o.values[k]
		if !ok || !valuesEqual(v, ov) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	switch x := a.(type) {
	case uint64:
		y, ok := b.(uint64)
		return ok && x == y
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case FlagSet:
		y, ok := b.(FlagSet)
		return ok && x.table == y.table && x.value == y.value
	case []uint64:
		y, ok := b.([]uint64)
		return ok && slices.Equal(x, y)
	case [][]byte:
		y, ok := b.([][]byte)
		return ok && slices.EqualFunc(x, y, bytes.Equal)
	case []*Record:
		y, ok := b.([]*Record)
		return ok && slices.EqualFunc(x, y, (*Record).Equal)
	case *Record:
		y, ok := b.(*Record)
		return ok && x.Equal(y)
	default:
		return false
	}
}
