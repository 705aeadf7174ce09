package catbuffer

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/ccoveille/go-safecast"
	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/nemtech/gocatbuffer/pkg/errs"
	"github.com/nemtech/gocatbuffer/pkg/libs/deserializer"
	"github.com/nemtech/gocatbuffer/pkg/libs/serializer"
)

type decodeOptions struct {
	lenient bool
	exact   bool
}

type DecodeOption func(*decodeOptions)

// Lenient keeps flag bits unknown to the flag table instead of failing with
// *errs.UnknownFlagBits. The bits are written back unchanged on encode.
func Lenient() DecodeOption {
	return func(o *decodeOptions) {
		o.lenient = true
	}
}

// ExactLength makes Decode fail with *errs.TrailingBytes if the source is longer than
// the record.
func ExactLength() DecodeOption {
	return func(o *decodeOptions) {
		o.exact = true
	}
}

func newDecodeOptions(opts []DecodeOption) decodeOptions {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Decode reads a record of the schema from the beginning of source.
func Decode(s *Schema, source []byte, opts ...DecodeOption) (*Record, error) {
	o := newDecodeOptions(opts)
	d := deserializer.NewDeserializer(source)
	r, err := decodeRecord(s, d, o)
	if err != nil {
		return nil, err
	}
	if o.exact && d.Len() > 0 {
		return nil, errs.Extend(errs.NewTrailingBytes(d.Len()), s.name)
	}
	return r, nil
}

// Unmarshal decodes a top-level message: strict flags and exact length.
func Unmarshal(s *Schema, source []byte) (*Record, error) {
	return Decode(s, source, ExactLength())
}

// DecodeFrom reads an embedded record from the deserializer. ExactLength is ignored,
// the remaining bytes belong to the caller.
func DecodeFrom(s *Schema, d *deserializer.Deserializer, opts ...DecodeOption) (*Record, error) {
	o := newDecodeOptions(opts)
	o.exact = false
	return decodeRecord(s, d, o)
}

func decodeRecord(s *Schema, d *deserializer.Deserializer, o decodeOptions) (*Record, error) {
	r := NewRecord(s)
	start := d.N()
	counts := make(map[string]uint64)
	for _, f := range s.fields {
		if !r.active(f) {
			continue
		}
		if err := r.decodeField(f, d, o, counts); err != nil {
			return nil, errs.Extend(err, s.name+"."+f.Name)
		}
	}
	if s.size != "" {
		if declared, actual := counts[s.size], d.N()-start; declared != uint64(actual) {
			return nil, errs.Extend(errs.NewSizeMismatch(declared, actual), s.name+"."+s.size)
		}
	}
	return r, nil
}

func (r *Record) active(f Field) bool {
	if f.Condition == nil {
		return true
	}
	fs, ok := r.values[f.Condition.Field].(FlagSet)
	return ok && fs.Has(f.Condition.Flag)
}

func (r *Record) decodeField(f Field, d *deserializer.Deserializer, o decodeOptions, counts map[string]uint64) error {
	switch f.Kind {
	case KindUint:
		v, err := d.Uint(f.Size)
		if err != nil {
			return err
		}
		r.values[f.Name] = v
	case KindFixed:
		b, err := d.Bytes(f.Size)
		if err != nil {
			return err
		}
		r.values[f.Name] = bytes.Clone(b)
	case KindFlags:
		v, err := d.Uint(f.Size)
		if err != nil {
			return err
		}
		fs, err := f.Flags.FromValue(v, o.lenient)
		if err != nil {
			return err
		}
		r.values[f.Name] = fs
	case KindCount:
		v, err := d.Uint(f.Size)
		if err != nil {
			return err
		}
		counts[r.schema.counts[f.Name]] = v
	case KindSize:
		v, err := d.Uint(f.Size)
		if err != nil {
			return err
		}
		counts[f.Name] = v
	case KindReserved:
		return d.Skip(f.Size)
	case KindArray:
		v, err := decodeArray(f, counts[f.Name], d, o)
		if err != nil {
			return err
		}
		r.values[f.Name] = v
	case KindStruct:
		v, err := decodeRecord(f.Schema, d, o)
		if err != nil {
			return err
		}
		r.values[f.Name] = v
	}
	return nil
}

// checkAvailable fails early when n items of at least size bytes cannot fit into the rest
// of the buffer, so a forged count never drives a large allocation.
func checkAvailable(n uint64, size int, d *deserializer.Deserializer) (int, error) {
	if n > uint64(d.Len()/size) {
		need := math.MaxInt
		if n <= uint64(math.MaxInt/size) {
			need = int(n) * size
		}
		return 0, errs.NewUnexpectedEOF(need, d.Len())
	}
	return int(n), nil
}

func decodeArray(f Field, count uint64, d *deserializer.Deserializer, o decodeOptions) (any, error) {
	e := f.Element
	switch e.Kind {
	case KindUint:
		n, err := checkAvailable(count, e.Size, d)
		if err != nil {
			return nil, err
		}
		out := make([]uint64, 0, n)
		for range n {
			v, err := d.Uint(e.Size)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case KindFixed:
		n, err := checkAvailable(count, e.Size, d)
		if err != nil {
			return nil, err
		}
		out := make([][]byte, 0, n)
		for range n {
			b, err := d.Bytes(e.Size)
			if err != nil {
				return nil, err
			}
			out = append(out, bytes.Clone(b))
		}
		return out, nil
	case KindStruct:
		n, err := checkAvailable(count, e.Schema.minSize, d)
		if err != nil {
			return nil, err
		}
		out := make([]*Record, 0, n)
		for i := range n {
			item, err := decodeRecord(e.Schema, d, o)
			if err != nil {
				return nil, errs.Extend(err, fmt.Sprintf("item %d", i))
			}
			out = append(out, item)
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported element kind %s", e.Kind)
	}
}

// SizeOf returns the encoded length of the record. It fails on the same records Encode
// fails on.
func SizeOf(r *Record) (int, error) {
	return sizeOfRecord(r)
}

func sizeOfRecord(r *Record) (int, error) {
	size := 0
	for _, f := range r.schema.fields {
		n, err := r.sizeOfField(f)
		if err != nil {
			return 0, errs.Extend(err, r.schema.name+"."+f.Name)
		}
		size += n
	}
	if name := r.schema.size; name != "" {
		f := r.schema.fields[r.schema.index[name]]
		if !fitsWidth(uint64(size), f.Size) {
			return 0, errs.NewInvalidRecord(
				fmt.Sprintf("record size %d does not fit into %d-byte field %s.%s", size, f.Size, r.schema.name, name))
		}
	}
	return size, nil
}

func (r *Record) sizeOfField(f Field) (int, error) {
	switch f.Kind {
	case KindCount:
		if _, err := r.countValue(f); err != nil {
			return 0, err
		}
		return f.Size, nil
	case KindReserved, KindSize:
		return f.Size, nil
	}
	v, present := r.values[f.Name]
	active := r.active(f)
	switch {
	case active && !present:
		return 0, errs.NewInvalidRecord("field is not set")
	case !active && present:
		return 0, errs.NewInvalidRecord(
			fmt.Sprintf("field is set while flag %s is not set in %s", f.Condition.Flag, f.Condition.Field))
	case !active:
		return 0, nil
	}
	switch f.Kind {
	case KindArray:
		switch items := v.(type) {
		case []uint64:
			return len(items) * f.Element.Size, nil
		case [][]byte:
			return len(items) * f.Element.Size, nil
		case []*Record:
			total := 0
			for i, item := range items {
				n, err := sizeOfRecord(item)
				if err != nil {
					return 0, errs.Extend(err, fmt.Sprintf("item %d", i))
				}
				total += n
			}
			return total, nil
		}
		return 0, errs.NewInvalidRecord(fmt.Sprintf("unexpected array value %T", v))
	case KindStruct:
		return sizeOfRecord(v.(*Record))
	default:
		return f.Size, nil
	}
}

// countValue derives the value of a count field from the length of its array.
func (r *Record) countValue(f Field) (uint64, error) {
	n := 0
	switch items := r.values[r.schema.counts[f.Name]].(type) {
	case []uint64:
		n = len(items)
	case [][]byte:
		n = len(items)
	case []*Record:
		n = len(items)
	}
	var err error
	switch f.Size {
	case 1:
		_, err = safecast.ToUint8(n)
	case 2:
		_, err = safecast.ToUint16(n)
	case 4:
		_, err = safecast.ToUint32(n)
	default:
		_, err = safecast.ToUint64(n)
	}
	if err != nil {
		return 0, errs.NewCountOverflow(n, f.Size)
	}
	return uint64(n), nil
}

// Encode serializes the record.
func Encode(r *Record) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := EncodeTo(buf, r); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.B), nil
}

// EncodeTo validates the record and writes it to w. Nothing is written if the record is
// invalid.
func EncodeTo(w io.Writer, r *Record) (int64, error) {
	if _, err := sizeOfRecord(r); err != nil {
		return 0, err
	}
	s := serializer.New(w)
	if err := writeRecord(s, r); err != nil {
		return s.N(), errors.Wrapf(err, "failed to write %s", r.schema.name)
	}
	return s.N(), nil
}

func writeRecord(s *serializer.Serializer, r *Record) error {
	for _, f := range r.schema.fields {
		if !r.active(f) {
			continue
		}
		if err := r.writeField(s, f); err != nil {
			return err
		}
	}
	return nil
}

func (r *Record) writeField(s *serializer.Serializer, f Field) error {
	switch f.Kind {
	case KindUint:
		return s.Uint(r.values[f.Name].(uint64), f.Size)
	case KindFixed:
		return s.Bytes(r.values[f.Name].([]byte))
	case KindFlags:
		return s.Uint(r.values[f.Name].(FlagSet).Value(), f.Size)
	case KindCount:
		n, err := r.countValue(f)
		if err != nil {
			return err
		}
		return s.Uint(n, f.Size)
	case KindSize:
		n, err := sizeOfRecord(r)
		if err != nil {
			return err
		}
		return s.Uint(uint64(n), f.Size)
	case KindReserved:
		return s.Zeros(f.Size)
	case KindArray:
		switch items := r.values[f.Name].(type) {
		case []uint64:
			for _, v := range items {
				if err := s.Uint(v, f.Element.Size); err != nil {
					return err
				}
			}
		case [][]byte:
			for _, b := range items {
				if err := s.Bytes(b); err != nil {
					return err
				}
			}
		case []*Record:
			for _, item := range items {
				if err := writeRecord(s, item); err != nil {
					return err
				}
			}
		}
		return nil
	case KindStruct:
		return writeRecord(s, r.values[f.Name].(*Record))
	}
	return nil
}
