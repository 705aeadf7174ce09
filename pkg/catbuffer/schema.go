package catbuffer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/stoewer/go-strcase"

	"github.com/nemtech/gocatbuffer/pkg/errs"
)

// Kind is the wire kind of a schema field.
type Kind byte

const (
	KindUint Kind = iota + 1
	KindFixed
	KindFlags
	KindCount
	KindReserved
	KindArray
	KindStruct
	KindSize
)

// Field names end up as JSON paths and map keys, so they are restricted to identifiers.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindFixed:
		return "fixed"
	case KindFlags:
		return "flags"
	case KindCount:
		return "count"
	case KindReserved:
		return "reserved"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindSize:
		return "size"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Element describes the items of an array field.
type Element struct {
	Kind   Kind // KindUint, KindFixed or KindStruct
	Size   int
	Schema *Schema
}

// UintElement describes little-endian integer items of the given width.
func UintElement(width int) Element {
	return Element{Kind: KindUint, Size: width}
}

// FixedElement describes opaque items of the given size.
func FixedElement(size int) Element {
	return Element{Kind: KindFixed, Size: size}
}

// StructElement describes nested record items.
func StructElement(s *Schema) Element {
	return Element{Kind: KindStruct, Schema: s}
}

// Condition makes a field present only when Flag is set in the flags field Field.
type Condition struct {
	Field string
	Flag  string
}

// Field is a field descriptor. Use the constructors below instead of the literal.
type Field struct {
	Name      string
	Kind      Kind
	Size      int        // width of uint, flags, count and size fields; length of fixed and reserved fields
	Flags     *FlagTable // KindFlags
	Count     string     // KindArray: name of the count field
	Element   Element    // KindArray
	Schema    *Schema    // KindStruct
	Condition *Condition
}

func Uint(name string, width int) Field {
	return Field{Name: name, Kind: KindUint, Size: width}
}

func Fixed(name string, size int) Field {
	return Field{Name: name, Kind: KindFixed, Size: size}
}

func Flags(name string, table *FlagTable) Field {
	f := Field{Name: name, Kind: KindFlags, Flags: table}
	if table != nil {
		f.Size = table.Width()
	}
	return f
}

func Count(name string, width int) Field {
	return Field{Name: name, Kind: KindCount, Size: width}
}

// SizePrefix declares a field holding the encoded length of the whole record, this field
// included. It is derived on encode and checked on decode.
func SizePrefix(name string, width int) Field {
	return Field{Name: name, Kind: KindSize, Size: width}
}

func Reserved(name string, size int) Field {
	return Field{Name: name, Kind: KindReserved, Size: size}
}

// Array declares an array whose length is stored in the earlier count field named count.
func Array(name, count string, e Element) Field {
	return Field{Name: name, Kind: KindArray, Count: count, Element: e}
}

func Struct(name string, s *Schema) Field {
	return Field{Name: name, Kind: KindStruct, Schema: s}
}

// When returns a copy of the field that is present only if flag is set in flagsField.
func (f Field) When(flagsField, flag string) Field {
	f.Condition = &Condition{Field: flagsField, Flag: flag}
	return f
}

// stored reports whether the field carries a value in a Record.
func (f Field) stored() bool {
	return f.Kind != KindCount && f.Kind != KindReserved && f.Kind != KindSize
}

// Schema is an immutable, validated, ordered list of fields.
type Schema struct {
	name    string
	fields  []Field
	index   map[string]int
	counts  map[string]string // count field -> array field
	size    string            // size prefix field, if any
	snake   map[string]string // snake_case form -> field
	minSize int
	layout  string
}

// NewSchema validates the fields and creates a schema.
func NewSchema(name string, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, errs.NewInvalidSchema("empty schema name")
	}
	s := &Schema{
		name:   name,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
		counts: make(map[string]string),
		snake:  make(map[string]string, len(fields)),
	}
	copy(s.fields, fields)
	for i, f := range s.fields {
		if err := s.check(i, f); err != nil {
			return nil, errs.Extend(err, fmt.Sprintf("schema %s", name))
		}
		s.index[f.Name] = i
		s.snake[strcase.SnakeCase(f.Name)] = f.Name
		switch f.Kind {
		case KindArray:
			s.counts[f.Count] = f.Name
		case KindSize:
			s.size = f.Name
		}
		if f.Condition == nil {
			s.minSize += f.minSize()
		}
	}
	for _, f := range s.fields {
		if f.Kind == KindCount {
			if _, ok := s.counts[f.Name]; !ok {
				return nil, errs.NewInvalidSchema(fmt.Sprintf("schema %s: count %q is not used by any array", name, f.Name))
			}
		}
	}
	s.layout = s.describe()
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for package level
// declarations.
func MustSchema(name string, fields ...Field) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) check(i int, f Field) error {
	if f.Name == "" {
		return errs.NewInvalidSchema(fmt.Sprintf("field #%d has empty name", i))
	}
	if !identifier.MatchString(f.Name) {
		return errs.NewInvalidSchema(fmt.Sprintf("field name %q is not an identifier", f.Name))
	}
	if _, ok := s.index[f.Name]; ok {
		return errs.NewInvalidSchema(fmt.Sprintf("duplicate field %q", f.Name))
	}
	if other, ok := s.snake[strcase.SnakeCase(f.Name)]; ok {
		return errs.NewInvalidSchema(fmt.Sprintf("field %q collides with %q", f.Name, other))
	}
	switch f.Kind {
	case KindUint, KindCount:
		if !validWidth(f.Size) {
			return errs.NewInvalidSchema(fmt.Sprintf("field %q: unsupported width %d", f.Name, f.Size))
		}
	case KindSize:
		if !validWidth(f.Size) {
			return errs.NewInvalidSchema(fmt.Sprintf("field %q: unsupported width %d", f.Name, f.Size))
		}
		if s.size != "" {
			return errs.NewInvalidSchema(fmt.Sprintf("field %q: size already held by %q", f.Name, s.size))
		}
	case KindFixed, KindReserved:
		if f.Size <= 0 {
			return errs.NewInvalidSchema(fmt.Sprintf("field %q: size must be positive", f.Name))
		}
	case KindFlags:
		if f.Flags == nil {
			return errs.NewInvalidSchema(fmt.Sprintf("field %q: missing flag table", f.Name))
		}
		if f.Size != f.Flags.Width() {
			return errs.NewInvalidSchema(fmt.Sprintf("field %q: width %d differs from flag table width %d",
				f.Name, f.Size, f.Flags.Width()))
		}
	case KindArray:
		j, ok := s.index[f.Count]
		if !ok || s.fields[j].Kind != KindCount {
			return errs.NewInvalidSchema(fmt.Sprintf("array %q: count %q is not an earlier count field", f.Name, f.Count))
		}
		if other, ok := s.counts[f.Count]; ok {
			return errs.NewInvalidSchema(fmt.Sprintf("array %q: count %q already used by %q", f.Name, f.Count, other))
		}
		if err := checkElement(f.Element); err != nil {
			return errs.Extend(err, fmt.Sprintf("array %q", f.Name))
		}
	case KindStruct:
		if f.Schema == nil {
			return errs.NewInvalidSchema(fmt.Sprintf("field %q: missing schema", f.Name))
		}
	default:
		return errs.NewInvalidSchema(fmt.Sprintf("field %q: unknown kind %s", f.Name, f.Kind))
	}
	if c := f.Condition; c != nil {
		if !f.stored() || f.Kind == KindArray {
			return errs.NewInvalidSchema(fmt.Sprintf("field %q: %s fields cannot be conditional", f.Name, f.Kind))
		}
		j, ok := s.index[c.Field]
		if !ok || s.fields[j].Kind != KindFlags || s.fields[j].Condition != nil {
			return errs.NewInvalidSchema(
				fmt.Sprintf("field %q: condition field %q is not an earlier unconditional flags field", f.Name, c.Field))
		}
		if _, ok := s.fields[j].Flags.Lookup(c.Flag); !ok {
			return errs.NewInvalidSchema(fmt.Sprintf("field %q: unknown condition flag %q", f.Name, c.Flag))
		}
	}
	return nil
}

func checkElement(e Element) error {
	switch e.Kind {
	case KindUint:
		if !validWidth(e.Size) {
			return errs.NewInvalidSchema(fmt.Sprintf("unsupported element width %d", e.Size))
		}
	case KindFixed:
		if e.Size <= 0 {
			return errs.NewInvalidSchema("element size must be positive")
		}
	case KindStruct:
		if e.Schema == nil {
			return errs.NewInvalidSchema("missing element schema")
		}
		// Bounds the number of items a buffer can claim to hold.
		if e.Schema.minSize == 0 {
			return errs.NewInvalidSchema(fmt.Sprintf("element schema %s has zero minimum size", e.Schema.name))
		}
	default:
		return errs.NewInvalidSchema(fmt.Sprintf("unsupported element kind %s", e.Kind))
	}
	return nil
}

func (f Field) minSize() int {
	switch f.Kind {
	case KindArray:
		return 0
	case KindStruct:
		return f.Schema.minSize
	default:
		return f.Size
	}
}

func (s *Schema) Name() string {
	return s.name
}

func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// CountedArray returns the array whose length the count field holds.
func (s *Schema) CountedArray(count string) (Field, bool) {
	name, ok := s.counts[count]
	if !ok {
		return Field{}, false
	}
	return s.Field(name)
}

// MinSize returns the encoded size of the smallest record: all arrays empty and all
// conditional fields absent.
func (s *Schema) MinSize() int {
	return s.minSize
}

// Layout returns a canonical one-line description of the wire layout.
func (s *Schema) Layout() string {
	return s.layout
}

// Fingerprint returns a hash of the wire layout. Schemas with equal fingerprints encode
// identically.
func (s *Schema) Fingerprint() uint64 {
	return xxhash.Sum64String(s.layout)
}

func (s *Schema) String() string {
	return s.name
}

func (s *Schema) describe() string {
	sb := new(strings.Builder)
	sb.WriteString(s.name)
	sb.WriteRune('{')
	for i, f := range s.fields {
		if i > 0 {
			sb.WriteRune(';')
		}
		sb.WriteString(f.Name)
		sb.WriteRune(':')
		sb.WriteString(f.Kind.String())
		switch f.Kind {
		case KindUint, KindCount, KindFixed, KindReserved, KindSize:
			sb.WriteString(strconv.Itoa(f.Size))
		case KindFlags:
			describeFlags(sb, f.Flags)
		case KindArray:
			sb.WriteRune('(')
			sb.WriteString(f.Count)
			sb.WriteRune(')')
			switch f.Element.Kind {
			case KindStruct:
				sb.WriteString(f.Element.Schema.layout)
			default:
				sb.WriteString(f.Element.Kind.String())
				sb.WriteString(strconv.Itoa(f.Element.Size))
			}
		case KindStruct:
			sb.WriteString(f.Schema.layout)
		}
		if c := f.Condition; c != nil {
			sb.WriteString("?")
			sb.WriteString(c.Field)
			sb.WriteRune('.')
			sb.WriteString(c.Flag)
		}
	}
	sb.WriteRune('}')
	return sb.String()
}

func describeFlags(sb *strings.Builder, t *FlagTable) {
	sb.WriteString(strconv.Itoa(t.width))
	sb.WriteRune('[')
	sb.WriteString(t.name)
	for _, fl := range t.flags {
		sb.WriteRune(' ')
		sb.WriteString(fl.Name)
		sb.WriteRune('=')
		sb.WriteString(strconv.FormatUint(fl.Value, 16))
	}
	sb.WriteRune(']')
}
