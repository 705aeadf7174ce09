package catbuffer

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/pkg/errors"

	"github.com/nemtech/gocatbuffer/pkg/errs"
)

// Flag is a named bit of a bitmask field.
type Flag struct {
	Name  string
	Value uint64
}

// FlagTable is an ordered set of flags packed into an integer of a fixed width.
type FlagTable struct {
	name  string
	width int
	flags []Flag
	mask  uint64
}

// NewFlagTable creates a table of flags of the given width in bytes. Every flag value
// must be a distinct power of two that fits the width.
func NewFlagTable(name string, width int, flags ...Flag) (*FlagTable, error) {
	if name == "" {
		return nil, errs.NewInvalidSchema("empty flag table name")
	}
	if !validWidth(width) {
		return nil, errs.NewInvalidSchema(fmt.Sprintf("flag table %s: unsupported width %d", name, width))
	}
	t := &FlagTable{name: name, width: width, flags: make([]Flag, 0, len(flags))}
	names := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		if f.Name == "" {
			return nil, errs.NewInvalidSchema(fmt.Sprintf("flag table %s: empty flag name", name))
		}
		if _, ok := names[f.Name]; ok {
			return nil, errs.NewInvalidSchema(fmt.Sprintf("flag table %s: duplicate flag %s", name, f.Name))
		}
		if bits.OnesCount64(f.Value) != 1 {
			return nil, errs.NewInvalidSchema(
				fmt.Sprintf("flag table %s: value 0x%x of flag %s is not a power of two", name, f.Value, f.Name))
		}
		if f.Value > maxUint(width) {
			return nil, errs.NewInvalidSchema(
				fmt.Sprintf("flag table %s: value 0x%x of flag %s exceeds %d bytes", name, f.Value, f.Name, width))
		}
		if t.mask&f.Value != 0 {
			return nil, errs.NewInvalidSchema(
				fmt.Sprintf("flag table %s: value 0x%x of flag %s is already taken", name, f.Value, f.Name))
		}
		names[f.Name] = struct{}{}
		t.mask |= f.Value
		t.flags = append(t.flags, f)
	}
	return t, nil
}

// MustFlagTable is like NewFlagTable but panics on error. It is meant for package level
// declarations.
func MustFlagTable(name string, width int, flags ...Flag) *FlagTable {
	t, err := NewFlagTable(name, width, flags...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *FlagTable) Name() string {
	return t.name
}

// Width returns the size of the packed integer in bytes.
func (t *FlagTable) Width() int {
	return t.width
}

// Mask returns the OR of all known flag values.
func (t *FlagTable) Mask() uint64 {
	return t.mask
}

func (t *FlagTable) Flags() []Flag {
	out := make([]Flag, len(t.flags))
	copy(out, t.flags)
	return out
}

func (t *FlagTable) Lookup(name string) (Flag, bool) {
	for _, f := range t.flags {
		if f.Name == name {
			return f, true
		}
	}
	return Flag{}, false
}

// Set builds a flag set from flag names.
func (t *FlagTable) Set(names ...string) (FlagSet, error) {
	var v uint64
	for _, n := range names {
		f, ok := t.Lookup(n)
		if !ok {
			return FlagSet{}, errors.Errorf("unknown flag %q in %s", n, t.name)
		}
		v |= f.Value
	}
	return FlagSet{table: t, value: v}, nil
}

// MustSet is like Set but panics on error.
func (t *FlagTable) MustSet(names ...string) FlagSet {
	s, err := t.Set(names...)
	if err != nil {
		panic(err)
	}
	return s
}

// FromValue maps a packed integer to a flag set. Bits without a flag fail with
// *errs.UnknownFlagBits unless lenient is set, in which case they are kept and written
// back on encode.
func (t *FlagTable) FromValue(v uint64, lenient bool) (FlagSet, error) {
	if v > maxUint(t.width) {
		return FlagSet{}, errs.NewInvalidRecord(fmt.Sprintf("value 0x%x exceeds %d bytes of %s", v, t.width, t.name))
	}
	if unknown := v &^ t.mask; unknown != 0 && !lenient {
		return FlagSet{}, errs.NewUnknownFlagBits(t.name, unknown)
	}
	return FlagSet{table: t, value: v}, nil
}

// FlagSet is a set of flags of one FlagTable.
type FlagSet struct {
	table *FlagTable
	value uint64
}

func (s FlagSet) Table() *FlagTable {
	return s.table
}

// Value returns the packed integer, including bits unknown to the table.
func (s FlagSet) Value() uint64 {
	return s.value
}

// Unknown returns the bits that have no flag in the table.
func (s FlagSet) Unknown() uint64 {
	if s.table == nil {
		return s.value
	}
	return s.value &^ s.table.mask
}

func (s FlagSet) Has(name string) bool {
	if s.table == nil {
		return false
	}
	f, ok := s.table.Lookup(name)
	return ok && s.value&f.Value != 0
}

// Names returns the names of the set flags in table order.
func (s FlagSet) Names() []string {
	if s.table == nil {
		return nil
	}
	out := make([]string, 0, bits.OnesCount64(s.value))
	for _, f := range s.table.flags {
		if s.value&f.Value != 0 {
			out = append(out, f.Name)
		}
	}
	return out
}

func (s FlagSet) String() string {
	parts := s.Names()
	if u := s.Unknown(); u != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", u))
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, "|") + "}"
}

func validWidth(w int) bool {
	switch w {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

func maxUint(width int) uint64 {
	if width >= 8 {
		return ^uint64(0)
	}
	return 1<<(8*uint(width)) - 1
}
