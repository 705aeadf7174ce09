package render

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
	"github.com/nemtech/gocatbuffer/pkg/util/common"
)

const indentStep = "  "

// Text prints one line per wire field, including counts and reserved bytes, with
// integers shown as their little endian bytes:
//
//	restriction_flags        : 0440 {TRANSACTION_TYPE|OUTGOING}
//	restriction_values_count : 0200000000000000
func Text(r *catbuffer.Record, o Options) (string, error) {
	if err := validate(r); err != nil {
		return "", err
	}
	sb := new(strings.Builder)
	if err := writeText(sb, r, o, ""); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func line(sb *strings.Builder, indent, name, value string) {
	fmt.Fprintf(sb, "%s%-24s : %s\n", indent, name, value)
}

func writeText(sb *strings.Builder, r *catbuffer.Record, o Options, indent string) error {
	s := r.Schema()
	for _, f := range s.Fields() {
		switch f.Kind {
		case catbuffer.KindReserved:
			line(sb, indent, "<reserved>", common.ToHexString(make([]byte, f.Size)))
			continue
		case catbuffer.KindCount:
			a, _ := s.CountedArray(f.Name)
			v, _ := r.Value(a.Name)
			line(sb, indent, key(f.Name), common.ToHexString(le(uint64(arrayLen(v)), f.Size)))
			continue
		case catbuffer.KindSize:
			n, err := catbuffer.SizeOf(r)
			if err != nil {
				return err
			}
			line(sb, indent, key(f.Name), common.ToHexString(le(uint64(n), f.Size)))
			continue
		}
		v, ok := r.Value(f.Name)
		if !ok {
			continue
		}
		switch f.Kind {
		case catbuffer.KindUint:
			line(sb, indent, key(f.Name), common.ToHexString(le(v.(uint64), f.Size)))
		case catbuffer.KindFixed:
			line(sb, indent, key(f.Name), o.Bytes.encode(v.([]byte)))
		case catbuffer.KindFlags:
			fs := v.(catbuffer.FlagSet)
			line(sb, indent, key(f.Name), common.ToHexString(le(fs.Value(), f.Size))+" "+fs.String())
		case catbuffer.KindStruct:
			line(sb, indent, key(f.Name), "{")
			if err := writeText(sb, v.(*catbuffer.Record), o, indent+indentStep); err != nil {
				return err
			}
			sb.WriteString(indent + "}\n")
		case catbuffer.KindArray:
			line(sb, indent, key(f.Name), "[")
			if err := writeItems(sb, f.Element, v, o, indent+indentStep); err != nil {
				return err
			}
			sb.WriteString(indent + "]\n")
		}
	}
	return nil
}

func writeItems(sb *strings.Builder, e catbuffer.Element, v any, o Options, indent string) error {
	switch items := v.(type) {
	case []uint64:
		for _, item := range items {
			sb.WriteString(indent + common.ToHexString(le(item, e.Size)) + "\n")
		}
	case [][]byte:
		for _, item := range items {
			sb.WriteString(indent + o.Bytes.encode(item) + "\n")
		}
	case []*catbuffer.Record:
		for _, item := range items {
			sb.WriteString(indent + "{\n")
			if err := writeText(sb, item, o, indent+indentStep); err != nil {
				return err
			}
			sb.WriteString(indent + "}\n")
		}
	default:
		return errors.Errorf("unexpected array value %T", v)
	}
	return nil
}

func arrayLen(v any) int {
	switch items := v.(type) {
	case []uint64:
		return len(items)
	case [][]byte:
		return len(items)
	case []*catbuffer.Record:
		return len(items)
	default:
		return 0
	}
}
