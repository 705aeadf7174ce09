package render

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
)

var cborMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

// CBOR renders the record as a deterministic CBOR map with snake_case keys. Fixed values
// are byte strings and flags are their packed integer.
func CBOR(r *catbuffer.Record) ([]byte, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	data, err := cborMode.Marshal(cborValue(r))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render %s as CBOR", r.Schema().Name())
	}
	return data, nil
}

func cborValue(r *catbuffer.Record) map[string]any {
	out := make(map[string]any, len(r.Fields()))
	for _, name := range r.Fields() {
		v, _ := r.Value(name)
		switch x := v.(type) {
		case catbuffer.FlagSet:
			out[key(name)] = x.Value()
		case *catbuffer.Record:
			out[key(name)] = cborValue(x)
		case []*catbuffer.Record:
			items := make([]any, len(x))
			for i, item := range x {
				items[i] = cborValue(item)
			}
			out[key(name)] = items
		default:
			out[key(name)] = v
		}
	}
	return out
}
