package render

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/tidwall/sjson"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
)

// JSON renders the record as an object with snake_case keys in wire order. Counts and
// reserved bytes are omitted, flags are arrays of flag names with unknown bits appended
// as a hex string.
func JSON(r *catbuffer.Record, o Options) ([]byte, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	return jsonRecord(r, o)
}

func jsonRecord(r *catbuffer.Record, o Options) ([]byte, error) {
	doc := []byte("{}")
	for _, name := range r.Fields() {
		f, _ := r.Schema().Field(name)
		v, _ := r.Value(name)
		k := key(name)
		var err error
		switch f.Kind {
		case catbuffer.KindUint:
			doc, err = sjson.SetBytes(doc, k, v.(uint64))
		case catbuffer.KindFixed:
			doc, err = sjson.SetBytes(doc, k, o.Bytes.encode(v.([]byte)))
		case catbuffer.KindFlags:
			doc, err = jsonFlags(doc, k, v.(catbuffer.FlagSet))
		case catbuffer.KindStruct:
			var nested []byte
			if nested, err = jsonRecord(v.(*catbuffer.Record), o); err == nil {
				doc, err = sjson.SetRawBytes(doc, k, nested)
			}
		case catbuffer.KindArray:
			doc, err = jsonArray(doc, k, v, o)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render %s.%s", r.Schema().Name(), name)
		}
	}
	return doc, nil
}

func jsonFlags(doc []byte, k string, fs catbuffer.FlagSet) ([]byte, error) {
	doc, err := sjson.SetRawBytes(doc, k, []byte("[]"))
	if err != nil {
		return nil, err
	}
	names := fs.Names()
	if u := fs.Unknown(); u != 0 {
		names = append(names, "0x"+strconv.FormatUint(u, 16))
	}
	for _, n := range names {
		if doc, err = sjson.SetBytes(doc, k+".-1", n); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func jsonArray(doc []byte, k string, v any, o Options) ([]byte, error) {
	doc, err := sjson.SetRawBytes(doc, k, []byte("[]"))
	if err != nil {
		return nil, err
	}
	path := k + ".-1"
	switch items := v.(type) {
	case []uint64:
		for _, item := range items {
			if doc, err = sjson.SetBytes(doc, path, item); err != nil {
				return nil, err
			}
		}
	case [][]byte:
		for _, item := range items {
			if doc, err = sjson.SetBytes(doc, path, o.Bytes.encode(item)); err != nil {
				return nil, err
			}
		}
	case []*catbuffer.Record:
		for _, item := range items {
			nested, err := jsonRecord(item, o)
			if err != nil {
				return nil, err
			}
			if doc, err = sjson.SetRawBytes(doc, path, nested); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.Errorf("unexpected array value %T", v)
	}
	return doc, nil
}
