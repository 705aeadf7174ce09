// Package render prints decoded records for people and for other tools.
package render

import (
	"bytes"
	"strings"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
	"github.com/stoewer/go-strcase"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
	"github.com/nemtech/gocatbuffer/pkg/libs/serializer"
	"github.com/nemtech/gocatbuffer/pkg/util/common"
)

type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatCBOR
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, errors.Errorf("unsupported format %q", s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatCBOR:
		return "cbor"
	default:
		return "unknown"
	}
}

// Bytes selects how fixed size values are printed.
type Bytes int

const (
	BytesHex Bytes = iota
	BytesBase58
)

func ParseBytes(s string) (Bytes, error) {
	switch strings.ToLower(s) {
	case "hex", "":
		return BytesHex, nil
	case "base58":
		return BytesBase58, nil
	default:
		return 0, errors.Errorf("unsupported byte encoding %q", s)
	}
}

func (b Bytes) encode(v []byte) string {
	if b == BytesBase58 {
		return base58.Encode(v)
	}
	return common.ToHexString(v)
}

type Options struct {
	Bytes Bytes
}

// Render returns the record in the requested format. CBOR output is binary.
func Render(r *catbuffer.Record, f Format, o Options) ([]byte, error) {
	switch f {
	case FormatText:
		s, err := Text(r, o)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case FormatJSON:
		return JSON(r, o)
	case FormatCBOR:
		return CBOR(r)
	default:
		return nil, errors.Errorf("unsupported format %d", f)
	}
}

// validate rejects records that cannot be encoded, so every renderer sees complete records.
func validate(r *catbuffer.Record) error {
	if r == nil {
		return errors.New("nil record")
	}
	if _, err := catbuffer.SizeOf(r); err != nil {
		return errors.Wrapf(err, "failed to render %s", r.Schema().Name())
	}
	return nil
}

func key(name string) string {
	return strcase.SnakeCase(name)
}

// le returns the wire form of an integer of the given width.
func le(v uint64, width int) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, width))
	if err := serializer.New(buf).Uint(v, width); err != nil {
		panic(err) // bytes.Buffer never fails
	}
	return buf.Bytes()
}
