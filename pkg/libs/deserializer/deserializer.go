package deserializer

import (
	"encoding/binary"

	"github.com/nemtech/gocatbuffer/pkg/errs"
)

// Deserializer is a little-endian cursor over a byte slice. Every read that
// runs past the end of the slice fails with *errs.UnexpectedEOF and leaves
// the cursor untouched.
type Deserializer struct {
	b []byte
	n int
}

func NewDeserializer(b []byte) *Deserializer {
	return &Deserializer{
		b: b,
	}
}

func (a *Deserializer) advance(l int) {
	a.b = a.b[l:]
	a.n += l
}

func (a *Deserializer) Byte() (byte, error) {
	if len(a.b) > 0 {
		out := a.b[0]
		a.advance(1)
		return out, nil
	}
	return 0, errs.NewUnexpectedEOF(1, 0)
}

func (a *Deserializer) Uint16() (uint16, error) {
	l := 2
	if len(a.b) < l {
		return 0, errs.NewUnexpectedEOF(l, len(a.b))
	}
	out := binary.LittleEndian.Uint16(a.b[:l])
	a.advance(l)
	return out, nil
}

func (a *Deserializer) Uint32() (uint32, error) {
	l := 4
	if len(a.b) < l {
		return 0, errs.NewUnexpectedEOF(l, len(a.b))
	}
	out := binary.LittleEndian.Uint32(a.b[:l])
	a.advance(l)
	return out, nil
}

func (a *Deserializer) Uint64() (uint64, error) {
	l := 8
	if len(a.b) < l {
		return 0, errs.NewUnexpectedEOF(l, len(a.b))
	}
	out := binary.LittleEndian.Uint64(a.b[:l])
	a.advance(l)
	return out, nil
}

// Uint reads an unsigned integer of the given width, which must be 1, 2, 4 or 8.
func (a *Deserializer) Uint(width int) (uint64, error) {
	switch width {
	case 1:
		v, err := a.Byte()
		return uint64(v), err
	case 2:
		v, err := a.Uint16()
		return uint64(v), err
	case 4:
		v, err := a.Uint32()
		return uint64(v), err
	case 8:
		return a.Uint64()
	default:
		panic("deserializer: unsupported integer width")
	}
}

// Bytes returns the next length bytes. The result aliases the underlying slice.
func (a *Deserializer) Bytes(length int) ([]byte, error) {
	if length < 0 || length > len(a.b) {
		return nil, errs.NewUnexpectedEOF(length, len(a.b))
	}
	out := a.b[:length:length]
	a.advance(length)
	return out, nil
}

// Skip discards the next length bytes.
func (a *Deserializer) Skip(length int) error {
	_, err := a.Bytes(length)
	return err
}

// Len returns the number of unread bytes.
func (a *Deserializer) Len() int {
	return len(a.b)
}

// N returns the number of bytes consumed so far.
func (a *Deserializer) N() int {
	return a.n
}
