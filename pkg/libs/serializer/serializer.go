package serializer

import (
	"encoding/binary"
	"io"
)

// Serializer writes little-endian values to the underlying writer and counts
// the bytes written.
type Serializer struct {
	w io.Writer
	n int
}

func New(w io.Writer) *Serializer {
	return &Serializer{
		w: w,
		n: 0,
	}
}

func (a *Serializer) Write(b []byte) (int, error) {
	n, err := a.w.Write(b)
	if err != nil {
		return 0, err
	}
	a.n += n
	return n, nil
}

func (a *Serializer) Byte(b byte) error {
	n, err := a.w.Write([]byte{b})
	if err != nil {
		return err
	}
	a.n += n
	return nil
}

func (a *Serializer) Uint16(v uint16) error {
	buf := [2]byte{}
	binary.LittleEndian.PutUint16(buf[:], v)
	return a.Bytes(buf[:])
}

func (a *Serializer) Uint32(v uint32) error {
	buf := [4]byte{}
	binary.LittleEndian.PutUint32(buf[:], v)
	return a.Bytes(buf[:])
}

func (a *Serializer) Uint64(v uint64) error {
	buf := [8]byte{}
	binary.LittleEndian.PutUint64(buf[:], v)
	return a.Bytes(buf[:])
}

// Uint writes the lowest width bytes of v. Width must be 1, 2, 4 or 8;
// callers are expected to check that v fits.
func (a *Serializer) Uint(v uint64, width int) error {
	switch width {
	case 1:
		return a.Byte(byte(v))
	case 2:
		return a.Uint16(uint16(v))
	case 4:
		return a.Uint32(uint32(v))
	case 8:
		return a.Uint64(v)
	default:
		panic("serializer: unsupported integer width")
	}
}

func (a *Serializer) Bytes(b []byte) error {
	n, err := a.w.Write(b)
	if err != nil {
		return err
	}
	a.n += n
	return nil
}

var zeros [64]byte

// Zeros writes n zero bytes.
func (a *Serializer) Zeros(n int) error {
	for n > 0 {
		l := min(n, len(zeros))
		if err := a.Bytes(zeros[:l]); err != nil {
			return err
		}
		n -= l
	}
	return nil
}

func (a *Serializer) N() int64 {
	return int64(a.n)
}
