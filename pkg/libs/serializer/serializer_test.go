package serializer

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializer_Byte(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Byte('b'))
	require.Equal(t, []byte{'b'}, buf.Bytes())
	require.EqualValues(t, 1, s.N())
}

func TestSerializer_Uint16(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Uint16(0x4154))
	require.Equal(t, []byte{0x54, 0x41}, buf.Bytes())
	require.EqualValues(t, 2, s.N())
}

func TestSerializer_Uint32(t *testing.T) {
	var billion uint32 = 1000000000
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Uint32(billion))
	require.Equal(t, binary.LittleEndian.Uint32(buf.Bytes()), billion)
}

func TestSerializer_Uint64(t *testing.T) {
	var billion uint64 = 1000000000
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Uint64(billion))
	require.Equal(t, binary.LittleEndian.Uint64(buf.Bytes()), billion)
}

func TestSerializer_Uint(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Uint(1, 1))
	require.NoError(t, s.Uint(2, 2))
	require.NoError(t, s.Uint(3, 4))
	require.NoError(t, s.Uint(4, 8))
	require.Equal(t, []byte{1, 2, 0, 3, 0, 0, 0, 4, 0, 0, 0, 0, 0, 0, 0}, buf.Bytes())
	require.EqualValues(t, 15, s.N())
	require.Panics(t, func() { _ = s.Uint(1, 3) })
}

func TestSerializer_Zeros(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Zeros(0))
	require.NoError(t, s.Zeros(150))
	require.Equal(t, make([]byte, 150), buf.Bytes())
	require.EqualValues(t, 150, s.N())
}

func TestSerializer_Write(t *testing.T) {
	buf := &bytes.Buffer{}
	o := bytes.NewBuffer([]byte{1, 2, 3, 4, 5})
	s := New(buf)
	_, _ = o.WriteTo(s)

	require.EqualValues(t, 5, s.N())
	require.Equal(t, []byte{1, 2, 3, 4, 5}, buf.Bytes())
}

func BenchmarkSerializer_Bytes(b *testing.B) {
	buf := &bytes.Buffer{}
	s := New(buf)
	data := make([]byte, 24)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		_ = s.Bytes(data)
	}
}
