package errs

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnexpectedEOF(t *testing.T) {
	err := NewUnexpectedEOF(4, 1)
	require.EqualError(t, err, "unexpected end of data, expected at least 4 bytes, found 1")
	require.EqualError(t, Extend(err, "field 'reserved'"),
		"field 'reserved': unexpected end of data, expected at least 4 bytes, found 1")
	assert.True(t, errors.Is(Extend(err, "a"), UnexpectedEOF{}))
	assert.True(t, errors.Is(errors.Wrap(err, "b"), &UnexpectedEOF{}))
	assert.False(t, errors.Is(err, TrailingBytes{}))
	assert.True(t, IsDecodeError(errors.Wrap(err, "c")))
	assert.False(t, IsEncodeError(err))
}

func TestTrailingBytes(t *testing.T) {
	err := NewTrailingBytes(3)
	require.EqualError(t, err, "3 trailing bytes after the last field")
	var tb *TrailingBytes
	require.True(t, errors.As(errors.Wrap(err, "top"), &tb))
	assert.Equal(t, 3, tb.Count())
	assert.True(t, errors.Is(Extend(err, "x"), TrailingBytes{}))
}

func TestUnknownFlagBits(t *testing.T) {
	err := NewUnknownFlagBits("AccountRestrictionFlags", 0x10)
	require.EqualError(t, err, "unknown bits 0x10 in AccountRestrictionFlags")
	assert.EqualValues(t, 0x10, err.Bits())
	assert.True(t, errors.Is(err, UnknownFlagBits{}))
	assert.True(t, IsDecodeError(err))
}

func TestSizeMismatch(t *testing.T) {
	err := NewSizeMismatch(200, 138)
	require.EqualError(t, err, "declared size 200 differs from record size 138")
	var sm *SizeMismatch
	require.True(t, errors.As(Extend(err, "Transaction.size"), &sm))
	assert.EqualValues(t, 200, sm.Declared())
	assert.Equal(t, 138, sm.Actual())
	assert.Equal(t, "Transaction.size: declared size 200 differs from record size 138", sm.Error())
	assert.True(t, IsDecodeError(err))
	assert.False(t, errors.Is(err, TrailingBytes{}))
}

func TestCountOverflow(t *testing.T) {
	err := NewCountOverflow(256, 1)
	require.EqualError(t, err, "array length 256 does not fit into 1-byte count")
	require.EqualError(t, err.Extend("additions"), "additions: array length 256 does not fit into 1-byte count")
	assert.True(t, IsEncodeError(err))
	assert.False(t, IsDecodeError(err))
	assert.True(t, errors.Is(errors.Wrap(err, "encode"), CountOverflow{}))
}

func TestInvalidRecord(t *testing.T) {
	require.EqualError(t, NewInvalidRecord("a").Extend("b"), "b: a")
	assert.True(t, IsEncodeError(NewInvalidRecord("a")))
}

func TestInvalidSchema(t *testing.T) {
	require.EqualError(t, Extend(NewInvalidSchema("a"), "b"), "b: a")
	assert.True(t, errors.Is(NewInvalidSchema("a"), InvalidSchema{}))
	assert.False(t, IsDecodeError(NewInvalidSchema("a")))
}
