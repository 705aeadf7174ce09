package symbol

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemtech/gocatbuffer/pkg/errs"
)

func TestAccountAddressRestrictionTransactionBody(t *testing.T) {
	src, err := hex.DecodeString("0140" + "02" + "01" + "00000000" +
		strings.Repeat("11", 24) + strings.Repeat("22", 24) + strings.Repeat("33", 24))
	require.NoError(t, err)

	var b AccountAddressRestrictionTransactionBody
	require.NoError(t, b.UnmarshalBinary(src))
	assert.Equal(t, RestrictionAddress|RestrictionOutgoing, b.Flags)
	require.Len(t, b.Additions, 2)
	assert.Equal(t, byte(0x22), b.Additions[1][23])
	require.Len(t, b.Deletions, 1)
	assert.Equal(t, byte(0x33), b.Deletions[0][0])

	enc, err := b.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, src, enc)
}

func TestAccountMosaicRestrictionTransactionBody(t *testing.T) {
	b := AccountMosaicRestrictionTransactionBody{
		Flags:     RestrictionMosaicID | RestrictionBlock,
		Additions: []uint64{0x6BED913FA20223F8},
	}
	enc, err := b.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, "0280"+"01"+"00"+"00000000"+"F82302A23F91ED6B", strings.ToUpper(hex.EncodeToString(enc)))

	var dec AccountMosaicRestrictionTransactionBody
	require.NoError(t, dec.UnmarshalBinary(enc))
	assert.Equal(t, b.Flags, dec.Flags)
	assert.Equal(t, b.Additions, dec.Additions)
	assert.Empty(t, dec.Deletions)
}

func TestAccountOperationRestrictionTransactionBody(t *testing.T) {
	b := AccountOperationRestrictionTransactionBody{
		Flags:     RestrictionTransactionType | RestrictionOutgoing,
		Deletions: []EntityType{EntityTransferTransaction, EntityHashLockTransaction},
	}
	enc, err := b.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, "0440"+"00"+"02"+"00000000"+"5441"+"4841", strings.ToUpper(hex.EncodeToString(enc)))

	var dec AccountOperationRestrictionTransactionBody
	require.NoError(t, dec.UnmarshalBinary(enc))
	assert.Equal(t, b.Deletions, dec.Deletions)
	assert.Empty(t, dec.Additions)
}

func TestRestrictionBodyCountOverflow(t *testing.T) {
	b := AccountOperationRestrictionTransactionBody{
		Flags:     RestrictionTransactionType,
		Additions: make([]EntityType, 256),
	}
	_, err := b.MarshalBinary()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.CountOverflow{}))

	b.Additions = b.Additions[:255]
	enc, err := b.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, enc, 8+255*2)
}
