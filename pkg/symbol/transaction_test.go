package symbol

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
	"github.com/nemtech/gocatbuffer/pkg/errs"
)

const (
	operationBody = "0440" + "01" + "00" + "00000000" + "5441"

	operationTransaction = "8A000000" + "00000000" +
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
		"BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB" +
		"00000000" + "01" + "98" + "5043" + "1000000000000000" + "2A00000000000000" +
		operationBody

	embeddedOperationTransaction = "3A000000" + "00000000" +
		"BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB" +
		"00000000" + "01" + "98" + "5043" +
		operationBody
)

func operationHeader() TransactionHeader {
	h := TransactionHeader{
		Version:  1,
		Network:  NetworkTestnet,
		Type:     EntityAccountOperationRestrictionTransaction,
		Fee:      0x10,
		Deadline: 0x2A,
	}
	copy(h.Signature[:], bytes.Repeat([]byte{0xAA}, SignatureSize))
	copy(h.Signer[:], bytes.Repeat([]byte{0xBB}, KeySize))
	return h
}

func operationBodyRecord(t *testing.T) *catbuffer.Record {
	b := AccountOperationRestrictionTransactionBody{
		Flags:     RestrictionTransactionType | RestrictionOutgoing,
		Additions: []EntityType{EntityTransferTransaction},
	}
	r, err := b.Record()
	require.NoError(t, err)
	return r
}

func mustDecodeHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestTransactionSchemas(t *testing.T) {
	assert.Equal(t, 128, TransactionHeaderSchema.MinSize())
	assert.Equal(t, 48, EmbeddedTransactionHeaderSchema.MinSize())
	assert.Equal(t, 128+8, AccountAddressRestrictionTransactionSchema.MinSize())
	assert.Equal(t, 48+8, EmbeddedAccountMosaicRestrictionTransactionSchema.MinSize())

	f, ok := AccountOperationRestrictionTransactionSchema.Field("size")
	require.True(t, ok)
	assert.Equal(t, catbuffer.KindSize, f.Kind)
	f, ok = AccountOperationRestrictionTransactionSchema.Field("accountOperationRestrictionTransactionBody")
	require.True(t, ok)
	assert.Same(t, AccountOperationRestrictionTransactionBodySchema, f.Schema)
	_, ok = EmbeddedAccountOperationRestrictionTransactionSchema.Field("signature")
	assert.False(t, ok)
}

func TestTransactionRoundTrip(t *testing.T) {
	reg := NewDefaultRegistry()
	for _, test := range []struct {
		src      string
		embedded bool
	}{
		{operationTransaction, false},
		{embeddedOperationTransaction, true},
	} {
		src := mustDecodeHex(t, test.src)
		h := operationHeader()
		if test.embedded {
			h.Signature, h.Fee, h.Deadline = [SignatureSize]byte{}, 0, 0
		}

		tx, err := reg.NewTransaction(h, operationBodyRecord(t), test.embedded)
		require.NoError(t, err)
		enc, err := catbuffer.Encode(tx)
		require.NoError(t, err)
		assert.Equal(t, src, enc)

		s, err := reg.TransactionSchemaOf(src, test.embedded)
		require.NoError(t, err)
		assert.Same(t, tx.Schema(), s)
		dec, err := catbuffer.Unmarshal(s, src)
		require.NoError(t, err)
		assert.True(t, tx.Equal(dec))

		read, err := ReadTransactionHeader(dec)
		require.NoError(t, err)
		assert.Equal(t, h, read)
	}
}

func TestTransactionSizeMismatch(t *testing.T) {
	src := mustDecodeHex(t, "8B"+operationTransaction[2:]+"00")
	_, err := catbuffer.Unmarshal(AccountOperationRestrictionTransactionSchema, src)
	require.EqualError(t, err, "AccountOperationRestrictionTransaction.size: declared size 139 differs from record size 138")
	assert.True(t, errors.Is(err, errs.SizeMismatch{}))

	src = mustDecodeHex(t, "39"+embeddedOperationTransaction[2:])
	_, err = catbuffer.Unmarshal(EmbeddedAccountOperationRestrictionTransactionSchema, src)
	assert.True(t, errors.Is(err, errs.SizeMismatch{}))
}

func TestReadEntityType(t *testing.T) {
	typ, err := ReadEntityType(mustDecodeHex(t, operationTransaction), false)
	require.NoError(t, err)
	assert.Equal(t, EntityAccountOperationRestrictionTransaction, typ)
	typ, err = ReadEntityType(mustDecodeHex(t, embeddedOperationTransaction), true)
	require.NoError(t, err)
	assert.Equal(t, EntityAccountOperationRestrictionTransaction, typ)

	_, err = ReadEntityType(mustDecodeHex(t, operationTransaction[:100]), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.UnexpectedEOF{}))

	transfer := strings.Replace(embeddedOperationTransaction, "5043", "5441", 1)
	_, err = NewDefaultRegistry().TransactionSchemaOf(mustDecodeHex(t, transfer), true)
	assert.EqualError(t, err, "no transaction schema for entity type TRANSFER_TRANSACTION")
}

func TestNewTransactionInvalid(t *testing.T) {
	reg := NewDefaultRegistry()
	h := operationHeader()

	mosaic := AccountMosaicRestrictionTransactionBody{Flags: RestrictionMosaicID}
	body, err := mosaic.Record()
	require.NoError(t, err)
	_, err = reg.NewTransaction(h, body, false)
	assert.EqualError(t, err,
		"AccountOperationRestrictionTransaction does not take a AccountMosaicRestrictionTransactionBody body")

	_, err = reg.NewTransaction(h, nil, false)
	assert.EqualError(t, err, "nil transaction body")

	h.Type = EntityTransferTransaction
	_, err = reg.NewTransaction(h, operationBodyRecord(t), true)
	assert.EqualError(t, err, "no transaction schema for entity type TRANSFER_TRANSACTION")
}

func TestNetworkType(t *testing.T) {
	assert.Equal(t, "TESTNET", NetworkTestnet.String())
	assert.Equal(t, "MAINNET", NetworkMainnet.String())
	assert.Equal(t, "NetworkType(0x01)", NetworkType(1).String())
	assert.Equal(t, NetworkPrivateTest, goldenAddress(t).Network())
}
