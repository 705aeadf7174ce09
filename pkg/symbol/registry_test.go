package symbol

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
	"github.com/nemtech/gocatbuffer/pkg/errs"
)

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, []string{
		"AccountRestrictionAddressValue",
		"AccountRestrictionMosaicValue",
		"AccountRestrictionTransactionTypeValue",
		"AccountRestrictionsInfo",
		"AccountRestrictions",
		"TransactionHeader",
		"EmbeddedTransactionHeader",
		"AccountAddressRestrictionTransactionBody",
		"AccountAddressRestrictionTransaction",
		"EmbeddedAccountAddressRestrictionTransaction",
		"AccountMosaicRestrictionTransactionBody",
		"AccountMosaicRestrictionTransaction",
		"EmbeddedAccountMosaicRestrictionTransaction",
		"AccountOperationRestrictionTransactionBody",
		"AccountOperationRestrictionTransaction",
		"EmbeddedAccountOperationRestrictionTransaction",
	}, r.Names())
	assert.Equal(t, 16, r.Len())

	s, ok := r.Lookup("AccountRestrictions")
	require.True(t, ok)
	assert.Same(t, AccountRestrictionsSchema, s)
	s, err := r.Get("AccountRestrictionsInfo")
	require.NoError(t, err)
	assert.Same(t, AccountRestrictionsInfoSchema, s)
	_, err = r.Get("Unknown")
	assert.EqualError(t, err, `unknown schema "Unknown"`)

	b, ok := r.Body(EntityAccountOperationRestrictionTransaction)
	require.True(t, ok)
	assert.Same(t, AccountOperationRestrictionTransactionBodySchema, b)
	_, ok = r.Body(EntityTransferTransaction)
	assert.False(t, ok)
	tx, ok := r.Transaction(EntityAccountMosaicRestrictionTransaction)
	require.True(t, ok)
	assert.Same(t, AccountMosaicRestrictionTransactionSchema, tx)
	e, ok := r.Embedded(EntityAccountAddressRestrictionTransaction)
	require.True(t, ok)
	assert.Same(t, EmbeddedAccountAddressRestrictionTransactionSchema, e)
	_, ok = r.Embedded(EntityTransferTransaction)
	assert.False(t, ok)

	assert.Equal(t, []string{"AccountRestrictionFlags"}, r.FlagTables())
	ft, ok := r.FlagTable("AccountRestrictionFlags")
	require.True(t, ok)
	assert.Same(t, AccountRestrictionFlags, ft)
}

func TestRegistryRegisterFlagTable(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterFlagTable(AccountRestrictionFlags))
	require.NoError(t, r.RegisterFlagTable(AccountRestrictionFlags))
	other := catbuffer.MustFlagTable("AccountRestrictionFlags", 1, catbuffer.Flag{Name: "A", Value: 1})
	err := r.RegisterFlagTable(other)
	assert.EqualError(t, err, "flag table AccountRestrictionFlags is already registered")
	assert.Error(t, r.RegisterFlagTable(nil))
	_, ok := r.FlagTable("LinkAction")
	assert.False(t, ok)
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(AccountRestrictionMosaicValueSchema))
	require.NoError(t, r.Register(AccountRestrictionMosaicValueSchema))

	same := catbuffer.MustSchema("AccountRestrictionMosaicValue",
		catbuffer.Count("restrictionValuesCount", 8),
		catbuffer.Array("restrictionValues", "restrictionValuesCount", catbuffer.UintElement(MosaicIDSize)),
	)
	require.NoError(t, r.Register(same))

	other := catbuffer.MustSchema("AccountRestrictionMosaicValue",
		catbuffer.Count("restrictionValuesCount", 1),
		catbuffer.Array("restrictionValues", "restrictionValuesCount", catbuffer.UintElement(MosaicIDSize)),
	)
	err := r.Register(other)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.InvalidSchema{}))
	assert.Error(t, r.Register(nil))

	require.NoError(t, r.RegisterBody(EntityAccountMosaicRestrictionTransaction, AccountMosaicRestrictionTransactionBodySchema))
	err = r.RegisterBody(EntityAccountMosaicRestrictionTransaction, AccountAddressRestrictionTransactionBodySchema)
	assert.EqualError(t, err,
		"entity type ACCOUNT_MOSAIC_RESTRICTION_TRANSACTION is already bound to AccountMosaicRestrictionTransactionBody")
	assert.Equal(t, 2, r.Len())

	require.NoError(t, r.RegisterTransaction(EntityAccountMosaicRestrictionTransaction, AccountMosaicRestrictionTransactionSchema))
	err = r.RegisterEmbedded(EntityAccountMosaicRestrictionTransaction, nil)
	assert.EqualError(t, err, "nil schema")
	require.NoError(t, r.RegisterEmbedded(EntityAccountMosaicRestrictionTransaction, EmbeddedAccountMosaicRestrictionTransactionSchema))
	err = r.RegisterEmbedded(EntityAccountMosaicRestrictionTransaction, EmbeddedAccountAddressRestrictionTransactionSchema)
	assert.EqualError(t, err,
		"entity type ACCOUNT_MOSAIC_RESTRICTION_TRANSACTION is already bound to EmbeddedAccountMosaicRestrictionTransaction")
	assert.Equal(t, 4, r.Len())
}

func TestEntityTypeString(t *testing.T) {
	assert.Equal(t, "TRANSFER_TRANSACTION", EntityTransferTransaction.String())
	assert.Equal(t, "NORMAL_BLOCK_HEADER", EntityType(33091).String())
	assert.Equal(t, "EntityType(0x1234)", EntityType(0x1234).String())
	assert.True(t, EntityType(16724).Known())
	assert.False(t, EntityType(1).Known())
}

func TestRestrictionFlags(t *testing.T) {
	f := RestrictionAddress | RestrictionBlock
	assert.True(t, f.Has(RestrictionAddress))
	assert.False(t, f.Has(RestrictionOutgoing))
	assert.Equal(t, "{ADDRESS|BLOCK}", f.String())
	assert.Equal(t, []string{"ADDRESS", "BLOCK"}, f.Set().Names())
	assert.Equal(t, "{}", RestrictionFlags(0).String())
}
