package symbol

import (
	"strings"

	cb "github.com/nemtech/gocatbuffer/pkg/catbuffer"
)

// Account restriction state.
var (
	AccountRestrictionAddressValueSchema = cb.MustSchema("AccountRestrictionAddressValue",
		cb.Count("restrictionValuesCount", 8),
		cb.Array("restrictionValues", "restrictionValuesCount", cb.FixedElement(AddressSize)),
	)

	AccountRestrictionMosaicValueSchema = cb.MustSchema("AccountRestrictionMosaicValue",
		cb.Count("restrictionValuesCount", 8),
		cb.Array("restrictionValues", "restrictionValuesCount", cb.UintElement(MosaicIDSize)),
	)

	AccountRestrictionTransactionTypeValueSchema = cb.MustSchema("AccountRestrictionTransactionTypeValue",
		cb.Count("restrictionValuesCount", 8),
		cb.Array("restrictionValues", "restrictionValuesCount", cb.UintElement(EntityTypeSize)),
	)

	AccountRestrictionsInfoSchema = cb.MustSchema("AccountRestrictionsInfo",
		cb.Flags("restrictionFlags", AccountRestrictionFlags),
		cb.Struct("addressRestrictions", AccountRestrictionAddressValueSchema).
			When("restrictionFlags", "ADDRESS"),
		cb.Struct("mosaicIdRestrictions", AccountRestrictionMosaicValueSchema).
			When("restrictionFlags", "MOSAIC_ID"),
		cb.Struct("transactionTypeRestrictions", AccountRestrictionTransactionTypeValueSchema).
			When("restrictionFlags", "TRANSACTION_TYPE"),
	)

	AccountRestrictionsSchema = cb.MustSchema("AccountRestrictions",
		cb.Uint("version", 2),
		cb.Fixed("address", AddressSize),
		cb.Count("restrictionsCount", 8),
		cb.Array("restrictions", "restrictionsCount", cb.StructElement(AccountRestrictionsInfoSchema)),
	)
)

// Account restriction transaction bodies.
var (
	AccountAddressRestrictionTransactionBodySchema = restrictionBody(
		"AccountAddressRestrictionTransactionBody", cb.FixedElement(AddressSize))

	AccountMosaicRestrictionTransactionBodySchema = restrictionBody(
		"AccountMosaicRestrictionTransactionBody", cb.UintElement(MosaicIDSize))

	AccountOperationRestrictionTransactionBodySchema = restrictionBody(
		"AccountOperationRestrictionTransactionBody", cb.UintElement(EntityTypeSize))
)

func restrictionBody(name string, e cb.Element) *cb.Schema {
	return cb.MustSchema(name,
		cb.Flags("restrictionFlags", AccountRestrictionFlags),
		cb.Count("restrictionAdditionsCount", 1),
		cb.Count("restrictionDeletionsCount", 1),
		cb.Reserved("accountRestrictionTransactionBody_Reserved1", 4),
		cb.Array("restrictionAdditions", "restrictionAdditionsCount", e),
		cb.Array("restrictionDeletions", "restrictionDeletionsCount", e),
	)
}

// Transaction envelopes. The header schemas read a plain size so that the type of any
// transaction can be peeked before its full schema is known.
var (
	TransactionHeaderSchema = cb.MustSchema("TransactionHeader",
		transactionHeader(cb.Uint("size", 4))...)

	EmbeddedTransactionHeaderSchema = cb.MustSchema("EmbeddedTransactionHeader",
		embeddedTransactionHeader(cb.Uint("size", 4))...)

	AccountAddressRestrictionTransactionSchema = transaction(
		"AccountAddressRestrictionTransaction", AccountAddressRestrictionTransactionBodySchema)
	EmbeddedAccountAddressRestrictionTransactionSchema = embeddedTransaction(
		"EmbeddedAccountAddressRestrictionTransaction", AccountAddressRestrictionTransactionBodySchema)

	AccountMosaicRestrictionTransactionSchema = transaction(
		"AccountMosaicRestrictionTransaction", AccountMosaicRestrictionTransactionBodySchema)
	EmbeddedAccountMosaicRestrictionTransactionSchema = embeddedTransaction(
		"EmbeddedAccountMosaicRestrictionTransaction", AccountMosaicRestrictionTransactionBodySchema)

	AccountOperationRestrictionTransactionSchema = transaction(
		"AccountOperationRestrictionTransaction", AccountOperationRestrictionTransactionBodySchema)
	EmbeddedAccountOperationRestrictionTransactionSchema = embeddedTransaction(
		"EmbeddedAccountOperationRestrictionTransaction", AccountOperationRestrictionTransactionBodySchema)
)

func transactionHeader(size cb.Field) []cb.Field {
	return []cb.Field{
		size,
		cb.Reserved("verifiableEntityHeader_Reserved1", 4),
		cb.Fixed("signature", SignatureSize),
		cb.Fixed("signerPublicKey", KeySize),
		cb.Reserved("entityBody_Reserved1", 4),
		cb.Uint("version", 1),
		cb.Uint("network", 1),
		cb.Uint("type", EntityTypeSize),
		cb.Uint("fee", 8),
		cb.Uint("deadline", 8),
	}
}

func embeddedTransactionHeader(size cb.Field) []cb.Field {
	return []cb.Field{
		size,
		cb.Reserved("embeddedTransactionHeader_Reserved1", 4),
		cb.Fixed("signerPublicKey", KeySize),
		cb.Reserved("entityBody_Reserved1", 4),
		cb.Uint("version", 1),
		cb.Uint("network", 1),
		cb.Uint("type", EntityTypeSize),
	}
}

func transaction(name string, body *cb.Schema) *cb.Schema {
	fields := transactionHeader(cb.SizePrefix("size", 4))
	return cb.MustSchema(name, append(fields, cb.Struct(bodyFieldName(body), body))...)
}

func embeddedTransaction(name string, body *cb.Schema) *cb.Schema {
	fields := embeddedTransactionHeader(cb.SizePrefix("size", 4))
	return cb.MustSchema(name, append(fields, cb.Struct(bodyFieldName(body), body))...)
}

// bodyFieldName returns e.g. accountAddressRestrictionTransactionBody.
func bodyFieldName(body *cb.Schema) string {
	name := body.Name()
	return strings.ToLower(name[:1]) + name[1:]
}
