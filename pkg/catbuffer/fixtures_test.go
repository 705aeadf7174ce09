package catbuffer

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testFlags = MustFlagTable("RestrictionFlags", 2,
		Flag{Name: "ADDRESS", Value: 0x0001},
		Flag{Name: "MOSAIC_ID", Value: 0x0002},
		Flag{Name: "TRANSACTION_TYPE", Value: 0x0004},
		Flag{Name: "OUTGOING", Value: 0x4000},
		Flag{Name: "BLOCK", Value: 0x8000},
	)

	addressBodySchema = MustSchema("AddressRestrictionBody",
		Flags("restrictionFlags", testFlags),
		Count("restrictionAdditionsCount", 1),
		Count("restrictionDeletionsCount", 1),
		Reserved("reserved1", 4),
		Array("restrictionAdditions", "restrictionAdditionsCount", FixedElement(24)),
		Array("restrictionDeletions", "restrictionDeletionsCount", FixedElement(24)),
	)

	typeValueSchema = MustSchema("TypeValue",
		Count("restrictionValuesCount", 8),
		Array("restrictionValues", "restrictionValuesCount", UintElement(2)),
	)

	mosaicValueSchema = MustSchema("MosaicValue",
		Count("restrictionValuesCount", 8),
		Array("restrictionValues", "restrictionValuesCount", UintElement(8)),
	)

	infoSchema = MustSchema("Info",
		Flags("restrictionFlags", testFlags),
		Struct("mosaicIdRestrictions", mosaicValueSchema).When("restrictionFlags", "MOSAIC_ID"),
		Struct("transactionTypeRestrictions", typeValueSchema).When("restrictionFlags", "TRANSACTION_TYPE"),
	)

	stateSchema = MustSchema("State",
		Uint("version", 2),
		Fixed("address", 24),
		Count("restrictionsCount", 8),
		Array("restrictions", "restrictionsCount", StructElement(infoSchema)),
	)

	sizedSchema = MustSchema("Sized",
		SizePrefix("size", 4),
		Uint("version", 1),
		Count("valuesCount", 1),
		Array("values", "valuesCount", UintElement(2)),
	)

	sizedListSchema = MustSchema("SizedList",
		Count("count", 1),
		Array("items", "count", StructElement(sizedSchema)),
	)
)

func address(b byte) []byte {
	return bytes.Repeat([]byte{b}, 24)
}

func mustHex(t testing.TB, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func newAddressBody(t testing.TB, flags FlagSet, additions, deletions [][]byte) *Record {
	r := NewRecord(addressBodySchema)
	require.NoError(t, r.SetFlags("restrictionFlags", flags))
	require.NoError(t, r.SetByteArray("restrictionAdditions", additions))
	require.NoError(t, r.SetByteArray("restrictionDeletions", deletions))
	return r
}

func newTypeInfo(t testing.TB, flags FlagSet, types ...uint64) *Record {
	v := NewRecord(typeValueSchema)
	require.NoError(t, v.SetUints("restrictionValues", types))
	info := NewRecord(infoSchema)
	require.NoError(t, info.SetFlags("restrictionFlags", flags))
	require.NoError(t, info.SetStruct("transactionTypeRestrictions", v))
	return info
}

func newState(t testing.TB, infos ...*Record) *Record {
	r := NewRecord(stateSchema)
	require.NoError(t, r.SetUint("version", 1))
	require.NoError(t, r.SetBytes("address", address(0xAB)))
	require.NoError(t, r.SetRecords("restrictions", infos))
	return r
}
