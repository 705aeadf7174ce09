package render

import (
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
	"github.com/nemtech/gocatbuffer/pkg/symbol"
	"github.com/nemtech/gocatbuffer/pkg/util/common"
)

const golden = "01009050B9837EFAB4BBE8A4B9BB32D812F9885C00D8FC1650E101000000000000000440020000000000000054415441"

func goldenRecord(t testing.TB) *catbuffer.Record {
	src, err := common.FromHexString(golden)
	require.NoError(t, err)
	r, err := catbuffer.Unmarshal(symbol.AccountRestrictionsSchema, src)
	require.NoError(t, err)
	return r
}

func TestParseFormat(t *testing.T) {
	for s, expected := range map[string]Format{"": FormatText, "text": FormatText, "JSON": FormatJSON, "cbor": FormatCBOR} {
		f, err := ParseFormat(s)
		require.NoError(t, err, s)
		assert.Equal(t, expected, f, s)
	}
	_, err := ParseFormat("yaml")
	assert.EqualError(t, err, `unsupported format "yaml"`)
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "unknown", Format(42).String())
}

func TestParseBytes(t *testing.T) {
	b, err := ParseBytes("base58")
	require.NoError(t, err)
	assert.Equal(t, BytesBase58, b)
	b, err = ParseBytes("")
	require.NoError(t, err)
	assert.Equal(t, BytesHex, b)
	_, err = ParseBytes("base64")
	assert.Error(t, err)
}

func TestTextGolden(t *testing.T) {
	s, err := Text(goldenRecord(t), Options{})
	require.NoError(t, err)
	expected := "" +
		"version                  : 0100\n" +
		"address                  : 9050B9837EFAB4BBE8A4B9BB32D812F9885C00D8FC1650E1\n" +
		"restrictions_count       : 0100000000000000\n" +
		"restrictions             : [\n" +
		"  {\n" +
		"    restriction_flags        : 0440 {TRANSACTION_TYPE|OUTGOING}\n" +
		"    transaction_type_restrictions : {\n" +
		"      restriction_values_count : 0200000000000000\n" +
		"      restriction_values       : [\n" +
		"        5441\n" +
		"        5441\n" +
		"      ]\n" +
		"    }\n" +
		"  }\n" +
		"]\n"
	assert.Equal(t, expected, s)
}

func TestTextBody(t *testing.T) {
	b := symbol.AccountAddressRestrictionTransactionBody{
		Flags:     symbol.RestrictionAddress | symbol.RestrictionBlock,
		Additions: []symbol.Address{{0x90, 0x50}},
	}
	r, err := b.Record()
	require.NoError(t, err)
	s, err := Text(r, Options{Bytes: BytesBase58})
	require.NoError(t, err)
	expected := "" +
		"restriction_flags        : 0180 {ADDRESS|BLOCK}\n" +
		"restriction_additions_count : 01\n" +
		"restriction_deletions_count : 00\n" +
		"<reserved>               : 00000000\n" +
		"restriction_additions    : [\n" +
		"  " + BytesBase58.encode(b.Additions[0][:]) + "\n" +
		"]\n" +
		"restriction_deletions    : [\n" +
		"]\n"
	assert.Equal(t, expected, s)
}

func TestTextEmbeddedTransaction(t *testing.T) {
	b := symbol.AccountOperationRestrictionTransactionBody{
		Flags:     symbol.RestrictionTransactionType | symbol.RestrictionOutgoing,
		Additions: []symbol.EntityType{symbol.EntityTransferTransaction},
	}
	body, err := b.Record()
	require.NoError(t, err)
	h := symbol.TransactionHeader{
		Version: 1,
		Network: symbol.NetworkTestnet,
		Type:    symbol.EntityAccountOperationRestrictionTransaction,
	}
	tx, err := symbol.NewDefaultRegistry().NewTransaction(h, body, true)
	require.NoError(t, err)
	s, err := Text(tx, Options{})
	require.NoError(t, err)
	expected := "" +
		"size                     : 3A000000\n" +
		"<reserved>               : 00000000\n" +
		"signer_public_key        : " + strings.Repeat("0", 64) + "\n" +
		"<reserved>               : 00000000\n" +
		"version                  : 01\n" +
		"network                  : 98\n" +
		"type                     : 5043\n" +
		"account_operation_restriction_transaction_body : {\n" +
		"  restriction_flags        : 0440 {TRANSACTION_TYPE|OUTGOING}\n" +
		"  restriction_additions_count : 01\n" +
		"  restriction_deletions_count : 00\n" +
		"  <reserved>               : 00000000\n" +
		"  restriction_additions    : [\n" +
		"    5441\n" +
		"  ]\n" +
		"  restriction_deletions    : [\n" +
		"  ]\n" +
		"}\n"
	assert.Equal(t, expected, s)

	data, err := JSON(tx, Options{})
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(data, "size").Exists())
	assert.EqualValues(t, 17232, gjson.GetBytes(data, "type").Int())
}

func TestJSONGolden(t *testing.T) {
	data, err := JSON(goldenRecord(t), Options{Bytes: BytesBase58})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": 1,
		"address": "EA51UM3cKsJmEM42qx4B3y55Ux52oUXeG",
		"restrictions": [{
			"restriction_flags": ["TRANSACTION_TYPE", "OUTGOING"],
			"transaction_type_restrictions": {"restriction_values": [16724, 16724]}
		}]
	}`, string(data))

	var keys []string
	gjson.ParseBytes(data).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	assert.Equal(t, []string{"version", "address", "restrictions"}, keys)
	assert.Equal(t, int64(16724), gjson.GetBytes(data, "restrictions.0.transaction_type_restrictions.restriction_values.1").Int())
}

func TestJSONUnknownFlagsAndEmptyArrays(t *testing.T) {
	src, err := common.FromHexString("0120" + "00" + "00" + "00000000")
	require.NoError(t, err)
	r, err := catbuffer.Decode(symbol.AccountOperationRestrictionTransactionBodySchema, src, catbuffer.Lenient())
	require.NoError(t, err)
	data, err := JSON(r, Options{})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"restriction_flags":["ADDRESS","0x2000"],"restriction_additions":[],"restriction_deletions":[]}`,
		string(data))
}

func TestCBORGolden(t *testing.T) {
	data, err := CBOR(goldenRecord(t))
	require.NoError(t, err)

	var out struct {
		Version      uint16 `cbor:"version"`
		Address      []byte `cbor:"address"`
		Restrictions []struct {
			Flags  uint16 `cbor:"restriction_flags"`
			Values struct {
				Values []uint16 `cbor:"restriction_values"`
			} `cbor:"transaction_type_restrictions"`
		} `cbor:"restrictions"`
	}
	require.NoError(t, cbor.Unmarshal(data, &out))
	assert.EqualValues(t, 1, out.Version)
	assert.Equal(t, "9050B9837EFAB4BBE8A4B9BB32D812F9885C00D8FC1650E1", common.ToHexString(out.Address))
	require.Len(t, out.Restrictions, 1)
	assert.EqualValues(t, 0x4004, out.Restrictions[0].Flags)
	assert.Equal(t, []uint16{0x4154, 0x4154}, out.Restrictions[0].Values.Values)

	again, err := CBOR(goldenRecord(t))
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestRenderInvalidRecord(t *testing.T) {
	r := catbuffer.NewRecord(symbol.AccountRestrictionsSchema)
	for _, f := range []Format{FormatText, FormatJSON, FormatCBOR} {
		_, err := Render(r, f, Options{})
		assert.Error(t, err, f.String())
	}
	_, err := Render(nil, FormatText, Options{})
	assert.EqualError(t, err, "nil record")
	_, err = Render(goldenRecord(t), Format(7), Options{})
	assert.Error(t, err)
}

func TestRenderDispatch(t *testing.T) {
	r := goldenRecord(t)
	text, err := Render(r, FormatText, Options{})
	require.NoError(t, err)
	expected, err := Text(r, Options{})
	require.NoError(t, err)
	assert.Equal(t, expected, string(text))

	data, err := Render(r, FormatJSON, Options{})
	require.NoError(t, err)
	assert.True(t, gjson.ValidBytes(data))
}
