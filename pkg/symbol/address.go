package symbol

import (
	"bytes"
	"encoding/base32"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

const (
	AddressSize    = 24
	KeySize        = 32
	SignatureSize  = 64
	MosaicIDSize   = 8
	EntityTypeSize = 2

	addressBodySize     = 21
	addressChecksumSize = AddressSize - addressBodySize
)

var addressEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Address is a decoded catapult address: network byte, 20 bytes of key hash and a
// 3 byte checksum. Unresolved addresses share the layout.
type Address [AddressSize]byte

// String returns the 39 character base32 form, e.g. "SBILTA367K2LX2FEXG5TFWAS7GEFYAGY7QLFBYI".
func (a Address) String() string {
	return addressEncoding.EncodeToString(a[:])
}

func (a Address) Hex() string {
	return strings.ToUpper(hex.EncodeToString(a[:]))
}

// Valid reports whether the trailing bytes are the SHA3-256 checksum of the network byte
// and the key hash.
func (a Address) Valid() bool {
	return bytes.Equal(addressChecksum(a[:addressBodySize]), a[addressBodySize:])
}

func addressChecksum(b []byte) []byte {
	h := sha3.Sum256(b)
	return h[:addressChecksumSize]
}

// NewAddressFromBytes copies b without checking the checksum, so unresolved and
// otherwise unusual addresses embedded in records still decode.
func NewAddressFromBytes(b []byte) (Address, error) {
	var a Address
	if l := len(b); l != AddressSize {
		return a, errors.Errorf("incorrect Address size %d, expected %d", l, AddressSize)
	}
	copy(a[:], b)
	return a, nil
}

func newValidAddress(b []byte) (Address, error) {
	a, err := NewAddressFromBytes(b)
	if err != nil {
		return Address{}, err
	}
	if !a.Valid() {
		return Address{}, errors.Errorf("invalid checksum of address %s", a.Hex())
	}
	return a, nil
}

// NewAddressFromString parses the base32 form of an address and verifies its checksum;
// dashes are ignored.
func NewAddressFromString(s string) (Address, error) {
	s = strings.ToUpper(strings.ReplaceAll(s, "-", ""))
	b, err := addressEncoding.DecodeString(s)
	if err != nil {
		return Address{}, errors.Wrap(err, "invalid base32 address")
	}
	return newValidAddress(b)
}

// NewAddressFromHex parses the hexadecimal form of an address and verifies its checksum.
func NewAddressFromHex(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, errors.Wrap(err, "invalid hex address")
	}
	return newValidAddress(b)
}
