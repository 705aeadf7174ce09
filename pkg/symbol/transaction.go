package symbol

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
)

// NetworkType is the first byte of an address and the network field of a transaction.
type NetworkType uint8

const (
	NetworkMainnet     NetworkType = 0x68
	NetworkPrivate     NetworkType = 0x78
	NetworkPrivateTest NetworkType = 0x90
	NetworkTestnet     NetworkType = 0x98
)

func (n NetworkType) String() string {
	switch n {
	case NetworkMainnet:
		return "MAINNET"
	case NetworkPrivate:
		return "PRIVATE"
	case NetworkPrivateTest:
		return "PRIVATE_TEST"
	case NetworkTestnet:
		return "TESTNET"
	default:
		return fmt.Sprintf("NetworkType(0x%02X)", uint8(n))
	}
}

// Network returns the network the address belongs to.
func (a Address) Network() NetworkType {
	return NetworkType(a[0])
}

// TransactionHeader is the part of a transaction that precedes its body. Embedded
// transactions carry no signature, fee and deadline.
type TransactionHeader struct {
	Signature [SignatureSize]byte
	Signer    [KeySize]byte
	Version   uint8
	Network   NetworkType
	Type      EntityType
	Fee       uint64
	Deadline  uint64
}

// ReadEntityType returns the type of the transaction at the beginning of b without
// decoding its body.
func ReadEntityType(b []byte, embedded bool) (EntityType, error) {
	s := TransactionHeaderSchema
	if embedded {
		s = EmbeddedTransactionHeaderSchema
	}
	r, err := catbuffer.Decode(s, b)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read transaction header")
	}
	t, err := r.Uint("type")
	if err != nil {
		return 0, err
	}
	return EntityType(t), nil
}

// TransactionSchemaOf returns the schema of the transaction at the beginning of b.
func (r *Registry) TransactionSchemaOf(b []byte, embedded bool) (*catbuffer.Schema, error) {
	t, err := ReadEntityType(b, embedded)
	if err != nil {
		return nil, err
	}
	s, ok := r.Transaction(t)
	if embedded {
		s, ok = r.Embedded(t)
	}
	if !ok {
		return nil, errors.Errorf("no transaction schema for entity type %s", t)
	}
	return s, nil
}

// NewTransaction wraps the body into the transaction bound to h.Type. The size of the
// transaction is derived on encode.
func (r *Registry) NewTransaction(h TransactionHeader, body *catbuffer.Record, embedded bool) (*catbuffer.Record, error) {
	s, ok := r.Transaction(h.Type)
	if embedded {
		s, ok = r.Embedded(h.Type)
	}
	if !ok {
		return nil, errors.Errorf("no transaction schema for entity type %s", h.Type)
	}
	if body == nil {
		return nil, errors.New("nil transaction body")
	}
	f := s.Fields()
	bf := f[len(f)-1]
	if bf.Kind != catbuffer.KindStruct || bf.Schema.Fingerprint() != body.Schema().Fingerprint() {
		return nil, errors.Errorf("%s does not take a %s body", s.Name(), body.Schema().Name())
	}

	tx := catbuffer.NewRecord(s)
	set := []error{
		tx.SetBytes("signerPublicKey", h.Signer[:]),
		tx.SetUint("version", uint64(h.Version)),
		tx.SetUint("network", uint64(h.Network)),
		tx.SetUint("type", uint64(h.Type)),
		tx.SetStruct(bf.Name, body),
	}
	if !embedded {
		set = append(set,
			tx.SetBytes("signature", h.Signature[:]),
			tx.SetUint("fee", h.Fee),
			tx.SetUint("deadline", h.Deadline),
		)
	}
	for _, err := range set {
		if err != nil {
			return nil, err
		}
	}
	return tx, nil
}

// ReadTransactionHeader extracts the header fields of a transaction record. Fields an
// embedded transaction does not carry are left zero.
func ReadTransactionHeader(tx *catbuffer.Record) (TransactionHeader, error) {
	var h TransactionHeader
	signer, err := tx.Bytes("signerPublicKey")
	if err != nil {
		return h, err
	}
	copy(h.Signer[:], signer)
	version, err := tx.Uint("version")
	if err != nil {
		return h, err
	}
	network, err := tx.Uint("network")
	if err != nil {
		return h, err
	}
	t, err := tx.Uint("type")
	if err != nil {
		return h, err
	}
	h.Version, h.Network, h.Type = uint8(version), NetworkType(network), EntityType(t)
	if _, ok := tx.Schema().Field("signature"); !ok {
		return h, nil
	}
	signature, err := tx.Bytes("signature")
	if err != nil {
		return h, err
	}
	copy(h.Signature[:], signature)
	if h.Fee, err = tx.Uint("fee"); err != nil {
		return h, err
	}
	if h.Deadline, err = tx.Uint("deadline"); err != nil {
		return h, err
	}
	return h, nil
}
