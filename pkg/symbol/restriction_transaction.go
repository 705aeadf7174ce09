package symbol

import (
	"github.com/pkg/errors"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
)

// AccountAddressRestrictionTransactionBody adds and removes address restrictions of the
// signer account.
type AccountAddressRestrictionTransactionBody struct {
	Flags     RestrictionFlags
	Additions []Address
	Deletions []Address
}

func (b *AccountAddressRestrictionTransactionBody) Record() (*catbuffer.Record, error) {
	r, err := newBodyRecord(AccountAddressRestrictionTransactionBodySchema, b.Flags)
	if err != nil {
		return nil, err
	}
	if err := r.SetByteArray("restrictionAdditions", addressesToBytes(b.Additions)); err != nil {
		return nil, err
	}
	if err := r.SetByteArray("restrictionDeletions", addressesToBytes(b.Deletions)); err != nil {
		return nil, err
	}
	return r, nil
}

func (b *AccountAddressRestrictionTransactionBody) MarshalBinary() ([]byte, error) {
	r, err := b.Record()
	if err != nil {
		return nil, err
	}
	return catbuffer.Encode(r)
}

func (b *AccountAddressRestrictionTransactionBody) UnmarshalBinary(data []byte) error {
	r, err := catbuffer.Unmarshal(AccountAddressRestrictionTransactionBodySchema, data)
	if err != nil {
		return errors.Wrap(err, "failed to unmarshal AccountAddressRestrictionTransactionBody")
	}
	flags, err := r.Flags("restrictionFlags")
	if err != nil {
		return err
	}
	additions, err := r.ByteArray("restrictionAdditions")
	if err != nil {
		return err
	}
	deletions, err := r.ByteArray("restrictionDeletions")
	if err != nil {
		return err
	}
	out := AccountAddressRestrictionTransactionBody{Flags: RestrictionFlags(flags.Value())}
	if out.Additions, err = bytesToAddresses(additions); err != nil {
		return err
	}
	if out.Deletions, err = bytesToAddresses(deletions); err != nil {
		return err
	}
	*b = out
	return nil
}

// AccountMosaicRestrictionTransactionBody adds and removes mosaic restrictions.
type AccountMosaicRestrictionTransactionBody struct {
	Flags     RestrictionFlags
	Additions []uint64
	Deletions []uint64
}

func (b *AccountMosaicRestrictionTransactionBody) Record() (*catbuffer.Record, error) {
	r, err := newBodyRecord(AccountMosaicRestrictionTransactionBodySchema, b.Flags)
	if err != nil {
		return nil, err
	}
	if err := r.SetUints("restrictionAdditions", b.Additions); err != nil {
		return nil, err
	}
	if err := r.SetUints("restrictionDeletions", b.Deletions); err != nil {
		return nil, err
	}
	return r, nil
}

func (b *AccountMosaicRestrictionTransactionBody) MarshalBinary() ([]byte, error) {
	r, err := b.Record()
	if err != nil {
		return nil, err
	}
	return catbuffer.Encode(r)
}

func (b *AccountMosaicRestrictionTransactionBody) UnmarshalBinary(data []byte) error {
	r, err := catbuffer.Unmarshal(AccountMosaicRestrictionTransactionBodySchema, data)
	if err != nil {
		return errors.Wrap(err, "failed to unmarshal AccountMosaicRestrictionTransactionBody")
	}
	flags, additions, deletions, err := uintBody(r)
	if err != nil {
		return err
	}
	*b = AccountMosaicRestrictionTransactionBody{Flags: flags, Additions: additions, Deletions: deletions}
	return nil
}

// AccountOperationRestrictionTransactionBody adds and removes transaction type restrictions.
type AccountOperationRestrictionTransactionBody struct {
	Flags     RestrictionFlags
	Additions []EntityType
	Deletions []EntityType
}

func (b *AccountOperationRestrictionTransactionBody) Record() (*catbuffer.Record, error) {
	r, err := newBodyRecord(AccountOperationRestrictionTransactionBodySchema, b.Flags)
	if err != nil {
		return nil, err
	}
	if err := r.SetUints("restrictionAdditions", entityTypesToUints(b.Additions)); err != nil {
		return nil, err
	}
	if err := r.SetUints("restrictionDeletions", entityTypesToUints(b.Deletions)); err != nil {
		return nil, err
	}
	return r, nil
}

func (b *AccountOperationRestrictionTransactionBody) MarshalBinary() ([]byte, error) {
	r, err := b.Record()
	if err != nil {
		return nil, err
	}
	return catbuffer.Encode(r)
}

func (b *AccountOperationRestrictionTransactionBody) UnmarshalBinary(data []byte) error {
	r, err := catbuffer.Unmarshal(AccountOperationRestrictionTransactionBodySchema, data)
	if err != nil {
		return errors.Wrap(err, "failed to unmarshal AccountOperationRestrictionTransactionBody")
	}
	flags, additions, deletions, err := uintBody(r)
	if err != nil {
		return err
	}
	*b = AccountOperationRestrictionTransactionBody{
		Flags:     flags,
		Additions: uintsToEntityTypes(additions),
		Deletions: uintsToEntityTypes(deletions),
	}
	return nil
}

func newBodyRecord(s *catbuffer.Schema, flags RestrictionFlags) (*catbuffer.Record, error) {
	r := catbuffer.NewRecord(s)
	if err := r.SetFlags("restrictionFlags", flags.Set()); err != nil {
		return nil, err
	}
	return r, nil
}

func uintBody(r *catbuffer.Record) (RestrictionFlags, []uint64, []uint64, error) {
	flags, err := r.Flags("restrictionFlags")
	if err != nil {
		return 0, nil, nil, err
	}
	additions, err := r.Uints("restrictionAdditions")
	if err != nil {
		return 0, nil, nil, err
	}
	deletions, err := r.Uints("restrictionDeletions")
	if err != nil {
		return 0, nil, nil, err
	}
	return RestrictionFlags(flags.Value()), additions, deletions, nil
}
