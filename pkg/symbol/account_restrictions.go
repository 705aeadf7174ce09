package symbol

import (
	"github.com/pkg/errors"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
)

// AccountRestrictionsInfo is one restriction entry of an account. Only the value list
// matching a set flag is serialized.
type AccountRestrictionsInfo struct {
	Flags            RestrictionFlags
	Addresses        []Address
	MosaicIDs        []uint64
	TransactionTypes []EntityType
}

// AccountRestrictions is the restriction state of an account.
type AccountRestrictions struct {
	Version      uint16
	Address      Address
	Restrictions []AccountRestrictionsInfo
}

func (a *AccountRestrictions) MarshalBinary() ([]byte, error) {
	r, err := a.Record()
	if err != nil {
		return nil, err
	}
	return catbuffer.Encode(r)
}

func (a *AccountRestrictions) UnmarshalBinary(data []byte) error {
	r, err := catbuffer.Unmarshal(AccountRestrictionsSchema, data)
	if err != nil {
		return errors.Wrap(err, "failed to unmarshal AccountRestrictions")
	}
	return a.FromRecord(r)
}

func (a *AccountRestrictions) BinarySize() (int, error) {
	r, err := a.Record()
	if err != nil {
		return 0, err
	}
	return catbuffer.SizeOf(r)
}

// Record converts the value into a generic record of AccountRestrictionsSchema.
func (a *AccountRestrictions) Record() (*catbuffer.Record, error) {
	r := catbuffer.NewRecord(AccountRestrictionsSchema)
	if err := r.SetUint("version", uint64(a.Version)); err != nil {
		return nil, err
	}
	if err := r.SetBytes("address", a.Address[:]); err != nil {
		return nil, err
	}
	infos := make([]*catbuffer.Record, len(a.Restrictions))
	for i := range a.Restrictions {
		info, err := a.Restrictions[i].Record()
		if err != nil {
			return nil, errors.Wrapf(err, "restriction %d", i)
		}
		infos[i] = info
	}
	if err := r.SetRecords("restrictions", infos); err != nil {
		return nil, err
	}
	return r, nil
}

func (a *AccountRestrictions) FromRecord(r *catbuffer.Record) error {
	if r.Schema() != AccountRestrictionsSchema {
		return errors.Errorf("record of %s is not AccountRestrictions", r.Schema().Name())
	}
	version, err := r.Uint("version")
	if err != nil {
		return err
	}
	raw, err := r.Bytes("address")
	if err != nil {
		return err
	}
	addr, err := NewAddressFromBytes(raw)
	if err != nil {
		return err
	}
	infos, err := r.Records("restrictions")
	if err != nil {
		return err
	}
	restrictions := make([]AccountRestrictionsInfo, len(infos))
	for i, info := range infos {
		if err := restrictions[i].FromRecord(info); err != nil {
			return errors.Wrapf(err, "restriction %d", i)
		}
	}
	a.Version = uint16(version)
	a.Address = addr
	a.Restrictions = restrictions
	return nil
}

func (i *AccountRestrictionsInfo) Record() (*catbuffer.Record, error) {
	r := catbuffer.NewRecord(AccountRestrictionsInfoSchema)
	if err := r.SetFlags("restrictionFlags", i.Flags.Set()); err != nil {
		return nil, err
	}
	if i.Flags.Has(RestrictionAddress) {
		v := catbuffer.NewRecord(AccountRestrictionAddressValueSchema)
		if err := v.SetByteArray("restrictionValues", addressesToBytes(i.Addresses)); err != nil {
			return nil, err
		}
		if err := r.SetStruct("addressRestrictions", v); err != nil {
			return nil, err
		}
	} else if len(i.Addresses) != 0 {
		return nil, errors.New("addresses are set without the ADDRESS flag")
	}
	if i.Flags.Has(RestrictionMosaicID) {
		v := catbuffer.NewRecord(AccountRestrictionMosaicValueSchema)
		if err := v.SetUints("restrictionValues", i.MosaicIDs); err != nil {
			return nil, err
		}
		if err := r.SetStruct("mosaicIdRestrictions", v); err != nil {
			return nil, err
		}
	} else if len(i.MosaicIDs) != 0 {
		return nil, errors.New("mosaic ids are set without the MOSAIC_ID flag")
	}
	if i.Flags.Has(RestrictionTransactionType) {
		v := catbuffer.NewRecord(AccountRestrictionTransactionTypeValueSchema)
		if err := v.SetUints("restrictionValues", entityTypesToUints(i.TransactionTypes)); err != nil {
			return nil, err
		}
		if err := r.SetStruct("transactionTypeRestrictions", v); err != nil {
			return nil, err
		}
	} else if len(i.TransactionTypes) != 0 {
		return nil, errors.New("transaction types are set without the TRANSACTION_TYPE flag")
	}
	return r, nil
}

func (i *AccountRestrictionsInfo) FromRecord(r *catbuffer.Record) error {
	flags, err := r.Flags("restrictionFlags")
	if err != nil {
		return err
	}
	var out AccountRestrictionsInfo
	out.Flags = RestrictionFlags(flags.Value())
	if r.Has("addressRestrictions") {
		v, err := r.Struct("addressRestrictions")
		if err != nil {
			return err
		}
		items, err := v.ByteArray("restrictionValues")
		if err != nil {
			return err
		}
		if out.Addresses, err = bytesToAddresses(items); err != nil {
			return err
		}
	}
	if r.Has("mosaicIdRestrictions") {
		v, err := r.Struct("mosaicIdRestrictions")
		if err != nil {
			return err
		}
		if out.MosaicIDs, err = v.Uints("restrictionValues"); err != nil {
			return err
		}
	}
	if r.Has("transactionTypeRestrictions") {
		v, err := r.Struct("transactionTypeRestrictions")
		if err != nil {
			return err
		}
		items, err := v.Uints("restrictionValues")
		if err != nil {
			return err
		}
		out.TransactionTypes = uintsToEntityTypes(items)
	}
	*i = out
	return nil
}

func addressesToBytes(addresses []Address) [][]byte {
	out := make([][]byte, len(addresses))
	for i := range addresses {
		out[i] = addresses[i][:]
	}
	return out
}

func bytesToAddresses(items [][]byte) ([]Address, error) {
	out := make([]Address, len(items))
	for i, b := range items {
		a, err := NewAddressFromBytes(b)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func entityTypesToUints(types []EntityType) []uint64 {
	out := make([]uint64, len(types))
	for i, t := range types {
		out[i] = uint64(t)
	}
	return out
}

// uintsToEntityTypes expects values decoded from two byte elements.
func uintsToEntityTypes(items []uint64) []EntityType {
	out := make([]EntityType, len(items))
	for i, v := range items {
		out[i] = EntityType(v)
	}
	return out
}
