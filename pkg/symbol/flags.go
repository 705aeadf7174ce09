package symbol

import "github.com/nemtech/gocatbuffer/pkg/catbuffer"

// RestrictionFlags is the raw value of the account restriction flags field.
type RestrictionFlags uint16

const (
	RestrictionAddress         RestrictionFlags = 0x0001
	RestrictionMosaicID        RestrictionFlags = 0x0002
	RestrictionTransactionType RestrictionFlags = 0x0004
	RestrictionOutgoing        RestrictionFlags = 0x4000
	RestrictionBlock           RestrictionFlags = 0x8000
)

// AccountRestrictionFlags is the flag table of the restriction flags field.
var AccountRestrictionFlags = catbuffer.MustFlagTable("AccountRestrictionFlags", 2,
	catbuffer.Flag{Name: "ADDRESS", Value: uint64(RestrictionAddress)},
	catbuffer.Flag{Name: "MOSAIC_ID", Value: uint64(RestrictionMosaicID)},
	catbuffer.Flag{Name: "TRANSACTION_TYPE", Value: uint64(RestrictionTransactionType)},
	catbuffer.Flag{Name: "OUTGOING", Value: uint64(RestrictionOutgoing)},
	catbuffer.Flag{Name: "BLOCK", Value: uint64(RestrictionBlock)},
)

func (f RestrictionFlags) Has(o RestrictionFlags) bool {
	return f&o == o
}

// Set returns the flags as a set of the AccountRestrictionFlags table. Unknown bits are kept.
func (f RestrictionFlags) Set() catbuffer.FlagSet {
	s, err := AccountRestrictionFlags.FromValue(uint64(f), true)
	if err != nil {
		panic(err) // a uint16 always fits the two byte table
	}
	return s
}

func (f RestrictionFlags) String() string {
	return f.Set().String()
}
