package symbol

import "fmt"

// EntityType identifies a block or transaction type on the wire.
type EntityType uint16

const (
	EntityReserved                               EntityType = 0x0000
	EntityNemesisBlockHeader                     EntityType = 0x8043
	EntityNormalBlockHeader                      EntityType = 0x8143
	EntityImportanceBlockHeader                  EntityType = 0x8243
	EntityAccountKeyLinkTransaction              EntityType = 0x414C
	EntityNodeKeyLinkTransaction                 EntityType = 0x424C
	EntityAggregateCompleteTransaction           EntityType = 0x4141
	EntityAggregateBondedTransaction             EntityType = 0x4241
	EntityVotingKeyLinkTransaction               EntityType = 0x4143
	EntityVrfKeyLinkTransaction                  EntityType = 0x4243
	EntityHashLockTransaction                    EntityType = 0x4148
	EntitySecretLockTransaction                  EntityType = 0x4152
	EntitySecretProofTransaction                 EntityType = 0x4252
	EntityAccountMetadataTransaction             EntityType = 0x4144
	EntityMosaicMetadataTransaction              EntityType = 0x4244
	EntityNamespaceMetadataTransaction           EntityType = 0x4344
	EntityMosaicDefinitionTransaction            EntityType = 0x414D
	EntityMosaicSupplyChangeTransaction          EntityType = 0x424D
	EntityMultisigAccountModificationTransaction EntityType = 0x4155
	EntityAddressAliasTransaction                EntityType = 0x424E
	EntityMosaicAliasTransaction                 EntityType = 0x434E
	EntityNamespaceRegistrationTransaction       EntityType = 0x414E
	EntityAccountAddressRestrictionTransaction   EntityType = 0x4150
	EntityAccountMosaicRestrictionTransaction    EntityType = 0x4250
	EntityAccountOperationRestrictionTransaction EntityType = 0x4350
	EntityMosaicAddressRestrictionTransaction    EntityType = 0x4251
	EntityMosaicGlobalRestrictionTransaction     EntityType = 0x4151
	EntityTransferTransaction                    EntityType = 0x4154
)

var entityTypeNames = map[EntityType]string{
	EntityReserved:                               "RESERVED",
	EntityNemesisBlockHeader:                     "NEMESIS_BLOCK_HEADER",
	EntityNormalBlockHeader:                      "NORMAL_BLOCK_HEADER",
	EntityImportanceBlockHeader:                  "IMPORTANCE_BLOCK_HEADER",
	EntityAccountKeyLinkTransaction:              "ACCOUNT_KEY_LINK_TRANSACTION",
	EntityNodeKeyLinkTransaction:                 "NODE_KEY_LINK_TRANSACTION",
	EntityAggregateCompleteTransaction:           "AGGREGATE_COMPLETE_TRANSACTION",
	EntityAggregateBondedTransaction:             "AGGREGATE_BONDED_TRANSACTION",
	EntityVotingKeyLinkTransaction:               "VOTING_KEY_LINK_TRANSACTION",
	EntityVrfKeyLinkTransaction:                  "VRF_KEY_LINK_TRANSACTION",
	EntityHashLockTransaction:                    "HASH_LOCK_TRANSACTION",
	EntitySecretLockTransaction:                  "SECRET_LOCK_TRANSACTION",
	EntitySecretProofTransaction:                 "SECRET_PROOF_TRANSACTION",
	EntityAccountMetadataTransaction:             "ACCOUNT_METADATA_TRANSACTION",
	EntityMosaicMetadataTransaction:              "MOSAIC_METADATA_TRANSACTION",
	EntityNamespaceMetadataTransaction:           "NAMESPACE_METADATA_TRANSACTION",
	EntityMosaicDefinitionTransaction:            "MOSAIC_DEFINITION_TRANSACTION",
	EntityMosaicSupplyChangeTransaction:          "MOSAIC_SUPPLY_CHANGE_TRANSACTION",
	EntityMultisigAccountModificationTransaction: "MULTISIG_ACCOUNT_MODIFICATION_TRANSACTION",
	EntityAddressAliasTransaction:                "ADDRESS_ALIAS_TRANSACTION",
	EntityMosaicAliasTransaction:                 "MOSAIC_ALIAS_TRANSACTION",
	EntityNamespaceRegistrationTransaction:       "NAMESPACE_REGISTRATION_TRANSACTION",
	EntityAccountAddressRestrictionTransaction:   "ACCOUNT_ADDRESS_RESTRICTION_TRANSACTION",
	EntityAccountMosaicRestrictionTransaction:    "ACCOUNT_MOSAIC_RESTRICTION_TRANSACTION",
	EntityAccountOperationRestrictionTransaction: "ACCOUNT_OPERATION_RESTRICTION_TRANSACTION",
	EntityMosaicAddressRestrictionTransaction:    "MOSAIC_ADDRESS_RESTRICTION_TRANSACTION",
	EntityMosaicGlobalRestrictionTransaction:     "MOSAIC_GLOBAL_RESTRICTION_TRANSACTION",
	EntityTransferTransaction:                    "TRANSFER_TRANSACTION",
}

func (t EntityType) String() string {
	if n, ok := entityTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("EntityType(0x%04X)", uint16(t))
}

// Known reports whether the type is one of the declared entity types.
func (t EntityType) Known() bool {
	_, ok := entityTypeNames[t]
	return ok
}
