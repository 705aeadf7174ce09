package symbol

import (
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/pkg/errors"

	"github.com/nemtech/gocatbuffer/pkg/catbuffer"
	"github.com/nemtech/gocatbuffer/pkg/errs"
)

// Registry resolves schemas and flag tables by name, and transaction body, transaction
// and embedded transaction schemas by entity type. Names are kept in registration order.
type Registry struct {
	mu           sync.RWMutex
	schemas      *orderedmap.OrderedMap[string, *catbuffer.Schema]
	tables       *orderedmap.OrderedMap[string, *catbuffer.FlagTable]
	bodies       map[EntityType]*catbuffer.Schema
	transactions map[EntityType]*catbuffer.Schema
	embedded     map[EntityType]*catbuffer.Schema
}

func NewRegistry() *Registry {
	return &Registry{
		schemas:      orderedmap.NewOrderedMap[string, *catbuffer.Schema](),
		tables:       orderedmap.NewOrderedMap[string, *catbuffer.FlagTable](),
		bodies:       make(map[EntityType]*catbuffer.Schema),
		transactions: make(map[EntityType]*catbuffer.Schema),
		embedded:     make(map[EntityType]*catbuffer.Schema),
	}
}

// NewDefaultRegistry returns a registry holding every built-in schema.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	if err := r.RegisterFlagTable(AccountRestrictionFlags); err != nil {
		panic(err)
	}
	for _, s := range []*catbuffer.Schema{
		AccountRestrictionAddressValueSchema,
		AccountRestrictionMosaicValueSchema,
		AccountRestrictionTransactionTypeValueSchema,
		AccountRestrictionsInfoSchema,
		AccountRestrictionsSchema,
		TransactionHeaderSchema,
		EmbeddedTransactionHeaderSchema,
	} {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	for _, b := range []struct {
		t                  EntityType
		body, tx, embedded *catbuffer.Schema
	}{
		{
			EntityAccountAddressRestrictionTransaction,
			AccountAddressRestrictionTransactionBodySchema,
			AccountAddressRestrictionTransactionSchema,
			EmbeddedAccountAddressRestrictionTransactionSchema,
		},
		{
			EntityAccountMosaicRestrictionTransaction,
			AccountMosaicRestrictionTransactionBodySchema,
			AccountMosaicRestrictionTransactionSchema,
			EmbeddedAccountMosaicRestrictionTransactionSchema,
		},
		{
			EntityAccountOperationRestrictionTransaction,
			AccountOperationRestrictionTransactionBodySchema,
			AccountOperationRestrictionTransactionSchema,
			EmbeddedAccountOperationRestrictionTransactionSchema,
		},
	} {
		if err := r.RegisterBody(b.t, b.body); err != nil {
			panic(err)
		}
		if err := r.RegisterTransaction(b.t, b.tx); err != nil {
			panic(err)
		}
		if err := r.RegisterEmbedded(b.t, b.embedded); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds the schema under its name. Registering a schema with the same layout
// twice is a no-op; a different layout under a taken name is an error.
func (r *Registry) Register(s *catbuffer.Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(s)
}

func (r *Registry) register(s *catbuffer.Schema) error {
	if s == nil {
		return errs.NewInvalidSchema("nil schema")
	}
	if prev, ok := r.schemas.Get(s.Name()); ok {
		if prev.Fingerprint() == s.Fingerprint() {
			return nil
		}
		return errs.NewInvalidSchema("schema " + s.Name() + " is already registered with a different layout")
	}
	r.schemas.Set(s.Name(), s)
	return nil
}

// RegisterFlagTable adds the table under its name. A table can be registered once.
func (r *Registry) RegisterFlagTable(t *catbuffer.FlagTable) error {
	if t == nil {
		return errs.NewInvalidSchema("nil flag table")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.tables.Get(t.Name()); ok && prev != t {
		return errs.NewInvalidSchema("flag table " + t.Name() + " is already registered")
	}
	r.tables.Set(t.Name(), t)
	return nil
}

func (r *Registry) FlagTable(name string) (*catbuffer.FlagTable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tables.Get(name)
}

// FlagTables returns table names in registration order.
func (r *Registry) FlagTables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, r.tables.Len())
	for el := r.tables.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// RegisterBody adds the schema and binds it to the entity type as its transaction body.
func (r *Registry) RegisterBody(t EntityType, s *catbuffer.Schema) error {
	return r.bind(r.bodies, t, s)
}

// RegisterTransaction adds the schema and binds it to the entity type as its top-level
// transaction.
func (r *Registry) RegisterTransaction(t EntityType, s *catbuffer.Schema) error {
	return r.bind(r.transactions, t, s)
}

// RegisterEmbedded adds the schema and binds it to the entity type as its embedded
// transaction.
func (r *Registry) RegisterEmbedded(t EntityType, s *catbuffer.Schema) error {
	return r.bind(r.embedded, t, s)
}

func (r *Registry) bind(m map[EntityType]*catbuffer.Schema, t EntityType, s *catbuffer.Schema) error {
	if s == nil {
		return errs.NewInvalidSchema("nil schema")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := m[t]; ok && prev.Fingerprint() != s.Fingerprint() {
		return errs.NewInvalidSchema("entity type " + t.String() + " is already bound to " + prev.Name())
	}
	if err := r.register(s); err != nil {
		return err
	}
	m[t] = s
	return nil
}

func (r *Registry) Lookup(name string) (*catbuffer.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemas.Get(name)
}

// Get is like Lookup but returns an error naming the missing schema.
func (r *Registry) Get(name string) (*catbuffer.Schema, error) {
	s, ok := r.Lookup(name)
	if !ok {
		return nil, errors.Errorf("unknown schema %q", name)
	}
	return s, nil
}

// Body returns the transaction body schema bound to the entity type.
func (r *Registry) Body(t EntityType) (*catbuffer.Schema, bool) {
	return r.bound(r.bodies, t)
}

// Transaction returns the top-level transaction schema bound to the entity type.
func (r *Registry) Transaction(t EntityType) (*catbuffer.Schema, bool) {
	return r.bound(r.transactions, t)
}

// Embedded returns the embedded transaction schema bound to the entity type.
func (r *Registry) Embedded(t EntityType) (*catbuffer.Schema, bool) {
	return r.bound(r.embedded, t)
}

func (r *Registry) bound(m map[EntityType]*catbuffer.Schema, t EntityType) (*catbuffer.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := m[t]
	return s, ok
}

// Names returns schema names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, r.schemas.Len())
	for el := r.schemas.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemas.Len()
}
