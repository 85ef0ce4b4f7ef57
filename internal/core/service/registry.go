package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

// EntityFactory builds the entity for a resolved descriptor.
type EntityFactory func(desc domain.EntityDescriptor) ports.Entity

// NewEntityFactory returns the default factory: generic entities backed by
// the session-scoped store, or the service-role store for privilege-sensitive
// descriptors.
func NewEntityFactory(sessionStore, serviceStore ports.RecordStore, logger zerolog.Logger) EntityFactory {
	return func(desc domain.EntityDescriptor) ports.Entity {
		store := sessionStore
		if desc.Elevated {
			store = serviceStore
		}
		return NewEntityService(desc.Table, desc.Elevated, store, logger)
	}
}

// Registry resolves entity names to cached entity instances. The cache is
// keyed by requested name, not table name: two names collapsing to the same
// table get independent instances. Entries are created lazily on first access
// and live for the process lifetime; resolving the same name again returns
// the identical instance, so consumers may rely on stable object identity.
type Registry struct {
	mu       sync.RWMutex
	factory  EntityFactory
	entities map[string]ports.Entity
	logger   zerolog.Logger
}

var _ ports.EntityResolver = (*Registry)(nil)

func NewRegistry(factory EntityFactory, logger zerolog.Logger) *Registry {
	return &Registry{
		factory:  factory,
		entities: make(map[string]ports.Entity),
		logger:   logger,
	}
}

// Resolve returns the entity for name, constructing and caching it on first
// access. Construction happens outside the write lock (construct-then-publish);
// when two callers race on the same name the loser's instance is discarded,
// which is harmless since entities are stateless wrappers.
func (r *Registry) Resolve(name string) ports.Entity {
	r.mu.RLock()
	entity, ok := r.entities[name]
	r.mu.RUnlock()
	if ok {
		return entity
	}

	desc := domain.DescribeEntity(name)
	entity = r.factory(desc)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entities[name]; ok {
		return existing
	}
	r.entities[name] = entity
	r.logger.Debug().
		Str("entity", name).
		Str("table", desc.Table).
		Bool("service_role", desc.Elevated).
		Msg("entity created")
	return entity
}

// Keys lists the names that have been resolved at least once. There is no
// pre-population.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entities))
	for name := range r.entities {
		keys = append(keys, name)
	}
	return keys
}
