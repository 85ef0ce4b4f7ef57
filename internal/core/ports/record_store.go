package ports

import (
	"context"

	"github.com/exlity/admin-backend/internal/core/domain"
)

// RecordQuery describes one read against a backend table. Conditions and
// order field are already in storage naming; the entity layer is responsible
// for field mapping before building a query.
type RecordQuery struct {
	Table      string
	Conditions map[string]any // scalar = equality, slice = inclusion; ANDed
	OrderBy    string
	Descending bool
	Limit      int // 0 = no limit
}

// RecordStore is the raw table gateway beneath the entity layer. One
// implementation exists per privilege tier: a session-scoped connection that
// honors row-level security, and a service-role connection that bypasses it.
//
// Implementations translate the backend's "relation does not exist" condition
// to domain.ErrTableNotFound and leave every other error untouched; tolerance
// policy lives above, in the entity layer.
type RecordStore interface {
	Select(ctx context.Context, q RecordQuery) ([]domain.Record, error)

	// Get returns nil, nil when no row matches.
	Get(ctx context.Context, table, id string) (domain.Record, error)

	// Insert returns the persisted row with server-assigned fields populated.
	Insert(ctx context.Context, table string, data domain.Record) (domain.Record, error)

	// Update returns nil, nil when zero rows matched the id.
	Update(ctx context.Context, table, id string, data domain.Record) (domain.Record, error)

	Delete(ctx context.Context, table, id string) error
}
