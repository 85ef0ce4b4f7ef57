package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

const defaultOrderField = "created_at"

// EntityService wraps one backend table with the legacy SDK call surface:
// list/filter/get/create/update/delete with field mapping applied on every
// path. Instances are stateless wrappers over a store handle and are safe for
// concurrent use.
type EntityService struct {
	table    string
	elevated bool
	store    ports.RecordStore
	logger   zerolog.Logger
}

func NewEntityService(table string, elevated bool, store ports.RecordStore, logger zerolog.Logger) *EntityService {
	return &EntityService{
		table:    table,
		elevated: elevated,
		store:    store,
		logger:   logger.With().Str("table", table).Logger(),
	}
}

// Table returns the backend table this entity is bound to.
func (s *EntityService) Table() string { return s.table }

// Elevated reports whether this entity uses the service-role connection.
func (s *EntityService) Elevated() bool { return s.elevated }

// parseOrder resolves an order expression to a storage field and direction.
// A leading '-' requests descending order; legacy timestamp aliases are
// accepted on either form. Empty input falls back to created_at ascending.
func parseOrder(orderBy string) (field string, descending bool) {
	if orderBy == "" {
		return defaultOrderField, false
	}
	if rest, ok := strings.CutPrefix(orderBy, "-"); ok {
		return domain.ToStorageField(rest), true
	}
	return domain.ToStorageField(orderBy), false
}

// mapConditions field-maps condition keys; values stay untouched (a slice
// value becomes an inclusion test downstream, a scalar an equality test).
func mapConditions(conditions map[string]any) map[string]any {
	if len(conditions) == 0 {
		return nil
	}
	mapped := make(map[string]any, len(conditions))
	for k, v := range conditions {
		mapped[domain.ToStorageField(k)] = v
	}
	return mapped
}

// List returns records ordered by orderBy (default created_at ascending),
// capped at limit when positive. A missing table yields an empty slice with
// a warning rather than an error, tolerating entities that were referenced
// by name but never provisioned in this environment.
func (s *EntityService) List(ctx context.Context, orderBy string, limit int) ([]domain.Record, error) {
	return s.Filter(ctx, nil, orderBy, limit)
}

// Filter returns records matching every condition (conjunction only), with
// the same ordering, limit, and missing-table semantics as List.
func (s *EntityService) Filter(ctx context.Context, conditions map[string]any, orderBy string, limit int) ([]domain.Record, error) {
	q := ports.RecordQuery{
		Table:      s.table,
		Conditions: mapConditions(conditions),
		Limit:      limit,
	}
	q.OrderBy, q.Descending = parseOrder(orderBy)

	rows, err := s.store.Select(ctx, q)
	if err != nil {
		if errors.Is(err, domain.ErrTableNotFound) {
			s.logger.Warn().Msg("table does not exist, returning empty result")
			return []domain.Record{}, nil
		}
		s.logger.Error().Err(err).Str("operation", "filter").Msg("select failed")
		return nil, err
	}
	if rows == nil {
		return []domain.Record{}, nil
	}
	return domain.FromStorageRecords(rows), nil
}

// Get returns the record with the given id, or nil when absent — zero rows is
// not an error. A missing table also yields nil, with a warning.
func (s *EntityService) Get(ctx context.Context, id string) (domain.Record, error) {
	row, err := s.store.Get(ctx, s.table, id)
	if err != nil {
		if errors.Is(err, domain.ErrTableNotFound) {
			s.logger.Warn().Str("id", id).Msg("table does not exist, returning nil")
			return nil, nil
		}
		s.logger.Error().Err(err).Str("operation", "get").Str("id", id).Msg("get failed")
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return domain.FromStorageRecord(row), nil
}

// Create persists a new record and returns it with server-assigned fields
// (id, timestamps) populated. A missing table is a configuration error here:
// the caller expects a created entity back, so this path never no-ops.
func (s *EntityService) Create(ctx context.Context, data domain.Record) (domain.Record, error) {
	row, err := s.store.Insert(ctx, s.table, domain.ToStorageRecord(data))
	if err != nil {
		if errors.Is(err, domain.ErrTableNotFound) {
			s.logger.Warn().Msg("table does not exist, cannot create record")
			return nil, &domain.TableUnavailableError{Table: s.table}
		}
		s.logger.Error().Err(err).Str("operation", "create").Msg("insert failed")
		return nil, err
	}
	return domain.FromStorageRecord(row), nil
}

// Update applies a partial update to the record with the given id, always
// stamping the storage-side updated_at with the current time regardless of
// caller input. Zero matched rows returns nil, nil — updating a row that's
// gone is a normal race, not a fault.
func (s *EntityService) Update(ctx context.Context, id string, data domain.Record) (domain.Record, error) {
	mapped := domain.ToStorageRecord(data)
	if mapped == nil {
		mapped = domain.Record{}
	}
	mapped["updated_at"] = time.Now().UTC()

	row, err := s.store.Update(ctx, s.table, id, mapped)
	if err != nil {
		s.logger.Error().Err(err).Str("operation", "update").Str("id", id).Msg("update failed")
		return nil, err
	}
	if row == nil {
		s.logger.Warn().Str("id", id).Msg("no rows updated")
		return nil, nil
	}
	return domain.FromStorageRecord(row), nil
}

// Delete removes the record with the given id. A missing table is tolerated
// silently beyond a warning: deleting from a table that does not exist is
// idempotent by nature.
func (s *EntityService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, s.table, id); err != nil {
		if errors.Is(err, domain.ErrTableNotFound) {
			s.logger.Warn().Str("id", id).Msg("table does not exist, cannot delete record")
			return nil
		}
		s.logger.Error().Err(err).Str("operation", "delete").Str("id", id).Msg("delete failed")
		return err
	}
	return nil
}
