package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

// Postgres error codes the store classifies into domain sentinels.
const (
	codeUndefinedTable        = "42P01"
	codeInsufficientPrivilege = "42501"
)

// RecordStore is the map-record table gateway over a gorm connection. It does
// no field mapping and no tolerance policy; rows go in and out under their
// storage column names and every backend failure is surfaced, classified into
// domain sentinels where a SQLSTATE identifies the condition.
type RecordStore struct {
	db *gorm.DB
}

var _ ports.RecordStore = (*RecordStore)(nil)

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

func (s *RecordStore) Select(ctx context.Context, q ports.RecordQuery) ([]domain.Record, error) {
	tx := s.db.WithContext(ctx).Table(q.Table)
	if len(q.Conditions) > 0 {
		tx = tx.Where(map[string]any(q.Conditions))
	}
	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: q.OrderBy},
			Desc:   q.Descending,
		})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, translateError(err, q.Table)
	}

	records := make([]domain.Record, len(rows))
	for i, row := range rows {
		records[i] = domain.Record(row)
	}
	return records, nil
}

func (s *RecordStore) Get(ctx context.Context, table, id string) (domain.Record, error) {
	row := map[string]any{}
	err := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, table)
	}
	return domain.Record(row), nil
}

func (s *RecordStore) Insert(ctx context.Context, table string, data domain.Record) (domain.Record, error) {
	row := map[string]any(data.Clone())
	err := s.db.WithContext(ctx).Table(table).
		Clauses(clause.Returning{}).
		Create(&row).Error
	if err != nil {
		return nil, translateError(err, table)
	}
	return domain.Record(row), nil
}

func (s *RecordStore) Update(ctx context.Context, table, id string, data domain.Record) (domain.Record, error) {
	tx := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(map[string]any(data))
	if tx.Error != nil {
		return nil, translateError(tx.Error, table)
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	return s.Get(ctx, table, id)
}

func (s *RecordStore) Delete(ctx context.Context, table, id string) error {
	// gorm's Delete wants a model; with only a table name an Exec is simpler.
	err := s.db.WithContext(ctx).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", quoteIdent(table)), id).Error
	if err != nil {
		return translateError(err, table)
	}
	return nil
}

// translateError classifies backend failures the upper layers key on:
// undefined tables become domain.ErrTableNotFound, privilege denials become
// domain.ErrForbidden. Everything else passes through wrapped.
func translateError(err error, table string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUndefinedTable:
			return fmt.Errorf("table %s: %w", table, domain.ErrTableNotFound)
		case codeInsufficientPrivilege:
			return fmt.Errorf("table %s: %w", table, domain.ErrForbidden)
		}
	}
	return fmt.Errorf("table %s: %w", table, err)
}

// quoteIdent renders an identifier for interpolation into SQL text. Table
// names originate from entity-name derivation, never raw user input, but the
// quoting keeps a stray character from breaking out of the identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
