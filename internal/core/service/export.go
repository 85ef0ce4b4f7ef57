package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

// exportedEntities is the fixed set the data-export screen offers.
var exportedEntities = []string{"Users", "Jobs", "EmployerProfiles"}

// Exporter produces full-table dumps of the dashboard's entities, either as
// a JSON document or as a Postgres INSERT script suitable for re-seeding an
// environment.
type Exporter struct {
	entities ports.EntityResolver
	logger   zerolog.Logger
}

func NewExporter(entities ports.EntityResolver, logger zerolog.Logger) *Exporter {
	return &Exporter{entities: entities, logger: logger}
}

// ExportJSON returns every exported entity's records keyed by entity name.
func (e *Exporter) ExportJSON(ctx context.Context) (map[string][]domain.Record, error) {
	out := make(map[string][]domain.Record, len(exportedEntities))
	for _, name := range exportedEntities {
		records, err := e.entities.Resolve(name).List(ctx, "", 0)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", name, err)
		}
		out[name] = records
	}
	return out, nil
}

// ExportSQL renders the exported entities as an INSERT script. Column order
// is sorted per record set so the output is stable across runs.
func (e *Exporter) ExportSQL(ctx context.Context) (string, error) {
	var b strings.Builder
	b.WriteString("-- Exlity data export\n")
	b.WriteString("-- Generated on: " + time.Now().UTC().Format(time.RFC3339) + "\n\n")

	for _, name := range exportedEntities {
		records, err := e.entities.Resolve(name).List(ctx, "", 0)
		if err != nil {
			return "", fmt.Errorf("export %s: %w", name, err)
		}

		table := domain.EntityTableName(name)
		b.WriteString("-- " + name + "\n")
		if len(records) == 0 {
			b.WriteString("-- (no rows)\n\n")
			continue
		}

		for _, record := range records {
			stored := domain.ToStorageRecord(record)
			columns := make([]string, 0, len(stored))
			for column := range stored {
				columns = append(columns, column)
			}
			sort.Strings(columns)

			values := make([]string, len(columns))
			for i, column := range columns {
				values[i] = sqlLiteral(stored[column])
			}

			fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s);\n",
				table, strings.Join(columns, ", "), strings.Join(values, ", "))
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// sqlLiteral renders a record value as a Postgres literal. Strings have
// embedded quotes doubled; composite values fall back to their JSON encoding.
func sqlLiteral(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if value {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case time.Time:
		return "'" + value.UTC().Format(time.RFC3339Nano) + "'"
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return "NULL"
		}
		return "'" + strings.ReplaceAll(string(encoded), "'", "''") + "'"
	}
}
