package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

const auditEntityName = "AuditLog"

// AuditRecorder persists entity mutation events through the registry's
// AuditLog entity — which the sensitive-keyword routing places on the
// service-role connection. Recording is best-effort: an environment without
// the audit_log table loses the trail but never the mutation.
type AuditRecorder struct {
	entities ports.EntityResolver
	logger   zerolog.Logger
}

func NewAuditRecorder(entities ports.EntityResolver, logger zerolog.Logger) *AuditRecorder {
	return &AuditRecorder{entities: entities, logger: logger}
}

// Record writes one audit row. Failures are reported to the caller for
// metrics but must not reach the request that triggered the mutation.
func (r *AuditRecorder) Record(ctx context.Context, event domain.AuditEvent) error {
	_, err := r.entities.Resolve(auditEntityName).Create(ctx, domain.Record{
		"entity_name": event.Entity,
		"table_name":  event.Table,
		"operation":   event.Operation,
		"record_id":   event.RecordID,
		"actor_id":    event.ActorID,
		"occurred_at": event.OccurredAt,
	})
	if err != nil {
		r.logger.Warn().Err(err).
			Str("entity", event.Entity).
			Str("operation", event.Operation).
			Str("record_id", event.RecordID).
			Msg("audit event not recorded")
		return err
	}
	return nil
}
