// Package metrics defines and registers all custom Prometheus metrics for the
// admin dashboard API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at import time
// via promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "adminapi"

// ── Entity metrics ────────────────────────────────────────────────────────────

// EntityOperationsTotal counts entity data operations by outcome.
// Labels:
//   - entity: the PascalCase entity name as requested (e.g. "Job")
//   - operation: "list", "filter", "get", "create", "update", "delete"
//   - result: "ok" or "error"
var EntityOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_operations_total",
		Help:      "Total number of entity data operations, by entity, operation, and result.",
	},
	[]string{"entity", "operation", "result"},
)

// EntityOperationDuration measures how long a single entity operation takes,
// including the backend round trip.
// Label:
//   - operation: "list", "filter", "get", "create", "update", "delete"
var EntityOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "entity_operation_duration_seconds",
		Help:      "Duration of entity data operations from request to response.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"operation"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsEnqueuedTotal counts mutation events handed to the audit
// dispatcher.
// Label:
//   - operation: "create", "update", "delete"
var AuditEventsEnqueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_enqueued_total",
		Help:      "Total number of audit events enqueued for recording.",
	},
	[]string{"operation"},
)

// AuditQueueDepth tracks audit events enqueued but not yet picked up by a
// dispatcher worker.
var AuditQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Number of audit events waiting in the dispatcher queues.",
	},
)

// AuditEventsProcessedTotal counts audit events drained by dispatcher workers.
// Label:
//   - result: "ok" or "error"
var AuditEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_processed_total",
		Help:      "Total number of audit events processed by dispatcher workers, by result.",
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - result: "ok", "error", or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Integration metrics ───────────────────────────────────────────────────────

// FileUploadsTotal counts file uploads to object storage.
// Label:
//   - result: "ok" or "error"
var FileUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "file_uploads_total",
		Help:      "Total number of file uploads, by result.",
	},
	[]string{"result"},
)
