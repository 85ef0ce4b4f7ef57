package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/exlity/admin-backend/internal/api/metrics"
	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Recorder persists one audit event.
type Recorder interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the table name, so events for one table are written in the order
// their mutations happened. Enqueueing never blocks the mutation path beyond
// channel capacity.
type Dispatcher struct {
	workers  []chan domain.AuditEvent
	recorder Recorder
	log      zerolog.Logger
}

var _ ports.AuditSink = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder Recorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.AuditEvent, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its table.
func (d *Dispatcher) Enqueue(event domain.AuditEvent) {
	metrics.AuditQueueDepth.Inc()
	d.workers[d.shardIndex(event.Table)] <- event
}

// shardIndex maps a table name deterministically to a worker index.
func (d *Dispatcher) shardIndex(table string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(table))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.Dec()
			if err := d.recorder.Record(ctx, event); err != nil {
				metrics.AuditEventsProcessedTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("entity", event.Entity).
					Str("operation", event.Operation).
					Int("worker_id", id).
					Msg("audit event recording failed")
				continue
			}
			metrics.AuditEventsProcessedTotal.WithLabelValues("ok").Inc()
		}
	}
}
