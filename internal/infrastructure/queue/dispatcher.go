package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/carehub/clinic-system/internal/api/metrics"
	"github.com/carehub/clinic-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes transition events to a fixed set of workers using
// consistent hashing on the appointment ID, guaranteeing per-appointment
// audit ordering.
type Dispatcher struct {
	workers []chan ports.TransitionEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.TransitionEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.TransitionEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its appointment.
// When that worker's buffer is full the event is dropped rather than
// blocking the request path.
func (d *Dispatcher) Enqueue(event ports.TransitionEvent) {
	idx := d.shardIndex(event.AppointmentID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(workerLabel(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("appointment_id", event.AppointmentID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an appointment ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(appointmentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(appointmentID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.TransitionEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(workerLabel(id)).Set(float64(len(ch)))
			if err := d.repo.InsertTransition(ctx, &event); err != nil {
				d.log.Error().Err(err).
					Str("appointment_id", event.AppointmentID).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
		}
	}
}

func workerLabel(id int) string {
	return strconv.Itoa(id)
}
