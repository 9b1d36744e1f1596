package ports

import (
	"context"
	"time"

	"github.com/carehub/clinic-system/internal/core/domain"
)

// TransitionEvent records one successful status transition for the audit
// trail.
type TransitionEvent struct {
	AppointmentID string
	From          domain.Status
	To            domain.Status
	ActorID       string
	ActorRole     domain.Role
	Timestamp     time.Time
}

// AuditRepository persists transition events to the appointment_events
// collection.
type AuditRepository interface {
	InsertTransition(ctx context.Context, event *TransitionEvent) error
}

// AuditSink is where the transition service publishes events. Recording is
// asynchronous and failures never abort the transition that produced them.
type AuditSink interface {
	Enqueue(event TransitionEvent)
}
