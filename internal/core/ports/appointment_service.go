package ports

import (
	"context"
	"time"

	"github.com/carehub/clinic-system/internal/core/domain"
)

// CreateAppointmentInput carries all data needed to book a new appointment.
// PatientID comes from the authenticated caller, never from the payload.
type CreateAppointmentInput struct {
	PatientID      string
	Date           time.Time
	ChiefComplaint string
	Notes          string
}

// SetStatusInput carries the parameters of a guarded status change.
type SetStatusInput struct {
	AppointmentID string
	Target        domain.Status
	ActorID       string
}

// ListAppointmentsInput carries all parameters for the list endpoints.
// PatientID is non-empty only for patient-scoped listings.
type ListAppointmentsInput struct {
	PatientID string
	Status    string
	Search    string
	DateFrom  time.Time
	DateTo    time.Time
	Page      int
}

// ListAppointmentsResult is one page of appointments plus pagination
// metadata computed with the full-page heuristic (see Pagination).
type ListAppointmentsResult struct {
	Items      []*domain.Appointment
	Pagination Pagination
}

// AppointmentService defines the use-case operations of the scheduling core.
type AppointmentService interface {
	Create(ctx context.Context, input CreateAppointmentInput) (*domain.Appointment, error)
	Get(ctx context.Context, id string) (*domain.Appointment, error)
	// SetStatus performs the guarded transition: actor role resolution,
	// transition validation, then a conditional write. Available to any
	// authenticated role; restriction is enforced by the validator.
	SetStatus(ctx context.Context, input SetStatusInput) (*domain.Appointment, error)
	List(ctx context.Context, input ListAppointmentsInput) (*ListAppointmentsResult, error)
}
