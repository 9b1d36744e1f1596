package ports

import (
	"context"
	"time"

	"github.com/carehub/clinic-system/internal/core/domain"
)

// ListAppointmentsFilter carries all query parameters for listing
// appointments. Each non-zero field narrows the filter with a logical AND.
// PatientID is enforced by the service layer for patient-scoped listings.
type ListAppointmentsFilter struct {
	PatientID string    // non-empty = scoped to one patient
	Status    string    // optional: filter by appointment status
	Search    string    // optional: case-insensitive match on chiefComplaint or notes
	DateFrom  time.Time // optional: date >= DateFrom (inclusive)
	DateTo    time.Time // optional: date <= DateTo (inclusive)
	Page      int       // 1-based
	Limit     int       // fixed page size, set by the service
}

// StatusUpdate is the set of fields written by a status transition.
// StaffID is set only when the acting role is staff or admin.
type StatusUpdate struct {
	Status  domain.Status
	StaffID string
}

// AppointmentRepository defines persistence operations for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	// UpdateStatus performs a conditional update keyed on the previously
	// read status. It returns domain.ErrConflict when the appointment exists
	// but its status no longer equals expected, and
	// domain.ErrAppointmentNotFound when it does not exist.
	UpdateStatus(ctx context.Context, id string, expected domain.Status, update StatusUpdate) (*domain.Appointment, error)
	// List returns one page of appointments matching filter, sorted by
	// creation time descending. The sequence is finite and not restartable;
	// a fresh call re-queries.
	List(ctx context.Context, filter ListAppointmentsFilter) ([]*domain.Appointment, error)
}
