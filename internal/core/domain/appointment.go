package domain

import (
	"errors"
	"time"
)

// Status represents the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
	StatusDeclined  Status = "declined"
	StatusLate      Status = "late"
)

// forbiddenTransitions maps each current status to the targets it may never
// move to, regardless of who is asking. Statuses whose forbidden set covers
// every other status are terminal.
var forbiddenTransitions = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusNoShow, StatusLate},
	StatusScheduled: {StatusPending, StatusCancelled},
	StatusCompleted: {StatusPending, StatusScheduled, StatusCancelled, StatusNoShow, StatusDeclined, StatusLate},
	StatusCancelled: {StatusPending, StatusScheduled, StatusCompleted, StatusNoShow, StatusDeclined, StatusLate},
	StatusNoShow:    {StatusPending, StatusScheduled, StatusCompleted, StatusCancelled, StatusDeclined, StatusLate},
	StatusDeclined:  {StatusPending, StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow, StatusLate},
	StatusLate:      {StatusPending, StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow, StatusDeclined},
}

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrIllegalTransition   = errors.New("illegal status transition")
	ErrSameDayWindow       = errors.New("no-show can only be set on the appointment day")
	ErrConflict            = errors.New("appointment was modified concurrently")
	ErrInvalidID           = errors.New("invalid id")
	ErrValidation          = errors.New("invalid input")
)

// KnownStatus reports whether s belongs to the closed status set.
func KnownStatus(s Status) bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCompleted, StatusCancelled,
		StatusNoShow, StatusDeclined, StatusLate:
		return true
	}
	return false
}

// CanTransitionTo reports whether the transition table permits moving from s
// to next. Role and temporal rules are layered on top by ValidateTransition.
func (s Status) CanTransitionTo(next Status) bool {
	for _, forbidden := range forbiddenTransitions[s] {
		if forbidden == next {
			return false
		}
	}
	return true
}

// Terminal reports whether s has no legal outgoing transition at all.
func (s Status) Terminal() bool {
	return len(forbiddenTransitions[s]) == 6
}

// Appointment is the core aggregate of the scheduling workflow.
//
// StaffID is populated if and only if the most recent status change was
// performed by a staff or admin actor; patient-initiated cancellations leave
// it untouched.
type Appointment struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	PatientID      string    `json:"patientId" bson:"patientId"`
	StaffID        string    `json:"staffId,omitempty" bson:"staffId,omitempty"`
	Date           time.Time `json:"date" bson:"date"`
	Status         Status    `json:"status" bson:"status"`
	ChiefComplaint string    `json:"chiefComplaint" bson:"chiefComplaint"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}
