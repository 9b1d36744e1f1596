package ports

import (
	"context"
	"time"

	"github.com/carehub/clinic-system/internal/core/domain"
)

// CreateRecordInput carries the data for writing a medical record.
// StaffCreatedID is the authenticated actor, never taken from the payload.
type CreateRecordInput struct {
	PatientID      string
	AppointmentID  string
	StaffCreatedID string
	VisitDate      time.Time
	ChiefComplaint string
	Notes          string
	Diagnosis      string
	VitalSigns     *domain.VitalSigns
}

// ListRecordsInput carries all parameters for the record list endpoints.
type ListRecordsInput struct {
	PatientID string
	StaffID   string
	Diagnosis string
	Search    string
	DateFrom  time.Time
	DateTo    time.Time
	Page      int
}

// ListRecordsResult is one page of medical records plus pagination metadata.
type ListRecordsResult struct {
	Items      []*domain.MedicalRecord
	Pagination Pagination
}

// RecordService defines the medical record use cases.
type RecordService interface {
	Create(ctx context.Context, input CreateRecordInput) (*domain.MedicalRecord, error)
	List(ctx context.Context, input ListRecordsInput) (*ListRecordsResult, error)
}
