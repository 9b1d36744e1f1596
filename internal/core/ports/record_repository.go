package ports

import (
	"context"
	"time"

	"github.com/carehub/clinic-system/internal/core/domain"
)

// ListRecordsFilter carries the query parameters for medical record
// listings. Search covers chiefComplaint, notes and diagnosis; the date
// range applies to visitDate.
type ListRecordsFilter struct {
	PatientID string
	StaffID   string
	Diagnosis string
	Search    string
	DateFrom  time.Time
	DateTo    time.Time
	Page      int
	Limit     int
}

// RecordRepository defines persistence operations for medical records.
type RecordRepository interface {
	Create(ctx context.Context, r *domain.MedicalRecord) error
	// List returns one page of records matching filter, sorted by visit
	// date descending.
	List(ctx context.Context, filter ListRecordsFilter) ([]*domain.MedicalRecord, error)
}
