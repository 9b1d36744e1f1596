package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

// RecordService implements the medical record use cases.
type RecordService struct {
	records      ports.RecordRepository
	appointments ports.AppointmentRepository
	users        ports.UserRepository
	log          zerolog.Logger
	now          func() time.Time
}

func NewRecordService(
	records ports.RecordRepository,
	appointments ports.AppointmentRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *RecordService {
	return &RecordService{
		records:      records,
		appointments: appointments,
		users:        users,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create writes a medical record. The referenced patient must exist with the
// patient role; an optional appointment reference must belong to that
// patient; the visit date must not be in the future.
func (s *RecordService) Create(ctx context.Context, input ports.CreateRecordInput) (*domain.MedicalRecord, error) {
	if input.ChiefComplaint == "" || input.Diagnosis == "" {
		return nil, fmt.Errorf("%w: chief complaint and diagnosis are required", domain.ErrValidation)
	}

	patient, err := s.users.FindByID(ctx, input.PatientID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: patient not found", domain.ErrValidation)
		}
		return nil, err
	}
	if patient.Role != domain.RolePatient {
		return nil, fmt.Errorf("%w: referenced user is not a patient", domain.ErrValidation)
	}

	if input.AppointmentID != "" {
		appt, err := s.appointments.FindByID(ctx, input.AppointmentID)
		if err != nil {
			if errors.Is(err, domain.ErrAppointmentNotFound) {
				return nil, fmt.Errorf("%w: appointment not found", domain.ErrValidation)
			}
			return nil, err
		}
		if appt.PatientID != patient.ID {
			return nil, fmt.Errorf("%w: appointment does not belong to this patient", domain.ErrValidation)
		}
	}

	now := s.now()
	if input.VisitDate.After(now) {
		return nil, fmt.Errorf("%w: visit date cannot be in the future", domain.ErrValidation)
	}

	record := &domain.MedicalRecord{
		PatientID:      input.PatientID,
		AppointmentID:  input.AppointmentID,
		StaffCreatedID: input.StaffCreatedID,
		VisitDate:      input.VisitDate.UTC(),
		ChiefComplaint: input.ChiefComplaint,
		Notes:          input.Notes,
		Diagnosis:      input.Diagnosis,
		VitalSigns:     input.VitalSigns,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.records.Create(ctx, record); err != nil {
		s.log.Error().Err(err).Str("patient_id", input.PatientID).Msg("failed to create medical record")
		return nil, err
	}

	s.log.Info().
		Str("record_id", record.ID).
		Str("patient_id", record.PatientID).
		Str("staff_id", record.StaffCreatedID).
		Msg("medical record created")

	return record, nil
}

// List returns one page of medical records through the shared filtered-query
// contract.
func (s *RecordService) List(ctx context.Context, input ports.ListRecordsInput) (*ports.ListRecordsResult, error) {
	page := ports.NormalizePage(input.Page)

	items, err := s.records.List(ctx, ports.ListRecordsFilter{
		PatientID: input.PatientID,
		StaffID:   input.StaffID,
		Diagnosis: input.Diagnosis,
		Search:    input.Search,
		DateFrom:  input.DateFrom,
		DateTo:    input.DateTo,
		Page:      page,
		Limit:     ports.DefaultPageSize,
	})
	if err != nil {
		s.log.Error().Err(err).Int("page", page).Msg("failed to list medical records")
		return nil, err
	}

	return &ports.ListRecordsResult{
		Items:      items,
		Pagination: ports.PaginationFor(page, ports.DefaultPageSize, len(items)),
	}, nil
}
