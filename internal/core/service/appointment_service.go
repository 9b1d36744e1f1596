package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carehub/clinic-system/internal/api/metrics"
	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

// AppointmentService orchestrates the guarded appointment workflow: creation,
// listing through the shared query contract, and the validated status
// transition.
type AppointmentService struct {
	repo  ports.AppointmentRepository
	users ports.UserRepository
	audit ports.AuditSink
	log   zerolog.Logger
	now   func() time.Time
}

func NewAppointmentService(
	repo ports.AppointmentRepository,
	users ports.UserRepository,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:  repo,
		users: users,
		audit: audit,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create books a new appointment for the authenticated patient. The date must
// not be in the past; status always starts at pending.
func (s *AppointmentService) Create(ctx context.Context, input ports.CreateAppointmentInput) (*domain.Appointment, error) {
	if input.ChiefComplaint == "" {
		return nil, fmt.Errorf("%w: chief complaint is required", domain.ErrValidation)
	}

	now := s.now()
	if input.Date.Before(startOfDay(now)) {
		return nil, fmt.Errorf("%w: appointment date must not be in the past", domain.ErrValidation)
	}

	appt := &domain.Appointment{
		PatientID:      input.PatientID,
		Date:           input.Date.UTC(),
		Status:         domain.StatusPending,
		ChiefComplaint: input.ChiefComplaint,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		s.log.Error().Err(err).Str("patient_id", input.PatientID).Msg("failed to create appointment")
		return nil, err
	}

	metrics.AppointmentsCreatedTotal.Inc()
	s.log.Info().
		Str("appointment_id", appt.ID).
		Str("patient_id", appt.PatientID).
		Time("date", appt.Date).
		Msg("appointment created")

	return appt, nil
}

// Get loads a single appointment by id.
func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.repo.FindByID(ctx, id)
}

// SetStatus performs the guarded status change. The actor's role is resolved
// from the directory at call time, the transition validator decides legality,
// and the write is conditional on the status read here. A concurrent change
// surfaces as domain.ErrConflict instead of a stale success.
func (s *AppointmentService) SetStatus(ctx context.Context, input ports.SetStatusInput) (*domain.Appointment, error) {
	if !domain.KnownStatus(input.Target) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, input.Target)
	}

	actor, err := s.users.FindByID(ctx, input.ActorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("set status: resolve actor: %w", err)
	}

	appt, err := s.repo.FindByID(ctx, input.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateTransition(appt.Status, input.Target, actor.Role, appt.Date, s.now()); err != nil {
		var te *domain.TransitionError
		if errors.As(err, &te) {
			metrics.TransitionsRejectedTotal.WithLabelValues(string(te.Rule)).Inc()
		}
		s.log.Info().
			Str("appointment_id", appt.ID).
			Str("actor_id", actor.ID).
			Str("role", string(actor.Role)).
			Str("from", string(appt.Status)).
			Str("to", string(input.Target)).
			Err(err).
			Msg("transition rejected")
		return nil, err
	}

	update := ports.StatusUpdate{Status: input.Target}
	if actor.Role.CanActForClinic() {
		update.StaffID = actor.ID
	}

	updated, err := s.repo.UpdateStatus(ctx, appt.ID, appt.Status, update)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.log.Warn().
				Str("appointment_id", appt.ID).
				Str("expected_status", string(appt.Status)).
				Msg("lost status race")
		}
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(appt.Status), string(input.Target)).Inc()

	if s.audit != nil {
		s.audit.Enqueue(ports.TransitionEvent{
			AppointmentID: appt.ID,
			From:          appt.Status,
			To:            input.Target,
			ActorID:       actor.ID,
			ActorRole:     actor.Role,
			Timestamp:     s.now(),
		})
	}

	s.log.Info().
		Str("appointment_id", appt.ID).
		Str("actor_id", actor.ID).
		Str("from", string(appt.Status)).
		Str("to", string(input.Target)).
		Msg("status transition applied")

	return updated, nil
}

// List returns one page of appointments through the shared filtered-query
// contract.
func (s *AppointmentService) List(ctx context.Context, input ports.ListAppointmentsInput) (*ports.ListAppointmentsResult, error) {
	page := ports.NormalizePage(input.Page)

	items, err := s.repo.List(ctx, ports.ListAppointmentsFilter{
		PatientID: input.PatientID,
		Status:    input.Status,
		Search:    input.Search,
		DateFrom:  input.DateFrom,
		DateTo:    input.DateTo,
		Page:      page,
		Limit:     ports.DefaultPageSize,
	})
	if err != nil {
		s.log.Error().Err(err).Int("page", page).Msg("failed to list appointments")
		return nil, err
	}

	return &ports.ListAppointmentsResult{
		Items:      items,
		Pagination: ports.PaginationFor(page, ports.DefaultPageSize, len(items)),
	}, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
