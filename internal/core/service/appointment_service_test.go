package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubAppointmentRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Appointment
	nextID int
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{byID: make(map[string]*domain.Appointment)}
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = fmt.Sprintf("appt-%d", r.nextID)
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	clone := *a
	return &clone, nil
}

// UpdateStatus mirrors the conditional Mongo write: the update applies only
// while the stored status still equals expected.
func (r *stubAppointmentRepo) UpdateStatus(_ context.Context, id string, expected domain.Status, update ports.StatusUpdate) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	if a.Status != expected {
		return nil, domain.ErrConflict
	}
	a.Status = update.Status
	if update.StaffID != "" {
		a.StaffID = update.StaffID
	}
	a.UpdatedAt = time.Now().UTC()
	clone := *a
	return &clone, nil
}

func (r *stubAppointmentRepo) List(_ context.Context, f ports.ListAppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Appointment
	for _, a := range r.byID {
		if f.PatientID != "" && a.PatientID != f.PatientID {
			continue
		}
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		if !f.DateFrom.IsZero() && a.Date.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && a.Date.After(f.DateTo) {
			continue
		}
		if f.Search != "" {
			s := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(a.ChiefComplaint), s) &&
				!strings.Contains(strings.ToLower(a.Notes), s) {
				continue
			}
		}
		clone := *a
		matched = append(matched, &clone)
	}

	skip := (f.Page - 1) * f.Limit
	if skip >= len(matched) {
		return nil, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], nil
}

type stubUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) add(id string, role domain.Role) *domain.User {
	u := &domain.User{ID: id, Name: id, Email: id + "@clinic.test", Role: role}
	r.byID[id] = u
	r.byEmail[u.Email] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[u.Email]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *u
	if clone.ID == "" {
		clone.ID = fmt.Sprintf("user-%d", len(r.byID)+1)
	}
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = &clone
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) MarkEmailVerified(_ context.Context, id string, at time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EmailVerifiedAt = &at
	return nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byID {
		if f.Role != "" && string(u.Role) != f.Role {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

type captureSink struct {
	mu     sync.Mutex
	events []ports.TransitionEvent
}

func (s *captureSink) Enqueue(event ports.TransitionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func newTestService() (*AppointmentService, *stubAppointmentRepo, *stubUserRepo, *captureSink) {
	repo := newStubAppointmentRepo()
	users := newStubUserRepo()
	sink := &captureSink{}
	svc := NewAppointmentService(repo, users, sink, discardLogger)
	return svc, repo, users, sink
}

func seedAppointment(repo *stubAppointmentRepo, patientID string, status domain.Status, date time.Time) *domain.Appointment {
	a := &domain.Appointment{
		PatientID:      patientID,
		Date:           date,
		Status:         status,
		ChiefComplaint: "persistent cough",
	}
	_ = repo.Create(context.Background(), a)
	return a
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestAppointmentService_Create_Success(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("p1", domain.RolePatient)

	appt, err := svc.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID:      "p1",
		Date:           time.Now().UTC().AddDate(0, 0, 3),
		ChiefComplaint: "headache",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != domain.StatusPending {
		t.Errorf("expected initial status pending, got %s", appt.Status)
	}
	if appt.ID == "" {
		t.Error("expected an assigned id")
	}
	if repo.byID[appt.ID].StaffID != "" {
		t.Error("staffId must be empty on creation")
	}
}

func TestAppointmentService_Create_RequiresChiefComplaint(t *testing.T) {
	svc, _, users, _ := newTestService()
	users.add("p1", domain.RolePatient)

	_, err := svc.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID: "p1",
		Date:      time.Now().UTC().AddDate(0, 0, 1),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAppointmentService_Create_RejectsPastDate(t *testing.T) {
	svc, _, users, _ := newTestService()
	users.add("p1", domain.RolePatient)

	_, err := svc.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID:      "p1",
		Date:           time.Now().UTC().AddDate(0, 0, -1),
		ChiefComplaint: "headache",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for past date, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// SetStatus
// ---------------------------------------------------------------------------

func TestSetStatus_StaffSchedulesAndTakesOwnership(t *testing.T) {
	svc, repo, users, sink := newTestService()
	users.add("p1", domain.RolePatient)
	users.add("s1", domain.RoleStaff)
	appt := seedAppointment(repo, "p1", domain.StatusPending, time.Now().UTC().AddDate(0, 0, 2))

	updated, err := svc.SetStatus(context.Background(), ports.SetStatusInput{
		AppointmentID: appt.ID,
		Target:        domain.StatusScheduled,
		ActorID:       "s1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusScheduled {
		t.Errorf("expected scheduled, got %s", updated.Status)
	}
	if updated.StaffID != "s1" {
		t.Errorf("staff transition must set staffId, got %q", updated.StaffID)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.From != domain.StatusPending || ev.To != domain.StatusScheduled || ev.ActorID != "s1" {
		t.Errorf("audit event mismatch: %+v", ev)
	}
}

func TestSetStatus_PatientCancelLeavesStaffIDUntouched(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("p1", domain.RolePatient)
	appt := seedAppointment(repo, "p1", domain.StatusPending, time.Now().UTC().AddDate(0, 0, 2))

	updated, err := svc.SetStatus(context.Background(), ports.SetStatusInput{
		AppointmentID: appt.ID,
		Target:        domain.StatusCancelled,
		ActorID:       "p1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusCancelled {
		t.Errorf("expected cancelled, got %s", updated.Status)
	}
	if updated.StaffID != "" {
		t.Errorf("patient transition must not set staffId, got %q", updated.StaffID)
	}
}

func TestSetStatus_PatientCannotComplete(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("p1", domain.RolePatient)
	appt := seedAppointment(repo, "p1", domain.StatusScheduled, time.Now().UTC())

	_, err := svc.SetStatus(context.Background(), ports.SetStatusInput{
		AppointmentID: appt.ID,
		Target:        domain.StatusCompleted,
		ActorID:       "p1",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSetStatus_DoctorRoleRejected(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("p1", domain.RolePatient)
	users.add("d1", domain.RoleDoctor)
	appt := seedAppointment(repo, "p1", domain.StatusScheduled, time.Now().UTC())

	_, err := svc.SetStatus(context.Background(), ports.SetStatusInput{
		AppointmentID: appt.ID,
		Target:        domain.StatusCompleted,
		ActorID:       "d1",
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestSetStatus_TerminalStatusIsFinal(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("p1", domain.RolePatient)
	users.add("s1", domain.RoleStaff)
	appt := seedAppointment(repo, "p1", domain.StatusCompleted, time.Now().UTC())

	_, err := svc.SetStatus(context.Background(), ports.SetStatusInput{
		AppointmentID: appt.ID,
		Target:        domain.StatusScheduled,
		ActorID:       "s1",
	})
	if !errors.Is(err, domain.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestSetStatus_UnknownStatusRejected(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("s1", domain.RoleStaff)
	appt := seedAppointment(repo, "p1", domain.StatusPending, time.Now().UTC())

	_, err := svc.SetStatus(context.Background(), ports.SetStatusInput{
		AppointmentID: appt.ID,
		Target:        domain.Status("archived"),
		ActorID:       "s1",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSetStatus_UnknownActorUnauthenticated(t *testing.T) {
	svc, repo, _, _ := newTestService()
	appt := seedAppointment(repo, "p1", domain.StatusPending, time.Now().UTC())

	_, err := svc.SetStatus(context.Background(), ports.SetStatusInput{
		AppointmentID: appt.ID,
		Target:        domain.StatusScheduled,
		ActorID:       "ghost",
	})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSetStatus_MissingAppointment(t *testing.T) {
	svc, _, users, _ := newTestService()
	users.add("s1", domain.RoleStaff)

	_, err := svc.SetStatus(context.Background(), ports.SetStatusInput{
		AppointmentID: "nope",
		Target:        domain.StatusScheduled,
		ActorID:       "s1",
	})
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestSetStatus_NoShowOutsideAppointmentDay(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("p1", domain.RolePatient)
	users.add("s1", domain.RoleStaff)
	appt := seedAppointment(repo, "p1", domain.StatusScheduled, time.Now().UTC().AddDate(0, 0, 5))

	_, err := svc.SetStatus(context.Background(), ports.SetStatusInput{
		AppointmentID: appt.ID,
		Target:        domain.StatusNoShow,
		ActorID:       "s1",
	})
	if !errors.Is(err, domain.ErrSameDayWindow) {
		t.Fatalf("expected ErrSameDayWindow, got %v", err)
	}
}

// Two actors race for the same scheduled appointment: one marks it
// completed, the other declined. Exactly one write must win. The loser fails
// either on the conditional update (conflict) or, if it read after the
// winner's write, on the transition table.
func TestSetStatus_ConcurrentTransitionsExactlyOneWins(t *testing.T) {
	svc, repo, users, sink := newTestService()
	users.add("p1", domain.RolePatient)
	users.add("s1", domain.RoleStaff)
	users.add("s2", domain.RoleStaff)
	appt := seedAppointment(repo, "p1", domain.StatusScheduled, time.Now().UTC())

	targets := []domain.Status{domain.StatusCompleted, domain.StatusDeclined}
	actors := []string{"s1", "s2"}
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SetStatus(context.Background(), ports.SetStatusInput{
				AppointmentID: appt.ID,
				Target:        targets[i],
				ActorID:       actors[i],
			})
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrIllegalTransition):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("expected exactly one winner, got wins=%d losses=%d", wins, losses)
	}

	final, _ := repo.FindByID(context.Background(), appt.ID)
	if !final.Status.Terminal() {
		t.Errorf("final status should be terminal, got %s", final.Status)
	}
	if len(sink.events) != 1 {
		t.Errorf("only the winning transition may emit an audit event, got %d", len(sink.events))
	}
}

func TestSetStatus_StaffCompleteRacesPatientCancel(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("p1", domain.RolePatient)
	users.add("s1", domain.RoleStaff)
	appt := seedAppointment(repo, "p1", domain.StatusScheduled, time.Now().UTC())

	inputs := []ports.SetStatusInput{
		{AppointmentID: appt.ID, Target: domain.StatusCompleted, ActorID: "s1"},
		{AppointmentID: appt.ID, Target: domain.StatusCancelled, ActorID: "p1"},
	}
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SetStatus(context.Background(), inputs[i])
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrIllegalTransition):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one success, got %d (%v)", wins, errs)
	}

	final, _ := repo.FindByID(context.Background(), appt.ID)
	if final.Status != domain.StatusCompleted {
		t.Errorf("only the staff transition is legal from scheduled, got %s", final.Status)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestList_PaginationHeuristic(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("p1", domain.RolePatient)

	for i := 0; i < 12; i++ {
		seedAppointment(repo, "p1", domain.StatusPending, time.Now().UTC().AddDate(0, 0, i+1))
	}

	page1, err := svc.List(context.Background(), ports.ListAppointmentsInput{Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page1.Items) != 10 {
		t.Fatalf("page 1: expected 10 items, got %d", len(page1.Items))
	}
	if page1.Pagination.NextPage == nil || *page1.Pagination.NextPage != 2 {
		t.Error("page 1 is full, nextPage must be 2")
	}
	if page1.Pagination.PreviousPage != nil {
		t.Error("page 1 must not have previousPage")
	}

	page2, err := svc.List(context.Background(), ports.ListAppointmentsInput{Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page2.Items) != 2 {
		t.Fatalf("page 2: expected 2 items, got %d", len(page2.Items))
	}
	if page2.Pagination.NextPage != nil {
		t.Error("partial page must not have nextPage")
	}
	if page2.Pagination.PreviousPage == nil || *page2.Pagination.PreviousPage != 1 {
		t.Error("page 2 must have previousPage 1")
	}
}

// A dataset of exactly 20 shows the heuristic's known false positive: the
// second page is full, so nextPage points at an empty page 3.
func TestList_FullLastPageStillAdvertisesNext(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("p1", domain.RolePatient)

	for i := 0; i < 20; i++ {
		seedAppointment(repo, "p1", domain.StatusPending, time.Now().UTC().AddDate(0, 0, i+1))
	}

	page2, err := svc.List(context.Background(), ports.ListAppointmentsInput{Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page2.Items) != 10 {
		t.Fatalf("expected full page 2, got %d items", len(page2.Items))
	}
	if page2.Pagination.NextPage == nil || *page2.Pagination.NextPage != 3 {
		t.Error("full page 2 advertises nextPage 3 even though page 3 is empty")
	}

	page3, err := svc.List(context.Background(), ports.ListAppointmentsInput{Page: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(page3.Items) != 0 {
		t.Fatalf("expected empty page 3, got %d items", len(page3.Items))
	}
	if page3.Pagination.NextPage != nil {
		t.Error("empty page must not have nextPage")
	}
}

func TestList_DefaultsPageToOne(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("p1", domain.RolePatient)
	seedAppointment(repo, "p1", domain.StatusPending, time.Now().UTC().AddDate(0, 0, 1))

	res, err := svc.List(context.Background(), ports.ListAppointmentsInput{Page: 0})
	if err != nil {
		t.Fatal(err)
	}
	if res.Pagination.Page != 1 {
		t.Errorf("expected page 1, got %d", res.Pagination.Page)
	}
	if res.Pagination.Limit != ports.DefaultPageSize {
		t.Errorf("expected limit %d, got %d", ports.DefaultPageSize, res.Pagination.Limit)
	}
}

func TestList_PatientScope(t *testing.T) {
	svc, repo, users, _ := newTestService()
	users.add("p1", domain.RolePatient)
	users.add("p2", domain.RolePatient)
	seedAppointment(repo, "p1", domain.StatusPending, time.Now().UTC().AddDate(0, 0, 1))
	seedAppointment(repo, "p2", domain.StatusPending, time.Now().UTC().AddDate(0, 0, 1))

	res, err := svc.List(context.Background(), ports.ListAppointmentsInput{PatientID: "p1", Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(res.Items))
	}
	if res.Items[0].PatientID != "p1" {
		t.Errorf("expected p1's appointment, got %s", res.Items[0].PatientID)
	}
}
