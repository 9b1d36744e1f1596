package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

type stubRecordService struct {
	createFn func(ctx context.Context, input ports.CreateRecordInput) (*domain.MedicalRecord, error)
	listFn   func(ctx context.Context, input ports.ListRecordsInput) (*ports.ListRecordsResult, error)
}

func (s *stubRecordService) Create(ctx context.Context, input ports.CreateRecordInput) (*domain.MedicalRecord, error) {
	return s.createFn(ctx, input)
}

func (s *stubRecordService) List(ctx context.Context, input ports.ListRecordsInput) (*ports.ListRecordsResult, error) {
	return s.listFn(ctx, input)
}

func TestRecordHandler_Create_StaffComesFromCaller(t *testing.T) {
	stub := &stubRecordService{
		createFn: func(_ context.Context, input ports.CreateRecordInput) (*domain.MedicalRecord, error) {
			if input.StaffCreatedID != "s1" {
				t.Fatalf("staff id must come from the caller, got %q", input.StaffCreatedID)
			}
			if input.VitalSigns == nil || input.VitalSigns.BloodPressure != "120/80" {
				t.Fatalf("vital signs not carried through: %+v", input.VitalSigns)
			}
			return &domain.MedicalRecord{
				ID:             "rec-1",
				PatientID:      input.PatientID,
				StaffCreatedID: input.StaffCreatedID,
				VisitDate:      input.VisitDate,
				ChiefComplaint: input.ChiefComplaint,
				Diagnosis:      input.Diagnosis,
				VitalSigns:     input.VitalSigns,
			}, nil
		},
	}
	h := NewRecordHandler(stub)

	body := `{
		"patientId": "p1",
		"visitDate": "2026-08-20T10:00:00Z",
		"chiefComplaint": "persistent cough",
		"diagnosis": "acute bronchitis",
		"vitalSigns": {"bloodPressure": "120/80", "heartRate": 72, "temperature": 37.2}
	}`
	c, rec := newAppointmentContext(t, http.MethodPost, "/v1/records", body, "s1", "staff")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["staffCreatedId"] != "s1" {
		t.Errorf("expected staffCreatedId s1, got %v", resp["staffCreatedId"])
	}
}

func TestRecordHandler_Create_MissingDiagnosisRejected(t *testing.T) {
	stub := &stubRecordService{
		createFn: func(context.Context, ports.CreateRecordInput) (*domain.MedicalRecord, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := NewRecordHandler(stub)

	body := `{"patientId":"p1","visitDate":"2026-08-20T10:00:00Z","chiefComplaint":"cough"}`
	c, _ := newAppointmentContext(t, http.MethodPost, "/v1/records", body, "s1", "staff")

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %v", err)
	}
}

func TestRecordHandler_List_FiltersFromQuery(t *testing.T) {
	stub := &stubRecordService{
		listFn: func(_ context.Context, input ports.ListRecordsInput) (*ports.ListRecordsResult, error) {
			if input.PatientID != "p7" || input.Diagnosis != "bronchitis" || input.Page != 2 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.ListRecordsResult{Pagination: ports.Pagination{Page: 2, Limit: 10}}, nil
		},
	}
	h := NewRecordHandler(stub)

	c, rec := newAppointmentContext(t, http.MethodGet,
		"/v1/records?patientId=p7&diagnosis=bronchitis&page=2", "", "s1", "staff")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRecordHandler_ListMine_IgnoresPatientIDParam(t *testing.T) {
	stub := &stubRecordService{
		listFn: func(_ context.Context, input ports.ListRecordsInput) (*ports.ListRecordsResult, error) {
			if input.PatientID != "p1" {
				t.Fatalf("caller scope must win over query params, got %q", input.PatientID)
			}
			return &ports.ListRecordsResult{Pagination: ports.Pagination{Page: 1, Limit: 10}}, nil
		},
	}
	h := NewRecordHandler(stub)

	c, _ := newAppointmentContext(t, http.MethodGet, "/v1/records/mine?patientId=p9", "", "p1", "patient")

	if err := h.ListMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRecordHandler_ListForPatient_UsesPathParam(t *testing.T) {
	stub := &stubRecordService{
		listFn: func(_ context.Context, input ports.ListRecordsInput) (*ports.ListRecordsResult, error) {
			if input.PatientID != "p3" {
				t.Fatalf("expected path scope p3, got %q", input.PatientID)
			}
			return &ports.ListRecordsResult{Pagination: ports.Pagination{Page: 1, Limit: 10}}, nil
		},
	}
	h := NewRecordHandler(stub)

	c, _ := newAppointmentContext(t, http.MethodGet, "/v1/patients/p3/records", "", "s1", "staff")
	c.SetParamNames("id")
	c.SetParamValues("p3")

	if err := h.ListForPatient(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRecordHandler_List_BadDateRejected(t *testing.T) {
	h := NewRecordHandler(&stubRecordService{})

	c, _ := newAppointmentContext(t, http.MethodGet, "/v1/records?to=tomorrow", "", "s1", "staff")

	if err := h.List(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
