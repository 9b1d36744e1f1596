package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

// RecordHandler handles HTTP requests for medical record operations.
type RecordHandler struct {
	service ports.RecordService
}

func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

type vitalSignsRequest struct {
	BloodPressure    string  `json:"bloodPressure"`
	HeartRate        float64 `json:"heartRate"`
	Temperature      float64 `json:"temperature"`
	RespiratoryRate  float64 `json:"respiratoryRate"`
	OxygenSaturation float64 `json:"oxygenSaturation"`
	Weight           float64 `json:"weight"`
	Height           float64 `json:"height"`
	BMI              float64 `json:"bmi"`
}

type createRecordRequest struct {
	PatientID      string             `json:"patientId"      validate:"required"`
	AppointmentID  string             `json:"appointmentId"`
	VisitDate      time.Time          `json:"visitDate"      validate:"required"`
	ChiefComplaint string             `json:"chiefComplaint" validate:"required"`
	Notes          string             `json:"notes"`
	Diagnosis      string             `json:"diagnosis"      validate:"required"`
	VitalSigns     *vitalSignsRequest `json:"vitalSigns"`
}

type recordResponse struct {
	ID             string             `json:"id"`
	PatientID      string             `json:"patientId"`
	AppointmentID  string             `json:"appointmentId,omitempty"`
	StaffCreatedID string             `json:"staffCreatedId"`
	VisitDate      time.Time          `json:"visitDate"`
	ChiefComplaint string             `json:"chiefComplaint"`
	Notes          string             `json:"notes,omitempty"`
	Diagnosis      string             `json:"diagnosis"`
	VitalSigns     *domain.VitalSigns `json:"vitalSigns,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type listRecordsResponse struct {
	Data       []recordResponse   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// Create handles POST /v1/records. The creating staff member comes from the
// authenticated caller.
//
// @Summary      Create a medical record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRecordRequest  true  "Record details"
// @Success      201   {object}  recordResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/records [post]
func (h *RecordHandler) Create(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.service.Create(c.Request().Context(), ports.CreateRecordInput{
		PatientID:      req.PatientID,
		AppointmentID:  req.AppointmentID,
		StaffCreatedID: actorID,
		VisitDate:      req.VisitDate,
		ChiefComplaint: req.ChiefComplaint,
		Notes:          req.Notes,
		Diagnosis:      req.Diagnosis,
		VitalSigns:     toVitalSigns(req.VitalSigns),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toRecordResponse(rec))
}

// List handles GET /v1/records, the clinic-wide listing.
//
// @Summary      List medical records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        patientId  query     string  false  "Filter by patient"
// @Param        staffId    query     string  false  "Filter by creating staff member"
// @Param        diagnosis  query     string  false  "Case-insensitive diagnosis match"
// @Param        search     query     string  false  "Case-insensitive text search"
// @Param        from       query     string  false  "Start visit date (YYYY-MM-DD, inclusive)"
// @Param        to         query     string  false  "End visit date (YYYY-MM-DD, inclusive)"
// @Param        page       query     int     false  "Page number, starting at 1"
// @Success      200        {object}  listRecordsResponse
// @Router       /v1/records [get]
func (h *RecordHandler) List(c echo.Context) error {
	input, err := recordFilterFromQuery(c)
	if err != nil {
		return err
	}
	input.PatientID = c.QueryParam("patientId")

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListRecordsResponse(result))
}

// ListMine handles GET /v1/records/mine, scoped to the caller's own records.
//
// @Summary      List the caller's own medical records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number, starting at 1"
// @Success      200   {object}  listRecordsResponse
// @Router       /v1/records/mine [get]
func (h *RecordHandler) ListMine(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	input, err := recordFilterFromQuery(c)
	if err != nil {
		return err
	}
	input.PatientID = actorID

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListRecordsResponse(result))
}

// ListForPatient handles GET /v1/patients/:id/records.
//
// @Summary      List a patient's medical records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "Patient ID"
// @Param        page  query     int     false  "Page number, starting at 1"
// @Success      200   {object}  listRecordsResponse
// @Router       /v1/patients/{id}/records [get]
func (h *RecordHandler) ListForPatient(c echo.Context) error {
	input, err := recordFilterFromQuery(c)
	if err != nil {
		return err
	}
	input.PatientID = c.Param("id")

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListRecordsResponse(result))
}

func recordFilterFromQuery(c echo.Context) (ports.ListRecordsInput, error) {
	input := ports.ListRecordsInput{
		StaffID:   c.QueryParam("staffId"),
		Diagnosis: c.QueryParam("diagnosis"),
		Search:    c.QueryParam("search"),
		Page:      atoiOrZero(c.QueryParam("page")),
	}

	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return input, domain.ErrValidation
		}
		input.DateFrom = from.UTC()
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return input, domain.ErrValidation
		}
		input.DateTo = to.UTC().Add(24*time.Hour - time.Nanosecond)
	}

	return input, nil
}

func toVitalSigns(req *vitalSignsRequest) *domain.VitalSigns {
	if req == nil {
		return nil
	}
	return &domain.VitalSigns{
		BloodPressure:    req.BloodPressure,
		HeartRate:        req.HeartRate,
		Temperature:      req.Temperature,
		RespiratoryRate:  req.RespiratoryRate,
		OxygenSaturation: req.OxygenSaturation,
		Weight:           req.Weight,
		Height:           req.Height,
		BMI:              req.BMI,
	}
}

func toRecordResponse(r *domain.MedicalRecord) recordResponse {
	return recordResponse{
		ID:             r.ID,
		PatientID:      r.PatientID,
		AppointmentID:  r.AppointmentID,
		StaffCreatedID: r.StaffCreatedID,
		VisitDate:      r.VisitDate.UTC(),
		ChiefComplaint: r.ChiefComplaint,
		Notes:          r.Notes,
		Diagnosis:      r.Diagnosis,
		VitalSigns:     r.VitalSigns,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

func toListRecordsResponse(r *ports.ListRecordsResult) listRecordsResponse {
	items := make([]recordResponse, len(r.Items))
	for i, rec := range r.Items {
		items[i] = toRecordResponse(rec)
	}
	return listRecordsResponse{
		Data:       items,
		Pagination: toPaginationResponse(r.Pagination),
	}
}
