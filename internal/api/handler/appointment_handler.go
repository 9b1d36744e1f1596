package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

// AppointmentHandler handles HTTP requests for appointment operations.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// Create handles POST /v1/appointments. The patient identity comes from the
// authenticated caller, never from the payload.
//
// @Summary      Book a new appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppointmentRequest  true  "Appointment details"
// @Success      201   {object}  appointmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/appointments [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appt, err := h.service.Create(c.Request().Context(), ports.CreateAppointmentInput{
		PatientID:      actorID,
		Date:           req.Date,
		ChiefComplaint: req.ChiefComplaint,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAppointmentResponse(appt))
}

// Get handles GET /v1/appointments/:id.
//
// @Summary      Get an appointment by ID
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  appointmentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	appt, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

// List handles GET /v1/appointments, the clinic-wide listing.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        search  query     string  false  "Case-insensitive text search"
// @Param        from    query     string  false  "Start date (YYYY-MM-DD, inclusive)"
// @Param        to      query     string  false  "End date (YYYY-MM-DD, inclusive)"
// @Param        page    query     int     false  "Page number, starting at 1"
// @Success      200     {object}  listAppointmentsResponse
// @Router       /v1/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	input, err := listFilterFromQuery(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListAppointmentsResponse(result))
}

// ListMine handles GET /v1/appointments/mine, scoped to the caller's own
// bookings.
//
// @Summary      List the caller's own appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        search  query     string  false  "Case-insensitive text search"
// @Param        from    query     string  false  "Start date (YYYY-MM-DD, inclusive)"
// @Param        to      query     string  false  "End date (YYYY-MM-DD, inclusive)"
// @Param        page    query     int     false  "Page number, starting at 1"
// @Success      200     {object}  listAppointmentsResponse
// @Router       /v1/appointments/mine [get]
func (h *AppointmentHandler) ListMine(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	input, err := listFilterFromQuery(c)
	if err != nil {
		return err
	}
	input.PatientID = actorID

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListAppointmentsResponse(result))
}

// SetStatus handles PATCH /v1/appointments/:id/status. Any authenticated
// role may call it; the transition validator decides what the caller's role
// is allowed to do.
//
// @Summary      Change an appointment's status
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Appointment ID"
// @Param        body  body      setStatusRequest  true  "Target status"
// @Success      200   {object}  appointmentResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/appointments/{id}/status [patch]
func (h *AppointmentHandler) SetStatus(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appt, err := h.service.SetStatus(c.Request().Context(), ports.SetStatusInput{
		AppointmentID: c.Param("id"),
		Target:        domain.Status(req.Status),
		ActorID:       actorID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAppointmentResponse(appt))
}
