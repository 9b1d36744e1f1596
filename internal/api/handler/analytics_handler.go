package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

// AnalyticsHandler serves the admin-only reporting endpoints.
type AnalyticsHandler struct {
	service ports.AnalyticsService
}

func NewAnalyticsHandler(service ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

type periodCountsResponse struct {
	Period string              `json:"period"`
	Data   []ports.PeriodCount `json:"data"`
}

// Counts handles GET /v1/analytics/appointments.
//
// @Summary      Appointment counts per calendar bucket
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        period  query     string  false  "day, week or month (default week)"
// @Param        limit   query     int     false  "Maximum buckets returned"
// @Success      200     {object}  periodCountsResponse
// @Failure      403     {object}  errorResponse
// @Router       /v1/analytics/appointments [get]
func (h *AnalyticsHandler) Counts(c echo.Context) error {
	period := c.QueryParam("period")
	if period == "" {
		period = "week"
	}

	data, err := h.service.AppointmentCounts(c.Request().Context(), period, atoiOrZero(c.QueryParam("limit")))
	if err != nil {
		return err
	}
	if data == nil {
		data = []ports.PeriodCount{}
	}
	return c.JSON(http.StatusOK, periodCountsResponse{Period: period, Data: data})
}

// ByStatus handles GET /v1/analytics/appointments/status.
//
// @Summary      Appointment distribution by status
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.StatusBreakdown
// @Failure      403  {object}  errorResponse
// @Router       /v1/analytics/appointments/status [get]
func (h *AnalyticsHandler) ByStatus(c echo.Context) error {
	breakdown, err := h.service.AppointmentsByStatus(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, breakdown)
}

// NoShowRate handles GET /v1/analytics/no-show-rate.
//
// @Summary      No-show rate over an optional date range
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Start date (YYYY-MM-DD, inclusive)"
// @Param        to    query     string  false  "End date (YYYY-MM-DD, inclusive)"
// @Success      200   {object}  ports.NoShowRate
// @Failure      403   {object}  errorResponse
// @Router       /v1/analytics/no-show-rate [get]
func (h *AnalyticsHandler) NoShowRate(c echo.Context) error {
	var from, to time.Time
	if raw := c.QueryParam("from"); raw != "" {
		parsed, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return domain.ErrValidation
		}
		from = parsed.UTC()
	}
	if raw := c.QueryParam("to"); raw != "" {
		parsed, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return domain.ErrValidation
		}
		to = parsed.UTC().Add(24*time.Hour - time.Nanosecond)
	}

	rate, err := h.service.NoShowRate(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rate)
}
