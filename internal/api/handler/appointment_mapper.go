package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

const dateParamLayout = "2006-01-02"

// --- Query params → Service input ---

// listFilterFromQuery parses the shared list query parameters. Date bounds
// are calendar dates; "to" is widened to the end of its day so the range
// stays inclusive on both ends.
func listFilterFromQuery(c echo.Context) (ports.ListAppointmentsInput, error) {
	input := ports.ListAppointmentsInput{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
		Page:   atoiOrZero(c.QueryParam("page")),
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

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// --- Domain → HTTP response ---

func toAppointmentResponse(a *domain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:             a.ID,
		PatientID:      a.PatientID,
		StaffID:        a.StaffID,
		Date:           a.Date.UTC(),
		Status:         string(a.Status),
		ChiefComplaint: a.ChiefComplaint,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
	}
}

func toListAppointmentsResponse(r *ports.ListAppointmentsResult) listAppointmentsResponse {
	items := make([]appointmentResponse, len(r.Items))
	for i, a := range r.Items {
		items[i] = toAppointmentResponse(a)
	}
	return listAppointmentsResponse{
		Data:       items,
		Pagination: toPaginationResponse(r.Pagination),
	}
}

func toPaginationResponse(p ports.Pagination) paginationResponse {
	return paginationResponse{
		Page:         p.Page,
		Limit:        p.Limit,
		NextPage:     p.NextPage,
		PreviousPage: p.PreviousPage,
	}
}
