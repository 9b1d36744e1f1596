package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createAppointmentRequest struct {
	Date           time.Time `json:"date"           validate:"required"`
	ChiefComplaint string    `json:"chiefComplaint" validate:"required"`
	Notes          string    `json:"notes"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending scheduled completed cancelled no-show declined late"`
}

// Response-only types owned by the transport layer. Intentionally separate
// from domain types so the JSON contract is not coupled to internal changes.

type appointmentResponse struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patientId"`
	StaffID        string    `json:"staffId,omitempty"`
	Date           time.Time `json:"date"`
	Status         string    `json:"status"`
	ChiefComplaint string    `json:"chiefComplaint"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// paginationResponse keeps nextPage/previousPage nullable: nextPage is set
// exactly when the returned page was full, previousPage whenever page > 1.
type paginationResponse struct {
	Page         int  `json:"page"`
	Limit        int  `json:"limit"`
	NextPage     *int `json:"nextPage"`
	PreviousPage *int `json:"previousPage"`
}

type listAppointmentsResponse struct {
	Data       []appointmentResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}
