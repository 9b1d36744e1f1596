package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

// UserHandler serves the admin-only user directory endpoints.
type UserHandler struct {
	users ports.UserRepository
}

func NewUserHandler(users ports.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

type listUsersResponse struct {
	Data       []*domain.User     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// List handles GET /v1/users.
//
// @Summary      List directory users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role    query     string  false  "Filter by role"
// @Param        search  query     string  false  "Case-insensitive match on name or email"
// @Param        page    query     int     false  "Page number, starting at 1"
// @Success      200     {object}  listUsersResponse
// @Failure      403     {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page := ports.NormalizePage(atoiOrZero(c.QueryParam("page")))

	users, err := h.users.List(c.Request().Context(), ports.ListUsersFilter{
		Role:   c.QueryParam("role"),
		Search: c.QueryParam("search"),
		Page:   page,
		Limit:  ports.DefaultPageSize,
	})
	if err != nil {
		return err
	}

	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, listUsersResponse{
		Data:       users,
		Pagination: toPaginationResponse(ports.PaginationFor(page, ports.DefaultPageSize, len(users))),
	})
}
