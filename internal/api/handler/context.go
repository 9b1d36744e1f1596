package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/clinic-system/internal/core/domain"
)

// ctxActor extracts the resolved caller injected by the Authorize middleware
// and performs a fast-fail check before any service call: both values must be
// present, their absence proves the middleware did not run on this route.
func ctxActor(c echo.Context) (id string, role domain.Role, err error) {
	id, _ = c.Get("actor_id").(string)
	roleStr, _ := c.Get("actor_role").(string)
	if id == "" || roleStr == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, domain.Role(roleStr), nil
}
