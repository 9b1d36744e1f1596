package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/carehub/clinic-system/internal/api/metrics"
	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/service"
)

// Authorize guards one named operation. The required role set is resolved
// once at wiring time; the caller's role is resolved against the user
// directory on every request, so revocations and role changes apply on the
// caller's next call.
func Authorize(authz *service.Authorizer, operation string) echo.MiddlewareFunc {
	required := service.RequiredRoles(operation)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			callerID, _ := c.Get("user_id").(string)

			identity, err := authz.Authorize(c.Request().Context(), required, callerID)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrUnauthenticated):
					metrics.AuthDenialsTotal.WithLabelValues(operation, "unauthenticated").Inc()
				case errors.Is(err, domain.ErrForbidden):
					metrics.AuthDenialsTotal.WithLabelValues(operation, "forbidden").Inc()
				}
				return err
			}

			c.Set("actor_id", identity.UserID)
			c.Set("actor_role", string(identity.Role))

			return next(c)
		}
	}
}
