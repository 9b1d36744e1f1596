package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

// operationRoles is the static permission matrix: one entry per guarded
// operation mapping to its required role set. An empty set means any
// authenticated caller. All endpoint authorization decisions are driven by
// this table so the matrix stays auditable in one place.
var operationRoles = map[string][]domain.Role{
	"appointments.create":     {domain.RolePatient},
	"appointments.get":        {domain.RoleAdmin, domain.RoleStaff},
	"appointments.list":       {domain.RoleAdmin, domain.RoleStaff},
	"appointments.list_own":   {domain.RolePatient},
	"appointments.set_status": {}, // any role; the transition validator restricts further
	"records.create":          {domain.RoleStaff, domain.RoleAdmin},
	"records.list":            {domain.RoleAdmin, domain.RoleStaff},
	"records.list_own":        {domain.RolePatient},
	"records.list_patient":    {domain.RoleAdmin, domain.RoleStaff},
	"users.list":              {domain.RoleAdmin},
	"auth.register_staff":     {domain.RoleAdmin},
	"analytics.view":          {domain.RoleAdmin},
}

// RequiredRoles returns the role set declared for operation. Route wiring
// calls this at startup, so an unknown operation name is a programming error
// and panics immediately rather than silently allowing the call.
func RequiredRoles(operation string) []domain.Role {
	roles, ok := operationRoles[operation]
	if !ok {
		panic(fmt.Sprintf("authz: unknown operation %q", operation))
	}
	return roles
}

// Identity is the resolved caller yielded by a successful authorization.
type Identity struct {
	UserID string
	Role   domain.Role
}

// Authorizer decides allow/deny for guarded operations. The caller's role is
// looked up in the user directory on every call, never taken from the
// credential, so role changes take effect on the next request.
type Authorizer struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewAuthorizer(users ports.UserRepository, log zerolog.Logger) *Authorizer {
	return &Authorizer{users: users, log: log}
}

// Authorize resolves callerID against the directory and checks membership in
// required. An unresolvable caller fails with ErrUnauthenticated; a resolved
// caller outside a non-empty required set fails with ErrForbidden.
func (a *Authorizer) Authorize(ctx context.Context, required []domain.Role, callerID string) (Identity, error) {
	if callerID == "" {
		return Identity{}, domain.ErrUnauthenticated
	}

	user, err := a.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Identity{}, domain.ErrUnauthenticated
		}
		return Identity{}, fmt.Errorf("authorize: %w", err)
	}

	if len(required) > 0 && !roleIn(user.Role, required) {
		a.log.Debug().
			Str("user_id", user.ID).
			Str("role", string(user.Role)).
			Msg("role not in required set")
		return Identity{}, domain.ErrForbidden
	}

	return Identity{UserID: user.ID, Role: user.Role}, nil
}

func roleIn(role domain.Role, set []domain.Role) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}
