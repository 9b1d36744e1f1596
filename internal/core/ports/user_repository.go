package ports

import (
	"context"
	"time"

	"github.com/carehub/clinic-system/internal/core/domain"
)

// ListUsersFilter carries the query parameters for the directory listing.
type ListUsersFilter struct {
	Role   string // optional: filter by role
	Search string // optional: case-insensitive match on name or email
	Page   int    // 1-based
	Limit  int
}

// UserRepository is the user directory. The scheduling core only ever reads
// from it; writes happen through the auth flows.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, error)
}
