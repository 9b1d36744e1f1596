package ports

import (
	"context"

	"github.com/carehub/clinic-system/internal/core/domain"
)

// RegisterInput carries the data for account creation. Role is fixed by the
// calling endpoint (patient self-registration vs admin-gated staff creation).
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Role        domain.Role
}

// AuthService implements credential issuance and verification. Tokens carry
// identity only; authorization re-resolves the role per request.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login authenticates an account and pins the expected role: a patient
	// cannot sign in through the staff endpoint and vice versa.
	Login(ctx context.Context, email, password string, expectedRole domain.Role) (string, *domain.User, error)
	// SendVerificationCode issues a short-lived OTP for the account's email.
	// Delivery is out of band.
	SendVerificationCode(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, email, code string) error
	// RequestPasswordReset issues an opaque single-use reset token.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, token, newPassword string) error
}
