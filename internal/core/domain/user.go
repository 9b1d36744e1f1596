package domain

import (
	"errors"
	"time"
)

// Role is drawn from a fixed closed set. It is resolved from the user
// directory at call time; it is never trusted from a credential.
type Role string

const (
	RolePatient Role = "patient"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
)

var (
	ErrUnauthenticated    = errors.New("caller is not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidRole        = errors.New("role outside the known role set")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired code")
)

// KnownRole reports whether r belongs to the closed role set.
func KnownRole(r Role) bool {
	switch r {
	case RolePatient, RoleStaff, RoleAdmin, RoleDoctor:
		return true
	}
	return false
}

// CanActForClinic reports whether r is a clinic-side actor that takes
// ownership of status changes (sets staffId on transitions).
func (r Role) CanActForClinic() bool {
	return r == RoleStaff || r == RoleAdmin
}

// User models an account in the clinic directory.
type User struct {
	ID              string     `json:"id" bson:"_id,omitempty"`
	Name            string     `json:"name" bson:"name"`
	Email           string     `json:"email" bson:"email"`
	PasswordHash    string     `json:"-" bson:"password"`
	Role            Role       `json:"role" bson:"role"`
	PhoneNumber     string     `json:"phoneNumber" bson:"phoneNumber"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty" bson:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" bson:"updated_at"`
}
