package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

// CodeStore holds short-lived one-time codes (email OTPs, reset tokens).
type CodeStore interface {
	Put(ctx context.Context, kind, subject, code string, ttl time.Duration) error
	Check(ctx context.Context, kind, subject, code string) (bool, error)
	Invalidate(ctx context.Context, kind, subject string) error
}

const (
	codeKindEmailOTP   = "email_otp"
	codeKindResetToken = "reset_token"

	otpTTL        = 10 * time.Minute
	resetTokenTTL = 30 * time.Minute
)

// AuthService implements registration, role-pinned login, email verification
// and password reset. Issued tokens carry identity only; the caller's role is
// re-resolved from the directory on every authorized request.
type AuthService struct {
	users     ports.UserRepository
	codes     CodeStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, codes CodeStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, codes: codes, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}
	if !domain.KnownRole(input.Role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		PhoneNumber:  input.PhoneNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login authenticates by email and password. The account's stored role must
// match expectedRole: each login endpoint is pinned to one role, so a patient
// cannot sign in through the staff endpoint even with valid credentials.
func (s *AuthService) Login(ctx context.Context, email, password string, expectedRole domain.Role) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if user.Role != expectedRole {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// SendVerificationCode stores a fresh OTP for the account. Delivery is out of
// band; the code is only logged at debug level for local development.
func (s *AuthService) SendVerificationCode(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.codes.Put(ctx, codeKindEmailOTP, user.Email, code, otpTTL); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	s.log.Debug().Str("email", user.Email).Str("code", code).Msg("verification code issued")
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.codes.Check(ctx, codeKindEmailOTP, user.Email, code)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidOTP
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID, time.Now().UTC()); err != nil {
		return err
	}
	return s.codes.Invalidate(ctx, codeKindEmailOTP, user.Email)
}

// RequestPasswordReset issues an opaque single-use token for the account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := s.codes.Put(ctx, codeKindResetToken, user.Email, token, resetTokenTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	s.log.Debug().Str("email", user.Email).Str("token", token).Msg("password reset token issued")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.codes.Check(ctx, codeKindResetToken, user.Email, token)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return s.codes.Invalidate(ctx, codeKindResetToken, user.Email)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// generateOTP returns a 6-digit numeric code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
