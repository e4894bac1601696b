package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/snapcloud/identity-api/internal/domain"
	"github.com/snapcloud/identity-api/internal/pkg/id"
	"github.com/snapcloud/identity-api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgOTPSent        = "verification code sent to email"
	msgOTPUnconfirmed = "verification code generated but delivery is unconfirmed; contact support to receive the code"
	msgBadCredentials = "invalid email or password"
)

// RegisterResult reports the outcome of a registration. No token is issued
// until the email is verified.
type RegisterResult struct {
	Email   string      `json:"email"`
	Role    domain.Role `json:"role"`
	Message string      `json:"message"`
}

// AuthResult carries an issued bearer token together with its expiry as
// extracted back out of the signed token.
type AuthResult struct {
	AccessToken string      `json:"access_token"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error)
	VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error)
	Authenticate(ctx context.Context, req domain.AuthRequest) (*AuthResult, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type otpLedger interface {
	Put(key, code string)
	CheckAndConsume(key, code string) error
}

type mailSender interface {
	Send(to, subject, body string) bool
}

type tokenIssuer interface {
	Sign(email string, role domain.Role) (string, error)
	ExpiryOf(token string) (time.Time, error)
}

type service struct {
	repo     userStore
	codes    otpLedger
	mailer   mailSender
	tokens   tokenIssuer
	generate func() string
}

type ServiceDeps struct {
	UserRepo    userStore
	OTPStore    otpLedger
	Mailer      mailSender
	JWTProvider tokenIssuer
	// Generate overrides the code generator; nil means crypto/rand codes.
	Generate func() string
}

func NewService(deps ServiceDeps) Service {
	gen := deps.Generate
	if gen == nil {
		gen = otp.Generate
	}
	return &service{
		repo:     deps.UserRepo,
		codes:    deps.OTPStore,
		mailer:   deps.Mailer,
		tokens:   deps.JWTProvider,
		generate: gen,
	}
}

// Register creates (or re-registers) an unverified identity, stores a fresh
// verification code and emails it. Registering an already-verified email is a
// conflict; re-registering an unverified one replaces its password and
// invalidates any previously pending code.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil && existing.EmailVerified:
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	case err == nil:
		if err := s.repo.Update(ctx, existing.UserID, map[string]interface{}{
			"password_hash": string(hash),
		}); err != nil {
			return nil, err
		}
	case errors.Is(err, domain.ErrNotFound):
		now := time.Now().UTC()
		u := &domain.User{
			UserID:        id.New(),
			Email:         req.Email,
			PasswordHash:  string(hash),
			Role:          domain.RoleUser,
			EmailVerified: false,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.Put(ctx, u); err != nil {
			return nil, err
		}
		existing = u
	default:
		// A lookup failure is not "user absent": creating a record here could
		// duplicate an existing (possibly verified) identity behind the email
		// index. Fail closed.
		return nil, err
	}

	code := s.generate()
	s.codes.Put(req.Email, code)

	delivered := s.mailer.Send(
		req.Email,
		"Your verification code",
		"Your verification code is: "+code+"\nThis code expires in 10 minutes.",
	)

	// Delivery failure is not a registration failure: the code exists and can
	// be recovered out of band.
	message := msgOTPSent
	if !delivered {
		slog.Warn("verification code delivery unconfirmed", "email", req.Email)
		message = msgOTPUnconfirmed
	}

	return &RegisterResult{Email: req.Email, Role: existing.Role, Message: message}, nil
}

// VerifyOTP consumes the pending code for email and, on success, marks the
// identity verified and issues its first token. All code failures collapse
// into one external error; the specific reason is only logged.
func (s *service) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	if email == "" || code == "" {
		return nil, fmt.Errorf("email and otp are required: %w", domain.ErrBadRequest)
	}

	if err := s.codes.CheckAndConsume(email, code); err != nil {
		slog.Debug("otp check failed", "email", email, "reason", err)
		return nil, domain.ErrInvalidOTP
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}

	if err := s.repo.Update(ctx, u.UserID, map[string]interface{}{
		"email_verified": true,
	}); err != nil {
		return nil, err
	}

	return s.issue(u)
}

// Authenticate checks credentials and issues a token. A missing user and a
// wrong password are indistinguishable to the caller. Unverified identities
// cannot authenticate; verification is the only way into the token path.
func (s *service) Authenticate(ctx context.Context, req domain.AuthRequest) (*AuthResult, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msgBadCredentials, domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%s: %w", msgBadCredentials, domain.ErrUnauthorized)
	}
	if !u.EmailVerified {
		return nil, fmt.Errorf("email not verified: %w", domain.ErrUnauthorized)
	}
	return s.issue(u)
}

func (s *service) issue(u *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Sign(u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	expiresAt, err := s.tokens.ExpiryOf(token)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken: token,
		Email:       u.Email,
		Role:        u.Role,
		ExpiresAt:   expiresAt,
	}, nil
}
