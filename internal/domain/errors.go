package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// ErrInvalidOTP covers every OTP failure (missing, expired, mismatched).
	// The specific reason is logged server-side but never surfaced, so a
	// caller cannot tell which check failed.
	ErrInvalidOTP = errors.New("invalid or expired otp")

	// ErrInvalidToken is returned when a bearer token fails signature or
	// format checks during verification or expiry extraction.
	ErrInvalidToken = errors.New("invalid token")
)
