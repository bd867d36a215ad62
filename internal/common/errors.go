// Package common defines shared constants and sentinel errors used across
// the service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Registration errors. ErrCreationFailed signals that a freshly inserted
	// user row could not be read back, which indicates an integrity fault.
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrCreationFailed    = errors.New("user creation failed")

	// ErrInvalidCredentials covers both an unknown identifier and a wrong
	// password, so a caller cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token lifecycle errors. Malformed, expired and revoked tokens all
	// collapse into ErrInvalidOrExpiredToken.
	ErrMissingToken          = errors.New("missing token")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	ErrUserNotFound = errors.New("user not found")
)
