package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing, malformed, or expired token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates malformed client input.
	ErrValidation = errors.New("validation failed")
)
