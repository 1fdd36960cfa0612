// Package common defines shared constants and sentinel errors used across
// client and server layers of Voices. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorUnauthenticated    = errors.New("unauthenticated")
	ErrorValidation         = errors.New("validation error")
	ErrorDuplicateAccount   = errors.New("an account with this email already exists")
	ErrorInvalidCredentials = errors.New("invalid email or password")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
