package auth

import "errors"

var (
	// ErrInvalidToken is returned for malformed, forged or otherwise invalid tokens
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's exp claim has passed
	ErrExpiredToken = errors.New("token expired")

	// ErrUnauthenticated is returned when a gated operation has no caller
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the caller lacks every required role
	ErrForbidden = errors.New("insufficient permissions")

	// ErrInvalidCredentials is returned when a password does not match
	ErrInvalidCredentials = errors.New("invalid credentials")
)
