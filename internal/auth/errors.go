package auth

import "errors"

// Domain errors for the auth package.
var (
	// ErrTokenInvalid is returned when a JWT fails signature or claim validation.
	ErrTokenInvalid = errors.New("auth: invalid token")

	// ErrTokenExpired is returned when a JWT is past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
)
