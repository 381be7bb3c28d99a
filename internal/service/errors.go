package service

import "errors"

// Domain-level sentinel errors. Handlers translate these into envelope codes
// and HTTP statuses.
var (
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrWeakPassword        = errors.New("password must be at least 8 characters long and contain uppercase, lowercase, and number")
	ErrPasswordMismatch    = errors.New("password confirmation does not match")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrNoLocalPassword     = errors.New("account has no local password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserDeactivated     = errors.New("user account is deactivated")
	ErrInvalidRole         = errors.New("invalid role")
	ErrGoogleNotConfigured = errors.New("google login is not configured")
	ErrGoogleToken         = errors.New("google id token could not be verified")
	ErrGoogleEmail         = errors.New("google account email is not verified")
)
