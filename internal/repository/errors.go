package repository

import "errors"

// Store-level sentinel errors. Services match these with errors.Is and
// translate them into domain conditions.
var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an insert or update collides with
	// the unique email constraint.
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateToken is returned when a token hash collides with an
	// existing ledger entry.
	ErrDuplicateToken = errors.New("token with this hash already exists")

	// ErrTokenRevoked is returned when a ledger entry has already been
	// revoked. During rotation this signals reuse of a consumed token.
	ErrTokenRevoked = errors.New("token has been revoked")

	// ErrTokenExpired is returned when a ledger entry is past its expiry.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenConsumed is returned when a reset token was already used.
	ErrTokenConsumed = errors.New("token has already been consumed")
)
