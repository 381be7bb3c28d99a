package domain

import "time"

// RefreshToken is one outstanding long-lived session. Only the SHA-256 hash of
// the opaque value handed to the client is stored; the raw secret is not
// recoverable from this record.
type RefreshToken struct {
	ID        string     `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	TokenHash string     `json:"-" db:"token_hash"`
	IssuedAt  time.Time  `json:"issued_at" db:"issued_at"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	Revoked   bool       `json:"revoked" db:"revoked"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

// Valid reports whether the record can still authorize a rotation at t.
func (rt *RefreshToken) Valid(t time.Time) bool {
	return !rt.Revoked && t.Before(rt.ExpiresAt)
}

// PasswordResetToken is a single-use, time-boxed credential-recovery
// capability. Like refresh tokens, only a hash of the value is stored.
type PasswordResetToken struct {
	ID         string     `json:"id" db:"id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	TokenHash  string     `json:"-" db:"token_hash"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	Consumed   bool       `json:"consumed" db:"consumed"`
	ConsumedAt *time.Time `json:"consumed_at" db:"consumed_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
