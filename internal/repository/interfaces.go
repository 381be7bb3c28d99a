package repository

import (
	"context"

	"github.com/inkwell-cms/auth-service/internal/domain"
)

// UserRepository defines methods over the users table.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	LinkGoogle(ctx context.Context, id int64, googleID string) error
	SetRole(ctx context.Context, id int64, role domain.Role) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// RefreshTokenRepository is the ledger of outstanding long-lived sessions.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Rotate atomically revokes the record identified by currentHash and
	// inserts successor in its place; successor's UserID is inherited from
	// the rotated record. Exactly one of two concurrent presentations of
	// the same hash succeeds. On reuse of an already-revoked token it
	// revokes every outstanding token of that user (theft signal), commits
	// that cascade, and returns the record together with ErrTokenRevoked.
	// ErrTokenExpired is returned for records past their expiry.
	Rotate(ctx context.Context, currentHash string, successor *domain.RefreshToken) (*domain.RefreshToken, error)

	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) error
}

// ResetTokenRepository is the ledger of single-use password-reset tokens.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *domain.PasswordResetToken) error

	// Consume marks the record identified by tokenHash as consumed. The
	// update is conditional on the record being unconsumed, so the first
	// of two concurrent presentations wins and the other observes
	// ErrTokenConsumed. Expired records yield ErrTokenExpired.
	Consume(ctx context.Context, tokenHash string) (*domain.PasswordResetToken, error)
}
