package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/inkwell-cms/auth-service/internal/domain"
	"github.com/inkwell-cms/auth-service/pkg/database"
)

// resetTokenRepository implements ResetTokenRepository over Postgres.
type resetTokenRepository struct {
	db *database.Postgres
}

// NewResetTokenRepository creates a new password-reset ledger repository.
func NewResetTokenRepository(db *database.Postgres) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

// Create inserts a new reset-token record. Issuing a new token does not
// invalidate prior ones; the consume path is first-wins.
func (r *resetTokenRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, consumed, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("reset token already recorded: %w", ErrDuplicateToken)
		}
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	return nil
}

// Consume flips the consumed flag with a conditional update so that exactly
// one of two concurrent presentations wins. The loser, and any later
// presentation, observes ErrTokenConsumed.
func (r *resetTokenRepository) Consume(ctx context.Context, tokenHash string) (*domain.PasswordResetToken, error) {
	now := time.Now()

	query := `
		UPDATE password_reset_tokens
		SET consumed = TRUE, consumed_at = $2
		WHERE token_hash = $1 AND consumed = FALSE AND expires_at > $2
		RETURNING id, user_id, token_hash, expires_at, consumed, consumed_at, created_at
	`

	token := &domain.PasswordResetToken{}
	var consumedAt sql.NullTime

	err := r.db.DB.QueryRowContext(ctx, query, tokenHash, now).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.Consumed,
		&consumedAt,
		&token.CreatedAt,
	)
	if err == nil {
		if consumedAt.Valid {
			token.ConsumedAt = &consumedAt.Time
		}
		return token, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to consume reset token: %w", err)
	}

	// The CAS missed: distinguish absent, expired and already-consumed.
	var expiresAt time.Time
	var consumed bool
	err = r.db.DB.QueryRowContext(ctx,
		`SELECT expires_at, consumed FROM password_reset_tokens WHERE token_hash = $1`,
		tokenHash,
	).Scan(&expiresAt, &consumed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reset token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to inspect reset token: %w", err)
	}

	if consumed {
		return nil, fmt.Errorf("reset token: %w", ErrTokenConsumed)
	}
	return nil, fmt.Errorf("reset token: %w", ErrTokenExpired)
}
