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

// refreshTokenRepository implements RefreshTokenRepository over Postgres.
type refreshTokenRepository struct {
	db *database.Postgres
}

// NewRefreshTokenRepository creates a new refresh-token ledger repository.
func NewRefreshTokenRepository(db *database.Postgres) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

const refreshTokenColumns = `id, user_id, token_hash, issued_at, expires_at, revoked, revoked_at`

// Create inserts a new ledger entry.
func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	fillTokenDefaults(token)

	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, issued_at, expires_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.IssuedAt,
		token.ExpiresAt,
		token.Revoked,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("refresh token already recorded: %w", ErrDuplicateToken)
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}

	return nil
}

// GetByTokenHash retrieves a ledger entry by token hash.
func (r *refreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	query := `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE token_hash = $1`

	token, err := scanRefreshToken(r.db.DB.QueryRowContext(ctx, query, tokenHash))
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Rotate revokes the record identified by currentHash and inserts successor in
// one transaction. The presented row is locked with FOR UPDATE so that two
// concurrent presentations of the same token serialize: the second observes
// the revoked flag written by the first and fails with ErrTokenRevoked.
func (r *refreshTokenRepository) Rotate(ctx context.Context, currentHash string, successor *domain.RefreshToken) (*domain.RefreshToken, error) {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE token_hash = $1 FOR UPDATE`
	current, err := scanRefreshToken(tx.QueryRowContext(ctx, query, currentHash))
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if current.Revoked {
		// Reuse of a consumed token is a theft signal: kill every
		// outstanding session of this user and keep that write even
		// though the rotation itself fails.
		_, err = tx.ExecContext(ctx,
			`UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE user_id = $1 AND revoked = FALSE`,
			current.UserID, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to cascade-revoke after reuse: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit cascade revocation: %w", err)
		}
		return current, fmt.Errorf("refresh token %s reused after revocation: %w", current.ID, ErrTokenRevoked)
	}

	if now.After(current.ExpiresAt) {
		return current, fmt.Errorf("refresh token %s: %w", current.ID, ErrTokenExpired)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`,
		current.ID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke rotated token: %w", err)
	}

	successor.UserID = current.UserID
	fillTokenDefaults(successor)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, issued_at, expires_at, revoked)
		 VALUES ($1, $2, $3, $4, $5, FALSE)`,
		successor.ID, successor.UserID, successor.TokenHash, successor.IssuedAt, successor.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert successor token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rotation: %w", err)
	}

	return current, nil
}

// RevokeByTokenHash revokes a single ledger entry (logout).
func (r *refreshTokenRepository) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = now() WHERE token_hash = $1 AND revoked = FALSE`

	result, err := r.db.DB.ExecContext(ctx, query, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("refresh token not found or already revoked: %w", ErrNotFound)
	}

	return nil
}

// RevokeAllForUser revokes every outstanding session of a user ("log out
// everywhere", password-change and deactivation cascades).
func (r *refreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = now() WHERE user_id = $1 AND revoked = FALSE`

	if _, err := r.db.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens for user %d: %w", userID, err)
	}
	return nil
}

// DeleteExpired prunes ledger entries past their expiry.
func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) error {
	query := `DELETE FROM refresh_tokens WHERE expires_at < now()`

	if _, err := r.db.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRefreshToken(row rowScanner) (*domain.RefreshToken, error) {
	token := &domain.RefreshToken{}
	var revokedAt sql.NullTime

	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.IssuedAt,
		&token.ExpiresAt,
		&token.Revoked,
		&revokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("refresh token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan refresh token: %w", err)
	}

	if revokedAt.Valid {
		token.RevokedAt = &revokedAt.Time
	}

	return token, nil
}

func fillTokenDefaults(token *domain.RefreshToken) {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.IssuedAt.IsZero() {
		token.IssuedAt = time.Now()
	}
}
