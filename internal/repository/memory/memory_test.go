package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/auth-service/internal/domain"
	"github.com/inkwell-cms/auth-service/internal/repository"
)

func newToken(userID int64, hash string, ttl time.Duration) *domain.RefreshToken {
	return &domain.RefreshToken{
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestRotate(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository()

	require.NoError(t, repo.Create(ctx, newToken(1, "hash-a", time.Hour)))

	rotated, err := repo.Rotate(ctx, "hash-a", newToken(0, "hash-b", time.Hour))
	require.NoError(t, err)
	assert.True(t, rotated.Revoked)

	// The successor inherits the user id of the rotated record.
	successor, err := repo.GetByTokenHash(ctx, "hash-b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), successor.UserID)
	assert.False(t, successor.Revoked)
}

func TestRotateReuseCascades(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository()

	require.NoError(t, repo.Create(ctx, newToken(1, "hash-a", time.Hour)))
	require.NoError(t, repo.Create(ctx, newToken(1, "hash-other", time.Hour)))
	require.NoError(t, repo.Create(ctx, newToken(2, "hash-bystander", time.Hour)))

	_, err := repo.Rotate(ctx, "hash-a", newToken(0, "hash-b", time.Hour))
	require.NoError(t, err)

	// Replay of the consumed token revokes user 1's whole family.
	_, err = repo.Rotate(ctx, "hash-a", newToken(0, "hash-c", time.Hour))
	assert.ErrorIs(t, err, repository.ErrTokenRevoked)
	assert.Equal(t, 0, repo.ActiveCount(1))

	// Another user's tokens are untouched.
	assert.Equal(t, 1, repo.ActiveCount(2))
}

func TestRotateExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository()

	require.NoError(t, repo.Create(ctx, newToken(1, "hash-a", -time.Minute)))

	_, err := repo.Rotate(ctx, "hash-a", newToken(0, "hash-b", time.Hour))
	assert.ErrorIs(t, err, repository.ErrTokenExpired)

	_, err = repo.GetByTokenHash(ctx, "hash-b")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRotateUnknown(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository()

	_, err := repo.Rotate(ctx, "hash-missing", newToken(0, "hash-b", time.Hour))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository()

	require.NoError(t, repo.Create(ctx, newToken(1, "hash-live", time.Hour)))
	require.NoError(t, repo.Create(ctx, newToken(1, "hash-dead", -time.Minute)))

	require.NoError(t, repo.DeleteExpired(ctx))

	_, err := repo.GetByTokenHash(ctx, "hash-live")
	assert.NoError(t, err)
	_, err = repo.GetByTokenHash(ctx, "hash-dead")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConsume(t *testing.T) {
	ctx := context.Background()
	repo := NewResetTokenRepository()

	require.NoError(t, repo.Create(ctx, &domain.PasswordResetToken{
		UserID:    1,
		TokenHash: "hash-a",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	record, err := repo.Consume(ctx, "hash-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.UserID)
	assert.True(t, record.Consumed)

	_, err = repo.Consume(ctx, "hash-a")
	assert.ErrorIs(t, err, repository.ErrTokenConsumed)
}

func TestConsumeExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewResetTokenRepository()

	require.NoError(t, repo.Create(ctx, &domain.PasswordResetToken{
		UserID:    1,
		TokenHash: "hash-a",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err := repo.Consume(ctx, "hash-a")
	assert.ErrorIs(t, err, repository.ErrTokenExpired)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{Email: "reader@example.com"}))

	err := repo.Create(ctx, &domain.User{Email: "Reader@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}
