// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. They preserve the same atomicity guarantees as the
// PostgreSQL implementations and back the service and handler unit tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-cms/auth-service/internal/domain"
	"github.com/inkwell-cms/auth-service/internal/repository"
)

// NewRepositories returns a Repositories bundle backed by process memory.
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(),
		RefreshToken: NewRefreshTokenRepository(),
		ResetToken:   NewResetTokenRepository(),
	}
}

// UserRepository is an in-memory repository.UserRepository.
type UserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{nextID: 1, users: make(map[int64]*domain.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}

	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, u := range r.users {
		if u.ID != user.ID && strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}

	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	hash := passwordHash
	u.PasswordHash = &hash
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) LinkGoogle(ctx context.Context, id int64, googleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	gid := googleID
	u.GoogleID = &gid
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) SetRole(ctx context.Context, id int64, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = active
	u.UpdatedAt = time.Now()
	return nil
}

// RefreshTokenRepository is an in-memory repository.RefreshTokenRepository.
type RefreshTokenRepository struct {
	mu     sync.Mutex
	byHash map[string]*domain.RefreshToken
}

func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{byHash: make(map[string]*domain.RefreshToken)}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byHash[token.TokenHash]; ok {
		return repository.ErrDuplicateToken
	}
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.IssuedAt.IsZero() {
		token.IssuedAt = time.Now()
	}
	clone := *token
	r.byHash[token.TokenHash] = &clone
	return nil
}

func (r *RefreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byHash[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *RefreshTokenRepository) Rotate(ctx context.Context, currentHash string, successor *domain.RefreshToken) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byHash[currentHash]
	if !ok {
		return nil, repository.ErrNotFound
	}

	now := time.Now()
	if current.Revoked {
		// Reuse of a rotated token. Revoke the whole family before reporting.
		for _, t := range r.byHash {
			if t.UserID == current.UserID && !t.Revoked {
				t.Revoked = true
				at := now
				t.RevokedAt = &at
			}
		}
		clone := *current
		return &clone, repository.ErrTokenRevoked
	}
	if !now.Before(current.ExpiresAt) {
		clone := *current
		return &clone, repository.ErrTokenExpired
	}

	current.Revoked = true
	at := now
	current.RevokedAt = &at

	successor.UserID = current.UserID
	if successor.ID == "" {
		successor.ID = uuid.NewString()
	}
	if successor.IssuedAt.IsZero() {
		successor.IssuedAt = now
	}
	if _, exists := r.byHash[successor.TokenHash]; exists {
		return nil, repository.ErrDuplicateToken
	}
	clone := *successor
	r.byHash[successor.TokenHash] = &clone

	rotated := *current
	return &rotated, nil
}

func (r *RefreshTokenRepository) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byHash[tokenHash]
	if !ok {
		return repository.ErrNotFound
	}
	if !t.Revoked {
		t.Revoked = true
		at := time.Now()
		t.RevokedAt = &at
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := time.Now()
	for _, t := range r.byHash {
		if t.UserID == userID && !t.Revoked {
			t.Revoked = true
			revoked := at
			t.RevokedAt = &revoked
		}
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for hash, t := range r.byHash {
		if !now.Before(t.ExpiresAt) {
			delete(r.byHash, hash)
		}
	}
	return nil
}

// ActiveCount reports how many unrevoked tokens the user holds. Test helper.
func (r *RefreshTokenRepository) ActiveCount(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, t := range r.byHash {
		if t.UserID == userID && !t.Revoked {
			n++
		}
	}
	return n
}

// ResetTokenRepository is an in-memory repository.ResetTokenRepository.
type ResetTokenRepository struct {
	mu     sync.Mutex
	byHash map[string]*domain.PasswordResetToken
}

func NewResetTokenRepository() *ResetTokenRepository {
	return &ResetTokenRepository{byHash: make(map[string]*domain.PasswordResetToken)}
}

func (r *ResetTokenRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byHash[token.TokenHash]; ok {
		return repository.ErrDuplicateToken
	}
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	clone := *token
	r.byHash[token.TokenHash] = &clone
	return nil
}

func (r *ResetTokenRepository) Consume(ctx context.Context, tokenHash string) (*domain.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byHash[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if t.Consumed {
		return nil, repository.ErrTokenConsumed
	}
	now := time.Now()
	if !now.Before(t.ExpiresAt) {
		return nil, repository.ErrTokenExpired
	}

	t.Consumed = true
	at := now
	t.ConsumedAt = &at
	clone := *t
	return &clone, nil
}
