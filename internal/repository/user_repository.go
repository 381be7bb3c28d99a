package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/inkwell-cms/auth-service/internal/domain"
	"github.com/inkwell-cms/auth-service/pkg/database"
)

const pqUniqueViolation = "23505"

// userRepository implements UserRepository over Postgres.
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, avatar_url, role, is_active,
	email_verified, newsletter_opt_in, auth_provider, google_id, created_at, updated_at`

// Create inserts a new user and fills in its generated id and timestamps.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, full_name, avatar_url, role, is_active,
			email_verified, newsletter_opt_in, auth_provider, google_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.DB.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.AvatarURL,
		user.Role,
		user.IsActive,
		user.EmailVerified,
		user.NewsletterOptIn,
		user.AuthProvider,
		user.GoogleID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by its case-normalized email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.DB.QueryRowContext(ctx, query, email))
}

// GetByID retrieves a user by id.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.DB.QueryRowContext(ctx, query, id))
}

// GetByGoogleID retrieves a user by its federated subject id.
func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return r.scanUser(r.db.DB.QueryRowContext(ctx, query, googleID))
}

// Update persists the mutable profile fields.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET full_name = $2, avatar_url = $3, newsletter_opt_in = $4,
			email_verified = $5, updated_at = now()
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.FullName,
		user.AvatarURL,
		user.NewsletterOptIn,
		user.EmailVerified,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return r.requireRow(result, user.ID)
}

// UpdatePassword replaces the stored password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return r.requireRow(result, id)
}

// LinkGoogle attaches a federated subject id to an existing account.
func (r *userRepository) LinkGoogle(ctx context.Context, id int64, googleID string) error {
	query := `UPDATE users SET google_id = $2, email_verified = TRUE, updated_at = now() WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, googleID)
	if err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}

	return r.requireRow(result, id)
}

// SetRole changes a user's role.
func (r *userRepository) SetRole(ctx context.Context, id int64, role domain.Role) error {
	query := `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}

	return r.requireRow(result, id)
}

// SetActive soft-enables or soft-disables an account.
func (r *userRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to set active flag: %w", err)
	}

	return r.requireRow(result, id)
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var passwordHash, googleID sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&user.FullName,
		&user.AvatarURL,
		&user.Role,
		&user.IsActive,
		&user.EmailVerified,
		&user.NewsletterOptIn,
		&user.AuthProvider,
		&googleID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if passwordHash.Valid {
		user.PasswordHash = &passwordHash.String
	}
	if googleID.Valid {
		user.GoogleID = &googleID.String
	}

	return user, nil
}

func (r *userRepository) requireRow(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user with id %d not found: %w", id, ErrNotFound)
	}
	return nil
}
