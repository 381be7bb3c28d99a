package repository

import (
	"github.com/inkwell-cms/auth-service/pkg/database"
)

// Repositories holds all repository interfaces.
type Repositories struct {
	User         UserRepository
	RefreshToken RefreshTokenRepository
	ResetToken   ResetTokenRepository
}

// NewRepositories creates the Postgres-backed repository set.
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		ResetToken:   NewResetTokenRepository(db),
	}
}
