package service

import (
	"context"

	"github.com/inkwell-cms/auth-service/internal/domain"
	"github.com/inkwell-cms/auth-service/internal/dto"
)

// AuthService defines the authentication and session-lifecycle operations.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)
	GoogleLogin(ctx context.Context, rawIDToken string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, userID int64, refreshToken string) error

	// Authenticate verifies an access token and confirms its subject still
	// exists and is active. It backs the auth middleware.
	Authenticate(ctx context.Context, accessToken string) (*domain.Identity, error)

	GetUser(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	SetUserRole(ctx context.Context, userID int64, role domain.Role) error
	DeactivateUser(ctx context.Context, userID int64) error
	RevokeAllSessions(ctx context.Context, userID int64) error
}

// IdentityVerifier verifies a federated identity assertion and extracts its
// claims. The production implementation checks Google ID tokens via OIDC
// discovery; tests substitute a fake.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*FederatedClaims, error)
}

// FederatedClaims are the fields this service consumes from a verified
// federated assertion.
type FederatedClaims struct {
	Subject       string
	Email         string
	EmailVerified bool
	FullName      string
	Picture       string
}

// ResetTokenSender delivers a password-reset token to a user. Outbound email
// is an external collaborator; the default implementation only logs.
type ResetTokenSender interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}
