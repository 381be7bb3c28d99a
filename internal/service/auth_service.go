package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inkwell-cms/auth-service/internal/domain"
	"github.com/inkwell-cms/auth-service/internal/dto"
	"github.com/inkwell-cms/auth-service/internal/repository"
	"github.com/inkwell-cms/auth-service/internal/utils"
)

// Config carries the security knobs of the auth service.
type Config struct {
	BCryptCost int

	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration

	// RevokeSessionsOnPasswordChange cascades a password change into a
	// revocation of every outstanding refresh token.
	RevokeSessionsOnPasswordChange bool
}

// authService implements AuthService.
type authService struct {
	userRepo    repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	resetRepo   repository.ResetTokenRepository
	tokens      *utils.TokenManager
	google      IdentityVerifier
	resetSender ResetTokenSender
	logger      *zap.Logger

	bcryptCost             int
	refreshTTL             time.Duration
	resetTTL               time.Duration
	revokeOnPasswordChange bool
}

// NewAuthService creates a new auth service. google may be nil when federated
// login is not configured.
func NewAuthService(
	repos *repository.Repositories,
	tokens *utils.TokenManager,
	google IdentityVerifier,
	resetSender ResetTokenSender,
	logger *zap.Logger,
	cfg Config,
) AuthService {
	return &authService{
		userRepo:               repos.User,
		refreshRepo:            repos.RefreshToken,
		resetRepo:              repos.ResetToken,
		tokens:                 tokens,
		google:                 google,
		resetSender:            resetSender,
		logger:                 logger,
		bcryptCost:             cfg.BCryptCost,
		refreshTTL:             cfg.RefreshTokenTTL,
		resetTTL:               cfg.ResetTokenTTL,
		revokeOnPasswordChange: cfg.RevokeSessionsOnPasswordChange,
	}
}

// Register creates a local account and issues its first token pair.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error) {
	email := utils.SanitizeEmail(req.Email)

	if !utils.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, ErrWeakPassword
	}
	if req.Role != "" && domain.Role(req.Role) != domain.RoleClient {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:           email,
		PasswordHash:    &passwordHash,
		FullName:        req.FullName,
		Role:            domain.RoleClient,
		IsActive:        true,
		NewsletterOptIn: req.NewsletterOptIn,
		AuthProvider:    domain.ProviderLocal,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))

	return s.issuePair(ctx, user)
}

// Login verifies local credentials and issues a token pair.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Federated accounts carry no password hash; it is never checked.
	if user.PasswordHash == nil || !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		s.logger.Warn("failed login attempt", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserDeactivated
	}

	return s.issuePair(ctx, user)
}

// GoogleLogin exchanges a verified Google ID token for a local session,
// finding or creating the matching user.
func (s *authService) GoogleLogin(ctx context.Context, rawIDToken string) (*AuthResult, error) {
	if s.google == nil {
		return nil, ErrGoogleNotConfigured
	}

	claims, err := s.google.Verify(ctx, rawIDToken)
	if err != nil {
		s.logger.Warn("google id token rejected", zap.Error(err))
		return nil, ErrGoogleToken
	}

	user, err := s.findOrCreateFederated(ctx, claims)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserDeactivated
	}

	return s.issuePair(ctx, user)
}

func (s *authService) findOrCreateFederated(ctx context.Context, claims *FederatedClaims) (*domain.User, error) {
	user, err := s.userRepo.GetByGoogleID(ctx, claims.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up federated user: %w", err)
	}

	email := utils.SanitizeEmail(claims.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		// Linking by email match is only safe when Google itself attests
		// the address; an unverified address could hijack a local account.
		if !claims.EmailVerified {
			return nil, ErrGoogleEmail
		}
		if err := s.userRepo.LinkGoogle(ctx, existing.ID, claims.Subject); err != nil {
			return nil, fmt.Errorf("failed to link google identity: %w", err)
		}
		s.logger.Info("google identity linked to existing account", zap.Int64("user_id", existing.ID))
		existing.GoogleID = &claims.Subject
		existing.EmailVerified = true
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if !claims.EmailVerified {
		return nil, ErrGoogleEmail
	}

	user = &domain.User{
		Email:         email,
		FullName:      claims.FullName,
		AvatarURL:     claims.Picture,
		Role:          domain.RoleClient,
		IsActive:      true,
		EmailVerified: true,
		AuthProvider:  domain.ProviderFederated,
		GoogleID:      &claims.Subject,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create federated user: %w", err)
	}

	s.logger.Info("federated user created", zap.Int64("user_id", user.ID))
	return user, nil
}

// Refresh rotates the presented refresh token for a new pair. Reuse of a
// revoked token revokes the user's entire session chain.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	next, err := utils.NewOpaqueToken()
	if err != nil {
		return nil, err
	}
	successor := &domain.RefreshToken{
		TokenHash: utils.HashToken(next),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}

	current, err := s.refreshRepo.Rotate(ctx, utils.HashToken(refreshToken), successor)
	if err != nil {
		if errors.Is(err, repository.ErrTokenRevoked) && current != nil {
			s.logger.Warn("refresh token reuse detected, sessions revoked",
				zap.Int64("user_id", current.UserID),
				zap.String("token_id", current.ID),
			)
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		// The rotation already happened; make sure the successor cannot
		// be used either.
		if err := s.refreshRepo.RevokeAllForUser(ctx, user.ID); err != nil {
			s.logger.Error("failed to revoke sessions of deactivated user", zap.Error(err))
		}
		return nil, ErrUserDeactivated
	}

	accessToken, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &AuthResult{
		User: dto.NewUserResponse(user),
		Tokens: dto.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: next,
			ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
		},
	}, nil
}

// Logout revokes the presented refresh token when it belongs to the caller.
func (s *authService) Logout(ctx context.Context, userID int64, refreshToken string) error {
	hash := utils.HashToken(refreshToken)

	record, err := s.refreshRepo.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if record.UserID != userID {
		s.logger.Warn("logout presented a foreign refresh token",
			zap.Int64("user_id", userID),
			zap.String("token_id", record.ID),
		)
		return nil
	}

	if err := s.refreshRepo.RevokeByTokenHash(ctx, hash); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Authenticate verifies an access token and confirms the subject is active.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.Identity, error) {
	claims, err := s.tokens.Verify(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserDeactivated
	}

	return &domain.Identity{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// GetUser returns the sanitized user.
func (s *authService) GetUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return dto.NewUserResponse(user), nil
}

// UpdateProfile applies the provided mutable profile fields.
func (s *authService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.NewsletterOptIn != nil {
		user.NewsletterOptIn = *req.NewsletterOptIn
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return dto.NewUserResponse(user), nil
}

// ChangePassword verifies the current password and stores a new hash,
// cascading into session revocation when configured.
func (s *authService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if !utils.ValidatePassword(req.NewPassword) {
		return ErrWeakPassword
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user.PasswordHash == nil {
		return ErrNoLocalPassword
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, *user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if s.revokeOnPasswordChange {
		if err := s.refreshRepo.RevokeAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to revoke sessions after password change: %w", err)
		}
		s.logger.Info("sessions revoked after password change", zap.Int64("user_id", userID))
	}

	return nil
}

// ForgotPassword issues a reset token for the account, if one exists. The
// outcome is identical for unknown addresses to avoid account enumeration.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user.PasswordHash == nil {
		// Federated accounts have no password to reset.
		return nil
	}

	token, err := utils.NewOpaqueToken()
	if err != nil {
		return err
	}

	record := &domain.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(token),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resetRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to record reset token: %w", err)
	}

	if err := s.resetSender.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("failed to send reset token: %w", err)
	}

	s.logger.Info("password reset token issued", zap.Int64("user_id", user.ID))
	return nil
}

// ResetPassword consumes a reset token, stores the new password and revokes
// every outstanding refresh token of the user.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !utils.ValidatePassword(newPassword) {
		return ErrWeakPassword
	}

	record, err := s.resetRepo.Consume(ctx, utils.HashToken(token))
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, record.UserID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Prior sessions may be compromised; they must not survive the reset.
	if err := s.refreshRepo.RevokeAllForUser(ctx, record.UserID); err != nil {
		return fmt.Errorf("failed to revoke sessions after reset: %w", err)
	}

	s.logger.Info("password reset completed", zap.Int64("user_id", record.UserID))
	return nil
}

// SetUserRole changes a user's role.
func (s *authService) SetUserRole(ctx context.Context, userID int64, role domain.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if err := s.userRepo.SetRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}

// DeactivateUser soft-disables an account and invalidates its sessions.
func (s *authService) DeactivateUser(ctx context.Context, userID int64) error {
	if err := s.userRepo.SetActive(ctx, userID, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if err := s.refreshRepo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions of deactivated user: %w", err)
	}
	s.logger.Info("user deactivated", zap.Int64("user_id", userID))
	return nil
}

// RevokeAllSessions implements "log out everywhere".
func (s *authService) RevokeAllSessions(ctx context.Context, userID int64) error {
	if err := s.refreshRepo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}
