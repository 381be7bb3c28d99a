package service

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-cms/auth-service/internal/domain"
	"github.com/inkwell-cms/auth-service/internal/dto"
	"github.com/inkwell-cms/auth-service/internal/utils"
)

// AuthResult is the outcome of a successful authentication: the sanitized
// user and a freshly issued token pair.
type AuthResult struct {
	User   *dto.UserResponse
	Tokens dto.TokenPair
}

// Data shapes the result for the response envelope.
func (r *AuthResult) Data() *dto.AuthData {
	return &dto.AuthData{User: r.User, Tokens: r.Tokens}
}

// issuePair mints an access token and an opaque refresh token for the user
// and records the refresh token in the ledger.
func (s *authService) issuePair(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := utils.NewOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	record := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.refreshRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record refresh token: %w", err)
	}

	return &AuthResult{
		User: dto.NewUserResponse(user),
		Tokens: dto.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
		},
	}, nil
}
