package dto

import (
	"time"

	"github.com/inkwell-cms/auth-service/internal/domain"
)

// Failure codes returned in the response envelope. Clients branch on these to
// distinguish "re-login required" from "retry" and "forbidden".
const (
	CodeMissingToken    = "MISSING_TOKEN"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeUserDeactivated = "USER_DEACTIVATED"
	CodeAuthRequired    = "AUTH_REQUIRED"
	CodeAdminRequired   = "ADMIN_REQUIRED"
	CodeAccessDenied    = "ACCESS_DENIED"
	CodeValidationError = "VALIDATION_ERROR"
	CodeDuplicateEntry  = "DUPLICATE_ENTRY"
	CodeRateLimited     = "RATE_LIMITED"
)

// Response is the envelope wrapping every JSON body this service returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// TokenPair is the issued credential pair. ExpiresIn is the access-token
// lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// UserResponse is the sanitized user representation. It never carries the
// password hash or the federated subject id.
type UserResponse struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	AvatarURL       string    `json:"avatar_url"`
	Role            string    `json:"role"`
	IsActive        bool      `json:"is_active"`
	EmailVerified   bool      `json:"email_verified"`
	NewsletterOptIn bool      `json:"newsletter_opt_in"`
	AuthProvider    string    `json:"auth_provider"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewUserResponse maps a domain user to its public representation.
func NewUserResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		AvatarURL:       u.AvatarURL,
		Role:            string(u.Role),
		IsActive:        u.IsActive,
		EmailVerified:   u.EmailVerified,
		NewsletterOptIn: u.NewsletterOptIn,
		AuthProvider:    string(u.AuthProvider),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// AuthData is the data payload for register/login/google/refresh responses.
type AuthData struct {
	User   *UserResponse `json:"user"`
	Tokens TokenPair     `json:"tokens"`
}
