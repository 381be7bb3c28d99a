package dto

// RegisterRequest creates a local account. Role is optional and may only name
// the default client role; admins are promoted through the admin API.
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	FullName        string `json:"full_name" binding:"required"`
	Role            string `json:"role" binding:"omitempty,oneof=client"`
	NewsletterOptIn bool   `json:"newsletter_opt_in"`
}

// LoginRequest verifies local credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest exchanges a Google ID token for a local session.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// RefreshRequest rotates a token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest revokes the presented refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UpdateProfileRequest updates mutable profile fields. Pointer fields are
// applied only when present in the request body.
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name"`
	AvatarURL       *string `json:"avatar_url"`
	NewsletterOptIn *bool   `json:"newsletter_opt_in"`
}

// ChangePasswordRequest verifies the current password and sets a new one.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ForgotPasswordRequest issues a password-reset token.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest consumes a reset token and sets a new password.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// SetRoleRequest changes a user's role (admin only).
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=client admin"`
}
