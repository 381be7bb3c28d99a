package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/auth-service/internal/dto"
	"github.com/inkwell-cms/auth-service/internal/service"
)

// AuthHandler handles the authentication and session-lifecycle endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a local account and returns the user with a token pair.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, dto.CodeValidationError, err.Error())
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusCreated, "registered", result.Data())
}

// Login verifies local credentials and returns the user with a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, dto.CodeValidationError, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "logged in", result.Data())
}

// Google exchanges a Google ID token for a local session.
func (h *AuthHandler) Google(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, dto.CodeValidationError, err.Error())
		return
	}

	result, err := h.authService.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "logged in", result.Data())
}

// Refresh rotates the presented refresh token for a new pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, dto.CodeValidationError, err.Error())
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "token pair rotated", result.Data())
}

// Logout revokes the presented refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	identity, ok := IdentityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, dto.CodeAuthRequired, "authentication required")
		return
	}

	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, dto.CodeValidationError, err.Error())
		return
	}

	if err := h.authService.Logout(c.Request.Context(), identity.ID, req.RefreshToken); err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "logged out", nil)
}

// GetProfile returns the sanitized current user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	identity, ok := IdentityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, dto.CodeAuthRequired, "authentication required")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), identity.ID)
	if err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "profile", user)
}

// UpdateProfile updates the mutable profile fields of the current user.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	identity, ok := IdentityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, dto.CodeAuthRequired, "authentication required")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, dto.CodeValidationError, err.Error())
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), identity.ID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "profile updated", user)
}

// ChangePassword verifies the current password and sets a new one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity, ok := IdentityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, dto.CodeAuthRequired, "authentication required")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, dto.CodeValidationError, err.Error())
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), identity.ID, &req); err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "password changed", nil)
}

// ForgotPassword issues a reset token. The response does not reveal whether
// the address has an account.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, dto.CodeValidationError, err.Error())
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "if the address has an account, a reset token has been sent", nil)
}

// ResetPassword consumes a reset token and sets a new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, dto.CodeValidationError, err.Error())
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "password reset", nil)
}
