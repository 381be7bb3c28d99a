package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/auth-service/internal/domain"
	"github.com/inkwell-cms/auth-service/internal/dto"
	"github.com/inkwell-cms/auth-service/internal/service"
)

// AdminHandler handles the administrative user-management endpoints.
type AdminHandler struct {
	authService service.AuthService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(authService service.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, dto.CodeValidationError, "invalid user id")
		return 0, false
	}
	return id, true
}

// GetUser returns a user by id. Admin or owner.
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "user", user)
}

// SetRole changes a user's role. Admin only.
func (h *AdminHandler) SetRole(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	var req dto.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, dto.CodeValidationError, err.Error())
		return
	}

	if err := h.authService.SetUserRole(c.Request.Context(), id, domain.Role(req.Role)); err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "role updated", nil)
}

// Deactivate soft-disables an account and invalidates its sessions. Admin
// only.
func (h *AdminHandler) Deactivate(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.authService.DeactivateUser(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "user deactivated", nil)
}

// LogoutAll revokes every outstanding session of a user. Admin or owner.
func (h *AdminHandler) LogoutAll(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.authService.RevokeAllSessions(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}

	respond(c, http.StatusOK, "sessions revoked", nil)
}
