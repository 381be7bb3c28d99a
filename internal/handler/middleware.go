package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/auth-service/internal/domain"
	"github.com/inkwell-cms/auth-service/internal/dto"
	"github.com/inkwell-cms/auth-service/internal/service"
	"github.com/inkwell-cms/auth-service/internal/utils"
)

const identityKey = "identity"

// IdentityFrom returns the authenticated identity attached by RequireAuth or
// OptionalAuth.
func IdentityFrom(c *gin.Context) (*domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*domain.Identity)
	return identity, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth verifies the bearer access token, confirms the subject is still
// an active user and attaches the typed identity to the request context.
func RequireAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abort(c, http.StatusUnauthorized, dto.CodeMissingToken, "authorization bearer token is required")
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortAuthFailure(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth runs the same pipeline as RequireAuth but proceeds anonymously
// on any failure. Public endpoints use it to personalize behavior for callers
// that happen to be logged in.
func OptionalAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if identity, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(identityKey, identity)
			}
		}
		c.Next()
	}
}

// RequireAdmin allows only callers whose identity carries the admin role. It
// must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, dto.CodeAuthRequired, "authentication required")
			return
		}
		if !identity.IsAdmin() {
			abort(c, http.StatusForbidden, dto.CodeAdminRequired, "admin role required")
			return
		}
		c.Next()
	}
}

// RequireAdminOrOwner allows admins, or callers whose subject id equals the
// numeric path parameter naming the resource owner. It must run after
// RequireAuth.
func RequireAdminOrOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, dto.CodeAuthRequired, "authentication required")
			return
		}
		if identity.IsAdmin() {
			c.Next()
			return
		}

		ownerID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || ownerID != identity.ID {
			abort(c, http.StatusForbidden, dto.CodeAccessDenied, "access denied")
			return
		}
		c.Next()
	}
}

func abortAuthFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrTokenExpired):
		abort(c, http.StatusUnauthorized, dto.CodeTokenExpired, "access token is expired")
	case errors.Is(err, utils.ErrTokenMalformed), errors.Is(err, utils.ErrTokenInvalid):
		abort(c, http.StatusUnauthorized, dto.CodeInvalidToken, "access token is invalid")
	case errors.Is(err, service.ErrUserNotFound):
		abort(c, http.StatusUnauthorized, dto.CodeUserNotFound, "user no longer exists")
	case errors.Is(err, service.ErrUserDeactivated):
		abort(c, http.StatusUnauthorized, dto.CodeUserDeactivated, "user account is deactivated")
	default:
		abort(c, http.StatusInternalServerError, "", "internal server error")
	}
}
