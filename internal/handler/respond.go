package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/auth-service/internal/dto"
	"github.com/inkwell-cms/auth-service/internal/repository"
	"github.com/inkwell-cms/auth-service/internal/service"
)

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, dto.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.Response{
		Success: false,
		Message: message,
		Code:    code,
	})
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.Response{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// failFromError maps service and ledger sentinels to the envelope. Anything
// unmatched is a server fault and surfaces as 500 without internal detail.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrNoLocalPassword),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrGoogleNotConfigured):
		fail(c, http.StatusBadRequest, dto.CodeValidationError, err.Error())

	case errors.Is(err, service.ErrEmailTaken):
		fail(c, http.StatusConflict, dto.CodeDuplicateEntry, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrGoogleToken),
		errors.Is(err, service.ErrGoogleEmail),
		errors.Is(err, repository.ErrTokenRevoked),
		errors.Is(err, repository.ErrTokenConsumed),
		errors.Is(err, repository.ErrNotFound):
		fail(c, http.StatusUnauthorized, dto.CodeInvalidToken, authFailureMessage(err))

	case errors.Is(err, repository.ErrTokenExpired):
		fail(c, http.StatusUnauthorized, dto.CodeTokenExpired, "token has expired")

	case errors.Is(err, service.ErrUserDeactivated):
		fail(c, http.StatusUnauthorized, dto.CodeUserDeactivated, err.Error())

	case errors.Is(err, service.ErrUserNotFound):
		fail(c, http.StatusNotFound, dto.CodeUserNotFound, err.Error())

	default:
		fail(c, http.StatusInternalServerError, "", "internal server error")
	}
}

func authFailureMessage(err error) string {
	// Credential failures keep their sentinel text; ledger misses are
	// flattened so callers cannot probe which tokens exist.
	if errors.Is(err, repository.ErrNotFound) {
		return "invalid token"
	}
	return err.Error()
}
