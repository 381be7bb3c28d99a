package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/auth-service/internal/dto"
	"github.com/inkwell-cms/auth-service/internal/service"
)

// RateLimitMiddleware throttles requests per key. Limiter errors fail open:
// rate limiting is a hardening control and must not take the login path down
// with Redis.
func RateLimitMiddleware(limiter *service.RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		remaining, _ := limiter.Remaining(c.Request.Context(), key, limit, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			abort(c, http.StatusTooManyRequests, dto.CodeRateLimited, "too many requests, slow down")
			return
		}

		c.Next()
	}
}

// IPBasedKey keys the rate limit on the client IP. Credential endpoints use
// it to slow brute-force attempts across many accounts.
func IPBasedKey(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return c.ClientIP()
}
