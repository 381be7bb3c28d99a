package observability

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AuthMetrics holds counters for authentication traffic.
type AuthMetrics struct {
	requests metric.Int64Counter
	failures metric.Int64Counter
}

// NewAuthMetrics registers the auth counters on the global meter provider.
func NewAuthMetrics(serviceName string) (*AuthMetrics, error) {
	meter := otel.Meter(serviceName)

	requests, err := meter.Int64Counter("auth_requests_total",
		metric.WithDescription("Total number of authentication requests"))
	if err != nil {
		return nil, fmt.Errorf("failed to create requests counter: %w", err)
	}

	failures, err := meter.Int64Counter("auth_failures_total",
		metric.WithDescription("Total number of failed authentication requests"))
	if err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}

	return &AuthMetrics{requests: requests, failures: failures}, nil
}

// Middleware counts requests and failures per route.
func (m *AuthMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("route", route),
			attribute.String("method", c.Request.Method),
		)

		ctx := c.Request.Context()
		m.requests.Add(ctx, 1, attrs)
		if c.Writer.Status() >= http.StatusBadRequest {
			m.failures.Add(ctx, 1, attrs)
		}
	}
}

// PrometheusHandler returns a Gin handler for Prometheus metrics
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler != nil {
			handler.ServeHTTP(c.Writer, c.Request)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "metrics handler not initialized",
			})
		}
	}
}
