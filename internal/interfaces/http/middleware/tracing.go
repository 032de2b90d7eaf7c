package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns the otelgin server span middleware
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}

	return otelgin.Middleware(cfg.ServiceName)
}

// SpanEnricher adds caller attributes to the server span and marks error
// responses. Place it after Tracing.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			ctx := c.Request.Context()
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if userID := logger.GetUserID(ctx); userID != "" {
				span.SetAttributes(attribute.String("user_id", userID))
			}
			if station := logger.GetStation(ctx); station != "" {
				span.SetAttributes(attribute.String("station", station))
			}
		}

		c.Next()

		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		if code := c.GetString(ErrorCodeKey); code != "" {
			span.SetAttributes(attribute.String("error.code", code))
		}
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// ErrorCodeKey is set by handlers to the code of the error they returned
const ErrorCodeKey = "error_code"
