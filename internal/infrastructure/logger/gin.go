package logger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AccessLog writes one entry per request once the handler chain returns.
// Handlers further down find a request-scoped logger through FromContext.
func AccessLog(base *zap.Logger) gin.HandlerFunc {
	base = base.Named("http")
	return func(c *gin.Context) {
		began := time.Now()
		req := c.Request

		scoped := base.With(zap.String("method", req.Method), zap.String("path", req.URL.Path))
		if id := GetRequestID(req.Context()); id != "" {
			scoped = scoped.With(zap.String("request_id", id))
		}
		c.Request = req.WithContext(WithContext(req.Context(), scoped))

		c.Next()

		code := c.Writer.Status()
		ce := scoped.Check(statusLevel(code), "HTTP Request")
		if ce == nil {
			return
		}
		fields := make([]zap.Field, 0, 6)
		fields = append(fields,
			zap.Int("status", code),
			zap.Duration("latency", time.Since(began)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		)
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		if raw := req.URL.RawQuery; raw != "" {
			fields = append(fields, zap.String("query", raw))
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, zap.Strings("errors", errs.Errors()))
		}
		ce.Write(fields...)
	}
}

func statusLevel(code int) zapcore.Level {
	if code >= http.StatusInternalServerError {
		return zapcore.ErrorLevel
	}
	if code >= http.StatusBadRequest {
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// Recover converts a handler panic into a bare 500 and logs the value
// with a stack trace.
func Recover(base *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		WithLogger(c.Request.Context(), base).Error("Panic recovered",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("panic", fmt.Sprint(recovered)),
			zap.Stack("stacktrace"),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
