package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/labcore/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig selects which requests get profile labels. A Skip entry
// ending in "*" matches every path with that prefix.
type ProfilingConfig struct {
	Enabled bool
	Skip    []string
}

// DefaultProfilingConfig leaves the health checks unlabelled
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{Enabled: true, Skip: []string{"/health", "/ready"}}
}

func (cfg ProfilingConfig) skips(path string) bool {
	return slices.ContainsFunc(cfg.Skip, func(pattern string) bool {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			return strings.HasPrefix(path, prefix)
		}
		return pattern == path
	})
}

// Profiling tags the CPU samples of each handler with its controller,
// route template and method
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	return func(c *gin.Context) {
		if cfg.skips(c.Request.URL.Path) {
			c.Next()
			return
		}
		labels := telemetry.ForHandler(controllerName(c.HandlerName()), c.FullPath(), c.Request.Method)
		labels.Do(c.Request.Context(), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// controllerName extracts the receiver type of a method value handler:
// "pkg/handler.(*LabOrderHandler).CreateOrder-fm" gives "LabOrderHandler"
func controllerName(handler string) string {
	_, rest, ok := strings.Cut(handler, "(*")
	if !ok {
		return ""
	}
	name, _, ok := strings.Cut(rest, ")")
	if !ok {
		return ""
	}
	return name
}
