package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labcore/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves health and version endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	database  HealthChecker
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler; database may be nil
func NewSystemHandler(name, version string, database HealthChecker, log *zap.Logger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: newBaseHandler(log),
		name:        name,
		version:     version,
		database:    database,
		startTime:   time.Now(),
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Database  string `json:"database"`
}

// RegisterEngineRoutes mounts the unversioned health checks
func (h *SystemHandler) RegisterEngineRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}

// Health reports process and database status. A database failure answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  "ok",
	}

	status := http.StatusOK
	if err := h.pingDatabase(c.Request.Context()); err != nil {
		h.logger.Warn("health check: database unreachable", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.NewSuccessResponse(resp))
}

// Ready answers 204 once the database is reachable
func (h *SystemHandler) Ready(c *gin.Context) {
	if err := h.pingDatabase(c.Request.Context()); err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SystemHandler) pingDatabase(ctx context.Context) error {
	if h.database == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.database.Ping(ctx)
}
