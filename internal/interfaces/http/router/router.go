// Package router assembles the gin engine of the lab API.
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"github.com/labcore/backend/internal/interfaces/http/dto"
	"github.com/labcore/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// RouteRegistrar mounts a handler's routes on the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// EngineConfig configures the middleware chain
type EngineConfig struct {
	ServiceName      string
	ReleaseMode      bool
	TracingEnabled   bool
	ProfilingEnabled bool
	MaxBodySize      int64
	TrustedProxies   []string
	CORS             middleware.CORSConfig
	Swagger          middleware.SwaggerConfig
	// Meter records HTTP metrics when set
	Meter metric.Meter
}

// NewEngine creates a gin engine with the standard middleware chain.
// RequestID and Identity run first so every later layer sees the caller.
func NewEngine(cfg EngineConfig, log *zap.Logger) (*gin.Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(
		logger.Recover(log),
		middleware.RequestID(),
		middleware.Identity(),
		middleware.Tracing(middleware.TracingConfig{ServiceName: cfg.ServiceName, Enabled: cfg.TracingEnabled}),
		middleware.SpanEnricher(),
		logger.AccessLog(log),
		middleware.HTTPMetrics(cfg.Meter, log),
		middleware.Profiling(middleware.ProfilingConfig{
			Enabled: cfg.ProfilingEnabled,
			Skip:    middleware.DefaultProfilingConfig().Skip,
		}),
		middleware.Secure(),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.BodyLimit(cfg.MaxBodySize),
	)

	// the OpenAPI document comes from the docs package registered by the binary
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound, "Route not found"))
	})
	return engine, nil
}

// Router manages versioned route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registrar under /api/<version>
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return api
}
