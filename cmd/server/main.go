package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/labcore/backend/docs"
	appfinance "github.com/labcore/backend/internal/application/finance"
	appinventory "github.com/labcore/backend/internal/application/inventory"
	"github.com/labcore/backend/internal/application/laborder"
	appsecurity "github.com/labcore/backend/internal/application/security"
	"github.com/labcore/backend/internal/infrastructure/auth"
	"github.com/labcore/backend/internal/infrastructure/cache"
	"github.com/labcore/backend/internal/infrastructure/config"
	"github.com/labcore/backend/internal/infrastructure/event"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"github.com/labcore/backend/internal/infrastructure/persistence"
	"github.com/labcore/backend/internal/infrastructure/telemetry"
	"github.com/labcore/backend/internal/interfaces/http/handler"
	"github.com/labcore/backend/internal/interfaces/http/middleware"
	"github.com/labcore/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Lab Order API
//	@version		1.0
//	@description	Laboratory order lifecycle: ordering, result entry and cancellation
//	@BasePath		/api/v1

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting lab order service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", cfg.App.Version),
	)

	ctx := context.Background()

	// Telemetry: profiler first so span profiles can attach to it
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              cfg.Profiling.Enabled,
		ServerAddress:        cfg.Profiling.ServerAddress,
		ApplicationName:      cfg.Profiling.ApplicationName,
		BasicAuthUser:        cfg.Profiling.BasicAuthUser,
		BasicAuthPassword:    cfg.Profiling.BasicAuthPassword,
		MutexProfileFraction: cfg.Profiling.MutexProfileFraction,
		BlockProfileRate:     cfg.Profiling.BlockProfileRate,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	if cfg.Profiling.SpanProfiles && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Metrics.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Metrics.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
	labMetrics, err := telemetry.NewLabMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register lab metrics", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Logs.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             cfg.Logs.Level,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	// Initialize database connection with the zap-backed gorm logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.GormLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Schema migrated")
	}

	// Approval secret: durable store behind the hash cache
	hashCache, err := cache.NewHashCacheFactory(cache.WithLogger(log)).Create(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize approval hash cache", zap.Error(err))
	}
	if closer, ok := hashCache.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}
	secretStore := cache.NewCachedApprovalSecretStore(persistence.NewGormApprovalSecretStore(db.DB), hashCache, log)
	approvalService := appsecurity.NewApprovalService(secretStore, auth.NewBcryptHasher(cfg.Lab.BcryptCost), cfg.Lab.ApprovalSecretMinLength, log)

	configured, err := approvalService.IsConfigured(ctx)
	if err != nil {
		log.Warn("Could not read approval secret", zap.Error(err))
	} else if !configured {
		log.Warn("No approval secret configured, cancellations are refused until one is set with labctl")
	}

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch())
	eventBus.Subscribe(appinventory.NewStockBelowThresholdHandler(log).WithMetrics(labMetrics))
	eventBus.Subscribe(event.NewOrderAuditHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	txScope := persistence.NewGormTransactionScope(db.DB).WithTimeout(cfg.Lab.TransactionTimeout)

	orderService := laborder.NewOrderService(txScope, persistence.NewGormOrderRepository(db.DB), log)
	orderService.SetEventPublisher(eventBus)
	orderService.SetLabMetrics(labMetrics)
	orderService.SetConflictRetries(cfg.Lab.OrderConflictRetries)

	resultService := laborder.NewResultService(txScope, log)
	resultService.SetEventPublisher(eventBus)
	resultService.SetLabMetrics(labMetrics)

	cancellationService := laborder.NewCancellationService(txScope, approvalService, log)
	cancellationService.SetEventPublisher(eventBus)
	cancellationService.SetLabMetrics(labMetrics)

	commissionService := appfinance.NewCommissionService(txScope.Finance(), log)
	commissionService.SetLabMetrics(labMetrics)

	// HTTP engine and routes
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:      cfg.Telemetry.ServiceName,
		ReleaseMode:      cfg.App.IsProduction(),
		TracingEnabled:   tracerProvider.IsEnabled(),
		ProfilingEnabled: profiler.IsEnabled(),
		MaxBodySize:      cfg.HTTP.MaxBodySize,
		TrustedProxies:   cfg.HTTP.TrustedProxies,
		CORS:             cors,
		Swagger:          middleware.SwaggerConfig{Enabled: cfg.Swagger.Enabled, AllowedIPs: cfg.Swagger.AllowedIPs},
		Meter:            meter,
	}, log)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, db, log).RegisterEngineRoutes(engine)
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewLabOrderHandler(orderService, resultService, cancellationService, log)).
		Register(handler.NewCommissionHandler(commissionService, log)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event handlers still running at shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
