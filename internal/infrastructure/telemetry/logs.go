package telemetry

import (
	"context"
	"fmt"

	"github.com/labcore/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogsConfig controls OTLP export of application log records
type LogsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
	// Level is the lowest level exported; local output keeps its own level
	Level string
}

// LoggerProvider owns the OTLP log pipeline. A disabled provider is
// valid and makes Bridge a no-op.
type LoggerProvider struct {
	sdk   *sdklog.LoggerProvider
	name  string
	level zapcore.Level
}

// NewLoggerProvider builds the batch OTLP pipeline and installs it as the
// global log provider.
func NewLoggerProvider(ctx context.Context, cfg LogsConfig, log *zap.Logger) (*LoggerProvider, error) {
	lp := &LoggerProvider{name: cfg.ServiceName, level: logger.ParseLevel(cfg.Level)}
	if !cfg.Enabled {
		log.Info("OTEL logs disabled")
		return lp, nil
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp log exporter: %w", err)
	}

	lp.sdk = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp.sdk)
	log.Info("OTEL log export enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Stringer("min_level", lp.level),
	)
	return lp, nil
}

func (lp *LoggerProvider) IsEnabled() bool {
	return lp != nil && lp.sdk != nil
}

// Shutdown flushes buffered records, waiting at most ten seconds
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if !lp.IsEnabled() {
		return nil
	}
	return shutdownWithin(ctx, "logger provider", lp.sdk.Shutdown)
}

// Bridge tees log into the OTLP pipeline. The returned logger keeps the
// options of log; when export is off log itself is returned.
func (lp *LoggerProvider) Bridge(log *zap.Logger) *zap.Logger {
	if !lp.IsEnabled() {
		return log
	}
	export := ExportCore(lp.name, lp.sdk, lp.level)
	return log.WithOptions(zap.WrapCore(func(local zapcore.Core) zapcore.Core {
		return zapcore.NewTee(local, export)
	}))
}

// ExportCore is an otelzap core restricted to entries at or above min.
// A nil provider gives a core that accepts nothing.
func ExportCore(name string, provider *sdklog.LoggerProvider, min zapcore.Level) zapcore.Core {
	if provider == nil {
		return zapcore.NewNopCore()
	}
	return atLeast(otelzap.NewCore(name, otelzap.WithLoggerProvider(provider)), min)
}

func atLeast(core zapcore.Core, min zapcore.Level) zapcore.Core {
	raised, err := zapcore.NewIncreaseLevelCore(core, min)
	if err != nil {
		// core is already stricter than min
		return core
	}
	return raised
}
