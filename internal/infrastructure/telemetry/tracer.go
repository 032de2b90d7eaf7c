// Package telemetry wires OpenTelemetry tracing, metrics and logs export plus
// Pyroscope continuous profiling.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// shutdownGrace bounds how long a provider may spend flushing on shutdown
const shutdownGrace = 10 * time.Second

// Config controls span export
type Config struct {
	Enabled           bool
	CollectorEndpoint string
	// SamplingRatio of root spans kept; children follow their parent
	SamplingRatio  float64
	ServiceName    string
	ServiceVersion string
	Insecure       bool
}

// TracerProvider owns the span pipeline. Disabled, the global no-op
// provider stays installed and every method is safe to call.
type TracerProvider struct {
	sdk           *sdktrace.TracerProvider
	log           *zap.Logger
	service       string
	linkPyroscope sync.Once
}

func NewTracerProvider(ctx context.Context, cfg Config, log *zap.Logger) (*TracerProvider, error) {
	tp := &TracerProvider{log: log, service: cfg.ServiceName}
	if !cfg.Enabled {
		log.Info("Tracing disabled, using no-op tracer provider")
		return tp, nil
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp trace exporter: %w", err)
	}

	tp.sdk = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.SamplingRatio)),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp.sdk)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	log.Info("OTEL tracing enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.String("sampler", samplerFor(cfg.SamplingRatio).Description()),
		zap.String("service_name", cfg.ServiceName),
	)
	return tp, nil
}

func samplerFor(ratio float64) sdktrace.Sampler {
	if ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	if ratio <= 0 {
		return sdktrace.NeverSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// newResource describes this process to every exporter; the version
// defaults to "dev"
func newResource(service, version string) (*resource.Resource, error) {
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(service),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	return res, nil
}

// EnableSpanProfiles installs a global provider that links CPU profiles
// to span ids. Start the Pyroscope profiler first. Later calls do nothing.
func (tp *TracerProvider) EnableSpanProfiles() {
	if !tp.IsEnabled() {
		return
	}
	tp.linkPyroscope.Do(func() {
		otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp.sdk))
		tp.log.Info("Span profiles enabled", zap.String("service_name", tp.service))
	})
}

func (tp *TracerProvider) IsEnabled() bool {
	return tp != nil && tp.sdk != nil
}

// Tracer comes from the owned provider, or the global one when disabled
func (tp *TracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if !tp.IsEnabled() {
		return otel.Tracer(name, opts...)
	}
	return tp.sdk.Tracer(name, opts...)
}

// Shutdown exports buffered spans and stops the batcher
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if !tp.IsEnabled() {
		return nil
	}
	return shutdownWithin(ctx, "tracer provider", tp.sdk.Shutdown)
}

func shutdownWithin(ctx context.Context, what string, shutdown func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		return fmt.Errorf("%s shutdown: %w", what, err)
	}
	return nil
}
