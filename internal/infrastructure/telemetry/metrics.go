package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultExportInterval = time.Minute

// MetricsConfig controls the periodic OTLP metrics export
type MetricsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ExportInterval    time.Duration
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
}

// MeterProvider owns the metrics pipeline. Disabled, it hands out meters
// from whatever global provider is installed.
type MeterProvider struct {
	sdk *sdkmetric.MeterProvider
}

func NewMeterProvider(ctx context.Context, cfg MetricsConfig, log *zap.Logger) (*MeterProvider, error) {
	if !cfg.Enabled {
		log.Info("Metrics disabled, using no-op meter provider")
		return &MeterProvider{}, nil
	}
	every := cfg.ExportInterval
	if every <= 0 {
		every = defaultExportInterval
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp metric exporter: %w", err)
	}

	sdk := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(every))),
	)
	otel.SetMeterProvider(sdk)
	log.Info("OTEL metrics export enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", every),
	)
	return &MeterProvider{sdk: sdk}, nil
}

func (mp *MeterProvider) Meter(name string) metric.Meter {
	if mp == nil || mp.sdk == nil {
		return otel.Meter(name)
	}
	return mp.sdk.Meter(name)
}

// Shutdown pushes the last collection and stops the reader
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp == nil || mp.sdk == nil {
		return nil
	}
	return shutdownWithin(ctx, "meter provider", mp.sdk.Shutdown)
}

// Instruments registers a family of instruments on one meter. A failed
// registration yields a no-op instrument and is reported by Err, so a
// constructor can create everything first and check once.
type Instruments struct {
	meter metric.Meter
	errs  []error
}

func NewInstruments(meter metric.Meter) *Instruments {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("")
	}
	return &Instruments{meter: meter}
}

func (in *Instruments) Counter(name, desc, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		in.fail(name, err)
		return noop.Int64Counter{}
	}
	return c
}

func (in *Instruments) UpDownCounter(name, desc, unit string) metric.Int64UpDownCounter {
	c, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		in.fail(name, err)
		return noop.Int64UpDownCounter{}
	}
	return c
}

// Histogram uses bounds as explicit bucket boundaries when given
func (in *Instruments) Histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(desc), metric.WithUnit(unit)}
	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}
	h, err := in.meter.Float64Histogram(name, opts...)
	if err != nil {
		in.fail(name, err)
		return noop.Float64Histogram{}
	}
	return h
}

// Err joins every registration failure so far
func (in *Instruments) Err() error {
	return errors.Join(in.errs...)
}

func (in *Instruments) fail(name string, err error) {
	in.errs = append(in.errs, fmt.Errorf("instrument %s: %w", name, err))
}
