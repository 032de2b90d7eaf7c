package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables in spans; dev only
	SlowQueryThresh time.Duration
	DBName          string
}

const slowQueryStartKey = "telemetry:query_start"

// RegisterDBTracing installs the otelgorm plugin plus a slow query marker
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if cfg.SlowQueryThresh > 0 {
		before := func(tx *gorm.DB) { tx.InstanceSet(slowQueryStartKey, time.Now()) }
		after := func(tx *gorm.DB) { markSlowQuery(tx, cfg.SlowQueryThresh, logger) }
		cb := db.Callback()
		if err := errors.Join(
			cb.Query().Before("gorm:query").Register("telemetry:before_query", before),
			cb.Query().After("gorm:query").Register("telemetry:after_query", after),
			cb.Create().Before("gorm:create").Register("telemetry:before_create", before),
			cb.Create().After("gorm:create").Register("telemetry:after_create", after),
			cb.Update().Before("gorm:update").Register("telemetry:before_update", before),
			cb.Update().After("gorm:update").Register("telemetry:after_update", after),
			cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before),
			cb.Delete().After("gorm:delete").Register("telemetry:after_delete", after),
		); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration, logger *zap.Logger) {
	v, ok := tx.InstanceGet(slowQueryStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed < threshold {
		return
	}
	span := trace.SpanFromContext(tx.Statement.Context)
	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
	)
	logger.Warn("slow query",
		zap.String("table", tx.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", tx.Statement.RowsAffected),
	)
}
