package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// SQLLogger routes GORM output through zap. Statement entries carry the
// request, station and trace fields of the context they ran under.
type SQLLogger struct {
	base  *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

var _ gormlogger.Interface = (*SQLLogger)(nil)

// NewSQLLogger returns a GORM logger writing to base under the "sql" name.
// A zero slow disables slow statement warnings.
func NewSQLLogger(base *zap.Logger, level gormlogger.LogLevel, slow time.Duration) *SQLLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &SQLLogger{base: base.Named("sql"), level: level, slow: slow}
}

func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *SQLLogger) Info(ctx context.Context, msg string, data ...any) {
	l.message(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *SQLLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.message(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *SQLLogger) Error(ctx context.Context, msg string, data ...any) {
	l.message(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *SQLLogger) message(ctx context.Context, min gormlogger.LogLevel, at zapcore.Level, msg string, data []any) {
	if l.level < min {
		return
	}
	if ce := WithLogger(ctx, l.base).Zap().Check(at, fmt.Sprintf(msg, data...)); ce != nil {
		ce.Write()
	}
}

// Trace logs one executed statement. Missing rows are a normal lookup
// outcome and are never reported.
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level == gormlogger.Silent {
		return
	}
	took := time.Since(begin)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	slow := l.slow > 0 && took > l.slow

	var at zapcore.Level
	var msg string
	switch {
	case failed && l.level >= gormlogger.Error:
		at, msg = zapcore.ErrorLevel, "SQL error"
	case slow && l.level >= gormlogger.Warn:
		at, msg = zapcore.WarnLevel, "slow SQL"
	case l.level >= gormlogger.Info:
		at, msg = zapcore.DebugLevel, "SQL"
	default:
		return
	}

	log := WithLogger(ctx, l.base).Zap()
	ce := log.Check(at, msg)
	if ce == nil {
		return
	}
	stmt, rows := fc()
	fields := []zap.Field{zap.String("sql", stmt), zap.Int64("rows", rows), zap.Duration("elapsed", took)}
	if failed {
		fields = append(fields, zap.Error(err))
	}
	if slow {
		fields = append(fields, zap.Duration("threshold", l.slow))
	}
	ce.Write(fields...)
}

// GormLevel maps a log level name onto GORM's coarser scale. Unknown
// names fall back to warn.
func GormLevel(name string) gormlogger.LogLevel {
	levels := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"info":   gormlogger.Info,
		"debug":  gormlogger.Info,
	}
	if lv, ok := levels[name]; ok {
		return lv
	}
	return gormlogger.Warn
}
