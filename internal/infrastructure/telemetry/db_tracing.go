package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DefaultDBTracingConfig returns the disabled default.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin registers otelgorm plus a slow query marker.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// RegisterOtelGorm installs the otelgorm plugin and slow query callbacks on db.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	register := []struct {
		before func(string) error
		after  func(string) error
	}{
		{
			func(n string) error { return cb.Create().Before("gorm:create").Register(n, p.markStart) },
			func(n string) error { return cb.Create().After("gorm:create").Register(n, p.checkSlow) },
		},
		{
			func(n string) error { return cb.Query().Before("gorm:query").Register(n, p.markStart) },
			func(n string) error { return cb.Query().After("gorm:query").Register(n, p.checkSlow) },
		},
		{
			func(n string) error { return cb.Update().Before("gorm:update").Register(n, p.markStart) },
			func(n string) error { return cb.Update().After("gorm:update").Register(n, p.checkSlow) },
		},
		{
			func(n string) error { return cb.Delete().Before("gorm:delete").Register(n, p.markStart) },
			func(n string) error { return cb.Delete().After("gorm:delete").Register(n, p.checkSlow) },
		},
		{
			func(n string) error { return cb.Raw().Before("gorm:raw").Register(n, p.markStart) },
			func(n string) error { return cb.Raw().After("gorm:raw").Register(n, p.checkSlow) },
		},
		{
			func(n string) error { return cb.Row().Before("gorm:row").Register(n, p.markStart) },
			func(n string) error { return cb.Row().After("gorm:row").Register(n, p.checkSlow) },
		},
	}
	for i, r := range register {
		if err := r.before(callbackName("before", i)); err != nil {
			return err
		}
		if err := r.after(callbackName("slow_query", i)); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func callbackName(kind string, i int) string {
	ops := []string{"create", "query", "update", "delete", "raw", "row"}
	return "otel_" + kind + ":" + ops[i]
}

func (p *DBTracingPlugin) markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (p *DBTracingPlugin) checkSlow(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		RecordError(span, db.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		p.logger.Warn("Slow query detected",
			zap.String("table", db.Statement.Table),
			zap.Duration("duration", elapsed),
		)
	}
}
