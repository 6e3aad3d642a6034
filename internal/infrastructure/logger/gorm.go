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

// GormConfig controls what the SQL logger emits
type GormConfig struct {
	Level gormlogger.LogLevel
	// SlowThreshold of zero disables slow query warnings
	SlowThreshold time.Duration
	// LogNotFound reports gorm.ErrRecordNotFound as an SQL error
	LogNotFound bool
}

// GormLogger writes gorm output through zap with request and trace correlation
type GormLogger struct {
	log *zap.Logger
	cfg GormConfig
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger returns a gorm logger named "gorm" under zl
func NewGormLogger(zl *zap.Logger, cfg GormConfig) *GormLogger {
	return &GormLogger{log: zl.Named("gorm"), cfg: cfg}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cfg := l.cfg
	cfg.Level = level
	return &GormLogger{log: l.log, cfg: cfg}
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(threshold gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.cfg.Level < threshold {
		return
	}
	l.log.Log(lvl, fmt.Sprintf(msg, data...))
}

// Trace logs one executed statement: failures at error, slow statements at
// warn, the rest at debug when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.cfg.Level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		lvl   zapcore.Level
		msg   string
		extra []zap.Field
	)
	switch {
	case err != nil:
		if l.cfg.Level < gormlogger.Error || (!l.cfg.LogNotFound && errors.Is(err, gormlogger.ErrRecordNotFound)) {
			return
		}
		lvl, msg, extra = zapcore.ErrorLevel, "SQL Error", []zap.Field{zap.Error(err)}
	case l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold:
		if l.cfg.Level < gormlogger.Warn {
			return
		}
		lvl, msg, extra = zapcore.WarnLevel, "Slow SQL", []zap.Field{zap.Duration("threshold", l.cfg.SlowThreshold)}
	default:
		if l.cfg.Level < gormlogger.Info {
			return
		}
		lvl, msg = zapcore.DebugLevel, "SQL Query"
	}

	sql, rows := fc()
	fields := append(queryFields(ctx), zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	l.log.Log(lvl, msg, append(fields, extra...)...)
}

func queryFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetUserID(ctx); id != "" {
		fields = append(fields, zap.String("user_id", id))
	}
	return append(fields, TraceFields(ctx)...)
}

// MapGormLogLevel translates the application log level into gorm's scale.
// Unknown values fall back to Warn.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	levels := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"warn":   gormlogger.Warn,
		"info":   gormlogger.Info,
		"debug":  gormlogger.Info,
	}
	if l, ok := levels[level]; ok {
		return l
	}
	return gormlogger.Warn
}
