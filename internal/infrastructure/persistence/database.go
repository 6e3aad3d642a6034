package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ims/backend/internal/infrastructure/config"
	"github.com/ims/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database owns the gorm handle that every repository is built on
type Database struct {
	DB *gorm.DB
}

// Plugin is installed on the connection after it opens, e.g. query tracing
type Plugin interface {
	RegisterOtelGorm(db *gorm.DB) error
}

// Option configures NewDatabase
type Option func(*options)

type options struct {
	logger        *zap.Logger
	logLevel      gormlogger.LogLevel
	slowThreshold time.Duration
	plugins       []Plugin
}

// WithLogger routes SQL logging through zap at the given level
func WithLogger(l *zap.Logger, level gormlogger.LogLevel) Option {
	return func(o *options) {
		o.logger = l
		o.logLevel = level
	}
}

// WithSlowThreshold sets the duration after which a query is logged as slow
func WithSlowThreshold(d time.Duration) Option {
	return func(o *options) {
		o.slowThreshold = d
	}
}

// WithPlugin registers a plugin on the opened connection
func WithPlugin(p Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, p)
	}
}

// NewDatabase opens a PostgreSQL connection with the given configuration
func NewDatabase(cfg *config.DatabaseConfig, opts ...Option) (*Database, error) {
	o := &options{
		logger:        zap.NewNop(),
		logLevel:      gormlogger.Silent,
		slowThreshold: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.NewGormLogger(o.logger, logger.GormConfig{
			Level:         o.logLevel,
			SlowThreshold: o.slowThreshold,
		}),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, p := range o.plugins {
		if err := p.RegisterOtelGorm(db); err != nil {
			return nil, fmt.Errorf("failed to register database plugin: %w", err)
		}
	}

	d := &Database{DB: db}
	sqlDB, err := d.sqlDB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return d, nil
}

func (d *Database) sqlDB() (*sql.DB, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return sqlDB, nil
}

// Close releases every pooled connection
func (d *Database) Close() error {
	sqlDB, err := d.sqlDB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping round-trips to the server; the health endpoint uses it
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.sqlDB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
