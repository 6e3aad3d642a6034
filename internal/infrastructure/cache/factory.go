package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// dialTimeout bounds the startup PING
const dialTimeout = 5 * time.Second

// Factory connects to Redis and builds the stores that depend on it
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	dial                  func(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error)
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// process memory instead of failing startup. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new Factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		dial:                  Dial,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Dial opens a client and verifies it with PING
func Dial(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{cfg.Addr()},
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// Connect returns a Redis client, or nil when Redis is disabled or
// unreachable and in-memory fallback is allowed
func (f *Factory) Connect(ctx context.Context) (redis.UniversalClient, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory stores")
		return nil, nil
	}

	client, err := f.dial(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("Connected to Redis", zap.String("addr", f.redisConfig.Addr()))
		return client, nil
	}
	if !f.allowInMemoryFallback {
		return nil, err
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Idempotency keys and revoked tokens will not be shared between instances.",
		zap.Error(err),
	)
	return nil, nil
}

// IdempotencyStore returns a Redis store when client is set, otherwise an
// in-memory one
func (f *Factory) IdempotencyStore(client redis.UniversalClient) shared.IdempotencyStore {
	if client != nil {
		return NewRedisIdempotencyStore(client, DefaultIdempotencyPrefix)
	}
	return NewInMemoryIdempotencyStore(5 * time.Minute)
}
