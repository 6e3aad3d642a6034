package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/ims/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func failingDial(context.Context, config.RedisConfig) (redis.UniversalClient, error) {
	return nil, errors.New("connection refused")
}

func TestFactory_Connect(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled redis yields no client", func(t *testing.T) {
		f := NewFactory(config.RedisConfig{Enabled: false})
		client, err := f.Connect(ctx)
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("unreachable redis falls back with a warning", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		f := NewFactory(config.RedisConfig{Enabled: true, Host: "localhost", Port: 6379}, WithLogger(zap.New(core)))
		f.dial = failingDial

		client, err := f.Connect(ctx)
		require.NoError(t, err)
		assert.Nil(t, client)
		assert.Equal(t, 1, logs.FilterMessageSnippet("falling back").Len())
	})

	t.Run("unreachable redis fails without fallback", func(t *testing.T) {
		f := NewFactory(config.RedisConfig{Enabled: true}, WithInMemoryFallback(false))
		f.dial = failingDial

		_, err := f.Connect(ctx)
		assert.Error(t, err)
	})

	t.Run("connected client is returned", func(t *testing.T) {
		want := redis.NewClient(&redis.Options{Addr: "localhost:0"})
		defer want.Close()

		f := NewFactory(config.RedisConfig{Enabled: true})
		f.dial = func(context.Context, config.RedisConfig) (redis.UniversalClient, error) { return want, nil }

		client, err := f.Connect(ctx)
		require.NoError(t, err)
		assert.Same(t, want, client)
	})
}

func TestFactory_IdempotencyStore(t *testing.T) {
	f := NewFactory(config.RedisConfig{})

	mem := f.IdempotencyStore(nil)
	defer mem.Close()
	assert.IsType(t, &InMemoryIdempotencyStore{}, mem)

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()
	store := f.IdempotencyStore(client)
	require.IsType(t, &RedisIdempotencyStore{}, store)
	assert.Equal(t, DefaultIdempotencyPrefix, store.(*RedisIdempotencyStore).keyPrefix)
}
