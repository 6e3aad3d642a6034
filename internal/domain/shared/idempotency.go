package shared

import (
	"context"
	"time"
)

// IdempotencyStore guards client-supplied request keys so that a retried
// mutation is rejected instead of applied twice.
type IdempotencyStore interface {
	// Claim reserves key for ttl.
	// Returns true if the key was newly claimed, false if it is already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a claimed key so the request may be sent again
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a claimed key blocks repeats. Default: 24 hours
	TTL time.Duration

	// Enabled determines whether keys are checked at all
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
