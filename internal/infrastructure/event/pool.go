package event

import (
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// DefaultPoolSize bounds concurrent background alert deliveries
const DefaultPoolSize = 16

// PoolDispatcher runs tasks on a bounded goroutine pool. When the pool is
// saturated Dispatch returns ants.ErrPoolOverload instead of blocking.
type PoolDispatcher struct {
	pool   *ants.Pool
	logger *zap.Logger
}

// NewPoolDispatcher creates a pool of size workers
func NewPoolDispatcher(size int, logger *zap.Logger) (*PoolDispatcher, error) {
	if size <= 0 {
		size = DefaultPoolSize
	}
	d := &PoolDispatcher{logger: logger}
	pool, err := ants.NewPool(size,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p interface{}) {
			logger.Error("background task panicked", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	d.pool = pool
	return d, nil
}

// Dispatch submits task to the pool
func (d *PoolDispatcher) Dispatch(task func()) error {
	return d.pool.Submit(task)
}

// Running returns the number of busy workers
func (d *PoolDispatcher) Running() int {
	return d.pool.Running()
}

// Release waits up to timeout for busy workers and closes the pool
func (d *PoolDispatcher) Release(timeout time.Duration) error {
	if n := d.Running(); n > 0 {
		d.logger.Info("waiting for busy workers", zap.Int("running", n), zap.Duration("timeout", timeout))
	}
	if err := d.pool.ReleaseTimeout(timeout); err != nil {
		d.logger.Warn("worker pool did not drain before timeout", zap.Error(err))
		return err
	}
	return nil
}
