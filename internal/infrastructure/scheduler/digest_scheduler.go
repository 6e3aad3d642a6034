// Package scheduler runs periodic background jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DigestSender sends one email listing every low-stock product
type DigestSender interface {
	SendLowStockDigest(ctx context.Context) error
}

// DigestSchedulerConfig holds configuration for the low-stock digest job
type DigestSchedulerConfig struct {
	// Schedule is a standard five-field cron expression, e.g. "0 8 * * *"
	Schedule string
	// JobTimeout bounds a single digest run
	JobTimeout time.Duration
}

// DefaultDigestSchedulerConfig runs the digest at 08:00 daily
func DefaultDigestSchedulerConfig() DigestSchedulerConfig {
	return DigestSchedulerConfig{
		Schedule:   "0 8 * * *",
		JobTimeout: 2 * time.Minute,
	}
}

// DigestScheduler triggers the low-stock digest email
type DigestScheduler struct {
	config  DigestSchedulerConfig
	sender  DigestSender
	logger  *zap.Logger
	cron    *cron.Cron
	entryID cron.EntryID
	running atomic.Bool

	mu        sync.Mutex
	isStarted bool
}

// NewDigestScheduler validates the schedule and registers the job
func NewDigestScheduler(config DigestSchedulerConfig, sender DigestSender, logger *zap.Logger) (*DigestScheduler, error) {
	if sender == nil {
		return nil, fmt.Errorf("%w: digest sender is required", ErrInvalidConfig)
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultDigestSchedulerConfig().JobTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &DigestScheduler{
		config: config,
		sender: sender,
		logger: logger,
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
	}

	id, err := s.cron.AddFunc(config.Schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.logger.Warn("Low-stock digest skipped", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: schedule %q: %v", ErrInvalidConfig, config.Schedule, err)
	}
	s.entryID = id
	return s, nil
}

// Start starts the cron loop in its own goroutine
func (s *DigestScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isStarted {
		return
	}
	s.isStarted = true
	s.cron.Start()

	s.logger.Info("Low-stock digest scheduler started",
		zap.String("schedule", s.config.Schedule),
		zap.Time("next_run", s.NextRun()),
	)
}

// Stop stops scheduling and waits for a running digest to finish or ctx to end
func (s *DigestScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isStarted {
		s.mu.Unlock()
		return nil
	}
	s.isStarted = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Low-stock digest scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextRun returns the next scheduled time, zero when not started
func (s *DigestScheduler) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// RunOnce sends the digest now. Overlapping runs are rejected.
func (s *DigestScheduler) RunOnce(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrJobAlreadyRunning
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	start := time.Now()
	if err := s.sender.SendLowStockDigest(ctx); err != nil {
		s.logger.Error("Low-stock digest failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return err
	}
	s.logger.Info("Low-stock digest completed", zap.Duration("duration", time.Since(start)))
	return nil
}
