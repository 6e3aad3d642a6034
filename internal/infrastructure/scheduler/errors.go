package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrJobAlreadyRunning is returned when a run is triggered while the previous one is still active
	ErrJobAlreadyRunning = errors.New("job is already running")
)
