package scheduler

import "errors"

// ErrSchedulerInvalidInput is returned by ParseStrategy and
// ParseResolutionPolicy for an unknown strategy or conflict-resolution
// policy tag.
var ErrSchedulerInvalidInput = errors.New("scheduler: invalid input")

// ErrConfigInvalid names the max_rate<=0 / max_accel<=0 configuration
// error. Kernel construction reports that condition as
// feasibility.ErrFeasibilityConfigInvalid; no function in this package
// returns ErrConfigInvalid.
var ErrConfigInvalid = errors.New("scheduler: invalid configuration")

// ErrCancelled is returned when a run is abandoned due to caller
// cancellation or an exhausted wall-clock budget.
var ErrCancelled = errors.New("scheduler: cancelled")
