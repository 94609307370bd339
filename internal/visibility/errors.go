package visibility

import "errors"

// ErrPropagatorUnavailable is returned when a contiguous run of
// propagator failures exceeds the engine's tolerance window for one
// (satellite, target) search.
var ErrPropagatorUnavailable = errors.New("visibility: propagator unavailable")

// ErrCancelled is returned when a search is abandoned due to caller
// cancellation or an exhausted wall-clock budget.
var ErrCancelled = errors.New("visibility: cancelled")
