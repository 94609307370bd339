package propagation

import "errors"

// ErrPropagatorUnavailable is the sustained-failure sentinel: a
// contiguous run of propagator failures longer than the engine's
// tolerance window aborts the query with this error.
var ErrPropagatorUnavailable = errors.New("propagation: propagator unavailable")
