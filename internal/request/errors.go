package request

import "errors"

// ErrInvalidInput covers request-level validation failures: empty
// satellites list, end <= start, roll_max <= 0, an unparseable
// strategy/mission_mode tag, or an invalid GroundTarget field. Surfaced
// to the caller with no computation performed, per spec.md §7.
var ErrInvalidInput = errors.New("request: invalid input")

// ErrCancelled wraps a caller cancellation or an exhausted wall-clock
// budget (the latter is request.Params.BudgetSeconds, implemented as a
// context.WithTimeout).
var ErrCancelled = errors.New("request: cancelled")
