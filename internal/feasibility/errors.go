package feasibility

import "errors"

// ErrFeasibilityConfigInvalid is the only fatal condition in the
// scheduler's failure model: a kernel constructed with max_rate<=0 or
// max_accel<=0 on either axis.
var ErrFeasibilityConfigInvalid = errors.New("feasibility: invalid configuration")
