package target

import "errors"

// ErrTargetInvalidInput is the TargetInvalidInput sentinel from the error
// taxonomy: a malformed GroundTarget, always wrapped with context.
var ErrTargetInvalidInput = errors.New("target: invalid input")
