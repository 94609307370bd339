package opportunity

import "errors"

// ErrOpportunityInvalidInput is returned for malformed generation
// parameters (e.g. non-positive imaging time).
var ErrOpportunityInvalidInput = errors.New("opportunity: invalid input")
