package geometry

import "errors"

// ErrGeometryInvalidInput is the GeometryInvalidInput sentinel from the
// error taxonomy: a contract violation in the geometry kernel (|lat|>90,
// alt<0, ...), always wrapped with context before being returned.
var ErrGeometryInvalidInput = errors.New("geometry: invalid input")
