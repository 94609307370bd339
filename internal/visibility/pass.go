// Package visibility enumerates access windows ("passes") for
// (satellite, target) pairs: continuous intervals during which a target
// lies inside the spacecraft-pointable cone, with instantaneous geometry
// sampled inside each window. Grounded on litescript/ls-horizons's
// internal/dsn/passplan.go (contiguous-above-threshold scan plus
// linear-interpolation bisection at AOS/LOS boundaries), generalized
// from a fixed elevation-only DSN-complex criterion to the spec's
// elevation-and-off-nadir (and optional sun-elevation) accessibility
// predicate.
package visibility

import (
	"time"

	"github.com/eoplan/missionplanner/internal/target"
)

// Pass is an access window: a continuous interval during which a target
// is pointable from a satellite, plus peak-instant geometry. Constructed
// by the engine and immutable thereafter.
type Pass struct {
	SatelliteID string
	TargetID    string

	Start time.Time
	Peak  time.Time
	End   time.Time

	MaxElevationDeg     float64
	PeakAzimuthDeg      float64
	PeakIncidenceDeg    float64
	PeakSignedRollDeg   float64
}

// Duration returns End - Start.
func (p Pass) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// MinPassDuration is the minimum window length accepted as a Pass.
const MinPassDuration = 1 * time.Second

// sample is one evaluated instant inside a candidate interval: whether
// it satisfies the accessibility predicate, plus the geometry needed to
// describe the window if it turns out to be part of one.
type sample struct {
	t            time.Time
	accessible   bool
	elevationDeg float64
	azimuthDeg   float64
	incidenceDeg float64
	signedRollDeg float64
	valid        bool // false if the propagator failed for this instant
}

// accessibilityTolerance absorbs floating-point drift at the pointing
// cone boundary, per the engine's accessibility predicate.
const accessibilityTolerance = 1e-6

func pointingLimitDeg(tgt target.GroundTarget) float64 {
	return tgt.PointingLimitDeg()
}
