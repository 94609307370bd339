package visibility

import (
	"fmt"
	"time"

	"github.com/eoplan/missionplanner/internal/geometry"
	"github.com/eoplan/missionplanner/internal/propagation"
	"github.com/eoplan/missionplanner/internal/target"
)

// Mode selects the access-window search algorithm.
type Mode int

const (
	// FixedStep is the baseline, always-correct algorithm: uniform
	// stepping at StepInterval.
	FixedStep Mode = iota
	// Adaptive skips ahead using orbital-period knowledge when the
	// target is far from accessible, falling back to FixedStep's fine
	// step once accessibility is plausible.
	Adaptive
)

// velocitySampleOffset is the half-width of the central-difference
// window used to estimate satellite ECEF velocity from two propagator
// evaluations, grounded on the teacher's finite-difference velocity
// estimate in derive.go's VelocityFromRTLTDelta (there: range-rate from
// two range samples over a delta time; here: a velocity vector from two
// ECEF position samples over a delta time). It is one full second
// because the propagator cache rounds timestamps to whole seconds: a
// smaller offset can map both probes to the same cached sample.
const velocitySampleOffset = 1 * time.Second

// Options configures one (satellite, target) access-window search.
type Options struct {
	Mode Mode

	// StepInterval is the fixed-step sampling interval. Default 1s.
	StepInterval time.Duration
	// TimeEdgeEpsilon bounds AOS/LOS bisection refinement. Default 0.5s.
	TimeEdgeEpsilon time.Duration
	// PropagatorFailureTolerance is the max contiguous run of
	// propagator failures tolerated before aborting. Default 2min.
	PropagatorFailureTolerance time.Duration
}

// DefaultOptions returns the spec's default search parameters.
func DefaultOptions() Options {
	return Options{
		Mode:                       FixedStep,
		StepInterval:               1 * time.Second,
		TimeEdgeEpsilon:            500 * time.Millisecond,
		PropagatorFailureTolerance: 2 * time.Minute,
	}
}

func (o Options) withDefaults() Options {
	if o.StepInterval <= 0 {
		o.StepInterval = 1 * time.Second
	}
	if o.TimeEdgeEpsilon <= 0 {
		o.TimeEdgeEpsilon = 500 * time.Millisecond
	}
	if o.PropagatorFailureTolerance <= 0 {
		o.PropagatorFailureTolerance = 2 * time.Minute
	}
	return o
}

// evaluator evaluates the accessibility predicate and peak geometry for
// one (satellite, target) pair against a memoizing propagator cache.
type evaluator struct {
	cache       *propagation.Cache
	sun         propagation.SunPositionProvider
	satelliteID string
	tgt         target.GroundTarget
}

func (e evaluator) evaluate(t time.Time) (sample, error) {
	satPos, err := e.cache.Propagate(e.satelliteID, t)
	if err != nil {
		return sample{t: t, valid: false}, err
	}

	elevDeg, azDeg, err := geometry.ElevationAzimuth(
		satPos.LatDeg, satPos.LonDeg, satPos.AltKm,
		e.tgt.LatDeg, e.tgt.LonDeg, e.tgt.AltitudeM/1000.0,
	)
	if err != nil {
		return sample{}, fmt.Errorf("evaluate %s/%s at %s: %w", e.satelliteID, e.tgt.ID, t, err)
	}

	offNadirDeg, err := geometry.OffNadirAngle(satPos.LatDeg, satPos.LonDeg, satPos.AltKm, e.tgt.LatDeg, e.tgt.LonDeg)
	if err != nil {
		return sample{}, fmt.Errorf("evaluate %s/%s at %s: %w", e.satelliteID, e.tgt.ID, t, err)
	}

	accessible := elevDeg >= e.tgt.ElevationMaskDeg &&
		offNadirDeg <= pointingLimitDeg(e.tgt)+accessibilityTolerance

	if accessible && e.tgt.SunGateEnabled() {
		solarElev := propagation.SolarElevation(e.tgt.LatDeg, e.tgt.LonDeg, e.sun, t)
		if solarElev < e.tgt.MinSunElevationDeg {
			accessible = false
		}
	}

	var signedRollDeg float64
	if accessible {
		velocity, err := e.estimateVelocityECEF(t, satPos)
		if err == nil {
			state := geometry.SatelliteState{
				LatDeg: satPos.LatDeg, LonDeg: satPos.LonDeg, AltKm: satPos.AltKm,
				VelocityECEF: velocity,
			}
			signedRollDeg, _ = geometry.SignedRollAngle(state, e.tgt.LatDeg, e.tgt.LonDeg)
		}
	}

	return sample{
		t:             t,
		accessible:    accessible,
		elevationDeg:  elevDeg,
		azimuthDeg:    azDeg,
		incidenceDeg:  offNadirDeg,
		signedRollDeg: signedRollDeg,
		valid:         true,
	}, nil
}

// estimateVelocityECEF derives the satellite's instantaneous ECEF
// velocity by central difference over two nearby propagator
// evaluations.
func (e evaluator) estimateVelocityECEF(t time.Time, center propagation.Position) (geometry.Vec3, error) {
	before, err := e.cache.Propagate(e.satelliteID, t.Add(-velocitySampleOffset))
	if err != nil {
		return geometry.Vec3{}, err
	}
	after, err := e.cache.Propagate(e.satelliteID, t.Add(velocitySampleOffset))
	if err != nil {
		return geometry.Vec3{}, err
	}

	beforeECEF := geometry.GeodeticToECEF(before.LatDeg, before.LonDeg, before.AltKm)
	afterECEF := geometry.GeodeticToECEF(after.LatDeg, after.LonDeg, after.AltKm)

	dtSeconds := 2 * velocitySampleOffset.Seconds()
	return afterECEF.Sub(beforeECEF).Scale(1.0 / dtSeconds), nil
}
