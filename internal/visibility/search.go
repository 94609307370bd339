package visibility

import (
	"context"
	"fmt"
	"time"

	"github.com/eoplan/missionplanner/internal/propagation"
	"github.com/eoplan/missionplanner/internal/target"
)

// Search enumerates Passes for one (satellite, target) pair over
// [start, end], using cache as the memoizing propagator front-end and
// sun as the illumination provider. Grounded on the teacher's
// computePassesForComplex (contiguous-above-threshold scan,
// interpolateCrossing at the boundary), extended with the adaptive
// step-skip, sun-illumination gating, and propagator-failure abort this
// spec's accessibility predicate requires.
func Search(ctx context.Context, cache *propagation.Cache, sun propagation.SunPositionProvider, satelliteID string, tgt target.GroundTarget, start, end time.Time, opts Options) ([]Pass, error) {
	opts = opts.withDefaults()
	ev := evaluator{cache: cache, sun: sun, satelliteID: satelliteID, tgt: tgt}

	switch opts.Mode {
	case Adaptive:
		return searchAdaptive(ctx, ev, satelliteID, tgt, start, end, opts)
	default:
		return searchFixedStep(ctx, ev, satelliteID, tgt, start, end, opts)
	}
}

// passBuilder accumulates samples inside one candidate access window.
type passBuilder struct {
	start         time.Time
	peak          time.Time
	maxElev       float64
	peakAz        float64
	peakIncidence float64
	peakRoll      float64
}

func newPassBuilder(first sample) *passBuilder {
	return &passBuilder{
		start:         first.t,
		peak:          first.t,
		maxElev:       first.elevationDeg,
		peakAz:        first.azimuthDeg,
		peakIncidence: first.incidenceDeg,
		peakRoll:      first.signedRollDeg,
	}
}

func (b *passBuilder) observe(s sample) {
	if s.elevationDeg > b.maxElev {
		b.maxElev = s.elevationDeg
		b.peak = s.t
		b.peakAz = s.azimuthDeg
		b.peakIncidence = s.incidenceDeg
		b.peakRoll = s.signedRollDeg
	}
}

func (b *passBuilder) build(satelliteID, targetID string, end time.Time) Pass {
	return Pass{
		SatelliteID:       satelliteID,
		TargetID:          targetID,
		Start:             b.start,
		Peak:              b.peak,
		End:               end,
		MaxElevationDeg:   b.maxElev,
		PeakAzimuthDeg:    b.peakAz,
		PeakIncidenceDeg:  b.peakIncidence,
		PeakSignedRollDeg: b.peakRoll,
	}
}

// searchFixedStep is the baseline algorithm: uniform stepping with
// state-transition detection and bisection refinement at AOS/LOS.
func searchFixedStep(ctx context.Context, ev evaluator, satelliteID string, tgt target.GroundTarget, start, end time.Time, opts Options) ([]Pass, error) {
	var passes []Pass

	var builder *passBuilder
	var prev sample
	havePrev := false

	var failureRunStart time.Time
	failureRunActive := false

	iterations := 0
	for t := start; !t.After(end); t = t.Add(opts.StepInterval) {
		iterations++
		if iterations%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
			}
		}

		s, err := ev.evaluate(t)
		if err != nil {
			if !failureRunActive {
				failureRunActive = true
				failureRunStart = t
			} else if t.Sub(failureRunStart) > opts.PropagatorFailureTolerance {
				return nil, fmt.Errorf("%w: satellite %s target %s", ErrPropagatorUnavailable, satelliteID, tgt.ID)
			}
			continue
		}
		failureRunActive = false

		if !havePrev {
			prev = s
			havePrev = true
			if s.accessible {
				builder = newPassBuilder(s)
			}
			continue
		}

		switch {
		case !prev.accessible && s.accessible:
			aos := bisectCrossing(ev, prev, s, opts.TimeEdgeEpsilon)
			builder = newPassBuilder(aos)
			builder.observe(s)
		case prev.accessible && s.accessible:
			builder.observe(s)
		case prev.accessible && !s.accessible:
			los := bisectCrossing(ev, prev, s, opts.TimeEdgeEpsilon)
			passes = appendIfValid(passes, builder.build(satelliteID, tgt.ID, los.t))
			builder = nil
		}

		prev = s
	}

	if builder != nil {
		passes = appendIfValid(passes, builder.build(satelliteID, tgt.ID, prev.t))
	}

	return passes, nil
}

func appendIfValid(passes []Pass, p Pass) []Pass {
	if p.Duration() >= MinPassDuration {
		passes = append(passes, p)
	}
	return passes
}

// bisectCrossing refines the accessibility transition between a and b
// (a.accessible != b.accessible) to within epsilon, returning a sample
// evaluated at the refined crossing instant. Mirrors the teacher's
// interpolateCrossing, generalized from linear elevation interpolation
// to direct re-evaluation of the boolean predicate (off-nadir and sun
// gating are not linear in time the way elevation roughly is).
func bisectCrossing(ev evaluator, a, b sample, epsilon time.Duration) sample {
	lo, hi := a, b
	for hi.t.Sub(lo.t) > epsilon {
		mid := lo.t.Add(hi.t.Sub(lo.t) / 2)
		s, err := ev.evaluate(mid)
		if err != nil {
			// Treat an unevaluable midpoint as matching the lower bound's
			// side of the transition and keep narrowing.
			lo = sample{t: mid, accessible: lo.accessible}
			continue
		}
		if s.accessible == lo.accessible {
			lo = s
		} else {
			hi = s
		}
	}
	// Return whichever bound corresponds to the accessible side, so the
	// pass boundary is attributed to a timestamp where the target is
	// actually inside the pointable cone.
	if lo.accessible {
		return lo
	}
	return hi
}

// searchAdaptive predicts the next potential AOS using orbital-period
// knowledge and skips ahead while inaccessible, falling back to the
// fixed fine step near and during accessibility.
func searchAdaptive(ctx context.Context, ev evaluator, satelliteID string, tgt target.GroundTarget, start, end time.Time, opts Options) ([]Pass, error) {
	period, havePeriod := ev.cache.OrbitalPeriod(satelliteID)
	coarseStep := opts.StepInterval
	if havePeriod && period > 0 {
		coarseStep = period / 4
	}
	if coarseStep < opts.StepInterval {
		coarseStep = opts.StepInterval
	}

	var passes []Pass
	var builder *passBuilder
	var prev sample
	havePrev := false

	var failureRunStart time.Time
	failureRunActive := false

	iterations := 0
	t := start
	for !t.After(end) {
		iterations++
		if iterations%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
			}
		}

		s, err := ev.evaluate(t)
		if err != nil {
			if !failureRunActive {
				failureRunActive = true
				failureRunStart = t
			} else if t.Sub(failureRunStart) > opts.PropagatorFailureTolerance {
				return nil, fmt.Errorf("%w: satellite %s target %s", ErrPropagatorUnavailable, satelliteID, tgt.ID)
			}
			t = t.Add(opts.StepInterval)
			continue
		}
		failureRunActive = false

		if !havePrev {
			prev = s
			havePrev = true
			if s.accessible {
				builder = newPassBuilder(s)
			}
			t = t.Add(nextStep(s, opts.StepInterval, coarseStep))
			continue
		}

		switch {
		case !prev.accessible && s.accessible:
			aos := bisectCrossing(ev, prev, s, opts.TimeEdgeEpsilon)
			builder = newPassBuilder(aos)
			builder.observe(s)
		case prev.accessible && s.accessible:
			builder.observe(s)
		case prev.accessible && !s.accessible:
			los := bisectCrossing(ev, prev, s, opts.TimeEdgeEpsilon)
			passes = appendIfValid(passes, builder.build(satelliteID, tgt.ID, los.t))
			builder = nil
		}

		prev = s
		t = t.Add(nextStep(s, opts.StepInterval, coarseStep))
	}

	if builder != nil {
		passes = appendIfValid(passes, builder.build(satelliteID, tgt.ID, prev.t))
	}

	return passes, nil
}

// nextStep returns the fine step while accessible (so transitions and
// peaks are not missed), the coarse step otherwise.
func nextStep(s sample, fine, coarse time.Duration) time.Duration {
	if s.accessible {
		return fine
	}
	return coarse
}
