// Package opportunity converts each access window (visibility.Pass) into
// one or more discrete, scheduler-ready imaging candidates: a start
// time, duration, roll, pitch, and geometry-derived quality score.
// Grounded on litescript/ls-horizons's sample-and-score shape in
// internal/dsn/derive.go, generalized from a single derived-quantity
// pass to the spec's roll-only / roll+pitch multi-sample generation and
// value-assignment rules.
package opportunity

import (
	"fmt"
	"time"

	"github.com/eoplan/missionplanner/internal/geometry"
	"github.com/eoplan/missionplanner/internal/propagation"
	"github.com/eoplan/missionplanner/internal/target"
	"github.com/eoplan/missionplanner/internal/visibility"
)

// Opportunity is a discrete imaging candidate ready for scheduling.
type Opportunity struct {
	ID          string
	SatelliteID string
	TargetID    string

	Start    time.Time
	End      time.Time
	Duration time.Duration

	Value               float64
	Priority            int
	IncidenceAngleDeg   float64
	RollAngleDeg        float64
	PitchAngleDeg       float64
	ParentPassIndex     int
}

// GenerationMode selects how many Opportunities a Pass yields.
type GenerationMode int

const (
	// RollOnly emits exactly one Opportunity per Pass, at its peak.
	RollOnly GenerationMode = iota
	// RollPitch samples multiple candidates across the window.
	RollPitch
)

// QualityModel selects the incidence-to-quality mapping.
type QualityModel int

const (
	// QualityOff collapses quality_score to 1 (value reduces to priority).
	QualityOff QualityModel = iota
	// QualityMonotonic is the OPTICAL default: exponential falloff with incidence.
	QualityMonotonic
	// QualityBanded is the SAR default: a bell curve centred on an ideal incidence.
	QualityBanded
	// QualityAdditive exposes the alternate value formula some source
	// modules used (priority + quality*weight) behind a distinct tag,
	// per the spec's Open Question on value-formula standardization.
	QualityAdditive
)

// Params configures opportunity generation and value assignment.
type Params struct {
	Mode GenerationMode

	ImagingTimeS float64

	MaxSpacecraftPitchDeg float64

	QualityModel       QualityModel
	QualityWeight      float64 // default 0.5
	IdealIncidenceDeg   float64 // banded model centre, default 35
	BandWidthDeg        float64 // banded model half-width, default 7.5
	PriorityScale       float64 // default 1.0

	// MinPassForWindows is the pass-duration threshold above which
	// roll+pitch mode samples multiple points instead of one centred
	// sample. Default 60s.
	MinPassForWindows time.Duration
	// SampleIntervalS is the roll+pitch sampling spacing. Default 20s.
	SampleIntervalS float64
}

// velocitySampleOffset is the half-width of the central-difference
// window used to estimate satellite ECEF velocity from two propagator
// evaluations, matching the visibility engine's estimateVelocityECEF so
// a sample's reported roll stays consistent with the incidence angle
// computed at the same instant. One full second keeps the two probes on
// distinct entries of the propagator cache, which rounds to whole seconds.
const velocitySampleOffset = 1 * time.Second

// DefaultParams returns the spec's default generation parameters.
func DefaultParams() Params {
	return Params{
		Mode:                  RollOnly,
		ImagingTimeS:          5,
		MaxSpacecraftPitchDeg: 30,
		QualityModel:          QualityMonotonic,
		QualityWeight:         0.5,
		IdealIncidenceDeg:     35,
		BandWidthDeg:          7.5,
		PriorityScale:         1.0,
		MinPassForWindows:     60 * time.Second,
		SampleIntervalS:       20,
	}
}

func (p Params) withDefaults() Params {
	if p.PriorityScale == 0 {
		p.PriorityScale = 1.0
	}
	if p.IdealIncidenceDeg == 0 {
		p.IdealIncidenceDeg = 35
	}
	if p.BandWidthDeg == 0 {
		p.BandWidthDeg = 7.5
	}
	if p.MinPassForWindows == 0 {
		p.MinPassForWindows = 60 * time.Second
	}
	if p.SampleIntervalS == 0 {
		p.SampleIntervalS = 20
	}
	return p
}

// opportunityID mints deterministic, stable opportunity ids: satellite,
// target, parent pass index, sample index. Deterministic ids keep
// identical inputs producing an identical schedule, per the core's
// determinism guarantee.
func opportunityID(satelliteID, targetID string, passIndex, sampleIndex int) string {
	return fmt.Sprintf("%s/%s/pass%d/s%d", satelliteID, targetID, passIndex, sampleIndex)
}

// Generate converts one Pass into its Opportunities, given the
// GroundTarget it was computed against and a propagator cache for
// instantaneous geometry at non-peak samples.
func Generate(cache *propagation.Cache, tgt target.GroundTarget, pass visibility.Pass, passIndex int, params Params) ([]Opportunity, error) {
	params = params.withDefaults()
	if params.ImagingTimeS <= 0 {
		return nil, fmt.Errorf("%w: imaging_time_s must be > 0", ErrOpportunityInvalidInput)
	}

	switch params.Mode {
	case RollPitch:
		return generateRollPitch(cache, tgt, pass, passIndex, params)
	default:
		return generateRollOnly(tgt, pass, passIndex, params), nil
	}
}

func generateRollOnly(tgt target.GroundTarget, pass visibility.Pass, passIndex int, params Params) []Opportunity {
	half := time.Duration(params.ImagingTimeS * float64(time.Second) / 2)
	start := pass.Peak.Add(-half)
	end := start.Add(time.Duration(params.ImagingTimeS * float64(time.Second)))

	value := assignValue(tgt, pass.PeakIncidenceDeg, params)

	return []Opportunity{{
		ID:                opportunityID(pass.SatelliteID, pass.TargetID, passIndex, 0),
		SatelliteID:       pass.SatelliteID,
		TargetID:          pass.TargetID,
		Start:             start,
		End:               end,
		Duration:          end.Sub(start),
		Value:             value,
		Priority:          tgt.Priority,
		IncidenceAngleDeg: pass.PeakIncidenceDeg,
		RollAngleDeg:      pass.PeakSignedRollDeg,
		PitchAngleDeg:     0,
		ParentPassIndex:   passIndex,
	}}
}

func generateRollPitch(cache *propagation.Cache, tgt target.GroundTarget, pass visibility.Pass, passIndex int, params Params) ([]Opportunity, error) {
	sampleTimes := sampleInstants(pass, params)

	opportunities := make([]Opportunity, 0, len(sampleTimes))
	for i, t := range sampleTimes {
		satPos, err := cache.Propagate(pass.SatelliteID, t)
		if err != nil {
			continue // propagator hiccup at this sample; skip, per the engine's recovery policy
		}

		incidenceDeg, err := geometry.OffNadirAngle(satPos.LatDeg, satPos.LonDeg, satPos.AltKm, tgt.LatDeg, tgt.LonDeg)
		if err != nil {
			continue
		}

		tOffsetS := t.Sub(pass.Peak).Seconds()
		pitchDeg := geometry.AlongTrackPitchAngle(tOffsetS, satPos.AltKm, params.MaxSpacecraftPitchDeg)

		signedRollDeg := pass.PeakSignedRollDeg
		if velocity, err := estimateVelocityECEF(cache, pass.SatelliteID, t); err == nil {
			state := geometry.SatelliteState{
				LatDeg: satPos.LatDeg, LonDeg: satPos.LonDeg, AltKm: satPos.AltKm,
				VelocityECEF: velocity,
			}
			if roll, err := geometry.SignedRollAngle(state, tgt.LatDeg, tgt.LonDeg); err == nil {
				signedRollDeg = roll
			}
		}

		if abs(signedRollDeg) > tgt.MaxSpacecraftRollDeg {
			continue // reject samples whose roll would exceed spacecraft headroom
		}

		half := time.Duration(params.ImagingTimeS * float64(time.Second) / 2)
		start := t.Add(-half)
		end := start.Add(time.Duration(params.ImagingTimeS * float64(time.Second)))

		value := assignValue(tgt, incidenceDeg, params)

		opportunities = append(opportunities, Opportunity{
			ID:                opportunityID(pass.SatelliteID, pass.TargetID, passIndex, i),
			SatelliteID:       pass.SatelliteID,
			TargetID:          pass.TargetID,
			Start:             start,
			End:               end,
			Duration:          end.Sub(start),
			Value:             value,
			Priority:          tgt.Priority,
			IncidenceAngleDeg: incidenceDeg,
			RollAngleDeg:      signedRollDeg,
			PitchAngleDeg:     pitchDeg,
			ParentPassIndex:   passIndex,
		})
	}

	return opportunities, nil
}

// estimateVelocityECEF derives the satellite's instantaneous ECEF
// velocity by central difference over two nearby propagator
// evaluations, mirroring the visibility engine's estimateVelocityECEF
// so a sample's roll reflects the same instantaneous geometry as its
// incidence and pitch rather than a peak-relative approximation.
func estimateVelocityECEF(cache *propagation.Cache, satelliteID string, t time.Time) (geometry.Vec3, error) {
	before, err := cache.Propagate(satelliteID, t.Add(-velocitySampleOffset))
	if err != nil {
		return geometry.Vec3{}, err
	}
	after, err := cache.Propagate(satelliteID, t.Add(velocitySampleOffset))
	if err != nil {
		return geometry.Vec3{}, err
	}

	beforeECEF := geometry.GeodeticToECEF(before.LatDeg, before.LonDeg, before.AltKm)
	afterECEF := geometry.GeodeticToECEF(after.LatDeg, after.LonDeg, after.AltKm)

	dtSeconds := 2 * velocitySampleOffset.Seconds()
	return afterECEF.Sub(beforeECEF).Scale(1.0 / dtSeconds), nil
}

func sampleInstants(pass visibility.Pass, params Params) []time.Time {
	if pass.Duration() < params.MinPassForWindows {
		return []time.Time{pass.Peak}
	}

	spacing := time.Duration(params.SampleIntervalS * float64(time.Second))
	count := int(pass.Duration()/spacing) + 1
	if count < 3 {
		count = 3
	}
	if count > 11 {
		count = 11
	}

	times := make([]time.Time, count)
	step := pass.Duration() / time.Duration(count-1)
	for i := 0; i < count; i++ {
		times[i] = pass.Start.Add(time.Duration(i) * step)
	}
	return times
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
