package request

import (
	"fmt"

	"github.com/eoplan/missionplanner/internal/propagation"
	"github.com/eoplan/missionplanner/internal/scheduler"
	"github.com/eoplan/missionplanner/internal/target"
)

// Validate checks PlanningRequest invariants before any computation
// begins, per spec.md §7's InvalidInput contract: a malformed request
// fails fast with no partial work performed.
func (r PlanningRequest) Validate() error {
	if len(r.Satellites) == 0 {
		return fmt.Errorf("%w: satellites must not be empty", ErrInvalidInput)
	}
	if !r.HorizonEnd.After(r.HorizonStart) {
		return fmt.Errorf("%w: horizon_end must be after horizon_start", ErrInvalidInput)
	}
	if r.Params.MaxSpacecraftRollDeg <= 0 {
		return fmt.Errorf("%w: max_spacecraft_roll_deg must be > 0", ErrInvalidInput)
	}
	if r.Params.ImagingTimeS <= 0 {
		return fmt.Errorf("%w: imaging_time_s must be > 0", ErrInvalidInput)
	}
	if _, err := r.Params.buildKernel(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	seenSatellites := make(map[string]bool, len(r.Satellites))
	for _, s := range r.Satellites {
		if s.SatelliteID == "" {
			return fmt.Errorf("%w: satellite_id must not be empty", ErrInvalidInput)
		}
		if seenSatellites[s.SatelliteID] {
			return fmt.Errorf("%w: duplicate satellite_id %q", ErrInvalidInput, s.SatelliteID)
		}
		seenSatellites[s.SatelliteID] = true
		if _, err := propagation.ParseTLE(s.TLELine1, s.TLELine2); err != nil {
			return fmt.Errorf("%w: satellite %s: %v", ErrInvalidInput, s.SatelliteID, err)
		}
	}

	seenTargets := make(map[string]bool, len(r.Targets))
	for _, t := range r.Targets {
		tgt, err := t.toGroundTarget()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := tgt.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if seenTargets[tgt.ID] {
			return fmt.Errorf("%w: duplicate target id %q", ErrInvalidInput, tgt.ID)
		}
		seenTargets[tgt.ID] = true
	}

	if _, err := scheduler.ParseResolutionPolicy(r.Params.ConflictResolutionPolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if len(r.Strategies) == 0 {
		return fmt.Errorf("%w: strategies must not be empty", ErrInvalidInput)
	}
	for _, tag := range r.Strategies {
		if _, err := scheduler.ParseStrategy(tag); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// toGroundTarget converts the wire form to the internal target type,
// parsing mission_mode along the way.
func (g GroundTargetSpec) toGroundTarget() (target.GroundTarget, error) {
	mode, err := target.ParseMissionMode(g.MissionMode)
	if err != nil {
		return target.GroundTarget{}, err
	}
	return target.GroundTarget{
		ID:                    g.ID,
		LatDeg:                g.LatDeg,
		LonDeg:                g.LonDeg,
		AltitudeM:             g.AltitudeM,
		Priority:              g.Priority,
		MissionMode:           mode,
		SensorFOVHalfAngleDeg: g.SensorFOVHalfAngleDeg,
		MaxSpacecraftRollDeg:  g.MaxSpacecraftRollDeg,
		ElevationMaskDeg:      g.ElevationMaskDeg,
		MinSunElevationDeg:    g.MinSunElevationDeg,
	}, nil
}
