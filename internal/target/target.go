// Package target defines GroundTarget, the read-only request input shared
// across the visibility engine, opportunity generator, and scheduler.
package target

import (
	"fmt"
)

// MissionMode distinguishes optical imaging (sun-elevation gated) from
// synthetic-aperture radar (illumination-independent) targets.
type MissionMode int

const (
	// Optical requires a minimum sun elevation at the target subpoint
	// before a pass is accessible.
	Optical MissionMode = iota
	// SAR is illumination-independent.
	SAR
)

// String implements fmt.Stringer.
func (m MissionMode) String() string {
	switch m {
	case Optical:
		return "OPTICAL"
	case SAR:
		return "SAR"
	default:
		return "UNKNOWN"
	}
}

// ParseMissionMode parses the wire string form of a MissionMode.
func ParseMissionMode(s string) (MissionMode, error) {
	switch s {
	case "OPTICAL":
		return Optical, nil
	case "SAR":
		return SAR, nil
	default:
		return 0, fmt.Errorf("%w: unknown mission_mode %q", ErrTargetInvalidInput, s)
	}
}

// GroundTarget is an imaging demand site. Created once per planning
// request and never mutated; shared read-only across subsystems.
type GroundTarget struct {
	ID          string
	LatDeg      float64
	LonDeg      float64
	AltitudeM   float64
	Priority    int
	MissionMode MissionMode

	// SensorFOVHalfAngleDeg and MaxSpacecraftRollDeg are kept distinct:
	// the former governs the pointable cone (sensor/optics limit), the
	// latter governs spacecraft maneuver headroom. The smaller of the
	// two bounds accessibility; callers migrating from a single legacy
	// "pointing_angle" field should set both to that value.
	SensorFOVHalfAngleDeg float64
	MaxSpacecraftRollDeg  float64
	ElevationMaskDeg      float64

	// MinSunElevationDeg gates OPTICAL accessibility. Zero (the
	// unset/default value) disables the gate.
	MinSunElevationDeg float64
}

// Validate checks GroundTarget invariants, returning a wrapped
// ErrTargetInvalidInput describing the first violation found.
func (t GroundTarget) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: id must not be empty", ErrTargetInvalidInput)
	}
	if t.LatDeg < -90 || t.LatDeg > 90 {
		return fmt.Errorf("%w: target %s: latitude %g out of [-90,90]", ErrTargetInvalidInput, t.ID, t.LatDeg)
	}
	if t.LonDeg < -180 || t.LonDeg > 180 {
		return fmt.Errorf("%w: target %s: longitude %g out of [-180,180]", ErrTargetInvalidInput, t.ID, t.LonDeg)
	}
	if t.Priority < 1 {
		return fmt.Errorf("%w: target %s: priority %d must be >= 1", ErrTargetInvalidInput, t.ID, t.Priority)
	}
	if t.SensorFOVHalfAngleDeg <= 0 || t.SensorFOVHalfAngleDeg > 90 {
		return fmt.Errorf("%w: target %s: sensor_fov_half_angle_deg %g out of (0,90]", ErrTargetInvalidInput, t.ID, t.SensorFOVHalfAngleDeg)
	}
	if t.MaxSpacecraftRollDeg <= 0 || t.MaxSpacecraftRollDeg > 90 {
		return fmt.Errorf("%w: target %s: max_spacecraft_roll_deg %g out of (0,90]", ErrTargetInvalidInput, t.ID, t.MaxSpacecraftRollDeg)
	}
	if t.ElevationMaskDeg < 0 || t.ElevationMaskDeg >= 90 {
		return fmt.Errorf("%w: target %s: elevation_mask_deg %g out of [0,90)", ErrTargetInvalidInput, t.ID, t.ElevationMaskDeg)
	}
	if t.MinSunElevationDeg < 0 || t.MinSunElevationDeg > 90 {
		return fmt.Errorf("%w: target %s: min_sun_elevation_deg %g out of [0,90]", ErrTargetInvalidInput, t.ID, t.MinSunElevationDeg)
	}
	return nil
}

// PointingLimitDeg returns the tighter of the sensor's pointable cone and
// the spacecraft's maneuver headroom: the angle that actually bounds
// off-nadir accessibility for this target.
func (t GroundTarget) PointingLimitDeg() float64 {
	if t.SensorFOVHalfAngleDeg < t.MaxSpacecraftRollDeg {
		return t.SensorFOVHalfAngleDeg
	}
	return t.MaxSpacecraftRollDeg
}

// SunGateEnabled reports whether this OPTICAL target enforces a minimum
// sun elevation. SAR targets never gate on illumination.
func (t GroundTarget) SunGateEnabled() bool {
	return t.MissionMode == Optical && t.MinSunElevationDeg > 0
}
