package target

import (
	"errors"
	"testing"
)

func validTarget() GroundTarget {
	return GroundTarget{
		ID:                    "t1",
		LatDeg:                25.2,
		LonDeg:                55.3,
		AltitudeM:             10,
		Priority:              5,
		MissionMode:           Optical,
		SensorFOVHalfAngleDeg: 30,
		MaxSpacecraftRollDeg:  45,
		ElevationMaskDeg:      10,
	}
}

func TestValidateAcceptsWellFormedTarget(t *testing.T) {
	if err := validTarget().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GroundTarget)
	}{
		{"empty id", func(g *GroundTarget) { g.ID = "" }},
		{"lat out of range", func(g *GroundTarget) { g.LatDeg = 95 }},
		{"lon out of range", func(g *GroundTarget) { g.LonDeg = -200 }},
		{"zero priority", func(g *GroundTarget) { g.Priority = 0 }},
		{"fov zero", func(g *GroundTarget) { g.SensorFOVHalfAngleDeg = 0 }},
		{"fov over 90", func(g *GroundTarget) { g.SensorFOVHalfAngleDeg = 91 }},
		{"roll zero", func(g *GroundTarget) { g.MaxSpacecraftRollDeg = 0 }},
		{"elevation mask 90", func(g *GroundTarget) { g.ElevationMaskDeg = 90 }},
		{"elevation mask negative", func(g *GroundTarget) { g.ElevationMaskDeg = -1 }},
		{"sun elevation negative", func(g *GroundTarget) { g.MinSunElevationDeg = -5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := validTarget()
			tc.mutate(&target)
			err := target.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrTargetInvalidInput) {
				t.Errorf("error %v does not wrap ErrTargetInvalidInput", err)
			}
		})
	}
}

func TestPointingLimitPicksTighterBound(t *testing.T) {
	g := validTarget()
	g.SensorFOVHalfAngleDeg = 20
	g.MaxSpacecraftRollDeg = 45
	if got := g.PointingLimitDeg(); got != 20 {
		t.Errorf("PointingLimitDeg() = %g, want 20", got)
	}

	g.SensorFOVHalfAngleDeg = 60
	g.MaxSpacecraftRollDeg = 30
	if got := g.PointingLimitDeg(); got != 30 {
		t.Errorf("PointingLimitDeg() = %g, want 30", got)
	}
}

func TestSunGateEnabled(t *testing.T) {
	g := validTarget()
	g.MissionMode = Optical
	g.MinSunElevationDeg = 0
	if g.SunGateEnabled() {
		t.Error("sun gate should be disabled when min_sun_elevation_deg is unset")
	}

	g.MinSunElevationDeg = 10
	if !g.SunGateEnabled() {
		t.Error("sun gate should be enabled for OPTICAL with min_sun_elevation_deg > 0")
	}

	g.MissionMode = SAR
	if g.SunGateEnabled() {
		t.Error("SAR targets must never gate on sun elevation")
	}
}

func TestMissionModeRoundTrip(t *testing.T) {
	for _, s := range []string{"OPTICAL", "SAR"} {
		m, err := ParseMissionMode(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.String() != s {
			t.Errorf("round trip: got %s, want %s", m.String(), s)
		}
	}

	if _, err := ParseMissionMode("LIDAR"); err == nil {
		t.Fatal("expected error for unknown mission mode")
	}
}
