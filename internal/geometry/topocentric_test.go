package geometry

import (
	"math"
	"testing"
)

func TestElevationAzimuthOverhead(t *testing.T) {
	// Satellite directly overhead the target: elevation should be ~90.
	elev, _, err := ElevationAzimuth(10, 20, 500, 10, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(elev-90) > 1e-6 {
		t.Errorf("overhead elevation = %g, want ~90", elev)
	}
}

func TestElevationAzimuthInvalidInput(t *testing.T) {
	if _, _, err := ElevationAzimuth(200, 0, 500, 0, 0, 0); err == nil {
		t.Fatal("expected error for |lat|>90")
	}
	if _, _, err := ElevationAzimuth(0, 0, -5, 0, 0, 0); err == nil {
		t.Fatal("expected error for negative satellite altitude")
	}
}

func TestOffNadirOverheadIsZero(t *testing.T) {
	angle, err := OffNadirAngle(0, 0, 500, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(angle) > 1e-6 {
		t.Errorf("overhead off-nadir = %g, want 0", angle)
	}
}

func TestOffNadirBounded(t *testing.T) {
	angle, err := OffNadirAngle(0, 0, 500, 0, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if angle < 0 || angle > 90 {
		t.Errorf("off-nadir = %g, want in [0,90]", angle)
	}
}

func TestOrbitalVelocityDecreasesWithAltitude(t *testing.T) {
	low := OrbitalVelocity(400)
	high := OrbitalVelocity(1000)
	if high >= low {
		t.Errorf("orbital velocity at 1000km (%g) should be less than at 400km (%g)", high, low)
	}
}
