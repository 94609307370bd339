package geometry

import (
	"math"
	"math/rand"
	"testing"
)

// TestGeodeticRoundTrip verifies property 1: for random (lat,lon,alt) on
// the sphere, ECEF round-trip is within 1e-6 degrees / 1e-4 km.
func TestGeodeticRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		latDeg := rng.Float64()*180 - 90
		lonDeg := rng.Float64()*360 - 180
		altKm := rng.Float64() * 2000

		v := GeodeticToECEF(latDeg, lonDeg, altKm)
		gotLat, gotLon, gotAlt := ECEFToGeodetic(v)

		if math.Abs(gotLat-latDeg) > 1e-6 {
			t.Fatalf("lat round trip: got %g want %g", gotLat, latDeg)
		}
		if math.Abs(normalizeAngle360(gotLon)-normalizeAngle360(lonDeg)) > 1e-6 {
			t.Fatalf("lon round trip: got %g want %g", gotLon, lonDeg)
		}
		if math.Abs(gotAlt-altKm) > 1e-4 {
			t.Fatalf("alt round trip: got %g want %g", gotAlt, altKm)
		}
	}
}

func TestVec3Ops(t *testing.T) {
	a := Vec3{X: 1, Y: 0, Z: 0}
	b := Vec3{X: 0, Y: 1, Z: 0}

	if got := a.Cross(b); got != (Vec3{X: 0, Y: 0, Z: 1}) {
		t.Errorf("a x b = %+v, want (0,0,1)", got)
	}
	if got := a.Dot(b); got != 0 {
		t.Errorf("a . b = %g, want 0", got)
	}
	if got := a.Scale(2).Norm(); got != 2 {
		t.Errorf("|2a| = %g, want 2", got)
	}
}
