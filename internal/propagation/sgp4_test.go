package propagation

import (
	"math"
	"testing"
	"time"
)

const issLine1 = "1 25544U 98067A   24001.50000000  .00016717  00000-0  10270-3 0  9000"
const issLine2 = "2 25544  51.6400 208.9163 0006703  69.9862  25.2906 15.49309239123456"

func TestParseTLE(t *testing.T) {
	e, err := ParseTLE(issLine1, issLine2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.InclinationDeg < 51 || e.InclinationDeg > 52 {
		t.Errorf("inclination = %g, want ~51.64", e.InclinationDeg)
	}
	if e.MeanMotion < 15 || e.MeanMotion > 16 {
		t.Errorf("mean motion = %g, want ~15.49", e.MeanMotion)
	}
}

func TestParseTLERejectsShortLines(t *testing.T) {
	if _, err := ParseTLE("short", "short"); err == nil {
		t.Fatal("expected error for malformed TLE")
	}
}

func TestPropagateUnknownSatellite(t *testing.T) {
	p := NewSGP4Propagator()
	if _, err := p.Propagate("no-such-sat", time.Now()); err == nil {
		t.Fatal("expected error for unregistered satellite")
	}
}

func TestPropagateStaysNearAltitude(t *testing.T) {
	e, err := ParseTLE(issLine1, issLine2)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := NewSGP4Propagator()
	p.AddSatellite("ISS", e)

	epoch := e.epoch()
	for i := 0; i < 20; i++ {
		pos, err := p.Propagate("ISS", epoch.Add(time.Duration(i)*15*time.Minute))
		if err != nil {
			t.Fatalf("propagate: %v", err)
		}
		if pos.AltKm < 300 || pos.AltKm > 500 {
			t.Errorf("step %d: altitude = %g km, want in [300,500] for ISS-like orbit", i, pos.AltKm)
		}
		if pos.LatDeg < -e.InclinationDeg-1 || pos.LatDeg > e.InclinationDeg+1 {
			t.Errorf("step %d: latitude %g exceeds inclination bound %g", i, pos.LatDeg, e.InclinationDeg)
		}
	}
}

func TestOrbitalPeriodKnown(t *testing.T) {
	e, err := ParseTLE(issLine1, issLine2)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := NewSGP4Propagator()
	p.AddSatellite("ISS", e)

	period, ok := p.OrbitalPeriod("ISS")
	if !ok {
		t.Fatal("expected known orbital period")
	}
	if period < 90*time.Minute || period > 95*time.Minute {
		t.Errorf("period = %v, want ~92.8min for ISS-like orbit", period)
	}
}

func TestOrbitalPeriodUnknownSatellite(t *testing.T) {
	p := NewSGP4Propagator()
	if _, ok := p.OrbitalPeriod("ghost"); ok {
		t.Fatal("expected ok=false for unregistered satellite")
	}
}

func TestGreenwichMeanSiderealTimeMonotonic(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g0 := greenwichMeanSiderealTime(base)
	g1 := greenwichMeanSiderealTime(base.Add(6 * time.Hour))

	diff := math.Mod(g1-g0+2*math.Pi, 2*math.Pi)
	// Earth rotates roughly pi/2 rad in 6 hours (sidereal rate slightly
	// faster than solar), so the unwrapped difference should be close to
	// pi/2 and strictly positive.
	if diff <= 0 || diff > math.Pi {
		t.Errorf("gmst(+6h)-gmst(0) = %g rad, want in (0, pi]", diff)
	}
}
