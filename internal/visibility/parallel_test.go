package visibility

import (
	"context"
	"testing"
	"time"

	"github.com/eoplan/missionplanner/internal/propagation"
)

func TestSearchAllMergesByTarget(t *testing.T) {
	epoch := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	targetA := overheadTestTarget()
	targetA.ID = "a"
	targetB := overheadTestTarget()
	targetB.ID = "b"
	targetB.LatDeg, targetB.LonDeg = 10, 20

	propA := overheadPropagator{targetLatDeg: targetA.LatDeg, targetLonDeg: targetA.LonDeg, altKm: 500, degPerSecond: 0.05, epoch: epoch, period: 95 * time.Minute}
	propB := overheadPropagator{targetLatDeg: targetB.LatDeg, targetLonDeg: targetB.LonDeg, altKm: 500, degPerSecond: 0.05, epoch: epoch.Add(2 * time.Minute), period: 95 * time.Minute}

	sun := fixedSunProvider{}

	pairs := []Pair{
		{SatelliteID: "sat-a", Target: targetA},
		{SatelliteID: "sat-b", Target: targetB},
	}

	start := epoch.Add(-5 * time.Minute)
	end := epoch.Add(5 * time.Minute)

	// SearchAll expects one shared cache; route each satellite's calls
	// to its own synthetic orbit through a dispatching Propagator.
	dispatch := dispatchPropagator{"sat-a": propA, "sat-b": propB}
	sharedCache := propagation.NewCache(dispatch)

	byTarget, err := SearchAll(context.Background(), sharedCache, sun, pairs, start, end, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(byTarget["a"]) != 1 {
		t.Errorf("target a: got %d passes, want 1", len(byTarget["a"]))
	}
	if len(byTarget["b"]) != 1 {
		t.Errorf("target b: got %d passes, want 1", len(byTarget["b"]))
	}
}

// dispatchPropagator routes Propagate calls to a per-satellite synthetic
// propagator, letting a single SearchAll call exercise multiple distinct
// orbits through one shared cache.
type dispatchPropagator map[string]overheadPropagator

func (d dispatchPropagator) Propagate(satelliteID string, t time.Time) (propagation.Position, error) {
	return d[satelliteID].Propagate(satelliteID, t)
}

func (d dispatchPropagator) OrbitalPeriod(satelliteID string) (time.Duration, bool) {
	return d[satelliteID].OrbitalPeriod(satelliteID)
}

func TestSearchAllSurfacesSustainedPropagatorFailure(t *testing.T) {
	tgt := overheadTestTarget()
	pairs := []Pair{{SatelliteID: "sat-1", Target: tgt}}

	cache := propagation.NewCache(alwaysFailingPropagator{})
	sun := fixedSunProvider{}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)

	_, err := SearchAll(context.Background(), cache, sun, pairs, start, end, DefaultOptions())
	if err == nil {
		t.Fatal("expected sustained propagator failure to surface from SearchAll")
	}
}

func TestSearchAllEmptyPairs(t *testing.T) {
	cache := propagation.NewCache(alwaysFailingPropagator{})
	sun := fixedSunProvider{}

	byTarget, err := SearchAll(context.Background(), cache, sun, nil, time.Now(), time.Now(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byTarget) != 0 {
		t.Errorf("got %d entries, want 0", len(byTarget))
	}
}
