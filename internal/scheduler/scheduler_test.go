package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/eoplan/missionplanner/internal/feasibility"
	"github.com/eoplan/missionplanner/internal/opportunity"
)

var epoch = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func stdKernel(t *testing.T) feasibility.Kernel {
	t.Helper()
	k, err := feasibility.NewKernel(
		feasibility.Limits{MaxAngleDeg: 45, MaxRateDps: 1, MaxAccelDps2: 1},
		feasibility.Limits{MaxAngleDeg: 30, MaxRateDps: 1, MaxAccelDps2: 1},
		0,
	)
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	return k
}

func stdConfig(t *testing.T) Config {
	return Config{
		Kernel:                stdKernel(t),
		MaxSpacecraftRollDeg:  45,
		MaxSpacecraftPitchDeg: 30,
		HorizonStart:          epoch,
	}
}

func opp(id, satelliteID, targetID string, startOffsetS, durationS, value, rollDeg float64) opportunity.Opportunity {
	start := epoch.Add(time.Duration(startOffsetS * float64(time.Second)))
	end := start.Add(time.Duration(durationS * float64(time.Second)))
	return opportunity.Opportunity{
		ID:                id,
		SatelliteID:       satelliteID,
		TargetID:          targetID,
		Start:             start,
		End:               end,
		Duration:          end.Sub(start),
		Value:             value,
		Priority:          1,
		IncidenceAngleDeg: 10,
		RollAngleDeg:      rollDeg,
	}
}

func TestRunFirstFitAcceptsNonConflictingChronologically(t *testing.T) {
	cfg := stdConfig(t)
	opps := []opportunity.Opportunity{
		opp("o2", "sat-a", "t2", 1000, 5, 5, 0),
		opp("o1", "sat-a", "t1", 20, 5, 10, 0),
	}

	scheduled, accepted, rejected, err := runFirstFit(context.Background(), cfg, opps)
	if err != nil {
		t.Fatalf("runFirstFit: %v", err)
	}
	if accepted != 2 || rejected != 0 {
		t.Fatalf("accepted=%d rejected=%d, want 2/0", accepted, rejected)
	}
	if scheduled[0].TargetID != "t1" || scheduled[1].TargetID != "t2" {
		t.Fatalf("expected chronological order t1,t2; got %s,%s", scheduled[0].TargetID, scheduled[1].TargetID)
	}
}

func TestRunFirstFitRejectsOverlapping(t *testing.T) {
	cfg := stdConfig(t)
	opps := []opportunity.Opportunity{
		opp("o1", "sat-a", "t1", 20, 10, 10, 0),
		opp("o2", "sat-a", "t2", 25, 10, 5, 0), // overlaps o1
	}
	scheduled, accepted, rejected, err := runFirstFit(context.Background(), cfg, opps)
	if err != nil {
		t.Fatalf("runFirstFit: %v", err)
	}
	if accepted != 1 || rejected != 1 {
		t.Fatalf("accepted=%d rejected=%d, want 1/1", accepted, rejected)
	}
	if scheduled[0].TargetID != "t1" {
		t.Fatalf("expected t1 accepted, got %s", scheduled[0].TargetID)
	}
}

func TestRunBestFitPrefersHigherValueOverEarlier(t *testing.T) {
	cfg := stdConfig(t)
	// Both start at the same time window; best-fit should pick higher value
	// even though first-fit would have taken whichever sorts first.
	opps := []opportunity.Opportunity{
		opp("o1", "sat-a", "t1", 20, 10, 5, 0),
		opp("o2", "sat-a", "t2", 20, 10, 20, 0),
	}
	scheduled, accepted, _, err := runBestFit(context.Background(), cfg, opps)
	if err != nil {
		t.Fatalf("runBestFit: %v", err)
	}
	if accepted != 1 {
		t.Fatalf("accepted=%d, want 1 (overlapping candidates)", accepted)
	}
	if scheduled[0].TargetID != "t2" {
		t.Fatalf("expected best-fit to choose higher-value t2, got %s", scheduled[0].TargetID)
	}
}

func TestRunValueDensityOrdersByDensityDescending(t *testing.T) {
	cfg := stdConfig(t)
	// t1: value 10 over 5s -> density 2/s (ignoring maneuver term at roll=0)
	// t2: value 30 over 30s -> density 1/s
	// Both fit without conflict (far apart), so both should be accepted,
	// but density ranking determines tie-break ordering within the sort.
	opps := []opportunity.Opportunity{
		opp("o2", "sat-a", "t2", 1000, 30, 30, 0),
		opp("o1", "sat-a", "t1", 20, 5, 10, 0),
	}
	scheduled, accepted, _, err := runValueDensity(context.Background(), cfg, opps)
	if err != nil {
		t.Fatalf("runValueDensity: %v", err)
	}
	if accepted != 2 {
		t.Fatalf("accepted=%d, want 2", accepted)
	}
	// Output is re-sorted chronologically regardless of acceptance order.
	if scheduled[0].TargetID != "t1" || scheduled[1].TargetID != "t2" {
		t.Fatalf("expected chronological t1,t2 in output; got %s,%s", scheduled[0].TargetID, scheduled[1].TargetID)
	}
}

func TestRunStrategyRespectsCancellation(t *testing.T) {
	cfg := stdConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bySatellite := map[string][]opportunity.Opportunity{
		"sat-a": {opp("o1", "sat-a", "t1", 20, 5, 10, 0)},
	}
	_, _, err := RunStrategy(ctx, FirstFit, cfg, bySatellite, 1)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestRunStrategyComputesCoverageAndMetrics(t *testing.T) {
	cfg := stdConfig(t)
	bySatellite := map[string][]opportunity.Opportunity{
		"sat-a": {
			opp("o1", "sat-a", "t1", 20, 5, 10, 0),
			opp("o2", "sat-a", "t2", 1000, 5, 5, 0),
		},
	}
	schedule, metrics, err := RunStrategy(context.Background(), FirstFit, cfg, bySatellite, 4)
	if err != nil {
		t.Fatalf("RunStrategy: %v", err)
	}
	if schedule.Count() != 2 {
		t.Fatalf("schedule count=%d, want 2", schedule.Count())
	}
	if metrics.OpportunitiesAccepted != 2 {
		t.Fatalf("accepted=%d, want 2", metrics.OpportunitiesAccepted)
	}
	if metrics.CoveragePercent != 50 {
		t.Fatalf("coverage=%.1f, want 50 (2 of 4 targets)", metrics.CoveragePercent)
	}
	if metrics.RunID == "" {
		t.Fatal("expected non-empty RunID")
	}
}

func TestBaseStrategyMapsRollPitchVariants(t *testing.T) {
	if RollPitchFirstFit.baseStrategy() != FirstFit {
		t.Fatal("RollPitchFirstFit should map to FirstFit")
	}
	if RollPitchBestFit.baseStrategy() != BestFit {
		t.Fatal("RollPitchBestFit should map to BestFit")
	}
	if ValueDensity.baseStrategy() != ValueDensity {
		t.Fatal("ValueDensity should map to itself")
	}
}

func TestParseStrategyRejectsUnknown(t *testing.T) {
	if _, err := ParseStrategy("not_a_strategy"); err == nil {
		t.Fatal("expected error for unknown strategy tag")
	}
}
