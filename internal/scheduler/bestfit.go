package scheduler

import (
	"context"
	"math"

	"github.com/eoplan/missionplanner/internal/feasibility"
	"github.com/eoplan/missionplanner/internal/opportunity"
)

// runBestFit repeatedly picks, among not-yet-considered opportunities
// starting at or after the last accepted one's end + MIN_GAP, the
// highest-value feasible candidate (tie-break: smallest |delta roll|),
// until no feasible candidate remains. O(n^2) worst case.
func runBestFit(ctx context.Context, cfg Config, opps []opportunity.Opportunity) ([]ScheduledOpportunity, int, int, error) {
	remaining := make([]opportunity.Opportunity, len(opps))
	copy(remaining, opps)

	var scheduled []ScheduledOpportunity
	prev := cfg.nadirReference()
	accepted, rejected := 0, 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, 0, err
		}

		bestIdx := -1
		var bestPlacement feasibility.Placement
		var bestCandidate opportunity.Opportunity

		for i, o := range remaining {
			if o.ID == "" {
				continue // already consumed
			}
			cand := cfg.toCandidate(o)
			if cand.StartS < prev.EndS+feasibility.MinGapSeconds {
				continue
			}
			placement, ok := cfg.Kernel.Evaluate(prev, cand, cfg.MaxSpacecraftRollDeg, cfg.MaxSpacecraftPitchDeg, cfg.AllowableWindowSlipS)
			if !ok {
				continue
			}
			if bestIdx == -1 || isBetterBestFitCandidate(o, placement, bestCandidate, bestPlacement) {
				bestIdx = i
				bestPlacement = placement
				bestCandidate = o
			}
		}

		if bestIdx == -1 {
			break
		}

		so := ScheduledOpportunity{
			Opportunity:   bestCandidate,
			DeltaRollDeg:  bestPlacement.DeltaRollDeg,
			DeltaPitchDeg: bestPlacement.DeltaPitchDeg,
			ManeuverTimeS: bestPlacement.ManeuverTimeS,
			SlackTimeS:    bestPlacement.SlackTimeS,
			AbsRollDeg:    bestPlacement.AbsRollDeg,
			AbsPitchDeg:   bestPlacement.AbsPitchDeg,
		}
		scheduled = append(scheduled, so)
		prev = feasibility.Attitude{
			RollDeg:  bestCandidate.RollAngleDeg,
			PitchDeg: bestCandidate.PitchAngleDeg,
			EndS:     cfg.toCandidate(bestCandidate).EndS,
		}
		remaining[bestIdx].ID = "" // mark consumed
		accepted++
	}

	rejected = countUnconsumed(remaining)
	return scheduled, accepted, rejected, nil
}

func countUnconsumed(opps []opportunity.Opportunity) int {
	n := 0
	for _, o := range opps {
		if o.ID != "" {
			n++
		}
	}
	return n
}

// isBetterBestFitCandidate implements best-fit's selection rule:
// highest value, tie-broken by smallest |delta roll|.
func isBetterBestFitCandidate(cand opportunity.Opportunity, placement feasibility.Placement, currentBest opportunity.Opportunity, currentBestPlacement feasibility.Placement) bool {
	if cand.Value != currentBest.Value {
		return cand.Value > currentBest.Value
	}
	return math.Abs(placement.DeltaRollDeg) < math.Abs(currentBestPlacement.DeltaRollDeg)
}
