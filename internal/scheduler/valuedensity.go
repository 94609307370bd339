package scheduler

import (
	"context"
	"sort"

	"github.com/eoplan/missionplanner/internal/feasibility"
	"github.com/eoplan/missionplanner/internal/opportunity"
)

// interval is a half-open time range, in seconds since the horizon
// start, used for value-density's overlap conflict check.
type interval struct {
	startS, endS float64
}

func (a interval) overlaps(b interval) bool {
	return a.startS < b.endS && b.startS < a.endS
}

// expectedManeuverS estimates the maneuver time a candidate would incur
// from the nadir-pointing reference, used only to rank by value
// density; the actual maneuver time at acceptance is computed against
// the true chronological predecessor.
func expectedManeuverS(cfg Config, o opportunity.Opportunity) float64 {
	return cfg.Kernel.ManeuverTimeSeconds(o.RollAngleDeg, o.PitchAngleDeg)
}

// runValueDensity sorts by value/(imaging_time+expected_maneuver)
// descending and greedily accepts each candidate that neither
// temporally conflicts with already-accepted opportunities (comparing
// [start-maneuver, end+MIN_GAP] intervals) nor fails the feasibility
// kernel against its true chronological predecessor.
func runValueDensity(ctx context.Context, cfg Config, opps []opportunity.Opportunity) ([]ScheduledOpportunity, int, int, error) {
	type ranked struct {
		o       opportunity.Opportunity
		density float64
	}

	ranks := make([]ranked, len(opps))
	for i, o := range opps {
		denom := o.Duration.Seconds() + expectedManeuverS(cfg, o)
		density := 0.0
		if denom > 0 {
			density = o.Value / denom
		}
		ranks[i] = ranked{o: o, density: density}
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].density != ranks[j].density {
			return ranks[i].density > ranks[j].density
		}
		return ranks[i].o.TargetID < ranks[j].o.TargetID
	})

	var scheduled []ScheduledOpportunity
	var intervals []interval
	accepted, rejected := 0, 0

	for _, r := range ranks {
		if err := ctx.Err(); err != nil {
			return nil, 0, 0, err
		}
		o := r.o
		cand := cfg.toCandidate(o)
		estManeuver := expectedManeuverS(cfg, o)
		candInterval := interval{startS: cand.StartS - estManeuver, endS: cand.EndS + feasibility.MinGapSeconds}

		conflict := false
		for _, existing := range intervals {
			if candInterval.overlaps(existing) {
				conflict = true
				break
			}
		}
		if conflict {
			rejected++
			continue
		}

		prev := predecessorAttitude(cfg, scheduled, cand.StartS)
		so, _, ok := tryPlace(cfg, prev, o)
		if !ok {
			rejected++
			continue
		}

		scheduled = append(scheduled, so)
		intervals = append(intervals, candInterval)
		accepted++
	}

	sort.SliceStable(scheduled, func(i, j int) bool { return scheduled[i].Start.Before(scheduled[j].Start) })

	return scheduled, accepted, rejected, nil
}

// predecessorAttitude finds the already-accepted opportunity
// chronologically closest before startS and returns its realized
// attitude, or the nadir reference if none precedes it.
func predecessorAttitude(cfg Config, scheduled []ScheduledOpportunity, startS float64) feasibility.Attitude {
	best := cfg.nadirReference()
	bestEndS := -1.0
	for _, so := range scheduled {
		endS := secondsSince(cfg.HorizonStart, so.End)
		if endS <= startS && endS > bestEndS {
			bestEndS = endS
			best = feasibility.Attitude{RollDeg: so.RollAngleDeg, PitchDeg: so.PitchAngleDeg, EndS: endS}
		}
	}
	return best
}
