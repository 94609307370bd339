package scheduler

import (
	"sort"

	"github.com/eoplan/missionplanner/internal/opportunity"
)

// MaxSwapIterations bounds the coverage-improvement swap repair's
// search: the problem is NP-hard in general, so repair is restricted to
// single-displacement swaps and capped at this many rounds.
const MaxSwapIterations = 50

// SwapRepair attempts, for each target absent from schedule despite
// having at least one candidate opportunity somewhere (uncovered), to
// swap it in by displacing the scheduled opportunities that block it
// and relocating each displaced opportunity to an alternative satellite
// if one exists. Iterates until no beneficial swap is found or
// MaxSwapIterations is reached. allCandidates is every Opportunity
// considered anywhere in the request, keyed by satellite_id,
// independent of which ones ended up scheduled.
func SwapRepair(cfg Config, schedule Schedule, allCandidates map[string][]opportunity.Opportunity) Schedule {
	current := cloneSchedule(schedule)

	for iteration := 0; iteration < MaxSwapIterations; iteration++ {
		uncovered := uncoveredTargets(current, allCandidates)
		if len(uncovered) == 0 {
			break
		}

		improved := false
		for _, targetID := range uncovered {
			if attemptSwap(cfg, current, allCandidates, targetID) {
				improved = true
				break // re-scan the uncovered set from scratch after any accepted swap
			}
		}
		if !improved {
			break
		}
	}

	return current
}

func cloneSchedule(s Schedule) Schedule {
	out := make(Schedule, len(s))
	for k, v := range s {
		cp := make([]ScheduledOpportunity, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// uncoveredTargets returns, in deterministic (sorted) order, every
// target id with at least one candidate opportunity anywhere but none
// scheduled.
func uncoveredTargets(schedule Schedule, allCandidates map[string][]opportunity.Opportunity) []string {
	scheduledTargets := schedule.TargetIDs()

	haveCandidate := make(map[string]bool)
	for _, opps := range allCandidates {
		for _, o := range opps {
			haveCandidate[o.TargetID] = true
		}
	}

	var uncovered []string
	for targetID := range haveCandidate {
		if _, ok := scheduledTargets[targetID]; !ok {
			uncovered = append(uncovered, targetID)
		}
	}
	sort.Strings(uncovered)
	return uncovered
}

type relocatedOpportunity struct {
	original     ScheduledOpportunity
	newSatellite string
	placed       ScheduledOpportunity
}

// attemptSwap tries to schedule the highest-value candidate opportunity
// for targetID on some satellite by displacing the scheduled
// opportunities that block its insertion there, provided every
// displaced opportunity has a feasible alternative placement (same
// target, a different satellite) that does not itself require
// displacing anything further. The swap is accepted only if it
// strictly increases total value, or increases coverage with value
// held even. Mutates current in place on acceptance.
func attemptSwap(cfg Config, current Schedule, allCandidates map[string][]opportunity.Opportunity, targetID string) bool {
	for _, satelliteID := range sortedSatelliteIDs(allCandidates) {
		candidate := bestCandidateForTarget(allCandidates[satelliteID], targetID)
		if candidate == nil {
			continue
		}

		existing := current[satelliteID]
		blocking := blockingOpportunities(cfg, existing, *candidate)

		remainder := withoutBlocking(existing, blocking)
		placedCandidate, newSatOpps, ok := insertIntoSchedule(cfg, remainder, *candidate)
		if !ok {
			continue
		}

		trial := cloneSchedule(current)
		trial[satelliteID] = newSatOpps

		var relocations []relocatedOpportunity
		feasible := true
		for _, blocked := range blocking {
			alt, altOpps, ok := findAlternative(cfg, trial, allCandidates, blocked, satelliteID)
			if !ok {
				feasible = false
				break
			}
			relocations = append(relocations, alt)
			trial[alt.newSatellite] = altOpps
		}
		if !feasible {
			continue
		}

		beforeValue := sumValues(blocking)
		afterValue := placedCandidate.Value + sumRelocatedValues(relocations)
		beforeCount := len(blocking)
		afterCount := 1 + len(relocations)

		valueGain := afterValue > beforeValue
		coverageGainValueHeld := afterCount > beforeCount && afterValue >= beforeValue
		if !valueGain && !coverageGainValueHeld {
			continue
		}

		for id, opps := range trial {
			if len(opps) == 0 {
				delete(current, id)
				continue
			}
			current[id] = opps
		}
		return true
	}
	return false
}

// blockingOpportunities reports which of a satellite's scheduled
// opportunities must be removed for candidate to fit: the direct probe
// (insertIntoSchedule against the unmodified list) succeeds whenever
// nothing blocks it, and otherwise the only entries that can be at
// fault are the immediate chronological neighbors at candidate's
// insertion point, whether the conflict is a plain interval overlap or
// a maneuver-time chaining failure.
func blockingOpportunities(cfg Config, existing []ScheduledOpportunity, candidate opportunity.Opportunity) []ScheduledOpportunity {
	if _, _, ok := insertIntoSchedule(cfg, existing, candidate); ok {
		return nil
	}

	candStartS := secondsSince(cfg.HorizonStart, candidate.Start)
	idx := sort.Search(len(existing), func(i int) bool {
		return secondsSince(cfg.HorizonStart, existing[i].Start) >= candStartS
	})

	var blocking []ScheduledOpportunity
	if idx > 0 {
		blocking = append(blocking, existing[idx-1])
	}
	if idx < len(existing) {
		blocking = append(blocking, existing[idx])
	}
	return blocking
}

// withoutBlocking copies opps, excluding any whose Opportunity.ID
// matches an entry in blocking.
func withoutBlocking(opps []ScheduledOpportunity, blocking []ScheduledOpportunity) []ScheduledOpportunity {
	if len(blocking) == 0 {
		out := make([]ScheduledOpportunity, len(opps))
		copy(out, opps)
		return out
	}

	blockedIDs := make(map[string]bool, len(blocking))
	for _, b := range blocking {
		blockedIDs[b.ID] = true
	}

	out := make([]ScheduledOpportunity, 0, len(opps))
	for _, o := range opps {
		if !blockedIDs[o.ID] {
			out = append(out, o)
		}
	}
	return out
}

// insertIntoSchedule attempts to place candidate into satOpps (sorted
// by Start) without disturbing any other entry's position, checking
// feasibility against both its new predecessor and, if one follows, its
// new successor. Returns the realized placement and the full updated
// slice on success.
func insertIntoSchedule(cfg Config, satOpps []ScheduledOpportunity, candidate opportunity.Opportunity) (ScheduledOpportunity, []ScheduledOpportunity, bool) {
	candStartS := secondsSince(cfg.HorizonStart, candidate.Start)
	idx := sort.Search(len(satOpps), func(i int) bool {
		return secondsSince(cfg.HorizonStart, satOpps[i].Start) >= candStartS
	})

	prev := cfg.nadirReference()
	if idx > 0 {
		p := satOpps[idx-1]
		prev.RollDeg = p.RollAngleDeg
		prev.PitchDeg = p.PitchAngleDeg
		prev.EndS = secondsSince(cfg.HorizonStart, p.End)
	}

	placed, placedAttitude, ok := tryPlace(cfg, prev, candidate)
	if !ok {
		return ScheduledOpportunity{}, nil, false
	}

	if idx < len(satOpps) {
		next := satOpps[idx]
		nextCand := cfg.toCandidate(next.Opportunity)
		if _, ok := cfg.Kernel.Evaluate(placedAttitude, nextCand, cfg.MaxSpacecraftRollDeg, cfg.MaxSpacecraftPitchDeg, cfg.AllowableWindowSlipS); !ok {
			return ScheduledOpportunity{}, nil, false
		}
	}

	out := make([]ScheduledOpportunity, 0, len(satOpps)+1)
	out = append(out, satOpps[:idx]...)
	out = append(out, placed)
	out = append(out, satOpps[idx:]...)
	return placed, out, true
}

// findAlternative looks for a satellite other than excludeSatellite
// that has a candidate opportunity for blocked's target and can
// absorb it without displacing anything else.
func findAlternative(cfg Config, trial Schedule, allCandidates map[string][]opportunity.Opportunity, blocked ScheduledOpportunity, excludeSatellite string) (relocatedOpportunity, []ScheduledOpportunity, bool) {
	for _, satelliteID := range sortedSatelliteIDs(allCandidates) {
		if satelliteID == excludeSatellite {
			continue
		}
		cand := bestCandidateForTarget(allCandidates[satelliteID], blocked.TargetID)
		if cand == nil {
			continue
		}
		placed, newOpps, ok := insertIntoSchedule(cfg, trial[satelliteID], *cand)
		if !ok {
			continue
		}
		return relocatedOpportunity{original: blocked, newSatellite: satelliteID, placed: placed}, newOpps, true
	}
	return relocatedOpportunity{}, nil, false
}

func sortedSatelliteIDs(m map[string][]opportunity.Opportunity) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func bestCandidateForTarget(opps []opportunity.Opportunity, targetID string) *opportunity.Opportunity {
	var best *opportunity.Opportunity
	for i, o := range opps {
		if o.TargetID != targetID {
			continue
		}
		if best == nil || o.Value > best.Value {
			best = &opps[i]
		}
	}
	return best
}

func sumValues(opps []ScheduledOpportunity) float64 {
	total := 0.0
	for _, o := range opps {
		total += o.Value
	}
	return total
}

func sumRelocatedValues(relocations []relocatedOpportunity) float64 {
	total := 0.0
	for _, r := range relocations {
		total += r.placed.Value
	}
	return total
}
