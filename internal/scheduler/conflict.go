package scheduler

import "fmt"

// ResolutionPolicy selects how the constellation singleton rule breaks
// a tie when multiple satellites have scheduled the same target.
type ResolutionPolicy int

const (
	// BestGeometry keeps the lowest incidence angle. Default.
	BestGeometry ResolutionPolicy = iota
	// FirstAvailable keeps the earliest Start.
	FirstAvailable
	// HighestValue keeps the greatest Value.
	HighestValue
)

// ParseResolutionPolicy parses the wire string form of a
// ResolutionPolicy. The empty string resolves to BestGeometry, the
// default policy.
func ParseResolutionPolicy(s string) (ResolutionPolicy, error) {
	switch s {
	case "", "best_geometry":
		return BestGeometry, nil
	case "first_available":
		return FirstAvailable, nil
	case "highest_value":
		return HighestValue, nil
	default:
		return 0, fmt.Errorf("%w: unknown conflict_resolution_policy %q", ErrSchedulerInvalidInput, s)
	}
}

type targetEntry struct {
	satelliteID string
	index       int
	so          ScheduledOpportunity
}

// ResolveSingleton enforces the constellation singleton rule: each
// target_id appears in at most one ScheduledOpportunity across the
// whole Schedule. Entries removed to satisfy the rule are returned as
// Displaced records with reason "singleton_conflict".
func ResolveSingleton(schedule Schedule, policy ResolutionPolicy) (Schedule, []Displaced) {
	byTarget := make(map[string][]targetEntry)
	for satelliteID, opps := range schedule {
		for i, so := range opps {
			byTarget[so.TargetID] = append(byTarget[so.TargetID], targetEntry{satelliteID: satelliteID, index: i, so: so})
		}
	}

	removed := make(map[string]map[int]bool) // satelliteID -> index -> removed
	var displaced []Displaced

	for _, entries := range byTarget {
		if len(entries) <= 1 {
			continue
		}
		winner := pickWinner(entries, policy)
		for _, e := range entries {
			if e.satelliteID == winner.satelliteID && e.index == winner.index {
				continue
			}
			if removed[e.satelliteID] == nil {
				removed[e.satelliteID] = make(map[int]bool)
			}
			removed[e.satelliteID][e.index] = true
			displaced = append(displaced, Displaced{ScheduledOpportunity: e.so, Reason: "singleton_conflict"})
		}
	}

	resolved := make(Schedule)
	for satelliteID, opps := range schedule {
		satRemoved := removed[satelliteID]
		var filtered []ScheduledOpportunity
		for i, so := range opps {
			if satRemoved != nil && satRemoved[i] {
				continue
			}
			filtered = append(filtered, so)
		}
		if len(filtered) > 0 {
			resolved[satelliteID] = filtered
		}
	}

	return resolved, displaced
}

func pickWinner(entries []targetEntry, policy ResolutionPolicy) targetEntry {
	best := entries[0]
	for _, e := range entries[1:] {
		if betterEntry(e, best, policy) {
			best = e
		}
	}
	return best
}

func betterEntry(a, b targetEntry, policy ResolutionPolicy) bool {
	switch policy {
	case FirstAvailable:
		return a.so.Start.Before(b.so.Start)
	case HighestValue:
		return a.so.Value > b.so.Value
	default: // BestGeometry
		return a.so.IncidenceAngleDeg < b.so.IncidenceAngleDeg
	}
}
