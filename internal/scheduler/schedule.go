package scheduler

import (
	"time"

	"github.com/eoplan/missionplanner/internal/opportunity"
)

// ScheduledOpportunity is an Opportunity placed on a satellite's
// timeline, plus the realized attitude transition from its predecessor
// (or from the nadir-pointing reference for the first task).
type ScheduledOpportunity struct {
	opportunity.Opportunity

	DeltaRollDeg   float64
	DeltaPitchDeg  float64
	ManeuverTimeS  float64
	SlackTimeS     float64
	AbsRollDeg     float64
	AbsPitchDeg    float64
}

// Schedule is an ordered sequence of ScheduledOpportunity values, one
// list per satellite, keyed by satellite_id. Within each satellite's
// list, Start times are strictly non-decreasing.
type Schedule map[string][]ScheduledOpportunity

// TargetIDs returns the set of target ids covered anywhere in the
// schedule.
func (s Schedule) TargetIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, opps := range s {
		for _, o := range opps {
			ids[o.TargetID] = struct{}{}
		}
	}
	return ids
}

// TotalValue sums Value across every scheduled opportunity.
func (s Schedule) TotalValue() float64 {
	total := 0.0
	for _, opps := range s {
		for _, o := range opps {
			total += o.Value
		}
	}
	return total
}

// Count returns the total number of scheduled opportunities across all
// satellites.
func (s Schedule) Count() int {
	n := 0
	for _, opps := range s {
		n += len(opps)
	}
	return n
}

// Displaced records a ScheduledOpportunity removed by constellation
// conflict resolution or swap repair, with the reason it was removed.
type Displaced struct {
	ScheduledOpportunity
	Reason string
}

// secondsSince grounds the float-second Candidate/Attitude arithmetic
// the feasibility kernel operates on; every opportunity's Start/End is
// converted to seconds since the horizon-start epoch.
func secondsSince(epoch time.Time, t time.Time) float64 {
	return t.Sub(epoch).Seconds()
}
