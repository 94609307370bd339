package scheduler

import (
	"time"

	"github.com/google/uuid"
)

// Metrics reports per-strategy run statistics, per the scheduler's
// reporting contract.
type Metrics struct {
	RunID    string
	Strategy Strategy

	OpportunitiesEvaluated int
	OpportunitiesAccepted  int
	OpportunitiesRejected  int

	MeanIncidenceDeg float64
	MaxIncidenceDeg  float64

	TotalValue        float64
	TotalManeuverTimeS float64
	TotalSlackTimeS   float64

	CoveragePercent float64

	WallClockRuntime time.Duration
}

// newMetrics seeds a Metrics record with a fresh run id.
func newMetrics(strategy Strategy) *Metrics {
	return &Metrics{RunID: uuid.NewString(), Strategy: strategy}
}

// RecomputeFromSchedule refreshes the value/coverage/incidence fields
// that can change after constellation conflict resolution and swap
// repair mutate the schedule post-run; accept/reject counts and wall-
// clock runtime reflect the original single-satellite run and are left
// untouched.
func (m *Metrics) RecomputeFromSchedule(schedule Schedule, totalTargets int) {
	incidenceSum := 0.0
	maxIncidence := 0.0
	n := 0
	for _, opps := range schedule {
		for _, so := range opps {
			incidenceSum += so.IncidenceAngleDeg
			if so.IncidenceAngleDeg > maxIncidence {
				maxIncidence = so.IncidenceAngleDeg
			}
			n++
		}
	}
	if n > 0 {
		m.MeanIncidenceDeg = incidenceSum / float64(n)
	}
	m.MaxIncidenceDeg = maxIncidence
	m.TotalValue = schedule.TotalValue()
	if totalTargets > 0 {
		m.CoveragePercent = 100 * float64(len(schedule.TargetIDs())) / float64(totalTargets)
	}
}

// finalize computes derived fields (mean incidence, coverage percent)
// once accept/reject counting is complete. totalTargets is the number
// of distinct targets with at least one candidate opportunity anywhere
// in the request, used as the coverage denominator.
func (m *Metrics) finalize(schedule Schedule, totalTargets int, incidenceSum float64, start time.Time) {
	if m.OpportunitiesAccepted > 0 {
		m.MeanIncidenceDeg = incidenceSum / float64(m.OpportunitiesAccepted)
	}
	m.TotalValue = schedule.TotalValue()
	if totalTargets > 0 {
		m.CoveragePercent = 100 * float64(len(schedule.TargetIDs())) / float64(totalTargets)
	}
	m.WallClockRuntime = time.Since(start)
}
