package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/eoplan/missionplanner/internal/opportunity"
)

// RunStrategy runs one Strategy's single-satellite placement
// independently per satellite (the scheduler itself is single-threaded
// per request; the dominant cost already sits in the visibility
// engine), then returns the per-satellite Schedule and aggregate
// Metrics. totalTargets is the number of distinct targets with at least
// one candidate opportunity anywhere in the request, for the coverage
// percentage.
func RunStrategy(ctx context.Context, strategy Strategy, cfg Config, bySatellite map[string][]opportunity.Opportunity, totalTargets int) (Schedule, *Metrics, error) {
	start := time.Now()
	metrics := newMetrics(strategy)
	schedule := make(Schedule)

	satelliteIDs := make([]string, 0, len(bySatellite))
	for id := range bySatellite {
		satelliteIDs = append(satelliteIDs, id)
	}
	sort.Strings(satelliteIDs) // deterministic iteration order

	incidenceSum := 0.0
	maxIncidence := 0.0

	for _, satelliteID := range satelliteIDs {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		opps := bySatellite[satelliteID]
		metrics.OpportunitiesEvaluated += len(opps)

		var scheduled []ScheduledOpportunity
		var accepted, rejected int
		var err error

		switch strategy.baseStrategy() {
		case BestFit:
			scheduled, accepted, rejected, err = runBestFit(ctx, cfg, opps)
		case ValueDensity:
			scheduled, accepted, rejected, err = runValueDensity(ctx, cfg, opps)
		default:
			scheduled, accepted, rejected, err = runFirstFit(ctx, cfg, opps)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		metrics.OpportunitiesAccepted += accepted
		metrics.OpportunitiesRejected += rejected
		for _, so := range scheduled {
			incidenceSum += so.IncidenceAngleDeg
			if so.IncidenceAngleDeg > maxIncidence {
				maxIncidence = so.IncidenceAngleDeg
			}
			metrics.TotalManeuverTimeS += so.ManeuverTimeS
			metrics.TotalSlackTimeS += so.SlackTimeS
		}

		if len(scheduled) > 0 {
			schedule[satelliteID] = scheduled
		}
	}

	metrics.MaxIncidenceDeg = maxIncidence
	metrics.finalize(schedule, totalTargets, incidenceSum, start)

	return schedule, metrics, nil
}
