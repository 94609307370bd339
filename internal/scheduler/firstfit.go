package scheduler

import (
	"context"

	"github.com/eoplan/missionplanner/internal/opportunity"
)

// runFirstFit sorts by start ascending (ties: value desc, target_id)
// and walks the list, accepting each opportunity that is feasible
// against the last accepted one.
func runFirstFit(ctx context.Context, cfg Config, opps []opportunity.Opportunity) ([]ScheduledOpportunity, int, int, error) {
	sorted := make([]opportunity.Opportunity, len(opps))
	copy(sorted, opps)
	stableSortByStart(sorted)

	var scheduled []ScheduledOpportunity
	prev := cfg.nadirReference()
	accepted, rejected := 0, 0

	for _, o := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, 0, 0, err
		}
		so, next, ok := tryPlace(cfg, prev, o)
		if !ok {
			rejected++
			continue
		}
		scheduled = append(scheduled, so)
		prev = next
		accepted++
	}

	return scheduled, accepted, rejected, nil
}
