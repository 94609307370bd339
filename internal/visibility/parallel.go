package visibility

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eoplan/missionplanner/internal/propagation"
	"github.com/eoplan/missionplanner/internal/target"
)

// Pair identifies one (satellite, target) search unit.
type Pair struct {
	SatelliteID string
	Target      target.GroundTarget
}

// Result is one pair's search outcome.
type Result struct {
	Pair  Pair
	Passes []Pass
}

// SearchAll runs Search for every pair in parallel over a worker pool
// sized to min(GOMAXPROCS, len(pairs)), per the engine's parallelism
// policy, and merges results keyed by target id. Each pair's search
// shares the single request-scoped cache and sun provider; cancellation
// is checked at every pair boundary via the errgroup's context.
func SearchAll(ctx context.Context, cache *propagation.Cache, sun propagation.SunPositionProvider, pairs []Pair, start, end time.Time, opts Options) (map[string][]Pass, error) {
	results := make([]Result, len(pairs))

	poolSize := runtime.GOMAXPROCS(0)
	if poolSize > len(pairs) {
		poolSize = len(pairs)
	}
	if poolSize < 1 {
		poolSize = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(poolSize)

	for i, pair := range pairs {
		i, pair := i, pair
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			passes, err := Search(groupCtx, cache, sun, pair.SatelliteID, pair.Target, start, end, opts)
			if err != nil {
				return err
			}
			results[i] = Result{Pair: pair, Passes: passes}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	byTarget := make(map[string][]Pass)
	for _, r := range results {
		byTarget[r.Pair.Target.ID] = append(byTarget[r.Pair.Target.ID], r.Passes...)
	}
	return byTarget, nil
}
