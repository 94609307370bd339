package request

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/eoplan/missionplanner/internal/feasibility"
	"github.com/eoplan/missionplanner/internal/obslog"
	"github.com/eoplan/missionplanner/internal/opportunity"
	"github.com/eoplan/missionplanner/internal/propagation"
	"github.com/eoplan/missionplanner/internal/scheduler"
	"github.com/eoplan/missionplanner/internal/target"
	"github.com/eoplan/missionplanner/internal/visibility"
)

// buildKernel constructs the feasibility.Kernel implied by Params'
// roll/pitch rate and acceleration limits. Shared by Validate (to
// surface a misconfigured kernel as InvalidInput before any other work
// starts) and Plan (to actually run the scheduler).
func (p Params) buildKernel() (feasibility.Kernel, error) {
	roll := feasibility.Limits{
		MaxAngleDeg:  p.MaxSpacecraftRollDeg,
		MaxRateDps:   p.MaxRollRateDps,
		MaxAccelDps2: p.MaxRollAccelDps2,
	}
	pitch := feasibility.Limits{
		MaxAngleDeg:  p.MaxSpacecraftPitchDeg,
		MaxRateDps:   p.MaxPitchRateDps,
		MaxAccelDps2: p.MaxPitchAccelDps2,
	}
	return feasibility.NewKernel(roll, pitch, p.SettlingTimeS)
}

func (p Params) qualityModelFor(mode target.MissionMode) (opportunity.QualityModel, error) {
	if p.QualityModel == "" {
		return opportunity.DefaultQualityModelFor(mode), nil
	}
	return opportunity.ParseQualityModel(p.QualityModel)
}

func (p Params) visibilityOptions() visibility.Options {
	opts := visibility.DefaultOptions()
	if p.VisibilityMode == "adaptive" {
		opts.Mode = visibility.Adaptive
	}
	return opts
}

// Plan is the planning core's sole entry point: it wires propagation,
// visibility search, opportunity generation, and scheduling into one
// pure function call, producing a PlanningResponse with one
// StrategyResult per requested strategy. sun supplies the subsolar
// point used by OPTICAL targets' sun-elevation gate; logger receives
// per-stage progress. A nil logger is replaced with a discarding one.
func Plan(ctx context.Context, req PlanningRequest, sun propagation.SunPositionProvider, logger *obslog.Logger) (PlanningResponse, error) {
	if logger == nil {
		logger = obslog.Discard()
	}
	if err := req.Validate(); err != nil {
		return PlanningResponse{}, err
	}

	if req.Params.BudgetSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.Params.BudgetSeconds*float64(time.Second)))
		defer cancel()
	}

	propagator := propagation.NewSGP4Propagator()
	for _, s := range req.Satellites {
		elements, err := propagation.ParseTLE(s.TLELine1, s.TLELine2)
		if err != nil {
			return PlanningResponse{}, fmt.Errorf("%w: satellite %s: %v", ErrInvalidInput, s.SatelliteID, err)
		}
		propagator.AddSatellite(s.SatelliteID, elements)
	}
	cache := propagation.NewCache(propagator)

	targets := make([]target.GroundTarget, 0, len(req.Targets))
	for _, ts := range req.Targets {
		tgt, err := ts.toGroundTarget()
		if err != nil {
			return PlanningResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		targets = append(targets, tgt)
	}

	if len(targets) == 0 {
		return emptyResponse(req), nil
	}

	pairs := make([]visibility.Pair, 0, len(req.Satellites)*len(targets))
	for _, s := range req.Satellites {
		for _, tgt := range targets {
			pairs = append(pairs, visibility.Pair{SatelliteID: s.SatelliteID, Target: tgt})
		}
	}

	logger.Info("searching visibility windows: %d satellites, %d targets", len(req.Satellites), len(targets))
	passesByTarget, err := visibility.SearchAll(ctx, cache, sun, pairs, req.HorizonStart, req.HorizonEnd, req.Params.visibilityOptions())
	if err != nil {
		if ctx.Err() != nil {
			return PlanningResponse{}, fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		return PlanningResponse{}, err
	}

	targetsByID := make(map[string]target.GroundTarget, len(targets))
	for _, tgt := range targets {
		targetsByID[tgt.ID] = tgt
	}

	strategies := make([]scheduler.Strategy, 0, len(req.Strategies))
	needRollOnly, needRollPitch := false, false
	for _, tag := range req.Strategies {
		strat, err := scheduler.ParseStrategy(tag)
		if err != nil {
			return PlanningResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		strategies = append(strategies, strat)
		if strat == scheduler.RollPitchFirstFit || strat == scheduler.RollPitchBestFit {
			needRollPitch = true
		} else {
			needRollOnly = true
		}
	}

	bySatelliteRollOnly := make(map[string][]opportunity.Opportunity)
	bySatelliteRollPitch := make(map[string][]opportunity.Opportunity)
	totalTargetsWithOpportunity := make(map[string]struct{})

	for targetID, passes := range passesByTarget {
		tgt := targetsByID[targetID]
		sort.Slice(passes, func(i, j int) bool { return passes[i].Start.Before(passes[j].Start) })

		if needRollOnly {
			model, err := req.Params.qualityModelFor(tgt.MissionMode)
			if err != nil {
				return PlanningResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			params := opportunity.Params{
				Mode:                  opportunity.RollOnly,
				ImagingTimeS:          req.Params.ImagingTimeS,
				MaxSpacecraftPitchDeg: req.Params.MaxSpacecraftPitchDeg,
				QualityModel:          model,
				QualityWeight:         req.Params.QualityWeight,
			}
			for i, pass := range passes {
				opps, err := opportunity.Generate(cache, tgt, pass, i, params)
				if err != nil {
					return PlanningResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
				}
				for _, o := range opps {
					bySatelliteRollOnly[o.SatelliteID] = append(bySatelliteRollOnly[o.SatelliteID], o)
					totalTargetsWithOpportunity[o.TargetID] = struct{}{}
				}
			}
		}

		if needRollPitch {
			model, err := req.Params.qualityModelFor(tgt.MissionMode)
			if err != nil {
				return PlanningResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			params := opportunity.Params{
				Mode:                  opportunity.RollPitch,
				ImagingTimeS:          req.Params.ImagingTimeS,
				MaxSpacecraftPitchDeg: req.Params.MaxSpacecraftPitchDeg,
				QualityModel:          model,
				QualityWeight:         req.Params.QualityWeight,
			}
			for i, pass := range passes {
				opps, err := opportunity.Generate(cache, tgt, pass, i, params)
				if err != nil {
					return PlanningResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
				}
				for _, o := range opps {
					bySatelliteRollPitch[o.SatelliteID] = append(bySatelliteRollPitch[o.SatelliteID], o)
					totalTargetsWithOpportunity[o.TargetID] = struct{}{}
				}
			}
		}
	}

	kernel, err := req.Params.buildKernel()
	if err != nil {
		return PlanningResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	cfg := scheduler.Config{
		Kernel:                kernel,
		MaxSpacecraftRollDeg:  req.Params.MaxSpacecraftRollDeg,
		MaxSpacecraftPitchDeg: req.Params.MaxSpacecraftPitchDeg,
		HorizonStart:          req.HorizonStart,
		AllowableWindowSlipS:  req.Params.AllowableWindowSlipS,
	}

	policy, err := scheduler.ParseResolutionPolicy(req.Params.ConflictResolutionPolicy)
	if err != nil {
		return PlanningResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	totalTargets := len(totalTargetsWithOpportunity)

	results := make([]StrategyResult, 0, len(strategies))
	for _, strat := range strategies {
		if err := ctx.Err(); err != nil {
			return PlanningResponse{}, fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		bySatellite := bySatelliteRollOnly
		if strat == scheduler.RollPitchFirstFit || strat == scheduler.RollPitchBestFit {
			bySatellite = bySatelliteRollPitch
		}

		logger.Debug("running strategy %s over %d satellites", strat, len(bySatellite))
		schedule, metrics, err := scheduler.RunStrategy(ctx, strat, cfg, bySatellite, totalTargets)
		if err != nil {
			return PlanningResponse{}, fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		resolved, displaced := scheduler.ResolveSingleton(schedule, policy)
		repaired := scheduler.SwapRepair(cfg, resolved, bySatellite)
		metrics.RecomputeFromSchedule(repaired, totalTargets)

		results = append(results, StrategyResult{
			Strategy:  strat.String(),
			Schedule:  scheduleToView(repaired),
			Displaced: displacedToView(displaced),
			Metrics:   metricsToView(metrics),
		})
	}

	return PlanningResponse{Results: results}, nil
}

// emptyResponse handles the degenerate empty-targets request: per
// spec.md's S5 scenario, this is not an error, just an empty schedule
// for every requested strategy.
func emptyResponse(req PlanningRequest) PlanningResponse {
	results := make([]StrategyResult, 0, len(req.Strategies))
	for _, tag := range req.Strategies {
		strat, err := scheduler.ParseStrategy(tag)
		if err != nil {
			continue
		}
		results = append(results, StrategyResult{
			Strategy: strat.String(),
			Schedule: map[string][]ScheduledOpportunityView{},
			Metrics:  MetricsView{Strategy: strat.String()},
		})
	}
	return PlanningResponse{Results: results}
}

func scheduledOpportunityToView(so scheduler.ScheduledOpportunity) ScheduledOpportunityView {
	return ScheduledOpportunityView{
		ID:                so.ID,
		SatelliteID:       so.SatelliteID,
		TargetID:          so.TargetID,
		Start:             so.Start,
		End:               so.End,
		Value:             so.Value,
		Priority:          so.Priority,
		IncidenceAngleDeg: so.IncidenceAngleDeg,
		RollAngleDeg:      so.AbsRollDeg,
		PitchAngleDeg:     so.AbsPitchDeg,
		DeltaRollDeg:      so.DeltaRollDeg,
		DeltaPitchDeg:     so.DeltaPitchDeg,
		ManeuverTimeS:     so.ManeuverTimeS,
		SlackTimeS:        so.SlackTimeS,
	}
}

func scheduleToView(schedule scheduler.Schedule) map[string][]ScheduledOpportunityView {
	out := make(map[string][]ScheduledOpportunityView, len(schedule))
	for satelliteID, opps := range schedule {
		views := make([]ScheduledOpportunityView, 0, len(opps))
		for _, so := range opps {
			views = append(views, scheduledOpportunityToView(so))
		}
		out[satelliteID] = views
	}
	return out
}

func displacedToView(displaced []scheduler.Displaced) []DisplacedView {
	if len(displaced) == 0 {
		return nil
	}
	views := make([]DisplacedView, 0, len(displaced))
	for _, d := range displaced {
		views = append(views, DisplacedView{
			ScheduledOpportunityView: scheduledOpportunityToView(d.ScheduledOpportunity),
			Reason:                   d.Reason,
		})
	}
	return views
}

func metricsToView(m *scheduler.Metrics) MetricsView {
	return MetricsView{
		RunID:                  m.RunID,
		Strategy:               m.Strategy.String(),
		OpportunitiesEvaluated: m.OpportunitiesEvaluated,
		OpportunitiesAccepted:  m.OpportunitiesAccepted,
		OpportunitiesRejected:  m.OpportunitiesRejected,
		MeanIncidenceDeg:       m.MeanIncidenceDeg,
		MaxIncidenceDeg:        m.MaxIncidenceDeg,
		TotalValue:             m.TotalValue,
		TotalManeuverTimeS:     m.TotalManeuverTimeS,
		TotalSlackTimeS:        m.TotalSlackTimeS,
		CoveragePercent:        m.CoveragePercent,
		WallClockRuntimeS:      m.WallClockRuntime.Seconds(),
	}
}
