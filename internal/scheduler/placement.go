package scheduler

import (
	"sort"
	"time"

	"github.com/eoplan/missionplanner/internal/feasibility"
	"github.com/eoplan/missionplanner/internal/opportunity"
)

// Config bundles the parameters every strategy needs to evaluate
// placements: the shared feasibility kernel, attitude limits, and the
// horizon start used as the nadir-pointing reference instant.
type Config struct {
	Kernel feasibility.Kernel

	MaxSpacecraftRollDeg  float64
	MaxSpacecraftPitchDeg float64

	HorizonStart time.Time

	// AllowableWindowSlipS lets a strategy advance a candidate's
	// effective start to accommodate maneuver time. 0 unless a
	// strategy explicitly permits window shifting.
	AllowableWindowSlipS float64
}

func (c Config) toCandidate(o opportunity.Opportunity) feasibility.Candidate {
	return feasibility.Candidate{
		RollDeg:  o.RollAngleDeg,
		PitchDeg: o.PitchAngleDeg,
		StartS:   secondsSince(c.HorizonStart, o.Start),
		EndS:     secondsSince(c.HorizonStart, o.End),
	}
}

func (c Config) nadirReference() feasibility.Attitude {
	return feasibility.NadirReference(0)
}

// tryPlace evaluates candidate o against prev under cfg, returning the
// realized ScheduledOpportunity and the Attitude to use as the next
// predecessor on acceptance.
func tryPlace(cfg Config, prev feasibility.Attitude, o opportunity.Opportunity) (ScheduledOpportunity, feasibility.Attitude, bool) {
	cand := cfg.toCandidate(o)
	placement, ok := cfg.Kernel.Evaluate(prev, cand, cfg.MaxSpacecraftRollDeg, cfg.MaxSpacecraftPitchDeg, cfg.AllowableWindowSlipS)
	if !ok {
		return ScheduledOpportunity{}, feasibility.Attitude{}, false
	}

	scheduled := ScheduledOpportunity{
		Opportunity:   o,
		DeltaRollDeg:  placement.DeltaRollDeg,
		DeltaPitchDeg: placement.DeltaPitchDeg,
		ManeuverTimeS: placement.ManeuverTimeS,
		SlackTimeS:    placement.SlackTimeS,
		AbsRollDeg:    placement.AbsRollDeg,
		AbsPitchDeg:   placement.AbsPitchDeg,
	}

	nextAttitude := feasibility.Attitude{
		RollDeg:  o.RollAngleDeg,
		PitchDeg: o.PitchAngleDeg,
		EndS:     cand.EndS,
	}

	return scheduled, nextAttitude, true
}

// stableSortByStart sorts opportunities by Start ascending, breaking
// ties by (value descending, target_id), per first-fit's ordering rule.
func stableSortByStart(opps []opportunity.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		if !opps[i].Start.Equal(opps[j].Start) {
			return opps[i].Start.Before(opps[j].Start)
		}
		if opps[i].Value != opps[j].Value {
			return opps[i].Value > opps[j].Value
		}
		return opps[i].TargetID < opps[j].TargetID
	})
}
