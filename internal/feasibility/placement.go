package feasibility

import "fmt"

// Attitude is a realized roll/pitch pointing state, used both for a
// scheduled predecessor and for the nadir-pointing reference assumed
// before the first task on a satellite.
type Attitude struct {
	RollDeg  float64
	PitchDeg float64
	EndS     float64 // seconds since epoch; predecessor's occupancy end
}

// NadirReference is the zero-attitude, zero-duration predecessor
// assumed before a satellite's first scheduled task.
func NadirReference(horizonStartS float64) Attitude {
	return Attitude{RollDeg: 0, PitchDeg: 0, EndS: horizonStartS}
}

// Candidate is the placement-evaluation view of an opportunity: its
// realized attitude and timing, independent of the opportunity package
// to keep the kernel free of a dependency on the scheduler's data model.
type Candidate struct {
	RollDeg  float64
	PitchDeg float64
	StartS   float64
	EndS     float64
}

// Placement is the kernel's output on an accepted candidate.
type Placement struct {
	DeltaRollDeg   float64
	DeltaPitchDeg  float64
	ManeuverTimeS  float64
	SlackTimeS     float64
	AbsRollDeg     float64
	AbsPitchDeg    float64
}

// Evaluate runs the feasibility test from a previous Attitude to a
// candidate opportunity, with allowableWindowSlipS governing how far a
// strategy may advance the candidate's start to accommodate maneuver
// time (0 unless the strategy explicitly permits window shifting).
func (k Kernel) Evaluate(prev Attitude, cand Candidate, maxRollDeg, maxPitchDeg, allowableWindowSlipS float64) (Placement, bool) {
	if absF(cand.RollDeg) > maxRollDeg || absF(cand.PitchDeg) > maxPitchDeg {
		return Placement{}, false
	}

	deltaRoll := cand.RollDeg - prev.RollDeg
	deltaPitch := cand.PitchDeg - prev.PitchDeg
	maneuverS := k.ManeuverTimeSeconds(deltaRoll, deltaPitch)

	earliestStart := prev.EndS + MinGapSeconds + maneuverS

	if earliestStart > cand.StartS+allowableWindowSlipS {
		return Placement{}, false
	}

	slack := cand.StartS - earliestStart
	if slack < 0 {
		slack = 0
	}

	return Placement{
		DeltaRollDeg:  deltaRoll,
		DeltaPitchDeg: deltaPitch,
		ManeuverTimeS: maneuverS,
		SlackTimeS:    slack,
		AbsRollDeg:    cand.RollDeg,
		AbsPitchDeg:   cand.PitchDeg,
	}, true
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// String renders a Placement for diagnostics/logging.
func (p Placement) String() string {
	return fmt.Sprintf("maneuver=%.2fs slack=%.2fs droll=%.2f dpitch=%.2f", p.ManeuverTimeS, p.SlackTimeS, p.DeltaRollDeg, p.DeltaPitchDeg)
}
