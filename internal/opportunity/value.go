package opportunity

import (
	"fmt"
	"math"

	"github.com/eoplan/missionplanner/internal/target"
)

// qualityScore maps an incidence angle to a [0,1]-ish quality score
// according to the selected model.
func qualityScore(incidenceDeg float64, mode target.MissionMode, model QualityModel, params Params) float64 {
	switch model {
	case QualityOff:
		return 1
	case QualityBanded:
		z := (incidenceDeg - params.IdealIncidenceDeg) / params.BandWidthDeg
		return math.Exp(-z * z)
	case QualityMonotonic, QualityAdditive:
		return math.Exp(-0.03 * incidenceDeg)
	default:
		return 1
	}
}

// assignValue computes the blended value of an opportunity given its
// incidence angle and the target's priority, using the configured
// quality model and weight. The standard formula is
// priority*(1-weight) + quality*weight*priority_scale; QualityOff
// returns the priority unchanged; QualityAdditive
// exposes the alternate priority+quality*weight form some source
// modules used instead, per the spec's value-formula Open Question.
func assignValue(tgt target.GroundTarget, incidenceDeg float64, params Params) float64 {
	quality := qualityScore(incidenceDeg, tgt.MissionMode, params.QualityModel, params)
	priority := float64(tgt.Priority)

	if params.QualityModel == QualityOff {
		return priority
	}
	if params.QualityModel == QualityAdditive {
		return priority + quality*params.QualityWeight
	}
	return priority*(1-params.QualityWeight) + quality*params.QualityWeight*params.PriorityScale
}

// DefaultQualityModelFor returns the mission-mode default quality
// model: monotonic for OPTICAL, banded for SAR.
func DefaultQualityModelFor(mode target.MissionMode) QualityModel {
	if mode == target.SAR {
		return QualityBanded
	}
	return QualityMonotonic
}

// ParseQualityModel parses the wire string form of a QualityModel. The
// empty string is not itself a valid tag: callers that want the
// mission-mode default for an unset field should branch on "" before
// calling this and use DefaultQualityModelFor instead.
func ParseQualityModel(s string) (QualityModel, error) {
	switch s {
	case "off":
		return QualityOff, nil
	case "monotonic":
		return QualityMonotonic, nil
	case "banded":
		return QualityBanded, nil
	case "additive":
		return QualityAdditive, nil
	default:
		return 0, fmt.Errorf("%w: unknown quality_model %q", ErrOpportunityInvalidInput, s)
	}
}

// ParseGenerationMode parses the wire string form of a GenerationMode.
func ParseGenerationMode(s string) (GenerationMode, error) {
	switch s {
	case "", "roll_only":
		return RollOnly, nil
	case "roll_pitch":
		return RollPitch, nil
	default:
		return 0, fmt.Errorf("%w: unknown generation_mode %q", ErrOpportunityInvalidInput, s)
	}
}
