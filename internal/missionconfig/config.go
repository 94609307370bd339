// Package missionconfig loads a YAML mission file into an
// internal/request.PlanningRequest, the single config format
// cmd/missionplan accepts. Grounded on the teacher's layered defaults
// (state.DefaultConfig overridden by flags) generalized to a YAML
// document overridden by CLI flags.
package missionconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/eoplan/missionplanner/internal/request"
)

// ErrInvalidConfig wraps a mission file that cannot be used: an
// unreadable file, a YAML syntax error, or a missing or unparseable
// horizon timestamp. Other fields are not checked here.
var ErrInvalidConfig = fmt.Errorf("missionconfig: invalid mission file")

// satelliteDoc/targetDoc/paramsDoc/missionDoc mirror request's wire
// types field-for-field but with YAML tags and string timestamps, per
// the YAML document's flatter, less strict surface than the JSON wire
// contract.
type satelliteDoc struct {
	SatelliteID string `yaml:"satellite_id"`
	TLELine1    string `yaml:"tle_line1"`
	TLELine2    string `yaml:"tle_line2"`
}

type targetDoc struct {
	ID                    string  `yaml:"id"`
	LatDeg                float64 `yaml:"latitude"`
	LonDeg                float64 `yaml:"longitude"`
	AltitudeM             float64 `yaml:"altitude_m"`
	Priority              int     `yaml:"priority"`
	MissionMode           string  `yaml:"mission_mode"`
	SensorFOVHalfAngleDeg float64 `yaml:"sensor_fov_half_angle_deg"`
	MaxSpacecraftRollDeg  float64 `yaml:"max_spacecraft_roll_deg"`
	ElevationMaskDeg      float64 `yaml:"elevation_mask_deg"`
	MinSunElevationDeg    float64 `yaml:"min_sun_elevation_deg"`
}

type paramsDoc struct {
	ImagingTimeS             float64 `yaml:"imaging_time_s"`
	MaxSpacecraftRollDeg     float64 `yaml:"max_spacecraft_roll_deg"`
	MaxRollRateDps           float64 `yaml:"max_roll_rate_dps"`
	MaxRollAccelDps2         float64 `yaml:"max_roll_accel_dps2"`
	MaxSpacecraftPitchDeg    float64 `yaml:"max_spacecraft_pitch_deg"`
	MaxPitchRateDps          float64 `yaml:"max_pitch_rate_dps"`
	MaxPitchAccelDps2        float64 `yaml:"max_pitch_accel_dps2"`
	QualityModel             string  `yaml:"quality_model"`
	QualityWeight            float64 `yaml:"quality_weight"`
	SettlingTimeS            float64 `yaml:"settling_time_s"`
	AllowableWindowSlipS     float64 `yaml:"allowable_window_slip_s"`
	VisibilityMode           string  `yaml:"visibility_mode"`
	ConflictResolutionPolicy string  `yaml:"conflict_resolution_policy"`
	BudgetSeconds            float64 `yaml:"budget_seconds"`
}

// missionDoc is the mission file's top-level shape.
type missionDoc struct {
	Satellites   []satelliteDoc `yaml:"satellites"`
	Targets      []targetDoc    `yaml:"targets"`
	HorizonStart string         `yaml:"horizon_start"`
	HorizonEnd   string         `yaml:"horizon_end"`
	Params       paramsDoc      `yaml:"params"`
	Strategies   []string       `yaml:"strategies"`
}

// Load reads and parses a mission file at path into a PlanningRequest.
// It does not call PlanningRequest.Validate itself; callers (cmd/
// missionplan) validate after any flag overrides are applied.
func Load(path string) (request.PlanningRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return request.PlanningRequest{}, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
	}

	var doc missionDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return request.PlanningRequest{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}

	return doc.toPlanningRequest()
}

func (doc missionDoc) toPlanningRequest() (request.PlanningRequest, error) {
	start, err := time.Parse(time.RFC3339, doc.HorizonStart)
	if err != nil {
		return request.PlanningRequest{}, fmt.Errorf("%w: horizon_start: %v", ErrInvalidConfig, err)
	}
	end, err := time.Parse(time.RFC3339, doc.HorizonEnd)
	if err != nil {
		return request.PlanningRequest{}, fmt.Errorf("%w: horizon_end: %v", ErrInvalidConfig, err)
	}

	satellites := make([]request.OrbitalElementsSpec, 0, len(doc.Satellites))
	for _, s := range doc.Satellites {
		satellites = append(satellites, request.OrbitalElementsSpec{
			SatelliteID: s.SatelliteID,
			TLELine1:    s.TLELine1,
			TLELine2:    s.TLELine2,
		})
	}

	targets := make([]request.GroundTargetSpec, 0, len(doc.Targets))
	for _, t := range doc.Targets {
		targets = append(targets, request.GroundTargetSpec{
			ID:                    t.ID,
			LatDeg:                t.LatDeg,
			LonDeg:                t.LonDeg,
			AltitudeM:             t.AltitudeM,
			Priority:              t.Priority,
			MissionMode:           t.MissionMode,
			SensorFOVHalfAngleDeg: t.SensorFOVHalfAngleDeg,
			MaxSpacecraftRollDeg:  t.MaxSpacecraftRollDeg,
			ElevationMaskDeg:      t.ElevationMaskDeg,
			MinSunElevationDeg:    t.MinSunElevationDeg,
		})
	}

	return request.PlanningRequest{
		Satellites:   satellites,
		Targets:      targets,
		HorizonStart: start,
		HorizonEnd:   end,
		Params: request.Params{
			ImagingTimeS:             doc.Params.ImagingTimeS,
			MaxSpacecraftRollDeg:     doc.Params.MaxSpacecraftRollDeg,
			MaxRollRateDps:           doc.Params.MaxRollRateDps,
			MaxRollAccelDps2:         doc.Params.MaxRollAccelDps2,
			MaxSpacecraftPitchDeg:    doc.Params.MaxSpacecraftPitchDeg,
			MaxPitchRateDps:          doc.Params.MaxPitchRateDps,
			MaxPitchAccelDps2:        doc.Params.MaxPitchAccelDps2,
			QualityModel:             doc.Params.QualityModel,
			QualityWeight:            doc.Params.QualityWeight,
			SettlingTimeS:            doc.Params.SettlingTimeS,
			AllowableWindowSlipS:     doc.Params.AllowableWindowSlipS,
			VisibilityMode:           doc.Params.VisibilityMode,
			ConflictResolutionPolicy: doc.Params.ConflictResolutionPolicy,
			BudgetSeconds:            doc.Params.BudgetSeconds,
		},
		Strategies: doc.Strategies,
	}, nil
}
