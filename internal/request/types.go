// Package request defines the planning core's wire-shaped inbound/
// outbound types and the Plan orchestrator that wires geometry,
// propagation, visibility, opportunity generation, and scheduling into
// one pure function call. Grounded on the teacher's cmd/ls-horizons/
// main.go validate-before-work style; JSON tags make the types a thin
// pass-through for a caller's own HTTP layer, which stays outside this
// module's scope.
package request

import "time"

// OrbitalElementsSpec identifies one constellation member by its TLE.
type OrbitalElementsSpec struct {
	SatelliteID string `json:"satellite_id"`
	TLELine1    string `json:"tle_line1"`
	TLELine2    string `json:"tle_line2"`
}

// GroundTargetSpec is the wire form of target.GroundTarget.
type GroundTargetSpec struct {
	ID                    string  `json:"id"`
	LatDeg                float64 `json:"latitude"`
	LonDeg                float64 `json:"longitude"`
	AltitudeM             float64 `json:"altitude_m"`
	Priority              int     `json:"priority"`
	MissionMode           string  `json:"mission_mode"`
	SensorFOVHalfAngleDeg float64 `json:"sensor_fov_half_angle_deg"`
	MaxSpacecraftRollDeg  float64 `json:"max_spacecraft_roll_deg"`
	ElevationMaskDeg      float64 `json:"elevation_mask_deg"`
	MinSunElevationDeg    float64 `json:"min_sun_elevation_deg,omitempty"`
}

// Params bundles the spacecraft capability limits and generation/value
// knobs shared by every satellite and strategy in the request, per
// spec.md §6's inbound params block.
type Params struct {
	ImagingTimeS float64 `json:"imaging_time_s"`

	MaxSpacecraftRollDeg  float64 `json:"max_spacecraft_roll_deg"`
	MaxRollRateDps        float64 `json:"max_roll_rate_dps"`
	MaxRollAccelDps2      float64 `json:"max_roll_accel_dps2"`
	MaxSpacecraftPitchDeg float64 `json:"max_spacecraft_pitch_deg"`
	MaxPitchRateDps       float64 `json:"max_pitch_rate_dps"`
	MaxPitchAccelDps2     float64 `json:"max_pitch_accel_dps2"`

	QualityModel  string  `json:"quality_model"` // off | monotonic | banded | additive
	QualityWeight float64 `json:"quality_weight"`

	SettlingTimeS        float64 `json:"settling_time_s,omitempty"`
	AllowableWindowSlipS float64 `json:"allowable_window_slip_s,omitempty"`

	VisibilityMode           string  `json:"visibility_mode,omitempty"`            // fixed_step | adaptive
	ConflictResolutionPolicy string  `json:"conflict_resolution_policy,omitempty"` // best_geometry | first_available | highest_value
	BudgetSeconds            float64 `json:"budget_seconds,omitempty"`
}

// PlanningRequest is the Plan orchestrator's sole input.
type PlanningRequest struct {
	Satellites []OrbitalElementsSpec `json:"satellites"`
	Targets    []GroundTargetSpec    `json:"targets"`

	HorizonStart time.Time `json:"horizon_start"`
	HorizonEnd   time.Time `json:"horizon_end"`

	Params Params `json:"params"`

	// Strategies lists the wire tags of every scheduler.Strategy to run
	// against this request, e.g. "first_fit", "roll_pitch_best_fit".
	Strategies []string `json:"strategies"`
}

// ScheduledOpportunityView is the outbound, flattened form of
// scheduler.ScheduledOpportunity.
type ScheduledOpportunityView struct {
	ID          string `json:"id"`
	SatelliteID string `json:"satellite_id"`
	TargetID    string `json:"target_id"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Value             float64 `json:"value"`
	Priority          int     `json:"priority"`
	IncidenceAngleDeg float64 `json:"incidence_angle_deg"`
	RollAngleDeg      float64 `json:"roll_angle_deg"`
	PitchAngleDeg     float64 `json:"pitch_angle_deg"`

	DeltaRollDeg  float64 `json:"delta_roll_deg"`
	DeltaPitchDeg float64 `json:"delta_pitch_deg"`
	ManeuverTimeS float64 `json:"maneuver_time_s"`
	SlackTimeS    float64 `json:"slack_time_s"`
}

// DisplacedView is the outbound form of scheduler.Displaced.
type DisplacedView struct {
	ScheduledOpportunityView
	Reason string `json:"reason"`
}

// MetricsView is the outbound form of scheduler.Metrics.
type MetricsView struct {
	RunID    string `json:"run_id"`
	Strategy string `json:"strategy"`

	OpportunitiesEvaluated int `json:"opportunities_evaluated"`
	OpportunitiesAccepted  int `json:"opportunities_accepted"`
	OpportunitiesRejected  int `json:"opportunities_rejected"`

	MeanIncidenceDeg float64 `json:"mean_incidence_deg"`
	MaxIncidenceDeg  float64 `json:"max_incidence_deg"`

	TotalValue         float64 `json:"total_value"`
	TotalManeuverTimeS float64 `json:"total_maneuver_time_s"`
	TotalSlackTimeS    float64 `json:"total_slack_time_s"`

	CoveragePercent float64 `json:"coverage_percent"`

	WallClockRuntimeS float64 `json:"wall_clock_runtime_s"`
}

// StrategyResult is one requested strategy's outcome.
type StrategyResult struct {
	Strategy  string                     `json:"strategy"`
	Schedule  map[string][]ScheduledOpportunityView `json:"schedule"`
	Displaced []DisplacedView            `json:"displaced,omitempty"`
	Metrics   MetricsView                `json:"metrics"`
}

// PlanningResponse is Plan's sole output.
type PlanningResponse struct {
	Results []StrategyResult `json:"results"`
}
