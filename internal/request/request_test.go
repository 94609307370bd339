package request

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eoplan/missionplanner/internal/propagation"
	"github.com/stretchr/testify/require"
)

// issTLE1/issTLE2 is a real two-line element set (ISS, epoch 2020-08-21)
// used as a stable, realistic orbit for the end-to-end Plan tests below.
const (
	issTLE1 = "1 25544U 98067A   20234.53472222  .00001264  00000-0  31280-4 0  9993"
	issTLE2 = "2 25544  51.6442  21.9858 0002307  68.6848 301.4851 15.49380483236276"
)

func validTarget(id string, lat, lon float64) GroundTargetSpec {
	return GroundTargetSpec{
		ID:                    id,
		LatDeg:                lat,
		LonDeg:                lon,
		AltitudeM:             0,
		Priority:              5,
		MissionMode:           "OPTICAL",
		SensorFOVHalfAngleDeg: 45,
		MaxSpacecraftRollDeg:  45,
		ElevationMaskDeg:      5,
	}
}

func validParams() Params {
	return Params{
		ImagingTimeS:          5,
		MaxSpacecraftRollDeg:  45,
		MaxRollRateDps:        1,
		MaxRollAccelDps2:      1,
		MaxSpacecraftPitchDeg: 30,
		MaxPitchRateDps:       1,
		MaxPitchAccelDps2:     1,
		QualityModel:          "off",
		QualityWeight:         0.5,
	}
}

func baseRequest() PlanningRequest {
	return PlanningRequest{
		Satellites: []OrbitalElementsSpec{{SatelliteID: "sat-1", TLELine1: issTLE1, TLELine2: issTLE2}},
		Targets: []GroundTargetSpec{
			validTarget("tgt-1", 51.5, 20.0),
			validTarget("tgt-2", -10.0, 150.0),
		},
		HorizonStart: time.Date(2020, 8, 21, 13, 0, 0, 0, time.UTC),
		HorizonEnd:   time.Date(2020, 8, 22, 1, 0, 0, 0, time.UTC),
		Params:       validParams(),
		Strategies:   []string{"first_fit"},
	}
}

func TestValidateRejectsEmptySatellites(t *testing.T) {
	req := baseRequest()
	req.Satellites = nil

	err := req.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateRejectsEndBeforeStart(t *testing.T) {
	req := baseRequest()
	req.HorizonEnd = req.HorizonStart.Add(-time.Hour)

	err := req.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateRejectsEndEqualToStart(t *testing.T) {
	req := baseRequest()
	req.HorizonEnd = req.HorizonStart

	err := req.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateRejectsNonPositiveRollMax(t *testing.T) {
	req := baseRequest()
	req.Params.MaxSpacecraftRollDeg = 0

	err := req.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateRejectsMalformedTLE(t *testing.T) {
	req := baseRequest()
	req.Satellites[0].TLELine1 = "too short"

	err := req.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateRejectsInvalidTarget(t *testing.T) {
	req := baseRequest()
	req.Targets[0].LatDeg = 200 // out of [-90, 90]

	err := req.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateRejectsDuplicateTargetID(t *testing.T) {
	req := baseRequest()
	req.Targets[1].ID = req.Targets[0].ID

	err := req.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	req := baseRequest()
	req.Strategies = []string{"not_a_real_strategy"}

	err := req.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	req := baseRequest()
	require.NoError(t, req.Validate())
}

func TestPlanRejectsInvalidRequestWithoutComputing(t *testing.T) {
	req := baseRequest()
	req.Satellites = nil

	resp, err := Plan(context.Background(), req, propagation.NewReferenceSunProvider(), nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInput))
	require.Empty(t, resp.Results)
}

// TestPlanEmptyTargetsProducesEmptySchedule covers spec.md's S5
// scenario: an empty target list is not an error, it just produces an
// empty schedule for every requested strategy.
func TestPlanEmptyTargetsProducesEmptySchedule(t *testing.T) {
	req := baseRequest()
	req.Targets = nil

	resp, err := Plan(context.Background(), req, propagation.NewReferenceSunProvider(), nil)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	require.Equal(t, "first_fit", resp.Results[0].Strategy)
	require.Empty(t, resp.Results[0].Schedule)
}

// TestPlanRunsEndToEndOverRealOrbit exercises the whole pipeline
// (propagation -> visibility -> opportunity -> scheduler) against a
// real ISS TLE over a 12-hour horizon. It does not assert exact
// coverage numbers (the reference J2 propagator's exact access windows
// aren't hand-computable), only the structural and range invariants
// every valid response must satisfy.
func TestPlanRunsEndToEndOverRealOrbit(t *testing.T) {
	req := baseRequest()
	req.Strategies = []string{"first_fit", "best_fit", "value_density"}

	resp, err := Plan(context.Background(), req, propagation.NewReferenceSunProvider(), nil)
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	for _, result := range resp.Results {
		require.GreaterOrEqual(t, result.Metrics.CoveragePercent, 0.0)
		require.LessOrEqual(t, result.Metrics.CoveragePercent, 100.0)
		require.GreaterOrEqual(t, result.Metrics.TotalValue, 0.0)
		require.GreaterOrEqual(t, result.Metrics.OpportunitiesAccepted, 0)
		require.LessOrEqual(t, result.Metrics.OpportunitiesAccepted, result.Metrics.OpportunitiesEvaluated)

		seenTargets := make(map[string]bool)
		for satelliteID, opps := range result.Schedule {
			require.NotEmpty(t, satelliteID)
			var prevEnd time.Time
			for _, o := range opps {
				require.False(t, seenTargets[o.TargetID], "target %s scheduled twice on %s", o.TargetID, satelliteID)
				seenTargets[o.TargetID] = true
				require.True(t, o.End.After(o.Start))
				if !prevEnd.IsZero() {
					require.False(t, o.Start.Before(prevEnd), "schedule not chronologically ordered on %s", satelliteID)
				}
				prevEnd = o.End
			}
		}
	}
}

func TestPlanRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := baseRequest()
	_, err := Plan(ctx, req, propagation.NewReferenceSunProvider(), nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrCancelled))
}
