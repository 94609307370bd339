package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SatelliteState is the instantaneous position and velocity a caller must
// supply to SignedRollAngle. Velocity is typically obtained by finite-
// differencing two nearby Propagator samples (the Propagator contract
// itself only yields position).
type SatelliteState struct {
	LatDeg, LonDeg, AltKm float64
	// VelocityECEF is the satellite's velocity vector in the same ECEF
	// frame as GeodeticToECEF, in km/s. Only its direction matters.
	VelocityECEF Vec3
}

// SignedRollAngle returns the roll angle, in degrees, required to point
// the spacecraft's sensor at the target. Positive when the target lies to
// the left of the velocity vector (spacecraft must roll right to reach
// it); negative for right-of-track targets.
//
// The satellite body frame is (velocity, nadir, cross-track = velocity x
// nadir); the satellite->target line is projected onto that frame with a
// 3x3 change-of-basis built with gonum/mat, and the signed angle is taken
// in the cross-track/nadir plane.
func SignedRollAngle(state SatelliteState, targetLatDeg, targetLonDeg float64) (rollDeg float64, err error) {
	if !validLatLon(state.LatDeg, state.LonDeg) {
		return 0, fmt.Errorf("%w: satellite lat/lon (%g,%g)", ErrGeometryInvalidInput, state.LatDeg, state.LonDeg)
	}
	if !validLatLon(targetLatDeg, targetLonDeg) {
		return 0, fmt.Errorf("%w: target lat/lon (%g,%g)", ErrGeometryInvalidInput, targetLatDeg, targetLonDeg)
	}
	if state.AltKm < 0 {
		return 0, fmt.Errorf("%w: satellite altitude %g km", ErrGeometryInvalidInput, state.AltKm)
	}
	if state.VelocityECEF.Norm() == 0 {
		return 0, fmt.Errorf("%w: zero velocity vector", ErrGeometryInvalidInput)
	}

	satPos := GeodeticToECEF(state.LatDeg, state.LonDeg, state.AltKm)
	targetPos := GeodeticToECEF(targetLatDeg, targetLonDeg, 0)

	nadir := satPos.Scale(-1).Normalized()
	velocity := state.VelocityECEF.Normalized()
	crossTrack := velocity.Cross(nadir).Normalized()

	// Body-frame basis as columns of a 3x3 matrix; body = basis^-1 * los,
	// but since the basis is orthonormal, basis^T serves as the inverse.
	basis := mat.NewDense(3, 3, []float64{
		velocity.X, crossTrack.X, nadir.X,
		velocity.Y, crossTrack.Y, nadir.Y,
		velocity.Z, crossTrack.Z, nadir.Z,
	})

	los := targetPos.Sub(satPos).Normalized()
	losVec := mat.NewVecDense(3, []float64{los.X, los.Y, los.Z})

	var bodyLOS mat.VecDense
	bodyLOS.MulVec(basis.T(), losVec)

	crossTrackComponent := bodyLOS.AtVec(1)
	nadirComponent := bodyLOS.AtVec(2)

	rollDeg = radToDeg(math.Atan2(crossTrackComponent, nadirComponent))
	return rollDeg, nil
}

// AlongTrackPitchAngle returns the along-track pitch required to image a
// target at time offset tOffsetS from the nadir-overhead time, for a
// satellite at the given altitude. Negative for targets imaged before
// overhead (look backward), positive for after (look forward). The
// result is clipped to +/-maxPitchDeg.
func AlongTrackPitchAngle(tOffsetS, altitudeKm, maxPitchDeg float64) float64 {
	v := OrbitalVelocity(altitudeKm)
	alongTrackDistanceKm := v * tOffsetS
	pitchDeg := radToDeg(math.Atan2(alongTrackDistanceKm, altitudeKm))

	if pitchDeg > maxPitchDeg {
		return maxPitchDeg
	}
	if pitchDeg < -maxPitchDeg {
		return -maxPitchDeg
	}
	return pitchDeg
}
