package geometry

import (
	"fmt"
	"math"
)

// OffNadirAngle returns the angle, in [0,90] degrees, between the
// satellite-to-Earth-centre direction (nadir) and the satellite-to-target
// line. In the target-centre aiming convention this is exactly the
// required spacecraft slew from nadir to the target, and is reported as
// the opportunity's incidence angle (the off-nadir-proxy convention).
func OffNadirAngle(satLatDeg, satLonDeg, satAltKm, targetLatDeg, targetLonDeg float64) (angleDeg float64, err error) {
	if !validLatLon(satLatDeg, satLonDeg) {
		return 0, fmt.Errorf("%w: satellite lat/lon (%g,%g)", ErrGeometryInvalidInput, satLatDeg, satLonDeg)
	}
	if !validLatLon(targetLatDeg, targetLonDeg) {
		return 0, fmt.Errorf("%w: target lat/lon (%g,%g)", ErrGeometryInvalidInput, targetLatDeg, targetLonDeg)
	}
	if satAltKm < 0 {
		return 0, fmt.Errorf("%w: satellite altitude %g km", ErrGeometryInvalidInput, satAltKm)
	}

	satPos := GeodeticToECEF(satLatDeg, satLonDeg, satAltKm)
	// Target altitude doesn't materially change the off-nadir angle at EO
	// ranges, and the contract takes no target_alt parameter; model the
	// target on the Earth sphere (alt=0).
	targetPos := GeodeticToECEF(targetLatDeg, targetLonDeg, 0)

	nadir := satPos.Scale(-1).Normalized()
	toTarget := targetPos.Sub(satPos).Normalized()

	cosAngle := clampUnit(nadir.Dot(toTarget))
	angleDeg = radToDeg(math.Acos(cosAngle))
	return angleDeg, nil
}
