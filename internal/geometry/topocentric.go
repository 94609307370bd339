package geometry

import (
	"fmt"
	"math"
)

// ElevationAzimuth returns the elevation and azimuth of a satellite as
// seen from a target's local horizontal plane. Elevation is the angle
// above the local horizontal toward the satellite, in [-90,90]. Azimuth
// is measured clockwise from local north, in [0,360).
func ElevationAzimuth(satLatDeg, satLonDeg, satAltKm, targetLatDeg, targetLonDeg, targetAltKm float64) (elevationDeg, azimuthDeg float64, err error) {
	if !validLatLon(satLatDeg, satLonDeg) {
		return 0, 0, fmt.Errorf("%w: satellite lat/lon (%g,%g)", ErrGeometryInvalidInput, satLatDeg, satLonDeg)
	}
	if !validLatLon(targetLatDeg, targetLonDeg) {
		return 0, 0, fmt.Errorf("%w: target lat/lon (%g,%g)", ErrGeometryInvalidInput, targetLatDeg, targetLonDeg)
	}
	if satAltKm < 0 {
		return 0, 0, fmt.Errorf("%w: satellite altitude %g km", ErrGeometryInvalidInput, satAltKm)
	}

	satPos := GeodeticToECEF(satLatDeg, satLonDeg, satAltKm)
	targetPos := GeodeticToECEF(targetLatDeg, targetLonDeg, targetAltKm)
	los := satPos.Sub(targetPos)
	losNorm := los.Norm()
	if losNorm == 0 {
		return 90, 0, nil
	}
	losUnit := los.Normalized()

	east, north, up := localENUBasis(targetLatDeg, targetLonDeg)

	elevationDeg = radToDeg(math.Asin(clampUnit(losUnit.Dot(up))))
	azimuthDeg = normalizeAngle360(radToDeg(math.Atan2(losUnit.Dot(east), losUnit.Dot(north))))
	return elevationDeg, azimuthDeg, nil
}
