package propagation

import (
	"math"
	"time"
)

// ReferenceSunProvider is a reference SunPositionProvider implementation
// using a simplified solar ephemeris (Astronomical Almanac low-precision
// formula), grounded on litescript/ls-horizons's internal/astro/sun.go
// SunPosition. That function returns right ascension/declination for
// separation-angle math; here it's adapted to report the subsolar
// geodetic point (declination is subsolar latitude directly, subsolar
// longitude follows from right ascension and Greenwich sidereal time)
// since the planning core reasons about illumination geometrically.
type ReferenceSunProvider struct{}

// NewReferenceSunProvider constructs the default SunPositionProvider.
func NewReferenceSunProvider() ReferenceSunProvider { return ReferenceSunProvider{} }

// SunSubpoint implements SunPositionProvider.
func (ReferenceSunProvider) SunSubpoint(t time.Time) (latDeg, lonDeg float64) {
	raDeg, decDeg := sunRADec(t)

	gmstDeg := greenwichMeanSiderealTime(t) * 180.0 / math.Pi

	lonDeg = normalizeAngle180(raDeg - gmstDeg)
	latDeg = decDeg
	return latDeg, lonDeg
}

func normalizeAngle180(a float64) float64 {
	a = math.Mod(a+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}

// sunRADec returns the Sun's apparent right ascension and declination in
// degrees, accurate to roughly 0.01 deg, following the same low-precision
// almanac formula as the teacher's SunPosition.
func sunRADec(t time.Time) (raDeg, decDeg float64) {
	jd := julianDate(t)
	T := (jd - 2451545.0) / 36525.0

	L0 := normalizeDeg360(280.46646 + 36000.76983*T + 0.0003032*T*T)

	M := normalizeDeg360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	mRad := M * math.Pi / 180.0

	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(mRad) +
		(0.019993-0.000101*T)*math.Sin(2*mRad) +
		0.000289*math.Sin(3*mRad)

	sunLon := L0 + C

	omega := 125.04 - 1934.136*T
	sunLonApp := sunLon - 0.00569 - 0.00478*math.Sin(omega*math.Pi/180.0)

	eps0 := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps := eps0 + 0.00256*math.Cos(omega*math.Pi/180.0)

	sunLonRad := sunLonApp * math.Pi / 180.0
	epsRad := eps * math.Pi / 180.0

	ra := math.Atan2(math.Cos(epsRad)*math.Sin(sunLonRad), math.Cos(sunLonRad))
	raDeg = ra * 180.0 / math.Pi
	if raDeg < 0 {
		raDeg += 360
	}

	dec := math.Asin(clampUnit(math.Sin(epsRad) * math.Sin(sunLonRad)))
	decDeg = dec * 180.0 / math.Pi

	return raDeg, decDeg
}

func normalizeDeg360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// SolarElevation returns the Sun's elevation angle in degrees above a
// geodetic site, via the spherical law of cosines against the subsolar
// point. Used to gate opportunities below a minimum sun elevation for
// optical missions.
func SolarElevation(siteLatDeg, siteLonDeg float64, sun SunPositionProvider, t time.Time) float64 {
	subLatDeg, subLonDeg := sun.SunSubpoint(t)

	siteLat := siteLatDeg * math.Pi / 180.0
	subLat := subLatDeg * math.Pi / 180.0
	dLon := (siteLonDeg - subLonDeg) * math.Pi / 180.0

	cosZenith := math.Sin(siteLat)*math.Sin(subLat) + math.Cos(siteLat)*math.Cos(subLat)*math.Cos(dLon)
	zenith := math.Acos(clampUnit(cosZenith))

	return 90.0 - zenith*180.0/math.Pi
}
