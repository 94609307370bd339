package propagation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Elements holds parsed two-line-element orbital parameters for one
// satellite. Carries satellite identity (via the map key it's registered
// under) and epoch; immutable once parsed, per spec.md's OrbitalElements
// contract.
type Elements struct {
	EpochYear      int
	EpochDay       float64
	MeanMotion     float64 // revs/day
	Eccentricity   float64
	InclinationDeg float64
	RAANDeg        float64
	ArgPerigeeDeg  float64
	MeanAnomalyDeg float64
}

// ParseTLE extracts orbital elements from a classic two-line element set.
func ParseTLE(line1, line2 string) (Elements, error) {
	if len(line1) < 69 || len(line2) < 69 {
		return Elements{}, fmt.Errorf("%w: TLE lines too short", ErrPropagatorUnavailable)
	}

	var e Elements

	epochYearStr := strings.TrimSpace(line1[18:20])
	epochDayStr := strings.TrimSpace(line1[20:32])

	epochYear, err := strconv.Atoi(epochYearStr)
	if err != nil {
		return Elements{}, fmt.Errorf("parse epoch year: %w", err)
	}
	if epochYear >= 57 {
		e.EpochYear = 1900 + epochYear
	} else {
		e.EpochYear = 2000 + epochYear
	}

	e.EpochDay, err = strconv.ParseFloat(epochDayStr, 64)
	if err != nil {
		return Elements{}, fmt.Errorf("parse epoch day: %w", err)
	}

	incStr := strings.TrimSpace(line2[8:16])
	raanStr := strings.TrimSpace(line2[17:25])
	eccStr := strings.TrimSpace(line2[26:33])
	argpStr := strings.TrimSpace(line2[34:42])
	maStr := strings.TrimSpace(line2[43:51])
	mmStr := strings.TrimSpace(line2[52:63])

	e.InclinationDeg, _ = strconv.ParseFloat(incStr, 64)
	e.RAANDeg, _ = strconv.ParseFloat(raanStr, 64)
	if eccFloat, err := strconv.ParseFloat("0."+eccStr, 64); err == nil {
		e.Eccentricity = eccFloat
	}
	e.ArgPerigeeDeg, _ = strconv.ParseFloat(argpStr, 64)
	e.MeanAnomalyDeg, _ = strconv.ParseFloat(maStr, 64)
	e.MeanMotion, _ = strconv.ParseFloat(mmStr, 64)

	return e, nil
}

func (e Elements) epoch() time.Time {
	days := int(e.EpochDay)
	fraction := e.EpochDay - float64(days)

	t := time.Date(e.EpochYear, 1, 1, 0, 0, 0, 0, time.UTC)
	t = t.AddDate(0, 0, days-1)
	return t.Add(time.Duration(fraction * 24 * float64(time.Hour)))
}

// SGP4Propagator is a reference Propagator implementation: a simplified
// J2-secular-perturbation orbit propagator over parsed TLE elements.
// Grounded on PossumXI-Asgard_Arobi's internal/platform/satellite
// propagator.go (Kepler-equation Newton-Raphson solve, ECI->ECEF via
// GMST rotation). It exists so this module is runnable standalone and so
// tests have a real orbit to search passes over; callers may substitute
// a true SGP4/SDP4 library at the Propagator interface boundary.
type SGP4Propagator struct {
	satellites map[string]satelliteEntry
}

type satelliteEntry struct {
	elements Elements
	epoch    time.Time
	period   time.Duration
}

// NewSGP4Propagator constructs an empty propagator; register satellites
// with AddSatellite before use.
func NewSGP4Propagator() *SGP4Propagator {
	return &SGP4Propagator{satellites: make(map[string]satelliteEntry)}
}

// AddSatellite registers orbital elements under satelliteID.
func (p *SGP4Propagator) AddSatellite(satelliteID string, e Elements) {
	nRevPerDay := e.MeanMotion
	var period time.Duration
	if nRevPerDay > 0 {
		period = time.Duration(24 * 3600 / nRevPerDay * float64(time.Second))
	}
	p.satellites[satelliteID] = satelliteEntry{
		elements: e,
		epoch:    e.epoch(),
		period:   period,
	}
}

// OrbitalPeriod implements Propagator.
func (p *SGP4Propagator) OrbitalPeriod(satelliteID string) (time.Duration, bool) {
	entry, ok := p.satellites[satelliteID]
	if !ok || entry.period == 0 {
		return 0, false
	}
	return entry.period, true
}

const (
	muKm3S2       = 398600.4418
	earthRadiusKm = 6378.137
	j2            = 0.00108263
)

// Propagate implements Propagator using a simplified J2-secular Kepler
// propagation: solve Kepler's equation for eccentric anomaly, rotate
// perifocal coordinates into ECI via RAAN/inclination/argument of
// perigee (each advanced by its J2 secular rate), then ECI->ECEF by GMST.
func (p *SGP4Propagator) Propagate(satelliteID string, t time.Time) (Position, error) {
	entry, ok := p.satellites[satelliteID]
	if !ok {
		return Position{}, fmt.Errorf("%w: unknown satellite %q", ErrPropagatorUnavailable, satelliteID)
	}

	e := entry.elements
	minutesSinceEpoch := t.Sub(entry.epoch).Minutes()

	n := e.MeanMotion * 2 * math.Pi / 1440.0 // rad/min
	nRadSec := n / 60.0
	a := math.Pow(muKm3S2/(nRadSec*nRadSec), 1.0/3.0)

	ecc := e.Eccentricity
	inc := e.InclinationDeg * math.Pi / 180.0
	raan0 := e.RAANDeg * math.Pi / 180.0
	argp0 := e.ArgPerigeeDeg * math.Pi / 180.0
	meanAnomaly0 := e.MeanAnomalyDeg * math.Pi / 180.0

	semiLatusRectum := a * (1 - ecc*ecc)
	raanDot := -1.5 * n * j2 * math.Pow(earthRadiusKm/semiLatusRectum, 2) * math.Cos(inc)
	argpDot := 0.75 * n * j2 * math.Pow(earthRadiusKm/semiLatusRectum, 2) * (5*math.Cos(inc)*math.Cos(inc) - 1)

	raan := raan0 + raanDot*minutesSinceEpoch
	argp := argp0 + argpDot*minutesSinceEpoch

	meanAnomaly := math.Mod(meanAnomaly0+n*minutesSinceEpoch, 2*math.Pi)
	if meanAnomaly < 0 {
		meanAnomaly += 2 * math.Pi
	}

	eccAnomaly := meanAnomaly
	for i := 0; i < 15; i++ {
		delta := (eccAnomaly - ecc*math.Sin(eccAnomaly) - meanAnomaly) / (1 - ecc*math.Cos(eccAnomaly))
		eccAnomaly -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}

	sinNu := math.Sqrt(1-ecc*ecc) * math.Sin(eccAnomaly) / (1 - ecc*math.Cos(eccAnomaly))
	cosNu := (math.Cos(eccAnomaly) - ecc) / (1 - ecc*math.Cos(eccAnomaly))
	trueAnomaly := math.Atan2(sinNu, cosNu)

	r := a * (1 - ecc*math.Cos(eccAnomaly))
	argLat := argp + trueAnomaly

	xPF := r * math.Cos(argLat)
	yPF := r * math.Sin(argLat)

	cosRAAN, sinRAAN := math.Cos(raan), math.Sin(raan)
	cosInc, sinInc := math.Cos(inc), math.Sin(inc)

	xECI := xPF*cosRAAN - yPF*sinRAAN*cosInc
	yECI := xPF*sinRAAN + yPF*cosRAAN*cosInc
	zECI := yPF * sinInc

	gmst := greenwichMeanSiderealTime(t)
	cosGMST, sinGMST := math.Cos(gmst), math.Sin(gmst)

	xECEF := xECI*cosGMST + yECI*sinGMST
	yECEF := -xECI*sinGMST + yECI*cosGMST
	zECEF := zECI

	rMag := math.Sqrt(xECEF*xECEF + yECEF*yECEF + zECEF*zECEF)
	latDeg := math.Asin(clampUnit(zECEF/rMag)) * 180.0 / math.Pi
	lonDeg := math.Atan2(yECEF, xECEF) * 180.0 / math.Pi
	altKm := rMag - earthRadiusKm

	return Position{LatDeg: latDeg, LonDeg: lonDeg, AltKm: altKm}, nil
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

func julianDate(t time.Time) float64 {
	t = t.UTC()
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())
	h := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600

	if m <= 2 {
		y--
		m += 12
	}

	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + h/24 + B - 1524.5
}

func greenwichMeanSiderealTime(t time.Time) float64 {
	jd := julianDate(t)
	T := (jd - 2451545.0) / 36525.0

	gmstSec := 67310.54841 +
		(876600*3600+8640184.812866)*T +
		0.093104*T*T -
		6.2e-6*T*T*T

	gmst := math.Mod(gmstSec*2*math.Pi/86400, 2*math.Pi)
	if gmst < 0 {
		gmst += 2 * math.Pi
	}
	return gmst
}
