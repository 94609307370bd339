package propagation

import (
	"math"
	"testing"
	"time"
)

func TestSunSubpointLatitudeBounded(t *testing.T) {
	sun := NewReferenceSunProvider()
	samples := []time.Time{
		time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), // near equinox
		time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), // near solstice
		time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC),
	}
	for _, ts := range samples {
		lat, lon := sun.SunSubpoint(ts)
		if math.Abs(lat) > 23.5 {
			t.Errorf("%v: subsolar latitude %g exceeds obliquity bound", ts, lat)
		}
		if lon < -180 || lon > 180 {
			t.Errorf("%v: subsolar longitude %g out of [-180,180]", ts, lon)
		}
	}
}

func TestSunSubpointSeasonalSign(t *testing.T) {
	sun := NewReferenceSunProvider()
	juneSolstice := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	decSolstice := time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)

	latJune, _ := sun.SunSubpoint(juneSolstice)
	latDec, _ := sun.SunSubpoint(decSolstice)

	if latJune <= 0 {
		t.Errorf("June solstice subsolar latitude = %g, want > 0 (northern)", latJune)
	}
	if latDec >= 0 {
		t.Errorf("December solstice subsolar latitude = %g, want < 0 (southern)", latDec)
	}
}

func TestSolarElevationOverheadAtSubsolarPoint(t *testing.T) {
	sun := NewReferenceSunProvider()
	ts := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	lat, lon := sun.SunSubpoint(ts)

	elev := SolarElevation(lat, lon, sun, ts)
	if math.Abs(elev-90) > 1e-6 {
		t.Errorf("elevation at subsolar point = %g, want ~90", elev)
	}
}

func TestSolarElevationAntipodeIsNegative(t *testing.T) {
	sun := NewReferenceSunProvider()
	ts := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	lat, lon := sun.SunSubpoint(ts)

	antiLat := -lat
	antiLon := lon + 180
	if antiLon > 180 {
		antiLon -= 360
	}

	elev := SolarElevation(antiLat, antiLon, sun, ts)
	if math.Abs(elev-(-90)) > 1e-6 {
		t.Errorf("elevation at antisolar point = %g, want ~-90", elev)
	}
}
