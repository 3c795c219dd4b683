package geometry

import (
	"math"
	"testing"
	"time"

	"github.com/derwentx/mwalib/metafits"
)

func TestNormalizeDegrees(t *testing.T) {
	cases := map[float64]float64{
		0:    0,
		360:  0,
		361:  1,
		-1:   359,
		-361: 359,
	}
	for in, want := range cases {
		if got := normalizeDegrees(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("normalizeDegrees(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestAngleDeltaDegreesWraps(t *testing.T) {
	if d := angleDeltaDegrees(359, 1); math.Abs(d-(-2)) > 1e-9 {
		t.Errorf("angleDeltaDegrees(359, 1) = %v, want -2", d)
	}
	if d := angleDeltaDegrees(1, 359); math.Abs(d-2) > 1e-9 {
		t.Errorf("angleDeltaDegrees(1, 359) = %v, want 2", d)
	}
}

func TestJulianDayKnownEpoch(t *testing.T) {
	// 2000-01-01 12:00:00 UTC is JD 2451545.0 exactly (Meeus example 7.a).
	tm := mustParse(t, "2000-01-01T12:00:00")
	jd := julianDay(tm)
	if math.Abs(jd-2451545.0) > 1e-6 {
		t.Errorf("julianDay(2000-01-01T12:00:00) = %v, want 2451545.0", jd)
	}
}

func TestCheckRoundTripsDayOfYear(t *testing.T) {
	d := &metafits.ObservationDescriptor{
		DateObs:      "2015-08-05T11:28:11",
		LSTDegrees:   0,
		SunAltDegrees: 0,
	}
	cc, err := Check(d)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !cc.DayOfYearRoundTrips {
		t.Errorf("DayOfYearRoundTrips = false, want true")
	}
}

func mustParse(t *testing.T, s string) (tm time.Time) {
	t.Helper()
	d := &metafits.ObservationDescriptor{DateObs: s}
	parsed, err := d.DateObsTime()
	if err != nil {
		t.Fatalf("DateObsTime(%q): %v", s, err)
	}
	return parsed
}
