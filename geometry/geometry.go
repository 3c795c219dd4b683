// Package geometry cross-checks the LST and Sun altitude keywords a
// metafits file carries (LST, SUN-ALT) against values this module derives
// independently from DATE-OBS and the MWA site coordinates. The Sun
// distance keyword (SUN-DIST) is not checked.
// A mismatch is never a load failure — metafits keywords are produced by
// the observatory's own scheduler and are authoritative; this package only
// flags when they disagree with a recomputation enough to be worth a
// caller's attention.
package geometry

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/derwentx/mwalib"
	"github.com/derwentx/mwalib/metafits"
)

// Tolerances beyond which a recomputed value is reported as disagreeing
// with the metafits keyword. Loose enough to absorb the metafits values
// having been computed at a slightly different epoch/algorithm than this
// package's own low-precision formulae.
const (
	lstToleranceDegrees    = 0.5
	sunAltToleranceDegrees = 1.0
)

// CrossCheck is the result of recomputing LST and solar position from
// DATE-OBS and comparing against the metafits keywords. Moon and Jupiter
// distances are not part of it: they stay as recorded on the descriptor,
// since this package does not carry lunar or planetary ephemerides, see
// DESIGN.md.
type CrossCheck struct {
	ComputedLSTDegrees    float64
	LSTDeltaDegrees       float64
	LSTDisagrees          bool

	ComputedSunAltDegrees float64
	SunAltDeltaDegrees    float64
	SunAltDisagrees       bool

	// DayOfYearRoundTrips is true when reconstructing DATE-OBS's
	// month/day from its own year and day-of-year agrees with the
	// parsed value, a sanity check on the metafits clock rather than on
	// the pointing itself.
	DayOfYearRoundTrips bool
}

// Check recomputes LST and Sun altitude for d.DateObs at the MWA site and
// compares them against d.LSTDegrees / d.SunAltDegrees.
func Check(d *metafits.ObservationDescriptor) (CrossCheck, error) {
	t, err := d.DateObsTime()
	if err != nil {
		return CrossCheck{}, err
	}

	leap := julian.LeapYearGregorian(t.Year())
	month, day := julian.DayOfYearToCalendar(t.YearDay(), leap)
	roundTrips := month == int(t.Month()) && day == t.Day()

	jd := julianDay(t)
	gstDeg := greenwichMeanSiderealDegrees(jd)
	lstDeg := normalizeDegrees(gstDeg + degrees(mwalib.MwaLongitudeRadians))

	sunRA, sunDec := lowPrecisionSunPosition(jd)
	sunAlt, _ := altAz(sunRA, sunDec, lstDeg, mwalib.MwaLatitudeRadians)

	lstDelta := angleDeltaDegrees(lstDeg, d.LSTDegrees)
	sunAltDelta := math.Abs(sunAlt - d.SunAltDegrees)

	return CrossCheck{
		ComputedLSTDegrees:    lstDeg,
		LSTDeltaDegrees:       lstDelta,
		LSTDisagrees:          math.Abs(lstDelta) > lstToleranceDegrees,
		ComputedSunAltDegrees: sunAlt,
		SunAltDeltaDegrees:    sunAltDelta,
		SunAltDisagrees:       sunAltDelta > sunAltToleranceDegrees,
		DayOfYearRoundTrips:   roundTrips,
	}, nil
}

func degrees(radians float64) float64 { return radians * 180 / math.Pi }
func radians(deg float64) float64     { return deg * math.Pi / 180 }

// julianDay converts a UTC time.Time to a Julian Day number.
func julianDay(t time.Time) float64 {
	y, m, d := t.Date()
	if m <= 2 {
		y--
		m += 12
	}
	a := y / 100
	b := 2 - a + a/4
	dayFrac := float64(d) + (float64(t.Hour())*3600+float64(t.Minute())*60+float64(t.Second()))/86400
	jd := math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) + dayFrac + float64(b) - 1524.5
	return jd
}

// greenwichMeanSiderealDegrees implements Meeus, Astronomical Algorithms
// ch.12 eq.12.4, the standard low-precision GMST polynomial.
func greenwichMeanSiderealDegrees(jd float64) float64 {
	t := (jd - 2451545.0) / 36525.0
	gmst := 280.46061837 + 360.98564736629*(jd-2451545.0) +
		0.000387933*t*t - t*t*t/38710000.0
	return normalizeDegrees(gmst)
}

// lowPrecisionSunPosition implements Meeus ch.25's low-precision solar
// position (apparent geocentric ecliptic longitude, obliquity of the
// ecliptic), converted to equatorial RA/Dec in degrees. Accurate to a few
// arcminutes, comfortably inside this package's cross-check tolerances.
func lowPrecisionSunPosition(jd float64) (raDeg, decDeg float64) {
	t := (jd - 2451545.0) / 36525.0

	l0 := normalizeDegrees(280.46646 + 36000.76983*t + 0.0003032*t*t)
	m := normalizeDegrees(357.52911 + 35999.05029*t - 0.0001537*t*t)
	mRad := radians(m)

	c := (1.914602-0.004817*t-0.000014*t*t)*math.Sin(mRad) +
		(0.019993-0.000101*t)*math.Sin(2*mRad) +
		0.000289*math.Sin(3*mRad)

	trueLon := l0 + c
	omega := 125.04 - 1934.136*t
	apparentLon := trueLon - 0.00569 - 0.00478*math.Sin(radians(omega))

	obliquity := 23.439291 - 0.0130042*t
	trueObliquity := obliquity + 0.00256*math.Cos(radians(omega))

	lonRad := radians(apparentLon)
	oblRad := radians(trueObliquity)

	ra := math.Atan2(math.Cos(oblRad)*math.Sin(lonRad), math.Cos(lonRad))
	dec := math.Asin(math.Sin(oblRad) * math.Sin(lonRad))

	return normalizeDegrees(degrees(ra)), degrees(dec)
}

// altAz converts equatorial (ra, dec) to horizontal (alt, az) at the given
// local sidereal time and observer latitude, all in degrees except lat
// which is in radians to match mwalib.MwaLatitudeRadians.
func altAz(raDeg, decDeg, lstDeg, latRad float64) (altDeg, azDeg float64) {
	haRad := radians(normalizeDegrees(lstDeg - raDeg))
	decRad := radians(decDeg)

	sinAlt := math.Sin(decRad)*math.Sin(latRad) + math.Cos(decRad)*math.Cos(latRad)*math.Cos(haRad)
	alt := math.Asin(clamp(sinAlt, -1, 1))

	cosAz := (math.Sin(decRad) - math.Sin(alt)*math.Sin(latRad)) / (math.Cos(alt) * math.Cos(latRad))
	az := math.Acos(clamp(cosAz, -1, 1))
	if math.Sin(haRad) > 0 {
		az = 2*math.Pi - az
	}

	return degrees(alt), degrees(az)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// angleDeltaDegrees returns a-b wrapped into (-180, 180].
func angleDeltaDegrees(a, b float64) float64 {
	d := normalizeDegrees(a - b)
	if d > 180 {
		d -= 360
	}
	return d
}
