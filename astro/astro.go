// Package astro provides astronomical units, time conversions, and the
// high-precision universal coordinate type shared by the whole engine.
package astro

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// KmPerLy is the number of kilometres in a light-year.
	KmPerLy = 9460730472580.8

	// KmPerAu is the number of kilometres in an astronomical unit.
	KmPerAu = 149597870.7

	// J2000 is the Julian date of the J2000.0 epoch.
	J2000 = 2451545.0

	// SecondsPerDay converts between seconds and Julian days.
	SecondsPerDay = 86400.0
)

// LightYearsToKm converts light-years to kilometres.
func LightYearsToKm(ly float64) float64 { return ly * KmPerLy }

// AuToKm converts astronomical units to kilometres.
func AuToKm(au float64) float64 { return au * KmPerAu }

// JulianDate converts a civil time to a Julian date. Ephemeris evaluation in
// the engine nominally uses the TDB time standard; the difference from UTC
// (about a minute) is irrelevant at the fidelity of the bundled ephemerides
// and is ignored here.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// TimeFromJulian converts a Julian date back to civil time.
func TimeFromJulian(jd float64) time.Time {
	return julian.JDToTime(jd)
}
