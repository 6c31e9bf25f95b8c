package model

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/internal/mathutil"
)

// Orbit gives a body's position relative to its parent as a function of
// time. Positions are kilometres in the parent's J2000 ecliptic axes.
type Orbit interface {
	PositionAt(jd float64) mathutil.Vec3
	// BoundingRadius is a radius guaranteed to contain the whole orbit,
	// used when framing a system rather than a single object.
	BoundingRadius() float64
}

// FixedOrbit pins an object at a constant offset from its parent.
type FixedOrbit struct {
	Position mathutil.Vec3
}

func (o FixedOrbit) PositionAt(jd float64) mathutil.Vec3 { return o.Position }
func (o FixedOrbit) BoundingRadius() float64             { return o.Position.Norm() }

// EllipticalOrbit is a classical Keplerian orbit. Angles are degrees,
// distances kilometres, the period in days.
type EllipticalOrbit struct {
	SemiMajorAxisKm float64
	Eccentricity    float64
	InclinationDeg  float64
	AscendingNode   float64
	ArgPeriapsisDeg float64
	MeanAnomalyDeg  float64
	PeriodDays      float64
	EpochJD         float64
}

func (o EllipticalOrbit) PositionAt(jd float64) mathutil.Vec3 {
	if o.PeriodDays <= 0 || o.SemiMajorAxisKm <= 0 {
		return mathutil.Vec3{}
	}

	meanAnomaly := o.MeanAnomalyDeg*math.Pi/180 + 2*math.Pi*(jd-o.EpochJD)/o.PeriodDays
	e := mathutil.Clamp(o.Eccentricity, 0, 0.999999)
	ecc := solveKepler(meanAnomaly, e)

	// True anomaly and radius from the eccentric anomaly.
	nu := 2 * math.Atan2(
		math.Sqrt(1+e)*math.Sin(ecc/2),
		math.Sqrt(1-e)*math.Cos(ecc/2),
	)
	r := o.SemiMajorAxisKm * (1 - e*math.Cos(ecc))

	// Perifocal position in the y-up convention, then the plane orientation.
	perifocal := mathutil.Vec3{X: r * math.Cos(nu), Z: -r * math.Sin(nu)}
	plane := mathutil.QuatMul(
		mathutil.YRotation(o.AscendingNode*math.Pi/180),
		mathutil.QuatMul(
			mathutil.XRotation(o.InclinationDeg*math.Pi/180),
			mathutil.YRotation(o.ArgPeriapsisDeg*math.Pi/180),
		),
	)
	return mathutil.Rotate(plane, perifocal)
}

func (o EllipticalOrbit) BoundingRadius() float64 {
	return o.SemiMajorAxisKm * (1 + o.Eccentricity)
}

// solveKepler finds the eccentric anomaly for a mean anomaly by Newton
// iteration; converges in a handful of steps for e < 1.
func solveKepler(meanAnomaly, e float64) float64 {
	ecc := meanAnomaly
	for i := 0; i < 20; i++ {
		delta := (ecc - e*math.Sin(ecc) - meanAnomaly) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < 1e-14 {
			break
		}
	}
	return ecc
}

// j2000Obliquity is the obliquity of the ecliptic at J2000, radians.
const j2000Obliquity = 23.4392911 * math.Pi / 180

// SGP4Orbit propagates an Earth-orbiting spacecraft from a two-line element
// set. ECI positions from the propagator are rotated into the engine's
// ecliptic y-up axes.
type SGP4Orbit struct {
	sat   satellite.Satellite
	bound float64
}

// NewSGP4Orbit parses TLE lines and samples the orbit at the reference time
// to establish a bounding radius.
func NewSGP4Orbit(line1, line2 string, reference time.Time) *SGP4Orbit {
	o := &SGP4Orbit{sat: satellite.TLEToSat(line1, line2, satellite.GravityWGS72)}
	r := o.PositionAt(astro.JulianDate(reference)).Norm()
	o.bound = r * 1.2
	return o
}

func (o *SGP4Orbit) PositionAt(jd float64) mathutil.Vec3 {
	t := astro.TimeFromJulian(jd)
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	pos, _ := satellite.Propagate(o.sat, year, int(month), day, hour, min, sec)

	// Equatorial ECI -> ecliptic (rotate about x by the obliquity), then
	// z-up -> y-up.
	cosE := math.Cos(j2000Obliquity)
	sinE := math.Sin(j2000Obliquity)
	ex := pos.X
	ey := pos.Y*cosE + pos.Z*sinE
	ez := -pos.Y*sinE + pos.Z*cosE
	return mathutil.Vec3{X: ex, Y: ez, Z: -ey}
}

func (o *SGP4Orbit) BoundingRadius() float64 { return o.bound }
