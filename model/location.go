package model

import (
	"math"

	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/internal/mathutil"
)

// Location is a named point on (or above) the surface of a body, given in
// planetocentric coordinates that rotate with the body.
type Location struct {
	Name   string
	SizeKm float64

	Parent *Body

	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeKm   float64
}

// SurfaceDirection returns the body-fixed unit vector from the body's center
// through the location.
func (l *Location) SurfaceDirection() mathutil.Vec3 {
	phi := math.Pi/2 - l.LatitudeDeg*math.Pi/180
	theta := l.LongitudeDeg * math.Pi / 180
	return mathutil.Vec3{
		X: math.Cos(theta) * math.Sin(phi),
		Y: math.Cos(phi),
		Z: -math.Sin(theta) * math.Sin(phi),
	}
}

// PositionAt returns the location's universal position, following the
// parent body's rotation.
func (l *Location) PositionAt(jd float64) astro.UniversalCoord {
	if l.Parent == nil {
		return astro.UniversalCoord{}
	}
	r := l.Parent.RadiusKm + l.AltitudeKm
	// Body-fixed -> universal.
	dir := mathutil.Rotate(mathutil.QuatConj(l.Parent.BodyFixedOrientation(jd)), l.SurfaceDirection())
	return l.Parent.PositionAt(jd).OffsetKm(dir.Scale(r))
}
