package astro

import (
	"math"

	"github.com/skyforge/observer-engine/internal/mathutil"
)

// maxCoordinateKm bounds the usable coordinate range. Positions beyond half
// the representable fixed-point range are rejected so that offsets applied to
// an in-bounds coordinate can never wrap.
const maxCoordinateKm = 4.6e18

// UniversalCoord is a position in the universal coordinate system: origin at
// the solar system barycenter, axes defined by the J2000 ecliptic and
// equinox, components in kilometres held as 128-bit fixed point. All
// position math between distant objects must go through OffsetKm and
// OffsetFromKm; converting a UniversalCoord to plain float64 components is
// only safe for offsets already known to be small relative to a common
// origin.
//
// The zero value is the barycenter.
type UniversalCoord struct {
	x, y, z r128
}

// UniversalCoordFromKm builds a coordinate from kilometre components.
func UniversalCoordFromKm(x, y, z float64) UniversalCoord {
	return UniversalCoord{
		x: r128FromFloat(x),
		y: r128FromFloat(y),
		z: r128FromFloat(z),
	}
}

// UniversalCoordFromKmVec builds a coordinate from a kilometre vector.
func UniversalCoordFromKmVec(v mathutil.Vec3) UniversalCoord {
	return UniversalCoordFromKm(v.X, v.Y, v.Z)
}

// UniversalCoordFromLy builds a coordinate from light-year components.
func UniversalCoordFromLy(x, y, z float64) UniversalCoord {
	return UniversalCoordFromKm(x*KmPerLy, y*KmPerLy, z*KmPerLy)
}

// OffsetKm returns the coordinate displaced by a kilometre vector. The
// offset is applied in fixed point, so repeated small offsets far from the
// origin do not lose precision to float rounding of the absolute position.
func (u UniversalCoord) OffsetKm(v mathutil.Vec3) UniversalCoord {
	return UniversalCoord{
		x: u.x.add(r128FromFloat(v.X)),
		y: u.y.add(r128FromFloat(v.Y)),
		z: u.z.add(r128FromFloat(v.Z)),
	}
}

// OffsetFromKm returns the kilometre vector from o to u. The difference is
// formed in fixed point before conversion to float64, preserving sub-metre
// resolution between nearby points regardless of their distance from the
// origin.
func (u UniversalCoord) OffsetFromKm(o UniversalCoord) mathutil.Vec3 {
	return mathutil.Vec3{
		X: u.x.sub(o.x).toFloat(),
		Y: u.y.sub(o.y).toFloat(),
		Z: u.z.sub(o.z).toFloat(),
	}
}

// DistanceFromKm returns the distance in kilometres between two coordinates.
func (u UniversalCoord) DistanceFromKm(o UniversalCoord) float64 {
	return u.OffsetFromKm(o).Norm()
}

// ToKm returns the coordinate as a kilometre vector from the barycenter.
// Precision is limited to float64; see the type comment.
func (u UniversalCoord) ToKm() mathutil.Vec3 {
	return u.OffsetFromKm(UniversalCoord{})
}

// ToLy returns the coordinate as a light-year vector from the barycenter.
func (u UniversalCoord) ToLy() mathutil.Vec3 {
	return u.ToKm().Scale(1 / KmPerLy)
}

// IsOutOfBounds reports whether any component is outside the supported
// coordinate range.
func (u UniversalCoord) IsOutOfBounds() bool {
	return math.Abs(u.x.toFloat()) > maxCoordinateKm ||
		math.Abs(u.y.toFloat()) > maxCoordinateKm ||
		math.Abs(u.z.toFloat()) > maxCoordinateKm
}
