package mathutil

import "math"

// Vec3 is a 3-vector of float64 components. Throughout the engine the
// components are kilometres unless a call site says otherwise, with the
// J2000 ecliptic y-axis pointing "up".
type Vec3 struct {
	X, Y, Z float64
}

// UnitX, UnitY and UnitZ return the coordinate axes.
func UnitX() Vec3 { return Vec3{X: 1} }
func UnitY() Vec3 { return Vec3{Y: 1} }
func UnitZ() Vec3 { return Vec3{Z: 1} }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns the vector scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// NormSquared returns the squared norm, avoiding the sqrt.
func (v Vec3) NormSquared() float64 {
	return v.Dot(v)
}

// Normalized returns a unit vector in the same direction. A zero vector
// normalizes to the zero vector rather than NaN.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Clamp limits x to the interval [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp linearly interpolates between a and b.
func Lerp(t, a, b float64) float64 {
	return a*(1-t) + b*t
}

// SlerpVec spherically interpolates between two position vectors, blending
// both direction (along the great circle through v0 and v1) and radius.
// Degenerate inputs (zero or parallel vectors) fall back to linear
// interpolation so the result is always finite.
func SlerpVec(t float64, v0, v1 Vec3) Vec3 {
	r0 := v0.Norm()
	r1 := v1.Norm()
	if r0 == 0 || r1 == 0 {
		return v0.Scale(1 - t).Add(v1.Scale(t))
	}

	u := v0.Scale(1 / r0)
	w := v1.Scale(1 / r1)
	n := u.Cross(w)
	if n.Norm() < 1e-15 {
		return v0.Scale(1 - t).Add(v1.Scale(t))
	}
	n = n.Normalized()

	v := n.Cross(u)
	if v.Dot(v1) < 0 {
		v = v.Neg()
	}

	cosTheta := Clamp(u.Dot(w), -1, 1)
	theta := math.Acos(cosTheta)

	dir := u.Scale(math.Cos(theta * t)).Add(v.Scale(math.Sin(theta * t)))
	return dir.Scale(Lerp(t, r0, r1))
}
