package mathutil

import (
	"math"

	"github.com/westphae/quaternion"
)

// Quat is the orientation representation used throughout the engine. An
// observer orientation q transforms universal-frame vectors into camera
// vectors; the camera looks down its local -Z axis with +Y up.
type Quat = quaternion.Quaternion

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatMul returns the Hamilton product a*b (apply b first, then a when
// rotating with Rotate).
func QuatMul(a, b Quat) Quat {
	return quaternion.Prod(a, b)
}

// QuatConj returns the conjugate (inverse for unit quaternions).
func QuatConj(q Quat) Quat {
	return q.Conj()
}

// QuatNorm returns the quaternion magnitude.
func QuatNorm(q Quat) float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// QuatNormalize scales q to unit length. The zero quaternion normalizes to
// the identity.
func QuatNormalize(q Quat) Quat {
	n := QuatNorm(q)
	if n == 0 {
		return QuatIdentity()
	}
	return Quat{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

// QuatDot returns the 4-dimensional dot product of two quaternions.
func QuatDot(a, b Quat) float64 {
	return a.W*b.W + a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// QuatAddScaled returns q + s*dq componentwise. Used by the first-order
// angular velocity integrator; the result is generally not unit length.
func QuatAddScaled(q Quat, s float64, dq Quat) Quat {
	return Quat{
		W: q.W + s*dq.W,
		X: q.X + s*dq.X,
		Y: q.Y + s*dq.Y,
		Z: q.Z + s*dq.Z,
	}
}

// Rotate applies the rotation q to v: q * (0,v) * q'.
func Rotate(q Quat, v Vec3) Vec3 {
	p := quaternion.Prod(q, Quat{X: v.X, Y: v.Y, Z: v.Z}, q.Conj())
	return Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// QuatFromAxisAngle builds a rotation of angle radians about the given axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalized()
	s := math.Sin(angle / 2)
	return Quat{
		W: math.Cos(angle / 2),
		X: a.X * s,
		Y: a.Y * s,
		Z: a.Z * s,
	}
}

// XRotation, YRotation and ZRotation are rotations about the coordinate axes.
func XRotation(angle float64) Quat { return QuatFromAxisAngle(UnitX(), angle) }
func YRotation(angle float64) Quat { return QuatFromAxisAngle(UnitY(), angle) }
func ZRotation(angle float64) Quat { return QuatFromAxisAngle(UnitZ(), angle) }

// QuatSlerp spherically interpolates between unit quaternions along the
// shortest arc. For nearly identical orientations it degrades to normalized
// linear interpolation.
func QuatSlerp(q0, q1 Quat, t float64) Quat {
	d := QuatDot(q0, q1)
	if d < 0 {
		q1 = Quat{W: -q1.W, X: -q1.X, Y: -q1.Y, Z: -q1.Z}
		d = -d
	}

	if d > 0.9995 {
		return QuatNormalize(QuatAddScaled(q0, 1, Quat{
			W: t * (q1.W - q0.W),
			X: t * (q1.X - q0.X),
			Y: t * (q1.Y - q0.Y),
			Z: t * (q1.Z - q0.Z),
		}))
	}

	theta := math.Acos(Clamp(d, -1, 1))
	sinTheta := math.Sin(theta)
	s0 := math.Sin((1-t)*theta) / sinTheta
	s1 := math.Sin(t*theta) / sinTheta
	return Quat{
		W: s0*q0.W + s1*q1.W,
		X: s0*q0.X + s1*q1.X,
		Y: s0*q0.Y + s1*q1.Y,
		Z: s0*q0.Z + s1*q1.Z,
	}
}

// QuatFromTwoVectors returns the shortest rotation carrying direction a onto
// direction b. Antiparallel inputs rotate half a turn about an arbitrary
// perpendicular axis; a zero input yields the identity.
func QuatFromTwoVectors(a, b Vec3) Quat {
	u := a.Normalized()
	v := b.Normalized()
	if u == (Vec3{}) || v == (Vec3{}) {
		return QuatIdentity()
	}

	d := u.Dot(v)
	if d < -0.999999 {
		axis := UnitX().Cross(u)
		if axis.Norm() < 1e-9 {
			axis = UnitY().Cross(u)
		}
		return QuatFromAxisAngle(axis, math.Pi)
	}

	c := u.Cross(v)
	q := Quat{W: 1 + d, X: c.X, Y: c.Y, Z: c.Z}
	return QuatNormalize(q)
}

// quatFromColumns converts the rotation matrix whose columns are the images
// of the coordinate axes into a quaternion (Shepperd's method).
func quatFromColumns(c0, c1, c2 Vec3) Quat {
	m00, m01, m02 := c0.X, c1.X, c2.X
	m10, m11, m12 := c0.Y, c1.Y, c2.Y
	m20, m21, m22 := c0.Z, c1.Z, c2.Z

	trace := m00 + m11 + m22
	var q Quat
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quat{
			W: s / 4,
			X: (m21 - m12) / s,
			Y: (m02 - m20) / s,
			Z: (m10 - m01) / s,
		}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quat{
			W: (m21 - m12) / s,
			X: s / 4,
			Y: (m01 + m10) / s,
			Z: (m02 + m20) / s,
		}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quat{
			W: (m02 - m20) / s,
			X: (m01 + m10) / s,
			Y: s / 4,
			Z: (m12 + m21) / s,
		}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quat{
			W: (m10 - m01) / s,
			X: (m02 + m20) / s,
			Y: (m12 + m21) / s,
			Z: s / 4,
		}
	}
	return QuatNormalize(q)
}

// QuatFromAxes builds the rotation whose images of the x, y and z axes are
// the given (assumed orthonormal, right-handed) vectors.
func QuatFromAxes(x, y, z Vec3) Quat {
	return quatFromColumns(x, y, z)
}

// LookAt returns the orientation of a camera at from looking toward to with
// the given approximate up direction. The camera convention is -Z forward,
// +Y up; the returned quaternion transforms universal vectors into camera
// vectors. Degenerate inputs (to == from, or up parallel to the view
// direction) produce the identity orientation.
func LookAt(from, to, up Vec3) Quat {
	n := to.Sub(from).Normalized()
	if n == (Vec3{}) {
		return QuatIdentity()
	}
	v := n.Cross(up)
	if v.Norm() < 1e-12 {
		return QuatIdentity()
	}
	v = v.Normalized()
	u := v.Cross(n)
	return QuatConj(quatFromColumns(v, u, n.Neg()))
}
