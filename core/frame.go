// Package core implements the virtual observer: reference frames, the
// dual-representation camera state, and timed journeys between objects.
package core

import (
	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/internal/mathutil"
	"github.com/skyforge/observer-engine/model"
)

// ReferenceFrame is a time-parameterized coordinate frame anchored at a
// center selection. Orientation(jd) transforms universal-frame vectors into
// frame vectors. Frames are immutable once constructed and safe to share.
//
// Frame-local positions are UniversalCoord values whose origin is the frame
// center; the universal frame is always the pivot for conversions between
// frames.
type ReferenceFrame interface {
	Center() model.Selection
	Orientation(jd float64) mathutil.Quat

	ConvertFromUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord
	ConvertToUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord
	OrientationFromUniversal(q mathutil.Quat, jd float64) mathutil.Quat
	OrientationToUniversal(q mathutil.Quat, jd float64) mathutil.Quat
}

// Shared conversion arithmetic for every frame variant.

func convertPosFromUniversal(f ReferenceFrame, uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	rel := uc.OffsetFromKm(f.Center().PositionAt(jd))
	return astro.UniversalCoordFromKmVec(mathutil.Rotate(f.Orientation(jd), rel))
}

func convertPosToUniversal(f ReferenceFrame, uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	rel := mathutil.Rotate(mathutil.QuatConj(f.Orientation(jd)), uc.ToKm())
	return f.Center().PositionAt(jd).OffsetKm(rel)
}

func orientationFromUniversal(f ReferenceFrame, q mathutil.Quat, jd float64) mathutil.Quat {
	return mathutil.QuatMul(q, mathutil.QuatConj(f.Orientation(jd)))
}

func orientationToUniversal(f ReferenceFrame, q mathutil.Quat, jd float64) mathutil.Quat {
	return mathutil.QuatMul(q, f.Orientation(jd))
}

// J2000EclipticFrame is the inertial frame aligned with the J2000 ecliptic
// and equinox, anchored at a selection (or the barycenter when empty).
type J2000EclipticFrame struct {
	center model.Selection
}

func NewJ2000EclipticFrame(center model.Selection) *J2000EclipticFrame {
	return &J2000EclipticFrame{center: center}
}

func (f *J2000EclipticFrame) Center() model.Selection { return f.center }

func (f *J2000EclipticFrame) Orientation(jd float64) mathutil.Quat {
	return mathutil.QuatIdentity()
}

func (f *J2000EclipticFrame) ConvertFromUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	return convertPosFromUniversal(f, uc, jd)
}

func (f *J2000EclipticFrame) ConvertToUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	return convertPosToUniversal(f, uc, jd)
}

func (f *J2000EclipticFrame) OrientationFromUniversal(q mathutil.Quat, jd float64) mathutil.Quat {
	return orientationFromUniversal(f, q, jd)
}

func (f *J2000EclipticFrame) OrientationToUniversal(q mathutil.Quat, jd float64) mathutil.Quat {
	return orientationToUniversal(f, q, jd)
}

// BodyMeanEquatorFrame is oriented by an object's mean equator (its spin
// axis, without the spin itself).
type BodyMeanEquatorFrame struct {
	center model.Selection
	object model.Selection
}

func NewBodyMeanEquatorFrame(center, object model.Selection) *BodyMeanEquatorFrame {
	return &BodyMeanEquatorFrame{center: center, object: object}
}

func (f *BodyMeanEquatorFrame) Center() model.Selection { return f.center }

func (f *BodyMeanEquatorFrame) Orientation(jd float64) mathutil.Quat {
	switch {
	case f.object.Body != nil:
		return f.object.Body.EquatorOrientation(jd)
	case f.object.Star != nil:
		return f.object.Star.EquatorOrientation(jd)
	default:
		return mathutil.QuatIdentity()
	}
}

func (f *BodyMeanEquatorFrame) ConvertFromUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	return convertPosFromUniversal(f, uc, jd)
}

func (f *BodyMeanEquatorFrame) ConvertToUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	return convertPosToUniversal(f, uc, jd)
}

func (f *BodyMeanEquatorFrame) OrientationFromUniversal(q mathutil.Quat, jd float64) mathutil.Quat {
	return orientationFromUniversal(f, q, jd)
}

func (f *BodyMeanEquatorFrame) OrientationToUniversal(q mathutil.Quat, jd float64) mathutil.Quat {
	return orientationToUniversal(f, q, jd)
}

// BodyFixedFrame is rigidly attached to a rotating body.
type BodyFixedFrame struct {
	center model.Selection
	object model.Selection
}

func NewBodyFixedFrame(center, object model.Selection) *BodyFixedFrame {
	return &BodyFixedFrame{center: center, object: object}
}

func (f *BodyFixedFrame) Center() model.Selection { return f.center }

func (f *BodyFixedFrame) Orientation(jd float64) mathutil.Quat {
	switch {
	case f.object.Body != nil:
		return f.object.Body.BodyFixedOrientation(jd)
	case f.object.Star != nil:
		return f.object.Star.BodyFixedOrientation(jd)
	case f.object.Location != nil && f.object.Location.Parent != nil:
		return f.object.Location.Parent.BodyFixedOrientation(jd)
	default:
		return mathutil.QuatIdentity()
	}
}

func (f *BodyFixedFrame) ConvertFromUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	return convertPosFromUniversal(f, uc, jd)
}

func (f *BodyFixedFrame) ConvertToUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	return convertPosToUniversal(f, uc, jd)
}

func (f *BodyFixedFrame) OrientationFromUniversal(q mathutil.Quat, jd float64) mathutil.Quat {
	return orientationFromUniversal(f, q, jd)
}

func (f *BodyFixedFrame) OrientationToUniversal(q mathutil.Quat, jd float64) mathutil.Quat {
	return orientationToUniversal(f, q, jd)
}

// TwoVectorFrame builds its axes from two time-varying direction vectors:
// the primary vector is aligned exactly with one axis, the secondary is
// orthogonalized against it to define a second axis, and the third axis
// completes a right-handed basis. Axis arguments are 1, 2, or 3 for x, y, z.
type TwoVectorFrame struct {
	center        model.Selection
	primary       FrameVector
	primaryAxis   int
	secondary     FrameVector
	secondaryAxis int
}

func NewTwoVectorFrame(center model.Selection, primary FrameVector, primaryAxis int, secondary FrameVector, secondaryAxis int) *TwoVectorFrame {
	return &TwoVectorFrame{
		center:        center,
		primary:       primary,
		primaryAxis:   primaryAxis,
		secondary:     secondary,
		secondaryAxis: secondaryAxis,
	}
}

func (f *TwoVectorFrame) Center() model.Selection { return f.center }

func (f *TwoVectorFrame) Orientation(jd float64) mathutil.Quat {
	v1 := f.primary.Direction(jd).Normalized()
	v2raw := f.secondary.Direction(jd)
	if v1 == (mathutil.Vec3{}) || v2raw == (mathutil.Vec3{}) {
		return mathutil.QuatIdentity()
	}

	v3 := v1.Cross(v2raw)
	if v3.Norm() < 1e-12 {
		// Secondary parallel to primary: the frame is undefined.
		return mathutil.QuatIdentity()
	}
	v3 = v3.Normalized()
	v2 := v3.Cross(v1)

	i := f.primaryAxis - 1
	j := f.secondaryAxis - 1
	if i < 0 || i > 2 || j < 0 || j > 2 || i == j {
		return mathutil.QuatIdentity()
	}
	k := 3 - i - j

	var axes [3]mathutil.Vec3
	axes[i] = v1
	axes[j] = v2
	axes[k] = axes[(k+1)%3].Cross(axes[(k+2)%3])

	// The axes are the frame basis expressed in universal coordinates;
	// the frame orientation is the inverse rotation.
	return mathutil.QuatConj(mathutil.QuatFromAxes(axes[0], axes[1], axes[2]))
}

func (f *TwoVectorFrame) ConvertFromUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	return convertPosFromUniversal(f, uc, jd)
}

func (f *TwoVectorFrame) ConvertToUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	return convertPosToUniversal(f, uc, jd)
}

func (f *TwoVectorFrame) OrientationFromUniversal(q mathutil.Quat, jd float64) mathutil.Quat {
	return orientationFromUniversal(f, q, jd)
}

func (f *TwoVectorFrame) OrientationToUniversal(q mathutil.Quat, jd float64) mathutil.Quat {
	return orientationToUniversal(f, q, jd)
}
