package core

import (
	"github.com/skyforge/observer-engine/internal/mathutil"
	"github.com/skyforge/observer-engine/model"
)

// velocitySampleDays is the half-step used for the central-difference
// velocity estimate: one minute of simulation time.
const velocitySampleDays = 1.0 / 1440.0

// FrameVector is a time-varying direction used to orient a TwoVectorFrame.
type FrameVector interface {
	Direction(jd float64) mathutil.Vec3
}

// RelativePositionVector points from an observed object toward a target.
type RelativePositionVector struct {
	observer model.Selection
	target   model.Selection
}

func NewRelativePositionVector(observer, target model.Selection) *RelativePositionVector {
	return &RelativePositionVector{observer: observer, target: target}
}

func (v *RelativePositionVector) Direction(jd float64) mathutil.Vec3 {
	return v.target.PositionAt(jd).OffsetFromKm(v.observer.PositionAt(jd))
}

// RelativeVelocityVector is the velocity of a target relative to an observed
// object, estimated by central differencing of the relative position.
type RelativeVelocityVector struct {
	observer model.Selection
	target   model.Selection
}

func NewRelativeVelocityVector(observer, target model.Selection) *RelativeVelocityVector {
	return &RelativeVelocityVector{observer: observer, target: target}
}

func (v *RelativeVelocityVector) Direction(jd float64) mathutil.Vec3 {
	p0 := v.target.PositionAt(jd - velocitySampleDays).OffsetFromKm(v.observer.PositionAt(jd - velocitySampleDays))
	p1 := v.target.PositionAt(jd + velocitySampleDays).OffsetFromKm(v.observer.PositionAt(jd + velocitySampleDays))
	return p1.Sub(p0).Scale(1.0 / (2.0 * velocitySampleDays))
}

// ConstantFrameVector is a fixed direction, optionally expressed in another
// frame and converted to universal coordinates at evaluation time.
type ConstantFrameVector struct {
	vec   mathutil.Vec3
	frame ReferenceFrame
}

func NewConstantFrameVector(vec mathutil.Vec3, frame ReferenceFrame) *ConstantFrameVector {
	return &ConstantFrameVector{vec: vec, frame: frame}
}

func (v *ConstantFrameVector) Direction(jd float64) mathutil.Vec3 {
	if v.frame == nil {
		return v.vec
	}
	return mathutil.Rotate(mathutil.QuatConj(v.frame.Orientation(jd)), v.vec)
}
