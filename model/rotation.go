package model

import (
	"math"

	"github.com/skyforge/observer-engine/internal/mathutil"
)

// RotationModel describes how a body is oriented in the universal frame.
// EquatorOrientation captures only the spin axis (the body's mean equator);
// Orientation adds the spin angle, giving the full body-fixed attitude.
// Both quaternions transform universal-frame vectors into the body's frame.
type RotationModel interface {
	EquatorOrientation(jd float64) mathutil.Quat
	Orientation(jd float64) mathutil.Quat
}

// UniformRotation models a body spinning at a constant rate about a fixed
// axis. Angles are degrees, the spin period is in days, and the meridian
// angle fixes the prime meridian at EpochJD.
type UniformRotation struct {
	PeriodDays       float64
	ObliquityDeg     float64
	AscendingNodeDeg float64
	MeridianAngleDeg float64
	EpochJD          float64
}

func (r UniformRotation) EquatorOrientation(jd float64) mathutil.Quat {
	node := r.AscendingNodeDeg * math.Pi / 180
	obliquity := r.ObliquityDeg * math.Pi / 180
	return mathutil.QuatMul(mathutil.XRotation(-obliquity), mathutil.YRotation(-node))
}

func (r UniformRotation) Orientation(jd float64) mathutil.Quat {
	spin := mathutil.QuatIdentity()
	if r.PeriodDays > 0 {
		turns := (jd - r.EpochJD) / r.PeriodDays
		angle := 2*math.Pi*(turns-math.Floor(turns)) + r.MeridianAngleDeg*math.Pi/180
		spin = mathutil.YRotation(-angle)
	}
	return mathutil.QuatMul(spin, r.EquatorOrientation(jd))
}
