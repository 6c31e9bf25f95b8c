package core

import (
	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/internal/mathutil"
	"github.com/skyforge/observer-engine/model"
)

// CoordinateSystem identifies the kind of reference frame an observer is
// attached to. The numeric values of the legacy systems are fixed because
// they appear in persisted session scripts.
type CoordinateSystem int

const (
	CoordSysUniversal  CoordinateSystem = 0
	CoordSysEcliptical CoordinateSystem = 1
	CoordSysEquatorial CoordinateSystem = 2
	CoordSysBodyFixed  CoordinateSystem = 3
	CoordSysPhaseLock  CoordinateSystem = 5
	CoordSysChase      CoordinateSystem = 6

	// Deprecated coordinate systems kept for compatibility with older
	// session scripts.
	CoordSysPhaseLockOld CoordinateSystem = 100
	CoordSysChaseOld     CoordinateSystem = 101

	// CoordSysObserverLocal is a camera-relative pseudo frame; it has no
	// frame of its own and resolves to an ecliptic frame at the reference
	// object.
	CoordSysObserverLocal CoordinateSystem = 200

	CoordSysUnknown CoordinateSystem = 1000
)

func (cs CoordinateSystem) String() string {
	switch cs {
	case CoordSysUniversal:
		return "universal"
	case CoordSysEcliptical:
		return "ecliptical"
	case CoordSysEquatorial:
		return "equatorial"
	case CoordSysBodyFixed:
		return "bodyfixed"
	case CoordSysPhaseLock:
		return "phaselock"
	case CoordSysChase:
		return "chase"
	case CoordSysPhaseLockOld:
		return "phaselock-old"
	case CoordSysChaseOld:
		return "chase-old"
	case CoordSysObserverLocal:
		return "observer-local"
	default:
		return "unknown"
	}
}

// ObserverFrame pairs a reference frame with the coordinate system and
// selections it was built from, so the frame can be reported and rebuilt.
type ObserverFrame struct {
	coordSys  CoordinateSystem
	frame     ReferenceFrame
	targetObj model.Selection
}

// NewObserverFrame builds the frame for a coordinate system anchored at
// refObject. targetObject is only consulted by the phase-lock systems.
func NewObserverFrame(coordSys CoordinateSystem, refObject, targetObject model.Selection) *ObserverFrame {
	return &ObserverFrame{
		coordSys:  coordSys,
		frame:     createFrame(coordSys, refObject, targetObject),
		targetObj: targetObject,
	}
}

// NewUniversalObserverFrame is the default frame for a fresh observer.
func NewUniversalObserverFrame() *ObserverFrame {
	return &ObserverFrame{
		coordSys: CoordSysUniversal,
		frame:    NewJ2000EclipticFrame(model.Selection{}),
	}
}

// NewObserverFrameFor wraps an already-built reference frame.
func NewObserverFrameFor(frame ReferenceFrame) *ObserverFrame {
	return &ObserverFrame{coordSys: CoordSysUnknown, frame: frame}
}

func (of *ObserverFrame) CoordinateSystem() CoordinateSystem { return of.coordSys }
func (of *ObserverFrame) Frame() ReferenceFrame              { return of.frame }
func (of *ObserverFrame) RefObject() model.Selection         { return of.frame.Center() }
func (of *ObserverFrame) TargetObject() model.Selection      { return of.targetObj }

func (of *ObserverFrame) ConvertFromUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	return of.frame.ConvertFromUniversal(uc, jd)
}

func (of *ObserverFrame) ConvertToUniversal(uc astro.UniversalCoord, jd float64) astro.UniversalCoord {
	return of.frame.ConvertToUniversal(uc, jd)
}

func (of *ObserverFrame) OrientationFromUniversal(q mathutil.Quat, jd float64) mathutil.Quat {
	return of.frame.OrientationFromUniversal(q, jd)
}

func (of *ObserverFrame) OrientationToUniversal(q mathutil.Quat, jd float64) mathutil.Quat {
	return of.frame.OrientationToUniversal(q, jd)
}

// ConvertPosition re-expresses a position in another observer frame, using
// the universal frame as the pivot.
func ConvertPosition(pos astro.UniversalCoord, from, to *ObserverFrame, jd float64) astro.UniversalCoord {
	return to.ConvertFromUniversal(from.ConvertToUniversal(pos, jd), jd)
}

// ConvertOrientation re-expresses an orientation in another observer frame.
func ConvertOrientation(q mathutil.Quat, from, to *ObserverFrame, jd float64) mathutil.Quat {
	return to.OrientationFromUniversal(from.OrientationToUniversal(q, jd), jd)
}

func createFrame(coordSys CoordinateSystem, refObject, targetObject model.Selection) ReferenceFrame {
	switch coordSys {
	case CoordSysUniversal:
		return NewJ2000EclipticFrame(model.Selection{})

	case CoordSysEcliptical:
		return NewJ2000EclipticFrame(refObject)

	case CoordSysEquatorial:
		return NewBodyMeanEquatorFrame(refObject, refObject)

	case CoordSysBodyFixed:
		return NewBodyFixedFrame(refObject, refObject)

	case CoordSysPhaseLock:
		return NewTwoVectorFrame(refObject,
			NewRelativePositionVector(refObject, targetObject), 1,
			NewRelativeVelocityVector(refObject, targetObject), 2)

	case CoordSysChase:
		parent := refObject.Parent()
		return NewTwoVectorFrame(refObject,
			NewRelativeVelocityVector(refObject, parent), 1,
			NewRelativePositionVector(refObject, parent), 2)

	case CoordSysPhaseLockOld:
		meanEq := NewBodyMeanEquatorFrame(refObject, refObject)
		return NewTwoVectorFrame(refObject,
			NewRelativePositionVector(refObject, targetObject), 3,
			NewConstantFrameVector(mathutil.UnitY(), meanEq), 2)

	case CoordSysChaseOld:
		parent := refObject.Parent()
		meanEq := NewBodyMeanEquatorFrame(refObject, refObject)
		return NewTwoVectorFrame(refObject,
			NewRelativeVelocityVector(parent, refObject), 3,
			NewConstantFrameVector(mathutil.UnitY(), meanEq), 2)

	default:
		return NewJ2000EclipticFrame(refObject)
	}
}
