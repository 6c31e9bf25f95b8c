package core

import (
	"context"
	"math"

	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/internal/logging"
	"github.com/skyforge/observer-engine/internal/mathutil"
	"github.com/skyforge/observer-engine/model"
)

// Simulation time is clamped to +-2 billion years around J2000.
const (
	maximumSimTime = 730486721060.00073
	minimumSimTime = -730498278941.99951
)

// ObserverMode distinguishes manual control from an active journey.
type ObserverMode int

const (
	ModeFree ObserverMode = iota
	ModeTravelling
)

func (m ObserverMode) String() string {
	switch m {
	case ModeFree:
		return "free"
	case ModeTravelling:
		return "travelling"
	default:
		return "unknown"
	}
}

// EventSink receives notifications about observer state transitions. It is
// implemented by the observability layer; all methods must be cheap and
// non-blocking.
type EventSink interface {
	JourneyStarted(traj TrajectoryType)
	JourneyCompleted()
	FrameSwitched(cs CoordinateSystem)
}

// Observer is a virtual camera moving through the universe.
//
// The fields position and orientation are expressed in the observer's
// reference frame; positionUniv and orientationUniv are the equivalent
// values in universal coordinates. The two representations are kept in sync:
// normally position and orientation are modified and updateUniversal derives
// the universal mirror, but when the frame changes the universal values stay
// fixed and the frame-local values are rederived instead.
type Observer struct {
	simTime float64 // Julian date

	position    astro.UniversalCoord
	orientation mathutil.Quat

	positionUniv    astro.UniversalCoord
	orientationUniv mathutil.Quat

	velocity        mathutil.Vec3 // frame coordinates, km/s
	angularVelocity mathutil.Vec3 // camera coordinates, rad/s

	frame *ObserverFrame

	realTime float64 // seconds

	targetSpeed     float64
	targetVelocity  mathutil.Vec3
	initialVelocity mathutil.Vec3
	beginAccelTime  float64

	mode    ObserverMode
	journey JourneyParams

	trackObject         model.Selection
	trackingOrientation mathutil.Quat

	fov              float64
	reverseFlag      bool
	locationFilter   uint64
	displayedSurface string

	events EventSink
	log    logging.Logger
}

// New returns an observer at the barycenter with identity orientation, in
// the universal frame.
func New() *Observer {
	o := &Observer{
		orientation:         mathutil.QuatIdentity(),
		orientationUniv:     mathutil.QuatIdentity(),
		trackingOrientation: mathutil.QuatIdentity(),
		frame:               NewUniversalObserverFrame(),
		fov:                 math.Pi / 4.0,
		locationFilter:      ^uint64(0),
		log:                 logging.Noop(),
	}
	o.journey.InitialOrientation = mathutil.QuatIdentity()
	o.journey.FinalOrientation = mathutil.QuatIdentity()
	o.journey.Rotation1 = mathutil.QuatIdentity()
	o.updateUniversal()
	return o
}

// SetLogger replaces the observer's logger. A nil logger disables logging.
func (o *Observer) SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.Noop()
	}
	o.log = l
}

// SetEventSink installs a sink for state-transition notifications.
func (o *Observer) SetEventSink(s EventSink) { o.events = s }

// Time returns the current simulation time as a Julian date (TDB).
func (o *Observer) Time() float64 { return o.simTime }

// RealTime returns the wall-clock time of the observer in seconds.
func (o *Observer) RealTime() float64 { return o.realTime }

// SetTime sets the simulation time (Julian date, TDB).
func (o *Observer) SetTime(jd float64) {
	o.simTime = jd
	o.updateUniversal()
}

// Position returns the observer's position in universal coordinates.
func (o *Observer) Position() astro.UniversalCoord { return o.positionUniv }

// SetPosition places the observer; the position is given in universal
// coordinates.
func (o *Observer) SetPosition(p astro.UniversalCoord) {
	o.positionUniv = p
	o.position = o.frame.ConvertFromUniversal(p, o.simTime)
}

// Orientation returns the observer's orientation in the universal coordinate
// system.
func (o *Observer) Orientation() mathutil.Quat { return o.orientationUniv }

// SetOrientation sets the observer's orientation, given in the universal
// coordinate system.
func (o *Observer) SetOrientation(q mathutil.Quat) {
	o.orientationUniv = q
	o.orientation = o.frame.OrientationFromUniversal(q, o.simTime)
}

// Velocity returns the observer's velocity within its reference frame, km/s.
func (o *Observer) Velocity() mathutil.Vec3 { return o.velocity }

// SetVelocity sets the observer's velocity within its reference frame, km/s.
func (o *Observer) SetVelocity(v mathutil.Vec3) { o.velocity = v }

// AngularVelocity returns the camera-space angular velocity in rad/s.
func (o *Observer) AngularVelocity() mathutil.Vec3 { return o.angularVelocity }

// SetAngularVelocity sets the camera-space angular velocity in rad/s.
func (o *Observer) SetAngularVelocity(v mathutil.Vec3) { o.angularVelocity = v }

// Mode reports whether the observer is under manual control or travelling.
func (o *Observer) Mode() ObserverMode { return o.mode }

// SetMode forces the observer mode.
func (o *Observer) SetMode(m ObserverMode) { o.mode = m }

// ArrivalTime returns the real time at which the active journey completes,
// or the current real time when no journey is active.
func (o *Observer) ArrivalTime() float64 {
	if o.mode != ModeTravelling {
		return o.realTime
	}
	return o.journey.StartTime + o.journey.Duration
}

// FOV returns the vertical field of view in radians.
func (o *Observer) FOV() float64 { return o.fov }

// SetFOV sets the vertical field of view in radians.
func (o *Observer) SetFOV(fov float64) { o.fov = fov }

// TrackedObject returns the selection the observer keeps centered, or the
// empty selection when tracking is off.
func (o *Observer) TrackedObject() model.Selection { return o.trackObject }

// SetTrackedObject enables tracking of a selection; the empty selection
// disables tracking.
func (o *Observer) SetTrackedObject(sel model.Selection) { o.trackObject = sel }

// LocationFilter returns the bit mask of location feature classes shown when
// the observer is near a body surface.
func (o *Observer) LocationFilter() uint64 { return o.locationFilter }

// SetLocationFilter sets the location feature class mask.
func (o *Observer) SetLocationFilter(filter uint64) { o.locationFilter = filter }

// DisplayedSurface returns the name of the alternate surface texture shown
// for the body the observer is near; "" is the default surface.
func (o *Observer) DisplayedSurface() string { return o.displayedSurface }

// SetDisplayedSurface selects an alternate surface texture by name.
func (o *Observer) SetDisplayedSurface(surf string) { o.displayedSurface = surf }

// ReverseOrientation turns the observer to look behind itself.
func (o *Observer) ReverseOrientation() {
	o.SetOrientation(mathutil.QuatMul(o.Orientation(), mathutil.YRotation(math.Pi)))
	o.reverseFlag = !o.reverseFlag
}

// Update ticks the simulation by dt seconds of real time, advancing
// simulation time by dt*timeScale. It applies an active journey, the
// velocity ramp, free travel, angular velocity, and tracking.
func (o *Observer) Update(dt, timeScale float64) {
	o.realTime += dt
	o.simTime += (dt / astro.SecondsPerDay) * timeScale

	if o.simTime >= maximumSimTime {
		o.simTime = maximumSimTime
	}
	if o.simTime <= minimumSimTime {
		o.simTime = minimumSimTime
	}

	if o.mode == ModeTravelling {
		// Fraction of the trip elapsed; a zero duration skips directly to
		// the destination.
		t := 1.0
		if o.journey.Duration > 0 {
			t = mathutil.Clamp((o.realTime-o.journey.StartTime)/o.journey.Duration, 0, 1)
		}

		jv := o.journey.To.OffsetFromKm(o.journey.From)
		p := o.journeyPosition(t, jv)

		// Spherically interpolate the orientation over the interpolation
		// window of the journey.
		var q mathutil.Quat
		switch {
		case t < o.journey.StartInterpolation:
			q = o.journey.InitialOrientation
		case t >= o.journey.EndInterpolation:
			q = o.journey.FinalOrientation
		default:
			var v float64
			if o.journey.Trajectory == TrajectoryCircularOrbit {
				// Orientation interpolation must match the position
				// interpolation.
				v = t
			} else {
				// Smooth out the interpolation to avoid jarring changes
				// in orientation.
				s := (t - o.journey.StartInterpolation) /
					(o.journey.EndInterpolation - o.journey.StartInterpolation)
				sn := math.Sin(s * math.Pi / 2.0)
				v = sn * sn
			}
			q = mathutil.QuatSlerp(o.journey.InitialOrientation, o.journey.FinalOrientation, v)
		}

		o.position = p
		o.orientation = q

		// Journey complete; return to manual control.
		if t == 1.0 {
			if o.journey.Trajectory != TrajectoryCircularOrbit {
				o.position = o.journey.To
				o.orientation = o.journey.FinalOrientation
			}
			o.mode = ModeFree
			o.velocity = mathutil.Vec3{}
			o.log.Debug(context.Background(), "journey complete",
				logging.String("trajectory", o.journey.Trajectory.String()))
			if o.events != nil {
				o.events.JourneyCompleted()
			}
		}
	}

	if o.velocity != o.targetVelocity {
		t := mathutil.Clamp((o.realTime-o.beginAccelTime)/velocityChangeTime, 0, 1)
		v := o.velocity.Scale(1 - t).Add(o.targetVelocity.Scale(t))

		// Below a threshold, snap the velocity to zero to avoid crawling
		// along at some absurdly tiny speed forever.
		if v.Norm() < 1.0e-12 {
			v = mathutil.Vec3{}
		}
		o.velocity = v
	}

	o.position = o.position.OffsetKm(o.velocity.Scale(dt))

	if o.mode == ModeFree {
		// First-order integration of the angular velocity.
		halfAV := o.angularVelocity.Scale(0.5)
		dr := mathutil.QuatMul(mathutil.Quat{X: halfAV.X, Y: halfAV.Y, Z: halfAV.Z}, o.orientation)
		o.orientation = mathutil.QuatNormalize(mathutil.QuatAddScaled(o.orientation, dt, dr))
	}

	o.updateUniversal()

	// Tracking must come after updateUniversal; it works with the universal
	// position and orientation.
	if !o.trackObject.Empty() {
		up := mathutil.Rotate(mathutil.QuatConj(o.Orientation()), mathutil.UnitY())
		viewDir := o.trackObject.PositionAt(o.simTime).OffsetFromKm(o.Position()).Normalized()
		o.SetOrientation(mathutil.LookAt(mathutil.Vec3{}, viewDir, up))
	}
}

// journeyPosition evaluates the position along the active journey at trip
// fraction t, in frame coordinates. jv is the frame-space displacement from
// journey start to journey end.
func (o *Observer) journeyPosition(t float64, jv mathutil.Vec3) astro.UniversalCoord {
	// Accelerate exponentially, coast at constant velocity, then decelerate
	// symmetrically. AccelTime controls the fraction of each half-trip spent
	// accelerating; 1 means no coasting at all.
	u := t * 2
	if t >= 0.5 {
		u = (1 - t) * 2
	}
	x := travelDistance(o.journey.ExpFactor, o.journey.AccelTime, u)

	switch o.journey.Trajectory {
	case TrajectoryGreatCircle:
		centerObj := o.frame.RefObject()
		if centerObj.Body != nil && !centerObj.Body.Parent.Empty() {
			// Arc around whatever the reference body itself orbits.
			centerObj = centerObj.Body.Parent
		}

		ufrom := o.frame.ConvertToUniversal(o.journey.From, o.simTime)
		uto := o.frame.ConvertToUniversal(o.journey.To, o.simTime)
		origin := centerObj.PositionAt(o.simTime)
		v0 := ufrom.OffsetFromKm(origin)
		v1 := uto.OffsetFromKm(origin)

		if jv.Norm() == 0 {
			return o.journey.From
		}

		x /= jv.Norm()
		var v mathutil.Vec3
		if t < 0.5 {
			v = mathutil.SlerpVec(x, v0, v1)
		} else {
			v = mathutil.SlerpVec(x, v1, v0)
		}
		return o.frame.ConvertFromUniversal(origin.OffsetKm(v), o.simTime)

	case TrajectoryCircularOrbit:
		centerObj := o.frame.RefObject()
		ufrom := o.frame.ConvertToUniversal(o.journey.From, o.simTime)
		origin := centerObj.PositionAt(o.simTime)
		v0 := ufrom.OffsetFromKm(origin)

		if jv.Norm() == 0 {
			return o.journey.From
		}

		q := mathutil.QuatSlerp(mathutil.QuatIdentity(), o.journey.Rotation1, t)
		p := origin.OffsetKm(mathutil.Rotate(mathutil.QuatConj(q), v0))
		return o.frame.ConvertFromUniversal(p, o.simTime)

	default: // TrajectoryLinear
		if jv.Norm() == 0 {
			return o.journey.From
		}
		dir := jv.Normalized()
		if t < 0.5 {
			return o.journey.From.OffsetKm(dir.Scale(x))
		}
		return o.journey.To.OffsetKm(dir.Scale(-x))
	}
}

// updateUniversal refreshes the universal mirror of the frame-local position
// and orientation.
func (o *Observer) updateUniversal() {
	newPositionUniv := o.frame.ConvertToUniversal(o.position, o.simTime)
	if newPositionUniv.IsOutOfBounds() {
		// The new position would leave the usable coordinate range.
		// positionUniv still holds an in-range position, so rederive the
		// frame-local position from it to keep the two consistent.
		o.position = o.frame.ConvertFromUniversal(o.positionUniv, o.simTime)
	} else {
		o.positionUniv = newPositionUniv
	}

	o.orientationUniv = o.frame.OrientationToUniversal(o.orientation, o.simTime)
}

// convertFrameCoordinates re-expresses the frame-local state, including the
// goto parameters, in a new frame. The universal coordinates do not change:
// switching frames never moves the camera.
func (o *Observer) convertFrameCoordinates(newFrame *ObserverFrame) {
	now := o.simTime

	o.position = newFrame.ConvertFromUniversal(o.positionUniv, now)
	o.orientation = newFrame.OrientationFromUniversal(o.orientationUniv, now)

	o.journey.From = ConvertPosition(o.journey.From, o.frame, newFrame, now)
	o.journey.To = ConvertPosition(o.journey.To, o.frame, newFrame, now)
	o.journey.InitialOrientation = ConvertOrientation(o.journey.InitialOrientation, o.frame, newFrame, now)
	o.journey.FinalOrientation = ConvertOrientation(o.journey.FinalOrientation, o.frame, newFrame, now)
}

// SetFrame attaches the observer to a new reference frame built from a
// coordinate system and reference object. The observer does not move.
func (o *Observer) SetFrame(cs CoordinateSystem, refObj, targetObj model.Selection) {
	newFrame := NewObserverFrame(cs, refObj, targetObj)
	o.convertFrameCoordinates(newFrame)
	o.frame = newFrame
	o.log.Debug(context.Background(), "frame switched",
		logging.String("coord_sys", cs.String()),
		logging.String("ref_object", refObj.Name()))
	if o.events != nil {
		o.events.FrameSwitched(cs)
	}
}

// SetObserverFrame attaches the observer to an already-built frame. The
// observer does not move.
func (o *Observer) SetObserverFrame(f *ObserverFrame) {
	if f == nil || f == o.frame {
		return
	}
	o.convertFrameCoordinates(f)
	o.frame = f
	if o.events != nil {
		o.events.FrameSwitched(f.CoordinateSystem())
	}
}

// Frame returns the observer's current reference frame.
func (o *Observer) Frame() *ObserverFrame { return o.frame }

// Rotate spins the observer about its own center.
func (o *Observer) Rotate(q mathutil.Quat) {
	o.orientation = mathutil.QuatMul(q, o.orientation)
	o.updateUniversal()
}

// Orbit rotates the observer around the frame's reference object, changing
// both position and orientation. When the frame has no reference object the
// given selection becomes the new frame center.
func (o *Observer) Orbit(sel model.Selection, q mathutil.Quat) {
	center := o.frame.RefObject()
	if center.Empty() && !sel.Empty() {
		center = sel
		o.SetFrame(o.frame.CoordinateSystem(), center, model.Selection{})
	}
	if center.Empty() {
		return
	}

	// Work in frame coordinates so the operation behaves the same in every
	// frame of reference.
	focusPosition := o.frame.ConvertFromUniversal(center.PositionAt(o.simTime), o.simTime)
	v := o.position.OffsetFromKm(focusPosition)

	// The rotation should feel like a premultiplication of the current
	// orientation, but transforms are applied in the other order. Compute
	// q2 such that q*r == r*q2 instead.
	q2 := mathutil.QuatNormalize(mathutil.QuatMul(mathutil.QuatMul(mathutil.QuatConj(o.orientation), q), o.orientation))

	// Rescale to the previous distance, otherwise roundoff accumulates and
	// the viewer drifts toward or away from the focus.
	distance := v.Norm()
	v = mathutil.Rotate(mathutil.QuatConj(q2), v).Normalized().Scale(distance)

	o.orientation = mathutil.QuatMul(o.orientation, q2)
	o.position = focusPosition.OffsetKm(v)
	o.updateUniversal()
}

// ChangeOrbitDistance is an exponential camera dolly: it moves toward or
// away from the selected object at a rate that depends on the current
// distance. Negative d moves inward.
func (o *Observer) ChangeOrbitDistance(sel model.Selection, d float64) {
	center := o.frame.RefObject()
	if center.Empty() && !sel.Empty() {
		center = sel
		o.SetFrame(o.frame.CoordinateSystem(), center, model.Selection{})
	}
	if center.Empty() {
		return
	}

	focusPosition := center.PositionAt(o.simTime)
	size := center.Radius()

	// Tuned to give the dolly a nice feel.
	minOrbitDistance := size
	naturalOrbitDistance := 4.0 * size

	v := o.Position().OffsetFromKm(focusPosition)
	currentDistance := v.Norm()

	if currentDistance < minOrbitDistance {
		minOrbitDistance = currentDistance * 0.5
	}

	if currentDistance >= minOrbitDistance && naturalOrbitDistance != 0 {
		r := (currentDistance - minOrbitDistance) / naturalOrbitDistance
		newDistance := minOrbitDistance + naturalOrbitDistance*math.Exp(math.Log(r)+d)
		v = v.Scale(newDistance / currentDistance)

		o.position = o.frame.ConvertFromUniversal(focusPosition.OffsetKm(v), o.simTime)
		o.updateUniversal()
	}
}

// SetTargetSpeed sets the speed, in km/s, the observer accelerates toward
// along its view direction (or the tracking direction while tracking).
func (o *Observer) SetTargetSpeed(s float64) {
	o.targetSpeed = s
	if o.reverseFlag {
		s = -s
	}

	var v mathutil.Vec3
	if o.trackObject.Empty() {
		o.trackingOrientation = o.Orientation()
		v = mathutil.Rotate(mathutil.QuatConj(o.Orientation()), mathutil.Vec3{Z: -s})
	} else {
		v = mathutil.Rotate(mathutil.QuatConj(o.trackingOrientation), mathutil.Vec3{Z: -s})
	}

	o.targetVelocity = v
	o.initialVelocity = o.velocity
	o.beginAccelTime = o.realTime
}

// TargetSpeed returns the most recently requested speed in km/s.
func (o *Observer) TargetSpeed() float64 { return o.targetSpeed }

// GotoJourney starts a journey from explicit parameters. The exponential
// factor and start time are recomputed; everything else is taken as given.
func (o *Observer) GotoJourney(params JourneyParams) {
	o.journey = params
	halfDist := o.journey.From.OffsetFromKm(o.journey.To).Norm() / 2.0
	o.journey.ExpFactor = calibrateExpFactor(halfDist, o.journey.AccelTime)
	o.journey.StartTime = o.realTime
	o.startJourney()
}

func (o *Observer) startJourney() {
	o.mode = ModeTravelling
	o.log.Debug(context.Background(), "journey started",
		logging.String("trajectory", o.journey.Trajectory.String()),
		logging.Float64("duration_s", o.journey.Duration))
	if o.events != nil {
		o.events.JourneyStarted(o.journey.Trajectory)
	}
}

// GotoSelection travels to a selection over gotoTime seconds, arriving at an
// automatically chosen distance with the final orientation's up vector taken
// from upFrame.
func (o *Observer) GotoSelection(sel model.Selection, gotoTime float64, up mathutil.Vec3, upFrame CoordinateSystem) {
	o.GotoSelectionWithWindow(sel, gotoTime, StartInterpolation, EndInterpolation, AccelerationTime, up, upFrame)
}

// GotoSelectionWithWindow is GotoSelection with explicit control over the
// orientation interpolation window and acceleration fraction.
func (o *Observer) GotoSelectionWithWindow(sel model.Selection, gotoTime, startInter, endInter, accelTime float64, up mathutil.Vec3, upFrame CoordinateSystem) {
	if sel.Empty() {
		return
	}

	pos := sel.PositionAt(o.simTime)
	v := pos.OffsetFromKm(o.Position())
	distance := v.Norm()
	dist := orbitDistance(sel, distance)

	o.computeGotoParameters(sel, gotoTime, startInter, endInter, accelTime,
		v.Scale(-dist/distance), CoordSysUniversal, up, upFrame)
	o.startJourney()
}

// GotoSelectionDistance travels to a selection, stopping at the given
// distance in kilometres along the current line of sight.
func (o *Observer) GotoSelectionDistance(sel model.Selection, gotoTime, distance float64, up mathutil.Vec3, upFrame CoordinateSystem) {
	if sel.Empty() {
		return
	}

	// The destination lies along the line between the current position and
	// the object.
	pos := sel.PositionAt(o.simTime)
	v := pos.OffsetFromKm(o.Position()).Normalized()

	o.computeGotoParameters(sel, gotoTime, StartInterpolation, EndInterpolation, AccelerationTime,
		v.Scale(-distance), CoordSysUniversal, up, upFrame)
	o.startJourney()
}

// GotoSelectionGC travels to a selection along a great circle around the
// selection's parent, which avoids passing through the parent body when
// moving between surface locations.
func (o *Observer) GotoSelectionGC(sel model.Selection, gotoTime float64, up mathutil.Vec3, upFrame CoordinateSystem) {
	if sel.Empty() {
		return
	}

	centerObj := sel.Parent()

	pos := sel.PositionAt(o.simTime)
	v := pos.OffsetFromKm(centerObj.PositionAt(o.simTime))
	distanceToCenter := v.Norm()
	viewVec := pos.OffsetFromKm(o.Position())
	dist := orbitDistance(sel, viewVec.Norm())

	if sel.Location != nil {
		// Stay outside the parent body when it's already close by.
		parent := sel.Parent()
		maintainDist := PreferredDistance(parent)
		parentDist := parent.PositionAt(o.simTime).OffsetFromKm(o.Position()).Norm() - parent.Radius()
		if parentDist <= maintainDist && parentDist > dist {
			dist = parentDist
		}
	}

	o.computeGotoParametersGC(sel, gotoTime, v.Scale(dist/distanceToCenter), up, upFrame, centerObj)
	o.startJourney()
}

// GotoSelectionGCDistance is GotoSelectionGC with an explicit final distance
// in kilometres, measured along the line from the parent through the
// selection.
func (o *Observer) GotoSelectionGCDistance(sel model.Selection, gotoTime, distance float64, up mathutil.Vec3, upFrame CoordinateSystem) {
	if sel.Empty() {
		return
	}

	centerObj := sel.Parent()
	pos := sel.PositionAt(o.simTime)
	v := pos.OffsetFromKm(centerObj.PositionAt(o.simTime)).Normalized()

	o.computeGotoParametersGC(sel, gotoTime, v.Scale(-distance), up, upFrame, centerObj)
	o.startJourney()
}

// GotoSelectionLongLat travels to planetocentric coordinates above a
// selection: distance from the center in kilometres, longitude and latitude
// in radians.
func (o *Observer) GotoSelectionLongLat(sel model.Selection, gotoTime, distance, longitude, latitude float64, up mathutil.Vec3) {
	if sel.Empty() {
		return
	}

	phi := -latitude + math.Pi/2.0
	theta := longitude
	offset := mathutil.Vec3{
		X: math.Cos(theta) * math.Sin(phi),
		Y: math.Cos(phi),
		Z: -math.Sin(theta) * math.Sin(phi),
	}
	o.computeGotoParameters(sel, gotoTime, StartInterpolation, EndInterpolation, AccelerationTime,
		offset.Scale(distance), CoordSysBodyFixed, up, CoordSysBodyFixed)
	o.startJourney()
}

// GotoLocation travels to an explicit frame-local position and orientation.
func (o *Observer) GotoLocation(toPosition astro.UniversalCoord, toOrientation mathutil.Quat, duration float64) {
	o.journey.StartTime = o.realTime
	o.journey.Duration = duration
	o.journey.Trajectory = TrajectoryLinear
	o.journey.CenterObject = model.Selection{}

	o.journey.From = o.position
	o.journey.InitialOrientation = o.orientation
	o.journey.To = toPosition
	o.journey.FinalOrientation = toOrientation

	o.journey.StartInterpolation = StartInterpolation
	o.journey.EndInterpolation = EndInterpolation

	o.journey.AccelTime = AccelerationTime
	halfDist := o.journey.From.OffsetFromKm(o.journey.To).Norm() / 2.0
	o.journey.ExpFactor = calibrateExpFactor(halfDist, o.journey.AccelTime)

	o.startJourney()
}

// GotoSurface descends to just above the surface of a selection, keeping the
// current view direction when it faces away from the body.
func (o *Observer) GotoSurface(sel model.Selection, duration float64) {
	v := o.Position().OffsetFromKm(sel.PositionAt(o.simTime)).Normalized()

	viewDir := mathutil.Rotate(mathutil.QuatConj(o.orientationUniv), mathutil.Vec3{Z: -1})
	up := mathutil.Rotate(mathutil.QuatConj(o.orientationUniv), mathutil.UnitY())
	q := o.orientationUniv
	if v.Dot(viewDir) < 0.0 {
		q = mathutil.LookAt(mathutil.Vec3{}, up, v)
	}

	frame := NewObserverFrame(CoordSysBodyFixed, sel, model.Selection{})
	bfPos := frame.ConvertFromUniversal(o.positionUniv, o.simTime)
	q = frame.OrientationFromUniversal(q, o.simTime)

	height := 1.0001 * sel.Radius()
	dir := bfPos.ToKm().Normalized().Scale(height)
	nearSurfacePoint := astro.UniversalCoordFromKmVec(dir)

	o.GotoLocation(nearSurfacePoint, q, duration)
}

// SelectionLongLat returns the observer's distance (km), longitude and
// latitude (degrees) relative to a selection. The empty selection yields
// zeros.
func (o *Observer) SelectionLongLat(sel model.Selection) (distance, longitude, latitude float64) {
	if sel.Empty() {
		return 0, 0, 0
	}

	frame := NewObserverFrame(CoordSysBodyFixed, sel, model.Selection{})
	bfPos := frame.ConvertFromUniversal(o.positionUniv, o.simTime).ToKm()

	// Convert from engine axes to planetographic axes.
	x := bfPos.X
	y := -bfPos.Z
	z := bfPos.Y

	distance = bfPos.Norm()
	longitude = math.Atan2(y, x) * 180.0 / math.Pi
	latitude = (math.Pi/2.0 - math.Acos(z/distance)) * 180.0 / math.Pi
	return distance, longitude, latitude
}

// CenterSelection rotates the camera to bring a selection into the center of
// the view without moving through space.
func (o *Observer) CenterSelection(sel model.Selection, centerTime float64) {
	if sel.Empty() {
		return
	}
	o.computeCenterParameters(sel, centerTime)
	o.startJourney()
}

// CenterSelectionCO centers a selection by moving the observer along a
// circular orbit around the frame's reference object.
func (o *Observer) CenterSelectionCO(sel model.Selection, centerTime float64) {
	if sel.Empty() || o.frame.RefObject().Empty() {
		return
	}
	o.computeCenterCOParameters(sel, centerTime)
	o.startJourney()
}

// CancelMotion aborts an active journey, leaving the observer wherever it
// currently is.
func (o *Observer) CancelMotion() {
	o.mode = ModeFree
}

// Follow attaches the observer to an ecliptical frame centered on the
// selection.
func (o *Observer) Follow(sel model.Selection) {
	o.SetFrame(CoordSysEcliptical, sel, model.Selection{})
}

// GeosynchronousFollow attaches the observer to the selection's body-fixed
// frame, so it hovers over a fixed point of the rotating surface.
func (o *Observer) GeosynchronousFollow(sel model.Selection) {
	if sel.Body != nil || sel.Location != nil || sel.Star != nil {
		o.SetFrame(CoordSysBodyFixed, sel, model.Selection{})
	}
}

// PhaseLock attaches the observer to a frame that keeps the current
// reference object and the selection aligned, useful for watching an
// eclipse or a conjunction. Selecting the reference object itself locks it
// to its star instead.
func (o *Observer) PhaseLock(sel model.Selection) {
	refObject := o.frame.RefObject()

	if sel != refObject {
		if refObject.Body != nil || refObject.Star != nil {
			o.SetFrame(CoordSysPhaseLock, refObject, sel)
		}
		return
	}

	// Selection and reference object are identical, so the frame would be
	// degenerate; use the object's star as the target instead.
	if sel.Body != nil {
		if star := sel.Body.SystemStar(); star != nil {
			o.SetFrame(CoordSysPhaseLock, sel, model.Selection{Star: star})
		}
	}
}

// Chase attaches the observer to a frame aligned with the selection's
// velocity around its parent.
func (o *Observer) Chase(sel model.Selection) {
	if sel.Body != nil || sel.Star != nil {
		o.SetFrame(CoordSysChase, sel, model.Selection{})
	}
}

// PickRay returns the camera-space direction through normalized viewport
// coordinates (x, y), for a perspective projection with the observer's
// current field of view.
func (o *Observer) PickRay(x, y float64) mathutil.Vec3 {
	s := 2 * math.Tan(o.fov/2.0)
	return mathutil.Vec3{X: x * s, Y: y * s, Z: -1}.Normalized()
}

// PickRayFisheye is PickRay for a fisheye projection.
func (o *Observer) PickRayFisheye(x, y float64) mathutil.Vec3 {
	r := math.Hypot(x, y)
	phi := math.Pi * r
	sinPhi := math.Sin(phi)
	theta := math.Atan2(y, x)
	return mathutil.Vec3{
		X: sinPhi * math.Cos(theta),
		Y: sinPhi * math.Sin(theta),
		Z: -math.Cos(phi),
	}.Normalized()
}

// CopyFrom makes o a copy of another observer, rebuilding the frame-local
// state against the source's frame.
func (o *Observer) CopyFrom(src *Observer) {
	o.simTime = src.simTime
	o.position = src.position
	o.orientation = src.orientation
	o.velocity = src.velocity
	o.angularVelocity = src.angularVelocity
	o.realTime = src.realTime
	o.targetSpeed = src.targetSpeed
	o.targetVelocity = src.targetVelocity
	o.initialVelocity = src.initialVelocity
	o.beginAccelTime = src.beginAccelTime
	o.mode = src.mode
	o.journey = src.journey
	o.trackObject = src.trackObject
	o.trackingOrientation = src.trackingOrientation
	o.fov = src.fov
	o.reverseFlag = src.reverseFlag
	o.locationFilter = src.locationFilter
	o.displayedSurface = src.displayedSurface

	// The copied frame-local state is already expressed in the source's
	// frame, so adopt that frame without converting.
	o.frame = src.frame
	o.updateUniversal()
}

func (o *Observer) computeGotoParameters(dest model.Selection, gotoTime, startInter, endInter, accelTime float64, offset mathutil.Vec3, offsetCoordSys CoordinateSystem, up mathutil.Vec3, upCoordSys CoordinateSystem) {
	if o.frame.CoordinateSystem() == CoordSysPhaseLock {
		o.SetFrame(CoordSysEcliptical, dest, model.Selection{})
	} else {
		o.SetFrame(o.frame.CoordinateSystem(), dest, model.Selection{})
	}

	targetPosition := dest.PositionAt(o.simTime)

	o.journey.Trajectory = TrajectoryLinear
	o.journey.Duration = gotoTime
	o.journey.StartTime = o.realTime
	o.journey.CenterObject = model.Selection{}

	// Right where we are now . . .
	from := o.Position()

	var to astro.UniversalCoord
	if offsetCoordSys == CoordSysObserverLocal {
		to = targetPosition.OffsetKm(mathutil.Rotate(mathutil.QuatConj(o.orientationUniv), offset))
	} else {
		offsetFrame := NewObserverFrame(offsetCoordSys, dest, model.Selection{})
		to = targetPosition.OffsetKm(mathutil.Rotate(mathutil.QuatConj(offsetFrame.Frame().Orientation(o.simTime)), offset))
	}

	upd := up
	if upCoordSys == CoordSysObserverLocal {
		upd = mathutil.Rotate(mathutil.QuatConj(o.orientationUniv), upd)
	} else {
		upFrame := NewObserverFrame(upCoordSys, dest, model.Selection{})
		upd = mathutil.Rotate(mathutil.QuatConj(upFrame.Frame().Orientation(o.simTime)), upd)
	}

	initialOrientation := o.Orientation()
	focus := targetPosition.OffsetFromKm(to)
	finalOrientation := mathutil.LookAt(mathutil.Vec3{}, focus, upd)
	o.journey.StartInterpolation = math.Min(startInter, endInter)
	o.journey.EndInterpolation = math.Max(startInter, endInter)

	o.journey.AccelTime = accelTime
	halfDist := from.OffsetFromKm(to).Norm() / 2.0
	o.journey.ExpFactor = calibrateExpFactor(halfDist, accelTime)

	// Store in frame coordinates.
	o.journey.From = o.frame.ConvertFromUniversal(from, o.simTime)
	o.journey.To = o.frame.ConvertFromUniversal(to, o.simTime)
	o.journey.InitialOrientation = o.frame.OrientationFromUniversal(initialOrientation, o.simTime)
	o.journey.FinalOrientation = o.frame.OrientationFromUniversal(finalOrientation, o.simTime)
}

func (o *Observer) computeGotoParametersGC(dest model.Selection, gotoTime float64, offset mathutil.Vec3, up mathutil.Vec3, upCoordSys CoordinateSystem, centerObj model.Selection) {
	o.SetFrame(o.frame.CoordinateSystem(), dest, model.Selection{})

	targetPosition := dest.PositionAt(o.simTime)

	o.journey.Trajectory = TrajectoryGreatCircle
	o.journey.Duration = gotoTime
	o.journey.StartTime = o.realTime
	o.journey.CenterObject = centerObj

	from := o.Position()

	offsetFrame := NewObserverFrame(CoordSysUniversal, dest, model.Selection{})
	to := targetPosition.OffsetKm(mathutil.Rotate(mathutil.QuatConj(offsetFrame.Frame().Orientation(o.simTime)), offset))

	upd := up
	if upCoordSys == CoordSysObserverLocal {
		upd = mathutil.Rotate(mathutil.QuatConj(o.orientationUniv), upd)
	} else {
		upFrame := NewObserverFrame(upCoordSys, dest, model.Selection{})
		upd = mathutil.Rotate(mathutil.QuatConj(upFrame.Frame().Orientation(o.simTime)), upd)
	}

	initialOrientation := o.Orientation()
	focus := targetPosition.OffsetFromKm(to)
	finalOrientation := mathutil.LookAt(mathutil.Vec3{}, focus, upd)
	o.journey.StartInterpolation = StartInterpolation
	o.journey.EndInterpolation = EndInterpolation

	o.journey.AccelTime = AccelerationTime
	halfDist := from.OffsetFromKm(to).Norm() / 2.0
	o.journey.ExpFactor = calibrateExpFactor(halfDist, AccelerationTime)

	o.journey.From = o.frame.ConvertFromUniversal(from, o.simTime)
	o.journey.To = o.frame.ConvertFromUniversal(to, o.simTime)
	o.journey.InitialOrientation = o.frame.OrientationFromUniversal(initialOrientation, o.simTime)
	o.journey.FinalOrientation = o.frame.OrientationFromUniversal(finalOrientation, o.simTime)
}

func (o *Observer) computeCenterParameters(dest model.Selection, centerTime float64) {
	targetPosition := dest.PositionAt(o.simTime)

	o.journey.Duration = centerTime
	o.journey.StartTime = o.realTime
	o.journey.Trajectory = TrajectoryLinear
	o.journey.CenterObject = model.Selection{}

	// Don't move through space, just rotate the camera.
	from := o.Position()
	to := from

	up := mathutil.Rotate(mathutil.QuatConj(o.Orientation()), mathutil.UnitY())

	initialOrientation := o.Orientation()
	focus := targetPosition.OffsetFromKm(to)
	finalOrientation := mathutil.LookAt(mathutil.Vec3{}, focus, up)
	o.journey.StartInterpolation = 0
	o.journey.EndInterpolation = 1

	o.journey.AccelTime = 0.5
	o.journey.ExpFactor = 0

	o.journey.From = o.frame.ConvertFromUniversal(from, o.simTime)
	o.journey.To = o.frame.ConvertFromUniversal(to, o.simTime)
	o.journey.InitialOrientation = o.frame.OrientationFromUniversal(initialOrientation, o.simTime)
	o.journey.FinalOrientation = o.frame.OrientationFromUniversal(finalOrientation, o.simTime)
}

func (o *Observer) computeCenterCOParameters(dest model.Selection, centerTime float64) {
	o.journey.Duration = centerTime
	o.journey.StartTime = o.realTime
	o.journey.Trajectory = TrajectoryCircularOrbit

	o.journey.CenterObject = o.frame.RefObject()
	o.journey.ExpFactor = 0.5
	o.journey.AccelTime = AccelerationTime

	v := dest.PositionAt(o.simTime).OffsetFromKm(o.Position()).Normalized()
	w := mathutil.Rotate(mathutil.QuatConj(o.Orientation()), mathutil.Vec3{Z: -1})

	centerObj := o.frame.RefObject()
	centerPos := centerObj.PositionAt(o.simTime)

	q := mathutil.QuatFromTwoVectors(v, w)

	from := o.Position()
	to := centerPos.OffsetKm(mathutil.Rotate(mathutil.QuatConj(q), o.Position().OffsetFromKm(centerPos)))
	initialOrientation := o.Orientation()
	finalOrientation := mathutil.QuatMul(o.Orientation(), q)

	o.journey.StartInterpolation = 0.0
	o.journey.EndInterpolation = 1.0

	o.journey.Rotation1 = q

	o.journey.From = o.frame.ConvertFromUniversal(from, o.simTime)
	o.journey.To = o.frame.ConvertFromUniversal(to, o.simTime)
	o.journey.InitialOrientation = o.frame.OrientationFromUniversal(initialOrientation, o.simTime)
	o.journey.FinalOrientation = o.frame.OrientationFromUniversal(finalOrientation, o.simTime)
}
