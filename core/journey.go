package core

import (
	"math"

	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/internal/mathutil"
	"github.com/skyforge/observer-engine/model"
)

// Default journey shape parameters, in fractions of the journey duration.
const (
	JourneyDuration    = 5.0
	StartInterpolation = 0.25
	EndInterpolation   = 0.75
	AccelerationTime   = 0.5
)

// velocityChangeTime is the real-time window, in seconds, over which the
// observer's velocity ramps toward the target velocity.
const velocityChangeTime = 0.25

// TrajectoryType selects the path shape of a journey.
type TrajectoryType int

const (
	TrajectoryLinear TrajectoryType = iota
	TrajectoryGreatCircle
	TrajectoryCircularOrbit
)

func (t TrajectoryType) String() string {
	switch t {
	case TrajectoryLinear:
		return "linear"
	case TrajectoryGreatCircle:
		return "greatcircle"
	case TrajectoryCircularOrbit:
		return "circularorbit"
	default:
		return "unknown"
	}
}

// JourneyParams describes an automated trip between two poses. Positions and
// orientations are stored in the observer's frame coordinates, so an active
// journey tracks a moving reference object.
type JourneyParams struct {
	Duration  float64 // seconds of real time
	StartTime float64 // real time at departure, seconds

	From astro.UniversalCoord
	To   astro.UniversalCoord

	InitialOrientation mathutil.Quat
	FinalOrientation   mathutil.Quat

	// Fraction of the trip over which orientation is interpolated.
	StartInterpolation float64
	EndInterpolation   float64

	Trajectory   TrajectoryType
	CenterObject model.Selection

	// Rotation applied over a circular-orbit trajectory.
	Rotation1 mathutil.Quat

	ExpFactor float64
	AccelTime float64
}

// travelDistance evaluates the accelerate/cruise profile: distance covered
// after a normalized half-trip time u in [0, 1], for exponential factor k and
// acceleration fraction s.
func travelDistance(k, s, u float64) float64 {
	if u < s {
		return math.Exp(k*u) - 1.0
	}
	return math.Exp(k*s)*(k*(u-s)+1.0) - 1.0
}

// calibrateExpFactor solves for the exponential factor that makes the travel
// profile cover half the journey distance in half the journey time.
func calibrateExpFactor(halfDist, accelTime float64) float64 {
	k, _ := mathutil.SolveBisection(func(x float64) float64 {
		return math.Exp(x*accelTime)*(x*(1.0-accelTime)+1.0) - 1.0 - halfDist
	}, 0.0001, 100.0, 1e-10)
	return k
}

// PreferredDistance returns the distance, in kilometres, from which an
// object is best viewed.
func PreferredDistance(sel model.Selection) float64 {
	switch sel.Type() {
	case model.SelectionBody:
		// Reference points are invisible, so their radius is meaningless.
		// Use the bounding sphere of their child objects instead; a goto
		// then places the observer where the whole system is in view.
		if sel.Body.Classification == model.ClassificationInvisible {
			r := sel.Body.RadiusKm
			if cr := sel.Body.ChildBoundingRadius(); cr > 0 {
				r = cr
			}
			return math.Min(0.1*astro.KmPerLy, r*5.0)
		}
		return 5.0 * sel.Radius()

	case model.SelectionDeepSky:
		return 5.0 * sel.Radius()

	case model.SelectionStar:
		if sel.Star.Visible {
			return 100.0 * sel.Radius()
		}
		// A barycenter is viewed from outside the orbits of the stars
		// bound to it.
		if maxOrbitRadius := sel.Star.MaxOrbitBoundingRadius(); maxOrbitRadius > 0 {
			return maxOrbitRadius * 5.0
		}
		return astro.KmPerAu

	case model.SelectionLocation:
		maxDist := PreferredDistance(model.Selection{Body: sel.Location.Parent})
		return math.Max(math.Min(sel.Location.SizeKm*50.0, maxDist), 1.0)

	default:
		return 1.0
	}
}

// orbitDistance decides how close a goto should approach, given the current
// distance from the object: far approaches stop at the preferred distance,
// near ones zoom in tenfold, never closer than just above the surface.
func orbitDistance(sel model.Selection, currentDistance float64) float64 {
	maxDist := PreferredDistance(sel)
	minDist := 1.01 * sel.Radius()
	dist := currentDistance * 0.1
	if currentDistance > maxDist*10.0 {
		dist = maxDist
	}
	return math.Max(dist, minDist)
}
