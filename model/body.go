package model

import (
	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/internal/mathutil"
)

// BodyClassification distinguishes how a body is treated when framing it.
type BodyClassification int

const (
	ClassificationUnknown BodyClassification = iota
	ClassificationPlanet
	ClassificationMoon
	ClassificationAsteroid
	ClassificationSpacecraft
	// ClassificationInvisible marks reference points such as system
	// barycenters; their own radius is meaningless and framing uses the
	// bounding sphere of their children instead.
	ClassificationInvisible
)

// Body is a planet, moon, asteroid, spacecraft, or invisible reference
// point. Bodies are positioned by an orbit around their parent selection
// (another body or a star).
type Body struct {
	Name           string
	RadiusKm       float64
	Classification BodyClassification

	Parent   Selection
	Children []*Body

	Orbit    Orbit
	Rotation RotationModel
}

// PositionAt returns the body's universal position at the given Julian date.
func (b *Body) PositionAt(jd float64) astro.UniversalCoord {
	base := b.Parent.PositionAt(jd)
	if b.Orbit == nil {
		return base
	}
	return base.OffsetKm(b.Orbit.PositionAt(jd))
}

// EquatorOrientation returns the mean-equator attitude (spin axis only).
func (b *Body) EquatorOrientation(jd float64) mathutil.Quat {
	if b.Rotation == nil {
		return mathutil.QuatIdentity()
	}
	return b.Rotation.EquatorOrientation(jd)
}

// BodyFixedOrientation returns the full rotating-body attitude.
func (b *Body) BodyFixedOrientation(jd float64) mathutil.Quat {
	if b.Rotation == nil {
		return mathutil.QuatIdentity()
	}
	return b.Rotation.Orientation(jd)
}

// AddChild links a child body to b, setting the child's parent selection.
func (b *Body) AddChild(child *Body) {
	child.Parent = Selection{Body: b}
	b.Children = append(b.Children, child)
}

// ChildBoundingRadius returns the radius of a sphere around b containing all
// of its children and their orbits. Zero when the body has no children.
func (b *Body) ChildBoundingRadius() float64 {
	var r float64
	for _, c := range b.Children {
		cr := c.RadiusKm
		if c.Orbit != nil {
			cr += c.Orbit.BoundingRadius()
		}
		if cr > r {
			r = cr
		}
	}
	return r
}

// SystemStar walks up the parent chain to the star this body orbits, or nil
// for a body outside any star system.
func (b *Body) SystemStar() *Star {
	sel := b.Parent
	for !sel.Empty() {
		if sel.Star != nil {
			return sel.Star
		}
		if sel.Body == nil {
			return nil
		}
		sel = sel.Body.Parent
	}
	return nil
}
