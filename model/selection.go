// Package model is the celestial object model: bodies, stars, deep-sky
// objects, and surface locations, addressed uniformly through Selection.
package model

import "github.com/skyforge/observer-engine/astro"

// SelectionType discriminates the kind of object a Selection refers to.
type SelectionType int

const (
	SelectionNone SelectionType = iota
	SelectionBody
	SelectionStar
	SelectionDeepSky
	SelectionLocation
)

// Selection is a reference to any selectable object. At most one field is
// non-nil; the zero value is the empty selection. Selections are small and
// passed by value.
type Selection struct {
	Body     *Body
	Star     *Star
	DeepSky  *DeepSky
	Location *Location
}

// Empty reports whether the selection refers to nothing.
func (s Selection) Empty() bool {
	return s.Body == nil && s.Star == nil && s.DeepSky == nil && s.Location == nil
}

// Type returns the kind of object selected.
func (s Selection) Type() SelectionType {
	switch {
	case s.Body != nil:
		return SelectionBody
	case s.Star != nil:
		return SelectionStar
	case s.DeepSky != nil:
		return SelectionDeepSky
	case s.Location != nil:
		return SelectionLocation
	default:
		return SelectionNone
	}
}

// Name returns the selected object's name, or "" for the empty selection.
func (s Selection) Name() string {
	switch {
	case s.Body != nil:
		return s.Body.Name
	case s.Star != nil:
		return s.Star.Name
	case s.DeepSky != nil:
		return s.DeepSky.Name
	case s.Location != nil:
		return s.Location.Name
	default:
		return ""
	}
}

// PositionAt returns the selected object's universal position at the given
// Julian date. The empty selection is the barycenter.
func (s Selection) PositionAt(jd float64) astro.UniversalCoord {
	switch {
	case s.Body != nil:
		return s.Body.PositionAt(jd)
	case s.Star != nil:
		return s.Star.PositionAt(jd)
	case s.DeepSky != nil:
		return s.DeepSky.PositionAt(jd)
	case s.Location != nil:
		return s.Location.PositionAt(jd)
	default:
		return astro.UniversalCoord{}
	}
}

// Radius returns the object's physical radius in kilometres (a location's
// size stands in for its radius).
func (s Selection) Radius() float64 {
	switch {
	case s.Body != nil:
		return s.Body.RadiusKm
	case s.Star != nil:
		return s.Star.RadiusKm
	case s.DeepSky != nil:
		return s.DeepSky.RadiusKm
	case s.Location != nil:
		return s.Location.SizeKm
	default:
		return 0
	}
}

// Parent returns the selection this object orbits or sits on, or the empty
// selection at the top of the hierarchy.
func (s Selection) Parent() Selection {
	switch {
	case s.Body != nil:
		return s.Body.Parent
	case s.Star != nil:
		if s.Star.Parent != nil {
			return Selection{Star: s.Star.Parent}
		}
		return Selection{}
	case s.Location != nil:
		if s.Location.Parent != nil {
			return Selection{Body: s.Location.Parent}
		}
		return Selection{}
	default:
		return Selection{}
	}
}
