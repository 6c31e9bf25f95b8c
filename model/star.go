package model

import (
	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/internal/mathutil"
)

// Star is a star or a star-system barycenter. A free star sits at a fixed
// position expressed in light-years; a member of a multiple system instead
// orbits its parent barycenter.
type Star struct {
	Name     string
	RadiusKm float64

	// Visible is false for barycenters, which are pure reference points.
	Visible bool

	PositionLy mathutil.Vec3

	Parent *Star
	Orbit  Orbit

	// OrbitingStars lists the members of a system whose barycenter this
	// star represents.
	OrbitingStars []*Star

	Rotation RotationModel
}

// PositionAt returns the star's universal position at the given Julian date.
func (s *Star) PositionAt(jd float64) astro.UniversalCoord {
	if s.Parent != nil && s.Orbit != nil {
		return s.Parent.PositionAt(jd).OffsetKm(s.Orbit.PositionAt(jd))
	}
	return astro.UniversalCoordFromLy(s.PositionLy.X, s.PositionLy.Y, s.PositionLy.Z)
}

// EquatorOrientation returns the star's spin-axis attitude.
func (s *Star) EquatorOrientation(jd float64) mathutil.Quat {
	if s.Rotation == nil {
		return mathutil.QuatIdentity()
	}
	return s.Rotation.EquatorOrientation(jd)
}

// BodyFixedOrientation returns the star's full rotating attitude.
func (s *Star) BodyFixedOrientation(jd float64) mathutil.Quat {
	if s.Rotation == nil {
		return mathutil.QuatIdentity()
	}
	return s.Rotation.Orientation(jd)
}

// MaxOrbitBoundingRadius returns the largest bounding radius among the
// orbits of the system members, or zero for a lone star.
func (s *Star) MaxOrbitBoundingRadius() float64 {
	var r float64
	for _, member := range s.OrbitingStars {
		if member.Orbit == nil {
			continue
		}
		if br := member.Orbit.BoundingRadius(); br > r {
			r = br
		}
	}
	return r
}
