package model

import (
	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/internal/mathutil"
)

// DeepSky is a galaxy, nebula, or cluster: a static object at light-year
// scale with no parent and no rotation of interest to the observer.
type DeepSky struct {
	Name       string
	RadiusKm   float64
	PositionLy mathutil.Vec3
}

// PositionAt returns the object's universal position; deep-sky objects do
// not move on simulation timescales.
func (d *DeepSky) PositionAt(jd float64) astro.UniversalCoord {
	return astro.UniversalCoordFromLy(d.PositionLy.X, d.PositionLy.Y, d.PositionLy.Z)
}
