package model

import (
	"math"
	"testing"

	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/internal/mathutil"
)

func testSystem() (*Star, *Body, *Body) {
	sun := &Star{Name: "Sol", RadiusKm: 696000, Visible: true}
	planet := &Body{
		Name:           "Terra",
		RadiusKm:       6371,
		Classification: ClassificationPlanet,
		Parent:         Selection{Star: sun},
		Orbit: EllipticalOrbit{
			SemiMajorAxisKm: astro.AuToKm(1),
			PeriodDays:      365.25,
			EpochJD:         astro.J2000,
		},
		Rotation: UniformRotation{PeriodDays: 0.99727, ObliquityDeg: 23.44, EpochJD: astro.J2000},
	}
	moon := &Body{
		Name:           "Luna",
		RadiusKm:       1737,
		Classification: ClassificationMoon,
		Orbit: EllipticalOrbit{
			SemiMajorAxisKm: 384400,
			PeriodDays:      27.32,
			EpochJD:         astro.J2000,
		},
	}
	planet.AddChild(moon)
	return sun, planet, moon
}

func TestSelectionHierarchyPositions(t *testing.T) {
	sun, planet, moon := testSystem()
	jd := astro.J2000 + 42

	sunPos := Selection{Star: sun}.PositionAt(jd)
	planetPos := Selection{Body: planet}.PositionAt(jd)
	moonPos := Selection{Body: moon}.PositionAt(jd)

	if d := planetPos.DistanceFromKm(sunPos); math.Abs(d-astro.AuToKm(1)) > 1 {
		t.Fatalf("planet-sun distance = %v km, want 1 au", d)
	}
	if d := moonPos.DistanceFromKm(planetPos); math.Abs(d-384400) > 1 {
		t.Fatalf("moon-planet distance = %v km, want 384400", d)
	}
}

func TestSelectionParentChain(t *testing.T) {
	sun, planet, moon := testSystem()

	if got := (Selection{Body: moon}).Parent(); got.Body != planet {
		t.Fatalf("moon parent = %+v, want planet", got)
	}
	if got := (Selection{Body: planet}).Parent(); got.Star != sun {
		t.Fatalf("planet parent = %+v, want star", got)
	}
	if got := (Selection{Star: sun}).Parent(); !got.Empty() {
		t.Fatalf("star parent = %+v, want empty", got)
	}
	if moon.SystemStar() != sun {
		t.Fatal("moon's system star should be the sun")
	}
}

func TestEmptySelection(t *testing.T) {
	var s Selection
	if !s.Empty() {
		t.Fatal("zero selection should be empty")
	}
	if s.Type() != SelectionNone {
		t.Fatalf("zero selection type = %v, want SelectionNone", s.Type())
	}
	if got := s.PositionAt(astro.J2000); got.ToKm() != (mathutil.Vec3{}) {
		t.Fatalf("empty selection position = %+v, want barycenter", got.ToKm())
	}
}

func TestLocationFollowsBodyRotation(t *testing.T) {
	_, planet, _ := testSystem()
	loc := &Location{
		Name:        "Observatory",
		SizeKm:      1,
		Parent:      planet,
		LatitudeDeg: 30, LongitudeDeg: 45,
	}

	jd := astro.J2000
	p0 := loc.PositionAt(jd)
	p1 := loc.PositionAt(jd + 0.25) // quarter of a day later

	planet0 := planet.PositionAt(jd)
	if d := p0.DistanceFromKm(planet0); math.Abs(d-planet.RadiusKm) > 1e-6 {
		t.Fatalf("location altitude = %v km, want on the surface at %v", d, planet.RadiusKm)
	}

	// The body rotated, so the surface point moved relative to the body
	// center (beyond what the orbit alone would explain).
	rel0 := p0.OffsetFromKm(planet.PositionAt(jd))
	rel1 := p1.OffsetFromKm(planet.PositionAt(jd + 0.25))
	if rel0.Sub(rel1).Norm() < 100 {
		t.Fatalf("location did not follow body rotation: rel0=%+v rel1=%+v", rel0, rel1)
	}
}

func TestChildBoundingRadius(t *testing.T) {
	_, planet, moon := testSystem()
	want := moon.RadiusKm + 384400*1.0 // circular orbit bounding radius
	if got := planet.ChildBoundingRadius(); math.Abs(got-want) > 1 {
		t.Fatalf("child bounding radius = %v, want %v", got, want)
	}
}
