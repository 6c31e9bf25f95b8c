package core

import (
	"math"
	"testing"

	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/internal/mathutil"
	"github.com/skyforge/observer-engine/model"
)

func testPlanet(name string, radiusKm, orbitRadiusKm, periodDays float64) *model.Body {
	return &model.Body{
		Name:     name,
		RadiusKm: radiusKm,
		Orbit: &model.EllipticalOrbit{
			SemiMajorAxisKm: orbitRadiusKm,
			PeriodDays:      periodDays,
		},
		Rotation: &model.UniformRotation{
			PeriodDays:   1.0,
			ObliquityDeg: 10.0,
			EpochJD:      astro.J2000,
		},
	}
}

func testSystem() (*model.Star, *model.Body, *model.Body) {
	star := &model.Star{
		Name:     "Dagon",
		RadiusKm: 696000,
		Visible:  true,
	}
	planet := testPlanet("Hyperion", 6371, astro.KmPerAu, 365.25)
	planet.Parent = model.Selection{Star: star}
	moon := testPlanet("Kerberos", 1737, 384400, 27.3)
	planet.AddChild(moon)
	return star, planet, moon
}

func TestFrameRoundTrip(t *testing.T) {
	_, planet, _ := testSystem()
	jd := astro.J2000 + 123.4

	frames := map[string]ReferenceFrame{
		"ecliptic":  NewJ2000EclipticFrame(model.Selection{Body: planet}),
		"equator":   NewBodyMeanEquatorFrame(model.Selection{Body: planet}, model.Selection{Body: planet}),
		"bodyfixed": NewBodyFixedFrame(model.Selection{Body: planet}, model.Selection{Body: planet}),
	}

	pos := planet.PositionAt(jd).OffsetKm(mathutil.Vec3{X: 10000, Y: -2500, Z: 777})
	for name, f := range frames {
		local := f.ConvertFromUniversal(pos, jd)
		back := f.ConvertToUniversal(local, jd)
		if d := back.DistanceFromKm(pos); d > 1e-3 {
			t.Errorf("%s: position round trip error %g km", name, d)
		}

		q := mathutil.QuatFromAxisAngle(mathutil.Vec3{X: 1, Y: 2, Z: 3}, 0.7)
		lq := f.OrientationFromUniversal(q, jd)
		bq := f.OrientationToUniversal(lq, jd)
		if math.Abs(math.Abs(mathutil.QuatDot(q, bq))-1) > 1e-12 {
			t.Errorf("%s: orientation round trip not identity", name)
		}
	}
}

func TestFrameLocalOriginIsCenter(t *testing.T) {
	_, planet, _ := testSystem()
	jd := astro.J2000 + 10

	f := NewBodyFixedFrame(model.Selection{Body: planet}, model.Selection{Body: planet})
	local := f.ConvertFromUniversal(planet.PositionAt(jd), jd)
	if d := local.ToKm().Norm(); d > 1e-6 {
		t.Errorf("frame center not at local origin: %g km", d)
	}
}

func TestTwoVectorFrameAxes(t *testing.T) {
	star, planet, _ := testSystem()
	jd := astro.J2000 + 42.0

	ref := model.Selection{Body: planet}
	target := model.Selection{Star: star}
	f := NewTwoVectorFrame(ref,
		NewRelativePositionVector(ref, target), 1,
		NewRelativeVelocityVector(ref, target), 2)

	// The frame x axis must point exactly along the primary vector.
	primary := target.PositionAt(jd).OffsetFromKm(ref.PositionAt(jd)).Normalized()
	xAxis := mathutil.Rotate(mathutil.QuatConj(f.Orientation(jd)), mathutil.UnitX())
	if d := xAxis.Sub(primary).Norm(); d > 1e-9 {
		t.Errorf("x axis deviates from primary vector by %g", d)
	}

	// The basis must be orthonormal and right-handed.
	yAxis := mathutil.Rotate(mathutil.QuatConj(f.Orientation(jd)), mathutil.UnitY())
	zAxis := mathutil.Rotate(mathutil.QuatConj(f.Orientation(jd)), mathutil.UnitZ())
	if math.Abs(xAxis.Dot(yAxis)) > 1e-9 || math.Abs(xAxis.Dot(zAxis)) > 1e-9 || math.Abs(yAxis.Dot(zAxis)) > 1e-9 {
		t.Error("two-vector frame axes not orthogonal")
	}
	if d := xAxis.Cross(yAxis).Sub(zAxis).Norm(); d > 1e-9 {
		t.Errorf("two-vector frame not right handed: %g", d)
	}
}

func TestTwoVectorFrameDegenerateFallsBack(t *testing.T) {
	_, planet, _ := testSystem()
	ref := model.Selection{Body: planet}

	// Secondary parallel to primary: orientation must fall back to identity.
	f := NewTwoVectorFrame(ref,
		NewConstantFrameVector(mathutil.UnitX(), nil), 1,
		NewConstantFrameVector(mathutil.UnitX().Scale(2), nil), 2)
	q := f.Orientation(astro.J2000)
	if q != mathutil.QuatIdentity() {
		t.Errorf("degenerate frame orientation = %+v, want identity", q)
	}
}

func TestRelativeVelocityVector(t *testing.T) {
	star, planet, _ := testSystem()
	jd := astro.J2000

	v := NewRelativeVelocityVector(model.Selection{Star: star}, model.Selection{Body: planet})
	vel := v.Direction(jd)

	// Circular orbit speed should be close to 2*pi*a/P.
	want := 2 * math.Pi * astro.KmPerAu / 365.25
	if got := vel.Norm(); math.Abs(got-want)/want > 1e-4 {
		t.Errorf("orbital velocity = %g km/day, want about %g", got, want)
	}

	// Velocity should be roughly perpendicular to the radius vector.
	r := planet.PositionAt(jd).OffsetFromKm(star.PositionAt(jd)).Normalized()
	if c := math.Abs(r.Dot(vel.Normalized())); c > 1e-3 {
		t.Errorf("velocity not perpendicular to radius: cos=%g", c)
	}
}

func TestCreateFrameMapping(t *testing.T) {
	star, planet, _ := testSystem()
	ref := model.Selection{Body: planet}
	target := model.Selection{Star: star}

	cases := []struct {
		cs     CoordinateSystem
		center model.Selection
	}{
		{CoordSysUniversal, model.Selection{}},
		{CoordSysEcliptical, ref},
		{CoordSysEquatorial, ref},
		{CoordSysBodyFixed, ref},
		{CoordSysPhaseLock, ref},
		{CoordSysChase, ref},
		{CoordSysPhaseLockOld, ref},
		{CoordSysChaseOld, ref},
		{CoordSysObserverLocal, ref},
		{CoordSysUnknown, ref},
	}

	// Only the universal system detaches from the reference object; the
	// pseudo systems still anchor their ecliptic frame on it.
	for _, tc := range cases {
		of := NewObserverFrame(tc.cs, ref, target)
		if got := of.Frame().Center(); got != tc.center {
			t.Errorf("%v: center = %q, want %q", tc.cs, got.Name(), tc.center.Name())
		}
	}
}

func TestConvertBetweenFramesPivotsThroughUniversal(t *testing.T) {
	_, planet, moon := testSystem()
	jd := astro.J2000 + 5.5

	a := NewObserverFrame(CoordSysEcliptical, model.Selection{Body: planet}, model.Selection{})
	b := NewObserverFrame(CoordSysBodyFixed, model.Selection{Body: moon}, model.Selection{})

	pos := astro.UniversalCoordFromKm(12345, -678, 90)
	conv := ConvertPosition(pos, a, b, jd)
	back := ConvertPosition(conv, b, a, jd)
	if d := back.DistanceFromKm(pos); d > 1e-3 {
		t.Errorf("frame-to-frame round trip error %g km", d)
	}
}

func TestCoordinateSystemString(t *testing.T) {
	if got := CoordSysPhaseLock.String(); got != "phaselock" {
		t.Errorf("String() = %q", got)
	}
	if got := CoordinateSystem(999).String(); got != "unknown" {
		t.Errorf("String() = %q for unmapped value", got)
	}
}
