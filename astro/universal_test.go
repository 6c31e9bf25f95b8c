package astro

import (
	"math"
	"testing"

	"github.com/skyforge/observer-engine/internal/mathutil"
)

func TestOffsetRoundTrip(t *testing.T) {
	base := UniversalCoordFromKm(1e9, -2e9, 3e9)
	v := mathutil.Vec3{X: 123.25, Y: -0.5, Z: 42}

	got := base.OffsetKm(v).OffsetFromKm(base)
	if got.Sub(v).Norm() > 1e-9 {
		t.Fatalf("offset round trip = %+v, want %+v", got, v)
	}
}

// A float64 holding a light-year scale distance cannot resolve a metre, so
// this only works if the coordinate arithmetic stays in fixed point.
func TestSubMetrePrecisionAtLightYearDistance(t *testing.T) {
	far := UniversalCoordFromLy(4.2, 0, 0) // ~Proxima distance
	step := mathutil.Vec3{X: 0.001}        // one metre, in km

	moved := far.OffsetKm(step)
	got := moved.OffsetFromKm(far)
	if math.Abs(got.X-0.001) > 1e-9 {
		t.Fatalf("recovered offset = %v km, want 0.001 km", got.X)
	}
	if got.Y != 0 || got.Z != 0 {
		t.Fatalf("offset leaked into other components: %+v", got)
	}
}

func TestIsOutOfBounds(t *testing.T) {
	if UniversalCoordFromLy(4.2, 0, 0).IsOutOfBounds() {
		t.Fatal("nearby star distance should be in bounds")
	}
	if !UniversalCoordFromKm(5e18, 0, 0).IsOutOfBounds() {
		t.Fatal("coordinate past the range limit should be out of bounds")
	}
}

func TestToLy(t *testing.T) {
	u := UniversalCoordFromLy(1, 2, -3)
	got := u.ToLy()
	want := mathutil.Vec3{X: 1, Y: 2, Z: -3}
	if got.Sub(want).Norm() > 1e-9 {
		t.Fatalf("ToLy = %+v, want %+v", got, want)
	}
}

func TestJulianDateJ2000Epoch(t *testing.T) {
	jd := JulianDate(TimeFromJulian(J2000))
	if math.Abs(jd-J2000) > 1e-6 {
		t.Fatalf("J2000 round trip = %v, want %v", jd, J2000)
	}
}
