package mathutil

import (
	"math"
	"testing"
)

func TestNormalizedZeroVector(t *testing.T) {
	if got := (Vec3{}).Normalized(); got != (Vec3{}) {
		t.Fatalf("zero vector should normalize to zero, got %+v", got)
	}
}

func TestCrossRightHanded(t *testing.T) {
	got := UnitX().Cross(UnitY())
	if math.Abs(got.X) > 1e-15 || math.Abs(got.Y) > 1e-15 || math.Abs(got.Z-1) > 1e-15 {
		t.Fatalf("x cross y = %+v, want +z", got)
	}
}

func TestSlerpVecEndpointsAndMidpoint(t *testing.T) {
	v0 := Vec3{X: 2}
	v1 := Vec3{Y: 4}

	if got := SlerpVec(0, v0, v1); got.Sub(v0).Norm() > 1e-12 {
		t.Fatalf("SlerpVec(0) = %+v, want %+v", got, v0)
	}
	if got := SlerpVec(1, v0, v1); got.Sub(v1).Norm() > 1e-9 {
		t.Fatalf("SlerpVec(1) = %+v, want %+v", got, v1)
	}

	// Midpoint lies on the great circle at 45 degrees with the radius
	// interpolated linearly.
	mid := SlerpVec(0.5, v0, v1)
	if math.Abs(mid.Norm()-3) > 1e-9 {
		t.Fatalf("midpoint radius = %v, want 3", mid.Norm())
	}
	angle := math.Acos(Clamp(mid.Normalized().Dot(v0.Normalized()), -1, 1))
	if math.Abs(angle-math.Pi/4) > 1e-9 {
		t.Fatalf("midpoint angle = %v, want pi/4", angle)
	}
}

func TestSlerpVecParallelFallsBackToLerp(t *testing.T) {
	v0 := Vec3{X: 1}
	v1 := Vec3{X: 3}
	got := SlerpVec(0.5, v0, v1)
	if got.Sub(Vec3{X: 2}).Norm() > 1e-12 {
		t.Fatalf("parallel slerp = %+v, want {2 0 0}", got)
	}
}
