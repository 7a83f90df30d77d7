//go:build !dim2

package epa

import (
	"math"
	"testing"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/gjk"
	"github.com/ridgeline-phys/collide/shape"
)

func vec3ApproxEqual(a, b geom.Vec, tol geom.N) bool {
	return math.Abs(a[0]-b[0]) < tol && math.Abs(a[1]-b[1]) < tol && math.Abs(a[2]-b[2]) < tol
}

func posedBall(pos geom.Point, radius geom.N) gjk.Posed {
	return gjk.Posed{Shape: shape.Ball{Radius: radius}, Pose: geom.NewIso(pos, geom.IdentRot())}
}

func posedCuboid(pos geom.Point, halfExtents geom.Vec) gjk.Posed {
	return gjk.Posed{Shape: shape.Cuboid{HalfExtents: halfExtents}, Pose: geom.NewIso(pos, geom.IdentRot())}
}

func TestSnapNormalToAxis(t *testing.T) {
	tests := []struct {
		name     string
		input    geom.Vec
		expected geom.Vec
	}{
		{"small_x_component", geom.Vec{1e-9, 1.0, 0.0}, geom.Vec{0.0, 1.0, 0.0}},
		{"small_y_component", geom.Vec{1.0, 1e-9, 0.0}, geom.Vec{1.0, 0.0, 0.0}},
		{"near_zero_vector", geom.Vec{1e-9, 1e-9, 1e-9}, geom.Vec{0.0, 1.0, 0.0}},
		{"already_axis_aligned_z", geom.Vec{0.0, 0.0, 1.0}, geom.Vec{0.0, 0.0, 1.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snapNormalToAxis(tt.input); !vec3ApproxEqual(got, tt.expected, 1e-6) {
				t.Errorf("snapNormalToAxis(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func runGJK(t *testing.T, a, b gjk.Posed) *gjk.Simplex {
	t.Helper()
	simplex := &gjk.Simplex{}
	if !gjk.GJK(a, b, simplex) {
		t.Fatalf("expected GJK overlap, got separated")
	}
	return simplex
}

func TestEPASpheresOverlapping(t *testing.T) {
	a := posedBall(geom.Point{0, 0, 0}, 1.0)
	b := posedBall(geom.Point{1.5, 0, 0}, 1.0)
	simplex := runGJK(t, a, b)

	result, err := EPA(a, b, simplex)
	if err != nil {
		t.Fatalf("EPA failed: %v", err)
	}

	wantDepth := 0.5
	gotDepth := math.Abs(result.Points[0].Penetration)
	if math.Abs(gotDepth-wantDepth) > 0.05 {
		t.Errorf("penetration depth = %v, want ~%v", gotDepth, wantDepth)
	}
	if vec3ApproxEqual(result.Normal, geom.Vec{}, 1e-9) {
		t.Errorf("normal should not be zero")
	}
	if len(result.Points) == 0 {
		t.Fatalf("expected at least one contact point")
	}
}

func TestEPABoxesOverlapping(t *testing.T) {
	a := posedCuboid(geom.Point{0, 0, 0}, geom.Vec{1, 1, 1})
	b := posedCuboid(geom.Point{1.5, 0, 0}, geom.Vec{1, 1, 1})
	simplex := runGJK(t, a, b)

	result, err := EPA(a, b, simplex)
	if err != nil {
		t.Fatalf("EPA failed: %v", err)
	}

	wantDepth := 0.5
	gotDepth := math.Abs(result.Points[0].Penetration)
	if math.Abs(gotDepth-wantDepth) > 0.05 {
		t.Errorf("penetration depth = %v, want ~%v", gotDepth, wantDepth)
	}
	// Boxes face each other along X: expect a face-face manifold, not a
	// single degenerate point.
	if len(result.Points) < 2 {
		t.Errorf("expected a multi-point manifold for face-face box overlap, got %d points", len(result.Points))
	}
}

func TestEPABoxOnPlane(t *testing.T) {
	plane := gjk.Posed{Shape: shape.Plane{Normal: geom.Vec{0, 1, 0}, Distance: 0}, Pose: geom.Identity()}
	box := posedCuboid(geom.Point{0, 0.9, 0}, geom.Vec{1, 1, 1})
	simplex := runGJK(t, plane, box)

	result, err := EPA(plane, box, simplex)
	if err != nil {
		t.Fatalf("EPA failed: %v", err)
	}

	// The plane's own normal is authoritative: the separating normal must
	// agree with it (pointing up, away from the half-space).
	if result.Normal[1] <= 0 {
		t.Errorf("normal = %v, want it oriented along +Y to match the plane", result.Normal)
	}
}

func TestEPADegenerateSimplex(t *testing.T) {
	a := posedBall(geom.Point{0, 0, 0}, 1.0)
	b := posedBall(geom.Point{0, 0, 0}, 1.0)
	simplex := &gjk.Simplex{Count: 1, Points: [4]geom.Point{{0.1, 0, 0}}}

	result, err := EPA(a, b, simplex)
	if err != nil {
		t.Fatalf("EPA failed on degenerate simplex: %v", err)
	}
	if len(result.Points) == 0 {
		t.Errorf("expected a fallback contact point")
	}
}
