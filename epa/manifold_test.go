//go:build !dim2

package epa

import (
	"testing"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/shape"
)

func TestGenerateManifoldBoxOnBoxFaceToFace(t *testing.T) {
	a := posedCuboid(geom.Point{0, 0, 0}, geom.Vec{1, 1, 1})
	b := posedCuboid(geom.Point{1.9, 0, 0}, geom.Vec{1, 1, 1})
	normal := geom.Vec{1, 0, 0}
	depth := geom.N(0.1)

	points := GenerateManifold(a, b, normal, depth)
	if len(points) < 2 {
		t.Fatalf("expected a multi-point manifold for flush face contact, got %d", len(points))
	}
	for _, p := range points {
		if p.Penetration != depth {
			t.Errorf("contact point penetration = %v, want %v", p.Penetration, depth)
		}
	}
}

func TestGenerateManifoldSphereFallsBackToSinglePoint(t *testing.T) {
	a := posedBall(geom.Point{0, 0, 0}, 1.0)
	b := posedCuboid(geom.Point{1.5, 0, 0}, geom.Vec{1, 1, 1})
	normal := geom.Vec{1, 0, 0}

	points := GenerateManifold(a, b, normal, 0.5)
	if len(points) != 1 {
		t.Fatalf("expected exactly one contact point against a sphere, got %d", len(points))
	}
}

func TestClipPolygonAgainstPlane(t *testing.T) {
	square := [maxBufferSize]geom.Point{
		{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0},
	}
	var out [maxBufferSize]geom.Point
	var outCount int

	// Clip against the plane x >= 0: half the square should survive.
	clipPolygonAgainstPlane(&square, 4, geom.Point{0, 0, 0}, geom.Point{1, 0, 0}, &out, &outCount)
	if outCount < 3 {
		t.Fatalf("expected clipped polygon to keep at least 3 vertices, got %d", outCount)
	}
	for i := 0; i < outCount; i++ {
		if out[i][0] < -epsilonDistance {
			t.Errorf("vertex %v survived clipping on the wrong side of the plane", out[i])
		}
	}
}

func TestLineIntersectPlane(t *testing.T) {
	p1 := geom.Point{-1, 0, 0}
	p2 := geom.Point{1, 0, 0}
	hit := lineIntersectPlane(p1, p2, geom.Point{0, 0, 0}, geom.Point{1, 0, 0})
	if hit[0] > 1e-9 || hit[0] < -1e-9 {
		t.Errorf("lineIntersectPlane crossing x=0 gave x=%v, want 0", hit[0])
	}
}

func TestGetTangentBasis(t *testing.T) {
	normal := geom.Vec{0, 1, 0}
	t1, t2 := getTangentBasis(normal)
	if v := t1.Dot(normal); v > 1e-9 || v < -1e-9 {
		t.Errorf("tangent1 not orthogonal to normal: dot=%v", v)
	}
	if v := t2.Dot(normal); v > 1e-9 || v < -1e-9 {
		t.Errorf("tangent2 not orthogonal to normal: dot=%v", v)
	}
	if v := t1.Dot(t2); v > 1e-9 || v < -1e-9 {
		t.Errorf("tangent1 not orthogonal to tangent2: dot=%v", v)
	}
}

func TestManifoldFeatureIdsTrackShapes(t *testing.T) {
	a := posedCuboid(geom.Point{0, 0, 0}, geom.Vec{1, 1, 1})
	b := posedCuboid(geom.Point{1.9, 0, 0}, geom.Vec{1, 1, 1})
	points := GenerateManifold(a, b, geom.Vec{1, 0, 0}, 0.1)

	for _, p := range points {
		if p.FeatureA.Kind == shape.FeatureUnknown || p.FeatureB.Kind == shape.FeatureUnknown {
			t.Errorf("expected both cuboids to report a known feature, got A=%v B=%v", p.FeatureA, p.FeatureB)
		}
	}
}
