package narrowphase

import (
	"math"
	"testing"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/shape"
)

func posed(s shape.Handle, pos geom.Point) PosedShape {
	return PosedShape{Shape: s, Pose: geom.NewIso(pos, geom.IdentRot())}
}

func TestBallBallContactOverlapping(t *testing.T) {
	a := posed(shape.Ball{Radius: 1}, geom.Point{0, 0, 0})
	b := posed(shape.Ball{Radius: 1}, geom.Point{1.5, 0, 0})

	c, ok := ballBallContact(a, b, 0)
	if !ok {
		t.Fatalf("expected overlap")
	}
	if len(c.Points) != 1 {
		t.Fatalf("expected exactly one contact point, got %d", len(c.Points))
	}
	if math.Abs(c.Points[0].Penetration-0.5) > 1e-9 {
		t.Errorf("penetration = %v, want 0.5", c.Points[0].Penetration)
	}
	// Normal convention: world1 on a, world2 on b (spec scenario: two unit
	// spheres at (0,0,0) and (1.5,0,0) yield world1 ~= (1,0,0), world2 ~= (0.5,0,0)).
	wantOnA := geom.Point{1, 0, 0}
	wantOnB := geom.Point{0.5, 0, 0}
	if d := c.Points[0].WorldOnA.Sub(wantOnA).Len(); d > 1e-9 {
		t.Errorf("WorldOnA = %v, want %v", c.Points[0].WorldOnA, wantOnA)
	}
	if d := c.Points[0].WorldOnB.Sub(wantOnB).Len(); d > 1e-9 {
		t.Errorf("WorldOnB = %v, want %v", c.Points[0].WorldOnB, wantOnB)
	}
}

func TestBallBallContactSeparated(t *testing.T) {
	a := posed(shape.Ball{Radius: 1}, geom.Point{0, 0, 0})
	b := posed(shape.Ball{Radius: 1}, geom.Point{3, 0, 0})

	if _, ok := ballBallContact(a, b, 0); ok {
		t.Errorf("expected no contact between separated balls")
	}
}

func TestBallBallContactWithinPrediction(t *testing.T) {
	// Centers 3 apart, radius sum 2: a 1-unit gap between the surfaces.
	a := posed(shape.Ball{Radius: 1}, geom.Point{0, 0, 0})
	b := posed(shape.Ball{Radius: 1}, geom.Point{3, 0, 0})

	if _, ok := ballBallContact(a, b, 0.5); ok {
		t.Errorf("expected no contact: the gap (1.0) exceeds the prediction distance (0.5)")
	}

	c, ok := ballBallContact(a, b, 1.5)
	if !ok {
		t.Fatalf("expected a predicted contact: the gap (1.0) is within the prediction distance (1.5)")
	}
	if c.Points[0].Penetration >= 0 {
		t.Errorf("Penetration = %v, want negative (a gap, not an overlap)", c.Points[0].Penetration)
	}
	if math.Abs(float64(c.Points[0].Penetration)-(-1)) > 1e-9 {
		t.Errorf("Penetration = %v, want -1 (the surface gap)", c.Points[0].Penetration)
	}
}

func TestContactDispatcherDefaultFallbackWithinPrediction(t *testing.T) {
	d := NewContactDispatcher()
	a := posed(shape.Cuboid{HalfExtents: geom.Vec{1, 1, 1}}, geom.Point{0, 0, 0})
	b := posed(shape.Cuboid{HalfExtents: geom.Vec{1, 1, 1}}, geom.Point{2.2, 0, 0})

	if _, ok := d.Dispatch(a, b, 0); ok {
		t.Fatalf("expected no contact with zero prediction: the boxes don't overlap")
	}
	c, ok := d.Dispatch(a, b, 0.5)
	if !ok {
		t.Fatalf("expected a predicted contact: the 0.2 gap is within the 0.5 prediction distance")
	}
	if len(c.Points) != 1 || c.Points[0].Penetration >= 0 {
		t.Errorf("expected one contact point with a negative Penetration, got %+v", c.Points)
	}
}

func TestContactDispatcherBallBall(t *testing.T) {
	d := NewContactDispatcher()
	a := posed(shape.Ball{Radius: 1}, geom.Point{0, 0, 0})
	b := posed(shape.Ball{Radius: 1}, geom.Point{1.5, 0, 0})

	c, ok := d.Dispatch(a, b, 0)
	if !ok || len(c.Points) != 1 {
		t.Fatalf("expected the ball/ball closed form to fire, got ok=%v points=%d", ok, len(c.Points))
	}
}

func TestContactDispatcherSwappedOrder(t *testing.T) {
	d := NewContactDispatcher()
	plane := posed(shape.Plane{Normal: geom.Vec{0, 1, 0}, Distance: 0}, geom.Point{0, 0, 0})
	ball := posed(shape.Ball{Radius: 1}, geom.Point{0, 0.5, 0})

	// Registered as (Plane, Ball); calling with (Ball, Plane) must still hit
	// the closed form via the swapped-order fallback, with the normal negated.
	c, ok := d.Dispatch(ball, plane, 0)
	if !ok {
		t.Fatalf("expected swapped-order dispatch to find the plane/ball entry")
	}
	if c.Normal[1] >= 0 {
		t.Errorf("normal = %v, want it negated (pointing down from ball's perspective)", c.Normal)
	}
}

func TestContactDispatcherDefaultFallback(t *testing.T) {
	d := NewContactDispatcher()
	a := posed(shape.Cuboid{HalfExtents: geom.Vec{1, 1, 1}}, geom.Point{0, 0, 0})
	b := posed(shape.Cuboid{HalfExtents: geom.Vec{1, 1, 1}}, geom.Point{1.5, 0, 0})

	c, ok := d.Dispatch(a, b, 0)
	if !ok {
		t.Fatalf("expected the default GJK+EPA detector to find overlap")
	}
	if len(c.Points) == 0 {
		t.Errorf("expected at least one contact point from the default detector")
	}
}

func TestPlaneConvexContact(t *testing.T) {
	plane := posed(shape.Plane{Normal: geom.Vec{0, 1, 0}, Distance: 0}, geom.Point{0, 0, 0})
	box := posed(shape.Cuboid{HalfExtents: geom.Vec{1, 1, 1}}, geom.Point{0, 0.5, 0})

	c, ok := planeConvexContact(plane, box, 0)
	if !ok {
		t.Fatalf("expected box resting into the plane to register contact")
	}
	if c.Normal[1] <= 0 {
		t.Errorf("normal = %v, want +Y", c.Normal)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		h    shape.Handle
		want ShapeKind
	}{
		{"ball", shape.Ball{Radius: 1}, KindBall},
		{"plane", shape.Plane{Normal: geom.Vec{0, 1, 0}}, KindPlane},
		{"cuboid", shape.Cuboid{HalfExtents: geom.Vec{1, 1, 1}}, KindConvex},
	}
	for _, tt := range tests {
		if got := classify(tt.h); got != tt.want {
			t.Errorf("classify(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
