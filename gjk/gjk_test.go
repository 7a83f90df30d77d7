package gjk

import (
	"testing"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/shape"
)

// Test helper functions

func posedSphere(position geom.Point, radius geom.N) Posed {
	return Posed{Shape: shape.Ball{Radius: radius}, Pose: geom.NewIso(position, geom.IdentRot())}
}

func posedBox(position geom.Point, halfExtents geom.Vec) Posed {
	return Posed{Shape: shape.Cuboid{HalfExtents: halfExtents}, Pose: geom.NewIso(position, geom.IdentRot())}
}

func approxEqual(a, b, tol geom.N) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// MinkowskiSupport tests

func TestMinkowskiSupport(t *testing.T) {
	t.Run("two separated spheres along x-axis", func(t *testing.T) {
		a := posedSphere(geom.Point{0, 0, 0}, 1.0)
		b := posedSphere(geom.Point{3, 0, 0}, 1.0)

		support := MinkowskiSupport(a, b, geom.Vec{1, 0, 0})
		if support[0] >= 0 {
			t.Errorf("expected support.X < 0 for separated shapes, got %v", support[0])
		}
		if !approxEqual(support[0], -1, 1e-9) {
			t.Errorf("expected support.X = -1, got %v", support[0])
		}
	})

	t.Run("two overlapping spheres", func(t *testing.T) {
		a := posedSphere(geom.Point{0, 0, 0}, 1.0)
		b := posedSphere(geom.Point{1.5, 0, 0}, 1.0)

		support := MinkowskiSupport(a, b, geom.Vec{1, 0, 0})
		if support[0] <= 0 {
			t.Errorf("expected support.X > 0 for overlapping shapes, got %v", support[0])
		}
		if !approxEqual(support[0], 0.5, 1e-9) {
			t.Errorf("expected support.X = 0.5, got %v", support[0])
		}
	})
}

// GJK collision detection tests - spheres

func TestGJKSpheresIntersecting(t *testing.T) {
	cases := []struct {
		name    string
		posB    geom.Point
		radiusB geom.N
	}{
		{"overlapping", geom.Point{1.5, 0, 0}, 1.0},
		{"touching", geom.Point{2.0, 0, 0}, 1.0},
		{"identical position", geom.Point{0, 0, 0}, 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := posedSphere(geom.Point{0, 0, 0}, 1.0)
			b := posedSphere(tc.posB, tc.radiusB)
			simplex := &Simplex{}
			if !GJK(a, b, simplex) {
				t.Errorf("expected collision for %s", tc.name)
			}
		})
	}
}

func TestGJKSpheresSeparated(t *testing.T) {
	cases := []struct {
		name string
		posB geom.Point
	}{
		{"far apart", geom.Point{10, 0, 0}},
		{"barely separated", geom.Point{2.1, 0, 0}},
		{"separated on Y", geom.Point{0, 5, 0}},
		{"separated diagonally", geom.Point{3, 3, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := posedSphere(geom.Point{0, 0, 0}, 1.0)
			b := posedSphere(tc.posB, 1.0)
			simplex := &Simplex{}
			if GJK(a, b, simplex) {
				t.Errorf("expected no collision for %s", tc.name)
			}
		})
	}
}

func TestGJKBoxes(t *testing.T) {
	t.Run("overlapping boxes", func(t *testing.T) {
		a := posedBox(geom.Point{0, 0, 0}, geom.Vec{1, 1, 1})
		b := posedBox(geom.Point{1.5, 0, 0}, geom.Vec{1, 1, 1})
		simplex := &Simplex{}
		if !GJK(a, b, simplex) {
			t.Error("expected collision between overlapping boxes")
		}
	})

	t.Run("box inside another", func(t *testing.T) {
		a := posedBox(geom.Point{0, 0, 0}, geom.Vec{2, 2, 2})
		b := posedBox(geom.Point{0, 1, 1}, geom.Vec{1, 1, 1})
		simplex := &Simplex{}
		if !GJK(a, b, simplex) {
			t.Error("expected collision for box inside another box")
		}
	})

	t.Run("separated boxes", func(t *testing.T) {
		a := posedBox(geom.Point{0, 0, 0}, geom.Vec{1, 1, 1})
		b := posedBox(geom.Point{10, 0, 0}, geom.Vec{1, 1, 1})
		simplex := &Simplex{}
		if GJK(a, b, simplex) {
			t.Error("expected no collision between separated boxes")
		}
	})
}

func TestGJKMixedShapes(t *testing.T) {
	t.Run("sphere inside box", func(t *testing.T) {
		box := posedBox(geom.Point{0, 0, 0}, geom.Vec{2, 2, 2})
		sphere := posedSphere(geom.Point{0, 0, 0}, 0.5)
		simplex := &Simplex{}
		if !GJK(box, sphere, simplex) {
			t.Error("expected collision for sphere inside box")
		}
	})

	t.Run("sphere outside box", func(t *testing.T) {
		box := posedBox(geom.Point{0, 0, 0}, geom.Vec{1, 1, 1})
		sphere := posedSphere(geom.Point{5, 0, 0}, 1.0)
		simplex := &Simplex{}
		if GJK(box, sphere, simplex) {
			t.Error("expected no collision for sphere outside box")
		}
	})
}

func TestGJKZeroVectorDirection(t *testing.T) {
	a := posedSphere(geom.Point{0, 0, 0}, 1.0)
	b := posedSphere(geom.Point{0, 0, 0}, 1.0)
	simplex := &Simplex{}
	if !GJK(a, b, simplex) {
		t.Error("expected collision for spheres at identical positions")
	}
}

// Distance tests

func TestDistanceSeparated(t *testing.T) {
	a := posedSphere(geom.Point{0, 0, 0}, 1.0)
	b := posedSphere(geom.Point{4, 0, 0}, 1.0)

	dist, onA, onB, separated := Distance(a, b)
	if !separated {
		t.Fatal("expected spheres to be reported separated")
	}
	if !approxEqual(dist, 2.0, 1e-6) {
		t.Errorf("expected distance 2.0, got %v", dist)
	}
	if !approxEqual(onA[0], 1.0, 1e-6) {
		t.Errorf("expected witness on A near x=1, got %v", onA)
	}
	if !approxEqual(onB[0], 3.0, 1e-6) {
		t.Errorf("expected witness on B near x=3, got %v", onB)
	}
}

func TestDistanceOverlapping(t *testing.T) {
	a := posedSphere(geom.Point{0, 0, 0}, 1.0)
	b := posedSphere(geom.Point{1.5, 0, 0}, 1.0)

	dist, _, _, separated := Distance(a, b)
	if separated {
		t.Fatal("expected overlapping spheres to not be reported separated")
	}
	if dist != 0 {
		t.Errorf("expected distance 0 for overlap, got %v", dist)
	}
}

func TestDistanceBoxes(t *testing.T) {
	a := posedBox(geom.Point{0, 0, 0}, geom.Vec{1, 1, 1})
	b := posedBox(geom.Point{4, 0, 0}, geom.Vec{1, 1, 1})

	dist, _, _, separated := Distance(a, b)
	if !separated {
		t.Fatal("expected boxes to be reported separated")
	}
	if !approxEqual(dist, 2.0, 1e-6) {
		t.Errorf("expected distance 2.0, got %v", dist)
	}
}

// RayCast tests

func TestRayCastHitsSphere(t *testing.T) {
	target := posedSphere(geom.Point{5, 0, 0}, 1.0)
	hit, ok := RayCast(target, geom.Point{0, 0, 0}, geom.Vec{1, 0, 0}, 100)
	if !ok {
		t.Fatal("expected ray to hit sphere")
	}
	if !approxEqual(hit.Toi, 4.0, 1e-3) {
		t.Errorf("expected toi ~4.0, got %v", hit.Toi)
	}
}

func TestRayCastMissesSphere(t *testing.T) {
	target := posedSphere(geom.Point{5, 5, 0}, 1.0)
	_, ok := RayCast(target, geom.Point{0, 0, 0}, geom.Vec{1, 0, 0}, 100)
	if ok {
		t.Error("expected ray to miss sphere far off axis")
	}
}

func TestRayCastBeyondMaxToi(t *testing.T) {
	target := posedSphere(geom.Point{50, 0, 0}, 1.0)
	_, ok := RayCast(target, geom.Point{0, 0, 0}, geom.Vec{1, 0, 0}, 10)
	if ok {
		t.Error("expected ray cast to fail beyond maxToi")
	}
}

// TimeOfImpact tests

func TestTimeOfImpactConverges(t *testing.T) {
	ballA := shape.Ball{Radius: 1}
	ballB := shape.Ball{Radius: 1}

	motionA := func(t geom.N) geom.Iso { return geom.NewIso(geom.Point{0, 0, 0}, geom.IdentRot()) }
	motionB := func(t geom.N) geom.Iso {
		x := 10 - 10*t
		return geom.NewIso(geom.Point{x, 0, 0}, geom.IdentRot())
	}

	toi, status := TimeOfImpact(ballA, ballB, motionA, motionB, 0, 0, 1)
	if status != TOIConverged && status != TOIPenetrating {
		t.Fatalf("expected convergence, got status %v", status)
	}
	// Spheres of radius 1 touch when centers are 2 apart: 10-10*t == 2 -> t == 0.8
	if !approxEqual(toi, 0.8, 0.05) {
		t.Errorf("expected toi ~0.8, got %v", toi)
	}
}

func TestTimeOfImpactNeverMeets(t *testing.T) {
	ballA := shape.Ball{Radius: 1}
	ballB := shape.Ball{Radius: 1}

	motionA := func(t geom.N) geom.Iso { return geom.NewIso(geom.Point{0, 0, 0}, geom.IdentRot()) }
	motionB := func(t geom.N) geom.Iso { return geom.NewIso(geom.Point{10, 0, 0}, geom.IdentRot()) }

	_, status := TimeOfImpact(ballA, ballB, motionA, motionB, 0, 0, 1)
	if status == TOIConverged {
		t.Error("expected no convergence for bodies that never approach")
	}
}

// Simplex reduction unit tests (3-D)

func TestLine(t *testing.T) {
	t.Run("origin behind point A", func(t *testing.T) {
		simplex := Simplex{
			Points: [4]geom.Point{{3, 0, 0}, {1, 0, 0}, {}, {}},
			Count:  2,
		}
		direction := geom.Vec{-1, 0, 0}
		if line(&simplex, &direction) {
			t.Error("line should not contain origin")
		}
		if simplex.Count != 1 {
			t.Errorf("expected simplex reduced to 1 point, got %d", simplex.Count)
		}
	})

	t.Run("origin on segment", func(t *testing.T) {
		simplex := Simplex{
			Points: [4]geom.Point{{-1, 0, 0}, {1, 0, 0}, {}, {}},
			Count:  2,
		}
		direction := geom.Vec{0, 1, 0}
		if !line(&simplex, &direction) {
			t.Error("expected collision when origin is on the segment")
		}
	})
}

func TestTriangleNeverTerminal3D(t *testing.T) {
	simplex := Simplex{
		Points: [4]geom.Point{{1, 0, 0}, {0, 1, 0}, {0, 0, 0.5}, {}},
		Count:  3,
	}
	direction := geom.Vec{0, 0, 1}
	if triangle(&simplex, &direction) {
		t.Error("a 3-D triangle should never directly report containment")
	}
}

func TestTetrahedronContainsOrigin(t *testing.T) {
	simplex := Simplex{
		Points: [4]geom.Point{{-1, -1, -1}, {1, 1, -1}, {1, -1, 1}, {-1, 1, 1}},
		Count:  4,
	}
	direction := geom.Vec{0, 0, 1}
	if !tetrahedron(&simplex, &direction) {
		t.Error("expected tetrahedron to contain origin")
	}
}

func TestTetrahedronOutside(t *testing.T) {
	simplex := Simplex{
		Points: [4]geom.Point{{5, 5, 5}, {6, 5, 5}, {5, 6, 5}, {5, 5, 6}},
		Count:  4,
	}
	direction := geom.Vec{0, 0, 1}
	if tetrahedron(&simplex, &direction) {
		t.Error("expected origin outside tetrahedron")
	}
	if simplex.Count > 3 {
		t.Errorf("expected simplex reduced to a triangle, got %d points", simplex.Count)
	}
}

// Benchmarks

func BenchmarkGJKSpheresIntersecting(b *testing.B) {
	a := posedSphere(geom.Point{0, 0, 0}, 1.0)
	body := posedSphere(geom.Point{1.5, 0, 0}, 1.0)
	simplex := &Simplex{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GJK(a, body, simplex)
	}
}

func BenchmarkDistanceSeparated(b *testing.B) {
	a := posedSphere(geom.Point{0, 0, 0}, 1.0)
	body := posedSphere(geom.Point{4, 0, 0}, 1.0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Distance(a, body)
	}
}
