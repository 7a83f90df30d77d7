//go:build !dim2

package epa

import (
	"testing"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/gjk"
)

func TestCompareVec3(t *testing.T) {
	a := geom.Point{0, 0, 0}
	b := geom.Point{1, 0, 0}
	if compareVec3(a, b) >= 0 {
		t.Errorf("expected a < b")
	}
	if compareVec3(b, a) <= 0 {
		t.Errorf("expected b > a")
	}
	if compareVec3(a, a) != 0 {
		t.Errorf("expected a == a")
	}
}

func TestPolytopeBuilderInitialFaces(t *testing.T) {
	builder := &PolytopeBuilder{}
	simplex := &gjk.Simplex{
		Count: 4,
		Points: [4]geom.Point{
			{1, 1, 1},
			{-1, -1, 1},
			{-1, 1, -1},
			{1, -1, -1},
		},
	}

	if err := builder.BuildInitialFaces(simplex); err != nil {
		t.Fatalf("BuildInitialFaces failed: %v", err)
	}
	if len(builder.faces) < 3 {
		t.Fatalf("expected at least 3 faces, got %d", len(builder.faces))
	}
	for i, f := range builder.faces {
		if f.Distance < 0 {
			t.Errorf("face %d has negative distance %v", i, f.Distance)
		}
	}
}

func TestPolytopeBuilderFindClosestFace(t *testing.T) {
	builder := &PolytopeBuilder{}
	builder.faces = []Face{
		{Distance: 5},
		{Distance: 1},
		{Distance: 3},
	}
	if got := builder.FindClosestFaceIndex(); got != 1 {
		t.Errorf("FindClosestFaceIndex() = %d, want 1", got)
	}
}

func TestPolytopeBuilderEmpty(t *testing.T) {
	builder := &PolytopeBuilder{}
	if got := builder.FindClosestFaceIndex(); got != -1 {
		t.Errorf("FindClosestFaceIndex() on empty polytope = %d, want -1", got)
	}
	if got := builder.GetClosestFace(); got != nil {
		t.Errorf("GetClosestFace() on empty polytope = %v, want nil", got)
	}
}

func TestPolytopeBuilderExpansion(t *testing.T) {
	builder := &PolytopeBuilder{}
	simplex := &gjk.Simplex{
		Count: 4,
		Points: [4]geom.Point{
			{1, 1, 1},
			{-1, -1, 1},
			{-1, 1, -1},
			{1, -1, -1},
		},
	}
	if err := builder.BuildInitialFaces(simplex); err != nil {
		t.Fatalf("BuildInitialFaces failed: %v", err)
	}

	closest := builder.FindClosestFaceIndex()
	support := geom.Point{2, 2, 2}

	if err := builder.AddPointAndRebuildFaces(support, closest); err != nil {
		t.Fatalf("AddPointAndRebuildFaces failed: %v", err)
	}
	if len(builder.faces) == 0 {
		t.Fatalf("expected a non-empty polytope after expansion")
	}
}
