package narrowphase

import (
	"testing"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/shape"
)

func TestInteractionGraphContactStartStop(t *testing.T) {
	g := NewInteractionGraph(NewContactDispatcher(), FeatureBased, 0)
	a := posed(shape.Ball{Radius: 1}, geom.Point{0, 0, 0})
	b := posed(shape.Ball{Radius: 1}, geom.Point{1.5, 0, 0})

	ev, ok := g.UpdateContact(1, 2, a, b, 0)
	if !ok || !ev.Started {
		t.Fatalf("expected a Started event on first overlapping update, got ok=%v ev=%v", ok, ev)
	}

	// Same pair, still overlapping: no further transition.
	if _, ok := g.UpdateContact(1, 2, a, b, 0); ok {
		t.Errorf("expected no event while the pair remains in contact")
	}

	separated := posed(shape.Ball{Radius: 1}, geom.Point{10, 0, 0})
	ev, ok = g.UpdateContact(1, 2, a, separated, 0)
	if !ok || ev.Started {
		t.Fatalf("expected a Stopped event once the pair separates, got ok=%v ev=%v", ok, ev)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("expected the edge to be removed after the manifold emptied, got %d edges", g.EdgeCount())
	}
}

func TestInteractionGraphContactStartsOnPrediction(t *testing.T) {
	g := NewInteractionGraph(NewContactDispatcher(), FeatureBased, 0)
	a := posed(shape.Ball{Radius: 1}, geom.Point{0, 0, 0})
	// Surfaces 1 unit apart: no overlap, but within a prediction of 1.5.
	b := posed(shape.Ball{Radius: 1}, geom.Point{3, 0, 0})

	if _, ok := g.UpdateContact(1, 2, a, b, 0); ok {
		t.Fatalf("expected no event with zero prediction: the balls don't overlap")
	}

	ev, ok := g.UpdateContact(1, 2, a, b, 1.5)
	if !ok || !ev.Started {
		t.Fatalf("expected a Started event once the pair is within prediction distance, got ok=%v ev=%v", ok, ev)
	}
}

func TestInteractionGraphProximityTransitions(t *testing.T) {
	g := NewInteractionGraph(NewContactDispatcher(), FeatureBased, 0)
	ball := posed(shape.Ball{Radius: 1}, geom.Point{0, 0, 0})
	box := posed(shape.Cuboid{HalfExtents: geom.Vec{1, 1, 1}}, geom.Point{3, 0, 0})

	ev, ok := g.UpdateProximity(1, 2, ball, box, 0.1)
	if ok {
		t.Fatalf("expected no transition event on the very first Disjoint observation from default state, got %v", ev)
	}

	closer := posed(shape.Cuboid{HalfExtents: geom.Vec{1, 1, 1}}, geom.Point{2.05, 0, 0})
	ev, ok = g.UpdateProximity(1, 2, ball, closer, 0.1)
	if !ok || ev.Current != WithinMargin {
		t.Fatalf("expected a transition to WithinMargin, got ok=%v ev=%v", ok, ev)
	}

	touching := posed(shape.Cuboid{HalfExtents: geom.Vec{1, 1, 1}}, geom.Point{0.9, 0, 0})
	ev, ok = g.UpdateProximity(1, 2, ball, touching, 0.1)
	if !ok || ev.Current != Intersecting {
		t.Fatalf("expected a transition to Intersecting, got ok=%v ev=%v", ok, ev)
	}
}

func TestInteractionGraphRemoveEdgeReportsStopped(t *testing.T) {
	g := NewInteractionGraph(NewContactDispatcher(), FeatureBased, 0)
	a := posed(shape.Ball{Radius: 1}, geom.Point{0, 0, 0})
	b := posed(shape.Ball{Radius: 1}, geom.Point{1.5, 0, 0})
	g.UpdateContact(1, 2, a, b, 0)

	ev, ok := g.RemoveEdge(1, 2)
	if !ok || ev.Started {
		t.Fatalf("expected RemoveEdge to report a Stopped event for a live manifold, got ok=%v ev=%v", ok, ev)
	}
}
