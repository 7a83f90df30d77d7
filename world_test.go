package collide

import (
	"testing"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/narrowphase"
	"github.com/ridgeline-phys/collide/shape"
)

func at(pos geom.Point) geom.Iso {
	return geom.NewIso(pos, geom.IdentRot())
}

// Two unit spheres a diameter apart, pushed to overlap, must produce a
// Started contact event followed by a Stopped event once pulled apart.
func TestWorldContactStartStop(t *testing.T) {
	w := New(0.1, 0.05)
	a := w.Add(at(geom.Point{0, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)
	b := w.Add(at(geom.Point{1.5, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)

	w.Update()
	events := w.ContactEvents()
	if len(events) != 1 || !events[0].Started {
		t.Fatalf("expected one Started event, got %v", events)
	}
	if !(events[0].A == a && events[0].B == b) && !(events[0].A == b && events[0].B == a) {
		t.Fatalf("expected the event to name both handles, got %v", events[0])
	}
	w.ClearEvents()

	w.SetPosition(b, at(geom.Point{10, 0, 0}))
	w.Update()
	events = w.ContactEvents()
	if len(events) != 1 || events[0].Started {
		t.Fatalf("expected one Stopped event once the pair separates, got %v", events)
	}
}

// A pair within the combined linear prediction distance, but not yet
// touching, must still raise a Started contact event (spec.md §2's
// "imminent contacts are reported before interpenetration").
func TestWorldContactStartsWithinPrediction(t *testing.T) {
	w := New(0.5, 0.2)
	a := w.Add(at(geom.Point{0, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)
	b := w.Add(at(geom.Point{2.3, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)

	w.Update()
	events := w.ContactEvents()
	if len(events) != 1 || !events[0].Started {
		t.Fatalf("expected a Started event for a pair within the combined prediction distance, got %v", events)
	}
	if !(events[0].A == a && events[0].B == b) && !(events[0].A == b && events[0].B == a) {
		t.Fatalf("expected the event to name both handles, got %v", events[0])
	}
}

// A ball approaching a box should walk through Disjoint -> WithinMargin ->
// Intersecting as a proximity query, never producing a contact manifold.
func TestWorldProximityTransitions(t *testing.T) {
	w := New(0.1, 0.05)
	margin := geom.N(0.2)
	ball := w.Add(at(geom.Point{0, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), Proximity(margin), nil)
	box := w.Add(at(geom.Point{3, 0, 0}), shape.Cuboid{HalfExtents: geom.Vec{1, 1, 1}}, DefaultGroups(), Proximity(margin), nil)

	w.Update()
	if got := len(w.ProximityEvents()); got != 0 {
		t.Fatalf("expected no proximity event while far apart, got %d", got)
	}
	w.ClearEvents()

	w.SetPosition(box, at(geom.Point{2.15, 0, 0}))
	w.Update()
	events := w.ProximityEvents()
	if len(events) != 1 || events[0].Current != narrowphase.WithinMargin {
		t.Fatalf("expected a transition to WithinMargin, got %v", events)
	}
	w.ClearEvents()

	w.SetPosition(box, at(geom.Point{1.9, 0, 0}))
	w.Update()
	events = w.ProximityEvents()
	if len(events) != 1 || events[0].Current != narrowphase.Intersecting {
		t.Fatalf("expected a transition to Intersecting, got %v", events)
	}

	if state, ok := w.ProximityPair(ball, box); !ok || state != narrowphase.Intersecting {
		t.Fatalf("expected ProximityPair to report Intersecting, got state=%v ok=%v", state, ok)
	}
}

// A ray from (0,0,-10) toward +Z against a unit half-extent cube centered on
// the origin returns TOI 9, normal (0,0,-1), and the cuboid's -Z face id.
func TestWorldRayCastAgainstCuboid(t *testing.T) {
	w := New(0.1, 0.05)
	w.Add(geom.Identity(), shape.Cuboid{HalfExtents: geom.Vec{1, 1, 1}}, DefaultGroups(), w.DefaultQueryType(), nil)
	w.Update()

	hits := w.InterferencesWithRay(geom.Point{0, 0, -10}, geom.Vec{0, 0, 1}, DefaultGroups(), 100, nil)
	if len(hits) != 1 {
		t.Fatalf("expected exactly one ray hit, got %d", len(hits))
	}
	hit := hits[0]
	if hit.Toi != 9 {
		t.Errorf("expected TOI 9, got %v", hit.Toi)
	}
	wantNormal := geom.Vec{0, 0, -1}
	if hit.Normal != wantNormal {
		t.Errorf("expected normal %v, got %v", wantNormal, hit.Normal)
	}
	if hit.Feature != shape.Face(2) {
		t.Errorf("expected face feature id 2 (-Z), got %v", hit.Feature)
	}
}

// Removing an object must immediately tear down its broad/narrow-phase
// state so a subsequent Add can safely reuse the freed slot index without
// dragging along a stale pair.
func TestWorldRemoveThenReAddDoesNotResurrectOldPair(t *testing.T) {
	w := New(0.1, 0.05)
	a := w.Add(at(geom.Point{0, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)
	b := w.Add(at(geom.Point{1.5, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)
	w.Update()
	if len(w.ContactEvents()) != 1 {
		t.Fatalf("expected the initial pair to contact")
	}
	w.ClearEvents()

	w.Remove(b)
	c := w.Add(at(geom.Point{50, 50, 50}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)
	if c.index != b.index {
		t.Fatalf("expected the freed slot to be reused, got old=%d new=%d", b.index, c.index)
	}

	w.Update()
	for _, ev := range w.ContactEvents() {
		if ev.A == a || ev.B == a {
			t.Fatalf("did not expect %s to still be in contact with a, got %v", "c", ev)
		}
	}
	if _, ok := w.Get(b); ok {
		t.Fatalf("expected the old handle to be invalid after Remove+reuse")
	}
	if _, ok := w.Get(c); !ok {
		t.Fatalf("expected the reused handle to be valid")
	}
}

// ClearEvents must drop everything buffered so far, and future Updates with
// nothing new happening must not resurrect stale events.
func TestWorldClearEventsDrainsQueues(t *testing.T) {
	w := New(0.1, 0.05)
	w.Add(at(geom.Point{0, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)
	w.Add(at(geom.Point{0.5, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)

	w.Update()
	if len(w.ContactEvents()) == 0 {
		t.Fatalf("expected a Started event to set up the test")
	}
	w.ClearEvents()
	if len(w.ContactEvents()) != 0 || len(w.ProximityEvents()) != 0 {
		t.Fatalf("expected ClearEvents to empty both queues")
	}

	w.Update()
	if len(w.ContactEvents()) != 0 {
		t.Fatalf("expected no new events for an unchanged still-overlapping pair, got %v", w.ContactEvents())
	}
}

// Collision groups on opposite blacklists must prevent an otherwise
// overlapping pair from ever producing a contact.
func TestWorldCollisionGroupsVetoPair(t *testing.T) {
	w := New(0.1, 0.05)
	groupsA := DefaultGroups().WithGroup(1).WithBlacklist(2)
	groupsB := DefaultGroups().WithGroup(2)

	w.Add(at(geom.Point{0, 0, 0}), shape.Ball{Radius: 1}, groupsA, w.DefaultQueryType(), nil)
	w.Add(at(geom.Point{0.5, 0, 0}), shape.Ball{Radius: 1}, groupsB, w.DefaultQueryType(), nil)

	w.Update()
	if got := len(w.ContactEvents()); got != 0 {
		t.Fatalf("expected the blacklist to veto the pair entirely, got %d events", got)
	}
}

// A registered pair filter is consulted alongside collision groups.
func TestWorldPairFilterVetoesPair(t *testing.T) {
	w := New(0.1, 0.05)
	a := w.Add(at(geom.Point{0, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)
	b := w.Add(at(geom.Point{0.5, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)

	w.SetPairFilter(func(x, y Handle) bool {
		return !((x == a && y == b) || (x == b && y == a))
	})

	w.Update()
	if got := len(w.ContactEvents()); got != 0 {
		t.Fatalf("expected the pair filter to veto the pair, got %d events", got)
	}
}

// A contact preprocessor that vetoes every point must keep the manifold
// empty and so never raise a Started event.
func TestWorldContactPreprocessorCanVetoPoints(t *testing.T) {
	w := New(0.1, 0.05)
	w.Add(at(geom.Point{0, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)
	w.Add(at(geom.Point{1.5, 0, 0}), shape.Ball{Radius: 1}, DefaultGroups(), w.DefaultQueryType(), nil)

	w.SetContactPreprocessor(func(a, b Handle, point *shape.ContactPoint) bool {
		return false
	})

	w.Update()
	if got := len(w.ContactEvents()); got != 0 {
		t.Fatalf("expected the preprocessor veto to suppress every point, got %d events", got)
	}
}
