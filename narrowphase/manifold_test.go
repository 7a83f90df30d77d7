package narrowphase

import (
	"testing"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/shape"
)

func identityLocal(p geom.Point) geom.Point { return p }

func TestManifoldFeatureBasedMatchReusesId(t *testing.T) {
	m := NewManifold(FeatureBased, 0)
	alloc := NewContactIdAllocator()

	point := shape.ContactPoint{WorldOnA: geom.Point{0, 0, 0}, WorldOnB: geom.Point{0, 0, 0}, Penetration: 0.1, FeatureA: shape.Face(0), FeatureB: shape.Face(1)}
	m.Push(point, alloc, identityLocal)
	m.SaveCacheAndClear()

	tc, ok := m.Deepest()
	if !ok {
		t.Fatalf("expected a tracked contact after first push")
	}
	firstId := tc.Id

	// Same feature pair, slightly different position: should match and reuse the id.
	point2 := point
	point2.WorldOnA = geom.Point{0.01, 0, 0}
	m.Push(point2, alloc, identityLocal)
	m.SaveCacheAndClear()

	tc2, ok := m.Deepest()
	if !ok {
		t.Fatalf("expected a tracked contact after second push")
	}
	if tc2.Id != firstId {
		t.Errorf("expected matched feature pair to reuse contact id %v, got %v", firstId, tc2.Id)
	}
}

func TestManifoldDistanceBasedMatch(t *testing.T) {
	m := NewManifold(DistanceBased, 0.05)
	alloc := NewContactIdAllocator()

	point := shape.ContactPoint{WorldOnA: geom.Point{0, 0, 0}, WorldOnB: geom.Point{0, 0, 0}, Penetration: 0.1, FeatureA: shape.Unknown(), FeatureB: shape.Unknown()}
	m.Push(point, alloc, identityLocal)
	m.SaveCacheAndClear()
	first, _ := m.Deepest()

	nearby := point
	nearby.WorldOnA = geom.Point{0.02, 0, 0}
	m.Push(nearby, alloc, identityLocal)
	m.SaveCacheAndClear()
	second, _ := m.Deepest()

	if second.Id != first.Id {
		t.Errorf("expected a point within epsilon to match the cached point, got new id %v vs %v", second.Id, first.Id)
	}
}

func TestManifoldDropsStaleAfterMaxLife(t *testing.T) {
	m := NewManifold(FeatureBased, 0)
	alloc := NewContactIdAllocator()

	point := shape.ContactPoint{FeatureA: shape.Face(0), FeatureB: shape.Face(1)}
	m.Push(point, alloc, identityLocal)
	m.SaveCacheAndClear()

	for i := 0; i < maxLife; i++ {
		m.SaveCacheAndClear() // no Push: nothing touches the cached entry
	}
	if !m.Empty() {
		t.Errorf("expected the manifold to be empty after maxLife steps with no matching push")
	}
}

func TestManifoldEmptyTriggersStoppedTransition(t *testing.T) {
	m := NewManifold(FeatureBased, 0)
	if !m.Empty() {
		t.Fatalf("expected a fresh manifold to be empty")
	}
}
