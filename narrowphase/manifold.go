package narrowphase

import (
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/shape"
)

// ManifoldTrackingMode selects how a fresh contact point is matched against
// the manifold's cache from the previous frame, per spec.md §4.8.
type ManifoldTrackingMode uint8

const (
	// FeatureBased matches by the (FeatureA, FeatureB) pair the narrow-phase
	// detector reported — exact for polyhedra, where a face or edge keeps
	// its id across small relative motion. This package's default (DESIGN.md
	// open-question decision 1).
	FeatureBased ManifoldTrackingMode = iota
	// DistanceBased matches by nearest cached point whose squared distance
	// from the fresh point is at most Epsilon², measured in body-1 local space so the cache survives the
	// bodies moving together. Needed for shapes with no stable feature ids
	// (balls, and any other smooth/rounded support map).
	DistanceBased
)

// maxLife is how many consecutive steps a cached point survives without a
// fresh push matching it, before save_cache_and_clear drops it for good.
// Mirrors spec.md §4.8's "max_life persistence counter".
const maxLife = 2

// TrackedContact is one slot of a manifold's cache: a contact point plus the
// bookkeeping needed to recognize it again next frame and to garbage-collect
// it once it goes stale.
type TrackedContact struct {
	shape.ContactPoint
	Id   ContactId
	Life int
}

// ContactManifold is the persistent per-pair cache spec.md §4.8 describes:
// contacts survive across frames by matching a fresh EPA/closed-form result
// against the previous frame's cache (by feature id or by distance,
// depending on Mode), re-using the matched entry's ContactId and resetting
// its Life; entries nothing matches this frame count down and are dropped
// once Life reaches zero. No teacher analogue — feather re-detects and
// re-solves every contact from scratch each substep with no persistent id;
// this type exists purely to satisfy spec.md §4.8/§5's tracking requirement.
type ContactManifold struct {
	Mode    ManifoldTrackingMode
	Epsilon geom.N // only meaningful when Mode == DistanceBased

	cache   []TrackedContact
	pending []TrackedContact
	deepest int
}

// NewManifold returns an empty manifold using the given tracking mode.
func NewManifold(mode ManifoldTrackingMode, epsilon geom.N) *ContactManifold {
	return &ContactManifold{Mode: mode, Epsilon: epsilon}
}

// Push adds one fresh contact point to the manifold's in-progress frame,
// matching it against the previous frame's cache and reusing that entry's id
// when a match is found. alloc supplies fresh ids for unmatched points;
// localA converts a world point into body-A local space, used only by
// DistanceBased matching.
func (m *ContactManifold) Push(point shape.ContactPoint, alloc *ContactIdAllocator, localA func(geom.Point) geom.Point) {
	if id, life, ok := m.match(point, localA); ok {
		m.pending = append(m.pending, TrackedContact{ContactPoint: point, Id: id, Life: life})
		alloc.Mark(id)
		return
	}
	id := alloc.Alloc()
	m.pending = append(m.pending, TrackedContact{ContactPoint: point, Id: id, Life: maxLife})
}

func (m *ContactManifold) match(point shape.ContactPoint, localA func(geom.Point) geom.Point) (ContactId, int, bool) {
	switch m.Mode {
	case FeatureBased:
		for _, tc := range m.cache {
			if tc.FeatureA == point.FeatureA && tc.FeatureB == point.FeatureB {
				return tc.Id, maxLife, true
			}
		}
	case DistanceBased:
		localPoint := localA(point.Position())
		epsSq := m.Epsilon * m.Epsilon
		bestIdx, bestDistSq := -1, epsSq
		for i, tc := range m.cache {
			d := localA(tc.Position()).Sub(localPoint)
			distSq := d.Dot(d)
			if distSq <= bestDistSq {
				bestIdx, bestDistSq = i, distSq
			}
		}
		if bestIdx >= 0 {
			return m.cache[bestIdx].Id, maxLife, true
		}
	}
	return ContactId{}, 0, false
}

// SaveCacheAndClear ages every cache entry that Push did not touch this
// frame, drops any that have run out of Life, replaces the cache with the
// points pushed this frame, recomputes the deepest-point index, and resets
// the in-progress pending list for the next frame.
func (m *ContactManifold) SaveCacheAndClear() {
	touched := make(map[ContactId]bool, len(m.pending))
	for _, tc := range m.pending {
		touched[tc.Id] = true
	}
	for _, tc := range m.cache {
		if touched[tc.Id] {
			continue
		}
		tc.Life--
		if tc.Life > 0 {
			m.pending = append(m.pending, tc)
		}
	}

	m.cache = m.pending
	m.pending = nil
	m.deepest = 0
	for i := 1; i < len(m.cache); i++ {
		if m.cache[i].Penetration > m.cache[m.deepest].Penetration {
			m.deepest = i
		}
	}
}

// Contacts returns the manifold's current cached points.
func (m *ContactManifold) Contacts() []TrackedContact { return m.cache }

// Deepest returns the cached point with the greatest penetration, or false if
// the manifold is empty.
func (m *ContactManifold) Deepest() (TrackedContact, bool) {
	if len(m.cache) == 0 {
		return TrackedContact{}, false
	}
	return m.cache[m.deepest], true
}

// Empty reports whether the manifold currently has no tracked contacts —
// the signal narrowphase uses to emit a ContactEvent.Stopped.
func (m *ContactManifold) Empty() bool { return len(m.cache) == 0 }
