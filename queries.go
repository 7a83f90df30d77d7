package collide

import (
	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/broadphase"
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/narrowphase"
	"github.com/ridgeline-phys/collide/shape"
)

// RayHit is a world-space ray-cast result against one collision object.
type RayHit struct {
	Object  Handle
	Toi     geom.N
	Normal  geom.Vec
	Feature shape.FeatureId
}

// InterferencesWithRay finds every live object (subject to groups) whose
// shape the ray (origin, dir) intersects within maxToi, appending results to
// out. Broad-phase AABB candidates that don't actually expose shape.RayCaster
// are skipped rather than reported as false positives — spec.md §6 promises
// exact ray intersection, the broad-phase's own AABB test is only a
// candidate filter.
func (w *World) InterferencesWithRay(origin geom.Point, dir geom.Vec, groups CollisionGroups, maxToi geom.N, out []RayHit) []RayHit {
	w.broad.RayQuery(origin, dir, maxToi, func(id broadphase.ObjectId) {
		o, ok := w.objects.at(uint32(id))
		if !ok || !groups.CanInteract(o.groups) {
			return
		}
		caster, ok := o.shape.(shape.RayCaster)
		if !ok {
			return
		}
		inv := o.pose
		localRay := shape.Ray{
			Origin: inv.InverseTransformPoint(origin),
			Dir:    inv.InverseTransformVector(dir),
		}
		hit, ok := caster.LocalRayCast(localRay, maxToi)
		if !ok {
			return
		}
		out = append(out, RayHit{
			Object:  Handle{index: uint32(id), generation: o.generation},
			Toi:     hit.Toi,
			Normal:  o.pose.TransformVector(hit.Normal),
			Feature: hit.Feature,
		})
	})
	return out
}

// InterferencesWithPoint finds every live object (subject to groups) whose
// shape contains point, appending results to out.
func (w *World) InterferencesWithPoint(point geom.Point, groups CollisionGroups, out []Handle) []Handle {
	w.broad.PointQuery(point, func(id broadphase.ObjectId) {
		o, ok := w.objects.at(uint32(id))
		if !ok || !groups.CanInteract(o.groups) {
			return
		}
		test, ok := o.shape.(shape.ContainsLocalPoint)
		if !ok {
			return
		}
		local := o.pose.InverseTransformPoint(point)
		if test.ContainsLocalPoint(local) {
			out = append(out, Handle{index: uint32(id), generation: o.generation})
		}
	})
	return out
}

// InterferencesWithAABB finds every live object (subject to groups) whose
// loosened broad-phase proxy AABB overlaps target, appending results to out.
// This is a broad-phase-only query (no exact-shape refinement), matching
// spec.md §6's description of the broad phase's own range-query offering.
func (w *World) InterferencesWithAABB(target bv.AABB, groups CollisionGroups, out []Handle) []Handle {
	w.broad.AABBQuery(target, func(id broadphase.ObjectId) {
		o, ok := w.objects.at(uint32(id))
		if !ok || !groups.CanInteract(o.groups) {
			return
		}
		out = append(out, Handle{index: uint32(id), generation: o.generation})
	})
	return out
}

// ContactPair returns the live contact manifold between h1 and h2, if any
// edge of that kind exists between them right now.
func (w *World) ContactPair(h1, h2 Handle) (*narrowphase.ContactManifold, bool) {
	if _, ok := w.objects.get(h1); !ok {
		return nil, false
	}
	if _, ok := w.objects.get(h2); !ok {
		return nil, false
	}
	edge, ok := w.graph.Edge(narrowphase.ObjectId(h1.index), narrowphase.ObjectId(h2.index))
	if !ok || edge.Kind != narrowphase.InteractionContact {
		return nil, false
	}
	return edge.Manifold, true
}

// ProximityPair returns the live proximity state between h1 and h2, if a
// proximity edge exists between them right now.
func (w *World) ProximityPair(h1, h2 Handle) (narrowphase.ProximityState, bool) {
	if _, ok := w.objects.get(h1); !ok {
		return 0, false
	}
	if _, ok := w.objects.get(h2); !ok {
		return 0, false
	}
	edge, ok := w.graph.Edge(narrowphase.ObjectId(h1.index), narrowphase.ObjectId(h2.index))
	if !ok || edge.Kind != narrowphase.InteractionProximity {
		return 0, false
	}
	return edge.Proximity, true
}

// ContactPairHandles is a pair of handles backing one live contact edge, the
// element type ContactPairs iterates.
type ContactPairHandles struct {
	A, B     Handle
	Manifold *narrowphase.ContactManifold
}

// ContactPairs appends every currently active pair in the world with a
// non-empty contact manifold to out (spec.md §6's contact_pairs() iterator).
func (w *World) ContactPairs(out []ContactPairHandles) []ContactPairHandles {
	for _, pair := range w.active {
		edge, ok := w.graph.Edge(narrowphase.ObjectId(pair.a), narrowphase.ObjectId(pair.b))
		if !ok || edge.Kind != narrowphase.InteractionContact || edge.Manifold.Empty() {
			continue
		}
		oa, okA := w.objects.at(pair.a)
		ob, okB := w.objects.at(pair.b)
		if !okA || !okB {
			continue
		}
		out = append(out, ContactPairHandles{
			A:        Handle{index: pair.a, generation: oa.generation},
			B:        Handle{index: pair.b, generation: ob.generation},
			Manifold: edge.Manifold,
		})
	}
	return out
}
