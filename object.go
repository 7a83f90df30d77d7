package collide

import (
	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/shape"
)

// Handle is the stable, generational identifier spec.md §3 assigns a
// CollisionObject: "unique handle ... handle is stable". Comparable and
// copyable like every other value type in this package; a Handle whose slot
// has been Remove'd never silently aliases a later Add'd object because its
// Generation no longer matches the slot's current one (the same technique
// narrowphase.ContactId and partitioning.LeafId use for their own identities).
type Handle struct {
	index      uint32
	generation uint32
}

// object is the world's private per-handle record: spec.md §3's
// CollisionObject attribute list, minus the handle and broad-phase proxy
// (which the world and broadphase.Phase own respectively, keyed by the same
// slot index).
type object struct {
	generation uint32
	alive      bool

	pose       geom.Iso
	shape      shape.Handle
	groups     CollisionGroups
	query      QueryType
	userData   interface{}
	updatedAt  uint64
	poseDirty  bool
	shapeDirty bool
}

// worldAABB returns the object's AABB in world space, the input the broad
// phase proxy table needs every time the object's pose or shape changes.
func (o *object) worldAABB() bv.AABB {
	return o.shape.LocalAABB().Transform(o.pose)
}

// slots is a generational slot allocator for CollisionObjects, the same
// index-plus-generation idiom narrowphase.ContactIdAllocator uses, except
// removal here is explicit (client-driven Remove) rather than mark-and-sweep
// GC, since a CollisionObject's lifetime is owned directly by the client via
// its Handle (spec.md §3: "Owned by the world; handle is stable").
type slots struct {
	objects []object
	free    []uint32
}

func (s *slots) alloc() (uint32, *object) {
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		slot := &s.objects[idx]
		slot.alive = true
		return idx, slot
	}
	idx := uint32(len(s.objects))
	s.objects = append(s.objects, object{alive: true})
	return idx, &s.objects[idx]
}

// at looks up a slot by bare index, without a generation check — used
// internally for indices the caller already knows are live (e.g. a
// broadphase/narrowphase callback reporting a pair by index).
func (s *slots) at(idx uint32) (*object, bool) {
	if int(idx) >= len(s.objects) || !s.objects[idx].alive {
		return nil, false
	}
	return &s.objects[idx], true
}

func (s *slots) get(h Handle) (*object, bool) {
	if int(h.index) >= len(s.objects) {
		return nil, false
	}
	slot := &s.objects[h.index]
	if !slot.alive || slot.generation != h.generation {
		return nil, false
	}
	return slot, true
}

func (s *slots) release(h Handle) bool {
	slot, ok := s.get(h)
	if !ok {
		return false
	}
	*slot = object{generation: slot.generation + 1}
	s.free = append(s.free, h.index)
	return true
}
