// Package narrowphase implements the pairwise detection stage of the pipeline:
// dispatch tables that pick a concrete detector for a pair of shape kinds,
// persistent contact-manifold tracking with generational contact ids, and the
// interaction graph the world steps each frame. No direct teacher analogue —
// feather hard-codes a single GJK+EPA call for every pair in
// teacher_collision.go's NarrowPhase — so this package is grounded on the
// dispatcher-table description in spec.md §4.7, the manifold-tracking
// description in §4.8, and (for the sync.Pool/slot-allocator idiom) on the
// teacher's own pooling style in gjk/gjk.go and epa/polytope.go.
package narrowphase

// ContactId is a generational contact identifier: equality survives across
// frames as long as the slot has not been freed and reused, the way
// partitioning.LeafId survives DBVT churn.
type ContactId struct {
	Index      uint32
	Generation uint32
}

// ContactIdAllocator is the process-wide-per-world, mark-and-sweep slot
// allocator spec.md §5 describes: ids referenced by any live manifold are
// marked each step; anything left unmarked at Sweep is freed and its slot
// recycled (with its generation bumped, so a stale ContactId a client is
// still holding never silently aliases the new occupant).
type ContactIdAllocator struct {
	generations []uint32
	marked      []bool
	free        []uint32
}

// NewContactIdAllocator returns an empty allocator.
func NewContactIdAllocator() *ContactIdAllocator {
	return &ContactIdAllocator{}
}

// Alloc reserves a fresh id, reusing a freed slot when one is available.
func (a *ContactIdAllocator) Alloc() ContactId {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.marked[idx] = true
		return ContactId{Index: idx, Generation: a.generations[idx]}
	}
	idx := uint32(len(a.generations))
	a.generations = append(a.generations, 0)
	a.marked = append(a.marked, true)
	return ContactId{Index: idx, Generation: 0}
}

// Mark records that id is still referenced by a live manifold this step, so
// Sweep does not reclaim it. Stale ids (wrong generation) are ignored.
func (a *ContactIdAllocator) Mark(id ContactId) {
	if int(id.Index) >= len(a.generations) || a.generations[id.Index] != id.Generation {
		return
	}
	a.marked[id.Index] = true
}

// Sweep frees every slot nothing marked this step, bumps its generation, and
// clears every mark in preparation for the next step. Called once per world
// step, after every manifold has pushed this frame's contacts.
func (a *ContactIdAllocator) Sweep() {
	for idx := range a.marked {
		if !a.marked[idx] {
			a.generations[idx]++
			a.free = append(a.free, uint32(idx))
		}
		a.marked[idx] = false
	}
}
