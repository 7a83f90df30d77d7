// Package partitioning implements the bounding volume tree (BVT) and dynamic
// bounding volume tree (DBVT) used to accelerate spatial queries: broad-phase
// proxy tracking, composite-shape part lookup, and range/ray/point queries.
//
// The teacher has no tree-based spatial structure (its broad phase is a uniform
// spatial hash, spatialgrid.go); this package is grounded on the generic dynamic
// BVH in other_examples/f470d457_drone115b-gobvh__gobvh.go.go, re-expressed
// without Go generics or pointer-linked nodes. Nodes live in a flat slot array
// and reference each other by int32 index, with nullLink (-1) meaning "no
// parent" or "no child" so it cannot be confused with slot 0, the way the teacher's own
// index-based containers (e.g. actor identifiers) avoid embedding raw pointers
// in data that needs to be relocated or serialized.
package partitioning

import "github.com/ridgeline-phys/collide/bv"

// LeafId identifies an inserted leaf and stays stable across refits, inserts,
// and removals of other leaves (it does not get reused until the slot is
// reclaimed by a later Insert).
type LeafId uint32

const nullLink int32 = -1

// node is a single BVT/DBVT slot. Internal nodes have both children set and a
// zero Data; leaf nodes have both children set to nullLink and hold user Data.
type node struct {
	bound    bv.AABB
	parent   int32
	children [2]int32
	data     interface{}
	isLeaf   bool
	// generation is unused: per-slot generations are kept in Tree.generation,
	// and a LeafId carries only the low bit of its slot's generation there.
	generation uint32
}

// Tree is the shared slot-array storage used by both the dynamic (DBVT) and
// static (BVT) trees in this package.
type Tree struct {
	nodes      []node
	root       int32
	freeList   []int32
	generation []uint32
	count      int
}

func newTree() *Tree {
	return &Tree{root: nullLink}
}

func (t *Tree) allocSlot() int32 {
	if n := len(t.freeList); n > 0 {
		idx := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		return idx
	}
	t.nodes = append(t.nodes, node{})
	t.generation = append(t.generation, 0)
	return int32(len(t.nodes) - 1)
}

func (t *Tree) freeSlot(idx int32) {
	t.nodes[idx] = node{}
	t.generation[idx]++
	t.freeList = append(t.freeList, idx)
}

func (t *Tree) makeLeafId(idx int32) LeafId {
	return LeafId(uint32(idx)<<1) | LeafId(t.generation[idx]&1)
}

// slotOf recovers the slot index backing id, or false if it has since been
// removed (generation mismatch).
func (t *Tree) slotOf(id LeafId) (int32, bool) {
	idx := int32(uint32(id) >> 1)
	if int(idx) >= len(t.nodes) {
		return 0, false
	}
	if LeafId(t.generation[idx]&1) != id&1 {
		return 0, false
	}
	if t.nodes[idx].children[0] != nullLink || t.nodes[idx].children[1] != nullLink {
		return 0, false
	}
	return idx, true
}

// Count returns the number of leaves currently stored.
func (t *Tree) Count() int { return t.count }

// Bound returns the bounding volume of the whole tree, or the zero AABB if empty.
func (t *Tree) Bound() bv.AABB {
	if t.root == nullLink {
		return bv.AABB{}
	}
	return t.nodes[t.root].bound
}
