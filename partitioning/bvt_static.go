package partitioning

import (
	"sort"

	"github.com/ridgeline-phys/collide/bv"
)

// BVT is a read-only bounding volume tree built once from a fixed set of
// leaves via median-split partitioning, the way a Compound/TriMesh/HeightField
// shape's parts (spec.md §3) are indexed: those parts never move relative to
// their owning shape, so there is no reason to pay the DBVT's incremental
// insert/remove bookkeeping for them.
type BVT struct {
	tree *Tree
}

// Leaf is one (bound, opaque data) entry handed to Build.
type Leaf struct {
	Bound bv.AABB
	Data  interface{}
}

// Build constructs a static tree over leaves using recursive median-split: at
// each internal node the leaves are sorted by their bounds' centers along the
// longest axis of their combined bound and split into two halves by count, the classic top-down BVH build every
// pack example that builds a tree at all (gobvh.go's incremental insert aside)
// falls back to for a fixed leaf set.
func Build(leaves []Leaf) *BVT {
	t := newTree()
	if len(leaves) == 0 {
		return &BVT{tree: t}
	}
	idxs := make([]int, len(leaves))
	for i := range idxs {
		idxs[i] = i
	}
	t.root = buildRange(t, leaves, idxs, nullLink)
	t.count = len(leaves)
	return &BVT{tree: t}
}

func buildRange(t *Tree, leaves []Leaf, idxs []int, parent int32) int32 {
	if len(idxs) == 1 {
		slot := t.allocSlot()
		t.nodes[slot] = node{bound: leaves[idxs[0]].Bound, parent: parent, children: [2]int32{nullLink, nullLink}, data: leaves[idxs[0]].Data, isLeaf: true}
		return slot
	}

	combined := leaves[idxs[0]].Bound
	for _, i := range idxs[1:] {
		combined = combined.Merge(leaves[i].Bound)
	}

	axis := longestAxis(combined)
	sort.Slice(idxs, func(a, b int) bool {
		return leaves[idxs[a]].Bound.Center()[axis] < leaves[idxs[b]].Bound.Center()[axis]
	})
	mid := len(idxs) / 2

	slot := t.allocSlot()
	t.nodes[slot] = node{parent: parent}
	left := buildRange(t, leaves, idxs[:mid], slot)
	right := buildRange(t, leaves, idxs[mid:], slot)
	t.nodes[slot].children = [2]int32{left, right}
	t.nodes[slot].bound = t.nodes[left].bound.Merge(t.nodes[right].bound)
	return slot
}

func longestAxis(b bv.AABB) int {
	best := 0
	bestLen := b.Maxs[0] - b.Mins[0]
	for i := 1; i < len(b.Maxs); i++ {
		if l := b.Maxs[i] - b.Mins[i]; l > bestLen {
			bestLen = l
			best = i
		}
	}
	return best
}

// Count returns the number of leaves in the tree.
func (b *BVT) Count() int { return b.tree.Count() }

// Bound returns the bound of the whole tree.
func (b *BVT) Bound() bv.AABB { return b.tree.Bound() }
