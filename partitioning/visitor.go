package partitioning

import (
	"container/heap"

	"github.com/ridgeline-phys/collide/bv"
)

// Visitor drives two of the traversal patterns described in spec.md §4.4: plain
// range queries (Query) and best-first nearest-neighbor search (BestFirst);
// simultaneous pair traversal (SelfPairs) takes a PairVisitor instead. Grounded
// on the Searcher[BoundType] interface in gobvh.go (DoesIntersect + Evaluate),
// split into three methods instead of two so one Visitor value can drive either
// a recursive range walk or a priority-queued best-first search without the searcher having to encode
// "am I being used for pruning or for ranking" itself.
type Visitor interface {
	// Visit reports whether bound is of interest and its subtree should be
	// descended into (or, for a leaf, whether VisitData should be called).
	Visit(bound bv.AABB) bool
	// VisitBVCost returns the priority (lower visited first) a best-first search
	// should assign to this bound; unused by Query.
	VisitBVCost(bound bv.AABB) float64
	// VisitData is called for each leaf Visit admitted.
	VisitData(id LeafId, data interface{})
}

func (d *DBVT) Query(v Visitor) { query(d.tree, v) }
func (b *BVT) Query(v Visitor)  { query(b.tree, v) }

func query(t *Tree, v Visitor) {
	if t.root == nullLink {
		return
	}
	queryNode(t, t.root, v)
}

func queryNode(t *Tree, idx int32, v Visitor) {
	n := &t.nodes[idx]
	if !v.Visit(n.bound) {
		return
	}
	if n.isLeaf {
		v.VisitData(t.makeLeafId(idx), n.data)
		return
	}
	queryNode(t, n.children[0], v)
	queryNode(t, n.children[1], v)
}

// PairVisitor receives every leaf pair found to overlap by SelfPairs.
type PairVisitor interface {
	VisitPair(aID LeafId, aData interface{}, bID LeafId, bData interface{})
}

// SelfPairs walks the tree against itself, reporting every pair of leaves whose
// bounds overlap exactly once. This is the broad phase's overlap enumeration
// (spec.md §4.6): simultaneous traversal prunes whole subtree×subtree
// combinations whose merged bounds don't overlap, rather than testing every
// leaf against every other leaf.
func (d *DBVT) SelfPairs(v PairVisitor) { selfPairs(d.tree, v) }
func (b *BVT) SelfPairs(v PairVisitor)  { selfPairs(b.tree, v) }

func selfPairs(t *Tree, v PairVisitor) {
	if t.root == nullLink {
		return
	}
	crossNode(t, t.root, t.root, v)
}

// crossNode enumerates overlapping leaf pairs drawn from the subtrees rooted at
// a and b. When a == b it recurses only into (left,right) and each child
// against itself, never visiting an unordered pair twice.
func crossNode(t *Tree, a, b int32, v PairVisitor) {
	an, bn := &t.nodes[a], &t.nodes[b]
	if !an.bound.Overlaps(bn.bound) {
		return
	}

	switch {
	case an.isLeaf && bn.isLeaf:
		if a == b {
			return
		}
		v.VisitPair(t.makeLeafId(a), an.data, t.makeLeafId(b), bn.data)
	case an.isLeaf:
		crossNode(t, a, bn.children[0], v)
		crossNode(t, a, bn.children[1], v)
	case bn.isLeaf:
		crossNode(t, an.children[0], b, v)
		crossNode(t, an.children[1], b, v)
	case a == b:
		crossNode(t, an.children[0], an.children[1], v)
		crossNode(t, an.children[0], an.children[0], v)
		crossNode(t, an.children[1], an.children[1], v)
	default:
		crossNode(t, an.children[0], bn.children[0], v)
		crossNode(t, an.children[0], bn.children[1], v)
		crossNode(t, an.children[1], bn.children[0], v)
		crossNode(t, an.children[1], bn.children[1], v)
	}
}

// heapItem/priorityQueue back BestFirst with container/heap. No pack example
// implements a priority queue with the admissible-heuristic contract a
// best-first BVT search needs, so this one piece of the package leans on the
// standard library (documented in DESIGN.md).
type heapItem struct {
	idx      int32
	priority float64
}

type priorityQueue []heapItem

func (q priorityQueue) Len() int            { return len(q) }
func (q priorityQueue) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q priorityQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x interface{}) { *q = append(*q, x.(heapItem)) }
func (q *priorityQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// BestFirst visits leaves in ascending VisitBVCost order, stopping as soon as
// v.Visit returns false for a popped node (the caller's cutoff/early-exit,
// e.g. "stop once the running nearest-distance beats every remaining queue
// entry's lower bound").
func (d *DBVT) BestFirst(v Visitor) { bestFirst(d.tree, v) }
func (b *BVT) BestFirst(v Visitor)  { bestFirst(b.tree, v) }

func bestFirst(t *Tree, v Visitor) {
	if t.root == nullLink {
		return
	}
	pq := &priorityQueue{{idx: t.root, priority: v.VisitBVCost(t.nodes[t.root].bound)}}
	heap.Init(pq)
	for pq.Len() > 0 {
		top := heap.Pop(pq).(heapItem)
		n := &t.nodes[top.idx]
		if !v.Visit(n.bound) {
			return
		}
		if n.isLeaf {
			v.VisitData(t.makeLeafId(top.idx), n.data)
			continue
		}
		for _, c := range n.children {
			heap.Push(pq, heapItem{idx: c, priority: v.VisitBVCost(t.nodes[c].bound)})
		}
	}
}
