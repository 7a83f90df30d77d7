// Package broadphase implements spec.md §4.6's broad phase: a DBVT-backed
// proxy table that, per step, applies deferred pose/shape updates, re-queries
// the tree for overlapping AABB pairs, and diffs the result against the
// previous step's overlap set to report proximity start/stop events. No
// teacher analogue — feather's only broad phase is a uniform hash grid
// (teacher_spatialgrid.go) rewalked from scratch every substep with no
// persistent pair set — so this package's shape is new, grounded on
// spec.md §4.6's four numbered steps and on the already-complete
// partitioning.DBVT for the tree itself. The worker fan-out for batch proxy
// updates reuses the teacher's task() helper (pipeline.go), kept almost
// verbatim in pipeline.go of this package.
package broadphase

import (
	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/partitioning"
)

// ObjectId identifies a collision object to the broad phase; the same opaque
// id space narrowphase.ObjectId uses, kept as a distinct type here so this
// package has no import-time dependency on narrowphase.
type ObjectId uint32

// PairFilter decides whether a newly-overlapping pair should actually be
// reported, e.g. for collision-group masking (spec.md §3's CollisionGroups)
// or an arbitrary user predicate (spec.md §6 lists pair filters as an
// extension point). A nil filter admits every pair.
type PairFilter func(a, b ObjectId) bool

// proxy is the broad phase's per-object bookkeeping: which DBVT leaf
// currently represents the object, and whether its AABB needs refitting
// before the next query (spec.md §4.6 step 1: "apply deferred add/remove/
// update operations").
type proxy struct {
	leaf     partitioning.LeafId
	bound    bv.AABB
	object   ObjectId
	removed  bool
	dirty    bool
	inserted bool
}

// Phase is a world's broad-phase stage: one DBVT, one proxy per live
// collision object, and the previous step's overlap set for diffing.
type Phase struct {
	tree    *partitioning.DBVT
	proxies map[ObjectId]*proxy
	margin  geom.N

	previousPairs map[pairKey]bool
	currentPairs  map[pairKey]bool

	Filter PairFilter
}

type pairKey struct{ a, b ObjectId }

func makePairKey(a, b ObjectId) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// NewPhase returns an empty broad phase. margin is the AABB loosening applied
// to every proxy (spec.md §4.6: "updates each dirty object's proxy AABB,
// loosened by a margin"), shared by every object in this world.
func NewPhase(margin geom.N) *Phase {
	return &Phase{
		tree:          partitioning.NewDBVT(),
		proxies:       make(map[ObjectId]*proxy),
		margin:        margin,
		previousPairs: make(map[pairKey]bool),
		currentPairs:  make(map[pairKey]bool),
	}
}

// Add registers a new collision object at the given tight (unloosened) AABB,
// inserting its proxy into the DBVT immediately — spec.md §6 doesn't ask add
// to be deferred the way a pose update is, since a fresh object has no
// previous frame's overlap set to reconcile against. Pairs still recorded
// under id from an earlier object that held the same id are dropped, so the
// new object's overlaps are reported as Started.
func (p *Phase) Add(id ObjectId, tightAABB bv.AABB) {
	for key := range p.previousPairs {
		if key.a == id || key.b == id {
			delete(p.previousPairs, key)
		}
	}
	loosened := tightAABB.Loosen(p.margin)
	leaf := p.tree.Insert(loosened, id)
	p.proxies[id] = &proxy{leaf: leaf, bound: loosened, object: id, inserted: true}
}

// Remove marks id's proxy for removal. The actual DBVT removal happens in
// ApplyUpdates (the next Step); the removed object's pairs then drop out of
// the next Step's overlap set, so that Step's diff reports them as stopped
// (unless an Add reuses id before then, which drops them instead).
func (p *Phase) Remove(id ObjectId) {
	if prox, ok := p.proxies[id]; ok {
		prox.removed = true
	}
}

// SetAABB marks id's proxy dirty with a new tight AABB. Re-fitting the DBVT
// leaf is deferred to ApplyUpdates, matching spec.md §4.6 step 1's "apply
// deferred add/remove/update operations" phrasing (objects can move many
// times within a step before the broad phase ever looks at them again).
func (p *Phase) SetAABB(id ObjectId, tightAABB bv.AABB) {
	prox, ok := p.proxies[id]
	if !ok {
		return
	}
	prox.bound = tightAABB.Loosen(p.margin)
	prox.dirty = true
}

// ApplyUpdates is spec.md §4.6 step 1: flush every deferred remove/update
// into the DBVT before this step's overlap query runs (Add already inserts
// immediately, so there are no deferred adds).
func (p *Phase) ApplyUpdates() {
	for id, prox := range p.proxies {
		if prox.removed {
			p.tree.Remove(prox.leaf)
			delete(p.proxies, id)
			continue
		}
		if prox.dirty {
			if !p.tree.Update(prox.leaf, prox.bound) {
				// Update only returns false when the leaf id itself is stale
				// (already removed); nothing to refit.
				continue
			}
			prox.dirty = false
		}
	}
}

// PairEvent reports a change in the broad phase's own overlap set — the
// "proximity-pair" events spec.md §2's four-step data flow hands to the
// narrow phase. Started pairs still need the narrow phase's pair filter and
// detector to decide whether they produce an actual contact/proximity event;
// Stopped pairs mean the narrow phase should retire the corresponding
// InteractionGraph edge outright.
type PairEvent struct {
	A, B    ObjectId
	Started bool
}

// Step runs spec.md §4.6 steps 1-3: apply deferred updates, re-query the DBVT
// for the full overlapping-pair set (step 2), then diff against the previous
// step's set to produce Started/Stopped PairEvents (step 3). Filter is
// consulted before a Started event is emitted; a pair it rejects is recorded
// as seen (so the Stopped side of the diff still fires once it later drifts
// out of range) but never reported as Started.
func (p *Phase) Step(out []PairEvent) []PairEvent {
	p.ApplyUpdates()

	clear(p.currentPairs)
	p.tree.SelfPairs(pairVisitorFunc(func(_ partitioning.LeafId, aData interface{}, _ partitioning.LeafId, bData interface{}) {
		a, b := aData.(ObjectId), bData.(ObjectId)
		key := makePairKey(a, b)
		p.currentPairs[key] = true
		if !p.previousPairs[key] {
			if p.Filter == nil || p.Filter(a, b) {
				out = append(out, PairEvent{A: a, B: b, Started: true})
			}
		}
	}))

	for key := range p.previousPairs {
		if !p.currentPairs[key] {
			out = append(out, PairEvent{A: key.a, B: key.b, Started: false})
		}
	}

	p.previousPairs, p.currentPairs = p.currentPairs, p.previousPairs
	return out
}

type pairVisitorFunc func(aID partitioning.LeafId, aData interface{}, bID partitioning.LeafId, bData interface{})

func (f pairVisitorFunc) VisitPair(aID partitioning.LeafId, aData interface{}, bID partitioning.LeafId, bData interface{}) {
	f(aID, aData, bID, bData)
}

// AABBQuery finds every live object whose loosened proxy AABB overlaps
// target, the backing call for interferences_with_aabb (spec.md §6).
func (p *Phase) AABBQuery(target bv.AABB, each func(ObjectId)) {
	partitioning.AABBQuery(p.tree, target, func(_ partitioning.LeafId, data interface{}) {
		each(data.(ObjectId))
	})
}

// RayQuery finds every live object whose proxy AABB the ray (origin, dir) up
// to maxToi intersects, the backing call for interferences_with_ray.
func (p *Phase) RayQuery(origin, dir geom.Vec, maxToi geom.N, each func(ObjectId)) {
	partitioning.RayQuery(p.tree, origin, dir, maxToi, func(_ partitioning.LeafId, data interface{}) {
		each(data.(ObjectId))
	})
}

// PointQuery finds every live object whose proxy AABB contains point, the
// backing call for interferences_with_point.
func (p *Phase) PointQuery(point geom.Point, each func(ObjectId)) {
	partitioning.PointQuery(p.tree, point, func(_ partitioning.LeafId, data interface{}) {
		each(data.(ObjectId))
	})
}

// Count reports how many live proxies the broad phase currently tracks.
func (p *Phase) Count() int { return p.tree.Count() }
