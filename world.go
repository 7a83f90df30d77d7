// Package collide is the engine's external boundary: the collision World
// clients construct, populate, step, and query, per spec.md §6. It wires
// together broadphase.Phase (the DBVT-backed broad phase) and
// narrowphase.InteractionGraph (dispatch + manifold tracking) behind the
// handle-based API spec.md §6 describes, and owns the one piece of state
// neither of those packages knows about on its own: the stable CollisionObject
// table and the per-kind event queues.
//
// Grounded on teacher_world.go's World.Step structure (apply deferred updates
// -> broad phase -> narrow phase -> flush events), minus the physical-response
// phases (integrate/solvePosition/solveVelocity/trySleep), which spec.md §1's
// Non-goals exclude.
package collide

import (
	"github.com/ridgeline-phys/collide/broadphase"
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/narrowphase"
	"github.com/ridgeline-phys/collide/shape"
)

// PairFilter is a user predicate consulted before two objects are allowed to
// interact at all, composed with CollisionGroups rather than replacing it
// (spec.md §6: "clients register pair filters (predicate (obj₁, obj₂) →
// bool)"). A nil filter admits every pair the groups already allow.
type PairFilter func(a, b Handle) bool

// ContactPreprocessor may veto or transform a contact point before it enters
// a pair's manifold, per spec.md §4.8/§6 ("contact preprocessors"). Returning
// false drops the point.
type ContactPreprocessor func(a, b Handle, point *shape.ContactPoint) bool

type pairKey struct{ a, b uint32 }

func makePairKey(a, b uint32) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// World is the engine's single top-level entry point: object lifecycle,
// stepping, events, and read-only queries, per spec.md §6.
type World struct {
	objects slots

	broad      *broadphase.Phase
	graph      *narrowphase.InteractionGraph
	dispatcher *narrowphase.ContactDispatcher

	margin     geom.N
	prediction geom.N

	active map[pairKey]struct{ a, b uint32 }

	events Events
	step   uint64

	filter PairFilter
}

// New constructs an empty world. margin loosens every proxy AABB the broad
// phase tracks (spec.md §6: "margin is the loosening applied to every proxy
// AABB"); prediction is the default contact-query linear prediction used by
// Add when the caller doesn't specify a QueryType explicitly via AddWithQuery.
func New(margin, prediction geom.N) *World {
	w := &World{
		broad:      broadphase.NewPhase(margin),
		dispatcher: narrowphase.NewContactDispatcher(),
		margin:     margin,
		prediction: prediction,
		active:     make(map[pairKey]struct{ a, b uint32 }),
		events:     newEvents(),
	}
	w.graph = narrowphase.NewInteractionGraph(w.dispatcher, narrowphase.FeatureBased, 0.01*0.01)
	w.broad.Filter = func(a, b broadphase.ObjectId) bool {
		return w.canInteract(uint32(a), uint32(b))
	}
	return w
}

// DefaultQueryType returns a Contacts query type using this world's default
// linear prediction (the `prediction` constructor argument to New) and no
// angular prediction — the query type Add uses if the caller has no more
// specific requirement.
func (w *World) DefaultQueryType() QueryType { return Contacts(w.prediction, 0) }

// Dispatcher exposes the world's contact dispatcher so callers can register
// additional closed-form pairs (spec.md §4.7's per-world dispatch table,
// extendable rather than a fixed global).
func (w *World) Dispatcher() *narrowphase.ContactDispatcher { return w.dispatcher }

// SetPairFilter installs (or clears, with nil) the user predicate consulted
// alongside CollisionGroups before two objects are allowed to interact.
func (w *World) SetPairFilter(f PairFilter) { w.filter = f }

// SetContactPreprocessor installs a hook consulted for every contact point
// about to enter any pair's manifold (spec.md §4.8).
func (w *World) SetContactPreprocessor(f ContactPreprocessor) {
	if f == nil {
		w.graph.Preprocess = nil
		return
	}
	w.graph.Preprocess = func(a, b narrowphase.ObjectId, pt *shape.ContactPoint) bool {
		return f(w.handleOf(uint32(a)), w.handleOf(uint32(b)), pt)
	}
}

// handleOf rebuilds the public Handle for a live slot index, carrying its
// current generation so event payloads never hand clients a Handle that
// fails the very next Get/Remove call.
func (w *World) handleOf(idx uint32) Handle {
	if o, ok := w.objects.at(idx); ok {
		return Handle{index: idx, generation: o.generation}
	}
	return Handle{index: idx}
}

func (w *World) canInteract(a, b uint32) bool {
	oa, okA := w.objects.at(a)
	ob, okB := w.objects.at(b)
	if !okA || !okB {
		return false
	}
	if !oa.groups.CanInteract(ob.groups) {
		return false
	}
	if w.filter != nil {
		ha := Handle{index: a, generation: oa.generation}
		hb := Handle{index: b, generation: ob.generation}
		if !w.filter(ha, hb) {
			return false
		}
	}
	return true
}

// Add registers a new collision object and returns its stable handle
// (spec.md §6: "add(pose, shape_handle, collision_groups, query_type,
// user_data) -> handle"). The object's broad-phase proxy is inserted
// immediately (broadphase.Phase.Add isn't deferred); its first narrow-phase
// pairing happens on the next Update.
func (w *World) Add(pose geom.Iso, shp shape.Handle, groups CollisionGroups, query QueryType, userData interface{}) Handle {
	idx, slot := w.objects.alloc()
	*slot = object{
		generation: slot.generation,
		alive:      true,
		pose:       pose,
		shape:      shp,
		groups:     groups,
		query:      query,
		userData:   userData,
		updatedAt:  w.step,
	}
	w.broad.Add(broadphase.ObjectId(idx), slot.worldAABB())
	return Handle{index: idx, generation: slot.generation}
}

// Remove drops the object. Per spec.md §7, removing an already-removed (or
// never-issued) handle is silently ignored. Any live interaction the object
// held is torn down immediately (with a Stopped ContactEvent if its manifold
// was non-empty) rather than waiting for the next Update, so the freed slot
// index can be safely reused by a subsequent Add without dragging along a
// stale broad/narrow-phase entry.
func (w *World) Remove(h Handle) {
	if _, ok := w.objects.get(h); !ok {
		return
	}
	idx := h.index
	for key, pair := range w.active {
		if pair.a != idx && pair.b != idx {
			continue
		}
		w.finalizeEdge(pair.a, pair.b)
		delete(w.active, key)
	}
	w.broad.Remove(broadphase.ObjectId(idx))
	w.broad.ApplyUpdates()
	w.objects.release(h)
}

// finalizeEdge tears down any narrowphase edge between a and b, emitting the
// same Stopped/proximity-reset events an in-range pair going out of range
// would produce.
func (w *World) finalizeEdge(a, b uint32) {
	if edge, ok := w.graph.Edge(narrowphase.ObjectId(a), narrowphase.ObjectId(b)); ok {
		if edge.Kind == narrowphase.InteractionProximity && edge.Proximity != narrowphase.Disjoint {
			w.events.pushProximity(ProximityEvent{
				A: w.handleOf(a), B: w.handleOf(b),
				Previous: edge.Proximity, Current: narrowphase.Disjoint,
			})
		}
	}
	if ev, ok := w.graph.RemoveEdge(narrowphase.ObjectId(a), narrowphase.ObjectId(b)); ok {
		w.events.pushContact(ContactEvent{A: w.handleOf(uint32(ev.A)), B: w.handleOf(uint32(ev.B)), Started: ev.Started})
	}
}

// SetPosition stages a new pose for the next Update; spec.md §6: "Pose/BV
// changes are deferred; they take effect on the next update()."
func (w *World) SetPosition(h Handle, pose geom.Iso) {
	o, ok := w.objects.get(h)
	if !ok {
		return
	}
	o.pose = pose
	o.poseDirty = true
}

// SetShape stages a new shape handle for the object, taking effect at the
// next Update alongside any pending pose change.
func (w *World) SetShape(h Handle, shp shape.Handle) {
	o, ok := w.objects.get(h)
	if !ok {
		return
	}
	o.shape = shp
	o.shapeDirty = true
}

// SetCollisionGroups updates an object's group membership immediately: group
// masking is consulted by the broad phase's PairFilter on every Step, so
// there's no staged-vs-applied distinction to make here.
func (w *World) SetCollisionGroups(h Handle, groups CollisionGroups) {
	if o, ok := w.objects.get(h); ok {
		o.groups = groups
	}
}

// SetQueryType updates an object's query type immediately.
func (w *World) SetQueryType(h Handle, query QueryType) {
	if o, ok := w.objects.get(h); ok {
		o.query = query
	}
}

// Get returns the live state of h, or ok=false for an invalid/removed handle
// (spec.md §7: "get(handle) returns Option::None").
func (w *World) Get(h Handle) (pose geom.Iso, shp shape.Handle, groups CollisionGroups, query QueryType, userData interface{}, ok bool) {
	o, ok := w.objects.get(h)
	if !ok {
		return
	}
	return o.pose, o.shape, o.groups, o.query, o.userData, true
}

// Count reports how many live objects the world currently holds.
func (w *World) Count() int { return w.broad.Count() }

// Update runs one full step: apply deferred pose/shape updates, run the
// broad phase, then re-run the narrow phase over every currently
// broad-phase-overlapping pair, per spec.md §2's four-stage data flow and
// §5's ordering guarantees.
func (w *World) Update() {
	for i := range w.objects.objects {
		o := &w.objects.objects[i]
		if !o.alive || (!o.poseDirty && !o.shapeDirty) {
			continue
		}
		w.broad.SetAABB(broadphase.ObjectId(i), o.worldAABB())
		o.poseDirty, o.shapeDirty = false, false
	}

	events := w.broad.Step(nil)
	for _, pe := range events {
		key := makePairKey(uint32(pe.A), uint32(pe.B))
		if pe.Started {
			w.active[key] = struct{ a, b uint32 }{uint32(pe.A), uint32(pe.B)}
			continue
		}
		w.finalizeEdge(uint32(pe.A), uint32(pe.B))
		delete(w.active, key)
	}

	for _, pair := range w.active {
		w.updatePair(pair.a, pair.b)
	}

	w.graph.Sweep()
	w.step++
}

func (w *World) updatePair(a, b uint32) {
	oa, okA := w.objects.at(a)
	ob, okB := w.objects.at(b)
	if !okA || !okB {
		return
	}

	linear, isContact, margin := combinedPrediction(oa.query, ob.query)
	posedA := narrowphase.PosedShape{Shape: oa.shape, Pose: oa.pose}
	posedB := narrowphase.PosedShape{Shape: ob.shape, Pose: ob.pose}

	if isContact {
		if ev, ok := w.graph.UpdateContact(narrowphase.ObjectId(a), narrowphase.ObjectId(b), posedA, posedB, linear); ok {
			w.events.pushContact(ContactEvent{A: w.handleOf(uint32(ev.A)), B: w.handleOf(uint32(ev.B)), Started: ev.Started})
		}
		return
	}
	if ev, ok := w.graph.UpdateProximity(narrowphase.ObjectId(a), narrowphase.ObjectId(b), posedA, posedB, margin); ok {
		w.events.pushProximity(ProximityEvent{
			A: w.handleOf(a), B: w.handleOf(b),
			Previous: ev.Previous, Current: ev.Current,
		})
	}
}

// ContactEvents returns the contact start/stop events buffered since the
// last ClearEvents (spec.md §6).
func (w *World) ContactEvents() []ContactEvent { return w.events.ContactEvents() }

// ProximityEvents returns the proximity-changed events buffered since the
// last ClearEvents.
func (w *World) ProximityEvents() []ProximityEvent { return w.events.ProximityEvents() }

// ClearEvents drops every buffered event (spec.md §6).
func (w *World) ClearEvents() { w.events.ClearEvents() }
