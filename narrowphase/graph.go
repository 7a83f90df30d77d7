package narrowphase

import (
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/gjk"
	"github.com/ridgeline-phys/collide/shape"
)

// ObjectId is the stable graph-index the owning world assigns a collision
// object for its lifetime (spec.md §3's "collision-object graph-indices").
// narrowphase never looks inside it; it is only ever used as a map key.
type ObjectId uint32

// InteractionKind says which of the tagged-union arms an edge holds.
// spec.md §3's Interaction: "Contact(detector, manifold) or Proximity(detector)".
type InteractionKind uint8

const (
	InteractionContact InteractionKind = iota
	InteractionProximity
)

// ProximityState is the three-state proximity value spec.md §4.7 names.
type ProximityState uint8

const (
	Disjoint ProximityState = iota
	WithinMargin
	Intersecting
)

// Interaction is one edge of the InteractionGraph: the persistent detector
// state (a ContactManifold for a Contact edge) plus the last-known proximity
// state for a Proximity edge. Mirrors spec.md §3's Interaction tagged union;
// Go has no tagged unions, so Kind picks which of the two fields is live.
type Interaction struct {
	Kind      InteractionKind
	Manifold  *ContactManifold
	Proximity ProximityState
	Normal    geom.Vec
}

type edgeKey struct{ a, b ObjectId }

func makeEdgeKey(a, b ObjectId) edgeKey {
	if a <= b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

// ContactEvent reports a manifold transitioning to or from empty, the only
// two transitions spec.md §6 asks clients to be notified of (per-point
// changes within an already-active manifold are not events, just cache
// churn).
type ContactEvent struct {
	A, B    ObjectId
	Started bool // false means Stopped
}

// ProximityEvent reports the three-state proximity value changing, per
// spec.md §4.7/§8.
type ProximityEvent struct {
	A, B     ObjectId
	Previous ProximityState
	Current  ProximityState
}

// InteractionGraph is the narrow phase's persistent state: an undirected
// graph whose nodes are ObjectIds and whose edges are Interactions, exactly
// as spec.md §3 describes. No teacher analogue (feather has no notion of a
// "graph" at all — every substep re-collides the same flat body slice), so
// this type and its Update loop are new, grounded in the dispatcher types
// built in dispatch.go/composite.go and the tracking types in manifold.go.
type InteractionGraph struct {
	edges      map[edgeKey]*Interaction
	dispatcher *ContactDispatcher
	ids        *ContactIdAllocator
	mode       ManifoldTrackingMode
	epsilon    geom.N

	// Preprocess, if set, is consulted for every contact point about to
	// enter a manifold: returning false drops the point before it is ever
	// pushed. Grounded on spec.md §4.8's "Contact preprocessing hooks let
	// either body veto or transform a contact before it enters the
	// manifold; this is how one-way walls and sensors are implemented." The
	// owning world is expected to set this once and key its own per-pair
	// logic off the ObjectId arguments.
	Preprocess func(a, b ObjectId, pt *shape.ContactPoint) bool
}

// NewInteractionGraph returns an empty graph using dispatcher for contact
// detection and the given manifold-tracking mode for every edge it creates.
func NewInteractionGraph(dispatcher *ContactDispatcher, mode ManifoldTrackingMode, epsilon geom.N) *InteractionGraph {
	return &InteractionGraph{
		edges:      make(map[edgeKey]*Interaction),
		dispatcher: dispatcher,
		ids:        NewContactIdAllocator(),
		mode:       mode,
		epsilon:    epsilon,
	}
}

// RemoveEdge drops the edge between a and b, e.g. because the broad phase no
// longer reports their AABBs as overlapping (spec.md §4.6's diff step).
// Returns a Stopped ContactEvent if the removed edge held a non-empty
// manifold, so a pair that goes out of broad-phase range without a
// narrow-phase Disjoint step first still gets its Stopped event.
func (g *InteractionGraph) RemoveEdge(a, b ObjectId) (ContactEvent, bool) {
	key := makeEdgeKey(a, b)
	edge, ok := g.edges[key]
	if !ok {
		return ContactEvent{}, false
	}
	delete(g.edges, key)
	if edge.Kind == InteractionContact && edge.Manifold != nil && !edge.Manifold.Empty() {
		return ContactEvent{A: a, B: b, Started: false}, true
	}
	return ContactEvent{}, false
}

// UpdateContact re-runs the contact dispatcher for the (a, b) pair, pushes
// any resulting points into the pair's manifold (creating the edge on first
// overlap), and reports Started when points arrive in an empty manifold and
// Stopped (dropping the edge) on the first update that pushes no point into a
// non-empty one; cached points from earlier frames do not keep the contact
// alive. localA converts a world point into body-A's local frame, used
// only when the graph's tracking mode is DistanceBased. prediction is the
// pair's combined linear prediction distance (spec.md §3's l1+l2): a pair
// within prediction of touching, but not yet overlapping, still populates the
// manifold and fires Started, per spec.md §2's "imminent contacts are
// reported before interpenetration".
func (g *InteractionGraph) UpdateContact(a, b ObjectId, posedA, posedB PosedShape, prediction geom.N) (ContactEvent, bool) {
	key := makeEdgeKey(a, b)
	edge, exists := g.edges[key]
	if !exists {
		edge = &Interaction{Kind: InteractionContact, Manifold: NewManifold(g.mode, g.epsilon)}
		g.edges[key] = edge
	}

	wasEmpty := edge.Manifold.Empty()
	contact, ok := g.dispatcher.Dispatch(posedA, posedB, prediction)
	localA := func(p geom.Point) geom.Point { return posedA.Pose.InverseTransformPoint(p) }
	pushed := false
	if ok {
		edge.Normal = contact.Normal
		for _, pt := range contact.Points {
			if g.Preprocess != nil && !g.Preprocess(a, b, &pt) {
				continue
			}
			edge.Manifold.Push(pt, g.ids, localA)
			pushed = true
		}
	}
	edge.Manifold.SaveCacheAndClear()
	isEmpty := !pushed

	switch {
	case wasEmpty && !isEmpty:
		return ContactEvent{A: a, B: b, Started: true}, true
	case !wasEmpty && isEmpty:
		delete(g.edges, key)
		return ContactEvent{A: a, B: b, Started: false}, true
	}
	return ContactEvent{}, false
}

// UpdateProximity re-runs a GJK distance query for the (a, b) pair and
// reports a ProximityEvent whenever the discrete state changes. Unlike
// contacts, proximity needs the true separation distance even when the
// shapes are apart, so it bypasses ContactDispatcher (built for the
// overlap-or-nothing contract) and calls gjk.Distance directly, per the
// "exact-distance mode ... proximity mode short-circuits" description in
// spec.md §4.2. GJK only takes a single convex support map per side, so a
// composite operand falls back to a looser AABB-overlap test instead — exact
// enough to answer "is anything even close", which is all three-state
// proximity needs.
func (g *InteractionGraph) UpdateProximity(a, b ObjectId, posedA, posedB PosedShape, margin geom.N) (ProximityEvent, bool) {
	key := makeEdgeKey(a, b)
	edge, exists := g.edges[key]
	if !exists {
		edge = &Interaction{Kind: InteractionProximity, Proximity: Disjoint}
		g.edges[key] = edge
	}
	previous := edge.Proximity

	var current ProximityState
	if classify(posedA.Shape) == KindComposite || classify(posedB.Shape) == KindComposite {
		aabbA := posedA.Shape.LocalAABB().Transform(posedA.Pose)
		aabbB := posedB.Shape.LocalAABB().Transform(posedB.Pose)
		switch {
		case aabbA.Overlaps(aabbB):
			current = Intersecting
		case aabbA.Loosen(margin).Overlaps(aabbB):
			current = WithinMargin
		default:
			current = Disjoint
		}
	} else {
		dist, _, _, separated := gjk.Distance(posedA.asPosed(), posedB.asPosed())
		switch {
		case !separated:
			current = Intersecting
		case dist <= margin:
			current = WithinMargin
		default:
			current = Disjoint
		}
	}
	edge.Proximity = current

	if current == previous {
		return ProximityEvent{}, false
	}
	return ProximityEvent{A: a, B: b, Previous: previous, Current: current}, true
}

// Edge returns the interaction currently stored for (a, b), if any — the
// backing call for the world's contact_pair/proximity_pair queries
// (spec.md §6).
func (g *InteractionGraph) Edge(a, b ObjectId) (*Interaction, bool) {
	edge, ok := g.edges[makeEdgeKey(a, b)]
	return edge, ok
}

// Sweep runs the contact-id allocator's mark-and-sweep GC for this step,
// after every edge's Update has run (spec.md §5: ids are garbage-collected
// after each step).
func (g *InteractionGraph) Sweep() { g.ids.Sweep() }

// EdgeCount reports how many pairs currently have a live edge, mainly for
// tests and diagnostics.
func (g *InteractionGraph) EdgeCount() int { return len(g.edges) }
