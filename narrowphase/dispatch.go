package narrowphase

import (
	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/gjk"
	"github.com/ridgeline-phys/collide/shape"
)

// PosedShape pairs any shape.Handle (leaf or composite) with the isometry
// placing it in world space. Unlike gjk.Posed, whose Shape field demands a
// shape.SupportMap, PosedShape accepts shape.Compound too — composite shapes
// are generally non-convex and intentionally don't implement SupportMap
// (see shape/compound.go), so the dispatcher boundary has to sit one level
// above GJK/EPA's operand type.
type PosedShape struct {
	Shape shape.Handle
	Pose  geom.Iso
}

// asPosed narrows a PosedShape down to gjk.Posed for the convex-only detectors
// (closed forms, GJK+EPA). Panics if Shape doesn't implement SupportMap,
// which would only happen if a caller routed a composite into a convex-only
// code path — a dispatcher bug, not a reachable runtime state given Dispatch
// always checks KindComposite first.
func (p PosedShape) asPosed() gjk.Posed {
	return gjk.Posed{Shape: p.Shape.(shape.SupportMap), Pose: p.Pose}
}

// ShapeKind classifies a shape.Handle for dispatcher lookup. Coarser than the
// concrete Go type: every convex leaf shape without a faster closed form
// collapses to KindConvex, so adding a new convex leaf shape (capsule,
// cylinder, ...) never requires a new dispatcher entry.
type ShapeKind uint8

const (
	KindConvex ShapeKind = iota
	KindBall
	KindPlane
	KindComposite
)

func classify(h shape.Handle) ShapeKind {
	switch h.(type) {
	case *shape.Compound:
		return KindComposite
	case shape.Ball:
		return KindBall
	case shape.Plane:
		return KindPlane
	default:
		return KindConvex
	}
}

// Contact is the narrow-phase result for one pair this frame: a separating
// (or penetrating) normal from A to B, and zero or more contact points. Empty
// Points with a positive Separation means the pair is apart; the default
// penetration solver (epa.EPA in 3-D, the polygon-edge equivalent in 2-D,
// see dispatch_dim3.go/dispatch_dim2.go) never runs unless gjk.GJK first
// reports overlap.
type Contact struct {
	Normal     geom.Vec
	Separation geom.N
	Points     []shape.ContactPoint
}

// ContactFunc detects contact between two posed shapes, returning ok=false
// when they are not touching and not within prediction of touching. prediction
// is the combined linear prediction distance spec.md §3 asks the narrow phase
// to honor (QueryContacts' l1+l2): a pair separated by no more than prediction
// still reports, with a negative Penetration recording the gap, so imminent
// contacts surface before interpenetration (spec.md §2).
type ContactFunc func(a, b PosedShape, prediction geom.N) (Contact, bool)

// ContactDispatcher picks a ContactFunc by the pair's (ShapeKind, ShapeKind),
// falling back to a default GJK+EPA detector for any pair without a closed
// form. No teacher analogue: feather calls a single hard-coded GJK+EPA pair
// for every body (teacher_collision.go's NarrowPhase); spec.md §4.7 asks for
// a dispatch table instead, so the shape of this type is new, not adapted.
// A World owns exactly one of these (spec.md §9: per-world, not a package
// global), so tests can register custom pairs without cross-contaminating.
type ContactDispatcher struct {
	table   map[[2]ShapeKind]ContactFunc
	defFn   ContactFunc
	compose ContactFunc // composite-vs-anything recursion, see composite.go
}

// NewContactDispatcher returns a dispatcher pre-populated with the closed
// forms this package ships (ball/ball, plane/anything-with-a-support-map) and
// the default penetration-solver fallback (defaultContact: GJK+EPA in 3-D,
// GJK + polygon-edge expansion in 2-D — see dispatch_dim3.go/dispatch_dim2.go).
func NewContactDispatcher() *ContactDispatcher {
	d := &ContactDispatcher{
		table:   make(map[[2]ShapeKind]ContactFunc),
		defFn:   defaultContact,
		compose: compositeContact,
	}
	d.Register(KindBall, KindBall, ballBallContact)
	d.Register(KindPlane, KindConvex, planeConvexContact)
	d.Register(KindPlane, KindBall, planeConvexContact)
	return d
}

// Register installs fn for the (kindA, kindB) pair. If the pair is registered
// in the opposite order only, Dispatch swaps the operands and negates the
// resulting normal, so callers only ever register one order.
func (d *ContactDispatcher) Register(kindA, kindB ShapeKind, fn ContactFunc) {
	d.table[[2]ShapeKind{kindA, kindB}] = fn
}

// Dispatch finds and runs the best detector for (a, b), trying the composite
// path first (a composite shape is never convex, so it can never have a
// closed-form entry of its own), then the exact-order table entry, then the
// swapped-order entry with the result negated, then the default. prediction
// is the pair's combined linear prediction distance (0 for an exact,
// overlap-only query).
func (d *ContactDispatcher) Dispatch(a, b PosedShape, prediction geom.N) (Contact, bool) {
	kindA, kindB := classify(a.Shape), classify(b.Shape)
	if kindA == KindComposite || kindB == KindComposite {
		return d.compose(a, b, prediction)
	}
	if fn, ok := d.table[[2]ShapeKind{kindA, kindB}]; ok {
		return fn(a, b, prediction)
	}
	if fn, ok := d.table[[2]ShapeKind{kindB, kindA}]; ok {
		c, ok2 := fn(b, a, prediction)
		if ok2 {
			c.Normal = c.Normal.Mul(-1)
			for i := range c.Points {
				c.Points[i].FeatureA, c.Points[i].FeatureB = c.Points[i].FeatureB, c.Points[i].FeatureA
			}
		}
		return c, ok2
	}
	return d.defFn(a, b, prediction)
}

// ballBallContact is a closed form for two balls: no GJK/EPA iteration needed,
// the centers-and-radii algebra is exact. Grounded on the same
// support-point-free shortcut feather takes nowhere (feather always runs
// GJK+EPA), but a standard closed form for the simplest possible pair; kept
// here because spec.md §4.7 explicitly calls out dispatch-by-shape-kind as
// the mechanism for this kind of fast path. A pair separated by no more than
// prediction still reports, with a negative Penetration recording the gap
// (spec.md §2/§3's prediction contract).
func ballBallContact(a, b PosedShape, prediction geom.N) (Contact, bool) {
	ballA := a.Shape.(shape.Ball)
	ballB := b.Shape.(shape.Ball)

	delta := b.Pose.Translation.Sub(a.Pose.Translation)
	dist := delta.Len()
	radiusSum := ballA.Radius + ballB.Radius
	if dist >= radiusSum+prediction {
		return Contact{Separation: dist - radiusSum}, false
	}

	var normal geom.Vec
	if dist < 1e-9 {
		normal = geom.Axis(0)
	} else {
		normal = delta.Mul(1 / dist)
	}
	depth := radiusSum - dist
	onA := a.Pose.Translation.Add(normal.Mul(ballA.Radius))
	onB := b.Pose.Translation.Sub(normal.Mul(ballB.Radius))

	return Contact{
		Normal:     normal,
		Separation: -depth,
		Points: []shape.ContactPoint{{
			WorldOnA:    onA,
			WorldOnB:    onB,
			Penetration: depth,
			FeatureA:    shape.Unknown(),
			FeatureB:    shape.Unknown(),
		}},
	}, true
}

// planeConvexContact handles plane-vs-anything-with-a-support-map directly:
// the plane's own normal is authoritative (it has no "closest face" to
// search for), so EPA's iteration is unneeded work. Grounded on
// epa.orientNormalForPlanes, which already special-cases planes inside the
// general EPA loop; here the plane case is pulled out into its own fast path,
// the way spec.md §4.7 intends dispatch entries to. A gap of no more than
// prediction still reports, with a negative Penetration recording it.
func planeConvexContact(a, b PosedShape, prediction geom.N) (Contact, bool) {
	plane := a.Shape.(shape.Plane)
	support := b.Shape.(shape.SupportMap)

	worldNormal := geom.RotateVec(a.Pose.Rotation, plane.Normal)
	localSupport := support.LocalSupport(b.Pose.InverseTransformVector(worldNormal.Mul(-1)))
	worldSupport := b.Pose.TransformPoint(localSupport)

	planePoint := a.Pose.TransformPoint(plane.Normal.Mul(plane.Distance))
	depth := planePoint.Sub(worldSupport).Dot(worldNormal)
	if depth <= -prediction {
		return Contact{Separation: -depth}, false
	}

	onA := worldSupport.Add(worldNormal.Mul(depth))
	return Contact{
		Normal:     worldNormal,
		Separation: -depth,
		Points: []shape.ContactPoint{{
			WorldOnA:    onA,
			WorldOnB:    worldSupport,
			Penetration: depth,
			FeatureA:    shape.Face(0),
			FeatureB:    shape.Unknown(),
		}},
	}, true
}

// predictedContact is the shared fallback dispatch_dim3.go's gjkEPAContact and
// dispatch_dim2.go's gjkClip2DContact both call once GJK has reported the pair
// apart: gjk.Distance gives the exact separation and its witnesses, and a
// separation no greater than prediction is still reported as a contact with a
// negative Penetration, per spec.md §2's "imminent contacts are reported
// before interpenetration" and §3's prediction contract. Single contact point
// only — a not-yet-touching pair has no manifold to clip.
func predictedContact(pa, pb gjk.Posed, prediction geom.N) (Contact, bool) {
	if prediction <= 0 {
		return Contact{}, false
	}
	dist, onA, onB, separated := gjk.Distance(pa, pb)
	if !separated || dist > prediction {
		return Contact{Separation: dist}, false
	}
	normal := geom.Axis(0)
	if dist > 1e-9 {
		normal = onB.Sub(onA).Mul(1 / dist)
	}
	return Contact{
		Normal:     normal,
		Separation: dist,
		Points: []shape.ContactPoint{{
			WorldOnA:    onA,
			WorldOnB:    onB,
			Penetration: -dist,
			FeatureA:    shape.Unknown(),
			FeatureB:    shape.Unknown(),
		}},
	}, true
}

// loosenedAABB is the shared helper composite.go and broadphase use to build
// the query volume for "everything near this shape", per spec.md §4.5/§4.6.
func loosenedAABB(p PosedShape, margin geom.N) bv.AABB {
	return p.Shape.LocalAABB().Transform(p.Pose).Loosen(margin)
}
