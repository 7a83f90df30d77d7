// Package shape implements the leaf and composite collision shapes together with
// the support-map / point-query / ray-cast capability interfaces the pipeline
// dispatches against. Leaf shapes generalize actor.Sphere/Box/Plane from the
// teacher, stripped of mass/inertia (a physical-response concern, out of scope per
// spec.md §1) and extended with the remaining leaf kinds spec.md §2/§3 lists.
package shape

import (
	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

// SupportMap is the single capability every convex shape used by GJK/EPA must
// provide: the farthest point of the shape, in the shape's own local frame, along
// a given direction. Mirrors actor.ShapeInterface.Support.
type SupportMap interface {
	// LocalSupport returns the support point in local space for a local-space
	// direction. direction need not be normalized and must not be mutated.
	LocalSupport(direction geom.Vec) geom.Point
}

// HasLocalAABB is implemented by every shape that can report a tight local-space
// bounding box, mirrors actor.ShapeInterface.ComputeAABB/GetAABB but is a pure
// function of the shape (no cached mutable state) so it is safe to call
// concurrently on a shared, immutable ShapeHandle.
type HasLocalAABB interface {
	LocalAABB() bv.AABB
}

// PointQuery is implemented by shapes that can answer point-containment and
// closest-point queries (spec.md §6's interferences_with_point).
type PointQuery interface {
	// ProjectLocalPoint returns the closest point on the shape's boundary to a
	// local-space query point, and whether the query point is inside the shape.
	// solid controls whether an interior point projects to itself (true) or to
	// the boundary (false).
	ProjectLocalPoint(point geom.Point, solid bool) (projection geom.Point, inside bool)
}

// ContainsLocalPoint is a convenience query most PointQuery implementers also expose.
type ContainsLocalPoint interface {
	ContainsLocalPoint(point geom.Point) bool
}

// Ray is a half-line query used by RayCaster and the broad/narrow phase ray queries.
type Ray struct {
	Origin geom.Point
	Dir    geom.Vec
}

// At evaluates the ray's position at parameter t.
func (r Ray) At(t geom.N) geom.Point {
	return r.Origin.Add(r.Dir.Mul(t))
}

// RayHit is the result of a successful ray cast.
type RayHit struct {
	Toi     geom.N
	Normal  geom.Vec
	Feature FeatureId
}

// RayCaster is implemented by shapes that can be ray-cast directly (without going
// through GJK). maxToi bounds the search the way spec.md §6 bounds every query.
type RayCaster interface {
	LocalRayCast(ray Ray, maxToi geom.N) (RayHit, bool)
}

// FeatureProvider exposes the polygonal feature (face in 3-D, edge in 2-D) whose
// outward normal is most aligned with a query direction, together with its FeatureId. The narrow
// phase's manifold generator clips two such features against each other
// (spec.md §4.8/§4.9), generalizing actor.ShapeInterface.GetContactFeature.
type FeatureProvider interface {
	LocalContactFeature(direction geom.Vec) (points []geom.Point, id FeatureId)
}

// Handle is a shared, immutable reference to a shape (leaf or composite), exposing
// whichever of the capability interfaces above the concrete shape implements.
// Mirrors ShapeHandle from spec.md §3: "shared immutable reference to a shape with
// its support-map / point-query / ray-cast interfaces". Plain Go interface
// satisfaction (rather than an explicit capability struct) plays that role here:
// callers type-assert for the capability they need.
type Handle interface {
	HasLocalAABB
}
