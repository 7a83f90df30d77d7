package shape

import (
	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

// ConvexPolytope is an arbitrary convex hull given by its vertex cloud: a convex
// polygon in 2-D, a convex polyhedron in 3-D. No teacher analogue (the teacher
// only ever hard-codes Sphere/Box/Plane); the support map is the brute-force
// linear scan every GJK/EPA implementation in the pack falls back to for
// hull-type shapes when no faster structure (e.g. a hill-climb over an adjacency
// graph) is built.
type ConvexPolytope struct {
	Vertices []geom.Point
}

func NewConvexPolytope(vertices []geom.Point) ConvexPolytope {
	return ConvexPolytope{Vertices: vertices}
}

func (cp ConvexPolytope) LocalSupport(direction geom.Vec) geom.Point {
	best := cp.Vertices[0]
	bestDot := best.Dot(direction)
	for _, v := range cp.Vertices[1:] {
		if d := v.Dot(direction); d > bestDot {
			bestDot = d
			best = v
		}
	}
	return best
}

func (cp ConvexPolytope) LocalAABB() bv.AABB {
	return bv.FromPoints(cp.Vertices)
}
