//go:build !dim2

// Package epa implements the Expanding Polytope Algorithm: given GJK's final
// simplex (a tetrahedron enclosing the origin in Minkowski-difference space),
// it expands that simplex into a polytope whose closest face to the origin
// yields the penetration depth and contact normal. Adapted near-verbatim from
// the teacher's epa/{epa,face,polytope,manifold}.go: same sync.Pool-backed
// builders, same boundary-edge-by-occurrence-count polytope expansion, same
// Sutherland-Hodgman manifold clipping, generalized from *actor.RigidBody
// pairs to gjk.Posed (shape.SupportMap + geom.Iso) pairs and stripped of the
// physical-response fields (Compliance, Restitution) a Non-goal excludes.
//
// EPA only makes sense in 3-D: a 2-D "polytope" is just a polygon with no
// face/edge distinction to rebuild, so this package is 3-D only
// (see narrowphase's 2-D clipping for the planar equivalent of §4.9).
package epa

import "github.com/ridgeline-phys/collide/geom"

// Face is a triangular face of the polytope: 3 vertices, an outward-pointing
// unit normal, and the (non-negative) distance from the origin to the face's
// plane.
type Face struct {
	Points   [3]geom.Point
	Normal   geom.Vec
	Distance geom.N
}

// compareVec3 orders two points lexicographically (x, then y, then z), used
// to normalize edge endpoints and to dedupe points when computing a
// polytope's centroid.
func compareVec3(a, b geom.Point) int {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func vec3Equal(a, b geom.Point) bool {
	return a[0] == b[0] && a[1] == b[1] && a[2] == b[2]
}
