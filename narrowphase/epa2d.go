//go:build dim2

package narrowphase

import (
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/gjk"
	"github.com/ridgeline-phys/collide/shape"
)

// epa2D is the 2-D analogue of the epa package's Expanding Polytope
// Algorithm: instead of growing a polytope of triangular faces, it grows a
// convex polygon of edges. GJK's terminal 2-D simplex is always a full
// triangle enclosing the origin (gjk_dim2.go's containsOrigin only returns
// true from the 3-point case), so there is no tetrahedron-vs-triangle
// distinction to repair the way epa.PolytopeBuilder.BuildInitialFaces does:
// the seed polygon is just that triangle, wound CCW.
//
// epa is 3-D only (see epa/face.go's package comment) because a 2-D
// "polytope" has no face/edge distinction left to rebuild; this is that
// planar equivalent, living in narrowphase per spec.md §4.9's "convex
// polygonal feature clipping" write-up rather than in its own package.
const (
	epa2DMaxIterations        = 32
	epa2DConvergenceTolerance = 0.001
	epa2DMinEdgeDistance      = 0.0001
)

// cross2 is the scalar (z-component) 2-D cross product.
func cross2(a, b geom.Vec) geom.N { return a[0]*b[1] - a[1]*b[0] }

// perp2 rotates v by -90 degrees, mirroring gjk_dim2.go's unexported perp.
func perp2(v geom.Vec) geom.Vec { return geom.Vec{v[1], -v[0]} }

func normalizeOrFallback2D(v geom.Vec) geom.Vec {
	if n := v.Len(); n > 1e-12 {
		return v.Mul(1 / n)
	}
	return geom.Vec{0, 1}
}

// closestEdge2D is the polygon edge nearest the origin: its outward unit
// normal and the (non-negative) distance from the origin to its line.
type closestEdge2D struct {
	index  int
	normal geom.Vec
	dist   geom.N
}

// findClosestEdge2D scans every edge of poly (already CCW-wound) and returns
// the one nearest the origin.
func findClosestEdge2D(poly []geom.Point) closestEdge2D {
	best := closestEdge2D{dist: geom.N(1e30)}
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		edge := b.Sub(a)
		n := perp2(edge)
		length := n.Len()
		if length < 1e-12 {
			continue
		}
		n = n.Mul(1 / length)
		d := a.Dot(n)
		if d < 0 {
			n = n.Mul(-1)
			d = -d
		}
		if d < best.dist {
			best = closestEdge2D{index: i, normal: n, dist: d}
		}
	}
	return best
}

// epa2D expands simplex (GJK's terminal 2-D triangle) into a polygon and
// returns the edge closest to the origin as the separating normal and
// penetration depth. Grounded on spec.md §4.3's description of EPA,
// specialized from faces to edges the way a 2-D convex hull only ever needs.
func epa2D(a, b gjk.Posed, simplex *gjk.Simplex) (normal geom.Vec, depth geom.N, err error) {
	if simplex.Count < 3 {
		return handleDegenerateSimplex2D(a, b, simplex)
	}

	poly := []geom.Point{simplex.Points[0], simplex.Points[1], simplex.Points[2]}
	if cross2(poly[1].Sub(poly[0]), poly[2].Sub(poly[0])) < 0 {
		poly[1], poly[2] = poly[2], poly[1]
	}

	var best closestEdge2D
	for iter := 0; iter < epa2DMaxIterations; iter++ {
		best = findClosestEdge2D(poly)
		if best.dist < epa2DMinEdgeDistance {
			return orientNormalForPlanes2D(a, b, best.normal), epa2DMinEdgeDistance, nil
		}

		support := gjk.MinkowskiSupport(a, b, best.normal)
		supportDist := support.Dot(best.normal)

		if supportDist-best.dist < epa2DConvergenceTolerance {
			return orientNormalForPlanes2D(a, b, best.normal), best.dist, nil
		}

		next := make([]geom.Point, 0, len(poly)+1)
		next = append(next, poly[:best.index+1]...)
		next = append(next, support)
		next = append(next, poly[best.index+1:]...)
		poly = next
	}

	// Iteration cap reached: spec.md §4.3 calls for returning the current
	// best rather than failing the query outright.
	return orientNormalForPlanes2D(a, b, best.normal), best.dist, nil
}

// orientNormalForPlanes2D mirrors epa.orientNormalForPlanes: a plane shape's
// own normal is authoritative, so the separating normal is flipped to agree
// with it instead of trusting whichever way the polygon happened to expand.
func orientNormalForPlanes2D(a, b gjk.Posed, normal geom.Vec) geom.Vec {
	if plane, ok := a.Shape.(shape.Plane); ok {
		worldNormal := geom.RotateVec(a.Pose.Rotation, plane.Normal)
		if normal.Dot(worldNormal) < 0 {
			normal = normal.Mul(-1)
		}
	}
	if plane, ok := b.Shape.(shape.Plane); ok {
		worldNormal := geom.RotateVec(b.Pose.Rotation, plane.Normal)
		if normal.Dot(worldNormal) > 0 {
			normal = normal.Mul(-1)
		}
	}
	return normal
}

// handleDegenerateSimplex2D estimates a normal and penetration depth when
// GJK terminated with fewer than 3 simplex points, mirroring epa's
// handleDegenerateSimplex. Not reachable through gjk.GJK today (2-D
// containsOrigin only reports intersection from a full triangle), kept as a
// defensive fallback the way the 3-D package keeps its own.
func handleDegenerateSimplex2D(a, b gjk.Posed, simplex *gjk.Simplex) (geom.Vec, geom.N, error) {
	if simplex.Count == 2 {
		p0, p1 := simplex.Points[0], simplex.Points[1]
		mid := p0.Add(p1).Mul(0.5)
		return normalizeOrFallback2D(mid), mid.Len(), nil
	}
	normal := b.Pose.Translation.Sub(a.Pose.Translation)
	return normalizeOrFallback2D(normal), epa2DMinEdgeDistance, nil
}
