package shape

import (
	"math"

	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

// Segment is a line segment shape, used both as a standalone leaf (e.g. a rope
// link) and as the skeleton of a Capsule. No teacher analogue; dimension-agnostic
// because the closest-point-on-segment computation only needs dot products.
type Segment struct {
	A, B geom.Point
}

func (s Segment) LocalSupport(direction geom.Vec) geom.Point {
	if s.A.Sub(s.B).Dot(direction) >= 0 {
		return s.A
	}
	return s.B
}

func (s Segment) LocalAABB() bv.AABB {
	return bv.FromPoints([]geom.Point{s.A, s.B})
}

// ClosestPointTo returns the closest point on the segment to p and the parameter
// t in [0,1] such that result = A + t*(B-A).
func (s Segment) ClosestPointTo(p geom.Point) (geom.Point, geom.N) {
	ab := s.B.Sub(s.A)
	denom := ab.Dot(ab)
	if denom < 1e-16 {
		return s.A, 0
	}
	t := p.Sub(s.A).Dot(ab) / denom
	t = math.Max(0, math.Min(1, t))
	return s.A.Add(ab.Mul(t)), t
}

func (s Segment) ProjectLocalPoint(p geom.Point, solid bool) (geom.Point, bool) {
	closest, _ := s.ClosestPointTo(p)
	return closest, false
}

// FeatureForParam returns the vertex feature at the endpoint if t is (nearly) 0 or
// 1, otherwise the single edge feature.
func (s Segment) FeatureForParam(t geom.N) FeatureId {
	switch {
	case t <= 1e-9:
		return Vertex(0)
	case t >= 1-1e-9:
		return Vertex(1)
	default:
		return Edge(0)
	}
}
