package partitioning

import (
	"math"

	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

// aabbQuery is the Visitor used by AABBQuery.
type aabbQuery struct {
	target bv.AABB
	each   func(LeafId, interface{})
}

func (q *aabbQuery) Visit(bound bv.AABB) bool           { return bound.Overlaps(q.target) }
func (q *aabbQuery) VisitBVCost(bound bv.AABB) float64  { return 0 }
func (q *aabbQuery) VisitData(id LeafId, data interface{}) { q.each(id, data) }

// AABBQuery reports every leaf whose bound overlaps target.
func AABBQuery(t interface{ Query(Visitor) }, target bv.AABB, each func(LeafId, interface{})) {
	t.Query(&aabbQuery{target: target, each: each})
}

// rayQuery is the Visitor used by RayQuery: a segment/AABB slab test bounds
// descent, the caller's each callback performs the precise per-shape ray cast.
type rayQuery struct {
	origin, invDir geom.Vec
	maxToi         geom.N
	each           func(LeafId, interface{})
}

func (q *rayQuery) rayHitsBound(b bv.AABB) bool {
	tMin, tMax := geom.N(0), q.maxToi
	for i := 0; i < geom.Dims; i++ {
		if math.Abs(q.invDir[i]) > 1e30 {
			if q.origin[i] < b.Mins[i] || q.origin[i] > b.Maxs[i] {
				return false
			}
			continue
		}
		t1 := (b.Mins[i] - q.origin[i]) * q.invDir[i]
		t2 := (b.Maxs[i] - q.origin[i]) * q.invDir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return false
		}
	}
	return true
}

func (q *rayQuery) Visit(bound bv.AABB) bool               { return q.rayHitsBound(bound) }
func (q *rayQuery) VisitBVCost(bound bv.AABB) float64       { return 0 }
func (q *rayQuery) VisitData(id LeafId, data interface{})  { q.each(id, data) }

// RayQuery reports every leaf whose bound the ray (origin, dir, within maxToi)
// intersects. Candidates still need a precise per-shape ray cast; this only
// prunes the broad set using the tree.
func RayQuery(t interface{ Query(Visitor) }, origin, dir geom.Vec, maxToi geom.N, each func(LeafId, interface{})) {
	var invDir geom.Vec
	for i := 0; i < geom.Dims; i++ {
		if dir[i] == 0 {
			invDir[i] = math.Inf(1)
		} else {
			invDir[i] = 1 / dir[i]
		}
	}
	RayQueryWithInv(t, origin, invDir, maxToi, each)
}

// RayQueryWithInv is RayQuery for callers that already have the reciprocal
// direction computed; RayQuery computes it and delegates here.
func RayQueryWithInv(t interface{ Query(Visitor) }, origin, invDir geom.Vec, maxToi geom.N, each func(LeafId, interface{})) {
	t.Query(&rayQuery{origin: origin, invDir: invDir, maxToi: maxToi, each: each})
}

type pointQuery struct {
	p    geom.Point
	each func(LeafId, interface{})
}

func (q *pointQuery) Visit(bound bv.AABB) bool              { return bound.ContainsPoint(q.p) }
func (q *pointQuery) VisitBVCost(bound bv.AABB) float64     { return 0 }
func (q *pointQuery) VisitData(id LeafId, data interface{}) { q.each(id, data) }

// PointQuery reports every leaf whose bound contains p.
func PointQuery(t interface{ Query(Visitor) }, p geom.Point, each func(LeafId, interface{})) {
	t.Query(&pointQuery{p: p, each: each})
}
