package shape

import (
	"math"

	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

// Cuboid generalizes actor.Box (actor/shape.go) to both dimensions: a rectangle in
// 2-D, a box in 3-D, both defined by half-extents. Mass/inertia are dropped.
type Cuboid struct {
	HalfExtents geom.Vec
}

func (c Cuboid) LocalSupport(direction geom.Vec) geom.Point {
	var p geom.Point
	for i := 0; i < geom.Dims; i++ {
		if direction[i] < 0 {
			p[i] = -c.HalfExtents[i]
		} else {
			p[i] = c.HalfExtents[i]
		}
	}
	return p
}

func (c Cuboid) LocalAABB() bv.AABB {
	return bv.AABB{Mins: c.HalfExtents.Mul(-1), Maxs: c.HalfExtents}
}

func (c Cuboid) ContainsLocalPoint(p geom.Point) bool {
	for i := 0; i < geom.Dims; i++ {
		if math.Abs(p[i]) > c.HalfExtents[i] {
			return false
		}
	}
	return true
}

func (c Cuboid) ProjectLocalPoint(p geom.Point, solid bool) (geom.Point, bool) {
	inside := c.ContainsLocalPoint(p)
	if inside && solid {
		return p, true
	}
	if inside {
		// Project to the nearest face (smallest penetration axis).
		best := math.Inf(1)
		bestAxis := 0
		bestSign := geom.N(1)
		for i := 0; i < geom.Dims; i++ {
			d := c.HalfExtents[i] - math.Abs(p[i])
			if d < best {
				best = d
				bestAxis = i
				if p[i] < 0 {
					bestSign = -1
				} else {
					bestSign = 1
				}
			}
		}
		out := p
		out[bestAxis] = bestSign * c.HalfExtents[bestAxis]
		return out, true
	}
	var out geom.Point
	for i := 0; i < geom.Dims; i++ {
		v := p[i]
		if v > c.HalfExtents[i] {
			v = c.HalfExtents[i]
		}
		if v < -c.HalfExtents[i] {
			v = -c.HalfExtents[i]
		}
		out[i] = v
	}
	return out, false
}

func (c Cuboid) LocalRayCast(ray Ray, maxToi geom.N) (RayHit, bool) {
	tMin, tMax := geom.N(0), maxToi
	var normal geom.Vec
	hitAxis := -1
	hitSign := geom.N(0)

	for i := 0; i < geom.Dims; i++ {
		if math.Abs(ray.Dir[i]) < 1e-12 {
			if ray.Origin[i] < -c.HalfExtents[i] || ray.Origin[i] > c.HalfExtents[i] {
				return RayHit{}, false
			}
			continue
		}
		invD := 1 / ray.Dir[i]
		t1 := (-c.HalfExtents[i] - ray.Origin[i]) * invD
		t2 := (c.HalfExtents[i] - ray.Origin[i]) * invD
		sign := geom.N(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tMin {
			tMin = t1
			hitAxis = i
			hitSign = sign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return RayHit{}, false
		}
	}
	if hitAxis < 0 || tMin > maxToi {
		return RayHit{}, false
	}
	normal[hitAxis] = hitSign
	return RayHit{Toi: tMin, Normal: normal, Feature: faceFeatureForAxis(hitAxis, hitSign)}, true
}

// faceFeatureForAxis numbers cuboid faces 0..2*Dims-1: axis for the negative
// side, axis+Dims for the positive side (e.g. in 3-D, face id 2 is the -Z face,
// matching the end-to-end scenario in spec.md §8 item 3).
func faceFeatureForAxis(axis int, sign geom.N) FeatureId {
	idx := uint32(axis)
	if sign > 0 {
		idx += uint32(geom.Dims)
	}
	return Face(idx)
}

// LocalContactFeature returns the face (3-D) or edge (2-D) whose outward normal is
// most aligned with direction, generalizing actor.Box.GetContactFeature. Unlike the teacher we do not
// pool the vertex slices: manifold generation happens once per narrow-phase step
// per pair, not per GJK iteration, so the allocation is not hot enough to warrant it.
func (c Cuboid) LocalContactFeature(direction geom.Vec) ([]geom.Point, FeatureId) {
	bestAxis := 0
	bestSign := geom.N(1)
	bestDot := math.Inf(-1)
	for i := 0; i < geom.Dims; i++ {
		for _, sign := range [2]geom.N{1, -1} {
			var n geom.Vec
			n[i] = sign
			d := n.Dot(direction)
			if d > bestDot {
				bestDot = d
				bestAxis = i
				bestSign = sign
			}
		}
	}

	id := faceFeatureForAxis(bestAxis, bestSign)
	if geom.Dims == 2 {
		// The "face" of a rectangle is an edge: its two endpoints.
		other := 1 - bestAxis
		var p1, p2 geom.Point
		p1[bestAxis] = bestSign * c.HalfExtents[bestAxis]
		p2[bestAxis] = bestSign * c.HalfExtents[bestAxis]
		p1[other] = c.HalfExtents[other]
		p2[other] = -c.HalfExtents[other]
		return []geom.Point{p1, p2}, id
	}

	// 3-D: four corners of the chosen face, in winding order.
	u, v := axisPerp3(bestAxis)
	face := bestSign * c.HalfExtents[bestAxis]
	pts := make([]geom.Point, 4)
	signs := [4][2]geom.N{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	for i, s := range signs {
		var p geom.Point
		p[bestAxis] = face
		p[u] = s[0] * c.HalfExtents[u]
		p[v] = s[1] * c.HalfExtents[v]
		pts[i] = p
	}
	return pts, id
}

// axisPerp3 returns the two axes orthogonal to axis, in 3-D.
func axisPerp3(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}
