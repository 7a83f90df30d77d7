package shape

import (
	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

// Capsule is a Segment swept by a Ball: the set of points within Radius of the
// A-B segment. In 2-D this is a stadium shape. No teacher analogue, but the
// support map follows the same pattern as actor.Sphere.Support: it is the
// Minkowski sum of the segment core and a Radius-sized Ball centered on the
// local origin, expressed directly as a MinkowskiSum view rather than
// hand-inlining the radius push.
type Capsule struct {
	Segment Segment
	Radius  geom.N
}

func NewCapsule(a, b geom.Point, radius geom.N) Capsule {
	return Capsule{Segment: Segment{A: a, B: b}, Radius: radius}
}

func (c Capsule) LocalSupport(direction geom.Vec) geom.Point {
	sum := MinkowskiSum{A: c.Segment, B: Ball{Radius: c.Radius}}
	return sum.LocalSupport(direction)
}

func (c Capsule) LocalAABB() bv.AABB {
	seg := c.Segment.LocalAABB()
	var r geom.Vec
	for i := 0; i < geom.Dims; i++ {
		r[i] = c.Radius
	}
	return bv.AABB{Mins: seg.Mins.Sub(r), Maxs: seg.Maxs.Add(r)}
}

func (c Capsule) ContainsLocalPoint(p geom.Point) bool {
	closest, _ := c.Segment.ClosestPointTo(p)
	d := p.Sub(closest)
	return d.Dot(d) <= c.Radius*c.Radius
}

func (c Capsule) ProjectLocalPoint(p geom.Point, solid bool) (geom.Point, bool) {
	closest, _ := c.Segment.ClosestPointTo(p)
	diff := p.Sub(closest)
	distSq := diff.Dot(diff)
	inside := distSq <= c.Radius*c.Radius
	if inside && solid {
		return p, true
	}
	n := diff.Len()
	if n < 1e-12 {
		return closest.Add(geom.Axis(0).Mul(c.Radius)), inside
	}
	return closest.Add(diff.Mul(c.Radius / n)), inside
}

func (c Capsule) LocalRayCast(ray Ray, maxToi geom.N) (RayHit, bool) {
	// Cast against the swept sphere by sampling the ray at steps+1 evenly spaced
	// toi values and returning the first sample inside the capsule: good enough for a leaf shape that is not on the
	// GJK/EPA hot path. A closed-form cylinder-vs-ray plus two sphere caps would be
	// faster but this keeps the capsule dimension-agnostic.
	const steps = 64
	best := RayHit{}
	found := false
	lo, hi := geom.N(0), maxToi
	for i := 0; i <= steps; i++ {
		t := lo + (hi-lo)*geom.N(i)/geom.N(steps)
		p := ray.At(t)
		closest, _ := c.Segment.ClosestPointTo(p)
		d := p.Sub(closest)
		if d.Dot(d) <= c.Radius*c.Radius {
			normal := d
			if n := normal.Len(); n > 1e-12 {
				normal = normal.Mul(1 / n)
			} else {
				normal = geom.Axis(0)
			}
			best = RayHit{Toi: t, Normal: normal, Feature: Unknown()}
			found = true
			break
		}
	}
	return best, found
}
