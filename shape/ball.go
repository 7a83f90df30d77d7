package shape

import (
	"math"

	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

// Ball generalizes actor.Sphere (actor/shape.go) to both dimensions (a disk in 2-D,
// a sphere in 3-D). Mass/inertia are dropped: physical response is out of scope.
type Ball struct {
	Radius geom.N
}

func (b Ball) LocalSupport(direction geom.Vec) geom.Point {
	n := direction.Len()
	if n < 1e-12 {
		return geom.Zero()
	}
	return direction.Mul(b.Radius / n)
}

func (b Ball) LocalAABB() bv.AABB {
	var mins, maxs geom.Point
	for i := 0; i < geom.Dims; i++ {
		mins[i] = -b.Radius
		maxs[i] = b.Radius
	}
	return bv.AABB{Mins: mins, Maxs: maxs}
}

func (b Ball) ContainsLocalPoint(p geom.Point) bool {
	return p.Dot(p) <= b.Radius*b.Radius
}

func (b Ball) ProjectLocalPoint(p geom.Point, solid bool) (geom.Point, bool) {
	distSq := p.Dot(p)
	inside := distSq <= b.Radius*b.Radius
	if inside && solid {
		return p, true
	}
	dist := math.Sqrt(distSq)
	if dist < 1e-12 {
		return geom.Axis(0).Mul(b.Radius), inside
	}
	return p.Mul(b.Radius / dist), inside
}

func (b Ball) LocalRayCast(ray Ray, maxToi geom.N) (RayHit, bool) {
	// Standard ray-sphere quadratic: |O + t D|^2 = R^2, origin-relative.
	dd := ray.Dir.Dot(ray.Dir)
	if dd < 1e-16 {
		return RayHit{}, false
	}
	od := ray.Origin.Dot(ray.Dir)
	oo := ray.Origin.Dot(ray.Origin) - b.Radius*b.Radius

	discr := od*od - dd*oo
	if discr < 0 {
		return RayHit{}, false
	}
	sqrtDiscr := math.Sqrt(discr)
	t := (-od - sqrtDiscr) / dd
	if t < 0 {
		// Ray starts inside the ball; report the exit toi as the hit.
		t = (-od + sqrtDiscr) / dd
		if t < 0 {
			return RayHit{}, false
		}
	}
	if t > maxToi {
		return RayHit{}, false
	}
	hitPoint := ray.At(t)
	normal := hitPoint
	if n := normal.Len(); n > 1e-12 {
		normal = normal.Mul(1 / n)
	}
	return RayHit{Toi: t, Normal: normal, Feature: Unknown()}, true
}
