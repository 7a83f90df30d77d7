package shape

import (
	"math"

	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

// Plane generalizes actor.Plane (actor/shape.go): Normal.p + Distance = 0, Normal
// must be unit length. Like the teacher, an infinite plane's support map is
// approximated by a very large finite slab (the teacher's own comment: "For
// simplicity, we use a 10000 width/height box. Can obviously break for bigger
// planes") since GJK/EPA need a *some* finite farthest point, not an actual infinite
// extent.
type Plane struct {
	Normal   geom.Vec
	Distance geom.N
}

const planeSlabHalfExtent = 1e5

func (p Plane) LocalSupport(direction geom.Vec) geom.Point {
	// Project direction onto the plane's tangent space, then push far along it.
	// A direction pointing into the half-space (against Normal) also goes
	// planeSlabHalfExtent below the surface, so this is the support of a slab
	// whose top face is the plane (mirrors the teacher's Plane.Support box
	// construction).
	onPlane := direction.Sub(p.Normal.Mul(direction.Dot(p.Normal)))
	var tangentFar geom.Vec
	if n := onPlane.Len(); n > 1e-12 {
		tangentFar = onPlane.Mul(planeSlabHalfExtent / n)
	}
	base := p.Normal.Mul(-p.Distance)
	depth := geom.N(0)
	if direction.Dot(p.Normal) < 0 {
		depth = planeSlabHalfExtent
	}
	return base.Add(tangentFar).Sub(p.Normal.Mul(depth))
}

func (p Plane) LocalAABB() bv.AABB {
	base := p.Normal.Mul(-p.Distance)
	var mins, maxs geom.Point
	for i := 0; i < geom.Dims; i++ {
		if math.Abs(p.Normal[i]) > 0.5 {
			// Dominant axis: thin slab around the plane.
			mins[i] = base[i] - 1
			maxs[i] = base[i] + 1
		} else {
			mins[i] = -planeSlabHalfExtent
			maxs[i] = planeSlabHalfExtent
		}
	}
	return bv.AABB{Mins: mins, Maxs: maxs}
}

func (p Plane) signedDistance(point geom.Point) geom.N {
	return point.Dot(p.Normal) + p.Distance
}

func (p Plane) ContainsLocalPoint(point geom.Point) bool {
	return p.signedDistance(point) <= 0
}

func (p Plane) ProjectLocalPoint(point geom.Point, solid bool) (geom.Point, bool) {
	d := p.signedDistance(point)
	inside := d <= 0
	if inside && solid {
		return point, true
	}
	return point.Sub(p.Normal.Mul(d)), inside
}

func (p Plane) LocalRayCast(ray Ray, maxToi geom.N) (RayHit, bool) {
	denom := ray.Dir.Dot(p.Normal)
	if math.Abs(denom) < 1e-12 {
		return RayHit{}, false
	}
	t := -p.signedDistance(ray.Origin) / denom
	if t < 0 || t > maxToi {
		return RayHit{}, false
	}
	normal := p.Normal
	if denom > 0 {
		normal = normal.Mul(-1)
	}
	return RayHit{Toi: t, Normal: normal, Feature: Unknown()}, true
}
