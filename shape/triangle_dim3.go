//go:build !dim2

package shape

import (
	"math"

	"github.com/ridgeline-phys/collide/geom"
)

// Triangle ray-casting and contact-feature extraction need a genuine cross
// product to compute a surface normal, which only exists in 3-D (mgl64.Vec2 has
// no Cross). In 2-D a "triangle" still supports GJK/EPA through LocalSupport and
// ProjectLocalPoint (triangle.go), it just does not participate in ray queries or
// manifold clipping as a standalone leaf.

func (t Triangle) Normal() geom.Vec {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	if l := n.Len(); l > 1e-12 {
		return n.Mul(1 / l)
	}
	return n
}

// LocalRayCast implements the Moller-Trumbore ray/triangle intersection test.
func (t Triangle) LocalRayCast(ray Ray, maxToi geom.N) (RayHit, bool) {
	e1 := t.B.Sub(t.A)
	e2 := t.C.Sub(t.A)
	pvec := ray.Dir.Cross(e2)
	det := e1.Dot(pvec)
	if math.Abs(det) < 1e-12 {
		return RayHit{}, false
	}
	invDet := 1 / det
	tvec := ray.Origin.Sub(t.A)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return RayHit{}, false
	}
	qvec := tvec.Cross(e1)
	v := ray.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return RayHit{}, false
	}
	toi := e2.Dot(qvec) * invDet
	if toi < 0 || toi > maxToi {
		return RayHit{}, false
	}
	normal := t.Normal()
	if det < 0 {
		normal = normal.Mul(-1)
	}
	return RayHit{Toi: toi, Normal: normal, Feature: Face(0)}, true
}

// LocalContactFeature always returns the triangle's single face: a flat
// triangle has exactly one polygonal feature regardless of query direction.
func (t Triangle) LocalContactFeature(direction geom.Vec) ([]geom.Point, FeatureId) {
	return []geom.Point{t.A, t.B, t.C}, Face(0)
}
