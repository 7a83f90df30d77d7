package shape

import (
	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

// Triangle is a flat (3-D) or filled (2-D) triangle leaf shape, used both
// standalone and as the part shape of a TriMesh. No teacher analogue. The
// closest-point computation follows Ericson's barycentric Voronoi-region test
// (Real-Time Collision Detection §5.1.5), which uses only dot products and so,
// unlike a cross-product normal, is valid in either dimension.
type Triangle struct {
	A, B, C geom.Point
}

func (t Triangle) vertices() [3]geom.Point { return [3]geom.Point{t.A, t.B, t.C} }

func (t Triangle) LocalSupport(direction geom.Vec) geom.Point {
	best := t.A
	bestDot := t.A.Dot(direction)
	for _, v := range [2]geom.Point{t.B, t.C} {
		if d := v.Dot(direction); d > bestDot {
			bestDot = d
			best = v
		}
	}
	return best
}

func (t Triangle) LocalAABB() bv.AABB {
	return bv.FromPoints([]geom.Point{t.A, t.B, t.C})
}

// closestPoint implements ClosestPtPointTriangle: classify p against the three
// vertex/edge/face Voronoi regions using only dot products.
func (t Triangle) closestPoint(p geom.Point) geom.Point {
	ab := t.B.Sub(t.A)
	ac := t.C.Sub(t.A)
	ap := p.Sub(t.A)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return t.A
	}

	bp := p.Sub(t.B)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return t.B
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return t.A.Add(ab.Mul(v))
	}

	cp := p.Sub(t.C)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return t.C
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return t.A.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return t.B.Add(t.C.Sub(t.B).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return t.A.Add(ab.Mul(v)).Add(ac.Mul(w))
}

func (t Triangle) ProjectLocalPoint(p geom.Point, solid bool) (geom.Point, bool) {
	return t.closestPoint(p), false
}
