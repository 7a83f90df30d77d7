package gjk

import "github.com/ridgeline-phys/collide/geom"

// closestWitnesses projects the origin onto the final (non-containing)
// simplex and reconstructs the corresponding witness points on A and B by
// applying the same barycentric weights to each simplex point's originating
// supports. Dot-product only (Ericson's ClosestPtPointTriangle technique,
// already used by shape.Triangle), so it needs no dimension-specific cross
// product and covers every simplex size Distance can end with: a point, a
// segment, or (in 3-D) a triangle.
func closestWitnesses(s *Simplex) (closest, onA, onB geom.Point) {
	switch s.Count {
	case 1:
		return s.Points[0], s.SupportsA[0], s.SupportsB[0]
	case 2:
		return closestOnSegment(s)
	default:
		return closestOnTriangle(s)
	}
}

func lerpPoint(a, b geom.Point, t geom.N) geom.Point {
	return a.Add(b.Sub(a).Mul(t))
}

func closestOnSegment(s *Simplex) (closest, onA, onB geom.Point) {
	p0, p1 := s.Points[0], s.Points[1]
	ab := p1.Sub(p0)
	denom := ab.Dot(ab)
	if denom < 1e-16 {
		return p0, s.SupportsA[0], s.SupportsB[0]
	}
	t := p0.Mul(-1).Dot(ab) / denom
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	closest = lerpPoint(p0, p1, t)
	onA = lerpPoint(s.SupportsA[0], s.SupportsA[1], t)
	onB = lerpPoint(s.SupportsB[0], s.SupportsB[1], t)
	return closest, onA, onB
}

func closestOnTriangle(s *Simplex) (closest, onA, onB geom.Point) {
	a, b, c := s.Points[0], s.Points[1], s.Points[2]
	var origin geom.Point

	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := origin.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a, s.SupportsA[0], s.SupportsB[0]
	}

	bp := origin.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b, s.SupportsA[1], s.SupportsB[1]
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return lerpPoint(a, b, v), lerpPoint(s.SupportsA[0], s.SupportsA[1], v), lerpPoint(s.SupportsB[0], s.SupportsB[1], v)
	}

	cp := origin.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c, s.SupportsA[2], s.SupportsB[2]
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return lerpPoint(a, c, w), lerpPoint(s.SupportsA[0], s.SupportsA[2], w), lerpPoint(s.SupportsB[0], s.SupportsB[2], w)
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return lerpPoint(b, c, w), lerpPoint(s.SupportsA[1], s.SupportsA[2], w), lerpPoint(s.SupportsB[1], s.SupportsB[2], w)
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	closest = a.Add(ab.Mul(v)).Add(ac.Mul(w))
	onA = s.SupportsA[0].Add(s.SupportsA[1].Sub(s.SupportsA[0]).Mul(v)).Add(s.SupportsA[2].Sub(s.SupportsA[0]).Mul(w))
	onB = s.SupportsB[0].Add(s.SupportsB[1].Sub(s.SupportsB[0]).Mul(v)).Add(s.SupportsB[2].Sub(s.SupportsB[0]).Mul(w))
	return closest, onA, onB
}
