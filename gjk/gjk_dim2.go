//go:build dim2

package gjk

import "github.com/ridgeline-phys/collide/geom"

// Simplex holds 1-3 points of the Minkowski difference in 2-D (point → line →
// triangle). Unlike the 3-D build, a 2-D triangle IS full-dimensional, so it is
// the terminal case: containsOrigin can return true directly from a 3-point
// simplex instead of always needing a 4th point. No teacher analogue (the
// teacher is 3-D only); built by hand following the same Voronoi-region
// approach as gjk_dim3.go, using a 2-D perpendicular (rotate-90) in place of
// the double cross product a 3-D edge-normal needs.
type Simplex struct {
	Points    [3]geom.Point
	SupportsA [3]geom.Point
	SupportsB [3]geom.Point
	Count     int
}

// perp rotates v by -90 degrees (clockwise), the 2-D analogue of a.Cross(b).Cross(a).
func perp(v geom.Vec) geom.Vec {
	return geom.Vec{v[1], -v[0]}
}

func containsOrigin(simplex *Simplex, direction *geom.Vec) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	}
	return false
}

func line(simplex *Simplex, direction *geom.Vec) bool {
	a, aA, aB := simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.Dot(ab) < 1e-8 {
		if ao.Dot(ao) < 1e-8 {
			return true
		}
		simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0] = a, aA, aB
		simplex.Count = 1
		*direction = ao
		return false
	}

	if ab.Dot(ao) <= 0 {
		simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0] = a, aA, aB
		simplex.Count = 1
		*direction = ao
		return false
	}

	abPerp := perp(ab)
	if abPerp.Dot(ao) < 0 {
		abPerp = abPerp.Mul(-1)
	}
	if abPerp.Dot(abPerp) < 1e-8 {
		return true
	}
	*direction = abPerp
	return false
}

func triangle(simplex *Simplex, direction *geom.Vec) bool {
	a, aA, aB := simplex.Points[2], simplex.SupportsA[2], simplex.SupportsB[2]
	b, bA, bB := simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1]
	c, cA, cB := simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	abOutward := perp(ab)
	if abOutward.Dot(ac) > 0 {
		abOutward = abOutward.Mul(-1)
	}
	if abOutward.Dot(ao) > 0 {
		simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0] = b, bA, bB
		simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1] = a, aA, aB
		simplex.Count = 2
		*direction = abOutward
		return false
	}

	acOutward := perp(ac).Mul(-1)
	if acOutward.Dot(ab) > 0 {
		acOutward = acOutward.Mul(-1)
	}
	if acOutward.Dot(ao) > 0 {
		simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0] = c, cA, cB
		simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1] = a, aA, aB
		simplex.Count = 2
		*direction = acOutward
		return false
	}

	return true
}
