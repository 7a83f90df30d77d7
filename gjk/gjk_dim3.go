//go:build !dim2

package gjk

import "github.com/ridgeline-phys/collide/geom"

// Simplex holds 1-4 points of the Minkowski difference in 3-D (point → line →
// triangle → tetrahedron), plus, for each point, the witnesses on A and B that
// produced it (used by Distance's witness reconstruction, not by the boolean
// GJK test). Adapted from gjk.Simplex in the teacher.
type Simplex struct {
	Points    [4]geom.Point
	SupportsA [4]geom.Point
	SupportsB [4]geom.Point
	Count     int
}

// containsOrigin dispatches to the Voronoi-region test for the simplex's
// current size, exactly mirroring the teacher's containsOrigin.
func containsOrigin(simplex *Simplex, direction *geom.Vec) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	case 4:
		return tetrahedron(simplex, direction)
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

	abPerp := ab.Cross(ao).Cross(ab)
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

	abc := ab.Cross(ac)

	if abc.Dot(abc) < 1e-10 {
		simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0] = b, bA, bB
		simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1] = a, aA, aB
		simplex.Count = 2
		return line(simplex, direction)
	}

	abPerp := ab.Cross(abc)
	if abPerp.Dot(ao) > 0 {
		simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0] = b, bA, bB
		simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1] = a, aA, aB
		simplex.Count = 2
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}

	acPerp := abc.Cross(ac)
	if acPerp.Dot(ao) > 0 {
		simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0] = c, cA, cB
		simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1] = a, aA, aB
		simplex.Count = 2
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if abc.Dot(ao) > 0 {
		*direction = abc
	} else {
		simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0] = a, aA, aB
		simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1] = c, cA, cB
		simplex.Points[2], simplex.SupportsA[2], simplex.SupportsB[2] = b, bA, bB
		simplex.Count = 3
		*direction = abc.Mul(-1)
	}
	return false
}

func tetrahedron(simplex *Simplex, direction *geom.Vec) bool {
	a, aA, aB := simplex.Points[3], simplex.SupportsA[3], simplex.SupportsB[3]
	b, bA, bB := simplex.Points[2], simplex.SupportsA[2], simplex.SupportsB[2]
	c, cA, cB := simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1]
	d, dA, dB := simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	abc := ab.Cross(ac)
	if abc.Dot(ad) > 0 {
		abc = abc.Mul(-1)
	}
	acd := ac.Cross(ad)
	if acd.Dot(ab) > 0 {
		acd = acd.Mul(-1)
	}
	adb := ad.Cross(ab)
	if adb.Dot(ac) > 0 {
		adb = adb.Mul(-1)
	}

	toFaceABC := func() bool {
		simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0] = c, cA, cB
		simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1] = b, bA, bB
		simplex.Points[2], simplex.SupportsA[2], simplex.SupportsB[2] = a, aA, aB
		simplex.Count = 3
		return triangle(simplex, direction)
	}

	if abc.Dot(abc) < 1e-10 || acd.Dot(acd) < 1e-10 || adb.Dot(adb) < 1e-10 {
		return toFaceABC()
	}

	if abc.Dot(ao) > 0 {
		return toFaceABC()
	}

	if acd.Dot(ao) > 0 {
		simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0] = d, dA, dB
		simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1] = c, cA, cB
		simplex.Points[2], simplex.SupportsA[2], simplex.SupportsB[2] = a, aA, aB
		simplex.Count = 3
		return triangle(simplex, direction)
	}

	if adb.Dot(ao) > 0 {
		simplex.Points[0], simplex.SupportsA[0], simplex.SupportsB[0] = b, bA, bB
		simplex.Points[1], simplex.SupportsA[1], simplex.SupportsB[1] = d, dA, dB
		simplex.Points[2], simplex.SupportsA[2], simplex.SupportsB[2] = a, aA, aB
		simplex.Count = 3
		return triangle(simplex, direction)
	}

	return true
}
