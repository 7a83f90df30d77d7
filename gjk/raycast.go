package gjk

import (
	"math"

	"github.com/ridgeline-phys/collide/geom"
)

const (
	rayAbsTolerance = 100 * 1e-12
	rayRelTolerance = 1e-6 // sqrt of a ~1e-12 convergence tolerance
)

// RayHit is the result of a conservative-advancement ray cast against a posed
// shape.
type RayHit struct {
	Toi    geom.N
	Normal geom.Vec
}

// RayCast performs GJK-based conservative advancement of a ray against a
// posed convex shape (van den Bergen's ray-cast GJK): at each iteration the
// current separating direction, if it clips the ray at a later parameter than
// the running lower bound, advances that bound and the simplex is reset
// around the advanced ray origin. New relative to the teacher (which has no
// ray support); grounded on the same simplex/support-point machinery as GJK,
// following the algorithm description in spec.md §4.2.
func RayCast(target Posed, origin geom.Point, dir geom.Vec, maxToi geom.N) (RayHit, bool) {
	lambda := geom.N(0)
	current := origin
	var normal geom.Vec

	simplex := SimplexPool.Get().(*Simplex)
	defer func() { simplex.Reset(); SimplexPool.Put(simplex) }()
	simplex.Count = 0

	direction := current.Sub(target.SupportWorld(dir.Mul(-1)))
	if direction.Dot(direction) < 1e-20 {
		direction = dir.Mul(-1)
	}

	const maxIter = 64
	for i := 0; i < maxIter; i++ {
		support := target.SupportWorld(direction)
		w := current.Sub(support)

		vDotW := direction.Dot(w)
		if vDotW > 0 {
			vDotDir := direction.Dot(dir)
			if vDotDir >= 0 {
				return RayHit{}, false
			}
			lambda -= vDotW / vDotDir
			if lambda > maxToi {
				return RayHit{}, false
			}
			current = origin.Add(dir.Mul(lambda))
			normal = direction
			simplex.Count = 0
		}

		simplex.Points[simplex.Count] = current.Sub(support)
		simplex.SupportsA[simplex.Count] = current
		simplex.SupportsB[simplex.Count] = support
		simplex.Count++

		closest, _, _ := closestWitnesses(simplex)
		dist := closest.Len()
		if dist < rayAbsTolerance+rayRelTolerance*math.Max(1, current.Len()) {
			if normal.Dot(normal) < 1e-20 {
				normal = dir.Mul(-1)
			}
			if n := normal.Len(); n > 1e-12 {
				normal = normal.Mul(1 / n)
			}
			return RayHit{Toi: lambda, Normal: normal}, true
		}

		newDir := closest
		if newDir.Dot(newDir) < 1e-20 {
			break
		}
		direction = newDir

		if simplex.Count == cap(simplex.Points[:]) {
			// Simplex already spans the CSO's full dimension with no
			// convergence: restart the next iteration from the most recently
			// added point alone.
			reduceToClosestFace(simplex, &direction)
		}
	}
	return RayHit{}, false
}

// reduceToClosestFace keeps only the most recently added simplex point and
// discards the others; a conservative fallback for RayCast's simplex when the
// dimension cap is hit without converging.
func reduceToClosestFace(simplex *Simplex, direction *geom.Vec) {
	if simplex.Count <= 1 {
		return
	}
	simplex.Points[0] = simplex.Points[simplex.Count-1]
	simplex.SupportsA[0] = simplex.SupportsA[simplex.Count-1]
	simplex.SupportsB[0] = simplex.SupportsB[simplex.Count-1]
	simplex.Count = 1
}
