// Package gjk implements the Gilbert-Johnson-Keerthi distance/overlap test,
// adapted from the teacher's gjk/gjk.go: same incremental simplex, same
// Voronoi-region case analysis, same early-exit separation test. Generalized
// from a hard-coded pair of *actor.RigidBody to any pair of shape.SupportMap +
// geom.Iso, so it also runs over composite-shape parts and Minkowski views.
//
// Simplex itself (the point count and the per-dimension Voronoi-region
// reduction) lives in gjk_dim3.go/gjk_dim2.go: a 3-D simplex grows up to a
// tetrahedron (4 points) before it can enclose the origin, a 2-D simplex only
// up to a triangle (3 points).
package gjk

import (
	"sync"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/shape"
)

// Posed pairs a support map with the isometry placing it in world space,
// replacing the teacher's *actor.RigidBody as GJK/EPA's operand.
type Posed struct {
	Shape shape.SupportMap
	Pose  geom.Iso
}

// SupportWorld returns the world-space support point of p along a world-space
// direction, mirroring actor.RigidBody.SupportWorld.
func (p Posed) SupportWorld(direction geom.Vec) geom.Point {
	localDir := p.Pose.InverseTransformVector(direction)
	localSupport := p.Shape.LocalSupport(localDir)
	return p.Pose.TransformPoint(localSupport)
}

// worldSupportView adapts a Posed operand into a shape.SupportMap over
// world-space directions, so the CSO support below can be built out of
// shape.MinkowskiSum/shape.Reflection the same way any other composable
// support-map operand would be, instead of hand-rolling the A-B arithmetic.
type worldSupportView struct{ posed Posed }

func (w worldSupportView) LocalSupport(direction geom.Vec) geom.Point {
	return w.posed.SupportWorld(direction)
}

// minkowskiSupportFull returns the Minkowski-difference support point together
// with the two witness points (on A and on B) that produced it, so callers
// that need the closest-point witnesses (Distance, and narrowphase's contact
// points) don't have to recompute supports from scratch once the simplex is
// reduced.
func minkowskiSupportFull(a, b Posed, direction geom.Vec) (diff, onA, onB geom.Point) {
	onA = a.SupportWorld(direction)
	onB = b.SupportWorld(direction.Mul(-1))
	return onA.Sub(onB), onA, onB
}

// MinkowskiSupport computes a support point in the Minkowski difference A - B:
// furthestPoint(A, direction) - furthestPoint(B, -direction). Grounded on
// gjk.MinkowskiSupport in the teacher, but built from spec.md §4.1's
// composable support-map views (A - B = A + Reflection(B)) instead of
// hand-written difference arithmetic.
func MinkowskiSupport(a, b Posed, direction geom.Vec) geom.Point {
	cso := shape.MinkowskiSum{A: worldSupportView{a}, B: shape.Reflection{Inner: worldSupportView{b}}}
	return cso.LocalSupport(direction)
}

var SimplexPool = sync.Pool{
	New: func() interface{} { return &Simplex{} },
}

// Reset clears the simplex for reuse from the pool.
func (s *Simplex) Reset() { s.Count = 0 }

const maxIterations = 32

// GJK performs collision detection between two convex shapes posed in world
// space. simplex is filled in place; on a collision it holds the final
// simplex EPA needs to seed its polytope, exactly as in the teacher.
func GJK(a, b Posed, simplex *Simplex) bool {
	direction := b.Pose.Translation.Sub(a.Pose.Translation)
	if direction.Dot(direction) < 1e-8 {
		direction = geom.Axis(0)
	}

	simplex.Count = 0
	pushSupport(simplex, a, b, direction)

	direction = simplex.Points[0].Mul(-1)
	if direction.Dot(direction) < 1e-16 {
		return true
	}

	for i := 0; i < maxIterations; i++ {
		newPoint := MinkowskiSupport(a, b, direction)
		if newPoint.Dot(direction) <= 0 {
			return false
		}
		pushSupport(simplex, a, b, direction)

		if containsOrigin(simplex, &direction) {
			return true
		}
	}
	return false
}

func pushSupport(simplex *Simplex, a, b Posed, direction geom.Vec) {
	diff, onA, onB := minkowskiSupportFull(a, b, direction)
	simplex.Points[simplex.Count] = diff
	simplex.SupportsA[simplex.Count] = onA
	simplex.SupportsB[simplex.Count] = onB
	simplex.Count++
}

// Distance returns the separation distance between a and b (0 if they
// overlap), together with the witness points on each shape's boundary where
// that distance is realized. New relative to the teacher, which only ever
// tests boolean overlap; grounded on the same simplex-reduction machinery,
// extended to also carry each Minkowski point's originating A/B witnesses so
// a final barycentric projection can map the closest simplex point back to
// witnesses on the original shapes.
func Distance(a, b Posed) (dist geom.N, onA, onB geom.Point, separated bool) {
	simplex := SimplexPool.Get().(*Simplex)
	defer func() { simplex.Reset(); SimplexPool.Put(simplex) }()
	simplex.Count = 0

	direction := b.Pose.Translation.Sub(a.Pose.Translation)
	if direction.Dot(direction) < 1e-8 {
		direction = geom.Axis(0)
	}
	pushSupport(simplex, a, b, direction)
	direction = simplex.Points[0].Mul(-1)

	for i := 0; i < maxIterations; i++ {
		if direction.Dot(direction) < 1e-20 {
			break
		}
		newPoint, newOnA, newOnB := minkowskiSupportFull(a, b, direction)

		duplicate := false
		for i := 0; i < simplex.Count; i++ {
			if newPoint.Sub(simplex.Points[i]).Dot(newPoint.Sub(simplex.Points[i])) < 1e-16 {
				duplicate = true
				break
			}
		}
		if duplicate {
			break
		}

		progress := newPoint.Dot(direction)
		if progress <= 0 {
			break
		}

		simplex.Points[simplex.Count] = newPoint
		simplex.SupportsA[simplex.Count] = newOnA
		simplex.SupportsB[simplex.Count] = newOnB
		simplex.Count++
		if containsOrigin(simplex, &direction) {
			return 0, newOnA, newOnB, false
		}
	}

	closest, onA, onB := closestWitnesses(simplex)
	return closest.Len(), onA, onB, true
}
