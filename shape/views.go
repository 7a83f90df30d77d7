package shape

import "github.com/ridgeline-phys/collide/geom"

// Reflection is a support-map view of the point reflection of Inner through
// its local origin: support(r, d) = -support(Inner, -d). Composed with
// MinkowskiSum it turns a Minkowski difference into a sum (A - B = A +
// Reflection(B)), per spec.md §4.1's "support map and Minkowski-difference
// view". No teacher analogue — the teacher's gjk package hand-rolls the A-B
// support arithmetic inline rather than exposing it as a composable operand.
type Reflection struct {
	Inner SupportMap
}

func (r Reflection) LocalSupport(direction geom.Vec) geom.Point {
	return geom.Zero().Sub(r.Inner.LocalSupport(direction.Mul(-1)))
}

// MinkowskiSum is a support-map view of the Minkowski sum of two shapes:
// support(sum, d) = support(A, d) + support(B, d). Grounded on Capsule's own
// support (a Segment core swept by a Ball), which is exactly this operation
// with B centered on the local origin; MinkowskiSum pulls that pattern out
// into a reusable operand per spec.md §4.1/SPEC_FULL §3 instead of leaving it
// hand-inlined in Capsule.LocalSupport.
type MinkowskiSum struct {
	A, B SupportMap
}

func (m MinkowskiSum) LocalSupport(direction geom.Vec) geom.Point {
	return m.A.LocalSupport(direction).Add(m.B.LocalSupport(direction))
}
