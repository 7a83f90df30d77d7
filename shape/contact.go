package shape

import "github.com/ridgeline-phys/collide/geom"

// ContactPoint is one point of a contact manifold: the witness on each body
// where they touch, how deep they overlap there, and which feature of each
// shape produced it (so a caller tracking manifolds across frames can match
// points by feature identity instead of by proximity). Per the normal
// convention, WorldOnA lies on body A, WorldOnB on body B, and the pair
// satisfies WorldOnA ≈ WorldOnB + normal*Penetration for whatever normal the
// surrounding Contact reports. Lives here rather than in epa because it is
// dimension-parametric and the narrow phase needs it for both the 3-D
// GJK+EPA path (epa.ContactPoint is an alias of this type) and the 2-D
// polygon-clipping path (epa is 3-D only, see epa/face.go), and manifold
// tracking in narrowphase must compile for both builds.
type ContactPoint struct {
	WorldOnA    geom.Point
	WorldOnB    geom.Point
	Penetration geom.N
	FeatureA    FeatureId
	FeatureB    FeatureId
}

// Position is the midpoint between the two per-body witnesses, convenient for
// callers (distance-based manifold matching, debug rendering) that only need
// a single representative location rather than both surfaces of contact.
func (c ContactPoint) Position() geom.Point {
	return c.WorldOnA.Add(c.WorldOnB).Mul(0.5)
}
