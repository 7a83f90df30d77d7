package narrowphase

import (
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/shape"
)

// compositeMargin is the AABB loosening applied when enumerating a
// compound's parts against the other operand, so a part just outside exact
// contact is still found; it is a fixed value, independent of the margin the
// world passes to its broad phase
// (spec.md §4.5: "use the BVT to enumerate candidate parts whose AABB
// intersects a loosened AABB of the other shape").
const compositeMargin = geom.N(0.01)

// compositeContact implements spec.md §4.5's "composite vs shape" detector:
// enumerate the compound's parts via its own BVT, dispatch each candidate
// part against the other operand through the normal table (recursively, so a
// compound containing another compound still works), and keep the deepest
// result. If both a and b are composites, the A-side parts are expanded first
// and each part is recursed against the still-composite B, so B's own parts
// get enumerated on the next level down. prediction is the pair's combined
// linear prediction distance, threaded down to every part-vs-other detector.
func compositeContact(a, b PosedShape, prediction geom.N) (Contact, bool) {
	if compoundA, ok := a.Shape.(*shape.Compound); ok {
		return compositePartsContact(compoundA, a.Pose, b, false, prediction)
	}
	compoundB := b.Shape.(*shape.Compound)
	return compositePartsContact(compoundB, b.Pose, a, true, prediction)
}

// compositePartsContact dispatches other against every part of compound
// whose world AABB overlaps other's loosened AABB, keeping the deepest
// contact found. swapped tells us compound was the B operand in the
// original call, so the returned normal/feature order can be restored. The
// enumeration AABB is loosened by whichever of compositeMargin or prediction
// is larger, so a part within prediction distance but outside the fixed
// compositeMargin is still a candidate. A convex part facing a composite
// other is expanded again over other's parts.
func compositePartsContact(compound *shape.Compound, compoundPose geom.Iso, other PosedShape, swapped bool, prediction geom.N) (Contact, bool) {
	margin := compositeMargin
	if prediction > margin {
		margin = prediction
	}
	target := loosenedAABB(other, margin)

	var best Contact
	found := false
	compound.PartsOverlapping(target, func(partIndex int) {
		part := compound.Parts[partIndex]
		partPose := geom.Compose(compoundPose, part.Local)
		posedPart := PosedShape{Shape: part.Shape, Pose: partPose}

		var c Contact
		var ok2 bool
		if nestedCompound, isCompound := part.Shape.(*shape.Compound); isCompound {
			c, ok2 = compositePartsContact(nestedCompound, partPose, other, false, prediction)
		} else if otherCompound, isCompound := other.Shape.(*shape.Compound); isCompound {
			// Both sides composite: enumerate other's parts against this part,
			// swapped back so this part stays the A operand.
			c, ok2 = compositePartsContact(otherCompound, other.Pose, posedPart, true, prediction)
		} else {
			c, ok2 = dispatchConvexPair(posedPart, other, prediction)
		}
		if !ok2 {
			return
		}
		// The part is always the A operand of the per-part detector here;
		// the swap back to the caller's operand order happens below.
		c.Points = rewriteFeaturePart(c.Points, partIndex, false)
		if !found || c.Separation < best.Separation {
			best, found = c, true
		}
	})
	if !found {
		return Contact{}, false
	}
	if swapped {
		best.Normal = best.Normal.Mul(-1)
		for i := range best.Points {
			best.Points[i].FeatureA, best.Points[i].FeatureB = best.Points[i].FeatureB, best.Points[i].FeatureA
		}
	}
	return best, true
}

// dispatchConvexPair runs the fastest available detector between two
// already-posed convex (non-composite) operands. Composite recursion always
// bottoms out here rather than re-entering ContactDispatcher.Dispatch,
// because the part/other pairing has already been decided by the caller.
func dispatchConvexPair(part, other PosedShape, prediction geom.N) (Contact, bool) {
	if _, ok := part.Shape.(shape.Ball); ok {
		if _, ok2 := other.Shape.(shape.Ball); ok2 {
			return ballBallContact(part, other, prediction)
		}
	}
	if _, ok := part.Shape.(shape.Plane); ok {
		return planeConvexContact(part, other, prediction)
	}
	if _, ok := other.Shape.(shape.Plane); ok {
		c, ok2 := planeConvexContact(other, part, prediction)
		if ok2 {
			c.Normal = c.Normal.Mul(-1)
			for i := range c.Points {
				c.Points[i].FeatureA, c.Points[i].FeatureB = c.Points[i].FeatureB, c.Points[i].FeatureA
			}
		}
		return c, ok2
	}
	return defaultContact(part, other, prediction)
}

// rewriteFeaturePart tags every contact point's part-local feature with which
// compound part produced it, packed into the unused high bits of the feature
// index so narrowphase's tracking can tell "part 2's face 1" apart from
// "part 3's face 1" without a wider FeatureId type.
func rewriteFeaturePart(points []shape.ContactPoint, partIndex int, swapped bool) []shape.ContactPoint {
	const partShift = 16
	for i := range points {
		if swapped {
			points[i].FeatureB = packPart(points[i].FeatureB, partIndex, partShift)
		} else {
			points[i].FeatureA = packPart(points[i].FeatureA, partIndex, partShift)
		}
	}
	return points
}

func packPart(id shape.FeatureId, partIndex, shift int) shape.FeatureId {
	id.Index |= uint32(partIndex) << shift
	return id
}
