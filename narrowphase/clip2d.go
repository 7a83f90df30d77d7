//go:build dim2

// Manifold generation for the 2-D build: spec.md §4.9's convex-polygonal
// feature clipping. Each body offers the edge (or vertex) facing the other
// body (queried along the contact normal for A and along its negation for B)
// via shape.FeatureProvider.LocalContactFeature (the
// same interface epa/manifold.go clips in 3-D); the edge is parameterized by
// its scalar projection onto an axis orthogonal to the normal, both edges
// are clipped to the overlap of their projected intervals, and the clipped
// interval's endpoints become the manifold's contact points.
package narrowphase

import (
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/gjk"
	"github.com/ridgeline-phys/collide/shape"
)

// contactFeature2D asks s for its contact feature facing direction, mirroring
// epa.ManifoldBuilder.extractFeature. Shapes without shape.FeatureProvider
// (a Ball, a Capsule's round caps) contribute zero points, so Generate falls
// back to a single point for that side.
func contactFeature2D(s shape.SupportMap, direction geom.Vec) ([]geom.Point, shape.FeatureId) {
	fp, ok := s.(shape.FeatureProvider)
	if !ok {
		return nil, shape.Unknown()
	}
	points, id := fp.LocalContactFeature(direction)
	if len(points) > 2 {
		points = points[:2]
	}
	return points, id
}

func transformPoints2D(points []geom.Point, pose geom.Iso) []geom.Point {
	out := make([]geom.Point, len(points))
	for i, p := range points {
		out[i] = pose.TransformPoint(p)
	}
	return out
}

// makePoint2D builds a contact point from a point on the incident feature,
// the reference-side witness it was clipped/projected against, and the
// per-point penetration depth between them, mirroring epa.ManifoldBuilder's
// makePoint but keeping the caller-supplied reference witness exactly rather
// than re-deriving it from the overall contact normal.
func makePoint2D(incidentPoint, referencePoint geom.Point, depth geom.N, incidentIsB bool, incidentID, referenceID shape.FeatureId) shape.ContactPoint {
	if incidentIsB {
		return shape.ContactPoint{WorldOnA: referencePoint, WorldOnB: incidentPoint, Penetration: depth, FeatureA: referenceID, FeatureB: incidentID}
	}
	return shape.ContactPoint{WorldOnA: incidentPoint, WorldOnB: referencePoint, Penetration: depth, FeatureA: incidentID, FeatureB: referenceID}
}

// clipSegmentToInterval clips the segment (pA, pB) — whose endpoints project
// onto a shared tangent axis at tA, tB — to the interval [lo, hi] on that
// axis. Returns ok=false if the segment's projected span misses the
// interval entirely.
func clipSegmentToInterval(pA, pB geom.Point, tA, tB, lo, hi geom.N) (geom.Point, geom.Point, bool) {
	if tA > tB {
		pA, pB = pB, pA
		tA, tB = tB, tA
	}
	if tB < lo || tA > hi {
		return geom.Point{}, geom.Point{}, false
	}
	dir := pB.Sub(pA)
	span := tB - tA
	outA, outB := pA, pB
	if tA < lo && span > 1e-12 {
		outA = pA.Add(dir.Mul((lo - tA) / span))
	}
	if tB > hi && span > 1e-12 {
		outB = pA.Add(dir.Mul((hi - tA) / span))
	}
	return outA, outB, true
}

// generateManifold2D is the 2-D counterpart of epa.GenerateManifold: same
// reference/incident split (the feature with fewer points clips against the
// other), same single-point fallback for shapes with no polygonal feature,
// specialized to edge-interval clipping instead of Sutherland-Hodgman
// polygon clipping since a 2-D "face" never has more than two vertices.
func generateManifold2D(a, b gjk.Posed, normal geom.Vec, depth geom.N) []shape.ContactPoint {
	localNormalA := a.Pose.InverseTransformVector(normal)
	localNormalB := b.Pose.InverseTransformVector(normal.Mul(-1))

	featA, idA := contactFeature2D(a.Shape, localNormalA)
	featB, idB := contactFeature2D(b.Shape, localNormalB)
	worldA := transformPoints2D(featA, a.Pose)
	worldB := transformPoints2D(featB, b.Pose)

	incidentIsB := len(worldB) <= len(worldA)
	var incident, reference []geom.Point
	var incidentID, referenceID shape.FeatureId
	if incidentIsB {
		incident, incidentID = worldB, idB
		reference, referenceID = worldA, idA
	} else {
		incident, incidentID = worldA, idA
		reference, referenceID = worldB, idB
	}

	incidentSupport := func() geom.Point {
		if incidentIsB {
			return b.SupportWorld(normal.Mul(-1))
		}
		return a.SupportWorld(normal)
	}
	referenceFor := func(incidentPoint geom.Point) geom.Point {
		if incidentIsB {
			return incidentPoint.Add(normal.Mul(depth))
		}
		return incidentPoint.Sub(normal.Mul(depth))
	}

	if len(incident) == 0 {
		p := incidentSupport()
		return []shape.ContactPoint{makePoint2D(p, referenceFor(p), depth, incidentIsB, incidentID, referenceID)}
	}
	if len(incident) == 1 {
		return []shape.ContactPoint{makePoint2D(incident[0], referenceFor(incident[0]), depth, incidentIsB, incidentID, referenceID)}
	}
	if len(reference) < 2 {
		mid := incident[0].Add(incident[1]).Mul(0.5)
		return []shape.ContactPoint{makePoint2D(mid, referenceFor(mid), depth, incidentIsB, incidentID, referenceID)}
	}

	tangent := perp2(normal)
	if n := tangent.Len(); n > 1e-12 {
		tangent = tangent.Mul(1 / n)
	} else {
		tangent = geom.Vec{1, 0}
	}

	tI0, tI1 := incident[0].Dot(tangent), incident[1].Dot(tangent)
	tR0, tR1 := reference[0].Dot(tangent), reference[1].Dot(tangent)
	lo, hi := tR0, tR1
	if lo > hi {
		lo, hi = hi, lo
	}

	p0, p1, ok := clipSegmentToInterval(incident[0], incident[1], tI0, tI1, lo, hi)
	if !ok {
		mid := incident[0].Add(incident[1]).Mul(0.5)
		return []shape.ContactPoint{makePoint2D(mid, referenceFor(mid), depth, incidentIsB, incidentID, referenceID)}
	}

	refEdge := reference[1].Sub(reference[0])
	refNormal := perp2(refEdge)
	if n := refNormal.Len(); n > 1e-12 {
		refNormal = refNormal.Mul(1 / n)
	}
	normalForReference := normal
	if !incidentIsB {
		normalForReference = normal.Mul(-1)
	}
	if refNormal.Dot(normalForReference) < 0 {
		refNormal = refNormal.Mul(-1)
	}
	offset := reference[0].Dot(refNormal)

	points := make([]shape.ContactPoint, 0, 2)
	for _, p := range [2]geom.Point{p0, p1} {
		d := offset - p.Dot(refNormal)
		if d < 0 {
			continue
		}
		refPoint := p.Add(refNormal.Mul(d))
		points = append(points, makePoint2D(p, refPoint, d, incidentIsB, incidentID, referenceID))
	}
	if len(points) == 0 {
		mid := p0.Add(p1).Mul(0.5)
		points = append(points, makePoint2D(mid, referenceFor(mid), depth, incidentIsB, incidentID, referenceID))
	}
	return points
}
