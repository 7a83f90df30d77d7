//go:build !dim2

package epa

import (
	"math"
	"sync"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/gjk"
	"github.com/ridgeline-phys/collide/shape"
)

// Manifold generation configuration constants, grounded on the teacher's
// epa/manifold.go constants of the same name.
const (
	// maxContactPoints caps a manifold at 4 points (Erin Catto, GDC 2007): a
	// stable contact patch never needs more than the 4 extreme corners.
	maxContactPoints = 4

	// maxBufferSize must be >= maxContactPoints*2 to hold the worst-case
	// intermediate polygon Sutherland-Hodgman clipping produces.
	maxBufferSize = 8
)

const (
	epsilonColinear      = 1e-6
	epsilonDistance      = 1e-6
	epsilonParallel      = 1e-10
	tangentBasisThreshold = 0.9
)

// ContactPoint aliases shape.ContactPoint: the type itself lives in shape
// (dimension-parametric, needed by both this 3-D-only package and
// narrowphase's 2-D polygon-clipping path), but every EPA call site in this
// package keeps referring to it as epa.ContactPoint. New relative to the
// teacher's constraint.ContactPoint: no Material/impulse-accumulator fields,
// since physical response is out of scope here.
type ContactPoint = shape.ContactPoint

// ManifoldBuilder holds the fixed-size working buffers GenerateManifold
// clips through, pooled so a narrow-phase sweep over many pairs allocates
// nothing. Grounded on the teacher's ManifoldBuilder.
type ManifoldBuilder struct {
	localFeatureA [maxBufferSize]geom.Point
	localFeatureB [maxBufferSize]geom.Point
	worldFeatureA [maxBufferSize]geom.Point
	worldFeatureB [maxBufferSize]geom.Point
	clipBuffer1   [maxBufferSize]geom.Point
	clipBuffer2   [maxBufferSize]geom.Point
	tempPoints    [maxBufferSize]ContactPoint

	localFeatureACount int
	localFeatureBCount int
	worldFeatureACount int
	worldFeatureBCount int
	clipBuffer1Count   int
	clipBuffer2Count   int
	tempPointsCount    int

	featureIdA shape.FeatureId
	featureIdB shape.FeatureId
}

var manifoldBuilderPool = sync.Pool{
	New: func() interface{} { return &ManifoldBuilder{} },
}

// Reset clears the builder's counters for reuse from the pool.
func (b *ManifoldBuilder) Reset() {
	b.localFeatureACount = 0
	b.localFeatureBCount = 0
	b.worldFeatureACount = 0
	b.worldFeatureBCount = 0
	b.clipBuffer1Count = 0
	b.clipBuffer2Count = 0
	b.tempPointsCount = 0
	b.featureIdA = shape.Unknown()
	b.featureIdB = shape.Unknown()
}

// GenerateManifold produces the contact patch between a and b once EPA has
// found the separating normal and penetration depth. Mirrors the teacher's
// free function GenerateManifold, generalized from *actor.RigidBody to
// gjk.Posed.
func GenerateManifold(a, b gjk.Posed, normal geom.Vec, depth geom.N) []ContactPoint {
	builder := manifoldBuilderPool.Get().(*ManifoldBuilder)
	defer manifoldBuilderPool.Put(builder)
	builder.Reset()
	return builder.Generate(a, b, normal, depth)
}

// Generate extracts each shape's contact feature facing the other shape
// (actor.ShapeInterface.GetContactFeature in the teacher, shape.
// FeatureProvider.LocalContactFeature here), clips the smaller "incident"
// feature against the larger "reference" one with Sutherland-Hodgman, and
// falls back to the single deepest point when a shape has no polygonal
// feature to offer (a sphere, say).
func (b *ManifoldBuilder) Generate(a, bb gjk.Posed, normal geom.Vec, depth geom.N) []ContactPoint {
	localNormalA := a.Pose.InverseTransformVector(normal)
	localNormalB := bb.Pose.InverseTransformVector(normal.Mul(-1))

	b.localFeatureACount = b.extractFeature(a.Shape, localNormalA, &b.localFeatureA, &b.featureIdA)
	b.localFeatureBCount = b.extractFeature(bb.Shape, localNormalB, &b.localFeatureB, &b.featureIdB)

	b.transformFeature(&b.localFeatureA, b.localFeatureACount, a.Pose, &b.worldFeatureA, &b.worldFeatureACount)
	b.transformFeature(&b.localFeatureB, b.localFeatureBCount, bb.Pose, &b.worldFeatureB, &b.worldFeatureBCount)

	var incident, reference *[maxBufferSize]geom.Point
	var incidentCount, referenceCount int
	var incidentID, referenceID shape.FeatureId
	incidentIsB := b.worldFeatureBCount <= b.worldFeatureACount
	if incidentIsB {
		incident, incidentCount, incidentID = &b.worldFeatureB, b.worldFeatureBCount, b.featureIdB
		reference, referenceCount, referenceID = &b.worldFeatureA, b.worldFeatureACount, b.featureIdA
	} else {
		incident, incidentCount, incidentID = &b.worldFeatureA, b.worldFeatureACount, b.featureIdA
		reference, referenceCount, referenceID = &b.worldFeatureB, b.worldFeatureBCount, b.featureIdB
	}

	if incidentCount == 0 {
		incidentPoint := b.incidentSupport(a, bb, normal, incidentIsB)
		b.tempPoints[0] = b.makePoint(incidentPoint, depth, normal, incidentIsB, incidentID, referenceID)
		b.tempPointsCount = 1
		return b.buildResult()
	}
	if incidentCount == 1 {
		b.tempPoints[0] = b.makePoint(incident[0], depth, normal, incidentIsB, incidentID, referenceID)
		b.tempPointsCount = 1
		return b.buildResult()
	}

	clippedCount := b.clipIncidentAgainstReference(incident, incidentCount, reference, referenceCount, normal)
	b.tempPointsCount = 0
	if clippedCount > 0 && referenceCount >= 3 {
		b.clipAgainstReferencePlane(clippedCount, reference, referenceCount, normal, depth, incidentIsB, incidentID, referenceID)
	}

	if b.tempPointsCount == 0 {
		incidentPoint := b.incidentSupport(a, bb, normal, incidentIsB)
		b.tempPoints[0] = b.makePoint(incidentPoint, depth, normal, incidentIsB, incidentID, referenceID)
		b.tempPointsCount = 1
	}

	if b.tempPointsCount > maxContactPoints {
		b.reduceTo4Points(normal)
	}

	return b.buildResult()
}

// incidentSupport returns the support point of whichever operand is the
// incident side (the one contributing fewer or no polygonal feature points),
// used when that side has no feature at all to clip (a Ball, a Capsule's
// round cap).
func (b *ManifoldBuilder) incidentSupport(a, bb gjk.Posed, normal geom.Vec, incidentIsB bool) geom.Point {
	if incidentIsB {
		return bb.SupportWorld(normal.Mul(-1))
	}
	return a.SupportWorld(normal)
}

// makePoint builds a contact point from the point on the incident feature
// together with the overall penetration depth and normal (A toward B): the
// matching witness on the reference side is incidentPoint offset by
// normal*depth, since the normal-convention invariant requires
// WorldOnA == WorldOnB + normal*Penetration.
func (b *ManifoldBuilder) makePoint(incidentPoint geom.Point, depth geom.N, normal geom.Vec, incidentIsB bool, incidentID, referenceID shape.FeatureId) ContactPoint {
	if incidentIsB {
		referencePoint := incidentPoint.Add(normal.Mul(depth))
		return ContactPoint{WorldOnA: referencePoint, WorldOnB: incidentPoint, Penetration: depth, FeatureA: referenceID, FeatureB: incidentID}
	}
	referencePoint := incidentPoint.Sub(normal.Mul(depth))
	return ContactPoint{WorldOnA: incidentPoint, WorldOnB: referencePoint, Penetration: depth, FeatureA: incidentID, FeatureB: referenceID}
}

// extractFeature asks s for its contact feature facing direction; shapes
// that don't implement shape.FeatureProvider (a Ball, for instance)
// contribute zero points, letting Generate fall back to a single deepest
// point for that side.
func (b *ManifoldBuilder) extractFeature(s shape.SupportMap, direction geom.Vec, out *[maxBufferSize]geom.Point, id *shape.FeatureId) int {
	fp, ok := s.(shape.FeatureProvider)
	if !ok {
		*id = shape.Unknown()
		return 0
	}
	points, featureID := fp.LocalContactFeature(direction)
	*id = featureID
	n := len(points)
	if n > maxBufferSize {
		n = maxBufferSize
	}
	copy(out[:n], points[:n])
	return n
}

func (b *ManifoldBuilder) transformFeature(input *[maxBufferSize]geom.Point, inputCount int, pose geom.Iso, output *[maxBufferSize]geom.Point, outputCount *int) {
	for i := 0; i < inputCount; i++ {
		output[i] = pose.TransformPoint(input[i])
	}
	*outputCount = inputCount
}

// clipIncidentAgainstReference runs Sutherland-Hodgman clipping of the
// incident polygon against every edge of the reference polygon, leaving the
// result in clipBuffer1 regardless of how many ping-pong passes it took.
func (b *ManifoldBuilder) clipIncidentAgainstReference(incident *[maxBufferSize]geom.Point, incidentCount int, reference *[maxBufferSize]geom.Point, referenceCount int, normal geom.Vec) int {
	if referenceCount < 2 {
		copy(b.clipBuffer1[:incidentCount], incident[:incidentCount])
		b.clipBuffer1Count = incidentCount
		return incidentCount
	}

	copy(b.clipBuffer1[:incidentCount], incident[:incidentCount])
	b.clipBuffer1Count = incidentCount
	b.clipBuffer2Count = 0

	useBuffer1 := true
	center := b.computeCenter(reference, referenceCount)

	for i := 0; i < referenceCount; i++ {
		var inputBuffer, outputBuffer *[maxBufferSize]geom.Point
		var inputCount int
		var outputCount *int
		if useBuffer1 {
			inputBuffer, inputCount, outputBuffer, outputCount = &b.clipBuffer1, b.clipBuffer1Count, &b.clipBuffer2, &b.clipBuffer2Count
		} else {
			inputBuffer, inputCount, outputBuffer, outputCount = &b.clipBuffer2, b.clipBuffer2Count, &b.clipBuffer1, &b.clipBuffer1Count
		}
		*outputCount = 0
		if inputCount == 0 {
			break
		}

		v1 := reference[i]
		v2 := reference[(i+1)%referenceCount]
		edge := v2.Sub(v1)
		edgeCrossNormal := edge.Cross(normal)
		edgeCrossLen := edgeCrossNormal.Len()
		if edgeCrossLen < epsilonColinear {
			continue
		}
		clipNormal := edgeCrossNormal.Mul(1.0 / edgeCrossLen)
		if center.Sub(v1).Dot(clipNormal) < 0 {
			clipNormal = clipNormal.Mul(-1)
		}

		clipPolygonAgainstPlane(inputBuffer, inputCount, v1, clipNormal, outputBuffer, outputCount)
		useBuffer1 = !useBuffer1
	}

	if useBuffer1 {
		return b.clipBuffer1Count
	}
	copy(b.clipBuffer1[:b.clipBuffer2Count], b.clipBuffer2[:b.clipBuffer2Count])
	b.clipBuffer1Count = b.clipBuffer2Count
	return b.clipBuffer1Count
}

// clipPolygonAgainstPlane is one Sutherland-Hodgman pass: keep every input
// vertex on the plane's positive side, inserting the edge/plane intersection
// wherever an edge crosses it.
func clipPolygonAgainstPlane(input *[maxBufferSize]geom.Point, inputCount int, planePoint, planeNormal geom.Point, output *[maxBufferSize]geom.Point, outputCount *int) {
	*outputCount = 0
	if inputCount == 0 {
		return
	}
	for i := 0; i < inputCount; i++ {
		current := input[i]
		next := input[(i+1)%inputCount]
		currentDist := current.Sub(planePoint).Dot(planeNormal)
		nextDist := next.Sub(planePoint).Dot(planeNormal)

		if currentDist >= -epsilonDistance {
			if *outputCount < maxBufferSize {
				output[*outputCount] = current
				*outputCount++
			}
			if nextDist < -epsilonDistance && *outputCount < maxBufferSize {
				output[*outputCount] = lineIntersectPlane(current, next, planePoint, planeNormal)
				*outputCount++
			}
		} else if nextDist >= -epsilonDistance && *outputCount < maxBufferSize {
			output[*outputCount] = lineIntersectPlane(current, next, planePoint, planeNormal)
			*outputCount++
		}
	}
}

// clipAgainstReferencePlane drops any clipped point that still lies above
// the reference face's own plane, then records the survivors as final
// contact points tagged with both sides' feature ids.
func (b *ManifoldBuilder) clipAgainstReferencePlane(clippedCount int, reference *[maxBufferSize]geom.Point, referenceCount int, normal geom.Vec, depth geom.N, incidentIsB bool, incidentID, referenceID shape.FeatureId) {
	edge1 := reference[1].Sub(reference[0])
	edge2 := reference[2].Sub(reference[0])
	refNormal := edge1.Cross(edge2)
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

	for i := 0; i < clippedCount && b.tempPointsCount < maxBufferSize; i++ {
		point := b.clipBuffer1[i]
		if point.Dot(refNormal)-offset <= 0.0 {
			b.tempPoints[b.tempPointsCount] = b.makePoint(point, depth, normal, incidentIsB, incidentID, referenceID)
			b.tempPointsCount++
		}
	}
}

// reduceTo4Points keeps only the 4 points extreme along a tangent basis of
// normal, the way a constraint solver needs no more than its stable corners.
func (b *ManifoldBuilder) reduceTo4Points(normal geom.Vec) {
	if b.tempPointsCount <= maxContactPoints {
		return
	}
	tangent1, tangent2 := getTangentBasis(normal)

	minX, maxX, minY, maxY := 0, 0, 0, 0
	minXval, maxXval := math.Inf(1), math.Inf(-1)
	minYval, maxYval := math.Inf(1), math.Inf(-1)

	for i := 0; i < b.tempPointsCount; i++ {
		p := b.tempPoints[i].Position()
		x := p.Dot(tangent1)
		y := p.Dot(tangent2)
		if x < minXval {
			minXval, minX = x, i
		}
		if x > maxXval {
			maxXval, maxX = x, i
		}
		if y < minYval {
			minYval, minY = y, i
		}
		if y > maxYval {
			maxYval, maxY = y, i
		}
	}

	indices := [maxContactPoints]int{minX, maxX, minY, maxY}
	var seen [maxBufferSize]bool
	newCount := 0
	for _, idx := range indices {
		if !seen[idx] {
			seen[idx] = true
			b.tempPoints[newCount] = b.tempPoints[idx]
			newCount++
		}
	}
	b.tempPointsCount = newCount
}

func (b *ManifoldBuilder) buildResult() []ContactPoint {
	result := make([]ContactPoint, b.tempPointsCount)
	copy(result, b.tempPoints[:b.tempPointsCount])
	return result
}

func (b *ManifoldBuilder) computeCenter(points *[maxBufferSize]geom.Point, count int) geom.Point {
	if count == 0 {
		return geom.Point{}
	}
	sum := geom.Point{}
	for i := 0; i < count; i++ {
		sum = sum.Add(points[i])
	}
	return sum.Mul(1.0 / float64(count))
}

func lineIntersectPlane(p1, p2, planePoint, planeNormal geom.Point) geom.Point {
	dir := p2.Sub(p1)
	dist := p1.Sub(planePoint).Dot(planeNormal)
	denom := dir.Dot(planeNormal)
	if math.Abs(denom) < epsilonParallel {
		return p1
	}
	t := -dist / denom
	t = math.Max(0, math.Min(1, t))
	return p1.Add(dir.Mul(t))
}

func getTangentBasis(normal geom.Vec) (geom.Vec, geom.Vec) {
	tangent1 := geom.Vec{1, 0, 0}
	if math.Abs(normal[0]) > tangentBasisThreshold {
		tangent1 = geom.Vec{0, 1, 0}
	}
	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal)))
	if n := tangent1.Len(); n > 1e-12 {
		tangent1 = tangent1.Mul(1 / n)
	}
	tangent2 := normal.Cross(tangent1)
	if n := tangent2.Len(); n > 1e-12 {
		tangent2 = tangent2.Mul(1 / n)
	}
	return tangent1, tangent2
}
