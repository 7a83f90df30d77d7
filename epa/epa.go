//go:build !dim2

package epa

import (
	"fmt"
	"math"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/gjk"
	"github.com/ridgeline-phys/collide/shape"
)

const (
	// epaMaxIterations bounds polytope expansion; typical convergence is
	// 5-15 iterations for the shapes this engine supports.
	epaMaxIterations = 32

	// epaConvergenceTolerance is how little a new support point must improve
	// on the closest face's distance before that face is taken as final.
	epaConvergenceTolerance = 0.001

	// epaMinFaceDistance is the floor below which a face is treated as
	// degenerate (at or behind the origin).
	epaMinFaceDistance = 0.0001

	// normalSnapThreshold clamps near-zero normal components to exactly
	// zero before renormalizing, so axis-aligned contacts don't pick up
	// floating-point jitter in their tangent directions.
	normalSnapThreshold = 1e-8

	// degeneratePenetrationEstimate is the fallback penetration reported
	// when GJK handed EPA too small a simplex to measure depth from.
	degeneratePenetrationEstimate = 0.01
)

// Result is the output of a converged EPA query: the separating normal
// (pointing from a toward b) and the contact manifold generated along it.
// New relative to the teacher's constraint.ContactConstraint: no Compliance
// or Restitution, since solving contacts is out of scope here.
type Result struct {
	Normal geom.Vec
	Points []ContactPoint
}

// EPA expands simplex (GJK's terminal tetrahedron) into a polytope and
// returns the face closest to the origin as the separating normal and
// penetration depth, together with a contact manifold built along that
// normal. Grounded on the teacher's EPA, restructured around the working
// PolytopeBuilder (epa/polytope.go in the teacher ships both an unused
// free-function sketch and this builder; the builder is the one actually
// exercised by its own tests, so it is what this function adapts).
func EPA(a, b gjk.Posed, simplex *gjk.Simplex) (Result, error) {
	if simplex.Count < 4 {
		return handleDegenerateSimplex(a, b, simplex), nil
	}

	builder := polytopeBuilderPool.Get().(*PolytopeBuilder)
	defer func() { builder.Reset(); polytopeBuilderPool.Put(builder) }()
	builder.Reset()

	if err := builder.BuildInitialFaces(simplex); err != nil {
		return Result{}, err
	}

	for i := 0; i < epaMaxIterations; i++ {
		if len(builder.faces) == 0 {
			break
		}

		closestIndex := builder.FindClosestFaceIndex()
		closestFace := builder.faces[closestIndex]

		if closestFace.Distance < epaMinFaceDistance {
			builder.faces = append(builder.faces[:closestIndex], builder.faces[closestIndex+1:]...)
			continue
		}

		support := gjk.MinkowskiSupport(a, b, closestFace.Normal)
		distance := support.Dot(closestFace.Normal)

		if distance-closestFace.Distance < epaConvergenceTolerance {
			normal := orientNormalForPlanes(a, b, closestFace.Normal)
			points := GenerateManifold(a, b, normal, closestFace.Distance)
			return Result{Normal: normal, Points: points}, nil
		}

		if err := builder.AddPointAndRebuildFaces(support, closestIndex); err != nil {
			return Result{}, err
		}
	}

	return Result{}, fmt.Errorf("epa: failed to converge after %d iterations", epaMaxIterations)
}

// orientNormalForPlanes special-cases the infinite-plane shape: a plane's
// own normal is authoritative, so the separating normal is flipped to agree
// with it rather than trusting whatever side EPA's polytope happened to
// expand toward. Grounded on the teacher's equivalent actor.Plane check in
// epa.EPA.
func orientNormalForPlanes(a, b gjk.Posed, normal geom.Vec) geom.Vec {
	if plane, ok := a.Shape.(shape.Plane); ok {
		worldNormal := geom.RotateVec(a.Pose.Rotation, plane.Normal)
		if normal.Dot(worldNormal) < 0 {
			normal = normal.Mul(-1)
		}
	}
	if plane, ok := b.Shape.(shape.Plane); ok {
		worldNormal := geom.RotateVec(b.Pose.Rotation, plane.Normal)
		if normal.Dot(worldNormal) > 0 {
			normal = normal.Mul(-1)
		}
	}
	return normal
}

// handleDegenerateSimplex estimates a normal and penetration depth when GJK
// terminated with fewer than 4 simplex points (shapes barely touching, or a
// numerically flat contact). Grounded on the teacher's handleDegenerateSimplex.
func handleDegenerateSimplex(a, b gjk.Posed, simplex *gjk.Simplex) Result {
	if simplex.Count >= 2 {
		p0, p1 := simplex.Points[0], simplex.Points[1]
		dist0 := math.Sqrt(p0.Dot(p0))
		dist1 := math.Sqrt(p1.Dot(p1))

		var penetration geom.N
		var normal geom.Vec
		if dist0 < dist1 {
			penetration = dist0
			normal = normalizeOrFallback(p0)
		} else {
			penetration = dist1
			normal = normalizeOrFallback(p1)
		}
		normal = orientNormalForPlanes(a, b, normal)
		return Result{Normal: normal, Points: GenerateManifold(a, b, normal, penetration)}
	}

	normal := b.Pose.Translation.Sub(a.Pose.Translation)
	if n := normal.Len(); n < normalSnapThreshold {
		normal = geom.Vec{0, 1, 0}
	} else {
		normal = normal.Mul(1.0 / n)
	}
	normal = orientNormalForPlanes(a, b, normal)
	return Result{Normal: normal, Points: GenerateManifold(a, b, normal, degeneratePenetrationEstimate)}
}

func normalizeOrFallback(v geom.Vec) geom.Vec {
	if n := v.Len(); n > 1e-12 {
		return v.Mul(1 / n)
	}
	return geom.Vec{0, 1, 0}
}

// snapNormalToAxis clamps near-zero normal components to exactly zero, then
// renormalizes. Improves numerical stability for axis-aligned contacts (a
// box resting on a ground plane) by preventing float error in the tangent
// directions. Grounded on the teacher's snapNormalToAxis.
func snapNormalToAxis(normal geom.Vec) geom.Vec {
	x, y, z := normal[0], normal[1], normal[2]
	if math.Abs(x) < normalSnapThreshold {
		x = 0
	}
	if math.Abs(y) < normalSnapThreshold {
		y = 0
	}
	if math.Abs(z) < normalSnapThreshold {
		z = 0
	}
	clamped := geom.Vec{x, y, z}
	length := math.Sqrt(clamped.Dot(clamped))
	if length <= 1e-8 {
		return geom.Vec{0, 1, 0}
	}
	return clamped.Mul(1.0 / length)
}
