//go:build !dim2

package epa

import (
	"fmt"
	"math"
	"sync"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/gjk"
)

const polytopeInitialCapacity = 16

// PolytopeBuilder manages polytope expansion with dynamically-growing buffers
// seeded at a capacity generous enough that most collisions never reallocate.
type PolytopeBuilder struct {
	faces        []Face
	uniquePoints []geom.Point

	// Normalized edges (A < B lexicographically) with occurrence count; an
	// edge bordering the visible region exactly once is a boundary edge.
	edges []EdgeEntry

	visibleIndices []int
}

// EdgeEntry is an edge with an occurrence count for boundary detection: count
// == 1 means the edge bounds the visible region (a new face must span it to
// the support point), count >= 2 means it is interior and gets discarded.
type EdgeEntry struct {
	A, B  geom.Point
	Count int
}

var polytopeBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolytopeBuilder{
			faces:          make([]Face, 0, polytopeInitialCapacity),
			uniquePoints:   make([]geom.Point, 0, polytopeInitialCapacity),
			edges:          make([]EdgeEntry, 0, polytopeInitialCapacity),
			visibleIndices: make([]int, 0, polytopeInitialCapacity),
		}
	},
}

// Reset prepares the builder for reuse from the pool.
func (b *PolytopeBuilder) Reset() {
	b.faces = b.faces[:0]
	b.uniquePoints = b.uniquePoints[:0]
	b.edges = b.edges[:0]
	b.visibleIndices = b.visibleIndices[:0]
}

// BuildInitialFaces seeds the polytope from GJK's terminal tetrahedron
// simplex: one candidate face per tetrahedron face, oriented outward using
// the opposite vertex. createFaceOutward floors each face's distance at
// epaMinFaceDistance, so faces through or near the origin are kept with that
// floor distance rather than discarded.
func (b *PolytopeBuilder) BuildInitialFaces(simplex *gjk.Simplex) error {
	if simplex.Count != 4 {
		return fmt.Errorf("epa: invalid simplex count: %d (expected 4)", simplex.Count)
	}

	p0, p1, p2, p3 := simplex.Points[0], simplex.Points[1], simplex.Points[2], simplex.Points[3]

	candidateFaces := [4]Face{
		b.createFaceOutward(p0, p1, p2, p3),
		b.createFaceOutward(p0, p2, p3, p1),
		b.createFaceOutward(p0, p3, p1, p2),
		b.createFaceOutward(p1, p3, p2, p0),
	}

	for i := 0; i < 4; i++ {
		if candidateFaces[i].Distance >= epaMinFaceDistance {
			b.faces = append(b.faces, candidateFaces[i])
		}
	}

	if len(b.faces) < 3 {
		// Degenerate tetrahedron (near-coplanar): keep every candidate face
		// rather than leave the polytope unable to enclose the origin.
		b.faces = b.faces[:0]
		b.faces = append(b.faces, candidateFaces[:]...)
	}

	return nil
}

// createFaceOutward builds the face through p0, p1, p2, orienting its normal
// away from oppositePoint (the tetrahedron vertex not on this face).
func (b *PolytopeBuilder) createFaceOutward(p0, p1, p2, oppositePoint geom.Point) Face {
	var face Face
	face.Points = [3]geom.Point{p0, p1, p2}

	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)
	normal := edge1.Cross(edge2)

	normalLength := math.Sqrt(normal.Dot(normal))
	if normalLength < 1e-8 {
		face.Normal = geom.Vec{0, 1, 0}
		face.Distance = epaMinFaceDistance
		return face
	}
	normal = normal.Mul(1.0 / normalLength)

	toOpposite := oppositePoint.Sub(p0)
	if normal.Dot(toOpposite) > 0 {
		normal = normal.Mul(-1)
	}

	distance := p0.Dot(normal)
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
	}
	if distance < epaMinFaceDistance {
		distance = epaMinFaceDistance
	}

	face.Normal = snapNormalToAxis(normal)
	face.Distance = distance
	return face
}

// FindClosestFaceIndex returns the index of the face nearest the origin, or
// -1 if the polytope has no faces.
func (b *PolytopeBuilder) FindClosestFaceIndex() int {
	if len(b.faces) == 0 {
		return -1
	}
	closestIndex := 0
	minDistance := b.faces[0].Distance
	for i := 1; i < len(b.faces); i++ {
		if b.faces[i].Distance < minDistance {
			closestIndex = i
			minDistance = b.faces[i].Distance
		}
	}
	return closestIndex
}

// calculateCentroid averages the polytope's unique vertices, deduplicated
// via binary search over a lexicographically-sorted buffer.
func (b *PolytopeBuilder) calculateCentroid() geom.Point {
	b.uniquePoints = b.uniquePoints[:0]

	for i := range b.faces {
		face := &b.faces[i]
		for j := 0; j < 3; j++ {
			point := face.Points[j]
			insertIdx := b.findPointInsertionIndex(point)
			if insertIdx < len(b.uniquePoints) && vec3Equal(b.uniquePoints[insertIdx], point) {
				continue
			}
			b.uniquePoints = append(b.uniquePoints, geom.Point{})
			copy(b.uniquePoints[insertIdx+1:], b.uniquePoints[insertIdx:])
			b.uniquePoints[insertIdx] = point
		}
	}

	if len(b.uniquePoints) == 0 {
		return geom.Point{}
	}
	sum := geom.Point{}
	for _, p := range b.uniquePoints {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(b.uniquePoints)))
}

func (b *PolytopeBuilder) findPointInsertionIndex(point geom.Point) int {
	left, right := 0, len(b.uniquePoints)
	for left < right {
		mid := (left + right) / 2
		if compareVec3(b.uniquePoints[mid], point) < 0 {
			left = mid + 1
		} else {
			right = mid
		}
	}
	return left
}

// findBoundaryEdges collects every edge of every visible face, normalizes
// endpoint order, and tallies occurrences so the caller can pick out the
// count-1 boundary edges.
func (b *PolytopeBuilder) findBoundaryEdges() {
	b.edges = b.edges[:0]

	for _, faceIdx := range b.visibleIndices {
		face := &b.faces[faceIdx]
		edges := [3][2]geom.Point{
			{face.Points[0], face.Points[1]},
			{face.Points[1], face.Points[2]},
			{face.Points[2], face.Points[0]},
		}
		for _, edge := range edges {
			edgeA, edgeB := edge[0], edge[1]
			if compareVec3(edgeA, edgeB) > 0 {
				edgeA, edgeB = edgeB, edgeA
			}
			if idx := b.findEdgeIndex(edgeA, edgeB); idx >= 0 {
				b.edges[idx].Count++
			} else {
				b.edges = append(b.edges, EdgeEntry{A: edgeA, B: edgeB, Count: 1})
			}
		}
	}
}

func (b *PolytopeBuilder) findEdgeIndex(edgeA, edgeB geom.Point) int {
	for i := range b.edges {
		if vec3Equal(b.edges[i].A, edgeA) && vec3Equal(b.edges[i].B, edgeB) {
			return i
		}
	}
	return -1
}

// findVisibleFaces marks every face whose outward side faces support, the
// new point about to be added to the polytope.
func (b *PolytopeBuilder) findVisibleFaces(support geom.Point) {
	b.visibleIndices = b.visibleIndices[:0]
	for i := range b.faces {
		face := &b.faces[i]
		if support.Sub(face.Points[0]).Dot(face.Normal) > 0 {
			b.visibleIndices = append(b.visibleIndices, i)
		}
	}
}

// removeVisibleFaces drops the faces in visibleIndices via swap-with-last,
// processing indices in descending order so earlier removals never
// invalidate later ones.
func (b *PolytopeBuilder) removeVisibleFaces() {
	for i := 0; i < len(b.visibleIndices)-1; i++ {
		for j := i + 1; j < len(b.visibleIndices); j++ {
			if b.visibleIndices[i] < b.visibleIndices[j] {
				b.visibleIndices[i], b.visibleIndices[j] = b.visibleIndices[j], b.visibleIndices[i]
			}
		}
	}
	for _, idx := range b.visibleIndices {
		if idx < len(b.faces) {
			b.faces[idx] = b.faces[len(b.faces)-1]
			b.faces = b.faces[:len(b.faces)-1]
		}
	}
}

// addBoundaryFaces stitches a new face from the support point to every
// boundary edge left after removing the visible region.
func (b *PolytopeBuilder) addBoundaryFaces(support, centroid geom.Point) {
	for i := range b.edges {
		if b.edges[i].Count != 1 {
			continue
		}
		b.faces = append(b.faces, b.createFaceOutward(b.edges[i].A, b.edges[i].B, support, centroid))
	}
}

// AddPointAndRebuildFaces is the EPA expansion step: find the faces visible
// from support, remove them, and reconnect the resulting hole's boundary
// edges to support with new outward faces.
func (b *PolytopeBuilder) AddPointAndRebuildFaces(support geom.Point, closestIndex int) error {
	centroid := b.calculateCentroid()

	b.findVisibleFaces(support)
	if len(b.visibleIndices) >= len(b.faces) {
		// support sees every face: fall back to just replacing the closest
		// one so the polytope never collapses to nothing.
		b.visibleIndices = b.visibleIndices[:0]
		b.visibleIndices = append(b.visibleIndices, closestIndex)
	}

	b.findBoundaryEdges()
	b.removeVisibleFaces()
	b.addBoundaryFaces(support, centroid)

	if len(b.faces) == 0 {
		b.faces = append(b.faces, Face{
			Points:   [3]geom.Point{support, support, support},
			Normal:   geom.Vec{0, 1, 0},
			Distance: epaMinFaceDistance,
		})
	}

	return nil
}

// GetClosestFace returns the face nearest the origin, or nil if the polytope
// is empty.
func (b *PolytopeBuilder) GetClosestFace() *Face {
	if len(b.faces) == 0 {
		return nil
	}
	return &b.faces[b.FindClosestFaceIndex()]
}
