//go:build !dim2

// TriMesh is 3-D only: a triangle soup has no meaningful 2-D analogue (use
// Polyline for 2-D level geometry instead).
package shape

import (
	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/partitioning"
)

// TriMesh is a static 3-D triangle soup, indexed by a BVT over its triangles for overlap queries. No teacher
// analogue; the same BVT-over-parts grounding as Compound applies, specialized
// to Triangle parts built from a shared vertex buffer plus index triples the
// way every mesh collider in the pack's rendering-adjacent repos stores geometry.
type TriMesh struct {
	Vertices []geom.Point
	Indices  [][3]uint32
	tree     *partitioning.BVT
}

func NewTriMesh(vertices []geom.Point, indices [][3]uint32) *TriMesh {
	leaves := make([]partitioning.Leaf, len(indices))
	for i, tri := range indices {
		t := Triangle{A: vertices[tri[0]], B: vertices[tri[1]], C: vertices[tri[2]]}
		leaves[i] = partitioning.Leaf{Bound: t.LocalAABB(), Data: i}
	}
	return &TriMesh{Vertices: vertices, Indices: indices, tree: partitioning.Build(leaves)}
}

func (m *TriMesh) LocalAABB() bv.AABB {
	return m.tree.Bound()
}

func (m *TriMesh) Triangle(index int) Triangle {
	tri := m.Indices[index]
	return Triangle{A: m.Vertices[tri[0]], B: m.Vertices[tri[1]], C: m.Vertices[tri[2]]}
}

// TrianglesOverlapping reports the index of every triangle whose AABB overlaps target.
func (m *TriMesh) TrianglesOverlapping(target bv.AABB, each func(triangleIndex int)) {
	partitioning.AABBQuery(m.tree, target, func(_ partitioning.LeafId, data interface{}) {
		each(data.(int))
	})
}

// LocalRayCast casts against the whole mesh, reporting the nearest hit triangle.
func (m *TriMesh) LocalRayCast(ray Ray, maxToi geom.N) (RayHit, bool) {
	best := RayHit{Toi: maxToi}
	found := false
	partitioning.RayQuery(m.tree, ray.Origin, ray.Dir, maxToi, func(_ partitioning.LeafId, data interface{}) {
		tri := m.Triangle(data.(int))
		if hit, ok := tri.LocalRayCast(ray, best.Toi); ok && (!found || hit.Toi < best.Toi) {
			best = hit
			best.Feature = Face(uint32(data.(int)))
			found = true
		}
	})
	return best, found
}
