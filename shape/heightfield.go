//go:build !dim2

// HeightField is 3-D only: a 2-D "height field" degenerates to a Polyline.
package shape

import (
	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/partitioning"
)

// HeightField is a regular grid of elevation samples over the XZ plane, the
// common static terrain collider. No teacher analogue; each grid cell is
// triangulated into two triangles, indexed by a BVT the same way TriMesh is —
// a height field is, in effect, a regularly-tessellated mesh, so it reuses the
// mesh's per-triangle part pattern instead of inventing a separate one.
type HeightField struct {
	Heights    [][]geom.N // Heights[row][col], row along Z, col along X
	CellWidth  geom.N
	CellDepth  geom.N
	tree       *partitioning.BVT
	rows, cols int
}

type heightCell struct {
	row, col int
	second   bool // which of the two triangles in the cell
}

func NewHeightField(heights [][]geom.N, cellWidth, cellDepth geom.N) *HeightField {
	rows := len(heights)
	cols := 0
	if rows > 0 {
		cols = len(heights[0])
	}
	h := &HeightField{Heights: heights, CellWidth: cellWidth, CellDepth: cellDepth, rows: rows, cols: cols}

	var leaves []partitioning.Leaf
	idx := 0
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			for _, second := range [2]bool{false, true} {
				tri := h.triangleAt(r, c, second)
				leaves = append(leaves, partitioning.Leaf{Bound: tri.LocalAABB(), Data: heightCell{r, c, second}})
				idx++
			}
		}
	}
	h.tree = partitioning.Build(leaves)
	return h
}

func (h *HeightField) vertexAt(row, col int) geom.Point {
	return geom.Point{geom.N(col) * h.CellWidth, h.Heights[row][col], geom.N(row) * h.CellDepth}
}

func (h *HeightField) triangleAt(row, col int, second bool) Triangle {
	v00 := h.vertexAt(row, col)
	v01 := h.vertexAt(row, col+1)
	v10 := h.vertexAt(row+1, col)
	v11 := h.vertexAt(row+1, col+1)
	if !second {
		return Triangle{A: v00, B: v10, C: v01}
	}
	return Triangle{A: v10, B: v11, C: v01}
}

func (h *HeightField) LocalAABB() bv.AABB {
	return h.tree.Bound()
}

// CellsOverlapping reports every triangulated cell whose AABB overlaps target.
func (h *HeightField) CellsOverlapping(target bv.AABB, each func(row, col int, second bool)) {
	partitioning.AABBQuery(h.tree, target, func(_ partitioning.LeafId, data interface{}) {
		c := data.(heightCell)
		each(c.row, c.col, c.second)
	})
}

func (h *HeightField) LocalRayCast(ray Ray, maxToi geom.N) (RayHit, bool) {
	best := RayHit{Toi: maxToi}
	found := false
	partitioning.RayQuery(h.tree, ray.Origin, ray.Dir, maxToi, func(_ partitioning.LeafId, data interface{}) {
		c := data.(heightCell)
		tri := h.triangleAt(c.row, c.col, c.second)
		if hit, ok := tri.LocalRayCast(ray, best.Toi); ok && (!found || hit.Toi < best.Toi) {
			best = hit
			found = true
		}
	})
	return best, found
}
