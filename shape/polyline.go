package shape

import (
	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/partitioning"
)

// Polyline is an open or closed chain of segments, used for 2-D level geometry
// and 3-D wireframe colliders (e.g. rope/cable proxies). No teacher analogue;
// grounded on partitioning.BVT the same way Compound is, since a polyline with
// many segments needs the same part-overlap acceleration a compound does.
type Polyline struct {
	Segments []Segment
	tree     *partitioning.BVT
}

// NewPolyline builds a polyline from an ordered point chain. closed additionally
// connects the last vertex back to the first.
func NewPolyline(points []geom.Point, closed bool) *Polyline {
	n := len(points)
	segs := make([]Segment, 0, n)
	for i := 0; i < n-1; i++ {
		segs = append(segs, Segment{A: points[i], B: points[i+1]})
	}
	if closed && n > 1 {
		segs = append(segs, Segment{A: points[n-1], B: points[0]})
	}

	leaves := make([]partitioning.Leaf, len(segs))
	for i, s := range segs {
		leaves[i] = partitioning.Leaf{Bound: s.LocalAABB(), Data: i}
	}
	return &Polyline{Segments: segs, tree: partitioning.Build(leaves)}
}

func (p *Polyline) LocalAABB() bv.AABB {
	return p.tree.Bound()
}

// SegmentsOverlapping reports the index of every segment whose AABB overlaps target.
func (p *Polyline) SegmentsOverlapping(target bv.AABB, each func(segmentIndex int)) {
	partitioning.AABBQuery(p.tree, target, func(_ partitioning.LeafId, data interface{}) {
		each(data.(int))
	})
}
