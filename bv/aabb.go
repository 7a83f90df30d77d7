// Package bv implements the bounding volumes used by the partitioning and shape
// packages: axis-aligned boxes and the normal/tangent cones used to bound curved
// composite-shape pieces.
package bv

import (
	"math"

	"github.com/ridgeline-phys/collide/geom"
)

// AABB is an axis-aligned bounding box, generalizing actor.AABB (mins <= maxs
// component-wise) with the Merge/Contains/Transform/Loosen operations spec.md §2
// requires and the teacher's AABB does not have.
type AABB struct {
	Mins geom.Point
	Maxs geom.Point
}

// FromPoints builds the tightest AABB enclosing the given points.
func FromPoints(points []geom.Point) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Mins: points[0], Maxs: points[0]}
	for _, p := range points[1:] {
		box = box.expandedToContain(p)
	}
	return box
}

func (a AABB) expandedToContain(p geom.Point) AABB {
	for i := 0; i < geom.Dims; i++ {
		if p[i] < a.Mins[i] {
			a.Mins[i] = p[i]
		}
		if p[i] > a.Maxs[i] {
			a.Maxs[i] = p[i]
		}
	}
	return a
}

// ContainsPoint reports whether point lies inside the box (inclusive).
func (a AABB) ContainsPoint(p geom.Point) bool {
	for i := 0; i < geom.Dims; i++ {
		if p[i] < a.Mins[i] || p[i] > a.Maxs[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether two AABBs intersect on every axis.
func (a AABB) Overlaps(other AABB) bool {
	for i := 0; i < geom.Dims; i++ {
		if a.Maxs[i] < other.Mins[i] || a.Mins[i] > other.Maxs[i] {
			return false
		}
	}
	return true
}

// Contains reports whether other is entirely enclosed by a.
func (a AABB) Contains(other AABB) bool {
	for i := 0; i < geom.Dims; i++ {
		if other.Mins[i] < a.Mins[i] || other.Maxs[i] > a.Maxs[i] {
			return false
		}
	}
	return true
}

// Merge returns the smallest AABB enclosing both a and b.
func (a AABB) Merge(b AABB) AABB {
	var out AABB
	for i := 0; i < geom.Dims; i++ {
		out.Mins[i] = math.Min(a.Mins[i], b.Mins[i])
		out.Maxs[i] = math.Max(a.Maxs[i], b.Maxs[i])
	}
	return out
}

// Center returns the box's midpoint, used by the static BVT build to order leaves.
func (a AABB) Center() geom.Point {
	var c geom.Point
	for i := 0; i < geom.Dims; i++ {
		c[i] = 0.5 * (a.Mins[i] + a.Maxs[i])
	}
	return c
}

// Volume returns the hyper-volume of the box (area in 2-D, volume in 3-D), used as
// the DBVT's surface-area-style merge cost.
func (a AABB) Volume() geom.N {
	vol := geom.N(1)
	for i := 0; i < geom.Dims; i++ {
		d := a.Maxs[i] - a.Mins[i]
		if d < 0 {
			d = 0
		}
		vol *= d
	}
	return vol
}

// Loosen grows the box by a fixed margin on every axis. This is the broad-phase
// proxy-AABB loosening named in spec.md §6 ("margin").
func (a AABB) Loosen(margin geom.N) AABB {
	var out AABB
	for i := 0; i < geom.Dims; i++ {
		out.Mins[i] = a.Mins[i] - margin
		out.Maxs[i] = a.Maxs[i] + margin
	}
	return out
}

// Predict extends the box along a linear displacement.
func (a AABB) Predict(displacement geom.Vec) AABB {
	out := a
	for i := 0; i < geom.Dims; i++ {
		if displacement[i] > 0 {
			out.Maxs[i] += displacement[i]
		} else {
			out.Mins[i] += displacement[i]
		}
	}
	return out
}

// Transform recomputes the AABB of a box under an isometry by walking its corners,
// the same technique actor.Box.ComputeAABB uses for an oriented box.
func (a AABB) Transform(iso geom.Iso) AABB {
	corners := a.corners()
	first := iso.TransformPoint(corners[0])
	out := AABB{Mins: first, Maxs: first}
	for _, c := range corners[1:] {
		out = out.expandedToContain(iso.TransformPoint(c))
	}
	return out
}

func (a AABB) corners() []geom.Point {
	n := 1 << geom.Dims
	out := make([]geom.Point, n)
	for mask := 0; mask < n; mask++ {
		var c geom.Point
		for axis := 0; axis < geom.Dims; axis++ {
			if mask&(1<<axis) != 0 {
				c[axis] = a.Maxs[axis]
			} else {
				c[axis] = a.Mins[axis]
			}
		}
		out[mask] = c
	}
	return out
}
