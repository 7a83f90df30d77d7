//go:build !dim2

package shape

import (
	"math"

	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

// Cylinder is a right circular cylinder aligned with the local Y axis, 3-D only:
// there is no natural 2-D analogue (a 2-D "cylinder" is just a Cuboid or
// Capsule). No teacher analogue.
type Cylinder struct {
	HalfHeight geom.N
	Radius     geom.N
}

func (c Cylinder) LocalSupport(direction geom.Vec) geom.Point {
	sideLen := math.Sqrt(direction[0]*direction[0] + direction[2]*direction[2])
	var p geom.Point
	if sideLen > 1e-12 {
		p[0] = direction[0] * c.Radius / sideLen
		p[2] = direction[2] * c.Radius / sideLen
	} else {
		p[0] = c.Radius
	}
	if direction[1] >= 0 {
		p[1] = c.HalfHeight
	} else {
		p[1] = -c.HalfHeight
	}
	return p
}

func (c Cylinder) LocalAABB() bv.AABB {
	return bv.AABB{
		Mins: geom.Point{-c.Radius, -c.HalfHeight, -c.Radius},
		Maxs: geom.Point{c.Radius, c.HalfHeight, c.Radius},
	}
}

func (c Cylinder) ContainsLocalPoint(p geom.Point) bool {
	if math.Abs(p[1]) > c.HalfHeight {
		return false
	}
	return p[0]*p[0]+p[2]*p[2] <= c.Radius*c.Radius
}
