//go:build !dim2

package shape

import (
	"math"

	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

// Cone is a right circular cone aligned with the local Y axis, apex up, 3-D
// only. No teacher analogue; support map follows the standard apex-vs-base-rim
// comparison (the apex wins whenever the query direction points "more up" than
// the cone's half-angle allows for a base point to beat it).
type Cone struct {
	HalfHeight geom.N
	Radius     geom.N
}

func (c Cone) apex() geom.Point { return geom.Point{0, c.HalfHeight, 0} }

func (c Cone) LocalSupport(direction geom.Vec) geom.Point {
	sideLen := math.Sqrt(direction[0]*direction[0] + direction[2]*direction[2])
	// sinHalfAngle = Radius / slantLength
	slant := math.Sqrt(c.Radius*c.Radius + (2*c.HalfHeight)*(2*c.HalfHeight))
	sinHalfAngle := c.Radius / slant
	dirLen := direction.Len()
	if dirLen < 1e-12 {
		return c.apex()
	}
	if direction[1]/dirLen > sinHalfAngle {
		return c.apex()
	}
	var p geom.Point
	if sideLen > 1e-12 {
		p[0] = direction[0] * c.Radius / sideLen
		p[2] = direction[2] * c.Radius / sideLen
	} else {
		p[0] = c.Radius
	}
	p[1] = -c.HalfHeight
	return p
}

func (c Cone) LocalAABB() bv.AABB {
	return bv.AABB{
		Mins: geom.Point{-c.Radius, -c.HalfHeight, -c.Radius},
		Maxs: geom.Point{c.Radius, c.HalfHeight, c.Radius},
	}
}

func (c Cone) ContainsLocalPoint(p geom.Point) bool {
	if p[1] < -c.HalfHeight || p[1] > c.HalfHeight {
		return false
	}
	t := (c.HalfHeight - p[1]) / (2 * c.HalfHeight)
	radiusAtHeight := c.Radius * t
	return p[0]*p[0]+p[2]*p[2] <= radiusAtHeight*radiusAtHeight
}
