package bv

import (
	"math"

	"github.com/ridgeline-phys/collide/geom"
)

// Cone bounds a set of directions (e.g. the face normals of a curved composite-shape
// piece) by a central axis and a half-angle. It is used as a normal-cone / tangent-cone
// bound, complementing AABB the way spec.md §2 describes ("polyhedral cone ... circular
// cone"). There is no teacher analogue for this type (see DESIGN.md); it follows the
// same support-direction reasoning as actor.Box.Support, generalized by hand.
type Cone struct {
	Axis      geom.Vec // unit vector, the cone's central direction
	HalfAngle geom.N   // radians, in [0, pi]
}

// NewCircularCone builds a cone with the given (already-normalized) axis and half-angle.
func NewCircularCone(axis geom.Vec, halfAngle geom.N) Cone {
	return Cone{Axis: axis, HalfAngle: halfAngle}
}

// Contains reports whether direction (need not be normalized) lies within the cone.
func (c Cone) Contains(direction geom.Vec) bool {
	n := direction.Len()
	if n < 1e-12 {
		return true
	}
	cosAngle := c.Axis.Dot(direction) / n
	cosAngle = math.Max(-1, math.Min(1, cosAngle))
	return math.Acos(cosAngle) <= c.HalfAngle
}

// Merge returns the smallest cone enclosing both c and other, approximated by
// widening the half-angle to cover the angular gap between the two axes (an exact
// minimal enclosing cone requires iterative refinement not needed at this scale).
func (c Cone) Merge(other Cone) Cone {
	cosBetween := math.Max(-1, math.Min(1, c.Axis.Dot(other.Axis)))
	between := math.Acos(cosBetween)
	if between+other.HalfAngle <= c.HalfAngle {
		return c
	}
	if between+c.HalfAngle <= other.HalfAngle {
		return other
	}

	newHalfAngle := (c.HalfAngle + other.HalfAngle + between) / 2
	if newHalfAngle >= math.Pi {
		return Cone{Axis: c.Axis, HalfAngle: math.Pi}
	}

	// Axis is the weighted rotation from c.Axis toward other.Axis; approximate via
	// spherical linear interpolation using the Rodrigues formula, since mathgl's
	// Vec3 has no built-in slerp for bare vectors.
	t := (newHalfAngle - c.HalfAngle) / between
	axis := slerp(c.Axis, other.Axis, t)
	return Cone{Axis: axis, HalfAngle: newHalfAngle}
}

func slerp(a, b geom.Vec, t geom.N) geom.Vec {
	dot := math.Max(-1, math.Min(1, a.Dot(b)))
	theta := math.Acos(dot) * t
	relative := b.Sub(a.Mul(dot))
	if relative.Len() < 1e-12 {
		return a
	}
	relative = relative.Normalize()
	return a.Mul(math.Cos(theta)).Add(relative.Mul(math.Sin(theta))).Normalize()
}

// Intersects reports whether two cones share at least one direction.
func (c Cone) Intersects(other Cone) bool {
	cosBetween := math.Max(-1, math.Min(1, c.Axis.Dot(other.Axis)))
	between := math.Acos(cosBetween)
	return between <= c.HalfAngle+other.HalfAngle
}
