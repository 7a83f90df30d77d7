//go:build dim2

// Package geom is the math layer shared by every other package: a scalar, a point,
// a vector, and an isometry (rotation + translation), parameterized only by which of
// this file or geom_dim3.go is compiled in. Nothing above this package ever imports
// mathgl directly.
package geom

import "github.com/go-gl/mathgl/mgl64"

// Dims is the number of components a Vec/Point carries in this build.
const Dims = 2

// N is the scalar type used throughout the engine.
type N = float64

// Vec is a displacement in the plane.
type Vec = mgl64.Vec2

// Point is a location in the plane.
type Point = mgl64.Vec2

// Rot is the rotational part of an isometry. mathgl has no 2-D quaternion, so a
// planar rotation is just its angle in radians; RotateVec/ComposeRot/InverseRot
// hide the angle representation from callers the same way a quaternion would.
type Rot = N

// IdentRot is the identity rotation.
func IdentRot() Rot { return 0 }

// RotateVec applies a rotation to a vector.
func RotateVec(r Rot, v Vec) Vec {
	m := mgl64.Rotate2D(r)
	return m.Mul2x1(v)
}

// InverseRot returns the inverse of a rotation.
func InverseRot(r Rot) Rot { return -r }

// ComposeRot returns a∘b (apply b, then a).
func ComposeRot(a, b Rot) Rot { return a + b }

// Zero is the zero vector / origin.
func Zero() Vec { return Vec{} }

// Axis returns the i-th standard basis vector.
func Axis(i int) Vec {
	var v Vec
	v[i] = 1
	return v
}
