//go:build !dim2

// Package geom is the math layer shared by every other package: a scalar, a point,
// a vector, and an isometry (rotation + translation), parameterized only by which of
// this file or geom_dim2.go is compiled in. Nothing above this package ever imports
// mathgl directly.
package geom

import "github.com/go-gl/mathgl/mgl64"

// Dims is the number of components a Vec/Point carries in this build.
const Dims = 3

// N is the scalar type used throughout the engine.
type N = float64

// Vec is a displacement in space.
type Vec = mgl64.Vec3

// Point is a location in space. Points and vectors share a representation (as they
// do throughout mathgl) but are kept as distinct names so call sites read clearly.
type Point = mgl64.Vec3

// Rot is the rotational part of an isometry.
type Rot = mgl64.Quat

// IdentRot is the identity rotation.
func IdentRot() Rot { return mgl64.QuatIdent() }

// RotateVec applies a rotation to a vector.
func RotateVec(r Rot, v Vec) Vec { return r.Rotate(v) }

// InverseRot returns the inverse of a rotation.
func InverseRot(r Rot) Rot { return r.Inverse() }

// ComposeRot returns a∘b (apply b, then a).
func ComposeRot(a, b Rot) Rot { return a.Mul(b) }

// Zero is the zero vector / origin.
func Zero() Vec { return Vec{} }

// Axis returns the i-th standard basis vector.
func Axis(i int) Vec {
	var v Vec
	v[i] = 1
	return v
}
