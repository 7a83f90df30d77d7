package geom

// Iso is a rigid transform: rotation then translation. It generalizes
// actor.Transform from the teacher, which additionally cached the inverse
// rotation so hot paths like SupportWorld never recompute it; we keep that cache.
type Iso struct {
	Translation Vec
	Rotation    Rot
	inverseRot  Rot
	inverseSet  bool
}

// NewIso builds an isometry and eagerly caches its inverse rotation.
func NewIso(translation Vec, rotation Rot) Iso {
	iso := Iso{Translation: translation, Rotation: rotation}
	iso.inverseRot = InverseRot(rotation)
	iso.inverseSet = true
	return iso
}

// Identity returns the identity isometry.
func Identity() Iso {
	return NewIso(Zero(), IdentRot())
}

// InverseRotation returns the cached inverse of the isometry's rotation,
// computing and caching it on first use if the value was built by zero value.
func (iso *Iso) InverseRotation() Rot {
	if !iso.inverseSet {
		iso.inverseRot = InverseRot(iso.Rotation)
		iso.inverseSet = true
	}
	return iso.inverseRot
}

// TransformPoint maps a local-space point into world space.
func (iso Iso) TransformPoint(p Point) Point {
	return iso.Translation.Add(RotateVec(iso.Rotation, p))
}

// InverseTransformPoint maps a world-space point into the isometry's local space.
func (iso *Iso) InverseTransformPoint(p Point) Point {
	return RotateVec(iso.InverseRotation(), p.Sub(iso.Translation))
}

// TransformVector rotates a direction/displacement into world space, ignoring translation.
func (iso Iso) TransformVector(v Vec) Vec {
	return RotateVec(iso.Rotation, v)
}

// InverseTransformVector rotates a world-space direction into local space.
func (iso *Iso) InverseTransformVector(v Vec) Vec {
	return RotateVec(iso.InverseRotation(), v)
}

// Compose returns the isometry equivalent to applying `inner` then `outer`.
func Compose(outer, inner Iso) Iso {
	return NewIso(
		outer.TransformPoint(inner.Translation),
		ComposeRot(outer.Rotation, inner.Rotation),
	)
}

// Inverse returns the isometry that undoes iso.
func (iso *Iso) Inverse() Iso {
	invRot := iso.InverseRotation()
	return NewIso(RotateVec(invRot, iso.Translation).Mul(-1), invRot)
}
