package narrowphase

import (
	"testing"

	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/shape"
)

func TestCompositeContactFindsOverlappingPart(t *testing.T) {
	compound := shape.NewCompound([]shape.Part{
		{Local: geom.NewIso(geom.Point{-2, 0, 0}, geom.IdentRot()), Shape: shape.Ball{Radius: 1}},
		{Local: geom.NewIso(geom.Point{2, 0, 0}, geom.IdentRot()), Shape: shape.Ball{Radius: 1}},
	})
	a := PosedShape{Shape: compound, Pose: geom.Identity()}
	b := posed(shape.Ball{Radius: 1}, geom.Point{3.5, 0, 0})

	c, ok := compositeContact(a, b, 0)
	if !ok {
		t.Fatalf("expected the second part (at x=2) to register contact with the ball at x=3.5")
	}
	if len(c.Points) == 0 {
		t.Errorf("expected at least one contact point")
	}
}

func TestCompositeContactNoOverlap(t *testing.T) {
	compound := shape.NewCompound([]shape.Part{
		{Local: geom.NewIso(geom.Point{0, 0, 0}, geom.IdentRot()), Shape: shape.Ball{Radius: 1}},
	})
	a := PosedShape{Shape: compound, Pose: geom.Identity()}
	b := posed(shape.Ball{Radius: 1}, geom.Point{10, 0, 0})

	if _, ok := compositeContact(a, b, 0); ok {
		t.Errorf("expected no contact for a far-away ball")
	}
}

func TestCompositeContactSwappedOperandOrder(t *testing.T) {
	compound := shape.NewCompound([]shape.Part{
		{Local: geom.Identity(), Shape: shape.Ball{Radius: 1}},
	})
	a := posed(shape.Ball{Radius: 1}, geom.Point{1.5, 0, 0})
	b := PosedShape{Shape: compound, Pose: geom.Identity()}

	c, ok := compositeContact(a, b, 0)
	if !ok {
		t.Fatalf("expected contact when the compound is the B operand")
	}
	if c.Normal[0] >= 0 {
		t.Errorf("normal = %v, want it pointing from ball a toward the compound", c.Normal)
	}
}
