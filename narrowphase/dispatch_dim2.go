//go:build dim2

package narrowphase

import (
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/gjk"
)

// defaultContact is the 2-D penetration solver ContactDispatcher falls back
// to for any pair without a closed form or composite recursion: GJK decides
// overlap, epa2D (this package's polygon-edge equivalent of 3-D EPA, since
// epa itself is 3-D only) resolves normal and depth, and generateManifold2D
// clips the two bodies' contact features per spec.md §4.9.
var defaultContact ContactFunc = gjkClip2DContact

// gjkClip2DContact mirrors dispatch_dim3.go's gjkEPAContact: GJK decides
// overlap, and a pair GJK finds apart still reports via predictedContact when
// the gap is within prediction.
func gjkClip2DContact(a, b PosedShape, prediction geom.N) (Contact, bool) {
	pa, pb := a.asPosed(), b.asPosed()

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer func() { simplex.Reset(); gjk.SimplexPool.Put(simplex) }()

	if !gjk.GJK(pa, pb, simplex) {
		return predictedContact(pa, pb, prediction)
	}
	normal, depth, err := epa2D(pa, pb, simplex)
	if err != nil {
		return Contact{}, false
	}
	points := generateManifold2D(pa, pb, normal, depth)
	return Contact{Normal: normal, Separation: -depth, Points: points}, true
}
