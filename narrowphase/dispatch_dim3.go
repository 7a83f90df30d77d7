//go:build !dim2

package narrowphase

import (
	"github.com/ridgeline-phys/collide/epa"
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/gjk"
)

// defaultContact is the penetration solver ContactDispatcher falls back to
// for any pair without a closed form or composite recursion, per spec.md
// §4.7: GJK decides overlap, EPA resolves the manifold. The 2-D build
// (dispatch_dim2.go) wires the polygon-edge-expansion equivalent instead,
// since epa is 3-D only (see epa/face.go).
var defaultContact ContactFunc = gjkEPAContact

// gjkEPAContact is the default detector spec.md §4.7 falls back to for any
// pair without a closed form: GJK decides overlap, EPA resolves the manifold.
// When GJK finds the pair apart, a gap of no more than prediction still
// reports via gjk.Distance's witnesses, with a negative Penetration recording
// the gap (spec.md §2/§3's prediction contract).
func gjkEPAContact(a, b PosedShape, prediction geom.N) (Contact, bool) {
	pa, pb := a.asPosed(), b.asPosed()

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer func() { simplex.Reset(); gjk.SimplexPool.Put(simplex) }()

	if !gjk.GJK(pa, pb, simplex) {
		return predictedContact(pa, pb, prediction)
	}
	result, err := epa.EPA(pa, pb, simplex)
	if err != nil {
		return Contact{}, false
	}
	depth := geom.N(0)
	if len(result.Points) > 0 {
		depth = result.Points[0].Penetration
	}
	return Contact{Normal: result.Normal, Separation: -depth, Points: result.Points}, true
}
