package partitioning

import (
	"testing"

	"github.com/ridgeline-phys/collide/bv"
	"github.com/ridgeline-phys/collide/geom"
)

func box(minX, minY, minZ, maxX, maxY, maxZ geom.N) bv.AABB {
	if geom.Dims == 2 {
		return bv.AABB{Mins: geom.Point{minX, minY}, Maxs: geom.Point{maxX, maxY}}
	}
	return bv.AABB{Mins: geom.Point{minX, minY, minZ}, Maxs: geom.Point{maxX, maxY, maxZ}}
}

func TestDBVTInsertAndQuery(t *testing.T) {
	d := NewDBVT()
	idA := d.Insert(box(0, 0, 0, 1, 1, 1), "a")
	idB := d.Insert(box(5, 5, 5, 6, 6, 6), "b")
	idC := d.Insert(box(0.5, 0.5, 0.5, 2, 2, 2), "c")

	if d.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", d.Count())
	}

	var found []string
	AABBQuery(d, box(-1, -1, -1, 1.5, 1.5, 1.5), func(id LeafId, data interface{}) {
		found = append(found, data.(string))
	})
	if len(found) != 2 {
		t.Fatalf("expected 2 hits for the query box, got %v", found)
	}

	data, ok := d.Data(idB)
	if !ok || data.(string) != "b" {
		t.Fatalf("Data(idB) = %v, %v", data, ok)
	}
	_ = idA
	_ = idC
}

func TestDBVTRemove(t *testing.T) {
	d := NewDBVT()
	idA := d.Insert(box(0, 0, 0, 1, 1, 1), "a")
	idB := d.Insert(box(1, 1, 1, 2, 2, 2), "b")

	if !d.Remove(idA) {
		t.Fatal("Remove(idA) should succeed the first time")
	}
	if d.Remove(idA) {
		t.Fatal("Remove(idA) should fail once already removed")
	}
	if d.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", d.Count())
	}
	if _, ok := d.Data(idA); ok {
		t.Fatal("Data(idA) should fail after removal")
	}
	if _, ok := d.Data(idB); !ok {
		t.Fatal("Data(idB) should still succeed")
	}
}

func TestDBVTRemoveRoot(t *testing.T) {
	d := NewDBVT()
	id := d.Insert(box(0, 0, 0, 1, 1, 1), "only")
	if !d.Remove(id) {
		t.Fatal("Remove of the sole leaf should succeed")
	}
	if d.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", d.Count())
	}
	if d.TotalBound() != (bv.AABB{}) {
		t.Fatalf("TotalBound() of an empty tree should be zero, got %v", d.TotalBound())
	}
}

func TestDBVTUpdateInPlace(t *testing.T) {
	d := NewDBVT()
	id := d.Insert(box(0, 0, 0, 1, 1, 1), "a")
	loosened := box(-0.1, -0.1, -0.1, 1.1, 1.1, 1.1)
	d.Update(id, loosened)

	// Moving slightly within the loosened bound should be a no-op refit, not a
	// reinsert, so the id must keep resolving.
	ok := d.Update(id, box(0.01, 0.01, 0.01, 0.9, 0.9, 0.9))
	if !ok {
		t.Fatal("Update within the current bound should succeed")
	}
	if _, ok := d.Data(id); !ok {
		t.Fatal("id should still resolve after an in-place update")
	}
}

func TestDBVTUpdatePreservesId(t *testing.T) {
	d := NewDBVT()
	idA := d.Insert(box(0, 0, 0, 1, 1, 1), "a")
	d.Insert(box(10, 10, 10, 11, 11, 11), "b")

	if !d.Update(idA, box(20, 20, 20, 21, 21, 21)) {
		t.Fatal("Update requiring a reinsert should succeed")
	}
	data, ok := d.Data(idA)
	if !ok || data.(string) != "a" {
		t.Fatalf("idA should still resolve to its original data after a forced reinsert, got %v, %v", data, ok)
	}

	var found []string
	AABBQuery(d, box(19, 19, 19, 22, 22, 22), func(id LeafId, data interface{}) {
		found = append(found, data.(string))
	})
	if len(found) != 1 || found[0] != "a" {
		t.Fatalf("expected to find the relocated leaf, got %v", found)
	}
}

func TestDBVTSelfPairs(t *testing.T) {
	d := NewDBVT()
	d.Insert(box(0, 0, 0, 1, 1, 1), "a")
	d.Insert(box(0.5, 0.5, 0.5, 1.5, 1.5, 1.5), "b")
	d.Insert(box(10, 10, 10, 11, 11, 11), "c")

	type pair struct{ a, b string }
	var pairs []pair
	d.SelfPairs(pairVisitorFunc(func(_ LeafId, aData interface{}, _ LeafId, bData interface{}) {
		a, b := aData.(string), bData.(string)
		if a > b {
			a, b = b, a
		}
		pairs = append(pairs, pair{a, b})
	}))

	if len(pairs) != 1 || pairs[0] != (pair{"a", "b"}) {
		t.Fatalf("expected exactly the (a,b) overlapping pair, got %v", pairs)
	}
}

type pairVisitorFunc func(aID LeafId, aData interface{}, bID LeafId, bData interface{})

func (f pairVisitorFunc) VisitPair(aID LeafId, aData interface{}, bID LeafId, bData interface{}) {
	f(aID, aData, bID, bData)
}

func TestDBVTBestFirst(t *testing.T) {
	d := NewDBVT()
	d.Insert(box(0, 0, 0, 1, 1, 1), "near")
	d.Insert(box(100, 100, 100, 101, 101, 101), "far")

	target := geom.Point{}
	var order []string
	d.BestFirst(&nearestVisitor{target: target, each: func(s string) { order = append(order, s) }})

	if len(order) != 2 || order[0] != "near" || order[1] != "far" {
		t.Fatalf("expected near before far, got %v", order)
	}
}

type nearestVisitor struct {
	target geom.Point
	each   func(string)
}

func (v *nearestVisitor) Visit(bv.AABB) bool { return true }
func (v *nearestVisitor) VisitBVCost(bound bv.AABB) float64 {
	c := bound.Center().Sub(v.target)
	return c.Dot(c)
}
func (v *nearestVisitor) VisitData(id LeafId, data interface{}) { v.each(data.(string)) }
