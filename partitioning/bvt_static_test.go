package partitioning

import "testing"

func TestBuildEmpty(t *testing.T) {
	bvt := Build(nil)
	if bvt.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", bvt.Count())
	}
}

func TestBuildQuery(t *testing.T) {
	leaves := []Leaf{
		{Bound: box(0, 0, 0, 1, 1, 1), Data: "a"},
		{Bound: box(2, 0, 0, 3, 1, 1), Data: "b"},
		{Bound: box(0, 2, 0, 1, 3, 1), Data: "c"},
		{Bound: box(2, 2, 0, 3, 3, 1), Data: "d"},
	}
	bvt := Build(leaves)
	if bvt.Count() != 4 {
		t.Fatalf("Count() = %d, want 4", bvt.Count())
	}

	var hits []string
	AABBQuery(bvt, box(-1, -1, -1, 1.5, 1.5, 1.5), func(_ LeafId, data interface{}) {
		hits = append(hits, data.(string))
	})
	if len(hits) != 1 || hits[0] != "a" {
		t.Fatalf("expected only leaf a, got %v", hits)
	}
}

func TestBuildSelfPairs(t *testing.T) {
	leaves := []Leaf{
		{Bound: box(0, 0, 0, 1, 1, 1), Data: "a"},
		{Bound: box(0.5, 0, 0, 1.5, 1, 1), Data: "b"},
		{Bound: box(10, 10, 10, 11, 11, 11), Data: "c"},
	}
	bvt := Build(leaves)

	count := 0
	bvt.SelfPairs(pairVisitorFunc(func(_ LeafId, _ interface{}, _ LeafId, _ interface{}) {
		count++
	}))
	if count != 1 {
		t.Fatalf("expected exactly 1 overlapping pair, got %d", count)
	}
}
