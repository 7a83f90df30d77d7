package collide

import "github.com/ridgeline-phys/collide/geom"

// QueryKind picks which arm of a CollisionObject's query type is live:
// a contact query (manifold tracking, with prediction) or a proximity query
// (three-state Disjoint/WithinMargin/Intersecting, with a fixed margin).
// spec.md §3: "query type (contacts with prediction, or proximity with
// margin)".
type QueryKind uint8

const (
	QueryContacts QueryKind = iota
	QueryProximity
)

// QueryType is the tagged union spec.md §3 describes. Linear and Angular
// only apply to QueryContacts; Margin only applies to QueryProximity.
type QueryType struct {
	Kind    QueryKind
	Linear  geom.N
	Angular geom.N
	Margin  geom.N
}

// Contacts builds a contact query type with the given linear and angular
// prediction (spec.md §3/§4.7: "prediction `(l₁+l₂, a₁, a₂)`" is the sum of
// two objects' linear predictions and the pair of their angular ones).
func Contacts(linear, angular geom.N) QueryType {
	return QueryType{Kind: QueryContacts, Linear: linear, Angular: angular}
}

// Proximity builds a proximity query type with the given margin.
func Proximity(margin geom.N) QueryType {
	return QueryType{Kind: QueryProximity, Margin: margin}
}

// combinedPrediction implements spec.md §3's mixing rule: two Contacts query
// types sum their linear predictions (angular is carried per-object, not
// combined, since EPA/manifold tracking here only consumes a scalar linear
// prediction); any other combination (Contacts+Proximity, Proximity+
// Proximity) "falls through to proximity only" and reports the larger of the
// two margins as the effective proximity margin.
func combinedPrediction(a, b QueryType) (linear geom.N, isContact bool, margin geom.N) {
	if a.Kind == QueryContacts && b.Kind == QueryContacts {
		return a.Linear + b.Linear, true, 0
	}
	m := a.Margin
	if b.Kind == QueryProximity && b.Margin > m {
		m = b.Margin
	}
	return 0, false, m
}
