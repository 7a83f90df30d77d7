package shape

// FeatureKind tags which kind of geometric feature a FeatureId names.
type FeatureKind uint8

const (
	// FeatureUnknown is the degenerate-input sentinel spec.md §7/§9 requires:
	// detectors that cannot determine a feature return this instead of panicking
	// or propagating NaNs.
	FeatureUnknown FeatureKind = iota
	FeatureVertex
	FeatureEdge
	FeatureFace
)

// FeatureId is the tagged index identifying a vertex/edge/face of a shape, per the
// GLOSSARY. It is a value type so it can be used as a map key (contact tracking) and
// compared for equality (feature-based manifold matching).
type FeatureId struct {
	Kind  FeatureKind
	Index uint32
}

// Vertex builds a vertex feature id.
func Vertex(i uint32) FeatureId { return FeatureId{Kind: FeatureVertex, Index: i} }

// Edge builds an edge feature id.
func Edge(i uint32) FeatureId { return FeatureId{Kind: FeatureEdge, Index: i} }

// Face builds a face feature id.
func Face(i uint32) FeatureId { return FeatureId{Kind: FeatureFace, Index: i} }

// Unknown is the sentinel "no information" feature id.
func Unknown() FeatureId { return FeatureId{Kind: FeatureUnknown} }
