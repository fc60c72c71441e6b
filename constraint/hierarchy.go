package constraint

// Disjointness is the result of a pairwise class disjointness query.
type Disjointness string

const (
	// Disjoint means the two classes provably share no instances.
	Disjoint Disjointness = "disjoint"

	// Overlapping means the two classes provably share instances
	// (same class, or one subsumes the other).
	Overlapping Disjointness = "overlapping"

	// Unknown means disjointness cannot be established either way.
	// Treated conservatively as "not provably disjoint".
	Unknown Disjointness = "unknown"
)

// Hierarchy supplies the class reasoning Meet and Refines need: range
// subsumption and pairwise disjointness. The inheritance service is the
// production implementation; tests may use FlatHierarchy.
type Hierarchy interface {
	// IsSubclassOf reports whether child is the same class as parent or a
	// transitive subclass of it.
	IsSubclassOf(child, parent string) bool

	// Disjointness classifies a pair of class IRIs.
	Disjointness(a, b string) Disjointness
}

// FlatHierarchy treats every pair of distinct classes as unrelated and
// not provably disjoint.
type FlatHierarchy struct{}

// IsSubclassOf reports subclass only for identical IRIs.
func (FlatHierarchy) IsSubclassOf(child, parent string) bool { return child == parent }

// Disjointness reports Overlapping for identical IRIs and Unknown otherwise.
func (FlatHierarchy) Disjointness(a, b string) Disjointness {
	if a == b {
		return Overlapping
	}
	return Unknown
}
