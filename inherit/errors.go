package inherit

import "fmt"

// InheritanceError reports a class or property reference that cannot be
// resolved. It aborts only the offending computation; callers may skip the
// class instead of aborting a whole enrichment.
type InheritanceError struct {
	IRI    string
	Reason string
}

func (e *InheritanceError) Error() string {
	return fmt.Sprintf("inheritance resolution failed for %s: %s", e.IRI, e.Reason)
}

// CircularInheritanceError reports a property hierarchy in which a property
// transitively lists itself as its own parent, so its effective constraints
// cannot be resolved deterministically. This is distinct from the tolerated
// class-hierarchy cycle case, which traversals simply guard against.
type CircularInheritanceError struct {
	IRI string
}

func (e *CircularInheritanceError) Error() string {
	return fmt.Sprintf("property %s is transitively its own parent", e.IRI)
}
