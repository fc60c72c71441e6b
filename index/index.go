// Package index provides the knowledge index: an immutable map from class
// IRI to its knowledge unit, a merge operation forming a monoid over
// indices, the solver algebra that assembles an index from a class
// hierarchy, and the concurrent enrichment pass that fills in inherited
// properties.
package index

import (
	"slices"

	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/ontology"
)

// Unit is the resolved knowledge about one class. Properties holds the
// constraints declared on the class itself; Inherited holds the computed
// constraints contributed by ancestors, never sharing a property IRI with
// Properties. Children lists direct subclasses only.
type Unit struct {
	IRI        ontology.NodeID                 `json:"iri"`
	Label      string                          `json:"label,omitempty"`
	Definition string                          `json:"definition,omitempty"`
	Properties []constraint.PropertyConstraint `json:"properties,omitempty"`
	Inherited  []constraint.PropertyConstraint `json:"inherited_properties,omitempty"`
	Children   []ontology.NodeID               `json:"children,omitempty"`
	Parents    []ontology.NodeID               `json:"parents,omitempty"`
}

// Index is an immutable map from class IRI to knowledge unit. Consumers
// must treat returned units and their slices as read-only.
type Index struct {
	units map[ontology.NodeID]Unit
}

// New creates an empty index.
func New() *Index {
	return &Index{units: make(map[ontology.NodeID]Unit)}
}

// FromUnit creates an index holding a single unit.
func FromUnit(u Unit) *Index {
	return &Index{units: map[ontology.NodeID]Unit{u.IRI: normalizeUnit(u)}}
}

// FromUnits creates an index from several units, merging duplicates.
func FromUnits(units ...Unit) *Index {
	out := New()
	for _, u := range units {
		u = normalizeUnit(u)
		if existing, ok := out.units[u.IRI]; ok {
			u = mergeUnits(existing, u)
		}
		out.units[u.IRI] = u
	}
	return out
}

// Get returns the unit for an IRI.
func (x *Index) Get(id ontology.NodeID) (Unit, bool) {
	u, ok := x.units[id]
	return u, ok
}

// Has reports whether the index contains the IRI.
func (x *Index) Has(id ontology.NodeID) bool {
	_, ok := x.units[id]
	return ok
}

// Len returns the number of units.
func (x *Index) Len() int { return len(x.units) }

// Keys returns all IRIs sorted ascending.
func (x *Index) Keys() []ontology.NodeID {
	keys := make([]ontology.NodeID, 0, len(x.units))
	for id := range x.units {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}

// Values returns all units sorted ascending by IRI.
func (x *Index) Values() []Unit {
	values := make([]Unit, 0, len(x.units))
	for _, id := range x.Keys() {
		values = append(values, x.units[id])
	}
	return values
}

// Combine merges two indices: the union of their keys, with units present
// in both merged field-wise. It is associative, commutative with respect
// to the key set produced, and idempotent on keys. Nil operands act as the
// empty index.
func Combine(a, b *Index) *Index {
	out := New()
	if a != nil {
		for id, u := range a.units {
			out.units[id] = u
		}
	}
	if b != nil {
		for id, u := range b.units {
			if existing, ok := out.units[id]; ok {
				out.units[id] = mergeUnits(existing, u)
			} else {
				out.units[id] = u
			}
		}
	}
	return out
}

// mergeUnits merges two units for the same IRI: children and parents as set
// unions, own properties deduplicated by property IRI. Label and definition
// follow a fixed rule — the left operand wins when non-empty — which keeps
// the merge associative.
func mergeUnits(left, right Unit) Unit {
	out := Unit{
		IRI:        left.IRI,
		Label:      left.Label,
		Definition: left.Definition,
	}
	if out.Label == "" {
		out.Label = right.Label
	}
	if out.Definition == "" {
		out.Definition = right.Definition
	}
	out.Properties = dedupeByIRI(append(slices.Clone(left.Properties), right.Properties...))
	out.Inherited = dedupeByIRI(append(slices.Clone(left.Inherited), right.Inherited...))
	out.Children = unionIDs(left.Children, right.Children)
	out.Parents = unionIDs(left.Parents, right.Parents)
	return out
}

func normalizeUnit(u Unit) Unit {
	u.Properties = dedupeByIRI(u.Properties)
	u.Inherited = dedupeByIRI(u.Inherited)
	u.Children = unionIDs(u.Children, nil)
	u.Parents = unionIDs(u.Parents, nil)
	return u
}

// dedupeByIRI keeps the first constraint per property IRI, sorted ascending.
func dedupeByIRI(pcs []constraint.PropertyConstraint) []constraint.PropertyConstraint {
	if len(pcs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(pcs))
	out := make([]constraint.PropertyConstraint, 0, len(pcs))
	for _, pc := range pcs {
		if seen[pc.PropertyIRI] {
			continue
		}
		seen[pc.PropertyIRI] = true
		out = append(out, pc)
	}
	slices.SortFunc(out, func(a, b constraint.PropertyConstraint) int {
		switch {
		case a.PropertyIRI < b.PropertyIRI:
			return -1
		case a.PropertyIRI > b.PropertyIRI:
			return 1
		default:
			return 0
		}
	})
	return out
}

func unionIDs(a, b []ontology.NodeID) []ontology.NodeID {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := append(slices.Clone(a), b...)
	slices.Sort(out)
	return slices.Compact(out)
}
