// Package constraint implements the property-constraint meet-semilattice:
// a bounded lattice over per-property constraints with Top (unconstrained)
// and Bottom (unsatisfiable) elements, a Meet operation that refines
// constraints under multiple inheritance, and a Refines partial order.
//
// All operations are scoped to a single property IRI; meeting constraints
// for different properties is a caller error surfaced as MeetError.
package constraint

import (
	"slices"
	"strings"
)

// Source records where a constraint was declared.
type Source string

const (
	// SourceDomain marks a constraint derived from a property's
	// rdfs:domain declaration.
	SourceDomain Source = "domain"

	// SourceRestriction marks a constraint materialized from an
	// owl:Restriction block.
	SourceRestriction Source = "restriction"

	// SourceRefined marks a constraint produced by a lattice meet.
	SourceRefined Source = "refined"
)

// PropertyConstraint is the lattice element: the full constraint a class
// places on one property. The zero cardinality window (Min 0, Max nil) is
// unbounded. Values are treated as immutable; operations return new values.
type PropertyConstraint struct {
	PropertyIRI    string   `json:"property_iri"`
	Label          string   `json:"label,omitempty"`
	Ranges         []string `json:"ranges,omitempty"`
	MinCardinality uint     `json:"min_cardinality,omitempty"`
	MaxCardinality *uint    `json:"max_cardinality,omitempty"`
	AllowedValues  []string `json:"allowed_values,omitempty"`
	Annotations    []string `json:"annotations,omitempty"`
	Source         Source   `json:"source,omitempty"`

	// Unsatisfiable marks the Bottom element. It is a meaningful value,
	// not an error: downstream layers surface it as a modeling
	// contradiction. Contradiction carries the reason.
	Unsatisfiable bool   `json:"unsatisfiable,omitempty"`
	Contradiction string `json:"contradiction,omitempty"`
}

// Top returns the unconstrained element for a property.
func Top(propertyIRI string) PropertyConstraint {
	return PropertyConstraint{PropertyIRI: propertyIRI}
}

// Bottom returns the unsatisfiable element for a property, tagged with the
// contradiction that produced it.
func Bottom(propertyIRI, contradiction string) PropertyConstraint {
	return PropertyConstraint{
		PropertyIRI:   propertyIRI,
		Source:        SourceRefined,
		Unsatisfiable: true,
		Contradiction: contradiction,
	}
}

// Card returns a pointer suitable for MaxCardinality.
func Card(n uint) *uint { return &n }

// IsTop reports whether the constraint places no restriction at all:
// empty ranges, zero minimum, unbounded maximum, no allowed values.
func (c PropertyConstraint) IsTop() bool {
	return !c.Unsatisfiable &&
		len(c.Ranges) == 0 &&
		c.MinCardinality == 0 &&
		c.MaxCardinality == nil &&
		len(c.AllowedValues) == 0 &&
		len(c.Annotations) == 0
}

// IsBottom reports whether the constraint is unsatisfiable.
func (c PropertyConstraint) IsBottom() bool { return c.Unsatisfiable }

// Normalize returns a copy with every set field in canonical form:
// sorted ascending with duplicates removed.
func (c PropertyConstraint) Normalize() PropertyConstraint {
	c.Ranges = canonical(c.Ranges)
	c.AllowedValues = canonical(c.AllowedValues)
	c.Annotations = canonical(c.Annotations)
	if c.MaxCardinality != nil {
		m := *c.MaxCardinality
		c.MaxCardinality = &m
	}
	return c
}

// Rekey returns a copy of the constraint carried over to another property
// IRI. Used when constraints declared on a property-hierarchy ancestor are
// folded into a subproperty's group.
func (c PropertyConstraint) Rekey(propertyIRI string) PropertyConstraint {
	c.PropertyIRI = propertyIRI
	return c
}

// Equal reports full structural equality. Both sides are compared in
// canonical form.
func (c PropertyConstraint) Equal(other PropertyConstraint) bool {
	a, b := c.Normalize(), other.Normalize()
	return a.PropertyIRI == b.PropertyIRI &&
		a.Label == b.Label &&
		a.Source == b.Source &&
		a.Contradiction == b.Contradiction &&
		a.equivalentFields(b)
}

// EquivalentTo reports semantic equality: everything except Label, Source,
// and the contradiction message. Two constraints that are EquivalentTo each
// other admit exactly the same values.
func (c PropertyConstraint) EquivalentTo(other PropertyConstraint) bool {
	a, b := c.Normalize(), other.Normalize()
	return a.PropertyIRI == b.PropertyIRI && a.equivalentFields(b)
}

func (c PropertyConstraint) equivalentFields(o PropertyConstraint) bool {
	if c.Unsatisfiable != o.Unsatisfiable {
		return false
	}
	if c.Unsatisfiable {
		return true
	}
	if c.MinCardinality != o.MinCardinality {
		return false
	}
	if (c.MaxCardinality == nil) != (o.MaxCardinality == nil) {
		return false
	}
	if c.MaxCardinality != nil && *c.MaxCardinality != *o.MaxCardinality {
		return false
	}
	return slices.Equal(c.Ranges, o.Ranges) &&
		slices.Equal(c.AllowedValues, o.AllowedValues) &&
		slices.Equal(c.Annotations, o.Annotations)
}

// String renders a compact human-readable form, used in logs and
// contradiction messages.
func (c PropertyConstraint) String() string {
	var sb strings.Builder
	sb.WriteString(c.PropertyIRI)
	if c.Unsatisfiable {
		sb.WriteString(" [unsatisfiable: ")
		sb.WriteString(c.Contradiction)
		sb.WriteString("]")
		return sb.String()
	}
	if len(c.Ranges) > 0 {
		sb.WriteString(" ranges=")
		sb.WriteString(strings.Join(c.Ranges, "|"))
	}
	if c.MinCardinality > 0 {
		sb.WriteString(" min=")
		sb.WriteString(uitoa(c.MinCardinality))
	}
	if c.MaxCardinality != nil {
		sb.WriteString(" max=")
		sb.WriteString(uitoa(*c.MaxCardinality))
	}
	if len(c.AllowedValues) > 0 {
		sb.WriteString(" oneOf=")
		sb.WriteString(strings.Join(c.AllowedValues, "|"))
	}
	return sb.String()
}

func uitoa(n uint) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// canonical returns a sorted, deduplicated copy of a string set.
func canonical(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}

// union returns the canonical union of two string sets.
func union(a, b []string) []string {
	return canonical(append(slices.Clone(a), b...))
}

// intersection returns the canonical intersection of two string sets.
func intersection(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	in := make(map[string]bool, len(b))
	for _, v := range b {
		in[v] = true
	}
	var out []string
	for _, v := range a {
		if in[v] {
			out = append(out, v)
		}
	}
	return canonical(out)
}

// subset reports whether every element of a is in b.
func subset(a, b []string) bool {
	in := make(map[string]bool, len(b))
	for _, v := range b {
		in[v] = true
	}
	for _, v := range a {
		if !in[v] {
			return false
		}
	}
	return true
}
