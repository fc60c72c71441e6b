// Package render turns knowledge indexes into LLM-facing artifacts: a
// deterministic markdown context document and per-class JSON Schemas.
// Output depends only on index content, so identical indexes render to
// identical bytes.
package render

import (
	"fmt"
	"strings"

	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/index"
)

// Renderer converts an index to prompt markdown.
type Renderer struct {
	// Heading is the H1 title of the document.
	Heading string
}

// NewRenderer creates a renderer with the default heading.
func NewRenderer() *Renderer {
	return &Renderer{Heading: "Ontology Context"}
}

// Markdown renders every unit as a section, sorted by IRI.
func (r *Renderer) Markdown(idx *index.Index) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(r.Heading)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%d classes.\n\n", idx.Len())

	for _, id := range idx.Keys() {
		unit, _ := idx.Get(id)
		r.writeUnit(&sb, unit)
	}
	return sb.String()
}

func (r *Renderer) writeUnit(sb *strings.Builder, unit index.Unit) {
	sb.WriteString("## ")
	sb.WriteString(DisplayName(unit))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "IRI: `%s`\n\n", unit.IRI)
	if unit.Definition != "" {
		sb.WriteString(unit.Definition)
		sb.WriteString("\n\n")
	}
	if len(unit.Parents) > 0 {
		names := make([]string, len(unit.Parents))
		for i, p := range unit.Parents {
			names[i] = localName(string(p))
		}
		fmt.Fprintf(sb, "Subclass of: %s\n\n", strings.Join(names, ", "))
	}

	if len(unit.Properties) == 0 && len(unit.Inherited) == 0 {
		return
	}
	sb.WriteString("### Properties\n\n")
	for _, pc := range unit.Properties {
		r.writeConstraint(sb, pc, "own")
	}
	for _, pc := range unit.Inherited {
		r.writeConstraint(sb, pc, "inherited")
	}
	sb.WriteString("\n")
}

func (r *Renderer) writeConstraint(sb *strings.Builder, pc constraint.PropertyConstraint, origin string) {
	name := pc.Label
	if name == "" {
		name = localName(pc.PropertyIRI)
	}
	if pc.IsBottom() {
		fmt.Fprintf(sb, "- **%s** (%s): UNSATISFIABLE", name, origin)
		if pc.Contradiction != "" {
			fmt.Fprintf(sb, " (%s)", pc.Contradiction)
		}
		sb.WriteString("\n")
		return
	}
	fmt.Fprintf(sb, "- **%s** (%s): %s\n", name, origin, DescribeConstraint(pc))
}

// DescribeConstraint phrases a constraint in prose: cardinality window,
// range, and allowed values.
func DescribeConstraint(pc constraint.PropertyConstraint) string {
	var parts []string

	switch {
	case pc.MaxCardinality != nil && pc.MinCardinality == *pc.MaxCardinality:
		parts = append(parts, fmt.Sprintf("exactly %d", pc.MinCardinality))
	case pc.MaxCardinality != nil && pc.MinCardinality > 0:
		parts = append(parts, fmt.Sprintf("between %d and %d", pc.MinCardinality, *pc.MaxCardinality))
	case pc.MaxCardinality != nil:
		parts = append(parts, fmt.Sprintf("at most %d", *pc.MaxCardinality))
	case pc.MinCardinality > 0:
		parts = append(parts, fmt.Sprintf("at least %d", pc.MinCardinality))
	default:
		parts = append(parts, "any number of")
	}
	parts = append(parts, plural("value", pc))

	if len(pc.Ranges) > 0 {
		names := make([]string, len(pc.Ranges))
		for i, rng := range pc.Ranges {
			names[i] = localName(rng)
		}
		parts = append(parts, "of type "+strings.Join(names, " and "))
	}
	if len(pc.AllowedValues) > 0 {
		parts = append(parts, "from {"+strings.Join(pc.AllowedValues, ", ")+"}")
	}
	return strings.Join(parts, " ")
}

func plural(word string, pc constraint.PropertyConstraint) string {
	if pc.MaxCardinality != nil && *pc.MaxCardinality == 1 && pc.MinCardinality <= 1 {
		return word
	}
	return word + "s"
}

// DisplayName prefers the label, falling back to the IRI local name.
func DisplayName(unit index.Unit) string {
	if unit.Label != "" {
		return unit.Label
	}
	return localName(string(unit.IRI))
}

// localName strips the namespace from an IRI: everything up to the last
// '#' or '/'.
func localName(iri string) string {
	for i := len(iri) - 1; i >= 0; i-- {
		if iri[i] == '#' || iri[i] == '/' {
			return iri[i+1:]
		}
	}
	return iri
}
