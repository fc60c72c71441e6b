// Package export serializes a knowledge index back to RDF so resolved
// ontologies can be fed to downstream triple stores or diffed against their
// sources. Constraints are expressed as owl:Restriction blocks; Turtle
// output parses back with the bundled parser.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/index"
	"github.com/c360studio/semindex/vocabulary"
)

// Exporter serializes indexes with a configurable prefix table.
type Exporter struct {
	prefixes map[string]string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPrefix adds a namespace prefix used for IRI compaction in Turtle and
// JSON-LD output.
func WithPrefix(prefix, namespace string) Option {
	return func(e *Exporter) { e.prefixes[prefix] = namespace }
}

// New creates an exporter seeded with the standard prefixes.
func New(opts ...Option) *Exporter {
	e := &Exporter{prefixes: vocabulary.StandardPrefixes()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export serializes the index in the requested format. Units are emitted in
// sorted IRI order, so output is deterministic.
func (e *Exporter) Export(idx *index.Index, format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(idx), nil
	case FormatNTriples:
		return e.toNTriples(idx), nil
	case FormatJSONLD:
		return e.toJSONLD(idx)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (e *Exporter) sortedPrefixes() []string {
	keys := make([]string, 0, len(e.prefixes))
	for k := range e.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// compact shortens an IRI to prefix:local when a declared namespace matches
// and the local part is a safe prefixed name. Longest namespace wins.
func (e *Exporter) compact(iri string) string {
	best, bestNS := "", ""
	for prefix, ns := range e.prefixes {
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) && isLocalName(iri[len(ns):]) {
			best, bestNS = prefix, ns
		}
	}
	if best == "" {
		return "<" + iri + ">"
	}
	return best + ":" + iri[len(bestNS):]
}

func isLocalName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

func (e *Exporter) toTurtle(idx *index.Index) string {
	var sb strings.Builder

	for _, prefix := range e.sortedPrefixes() {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", prefix, e.prefixes[prefix])
	}
	sb.WriteString("\n")

	for _, id := range idx.Keys() {
		unit, _ := idx.Get(id)
		e.writeUnitTurtle(&sb, unit)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (e *Exporter) writeUnitTurtle(sb *strings.Builder, unit index.Unit) {
	var lines []string
	lines = append(lines, "a "+e.compact(vocabulary.OWLClass))
	if unit.Label != "" {
		lines = append(lines, "rdfs:label "+literal(unit.Label))
	}
	if unit.Definition != "" {
		lines = append(lines, "rdfs:comment "+literal(unit.Definition))
	}
	for _, parent := range unit.Parents {
		lines = append(lines, "rdfs:subClassOf "+e.compact(string(parent)))
	}
	for _, pc := range unit.Properties {
		lines = append(lines, "rdfs:subClassOf [\n"+e.restrictionTurtle(pc)+"\n    ]")
	}

	fmt.Fprintf(sb, "%s", e.compact(string(unit.IRI)))
	for i, line := range lines {
		sep := " ;"
		if i == len(lines)-1 {
			sep = " ."
		}
		if i == 0 {
			fmt.Fprintf(sb, " %s%s\n", line, sep)
		} else {
			fmt.Fprintf(sb, "    %s%s\n", line, sep)
		}
	}
}

func (e *Exporter) restrictionTurtle(pc constraint.PropertyConstraint) string {
	facets := []string{
		"a " + e.compact(vocabulary.OWLRestriction),
		"owl:onProperty " + e.compact(pc.PropertyIRI),
	}
	// An unsatisfiable constraint admits no instances at all.
	if pc.IsBottom() {
		facets = append(facets, "owl:allValuesFrom "+e.compact(vocabulary.OWLNothing))
	} else {
		if pc.MinCardinality > 0 {
			facets = append(facets, "owl:minCardinality "+strconv.FormatUint(uint64(pc.MinCardinality), 10))
		}
		if pc.MaxCardinality != nil {
			facets = append(facets, "owl:maxCardinality "+strconv.FormatUint(uint64(*pc.MaxCardinality), 10))
		}
		for _, rng := range pc.Ranges {
			facets = append(facets, "owl:allValuesFrom "+e.compact(rng))
		}
		if len(pc.AllowedValues) > 0 {
			quoted := make([]string, len(pc.AllowedValues))
			for i, v := range pc.AllowedValues {
				quoted[i] = literal(v)
			}
			facets = append(facets, "owl:oneOf ( "+strings.Join(quoted, " ")+" )")
		}
	}
	for i := range facets {
		facets[i] = "        " + facets[i]
	}
	return strings.Join(facets, " ;\n")
}

func (e *Exporter) toNTriples(idx *index.Index) string {
	var sb strings.Builder
	blanks := 0
	nextBlank := func() string {
		b := fmt.Sprintf("_:b%d", blanks)
		blanks++
		return b
	}
	triple := func(s, p, o string) {
		fmt.Fprintf(&sb, "%s %s %s .\n", s, p, o)
	}
	ref := func(iri string) string { return "<" + iri + ">" }

	for _, id := range idx.Keys() {
		unit, _ := idx.Get(id)
		subj := ref(string(unit.IRI))

		triple(subj, ref(vocabulary.RDFType), ref(vocabulary.OWLClass))
		if unit.Label != "" {
			triple(subj, ref(vocabulary.RDFSLabel), literal(unit.Label))
		}
		if unit.Definition != "" {
			triple(subj, ref(vocabulary.RDFSComment), literal(unit.Definition))
		}
		for _, parent := range unit.Parents {
			triple(subj, ref(vocabulary.RDFSSubClassOf), ref(string(parent)))
		}

		for _, pc := range unit.Properties {
			r := nextBlank()
			triple(subj, ref(vocabulary.RDFSSubClassOf), r)
			triple(r, ref(vocabulary.RDFType), ref(vocabulary.OWLRestriction))
			triple(r, ref(vocabulary.OWLOnProperty), ref(pc.PropertyIRI))
			if pc.IsBottom() {
				triple(r, ref(vocabulary.OWLAllValuesFrom), ref(vocabulary.OWLNothing))
				continue
			}
			if pc.MinCardinality > 0 {
				triple(r, ref(vocabulary.OWLMinCardinality), integerLiteral(pc.MinCardinality))
			}
			if pc.MaxCardinality != nil {
				triple(r, ref(vocabulary.OWLMaxCardinality), integerLiteral(*pc.MaxCardinality))
			}
			for _, rng := range pc.Ranges {
				triple(r, ref(vocabulary.OWLAllValuesFrom), ref(rng))
			}
			if len(pc.AllowedValues) > 0 {
				// RDF collection cells for owl:oneOf.
				cell := nextBlank()
				triple(r, ref(vocabulary.OWLOneOf), cell)
				for i, v := range pc.AllowedValues {
					triple(cell, ref(vocabulary.RDFFirst), literal(v))
					if i == len(pc.AllowedValues)-1 {
						triple(cell, ref(vocabulary.RDFRest), ref(vocabulary.RDFNil))
					} else {
						next := nextBlank()
						triple(cell, ref(vocabulary.RDFRest), next)
						cell = next
					}
				}
			}
		}
	}
	return sb.String()
}

// jsonldNode is one @graph entry. Property keys are merged in at marshal
// time.
type jsonldNode struct {
	ID         string
	Types      []string
	Properties map[string]any
}

func (n jsonldNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Types) > 0 {
		m["@type"] = n.Types
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

func (e *Exporter) toJSONLD(idx *index.Index) (string, error) {
	context := make(map[string]any, len(e.prefixes))
	for prefix, ns := range e.prefixes {
		context[prefix] = ns
	}

	graph := make([]jsonldNode, 0, idx.Len())
	for _, id := range idx.Keys() {
		unit, _ := idx.Get(id)
		props := make(map[string]any)
		if unit.Label != "" {
			props["rdfs:label"] = unit.Label
		}
		if unit.Definition != "" {
			props["rdfs:comment"] = unit.Definition
		}

		var parents []any
		for _, parent := range unit.Parents {
			parents = append(parents, map[string]any{"@id": string(parent)})
		}
		for _, pc := range unit.Properties {
			parents = append(parents, e.restrictionJSONLD(pc))
		}
		if len(parents) > 0 {
			props["rdfs:subClassOf"] = parents
		}

		graph = append(graph, jsonldNode{
			ID:         string(unit.IRI),
			Types:      []string{"owl:Class"},
			Properties: props,
		})
	}

	doc := map[string]any{
		"@context": context,
		"@graph":   graph,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal JSON-LD: %w", err)
	}
	return string(data), nil
}

func (e *Exporter) restrictionJSONLD(pc constraint.PropertyConstraint) map[string]any {
	r := map[string]any{
		"@type":          "owl:Restriction",
		"owl:onProperty": map[string]any{"@id": pc.PropertyIRI},
	}
	if pc.IsBottom() {
		r["owl:allValuesFrom"] = map[string]any{"@id": vocabulary.OWLNothing}
		return r
	}
	if pc.MinCardinality > 0 {
		r["owl:minCardinality"] = pc.MinCardinality
	}
	if pc.MaxCardinality != nil {
		r["owl:maxCardinality"] = *pc.MaxCardinality
	}
	if len(pc.Ranges) == 1 {
		r["owl:allValuesFrom"] = map[string]any{"@id": pc.Ranges[0]}
	} else if len(pc.Ranges) > 1 {
		refs := make([]any, len(pc.Ranges))
		for i, rng := range pc.Ranges {
			refs[i] = map[string]any{"@id": rng}
		}
		r["owl:allValuesFrom"] = refs
	}
	if len(pc.AllowedValues) > 0 {
		r["owl:oneOf"] = map[string]any{"@list": pc.AllowedValues}
	}
	return r
}

func literal(s string) string {
	return `"` + escapeString(s) + `"`
}

func integerLiteral(n uint) string {
	return fmt.Sprintf("\"%d\"^^<%s>", n, vocabulary.XSDInteger)
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
