package index

import (
	"github.com/c360studio/semindex/graph"
	"github.com/c360studio/semindex/ontology"
)

// BuildAlgebra returns the solver algebra that assembles a knowledge index
// over a class hierarchy. Each class node contributes a unit whose children
// are its direct subclasses from graph adjacency (not the transitive
// descendant set accumulated in child sub-indices) and whose inherited
// properties are left empty for the enrichment pass. Non-class nodes
// contribute nothing beyond their merged child results.
func BuildAlgebra(g *graph.Directed) graph.Algebra[*Index] {
	return func(node ontology.Node, children []*Index) (*Index, error) {
		merged := New()
		for _, child := range children {
			merged = Combine(merged, child)
		}
		if !node.IsClass() {
			return merged, nil
		}
		unit := Unit{
			IRI:        node.ID,
			Label:      node.Label,
			Definition: node.Comment,
			Properties: node.Properties,
			Children:   g.To(node.ID),
			Parents:    g.From(node.ID),
		}
		return Combine(FromUnit(unit), merged), nil
	}
}

// Build runs the solver over the whole hierarchy and combines the
// per-root results into one index covering every node. Roots are the nodes
// with no outgoing edges; every other node's index has been absorbed into
// some root's.
func Build(g *graph.Directed, octx *ontology.Context) (*Index, error) {
	results, err := graph.Solve(g, octx, BuildAlgebra(g))
	if err != nil {
		return nil, err
	}
	out := New()
	for _, id := range g.Nodes() {
		if len(g.From(id)) == 0 {
			out = Combine(out, results[id])
		}
	}
	return out, nil
}
