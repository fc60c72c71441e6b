package graph

import (
	"fmt"

	"github.com/c360studio/semindex/ontology"
)

// Algebra combines a node's data with the already-computed results of its
// direct children into the node's own result. Sibling results arrive in an
// unspecified order, so an algebra must not depend on it.
type Algebra[R any] func(node ontology.Node, children []R) (R, error)

// Solve folds the algebra over the graph in dependency-first order: every
// node is processed after all of its children, with their results
// accumulated once per incoming edge. The fold visits every node, including
// isolated ones and disconnected components, in O(V+E).
//
// Solve returns no partial results: a cycle (CycleError), a node without
// context data (MissingNodeDataError), or an algebra error aborts the whole
// run. CycleError is detected before the algebra runs at all.
func Solve[R any](g *Directed, octx *ontology.Context, algebra Algebra[R]) (map[ontology.NodeID]R, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	pending := make(map[ontology.NodeID][]R)
	results := make(map[ontology.NodeID]R, len(order))

	for _, id := range order {
		node, ok := octx.Node(id)
		if !ok {
			return nil, &MissingNodeDataError{ID: id}
		}

		result, err := algebra(node, pending[id])
		if err != nil {
			return nil, fmt.Errorf("fold %s: %w", id, err)
		}
		results[id] = result
		delete(pending, id)

		for _, parent := range g.From(id) {
			pending[parent] = append(pending[parent], result)
		}
	}
	return results, nil
}
