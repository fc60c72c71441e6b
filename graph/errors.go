package graph

import (
	"fmt"
	"strings"

	"github.com/c360studio/semindex/ontology"
)

// CycleError reports that the graph is not a DAG. The whole solve aborts
// before the fold function runs; the caller must fix the input graph.
type CycleError struct {
	Cycle []ontology.NodeID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = string(id)
	}
	return fmt.Sprintf("graph contains a cycle: %s", strings.Join(parts, " -> "))
}

// MissingNodeDataError reports a graph node with no data in the context.
// It indicates graph/context desynchronization, a bug in the caller's
// graph construction; the whole solve aborts.
type MissingNodeDataError struct {
	ID ontology.NodeID
}

func (e *MissingNodeDataError) Error() string {
	return fmt.Sprintf("graph node %s has no data in the ontology context", e.ID)
}
