// Package graph provides the directed class-hierarchy graph and the
// topological fold that reduces it. Nodes are stored in an arena with
// integer-handle adjacency, so cyclic inputs are representable and
// traversals guard themselves with explicit state instead of relying on
// acyclicity.
package graph

import (
	"slices"

	"github.com/c360studio/semindex/ontology"
)

// Directed is a directed graph over node IDs. An edge u→v means "u is a
// subclass of v" (child to parent). Parallel edges collapse: adding an
// existing edge is a no-op.
type Directed struct {
	ids   []ontology.NodeID
	index map[ontology.NodeID]int
	out   [][]int
	in    [][]int
	edges int
}

// New creates an empty graph.
func New() *Directed {
	return &Directed{index: make(map[ontology.NodeID]int)}
}

// AddNode registers a node. Idempotent.
func (g *Directed) AddNode(id ontology.NodeID) {
	g.handle(id)
}

func (g *Directed) handle(id ontology.NodeID) int {
	if h, ok := g.index[id]; ok {
		return h
	}
	h := len(g.ids)
	g.index[id] = h
	g.ids = append(g.ids, id)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return h
}

// AddEdge adds the directed edge from→to, registering both endpoints.
// Duplicate edges are ignored.
func (g *Directed) AddEdge(from, to ontology.NodeID) {
	f, t := g.handle(from), g.handle(to)
	if slices.Contains(g.out[f], t) {
		return
	}
	g.out[f] = append(g.out[f], t)
	g.in[t] = append(g.in[t], f)
	g.edges++
}

// Contains reports whether the node is in the graph.
func (g *Directed) Contains(id ontology.NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns all node IDs in insertion order.
func (g *Directed) Nodes() []ontology.NodeID {
	return slices.Clone(g.ids)
}

// From returns the targets of the node's outgoing edges (its parents).
func (g *Directed) From(id ontology.NodeID) []ontology.NodeID {
	h, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.resolve(g.out[h])
}

// To returns the sources of the node's incoming edges (its direct children).
func (g *Directed) To(id ontology.NodeID) []ontology.NodeID {
	h, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.resolve(g.in[h])
}

func (g *Directed) resolve(handles []int) []ontology.NodeID {
	if len(handles) == 0 {
		return nil
	}
	out := make([]ontology.NodeID, len(handles))
	for i, h := range handles {
		out[i] = g.ids[h]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Directed) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of distinct edges.
func (g *Directed) EdgeCount() int { return g.edges }

// Traversal colors for cycle-detecting DFS.
const (
	white = iota // unvisited
	gray         // on the current DFS path
	black        // finished
)

// TopologicalOrder returns a dependency-first order: every node appears
// before all nodes reachable from it by outgoing edges. Disconnected
// components are handled by starting a traversal from every node. A cycle
// yields a CycleError naming the nodes on the offending path.
func (g *Directed) TopologicalOrder() ([]ontology.NodeID, error) {
	state := make([]int, len(g.ids))
	post := make([]int, 0, len(g.ids))

	// Iterative DFS: a frame is re-examined after its targets finish so
	// post-order positions are recorded without recursion.
	for start := range g.ids {
		if state[start] != white {
			continue
		}
		stack := []dfsFrame{{node: start}}
		state[start] = gray
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next < len(g.out[f.node]) {
				target := g.out[f.node][f.next]
				f.next++
				switch state[target] {
				case white:
					state[target] = gray
					stack = append(stack, dfsFrame{node: target})
				case gray:
					return nil, g.cycleError(stack, target)
				}
				continue
			}
			state[f.node] = black
			post = append(post, f.node)
			stack = stack[:len(stack)-1]
		}
	}

	order := make([]ontology.NodeID, len(post))
	for i, h := range post {
		order[len(post)-1-i] = g.ids[h]
	}
	return order, nil
}

type dfsFrame struct {
	node int
	next int
}

// cycleError reconstructs the cycle from the DFS stack suffix starting at
// the revisited node.
func (g *Directed) cycleError(stack []dfsFrame, target int) *CycleError {
	var cycle []ontology.NodeID
	collecting := false
	for _, f := range stack {
		if f.node == target {
			collecting = true
		}
		if collecting {
			cycle = append(cycle, g.ids[f.node])
		}
	}
	cycle = append(cycle, g.ids[target])
	return &CycleError{Cycle: cycle}
}
