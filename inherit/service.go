// Package inherit implements the inheritance resolution service: memoized
// ancestor/descendant closure, subclass and disjointness queries, and
// effective-property resolution across class and property hierarchies.
//
// A Service is constructed once per (graph, context) pair and owns a
// private memoization cache with the same lifetime. Every computation is a
// pure function of the immutable inputs, so concurrent lookups are safe:
// two goroutines racing on an uncached IRI may redundantly recompute, and
// the last writer wins with an identical value.
package inherit

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/graph"
	"github.com/c360studio/semindex/metrics"
	"github.com/c360studio/semindex/ontology"
)

// Service resolves inheritance queries over one ontology.
type Service struct {
	g      *graph.Directed
	octx   *ontology.Context
	logger *slog.Logger
	m      *metrics.Resolver

	mu            sync.RWMutex
	ancestors     map[ontology.NodeID][]ontology.NodeID
	descendants   map[ontology.NodeID][]ontology.NodeID
	propAncestors map[ontology.NodeID][]ontology.NodeID
	effective     map[ontology.NodeID][]constraint.PropertyConstraint
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches resolver cache metrics.
func WithMetrics(m *metrics.Resolver) Option {
	return func(s *Service) { s.m = m }
}

// New constructs a service for a (graph, context) pair. The inputs must not
// be mutated for the lifetime of the service.
func New(g *graph.Directed, octx *ontology.Context, opts ...Option) *Service {
	s := &Service{
		g:             g,
		octx:          octx,
		logger:        slog.Default(),
		ancestors:     make(map[ontology.NodeID][]ontology.NodeID),
		descendants:   make(map[ontology.NodeID][]ontology.NodeID),
		propAncestors: make(map[ontology.NodeID][]ontology.NodeID),
		effective:     make(map[ontology.NodeID][]constraint.PropertyConstraint),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ancestors returns the transitive class ancestors of the IRI, sorted
// ascending, excluding the IRI itself. A hierarchy cycle terminates without
// error but without guaranteeing completeness beyond the first encountered
// path.
func (s *Service) Ancestors(id ontology.NodeID) ([]ontology.NodeID, error) {
	return s.closure(id, s.ancestors, s.g.From)
}

// Descendants returns the transitive class descendants of the IRI, sorted
// ascending, excluding the IRI itself.
func (s *Service) Descendants(id ontology.NodeID) ([]ontology.NodeID, error) {
	return s.closure(id, s.descendants, s.g.To)
}

// closure computes a memoized transitive closure along step, guarded by a
// visited set so hierarchy cycles terminate.
func (s *Service) closure(
	id ontology.NodeID,
	cache map[ontology.NodeID][]ontology.NodeID,
	step func(ontology.NodeID) []ontology.NodeID,
) ([]ontology.NodeID, error) {
	s.mu.RLock()
	cached, ok := cache[id]
	s.mu.RUnlock()
	if ok {
		s.cacheHit()
		return slices.Clone(cached), nil
	}
	s.cacheMiss()

	if !s.g.Contains(id) {
		if s.octx.HasNode(id) {
			return nil, nil // in the context but outside the hierarchy
		}
		return nil, &InheritanceError{IRI: string(id), Reason: "node not found"}
	}

	visited := map[ontology.NodeID]bool{id: true}
	queue := step(id)
	var out []ontology.NodeID
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		out = append(out, next)
		queue = append(queue, step(next)...)
	}
	slices.Sort(out)

	s.mu.Lock()
	cache[id] = out
	s.mu.Unlock()
	return slices.Clone(out), nil
}

// IsSubclassOf reports whether child equals parent or has it among its
// transitive class ancestors. Unknown IRIs fail closed.
func (s *Service) IsSubclassOf(child, parent string) bool {
	if child == parent {
		return true
	}
	ancestors, err := s.Ancestors(ontology.NodeID(child))
	if err != nil {
		return false
	}
	return slices.Contains(ancestors, ontology.NodeID(parent))
}

// Disjointness classifies a pair of class IRIs. Identical or
// subclass-related classes overlap. An explicit disjointness declaration
// between the classes or any of their ancestors makes them disjoint,
// since disjointness is inherited. Anything else is Unknown, treated
// conservatively as "not provably disjoint".
func (s *Service) Disjointness(a, b string) constraint.Disjointness {
	if a == b {
		return constraint.Overlapping
	}
	if s.IsSubclassOf(a, b) || s.IsSubclassOf(b, a) {
		return constraint.Overlapping
	}
	for _, x := range s.selfAndAncestors(ontology.NodeID(a)) {
		for _, y := range s.selfAndAncestors(ontology.NodeID(b)) {
			if s.octx.ExplicitlyDisjoint(x, y) {
				return constraint.Disjoint
			}
		}
	}
	return constraint.Unknown
}

func (s *Service) selfAndAncestors(id ontology.NodeID) []ontology.NodeID {
	out := []ontology.NodeID{id}
	if ancestors, err := s.Ancestors(id); err == nil {
		out = append(out, ancestors...)
	}
	return out
}
