package inherit

import (
	"slices"

	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/ontology"
)

// EffectiveProperties resolves the full constraint set applicable to a
// class: constraints declared directly on it, on every class ancestor, the
// universal constraints, and the constraints contributed by every
// property-hierarchy ancestor of each gathered property — all refined into
// one constraint per property IRI via the lattice meet, sorted ascending
// by IRI.
func (s *Service) EffectiveProperties(id ontology.NodeID) ([]constraint.PropertyConstraint, error) {
	s.mu.RLock()
	cached, ok := s.effective[id]
	s.mu.RUnlock()
	if ok {
		s.cacheHit()
		return slices.Clone(cached), nil
	}
	s.cacheMiss()

	node, found := s.octx.Node(id)
	if !found {
		return nil, &InheritanceError{IRI: string(id), Reason: "node not found"}
	}
	if !node.IsClass() {
		return nil, &InheritanceError{IRI: string(id), Reason: "node is not a class"}
	}

	ancestors, err := s.Ancestors(id)
	if err != nil {
		return nil, err
	}

	// Gather declared constraints grouped by property IRI. Order is
	// deterministic: the class itself, then ancestors ascending, then the
	// universal constraints.
	pool := make(map[string][]constraint.PropertyConstraint)
	gather := func(owner ontology.NodeID) {
		if n, ok := s.octx.Node(owner); ok {
			for _, pc := range n.Properties {
				pool[pc.PropertyIRI] = append(pool[pc.PropertyIRI], pc)
			}
		}
	}
	gather(id)
	for _, ancestor := range ancestors {
		gather(ancestor)
	}
	for _, pc := range s.octx.Universal() {
		pool[pc.PropertyIRI] = append(pool[pc.PropertyIRI], pc)
	}

	iris := make([]string, 0, len(pool))
	for iri := range pool {
		iris = append(iris, iri)
	}
	slices.Sort(iris)

	result := make([]constraint.PropertyConstraint, 0, len(iris))
	for _, iri := range iris {
		group := slices.Clone(pool[iri])

		propAncestors, err := s.propertyAncestry(ontology.NodeID(iri))
		if err != nil {
			return nil, err
		}
		for _, q := range propAncestors {
			for _, pc := range pool[string(q)] {
				group = append(group, pc.Rekey(iri))
			}
			if base, ok := s.declaredConstraint(q); ok {
				group = append(group, base.Rekey(iri))
			}
		}
		if base, ok := s.declaredConstraint(ontology.NodeID(iri)); ok {
			group = append(group, base)
		}

		effective, err := constraint.MeetAll(group, s)
		if err != nil {
			return nil, &InheritanceError{IRI: string(id), Reason: err.Error()}
		}
		result = append(result, effective)
	}

	s.mu.Lock()
	s.effective[id] = result
	s.mu.Unlock()
	return slices.Clone(result), nil
}

// propertyAncestry returns the transitive property-hierarchy ancestors of a
// property, sorted ascending. Join cycles among ancestors are tolerated via
// the visited set; a property that transitively reaches itself cannot be
// resolved deterministically and yields CircularInheritanceError.
func (s *Service) propertyAncestry(id ontology.NodeID) ([]ontology.NodeID, error) {
	s.mu.RLock()
	cached, ok := s.propAncestors[id]
	s.mu.RUnlock()
	if ok {
		s.cacheHit()
		return slices.Clone(cached), nil
	}
	s.cacheMiss()

	visited := map[ontology.NodeID]bool{}
	queue := s.octx.PropertyParents(id)
	var out []ontology.NodeID
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == id {
			return nil, &CircularInheritanceError{IRI: string(id)}
		}
		if visited[next] {
			continue
		}
		visited[next] = true
		out = append(out, next)
		queue = append(queue, s.octx.PropertyParents(next)...)
	}
	slices.Sort(out)

	s.mu.Lock()
	s.propAncestors[id] = out
	s.mu.Unlock()
	return slices.Clone(out), nil
}

// declaredConstraint materializes the constraint implied by a property
// node's own declaration: its range, and a maximum cardinality of one when
// functional.
func (s *Service) declaredConstraint(id ontology.NodeID) (constraint.PropertyConstraint, bool) {
	node, ok := s.octx.Node(id)
	if !ok || node.IsClass() {
		return constraint.PropertyConstraint{}, false
	}
	pc := constraint.PropertyConstraint{
		PropertyIRI: string(id),
		Label:       node.Label,
		Source:      constraint.SourceDomain,
	}
	if node.Range != "" {
		pc.Ranges = []string{string(node.Range)}
	}
	if node.Functional {
		pc.MaxCardinality = constraint.Card(1)
	}
	if pc.IsTop() {
		return constraint.PropertyConstraint{}, false
	}
	return pc, true
}

func (s *Service) cacheHit() {
	if s.m != nil {
		s.m.CacheHits.Inc()
	}
}

func (s *Service) cacheMiss() {
	if s.m != nil {
		s.m.CacheMisses.Inc()
	}
}
