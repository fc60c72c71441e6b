// Package focus prunes a knowledge index down to the classes relevant for
// a set of focus nodes, trading completeness for prompt size. Every
// strategy is a pure function: the input index is never mutated.
package focus

import (
	"fmt"

	"github.com/c360studio/semindex/index"
	"github.com/c360studio/semindex/inherit"
	"github.com/c360studio/semindex/ontology"
)

// Strategy names a context-selection policy.
type Strategy string

const (
	// StrategyFull keeps the whole index.
	StrategyFull Strategy = "full"

	// StrategyFocused keeps the focus nodes and all their ancestors.
	StrategyFocused Strategy = "focused"

	// StrategyNeighborhood keeps the focus nodes, their ancestors, and
	// their direct children only.
	StrategyNeighborhood Strategy = "neighborhood"

	// StrategyMinimal keeps the focus nodes, their ancestors, and the
	// transitive semantic dependency closure: for every own property
	// whose range is itself a class in the index, that range class and
	// its ancestors too.
	StrategyMinimal Strategy = "minimal"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyFull, StrategyFocused, StrategyNeighborhood, StrategyMinimal:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown focus strategy: %q", s)
	}
}

// Select returns a new index pruned according to the strategy. Focus IRIs
// missing from the index are silently skipped.
func Select(idx *index.Index, focusNodes []ontology.NodeID, strategy Strategy, svc *inherit.Service) *index.Index {
	if strategy == StrategyFull {
		return idx
	}

	keep := make(map[ontology.NodeID]bool)
	addWithAncestors := func(id ontology.NodeID) {
		if !idx.Has(id) {
			return
		}
		keep[id] = true
		ancestors, err := svc.Ancestors(id)
		if err != nil {
			return
		}
		for _, a := range ancestors {
			if idx.Has(a) {
				keep[a] = true
			}
		}
	}

	for _, id := range focusNodes {
		addWithAncestors(id)
	}

	switch strategy {
	case StrategyNeighborhood:
		for _, id := range focusNodes {
			unit, ok := idx.Get(id)
			if !ok {
				continue
			}
			for _, child := range unit.Children {
				if idx.Has(child) {
					keep[child] = true
				}
			}
		}
	case StrategyMinimal:
		// Fixpoint over the selected set: own-property ranges pull in
		// their class and its ancestors, which may declare further
		// class-valued properties.
		for changed := true; changed; {
			changed = false
			for id := range keep {
				unit, ok := idx.Get(id)
				if !ok {
					continue
				}
				for _, pc := range unit.Properties {
					for _, rng := range pc.Ranges {
						rid := ontology.NodeID(rng)
						if idx.Has(rid) && !keep[rid] {
							addWithAncestors(rid)
							changed = true
						}
					}
				}
			}
		}
	}

	units := make([]index.Unit, 0, len(keep))
	for id := range keep {
		unit, _ := idx.Get(id)
		units = append(units, unit)
	}
	return index.FromUnits(units...)
}
