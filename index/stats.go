package index

import "github.com/c360studio/semindex/ontology"

// Stats summarizes an index for consumers and logs.
type Stats struct {
	Classes int `json:"classes"`

	// Properties is the number of distinct property IRIs across own and
	// inherited constraints.
	Properties int `json:"properties"`

	// AvgPropertiesPerClass counts own plus inherited constraints.
	AvgPropertiesPerClass float64 `json:"avg_properties_per_class"`

	// MaxDepth is the longest parent chain within the index, zero for a
	// flat or empty index.
	MaxDepth int `json:"max_depth"`
}

// Stats computes index statistics.
func (x *Index) Stats() Stats {
	s := Stats{Classes: len(x.units)}
	if s.Classes == 0 {
		return s
	}

	distinct := make(map[string]bool)
	total := 0
	for _, u := range x.units {
		for _, pc := range u.Properties {
			distinct[pc.PropertyIRI] = true
		}
		for _, pc := range u.Inherited {
			distinct[pc.PropertyIRI] = true
		}
		total += len(u.Properties) + len(u.Inherited)
	}
	s.Properties = len(distinct)
	s.AvgPropertiesPerClass = float64(total) / float64(s.Classes)

	depths := make(map[ontology.NodeID]int, len(x.units))
	for id := range x.units {
		if d := x.depth(id, depths, make(map[ontology.NodeID]bool)); d > s.MaxDepth {
			s.MaxDepth = d
		}
	}
	return s
}

// depth is the longest parent chain from id within the index. The onPath
// set guards against hierarchy cycles.
func (x *Index) depth(id ontology.NodeID, memo map[ontology.NodeID]int, onPath map[ontology.NodeID]bool) int {
	if d, ok := memo[id]; ok {
		return d
	}
	if onPath[id] {
		return 0
	}
	onPath[id] = true
	defer delete(onPath, id)

	u, ok := x.units[id]
	if !ok {
		return 0
	}
	best := 0
	for _, parent := range u.Parents {
		if !x.Has(parent) {
			continue
		}
		if d := x.depth(parent, memo, onPath) + 1; d > best {
			best = d
		}
	}
	memo[id] = best
	return best
}
