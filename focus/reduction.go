package focus

import (
	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/index"
)

// Reduction quantifies what a pruning pass removed.
type Reduction struct {
	FullClasses    int     `json:"full_classes"`
	PrunedClasses  int     `json:"pruned_classes"`
	RemovedClasses int     `json:"removed_classes"`
	Percent        float64 `json:"percent"`

	// Token counts are rough estimates (four characters per token) of the
	// rendered prompt size, for reporting only.
	FullTokens   int `json:"full_tokens"`
	PrunedTokens int `json:"pruned_tokens"`
	TokensSaved  int `json:"tokens_saved"`
}

// AnalyzeReduction compares a full index with its pruned counterpart.
// Pure metric computation, no side effects.
func AnalyzeReduction(full, pruned *index.Index) Reduction {
	r := Reduction{
		FullClasses:   full.Len(),
		PrunedClasses: pruned.Len(),
		FullTokens:    estimateTokens(full),
		PrunedTokens:  estimateTokens(pruned),
	}
	r.RemovedClasses = r.FullClasses - r.PrunedClasses
	r.TokensSaved = r.FullTokens - r.PrunedTokens
	if r.FullClasses > 0 {
		r.Percent = 100 * float64(r.RemovedClasses) / float64(r.FullClasses)
	}
	return r
}

// estimateTokens approximates the prompt footprint of an index at four
// characters per token. The two constraint slices are walked separately:
// appending one to the other could scribble on a unit's backing array.
func estimateTokens(idx *index.Index) int {
	chars := 0
	for _, u := range idx.Values() {
		chars += len(u.IRI) + len(u.Label) + len(u.Definition)
		chars += constraintChars(u.Properties)
		chars += constraintChars(u.Inherited)
		chars += 24 // section framing
	}
	return chars / 4
}

func constraintChars(pcs []constraint.PropertyConstraint) int {
	chars := 0
	for _, pc := range pcs {
		chars += len(pc.PropertyIRI) + len(pc.Label)
		for _, r := range pc.Ranges {
			chars += len(r)
		}
		for _, v := range pc.AllowedValues {
			chars += len(v)
		}
		chars += 16 // cardinality and framing text
	}
	return chars
}
