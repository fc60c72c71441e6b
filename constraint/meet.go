package constraint

import "fmt"

// Meet computes the greatest lower bound of two constraints on the same
// property: the strictest constraint satisfying both. A contradiction
// (disjoint ranges, impossible cardinality window, empty allowed-value
// intersection) yields Bottom, which is a valid value, not an error.
//
// Short circuits: structurally equal inputs return unchanged (idempotence),
// Top is the identity (the other side is returned with its ranges
// simplified), Bottom absorbs.
func Meet(a, b PropertyConstraint, h Hierarchy) (PropertyConstraint, error) {
	if a.PropertyIRI != b.PropertyIRI {
		return PropertyConstraint{}, &MeetError{Left: a.PropertyIRI, Right: b.PropertyIRI}
	}
	a, b = a.Normalize(), b.Normalize()

	switch {
	case a.Equal(b):
		return a, nil
	case b.IsTop():
		a.Ranges = simplifyRanges(a.Ranges, h)
		return a, nil
	case a.IsTop():
		b.Ranges = simplifyRanges(b.Ranges, h)
		return b, nil
	case a.IsBottom():
		return a, nil
	case b.IsBottom():
		return b, nil
	}

	ranges, contradiction := meetRanges(a.Ranges, b.Ranges, h)
	if contradiction != "" {
		return Bottom(a.PropertyIRI, contradiction), nil
	}

	minCard := max(a.MinCardinality, b.MinCardinality)
	maxCard := meetMax(a.MaxCardinality, b.MaxCardinality)
	if maxCard != nil && minCard > *maxCard {
		return Bottom(a.PropertyIRI, fmt.Sprintf(
			"min cardinality %d exceeds max cardinality %d", minCard, *maxCard)), nil
	}

	var allowed []string
	switch {
	case len(a.AllowedValues) == 0:
		allowed = b.AllowedValues
	case len(b.AllowedValues) == 0:
		allowed = a.AllowedValues
	default:
		allowed = intersection(a.AllowedValues, b.AllowedValues)
		if len(allowed) == 0 {
			return Bottom(a.PropertyIRI, "allowed value sets have no common element"), nil
		}
	}

	label := a.Label
	if label == "" {
		label = b.Label
	}

	return PropertyConstraint{
		PropertyIRI:    a.PropertyIRI,
		Label:          label,
		Ranges:         ranges,
		MinCardinality: minCard,
		MaxCardinality: maxCard,
		AllowedValues:  allowed,
		Annotations:    union(a.Annotations, b.Annotations),
		Source:         SourceRefined,
	}.Normalize(), nil
}

// MeetAll folds Meet over a non-empty group of constraints sharing a
// property IRI. A single-element group is returned unchanged, preserving
// its declared Source.
func MeetAll(group []PropertyConstraint, h Hierarchy) (PropertyConstraint, error) {
	if len(group) == 0 {
		return PropertyConstraint{}, fmt.Errorf("meet of empty constraint group")
	}
	result := group[0].Normalize()
	for _, c := range group[1:] {
		next, err := Meet(result, c, h)
		if err != nil {
			return PropertyConstraint{}, err
		}
		result = next
	}
	return result, nil
}

// meetRanges intersects two range sets under subsumption and disjointness
// reasoning. Returns the refined range set, or a non-empty contradiction
// reason when the intersection is provably unsatisfiable.
//
// An empty range set means "unconstrained", so the other side wins after
// simplification. A non-empty literal intersection wins outright. Failing
// that, provably disjoint sides with no overlapping pair are Bottom;
// otherwise both sides accumulate as an intersection type, unsatisfiable
// only if two surviving ranges are mutually disjoint.
func meetRanges(ra, rb []string, h Hierarchy) ([]string, string) {
	if len(ra) == 0 {
		return simplifyRanges(rb, h), ""
	}
	if len(rb) == 0 {
		return simplifyRanges(ra, h), ""
	}

	if inter := intersection(ra, rb); len(inter) > 0 {
		return simplifyRanges(inter, h), ""
	}

	anyDisjoint, anyOverlap := false, false
	var disjointPair [2]string
	for _, x := range ra {
		for _, y := range rb {
			switch h.Disjointness(x, y) {
			case Disjoint:
				if !anyDisjoint {
					disjointPair = [2]string{x, y}
				}
				anyDisjoint = true
			case Overlapping:
				anyOverlap = true
			}
		}
	}
	if anyDisjoint && !anyOverlap {
		return nil, fmt.Sprintf("ranges %s and %s are disjoint", disjointPair[0], disjointPair[1])
	}

	merged := simplifyRanges(union(ra, rb), h)
	for i, x := range merged {
		for _, y := range merged[i+1:] {
			if h.Disjointness(x, y) == Disjoint {
				return nil, fmt.Sprintf("intersection type requires disjoint ranges %s and %s", x, y)
			}
		}
	}
	return merged, ""
}

// simplifyRanges drops every range subsumed by a strictly more specific
// range already present. Mutually equivalent ranges keep the
// lexicographically smallest representative.
func simplifyRanges(rs []string, h Hierarchy) []string {
	rs = canonical(rs)
	if len(rs) < 2 {
		return rs
	}
	var out []string
	for _, r := range rs {
		subsumed := false
		for _, s := range rs {
			if s == r || !h.IsSubclassOf(s, r) {
				continue
			}
			if !h.IsSubclassOf(r, s) || s < r {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, r)
		}
	}
	return out
}

// meetMax combines two maximum cardinalities, treating nil as unbounded.
func meetMax(a, b *uint) *uint {
	switch {
	case a == nil:
		return cloneCard(b)
	case b == nil:
		return cloneCard(a)
	case *a <= *b:
		return cloneCard(a)
	default:
		return cloneCard(b)
	}
}

func cloneCard(c *uint) *uint {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
