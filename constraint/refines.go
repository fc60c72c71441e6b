package constraint

// Refines reports whether a is at least as strict as b: every value
// admitted by a is admitted by b. Bottom refines everything; everything
// refines Top. The check fails closed: anything that cannot be established
// from the hierarchy returns false.
func Refines(a, b PropertyConstraint, h Hierarchy) bool {
	if a.PropertyIRI != b.PropertyIRI {
		return false
	}
	if a.IsBottom() {
		return true
	}
	if b.IsBottom() {
		return false
	}
	if b.IsTop() {
		return true
	}
	a, b = a.Normalize(), b.Normalize()

	if a.MinCardinality < b.MinCardinality {
		return false
	}
	if b.MaxCardinality != nil {
		if a.MaxCardinality == nil || *a.MaxCardinality > *b.MaxCardinality {
			return false
		}
	}

	// Intersection-type semantics: a's conjunction of ranges must imply
	// every range b requires.
	for _, required := range b.Ranges {
		if !rangeImplied(a.Ranges, required, h) {
			return false
		}
	}

	if len(b.AllowedValues) > 0 {
		if len(a.AllowedValues) == 0 || !subset(a.AllowedValues, b.AllowedValues) {
			return false
		}
	}

	return subset(b.Annotations, a.Annotations)
}

// rangeImplied reports whether some range in rs equals required or is a
// subclass of it. An empty rs is unconstrained and implies nothing.
func rangeImplied(rs []string, required string, h Hierarchy) bool {
	for _, r := range rs {
		if r == required || h.IsSubclassOf(r, required) {
			return true
		}
	}
	return false
}
