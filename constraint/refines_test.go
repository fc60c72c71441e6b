package constraint_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semindex/constraint"
)

func TestRefines(t *testing.T) {
	h := testHierarchy{}

	tests := []struct {
		name string
		a    constraint.PropertyConstraint
		b    constraint.PropertyConstraint
		want bool
	}{
		{
			name: "bottom refines everything",
			a:    constraint.Bottom(hasPet, "contradiction"),
			b:    constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{dog}, MinCardinality: 2},
			want: true,
		},
		{
			name: "top refined by everything",
			a:    constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{cat}},
			b:    constraint.Top(hasPet),
			want: true,
		},
		{
			name: "nothing but bottom refines bottom",
			a:    constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{dog}},
			b:    constraint.Bottom(hasPet, "contradiction"),
			want: false,
		},
		{
			name: "subclass range is stricter",
			a:    constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{dog}},
			b:    constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{animal}},
			want: true,
		},
		{
			name: "superclass range is looser",
			a:    constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{animal}},
			b:    constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{dog}},
			want: false,
		},
		{
			name: "unconstrained ranges cannot imply required range",
			a:    constraint.PropertyConstraint{PropertyIRI: hasPet, MinCardinality: 5},
			b:    constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{dog}},
			want: false,
		},
		{
			name: "tighter cardinality window",
			a:    constraint.PropertyConstraint{PropertyIRI: hasPet, MinCardinality: 2, MaxCardinality: constraint.Card(3)},
			b:    constraint.PropertyConstraint{PropertyIRI: hasPet, MinCardinality: 1, MaxCardinality: constraint.Card(5)},
			want: true,
		},
		{
			name: "unbounded max is looser than bounded",
			a:    constraint.PropertyConstraint{PropertyIRI: hasPet, MinCardinality: 2},
			b:    constraint.PropertyConstraint{PropertyIRI: hasPet, MaxCardinality: constraint.Card(4)},
			want: false,
		},
		{
			name: "allowed values subset is stricter",
			a:    constraint.PropertyConstraint{PropertyIRI: hasPet, AllowedValues: []string{"x"}},
			b:    constraint.PropertyConstraint{PropertyIRI: hasPet, AllowedValues: []string{"x", "y"}},
			want: true,
		},
		{
			name: "allowed values superset is looser",
			a:    constraint.PropertyConstraint{PropertyIRI: hasPet, AllowedValues: []string{"x", "y"}},
			b:    constraint.PropertyConstraint{PropertyIRI: hasPet, AllowedValues: []string{"x"}},
			want: false,
		},
		{
			name: "different properties never refine",
			a:    constraint.PropertyConstraint{PropertyIRI: hasPet},
			b:    constraint.PropertyConstraint{PropertyIRI: hasName},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, constraint.Refines(tt.a, tt.b, h))
		})
	}
}

// Refines(a, b) must agree with the meet: a refines b exactly when meeting
// them changes nothing about a.
func TestRefinesMeetAgreement(t *testing.T) {
	h := chainHierarchy{}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		a := randomConstraint(rng)
		b := randomConstraint(rng)

		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			ab, err := constraint.Meet(a, b, h)
			require.NoError(t, err)

			assert.Equal(t, constraint.Refines(a, b, h), ab.EquivalentTo(a),
				"refines(%s, %s) must match meet %s", a, b, ab)
		})
	}
}
