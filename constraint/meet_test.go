package constraint_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semindex/constraint"
)

const (
	ns       = "https://example.org/onto/"
	hasPet   = ns + "hasPet"
	hasName  = ns + "hasName"
	animal   = ns + "Animal"
	mammal   = ns + "Mammal"
	dog      = ns + "Dog"
	cat      = ns + "Cat"
	vehicle  = ns + "Vehicle"
	xsdstr   = "http://www.w3.org/2001/XMLSchema#string"
	xsdint   = "http://www.w3.org/2001/XMLSchema#integer"
	nonsense = ns + "DoesNotExist"
)

// testHierarchy wires a small fixed taxonomy:
//
//	Animal ⊒ Mammal ⊒ Dog, Animal ⊒ Cat, Vehicle standalone,
//	Dog disjointWith Cat, Animal disjointWith Vehicle.
type testHierarchy struct{}

func (testHierarchy) IsSubclassOf(child, parent string) bool {
	if child == parent {
		return true
	}
	up := map[string][]string{
		dog:    {mammal, animal},
		cat:    {animal},
		mammal: {animal},
	}
	for _, a := range up[child] {
		if a == parent {
			return true
		}
	}
	return false
}

func (h testHierarchy) Disjointness(a, b string) constraint.Disjointness {
	if a == b || h.IsSubclassOf(a, b) || h.IsSubclassOf(b, a) {
		return constraint.Overlapping
	}
	pairs := map[[2]string]bool{
		{dog, cat}: true, {cat, dog}: true,
		{animal, vehicle}: true, {vehicle, animal}: true,
		// Disjointness is inherited by subclasses of Animal.
		{dog, vehicle}: true, {vehicle, dog}: true,
		{cat, vehicle}: true, {vehicle, cat}: true,
		{mammal, vehicle}: true, {vehicle, mammal}: true,
		{mammal, cat}: true, {cat, mammal}: true,
	}
	if pairs[[2]string{a, b}] {
		return constraint.Disjoint
	}
	return constraint.Unknown
}

func TestMeetRequiresSameProperty(t *testing.T) {
	a := constraint.Top(hasPet)
	b := constraint.Top(hasName)

	_, err := constraint.Meet(a, b, constraint.FlatHierarchy{})
	var meetErr *constraint.MeetError
	require.ErrorAs(t, err, &meetErr)
	assert.Equal(t, hasPet, meetErr.Left)
	assert.Equal(t, hasName, meetErr.Right)
}

func TestMeetShortCircuits(t *testing.T) {
	h := testHierarchy{}
	a := constraint.PropertyConstraint{
		PropertyIRI:    hasPet,
		Label:          "has pet",
		Ranges:         []string{dog},
		MinCardinality: 1,
		Source:         constraint.SourceRestriction,
	}

	t.Run("top is identity", func(t *testing.T) {
		got, err := constraint.Meet(a, constraint.Top(hasPet), h)
		require.NoError(t, err)
		assert.True(t, got.Equal(a))

		got, err = constraint.Meet(constraint.Top(hasPet), a, h)
		require.NoError(t, err)
		assert.True(t, got.Equal(a))
	})

	t.Run("idempotent", func(t *testing.T) {
		got, err := constraint.Meet(a, a, h)
		require.NoError(t, err)
		assert.True(t, got.Equal(a))
		assert.Equal(t, constraint.SourceRestriction, got.Source, "equal inputs return unchanged")
	})

	t.Run("bottom absorbs", func(t *testing.T) {
		bot := constraint.Bottom(hasPet, "prior contradiction")
		got, err := constraint.Meet(a, bot, h)
		require.NoError(t, err)
		assert.True(t, got.IsBottom())
		assert.Equal(t, "prior contradiction", got.Contradiction)
	})
}

func TestMeetRangeRefinement(t *testing.T) {
	h := testHierarchy{}

	t.Run("subclass range wins", func(t *testing.T) {
		a := constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{animal}}
		b := constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{dog}, MinCardinality: 1}

		got, err := constraint.Meet(a, b, h)
		require.NoError(t, err)
		assert.Equal(t, []string{dog}, got.Ranges)
		assert.Equal(t, uint(1), got.MinCardinality)
		assert.Equal(t, constraint.SourceRefined, got.Source)
	})

	t.Run("disjoint ranges are unsatisfiable", func(t *testing.T) {
		a := constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{dog}}
		b := constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{cat}}

		got, err := constraint.Meet(a, b, h)
		require.NoError(t, err)
		assert.True(t, got.IsBottom())
		assert.Contains(t, got.Contradiction, "disjoint")
	})

	t.Run("unknown relation accumulates intersection type", func(t *testing.T) {
		a := constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{dog}}
		b := constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{nonsense}}

		got, err := constraint.Meet(a, b, h)
		require.NoError(t, err)
		assert.Equal(t, []string{nonsense, dog}, got.Ranges)
	})

	t.Run("literal intersection wins", func(t *testing.T) {
		a := constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{dog, vehicle}}
		b := constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{vehicle}}

		got, err := constraint.Meet(a, b, h)
		require.NoError(t, err)
		assert.Equal(t, []string{vehicle}, got.Ranges)
	})

	t.Run("unconstrained side simplifies the other", func(t *testing.T) {
		a := constraint.PropertyConstraint{PropertyIRI: hasPet}
		b := constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{animal, dog}, MinCardinality: 1}

		got, err := constraint.Meet(a, b, h)
		require.NoError(t, err)
		assert.Equal(t, []string{dog}, got.Ranges, "Animal is subsumed by the more specific Dog")
	})
}

func TestMeetCardinality(t *testing.T) {
	h := constraint.FlatHierarchy{}

	t.Run("window tightens", func(t *testing.T) {
		a := constraint.PropertyConstraint{PropertyIRI: hasPet, MinCardinality: 1, MaxCardinality: constraint.Card(10)}
		b := constraint.PropertyConstraint{PropertyIRI: hasPet, MinCardinality: 2}

		got, err := constraint.Meet(a, b, h)
		require.NoError(t, err)
		assert.Equal(t, uint(2), got.MinCardinality)
		require.NotNil(t, got.MaxCardinality)
		assert.Equal(t, uint(10), *got.MaxCardinality)
	})

	t.Run("impossible window is unsatisfiable", func(t *testing.T) {
		a := constraint.PropertyConstraint{PropertyIRI: hasPet, MinCardinality: 3}
		b := constraint.PropertyConstraint{PropertyIRI: hasPet, MaxCardinality: constraint.Card(2)}

		got, err := constraint.Meet(a, b, h)
		require.NoError(t, err)
		assert.True(t, got.IsBottom())
		assert.Contains(t, got.Contradiction, "cardinality")
	})
}

func TestMeetAllowedValues(t *testing.T) {
	h := constraint.FlatHierarchy{}

	t.Run("intersects", func(t *testing.T) {
		a := constraint.PropertyConstraint{PropertyIRI: hasName, AllowedValues: []string{"red", "green", "blue"}}
		b := constraint.PropertyConstraint{PropertyIRI: hasName, AllowedValues: []string{"green", "blue", "yellow"}}

		got, err := constraint.Meet(a, b, h)
		require.NoError(t, err)
		assert.Equal(t, []string{"blue", "green"}, got.AllowedValues)
	})

	t.Run("one empty side is unconstrained", func(t *testing.T) {
		a := constraint.PropertyConstraint{PropertyIRI: hasName, Annotations: []string{"note"}}
		b := constraint.PropertyConstraint{PropertyIRI: hasName, AllowedValues: []string{"red"}}

		got, err := constraint.Meet(a, b, h)
		require.NoError(t, err)
		assert.Equal(t, []string{"red"}, got.AllowedValues)
	})

	t.Run("empty intersection is unsatisfiable", func(t *testing.T) {
		a := constraint.PropertyConstraint{PropertyIRI: hasName, AllowedValues: []string{"red"}}
		b := constraint.PropertyConstraint{PropertyIRI: hasName, AllowedValues: []string{"blue"}}

		got, err := constraint.Meet(a, b, h)
		require.NoError(t, err)
		assert.True(t, got.IsBottom())
	})
}

func TestMeetAnnotationsUnion(t *testing.T) {
	a := constraint.PropertyConstraint{PropertyIRI: hasName, Annotations: []string{"deprecated"}, MinCardinality: 1}
	b := constraint.PropertyConstraint{PropertyIRI: hasName, Annotations: []string{"internal"}}

	got, err := constraint.Meet(a, b, constraint.FlatHierarchy{})
	require.NoError(t, err)
	assert.Equal(t, []string{"deprecated", "internal"}, got.Annotations)
}

func TestMeetAll(t *testing.T) {
	h := testHierarchy{}
	group := []constraint.PropertyConstraint{
		{PropertyIRI: hasPet, Label: "has pet", Ranges: []string{animal}},
		{PropertyIRI: hasPet, Ranges: []string{dog}, MinCardinality: 1},
		{PropertyIRI: hasPet, MaxCardinality: constraint.Card(3)},
	}

	got, err := constraint.MeetAll(group, h)
	require.NoError(t, err)
	assert.Equal(t, []string{dog}, got.Ranges)
	assert.Equal(t, uint(1), got.MinCardinality)
	require.NotNil(t, got.MaxCardinality)
	assert.Equal(t, uint(3), *got.MaxCardinality)
	assert.Equal(t, "has pet", got.Label)

	t.Run("single element preserved", func(t *testing.T) {
		only := constraint.PropertyConstraint{PropertyIRI: hasPet, Ranges: []string{dog}, Source: constraint.SourceDomain}
		got, err := constraint.MeetAll([]constraint.PropertyConstraint{only}, h)
		require.NoError(t, err)
		assert.Equal(t, constraint.SourceDomain, got.Source)
	})

	t.Run("empty group fails", func(t *testing.T) {
		_, err := constraint.MeetAll(nil, h)
		assert.Error(t, err)
	})
}

// chainHierarchy is a total subsumption order Dog ⊑ Mammal ⊑ Animal used by
// the randomized law tests: every pair of ranges is comparable, so meets of
// generated constraints stay within the lattice laws.
type chainHierarchy struct{}

var chainUp = map[string]int{animal: 0, mammal: 1, dog: 2}

func (chainHierarchy) IsSubclassOf(child, parent string) bool {
	return chainUp[child] >= chainUp[parent]
}

func (h chainHierarchy) Disjointness(a, b string) constraint.Disjointness {
	if h.IsSubclassOf(a, b) || h.IsSubclassOf(b, a) {
		return constraint.Overlapping
	}
	return constraint.Unknown
}

// randomConstraint draws a constraint for hasPet with a singleton range from
// the subsumption chain, a small cardinality window, and allowed values /
// annotations from fixed pools.
func randomConstraint(rng *rand.Rand) constraint.PropertyConstraint {
	if rng.Intn(10) == 0 {
		return constraint.Bottom(hasPet, "generated")
	}
	c := constraint.PropertyConstraint{PropertyIRI: hasPet, Label: "has pet"}
	ranges := []string{animal, mammal, dog}
	if rng.Intn(3) > 0 {
		c.Ranges = []string{ranges[rng.Intn(len(ranges))]}
	}
	c.MinCardinality = uint(rng.Intn(3))
	if rng.Intn(2) == 0 {
		c.MaxCardinality = constraint.Card(uint(rng.Intn(4) + 2))
	}
	values := []string{"a", "b", "c", "d"}
	if rng.Intn(3) == 0 {
		n := rng.Intn(3) + 1
		c.AllowedValues = values[:n]
	}
	notes := []string{"deprecated", "internal", "draft"}
	for _, n := range notes {
		if rng.Intn(4) == 0 {
			c.Annotations = append(c.Annotations, n)
		}
	}
	return c
}

func TestMeetLaws(t *testing.T) {
	h := chainHierarchy{}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		a := randomConstraint(rng)
		b := randomConstraint(rng)
		c := randomConstraint(rng)

		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			ab, err := constraint.Meet(a, b, h)
			require.NoError(t, err)
			ba, err := constraint.Meet(b, a, h)
			require.NoError(t, err)
			assert.True(t, ab.EquivalentTo(ba), "commutativity: %s vs %s", ab, ba)

			abc, err := constraint.Meet(ab, c, h)
			require.NoError(t, err)
			bc, err := constraint.Meet(b, c, h)
			require.NoError(t, err)
			acb, err := constraint.Meet(a, bc, h)
			require.NoError(t, err)
			assert.True(t, abc.EquivalentTo(acb), "associativity: %s vs %s", abc, acb)

			aa, err := constraint.Meet(a, a, h)
			require.NoError(t, err)
			assert.True(t, aa.Equal(a.Normalize()), "idempotence")

			at, err := constraint.Meet(a, constraint.Top(hasPet), h)
			require.NoError(t, err)
			assert.True(t, at.Equal(a.Normalize()), "identity with Top")

			abot, err := constraint.Meet(a, constraint.Bottom(hasPet, "x"), h)
			require.NoError(t, err)
			assert.True(t, abot.IsBottom(), "absorption by Bottom")
		})
	}
}
