package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/graph"
	"github.com/c360studio/semindex/index"
	"github.com/c360studio/semindex/ontology"
)

const ns = "https://example.org/onto/"

func nid(local string) ontology.NodeID { return ontology.NodeID(ns + local) }

func TestCombineMonoid(t *testing.T) {
	a := index.FromUnits(
		index.Unit{IRI: nid("Person"), Label: "Person"},
		index.Unit{IRI: nid("Animal"), Label: "Animal"},
	)
	b := index.FromUnits(
		index.Unit{IRI: nid("Animal"), Definition: "A living creature."},
		index.Unit{IRI: nid("Vehicle"), Label: "Vehicle"},
	)
	c := index.FromUnits(
		index.Unit{IRI: nid("Person"), Label: "Human"},
	)
	empty := index.New()

	t.Run("identity", func(t *testing.T) {
		assert.Equal(t, a.Keys(), index.Combine(empty, a).Keys())
		assert.Equal(t, a.Keys(), index.Combine(a, empty).Keys())
	})

	t.Run("key set bounds", func(t *testing.T) {
		combined := index.Combine(a, b)
		assert.GreaterOrEqual(t, combined.Len(), max(a.Len(), b.Len()))
		assert.LessOrEqual(t, combined.Len(), a.Len()+b.Len())
	})

	t.Run("idempotent on keys", func(t *testing.T) {
		assert.Equal(t, a.Keys(), index.Combine(a, a).Keys())
	})

	t.Run("commutative on keys", func(t *testing.T) {
		assert.Equal(t, index.Combine(a, b).Keys(), index.Combine(b, a).Keys())
	})

	t.Run("associative", func(t *testing.T) {
		left := index.Combine(index.Combine(a, b), c)
		right := index.Combine(a, index.Combine(b, c))
		assert.Equal(t, left.Keys(), right.Keys())
		for _, id := range left.Keys() {
			lu, _ := left.Get(id)
			ru, _ := right.Get(id)
			assert.Equal(t, lu, ru)
		}
	})

	t.Run("nil operands", func(t *testing.T) {
		assert.Equal(t, a.Keys(), index.Combine(nil, a).Keys())
		assert.Equal(t, a.Keys(), index.Combine(a, nil).Keys())
	})
}

func TestCombineMergesUnits(t *testing.T) {
	left := index.FromUnit(index.Unit{
		IRI:      nid("Person"),
		Label:    "Person",
		Children: []ontology.NodeID{nid("Employee")},
		Parents:  []ontology.NodeID{nid("Thing")},
		Properties: []constraint.PropertyConstraint{
			{PropertyIRI: ns + "hasName", Label: "has name"},
		},
	})
	right := index.FromUnit(index.Unit{
		IRI:        nid("Person"),
		Label:      "Human",
		Definition: "A human being.",
		Children:   []ontology.NodeID{nid("Student"), nid("Employee")},
		Properties: []constraint.PropertyConstraint{
			{PropertyIRI: ns + "hasName", Label: "name (duplicate)"},
			{PropertyIRI: ns + "hasAge"},
		},
	})

	merged, ok := index.Combine(left, right).Get(nid("Person"))
	require.True(t, ok)

	assert.Equal(t, "Person", merged.Label, "left operand wins on conflicting label")
	assert.Equal(t, "A human being.", merged.Definition, "empty left yields right definition")
	assert.Equal(t, []ontology.NodeID{nid("Employee"), nid("Student")}, merged.Children)
	assert.Equal(t, []ontology.NodeID{nid("Thing")}, merged.Parents)

	require.Len(t, merged.Properties, 2, "own properties deduplicated by property IRI")
	assert.Equal(t, ns+"hasAge", merged.Properties[0].PropertyIRI)
	assert.Equal(t, ns+"hasName", merged.Properties[1].PropertyIRI)
	assert.Equal(t, "has name", merged.Properties[1].Label, "first occurrence kept")
}

func TestBuild(t *testing.T) {
	g := graph.New()
	g.AddEdge(nid("Person"), nid("Thing"))
	g.AddEdge(nid("Employee"), nid("Person"))
	g.AddEdge(nid("Manager"), nid("Employee"))
	g.AddEdge(nid("Animal"), nid("Thing"))
	g.AddNode(nid("Vehicle"))

	octx := ontology.NewContext()
	for _, id := range g.Nodes() {
		n := ontology.NewClass(id, string(id[len(ns):]))
		n.Comment = "Class " + n.Label
		octx.AddNode(n)
	}

	idx, err := index.Build(g, octx)
	require.NoError(t, err)
	assert.Equal(t, g.NodeCount(), idx.Len(), "every node, including isolated ones")

	person, ok := idx.Get(nid("Person"))
	require.True(t, ok)
	assert.Equal(t, "Person", person.Label)
	assert.Equal(t, "Class Person", person.Definition)
	assert.Equal(t, []ontology.NodeID{nid("Employee")}, person.Children,
		"direct children only, not transitive descendants")
	assert.Equal(t, []ontology.NodeID{nid("Thing")}, person.Parents)
	assert.Empty(t, person.Inherited, "enrichment fills inherited properties later")

	thing, ok := idx.Get(nid("Thing"))
	require.True(t, ok)
	assert.Equal(t, []ontology.NodeID{nid("Animal"), nid("Person")}, thing.Children)
}

func TestBuildCycleFails(t *testing.T) {
	g := graph.New()
	g.AddEdge(nid("A"), nid("B"))
	g.AddEdge(nid("B"), nid("A"))
	octx := ontology.NewContext()
	octx.AddNode(ontology.NewClass(nid("A"), "A"))
	octx.AddNode(ontology.NewClass(nid("B"), "B"))

	_, err := index.Build(g, octx)
	var cycleErr *graph.CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestStats(t *testing.T) {
	idx := index.FromUnits(
		index.Unit{
			IRI:     nid("Thing"),
			Label:   "Thing",
			Children: []ontology.NodeID{nid("Person")},
		},
		index.Unit{
			IRI:     nid("Person"),
			Parents: []ontology.NodeID{nid("Thing")},
			Children: []ontology.NodeID{nid("Employee")},
			Properties: []constraint.PropertyConstraint{
				{PropertyIRI: ns + "hasName"},
			},
		},
		index.Unit{
			IRI:     nid("Employee"),
			Parents: []ontology.NodeID{nid("Person")},
			Properties: []constraint.PropertyConstraint{
				{PropertyIRI: ns + "hasSalary"},
			},
			Inherited: []constraint.PropertyConstraint{
				{PropertyIRI: ns + "hasName"},
			},
		},
	)

	s := idx.Stats()
	assert.Equal(t, 3, s.Classes)
	assert.Equal(t, 2, s.Properties, "distinct property IRIs")
	assert.InDelta(t, 1.0, s.AvgPropertiesPerClass, 0.001)
	assert.Equal(t, 2, s.MaxDepth, "Employee -> Person -> Thing")
}

func TestStatsEmpty(t *testing.T) {
	s := index.New().Stats()
	assert.Equal(t, index.Stats{}, s)
}

func TestKeysAndValuesSorted(t *testing.T) {
	idx := index.FromUnits(
		index.Unit{IRI: nid("Zebra")},
		index.Unit{IRI: nid("Ant")},
		index.Unit{IRI: nid("Mole")},
	)
	assert.Equal(t, []ontology.NodeID{nid("Ant"), nid("Mole"), nid("Zebra")}, idx.Keys())

	values := idx.Values()
	require.Len(t, values, 3)
	assert.Equal(t, nid("Ant"), values[0].IRI)
	assert.Equal(t, nid("Zebra"), values[2].IRI)
}
