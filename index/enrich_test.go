package index_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/graph"
	"github.com/c360studio/semindex/index"
	"github.com/c360studio/semindex/inherit"
	"github.com/c360studio/semindex/ontology"
)

// employmentFixture builds Thing ← Person ← Employee ← Manager with
// hasName@Person, hasSalary@Employee, hasTeamSize@Manager.
func employmentFixture(t *testing.T) (*graph.Directed, *ontology.Context, *index.Index) {
	t.Helper()
	g := graph.New()
	g.AddEdge(nid("Person"), nid("Thing"))
	g.AddEdge(nid("Employee"), nid("Person"))
	g.AddEdge(nid("Manager"), nid("Employee"))

	octx := ontology.NewContext()
	octx.AddNode(ontology.NewClass(nid("Thing"), "Thing"))
	octx.AddNode(ontology.NewClass(nid("Person"), "Person", constraint.PropertyConstraint{
		PropertyIRI: ns + "hasName", Source: constraint.SourceDomain,
	}))
	octx.AddNode(ontology.NewClass(nid("Employee"), "Employee", constraint.PropertyConstraint{
		PropertyIRI: ns + "hasSalary", Source: constraint.SourceDomain,
	}))
	octx.AddNode(ontology.NewClass(nid("Manager"), "Manager", constraint.PropertyConstraint{
		PropertyIRI: ns + "hasTeamSize", Source: constraint.SourceDomain,
	}))

	idx, err := index.Build(g, octx)
	require.NoError(t, err)
	return g, octx, idx
}

func TestEnrich(t *testing.T) {
	g, octx, raw := employmentFixture(t)
	svc := inherit.New(g, octx)

	enriched, err := index.Enrich(context.Background(), raw, svc, index.EnrichOptions{})
	require.NoError(t, err)

	manager, ok := enriched.Get(nid("Manager"))
	require.True(t, ok)

	require.Len(t, manager.Inherited, 2)
	assert.Equal(t, ns+"hasName", manager.Inherited[0].PropertyIRI)
	assert.Equal(t, ns+"hasSalary", manager.Inherited[1].PropertyIRI)
	require.Len(t, manager.Properties, 1)
	assert.Equal(t, ns+"hasTeamSize", manager.Properties[0].PropertyIRI,
		"own property must not reappear as inherited")

	thing, ok := enriched.Get(nid("Thing"))
	require.True(t, ok)
	assert.Empty(t, thing.Inherited)

	t.Run("input index untouched", func(t *testing.T) {
		rawManager, _ := raw.Get(nid("Manager"))
		assert.Empty(t, rawManager.Inherited)
	})
}

func TestEnrichConcurrencyBound(t *testing.T) {
	g, octx, raw := employmentFixture(t)
	svc := inherit.New(g, octx)

	enriched, err := index.Enrich(context.Background(), raw, svc, index.EnrichOptions{Concurrency: 1})
	require.NoError(t, err)
	assert.Equal(t, raw.Len(), enriched.Len())
}

func TestEnrichCancellation(t *testing.T) {
	g, octx, raw := employmentFixture(t)
	svc := inherit.New(g, octx)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := index.Enrich(ctx, raw, svc, index.EnrichOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnrichSkipsFailedUnits(t *testing.T) {
	g, octx, _ := employmentFixture(t)
	svc := inherit.New(g, octx)

	// A unit whose IRI is unknown to the context cannot be resolved.
	raw := index.FromUnits(
		index.Unit{IRI: nid("Manager"), Properties: []constraint.PropertyConstraint{
			{PropertyIRI: ns + "hasTeamSize"},
		}},
		index.Unit{IRI: nid("Ghost")},
	)

	enriched, err := index.Enrich(context.Background(), raw, svc, index.EnrichOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, enriched.Len(), "failed unit kept unenriched")

	ghost, ok := enriched.Get(nid("Ghost"))
	require.True(t, ok)
	assert.Empty(t, ghost.Inherited)

	t.Run("fail fast", func(t *testing.T) {
		_, err := index.Enrich(context.Background(), raw, svc, index.EnrichOptions{FailFast: true})
		var infErr *inherit.InheritanceError
		require.ErrorAs(t, err, &infErr)
	})
}
