package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridex/nodenator/internal/graph"
	"github.com/fridex/nodenator/internal/predicate"
	"github.com/fridex/nodenator/internal/testutil"
)

// chain builds a graph with the named nodes and one edge per pair.
func chain(t *testing.T, nodes []string, edges [][2]string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, name := range nodes {
		n, err := graph.NewNode(name)
		require.NoError(t, err)
		require.NoError(t, g.AddNode(n))
	}
	cond, err := predicate.NewLeaf("always", testutil.NewCallLog().Returning("always", true), nil)
	require.NoError(t, err)
	for _, pair := range edges {
		from, _ := g.NodeByName(pair[0])
		to, _ := g.NodeByName(pair[1])
		e, err := graph.NewEdge(pair[0]+"-"+pair[1], from, to, cond, "")
		require.NoError(t, err)
		require.NoError(t, g.AddEdge(e))
	}
	return g
}

// TestAnalyzeCycles_Nil tests that a nil graph produces no warnings.
func TestAnalyzeCycles_Nil(t *testing.T) {
	assert.Empty(t, AnalyzeCycles(nil))
}

// TestAnalyzeCycles_DAG tests that a directed acyclic graph produces no warnings.
func TestAnalyzeCycles_DAG(t *testing.T) {
	g := chain(t, []string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"A", "C"}, {"B", "C"}})
	assert.Empty(t, AnalyzeCycles(g))
}

// TestAnalyzeCycles_SelfLoop tests detection of a self-transition.
func TestAnalyzeCycles_SelfLoop(t *testing.T) {
	g := chain(t, []string{"Poll"}, [][2]string{{"Poll", "Poll"}})

	warnings := AnalyzeCycles(g)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"Poll", "Poll"}, warnings[0].Path)
	assert.Equal(t, "warning", warnings[0].Level)
	assert.Contains(t, warnings[0].Message, "Self-transition")
}

// TestAnalyzeCycles_TwoNodeCycle tests A → B → A.
func TestAnalyzeCycles_TwoNodeCycle(t *testing.T) {
	g := chain(t, []string{"A", "B"}, [][2]string{{"A", "B"}, {"B", "A"}})

	warnings := AnalyzeCycles(g)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"A", "B", "A"}, warnings[0].Path)
	assert.Equal(t, "Potential cycle detected: A → B → A", warnings[0].Message)
}

// TestAnalyzeCycles_Multiple tests that separate cycles are reported separately.
func TestAnalyzeCycles_Multiple(t *testing.T) {
	g := chain(t,
		[]string{"A", "B", "C", "D", "E"},
		[][2]string{{"A", "B"}, {"B", "A"}, {"B", "C"}, {"C", "D"}, {"D", "E"}, {"E", "C"}},
	)

	warnings := AnalyzeCycles(g)
	require.Len(t, warnings, 2)
	// Tarjan emits the downstream SCC first.
	assert.Equal(t, []string{"C", "D", "E", "C"}, warnings[0].Path)
	assert.Equal(t, []string{"A", "B", "A"}, warnings[1].Path)
}

// TestAnalyzeCycles_Deterministic tests that repeated analysis yields the same result.
func TestAnalyzeCycles_Deterministic(t *testing.T) {
	g := chain(t, []string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}})

	first := AnalyzeCycles(g)
	for range 10 {
		assert.Equal(t, first, AnalyzeCycles(g))
	}
	require.Len(t, first, 1)
	assert.Equal(t, []string{"A", "B", "C", "A"}, first[0].Path)
}
