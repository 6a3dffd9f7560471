package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testComponent(id, name string) Component {
	return Component{ID: id, Name: name, Path: "src/" + name + ".tsx", Project: "app"}
}

func TestAddComponentUpsert(t *testing.T) {
	g := New()

	first := g.AddComponent(testComponent("1", "App"))
	first.Props["title"] = 2

	second := g.AddComponent(testComponent("1", "App"))
	assert.Same(t, first, second, "re-adding must keep the accumulated node")
	assert.Equal(t, 2, second.Props["title"])
	assert.Equal(t, 1, g.NodeCount())
}

func TestAddEdgeRequiresEndpoints(t *testing.T) {
	g := New()
	g.AddComponent(testComponent("1", "App"))

	assert.Nil(t, g.AddEdge("1", "999", "app"))
	assert.Nil(t, g.AddEdge("999", "1", "app"))
	assert.Equal(t, 0, g.EdgeCount())
}

func TestEdgeUniquePerOrderedPair(t *testing.T) {
	g := New()
	g.AddComponent(testComponent("1", "App"))
	g.AddComponent(testComponent("2", "Card"))

	first := g.AddEdge("1", "2", "app")
	require.NotNil(t, first)
	second := g.AddEdge("1", "2", "app")
	assert.Same(t, first, second)
	assert.Equal(t, 1, g.EdgeCount())

	// The reverse direction is a distinct edge.
	reverse := g.AddEdge("2", "1", "app")
	require.NotNil(t, reverse)
	assert.Equal(t, 2, g.EdgeCount())
}

func TestRecordUsageAccumulates(t *testing.T) {
	g := New()
	g.AddComponent(testComponent("1", "App"))
	g.AddComponent(testComponent("2", "Card"))
	g.AddEdge("1", "2", "app")

	g.RecordUsage("1", "2", []string{"title", "open"}, false)
	g.RecordUsage("1", "2", []string{"title"}, true)

	edge, ok := g.Edge("1", "2")
	require.True(t, ok)
	assert.Equal(t, 2, edge.PropUsage["title"])
	assert.Equal(t, 1, edge.PropUsage["open"])
	assert.True(t, edge.HasSpread, "spread is monotonic across usage sites")

	card, ok := g.Component("2")
	require.True(t, ok)
	assert.Equal(t, 2, card.Props["title"])
	assert.Equal(t, 1, card.Props["open"])
}

func TestSerializableDeterministic(t *testing.T) {
	build := func(order []string) GraphJSON {
		g := New()
		for _, id := range order {
			g.AddComponent(testComponent(id, "C"+id))
		}
		g.AddEdge("3", "1", "app")
		g.AddEdge("1", "2", "lib")
		g.AddEdge("1", "3", "app")
		return g.Serializable()
	}

	a := build([]string{"1", "2", "3"})
	b := build([]string{"3", "2", "1"})

	aJSON, err := json.Marshal(a)
	require.NoError(t, err)
	bJSON, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(aJSON), string(bJSON), "insertion order must not leak into the report")

	require.Len(t, a.Components, 3)
	assert.Equal(t, "1", a.Components[0].ID)
	require.Len(t, a.Edges, 3)
	assert.Equal(t, EdgeJSON{From: "1", To: "2", ProjectContext: "lib"}, a.Edges[0])
	assert.Equal(t, EdgeJSON{From: "1", To: "3", ProjectContext: "app"}, a.Edges[1])
	assert.Equal(t, EdgeJSON{From: "3", To: "1", ProjectContext: "app"}, a.Edges[2])
}

func TestSerializableEmptyPropsIsObject(t *testing.T) {
	g := New()
	g.AddComponent(testComponent("1", "App"))

	data, err := json.Marshal(g.Serializable())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"props":{}`, "empty prop maps must serialize as {} not null")
}
