package graph

import "sort"

// ComponentJSON is one node in the canonical report schema.
type ComponentJSON struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Path  string         `json:"path"`
	Props map[string]int `json:"props"`
}

// EdgeJSON is one edge in the canonical report schema.
type EdgeJSON struct {
	From           string `json:"from"`
	To             string `json:"to"`
	ProjectContext string `json:"project_context"`
}

// GraphJSON is the serializable form of one project graph.
type GraphJSON struct {
	Components []ComponentJSON `json:"components"`
	Edges      []EdgeJSON      `json:"edges"`
}

// Serializable converts the graph into its canonical serialized form.
//
// The output is deterministic regardless of insertion order: components
// sorted by id, edges lexicographically by (from, to, project_context).
func (g *ComponentGraph) Serializable() GraphJSON {
	components := make([]ComponentJSON, 0, len(g.nodes))
	for _, node := range g.nodes {
		props := node.Props
		if props == nil {
			props = map[string]int{}
		}
		components = append(components, ComponentJSON{
			ID:    node.ID,
			Name:  node.Name,
			Path:  node.Path,
			Props: props,
		})
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].ID < components[j].ID
	})

	edges := make([]EdgeJSON, 0, len(g.edges))
	for _, edge := range g.edges {
		edges = append(edges, EdgeJSON{
			From:           edge.From,
			To:             edge.To,
			ProjectContext: edge.ProjectContext,
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].ProjectContext < edges[j].ProjectContext
	})

	return GraphJSON{Components: components, Edges: edges}
}
