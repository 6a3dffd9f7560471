package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tim-richter/spinne/pkg/graph"
	"github.com/tim-richter/spinne/pkg/workspace"
)

func (s *Server) handleListProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type projectSummary struct {
		Name       string `json:"name"`
		Components int    `json:"components"`
		Edges      int    `json:"edges"`
	}

	summaries := make([]projectSummary, 0, len(s.reports))
	for _, report := range s.reports {
		summaries = append(summaries, projectSummary{
			Name:       report.Name,
			Components: len(report.Graph.Components),
			Edges:      len(report.Graph.Edges),
		})
	}

	return jsonResult(summaries)
}

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.findReport(req.GetString("project", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := strings.ToLower(req.GetString("query", ""))
	components := make([]graph.ComponentJSON, 0, len(report.Graph.Components))
	for _, component := range report.Graph.Components {
		if query != "" && !strings.Contains(strings.ToLower(component.Name), query) {
			continue
		}
		components = append(components, component)
	}

	return jsonResult(components)
}

func (s *Server) handleComponentUsages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	projectFilter := req.GetString("project", "")

	type usage struct {
		Project        string `json:"project"`
		User           string `json:"user"`
		Component      string `json:"component"`
		ProjectContext string `json:"project_context"`
	}

	var usages []usage
	for _, report := range s.reports {
		if projectFilter != "" && report.Name != projectFilter {
			continue
		}
		byID := make(map[string]graph.ComponentJSON, len(report.Graph.Components))
		for _, component := range report.Graph.Components {
			byID[component.ID] = component
		}
		for _, edge := range report.Graph.Edges {
			to, ok := byID[edge.To]
			if !ok || (to.Name != name && to.ID != name) {
				continue
			}
			from := byID[edge.From]
			usages = append(usages, usage{
				Project:        report.Name,
				User:           from.Name,
				Component:      to.Name,
				ProjectContext: edge.ProjectContext,
			})
		}
	}

	return jsonResult(usages)
}

func (s *Server) handleProjectEdges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.findReport(req.GetString("project", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(report.Graph.Edges)
}

// findReport returns the named report, or the first one when name is empty.
func (s *Server) findReport(name string) (*workspace.Report, error) {
	if len(s.reports) == 0 {
		return nil, fmt.Errorf("no projects analyzed")
	}
	if name == "" {
		return &s.reports[0], nil
	}
	for i := range s.reports {
		if s.reports[i].Name == name {
			return &s.reports[i], nil
		}
	}
	return nil, fmt.Errorf("unknown project: %s", name)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
