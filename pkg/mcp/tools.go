package mcp

import "github.com/mark3labs/mcp-go/mcp"

func listProjectsTool() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("List the analyzed projects with component and edge counts"),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List components of a project, optionally filtered by a name substring"),
		mcp.WithString("project",
			mcp.Description("Project name; defaults to the first project"),
		),
		mcp.WithString("query",
			mcp.Description("Case-insensitive substring filter on component names"),
		),
	)
}

func componentUsagesTool() mcp.Tool {
	return mcp.NewTool("component_usages",
		mcp.WithDescription("Show which components use the given component, with the edge's project context"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Component name or id"),
		),
		mcp.WithString("project",
			mcp.Description("Limit the search to one project"),
		),
	)
}

func projectEdgesTool() mcp.Tool {
	return mcp.NewTool("project_edges",
		mcp.WithDescription("List the directed component edges of a project, including cross-project attribution"),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project name"),
		),
	)
}
