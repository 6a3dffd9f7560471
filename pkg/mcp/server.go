// Package mcp exposes a finished workspace analysis over the Model Context
// Protocol, so agents can query the component graph without re-parsing the
// report JSON themselves.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/tim-richter/spinne/pkg/mcplog"
	"github.com/tim-richter/spinne/pkg/workspace"
)

const serverVersion = "2.0.0"

// Server implements the MCP server over a set of project reports.
type Server struct {
	mcpServer *server.MCPServer
	reports   []workspace.Report
	logger    *mcplog.Logger // may be nil: tool-call logging disabled
}

// NewServer creates an MCP server backed by the given reports. logger may
// be nil.
func NewServer(reports []workspace.Report, logger *mcplog.Logger) *Server {
	s := &Server{reports: reports, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("spinne", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listProjectsTool(), Handler: s.handleListProjects},
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: componentUsagesTool(), Handler: s.handleComponentUsages},
		server.ServerTool{Tool: projectEdgesTool(), Handler: s.handleProjectEdges},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
