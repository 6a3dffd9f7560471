package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	mcpserver "github.com/tim-richter/spinne/pkg/mcp"
	"github.com/tim-richter/spinne/pkg/mcplog"
	"github.com/tim-richter/spinne/pkg/util"
	"github.com/tim-richter/spinne/pkg/workspace"
)

var flagMCPLog string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Analyze the workspace and serve the graph over MCP (stdio)",
	Long: `serve runs the analysis once and exposes the resulting component
graphs as MCP tools on stdin/stdout, so agents can query components, usages,
and cross-project edges without parsing the report themselves.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagMCPLog, "mcp-log", "",
		"append a JSONL record per MCP tool call to this file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := util.NewLogger(flagVerbosity)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	analyzer := workspace.NewAnalyzer(logger)
	defer analyzer.Close()

	reports, err := analyzer.AnalyzeWorkspace(ctx, flagEntry, workspace.Options{
		Include: flagInclude,
		Exclude: flagExclude,
	})
	if err != nil {
		return err
	}

	toolLog, err := mcplog.NewLogger(flagMCPLog)
	if err != nil {
		return err
	}
	if toolLog != nil {
		defer toolLog.Close()
	}

	logger.Info("serving component graphs over MCP", "projects", len(reports))
	return mcpserver.NewServer(reports, toolLog).ServeStdio()
}
