package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tim-richter/spinne/pkg/config"
	"github.com/tim-richter/spinne/pkg/report"
	"github.com/tim-richter/spinne/pkg/util"
	"github.com/tim-richter/spinne/pkg/workspace"
)

var (
	flagEntry       string
	flagFormat      string
	flagInclude     []string
	flagExclude     []string
	flagEntryPoints []string
	flagFileName    string
	flagVerbosity   int
)

var rootCmd = &cobra.Command{
	Use:   "spinne",
	Short: "Analyze React/TypeScript projects into component graphs",
	Long: `spinne statically inspects the JSX of one or more React/TypeScript
projects and emits a directed graph of components and their usage
relationships. When several projects share a workspace, each project gets
its own graph and cross-project usages are attributed to the defining
project.`,
	Version:       "2.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalyze,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&flagEntry, "entry", "e", ".", "root directory to analyze")
	flags.StringSliceVar(&flagInclude, "include", config.DefaultInclude,
		"include directories/files with glob patterns (comma separated)")
	flags.StringSliceVar(&flagExclude, "exclude", config.DefaultExclude,
		"exclude directories/files with glob patterns (comma separated)")
	flags.StringSliceVar(&flagEntryPoints, "entry-points", nil,
		"entry files for the exports report (unused by the graph analysis)")
	flags.CountVarP(&flagVerbosity, "verbose", "l", "log verbosity (-l info, -ll debug)")

	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", string(report.FormatFile),
		"report output format: file, console, html, or json")
	rootCmd.Flags().StringVar(&flagFileName, "file-name", report.DefaultFileName,
		"output base name for the file and html formats")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := util.NewLogger(flagVerbosity)

	format, err := report.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	if len(flagEntryPoints) > 0 {
		logger.Warn("entry-points are only used by the exports report, which this build does not generate")
	}

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

	return report.Write(reports, format, flagFileName, logger)
}
