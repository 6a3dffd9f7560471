package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tim-richter/spinne/pkg/report"
	"github.com/tim-richter/spinne/pkg/util"
	"github.com/tim-richter/spinne/pkg/workspace"
)

var (
	flagWatchFormat   string
	flagWatchFileName string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis whenever a source file changes",
	Long: `watch performs an initial analysis and then keeps the report up to
date: every change to a matched source file triggers a debounced re-run and
rewrites the report in the chosen format.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&flagWatchFormat, "format", "f", string(report.FormatFile),
		"report output format: file, console, html, or json")
	watchCmd.Flags().StringVar(&flagWatchFileName, "file-name", report.DefaultFileName,
		"output base name for the file and html formats")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := util.NewLogger(flagVerbosity)

	format, err := report.ParseFormat(flagWatchFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	analyzer := workspace.NewAnalyzer(logger)
	defer analyzer.Close()

	onReport := func(reports []workspace.Report) {
		if werr := report.Write(reports, format, flagWatchFileName, logger); werr != nil {
			logger.Error("failed to write report", "error", werr)
		}
	}

	watcher, err := workspace.NewWatcher(analyzer, flagEntry, workspace.Options{
		Include: flagInclude,
		Exclude: flagExclude,
	}, onReport, logger)
	if err != nil {
		return err
	}

	logger.Info("watching for changes", "entry", flagEntry)
	err = watcher.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
