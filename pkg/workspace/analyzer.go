package workspace

import (
	"context"
	"log/slog"

	"github.com/tim-richter/spinne/pkg/extractor"
	"github.com/tim-richter/spinne/pkg/graph"
	"github.com/tim-richter/spinne/pkg/parser"
	"github.com/tim-richter/spinne/pkg/parser/queries"
	"github.com/tim-richter/spinne/pkg/registry"
	"github.com/tim-richter/spinne/pkg/util"
)

// Options carries the CLI-level knobs into the pipeline. Include/Exclude
// are unioned with each project's spinne.json patterns.
type Options struct {
	Include []string
	Exclude []string
}

// Report is one project's serialized analysis result, the unit of the
// canonical report schema.
type Report struct {
	Name  string          `json:"name"`
	Graph graph.GraphJSON `json:"graph"`
}

// Analyzer owns the process-wide analysis infrastructure: parser pools,
// compiled queries, the file cache, and the shared component registry.
//
// The registry is shared across projects so that two projects referencing
// the same canonical file agree on component ids.
type Analyzer struct {
	parsers  *parser.Manager
	queries  *queries.Manager
	extract  *extractor.Extractor
	files    *util.FileCache
	registry *registry.Registry
	logger   *slog.Logger
}

// NewAnalyzer creates an analyzer. Close must be called to release the
// parser pools and file mappings.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}

	parsers := parser.NewManager(logger)
	queryManager := queries.NewManager(parsers, logger)

	return &Analyzer{
		parsers:  parsers,
		queries:  queryManager,
		extract:  extractor.NewExtractor(parsers, queryManager, logger),
		files:    util.NewFileCache(logger),
		registry: registry.NewRegistry(logger),
		logger:   logger,
	}
}

// Close releases parser pools, compiled queries, and file mappings.
func (a *Analyzer) Close() error {
	a.queries.Close()
	a.parsers.Close()
	return a.files.Close()
}

// AnalyzeWorkspace runs the full pipeline: project discovery, then the
// per-project pipeline in workspace lexical order, emitting one report per
// project.
//
// Fatal errors (invalid root, malformed config, zero files across the whole
// workspace) abort the run; per-file failures are logged, counted, and
// skipped.
func (a *Analyzer) AnalyzeWorkspace(ctx context.Context, entry string, opts Options) ([]Report, error) {
	projects, err := DiscoverProjects(entry, opts.Exclude, a.logger)
	if err != nil {
		return nil, err
	}

	a.logger.Info("analyzing workspace", "entry", entry, "projects", len(projects))

	reports := make([]Report, 0, len(projects))
	totalFiles := 0
	totalParseErrors := 0

	for _, project := range projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pipeline, err := newProjectPipeline(a, project, projects, opts)
		if err != nil {
			return nil, err
		}

		componentGraph, stats, err := pipeline.run(ctx)
		if err != nil {
			return nil, err
		}

		totalFiles += stats.filesDiscovered
		totalParseErrors += stats.parseErrors

		reports = append(reports, Report{
			Name:  project.Name,
			Graph: componentGraph.Serializable(),
		})

		a.logger.Info("project analysis complete",
			"project", project.Name,
			"files", stats.filesDiscovered,
			"components", componentGraph.NodeCount(),
			"edges", componentGraph.EdgeCount())
	}

	if totalFiles == 0 {
		return nil, ErrNoFiles
	}

	if totalParseErrors > 0 {
		a.logger.Warn("some files failed to parse and were skipped",
			"parse_errors", totalParseErrors)
	}

	return reports, nil
}
