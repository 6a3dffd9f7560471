package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/tim-richter/spinne/pkg/config"
	"github.com/tim-richter/spinne/pkg/extractor"
	"github.com/tim-richter/spinne/pkg/graph"
	"github.com/tim-richter/spinne/pkg/registry"
	"github.com/tim-richter/spinne/pkg/resolver"
	"github.com/tim-richter/spinne/pkg/util"
)

type pipelineStats struct {
	filesDiscovered int
	parseErrors     int
	ioErrors        int
}

// projectPipeline runs C2–C7 for one project: discovery, parallel
// extraction, and graph building.
type projectPipeline struct {
	analyzer *Analyzer
	project  *Project
	projects []*Project
	resolve  *resolver.Resolver
	follow   *registry.Follower
	include  []string
	exclude  []string
	logger   *slog.Logger
}

func newProjectPipeline(a *Analyzer, project *Project, projects []*Project, opts Options) (*projectPipeline, error) {
	cfg, err := config.Load(project.Root, a.logger)
	if err != nil {
		return nil, err
	}

	cliInclude := opts.Include
	if len(cliInclude) == 0 {
		cliInclude = config.DefaultInclude
	}
	cliExclude := opts.Exclude
	if len(cliExclude) == 0 {
		cliExclude = config.DefaultExclude
	}

	tsconfig := resolver.LoadTSConfig(project.Root, a.logger)
	resolve := resolver.NewResolver(tsconfig, a.logger)

	return &projectPipeline{
		analyzer: a,
		project:  project,
		projects: projects,
		resolve:  resolve,
		follow:   registry.NewFollower(a.extract, resolve, a.files, a.logger),
		include:  config.MergePatterns(cliInclude, cfg.Include),
		exclude:  config.MergePatterns(cliExclude, cfg.Exclude),
		logger:   a.logger,
	}, nil
}

// run executes the pipeline. The graph-merge step runs strictly after all
// files have produced their usage sites (fan-in barrier), in sorted file
// order, so parallel extraction cannot change the logical graph.
func (p *projectPipeline) run(ctx context.Context) (*graph.ComponentGraph, pipelineStats, error) {
	var stats pipelineStats

	files, err := DiscoverFiles(p.project.Root, p.include, p.exclude, p.logger)
	if err != nil {
		return nil, stats, err
	}
	stats.filesDiscovered = len(files)

	componentGraph := graph.New()
	if len(files) == 0 {
		return componentGraph, stats, nil
	}

	results, err := p.extractAll(ctx, files, &stats)
	if err != nil {
		return nil, stats, err
	}

	paths := make([]string, 0, len(results))
	for path := range results {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		p.mergeFile(componentGraph, results[path])
	}

	return componentGraph, stats, nil
}

// extractAll fans the file list out over the worker pool and collects every
// outcome. Per-file failures are logged and recorded in stats, never fatal.
func (p *projectPipeline) extractAll(ctx context.Context, files []string, stats *pipelineStats) (map[string]*extractor.FileResult, error) {
	pool := NewWorkerPool(0, p.analyzer.extract, p.analyzer.files, p.logger)
	pool.Start()
	defer pool.Stop()

	// Propagate caller cancellation into the pool so a blocked Submit
	// unblocks when the run is cancelled mid-project.
	stopWatch := context.AfterFunc(ctx, pool.cancel)
	defer stopWatch()

	results := make(map[string]*extractor.FileResult, len(files))
	done := make(chan struct{})
	total := len(files)

	// The collector must start before jobs are submitted: submission blocks
	// once the jobs channel fills, and nothing would drain the results.
	go func() {
		defer close(done)
		received := 0
		for received < total {
			select {
			case <-ctx.Done():
				return
			case outcome := <-pool.Results():
				results[outcome.FilePath] = outcome.Result
				received++
			case fileErr := <-pool.Errors():
				received++
				var parseErr *extractor.ParseError
				if errors.As(fileErr.Err, &parseErr) {
					stats.parseErrors++
					p.logger.Warn("skipping file with syntax errors",
						"file", parseErr.File,
						"line", parseErr.Line,
						"column", parseErr.Column)
				} else {
					stats.ioErrors++
					p.logger.Warn("skipping unreadable file",
						"file", fileErr.FilePath,
						"error", fileErr.Err)
				}
			}
		}
	}()

	for i, file := range files {
		if err := pool.Submit(FileJob{FilePath: file, JobID: i}); err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return nil, cerr
			}
			return nil, err
		}
	}
	pool.FinishSubmitting()

	<-done
	if err := ctx.Err(); err != nil {
		// Partial results are discarded on cancellation.
		return nil, err
	}

	return results, nil
}

// mergeFile folds one file's definitions and usage sites into the graph.
func (p *projectPipeline) mergeFile(componentGraph *graph.ComponentGraph, fr *extractor.FileResult) {
	canonFile := util.CanonicalPath(fr.FilePath)

	for _, def := range fr.Definitions {
		p.ensureNode(componentGraph, p.project, canonFile, def.Name)
	}

	for _, usage := range fr.Usages {
		callee, calleeProject := p.resolveCallee(componentGraph, fr, canonFile, usage)
		if callee == nil {
			continue
		}

		caller := p.ensureNode(componentGraph, p.project, canonFile, usage.ContainingName)

		projectContext := p.project.Name
		if calleeProject.Root != p.project.Root {
			projectContext = calleeProject.Name
		}

		componentGraph.AddEdge(caller.ID, callee.ID, projectContext)

		names := propNames(usage.Props)
		componentGraph.RecordUsage(caller.ID, callee.ID, names, usage.HasSpread)
		p.analyzer.registry.AddProps(callee.ID, names...)
	}
}

// resolveCallee maps a usage site's tag to a registered component and its
// defining project.
//
// Resolution order mirrors language scoping: an imported binding shadows a
// same-named local declaration; a lowercase unimported tag is a host
// element; a capitalized unbound tag falls back to a local declaration and
// is otherwise dropped (dynamic tag).
func (p *projectPipeline) resolveCallee(componentGraph *graph.ComponentGraph, fr *extractor.FileResult, canonFile string, usage extractor.UsageSite) (*registry.ComponentDefinition, *Project) {
	segments := strings.Split(usage.Tag, ".")
	first := segments[0]

	if record, ok := fr.Imports[first]; ok {
		return p.resolveImported(componentGraph, fr, record, segments)
	}

	if !util.IsPascalCase(first) {
		// Host DOM element: excluded from the graph.
		return nil, nil
	}

	if _, ok := fr.FindDefinition(first); ok {
		return p.ensureNode(componentGraph, p.project, canonFile, first), p.project
	}

	p.logger.Debug("dropping unresolvable tag",
		"tag", usage.Tag,
		"file", fr.FilePath)
	return nil, nil
}

func (p *projectPipeline) resolveImported(componentGraph *graph.ComponentGraph, fr *extractor.FileResult, record extractor.ImportRecord, segments []string) (*registry.ComponentDefinition, *Project) {
	target, ok := p.resolve.Resolve(fr.FilePath, record.Module)
	if !ok {
		// Bare module: the import stays attributable, but no node is made.
		p.logger.Debug("usage resolves to bare module",
			"tag", strings.Join(segments, "."),
			"module", record.Module)
		return nil, nil
	}

	var exportedName string
	switch record.Kind {
	case extractor.ImportKindNamed:
		exportedName = record.ImportedName
	case extractor.ImportKindDefault:
		exportedName = "default"
	case extractor.ImportKindNamespace:
		if len(segments) < 2 {
			p.logger.Debug("namespace used as a bare tag, dropping",
				"tag", segments[0])
			return nil, nil
		}
		exportedName = segments[1]
	}

	originFile, originName, err := p.follow.Origin(target, exportedName)
	if err != nil {
		var cycle *registry.CycleError
		if errors.As(err, &cycle) {
			p.logger.Warn("re-export cycle detected", "error", cycle)
		} else {
			p.logger.Debug("could not trace binding to its origin",
				"file", target,
				"name", exportedName,
				"error", err)
		}
		return nil, nil
	}

	owner := projectFor(p.projects, originFile)
	if owner == nil {
		owner = p.project
	}

	return p.ensureNode(componentGraph, owner, originFile, originName), owner
}

// ensureNode registers the component in the shared registry and upserts the
// corresponding node into this project's graph.
func (p *projectPipeline) ensureNode(componentGraph *graph.ComponentGraph, owner *Project, file, name string) *registry.ComponentDefinition {
	def := p.analyzer.registry.Ensure(owner.Root, file, name)
	componentGraph.AddComponent(graph.Component{
		ID:      def.ID,
		Name:    name,
		Path:    util.ProjectRelative(owner.Root, file),
		Project: owner.Name,
	})
	return def
}

func propNames(props []extractor.Prop) []string {
	names := make([]string, 0, len(props))
	for _, prop := range props {
		names = append(names, prop.Name)
	}
	return names
}
