package workspace

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval groups rapid editor save bursts into one re-analysis.
const debounceInterval = 300 * time.Millisecond

// Watcher re-runs the workspace analysis whenever a source file changes.
//
// Events are debounced; each triggering file is evicted from the shared
// file cache so the next run reads fresh content.
type Watcher struct {
	analyzer *Analyzer
	entry    string
	opts     Options
	onReport func([]Report)
	logger   *slog.Logger

	fsWatcher *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher over the entry directory. onReport is called
// with the fresh reports after every successful re-analysis.
func NewWatcher(analyzer *Analyzer, entry string, opts Options, onReport func([]Report), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		analyzer:  analyzer,
		entry:     entry,
		opts:      opts,
		onReport:  onReport,
		logger:    logger,
		fsWatcher: fsWatcher,
	}, nil
}

// Run performs an initial analysis, then blocks handling change events
// until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsWatcher.Close()

	if err := w.addWatchDirs(); err != nil {
		return err
	}

	if err := w.reanalyze(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// addWatchDirs registers every directory under the entry recursively.
// fsnotify watches are not recursive on most platforms.
func (w *Watcher) addWatchDirs() error {
	return filepath.WalkDir(w.entry, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if name == "node_modules" || (strings.HasPrefix(name, ".") && path != w.entry) {
			return filepath.SkipDir
		}
		if werr := w.fsWatcher.Add(path); werr != nil {
			w.logger.Debug("failed to watch directory", "path", path, "error", werr)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !isSourceFile(event.Name) {
		// A new directory needs a watch of its own.
		if event.Op.Has(fsnotify.Create) {
			if werr := w.fsWatcher.Add(event.Name); werr == nil {
				w.logger.Debug("watching new directory", "path", event.Name)
			}
		}
		return
	}

	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("source change detected", "file", event.Name, "op", event.Op.String())
	w.analyzer.files.Evict(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceInterval, func() {
		if err := w.reanalyze(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error("re-analysis failed", "error", err)
		}
	})
}

func (w *Watcher) reanalyze(ctx context.Context) error {
	start := time.Now()
	reports, err := w.analyzer.AnalyzeWorkspace(ctx, w.entry, w.opts)
	if err != nil {
		return err
	}

	w.logger.Info("analysis refreshed",
		"projects", len(reports),
		"duration", time.Since(start).Round(time.Millisecond))

	if w.onReport != nil {
		w.onReport(reports)
	}
	return nil
}

func isSourceFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx", ".js", ".jsx":
		return true
	default:
		return false
	}
}
