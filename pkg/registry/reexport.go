package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tim-richter/spinne/pkg/extractor"
	"github.com/tim-richter/spinne/pkg/resolver"
	"github.com/tim-richter/spinne/pkg/util"
)

// maxFollowDepth bounds re-export chains. Barrel-of-barrels setups rarely
// nest more than three or four levels; the bound only exists to terminate
// pathological cycles.
const maxFollowDepth = 16

// ErrOriginNotFound marks a binding that could not be traced to a defining
// file: a broken barrel entry or an export of something that is not a
// component.
var ErrOriginNotFound = errors.New("origin not found")

// CycleError is returned when a re-export chain exceeds the follow depth.
type CycleError struct {
	File string
	Name string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("re-export depth exceeded while following %q from %s", e.Name, e.File)
}

// fileExports is the cached per-file export surface used by Origin.
type fileExports struct {
	definitions   map[string]bool
	defaultExport string
	reexports     []extractor.ReexportRecord
	isTSX         bool
}

// exportCacheSize bounds the per-file export table cache. Barrel files sit
// on the import path of many consumers, so nearly every lookup after the
// first is a hit.
const exportCacheSize = 1024

// Follower traces an exported name through `export ... from` chains to the
// file that originally defines it, so that a component imported through a
// barrel gets the id of its original definition site.
type Follower struct {
	extract *extractor.Extractor
	resolve *resolver.Resolver
	files   *util.FileCache
	tables  *lru.Cache[string, *fileExports]
	logger  *slog.Logger
}

// NewFollower creates a re-export follower. files may be shared with the
// worker pool; the follower only reads through it.
func NewFollower(extract *extractor.Extractor, resolve *resolver.Resolver, files *util.FileCache, logger *slog.Logger) *Follower {
	if logger == nil {
		logger = slog.Default()
	}
	tables, _ := lru.New[string, *fileExports](exportCacheSize)
	return &Follower{
		extract: extract,
		resolve: resolve,
		files:   files,
		tables:  tables,
		logger:  logger,
	}
}

// Origin resolves (filePath, exportedName) to the canonical file and name
// of the original definition.
//
// A .tsx file that defines the name ends the chase. Barrel files (.ts
// re-export indexes) are followed through named and star re-exports up to
// the depth bound; exceeding it returns a CycleError and the caller treats
// the binding as unresolved.
func (f *Follower) Origin(filePath, exportedName string) (string, string, error) {
	return f.origin(filePath, exportedName, 0)
}

func (f *Follower) origin(filePath, exportedName string, depth int) (string, string, error) {
	if depth > maxFollowDepth {
		return "", "", &CycleError{File: filePath, Name: exportedName}
	}

	table, err := f.exportsOf(filePath)
	if err != nil {
		return "", "", err
	}

	// The file defines the name itself: chase over.
	if table.definitions[exportedName] {
		return filePath, exportedName, nil
	}
	if exportedName == "default" && table.defaultExport != "" {
		return filePath, table.defaultExport, nil
	}

	// Named re-export: export { Button } from './Button'.
	for _, re := range table.reexports {
		if re.Star || re.LocalName != exportedName {
			continue
		}
		target, ok := f.resolve.Resolve(filePath, re.Module)
		if !ok {
			return "", "", ErrOriginNotFound
		}
		return f.origin(target, re.SourceName, depth+1)
	}

	// Star re-exports: try each in order until one chain finds the name.
	for _, re := range table.reexports {
		if !re.Star {
			continue
		}
		target, ok := f.resolve.Resolve(filePath, re.Module)
		if !ok {
			continue
		}
		file, name, err := f.origin(target, exportedName, depth+1)
		if err == nil {
			return file, name, nil
		}
		var cycle *CycleError
		if errors.As(err, &cycle) {
			return "", "", err
		}
	}

	// TSX files are definition sites, not barrels; if the name is neither
	// defined nor re-exported here the extraction simply did not classify
	// it as a component (e.g. a styled wrapper). Attribute it to this file
	// anyway, matching how an unexported helper would be keyed.
	if table.isTSX {
		return filePath, exportedName, nil
	}

	return "", "", ErrOriginNotFound
}

// exportsOf returns the cached export table of a file, extracting it on
// first access.
func (f *Follower) exportsOf(filePath string) (*fileExports, error) {
	if cached, ok := f.tables.Get(filePath); ok {
		return cached, nil
	}

	source, err := f.files.Read(filePath)
	if err != nil {
		return nil, err
	}

	result, err := f.extract.ExtractFile(filePath, source)
	if err != nil {
		return nil, err
	}

	table := &fileExports{
		definitions:   make(map[string]bool, len(result.Definitions)),
		defaultExport: result.DefaultExport,
		reexports:     result.Reexports,
		isTSX:         strings.HasSuffix(filePath, ".tsx"),
	}
	for _, def := range result.Definitions {
		table.definitions[def.Name] = true
	}

	f.tables.Add(filePath, table)
	return table, nil
}
