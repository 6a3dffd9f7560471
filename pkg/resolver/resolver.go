// Package resolver turns module specifiers into absolute, canonical file
// paths, following relative imports, tsconfig path mappings, extension
// inference, and index fallbacks.
//
// Bare specifiers (third-party packages) are intentionally opaque: they stay
// in the imports table so JSX usage can be attributed to an import, but they
// never resolve to a file and never become graph nodes.
package resolver

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tim-richter/spinne/pkg/util"
)

// candidateSuffixes is the probe order for a specifier without a usable
// extension: the raw path, then extension inference, then index fallback.
var candidateSuffixes = []string{
	"", ".tsx", ".ts", ".jsx", ".js",
	"/index.tsx", "/index.ts", "/index.jsx", "/index.js",
}

// cacheSize bounds the resolved-specifier cache. A large project resolves
// the same handful of specifiers from many importing files, so even a
// modest cache removes nearly all repeated filesystem probing.
const cacheSize = 4096

// Resolver resolves module specifiers relative to an importing file.
//
// Safe for concurrent use: the underlying LRU is synchronized and the rest
// of the state is immutable after construction.
type Resolver struct {
	tsconfig *TSConfig
	cache    *lru.Cache[string, string]
	logger   *slog.Logger
}

// NewResolver creates a resolver for one project. tsconfig may be nil, which
// disables path mapping.
func NewResolver(tsconfig *TSConfig, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, string](cacheSize)

	return &Resolver{
		tsconfig: tsconfig,
		cache:    cache,
		logger:   logger,
	}
}

// Resolve resolves a module specifier from the given importing file.
//
// Returns the canonical absolute target path, or ok=false when the
// specifier does not resolve to a file on disk (bare module, missing file).
//
// Resolution order:
//  1. Relative ("./x", "../x"): joined against the importer directory with
//     extension and index probing.
//  2. Path-mapped: tsconfig paths patterns in lexical order, `*` bound
//     greedily, the substituted base resolved relative to baseUrl.
//  3. Anything else is bare → unresolved.
func (r *Resolver) Resolve(importerPath, specifier string) (string, bool) {
	key := filepath.Dir(importerPath) + "\x00" + specifier
	if cached, ok := r.cache.Get(key); ok {
		return cached, cached != ""
	}

	resolved := r.resolve(importerPath, specifier)
	r.cache.Add(key, resolved)
	return resolved, resolved != ""
}

func (r *Resolver) resolve(importerPath, specifier string) string {
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		base := filepath.Join(filepath.Dir(importerPath), specifier)
		return probeCandidates(base)
	}

	if target := r.resolvePathMapped(specifier); target != "" {
		return target
	}

	r.logger.Debug("bare specifier left unresolved", "specifier", specifier)
	return ""
}

// resolvePathMapped tries the tsconfig paths patterns in lexical order.
func (r *Resolver) resolvePathMapped(specifier string) string {
	if r.tsconfig == nil {
		return ""
	}

	for _, pattern := range r.tsconfig.Patterns() {
		matched, wildcard := matchPattern(pattern, specifier)
		if !matched {
			continue
		}
		for _, target := range r.tsconfig.Paths[pattern] {
			substituted := strings.Replace(target, "*", wildcard, 1)
			base := filepath.Join(r.tsconfig.BaseDir, substituted)
			if resolved := probeCandidates(base); resolved != "" {
				return resolved
			}
		}
	}
	return ""
}

// matchPattern matches a tsconfig paths pattern against a specifier.
// The single `*` wildcard is bound greedily (it captures everything between
// the literal prefix and suffix).
func matchPattern(pattern, specifier string) (bool, string) {
	star := strings.Index(pattern, "*")
	if star < 0 {
		return pattern == specifier, ""
	}

	prefix := pattern[:star]
	suffix := pattern[star+1:]
	if !strings.HasPrefix(specifier, prefix) || !strings.HasSuffix(specifier, suffix) {
		return false, ""
	}
	if len(specifier) < len(prefix)+len(suffix) {
		return false, ""
	}
	return true, specifier[len(prefix) : len(specifier)-len(suffix)]
}

// probeCandidates tries each candidate form of base in order and returns the
// canonical path of the first existing regular file.
func probeCandidates(base string) string {
	for _, suffix := range candidateSuffixes {
		candidate := base + suffix
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		return util.CanonicalPath(candidate)
	}
	return ""
}
