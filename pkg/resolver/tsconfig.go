package resolver

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// TSConfig models the subset of tsconfig.json the resolver cares about:
// compilerOptions.baseUrl and compilerOptions.paths.
type TSConfig struct {
	// BaseDir is the directory path mappings are rooted at: baseUrl joined
	// onto the tsconfig directory, or the tsconfig directory itself when no
	// baseUrl is set.
	BaseDir string

	// Paths maps specifier patterns ("@ui/*") to substitution targets.
	Paths map[string][]string

	// patterns holds the Paths keys in lexical order; map iteration order
	// would make resolution non-deterministic.
	patterns []string
}

type tsconfigFile struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// LoadTSConfig reads the project's tsconfig.json (tsconfig.base.json is
// preferred when both exist, matching Nx-style monorepos). Returns nil when
// the project has no tsconfig or it cannot be parsed; path mapping is then
// simply disabled.
func LoadTSConfig(projectRoot string, logger *slog.Logger) *TSConfig {
	if logger == nil {
		logger = slog.Default()
	}

	var cfg tsconfigFile
	var found bool
	var dir string
	for _, name := range []string{"tsconfig.base.json", "tsconfig.json"} {
		path := filepath.Join(projectRoot, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			logger.Warn("failed to parse tsconfig", "path", path, "error", err)
			return nil
		}
		found = true
		dir = projectRoot
		break
	}
	if !found {
		return nil
	}

	baseDir := dir
	if cfg.CompilerOptions.BaseURL != "" {
		baseDir = filepath.Clean(filepath.Join(dir, cfg.CompilerOptions.BaseURL))
	}

	patterns := make([]string, 0, len(cfg.CompilerOptions.Paths))
	for pattern := range cfg.CompilerOptions.Paths {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	return &TSConfig{
		BaseDir:  baseDir,
		Paths:    cfg.CompilerOptions.Paths,
		patterns: patterns,
	}
}

// Patterns returns the path-mapping patterns in lexical order.
func (c *TSConfig) Patterns() []string {
	if c == nil {
		return nil
	}
	return c.patterns
}
