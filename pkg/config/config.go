// Package config loads the per-project spinne.json configuration file and
// merges it with CLI-supplied patterns.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ErrConfigParse marks a malformed spinne.json. It is fatal at the entry
// point: a project that ships a config file means it to be honored.
var ErrConfigParse = errors.New("failed to parse config file")

// FileName is the per-project configuration file name.
const FileName = "spinne.json"

// DefaultInclude is the default include glob set.
var DefaultInclude = []string{"**/*.tsx"}

// DefaultExclude is the default exclude glob set: build output, vendored
// dependencies, and test/story files that instantiate components outside
// production render trees.
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/dist/**",
	"**/build/**",
	"**/*.stories.tsx",
	"**/*.test.tsx",
	"**/*.spec.tsx",
}

// Config is the parsed spinne.json content.
type Config struct {
	Include     []string
	Exclude     []string
	EntryPoints []string
}

// Load reads spinne.json from the project root. A missing file is not an
// error (an empty Config is returned); a malformed one wraps
// ErrConfigParse.
func Load(projectRoot string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	path := filepath.Join(projectRoot, FileName)
	if _, err := os.Stat(path); err != nil {
		return &Config{}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		logger.Error("failed to read config file", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	cfg := &Config{
		Include:     v.GetStringSlice("include"),
		Exclude:     v.GetStringSlice("exclude"),
		EntryPoints: v.GetStringSlice("entry_points"),
	}

	logger.Debug("loaded config file",
		"path", path,
		"include", cfg.Include,
		"exclude", cfg.Exclude)

	return cfg, nil
}

// MergePatterns unions CLI-supplied patterns with config-file patterns.
// Order is preserved (CLI first) and duplicates are dropped so the
// discovery output stays deterministic.
func MergePatterns(cli, fromConfig []string) []string {
	seen := make(map[string]bool, len(cli)+len(fromConfig))
	merged := make([]string, 0, len(cli)+len(fromConfig))
	for _, pattern := range append(append([]string{}, cli...), fromConfig...) {
		if pattern == "" || seen[pattern] {
			continue
		}
		seen[pattern] = true
		merged = append(merged, pattern)
	}
	return merged
}
