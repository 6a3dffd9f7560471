// Package queries provides tree-sitter query compilation, caching, and
// execution for the import extraction pass.
package queries

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/tim-richter/spinne/pkg/parser"
)

// queryKey uniquely identifies a compiled query (language + TSX variant).
// The TSX grammar is a distinct grammar, so a query compiled against plain
// TypeScript cannot run on a TSX tree.
type queryKey struct {
	lang  parser.Language
	isTSX bool
}

// Manager compiles and caches the import-extraction queries.
//
//   - Lazy compilation: queries compiled on first use per grammar
//   - Thread-safe caching via sync.RWMutex
//   - Queries freed via Close()
type Manager struct {
	parsers *parser.Manager
	cache   map[queryKey]*ts.Query
	mutex   sync.RWMutex
	logger  *slog.Logger
}

// NewManager creates a new query manager.
//
// The parser manager is required to access the grammar pointers for query
// compilation. Logger can be nil (falls back to slog.Default()).
func NewManager(parsers *parser.Manager, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		parsers: parsers,
		cache:   make(map[queryKey]*ts.Query),
		logger:  logger,
	}
}

// ImportsQuery returns the compiled import-extraction query for the given
// grammar. Compiled lazily on first access, cached afterwards. Thread-safe.
func (m *Manager) ImportsQuery(lang parser.Language, isTSX bool) (*ts.Query, error) {
	key := queryKey{lang: lang, isTSX: isTSX}

	// Fast path: already compiled (read lock)
	m.mutex.RLock()
	query, exists := m.cache[key]
	m.mutex.RUnlock()

	if exists {
		return query, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Double-check: another goroutine may have compiled it
	if query, exists = m.cache[key]; exists {
		return query, nil
	}

	queryString, err := importsQueryString(lang)
	if err != nil {
		return nil, err
	}

	langPtr, err := m.parsers.LanguagePointer(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get language pointer for %s: %w", lang, err)
	}

	tsLang := ts.NewLanguage(langPtr)

	query, qerr := ts.NewQuery(tsLang, queryString)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile imports query for %s: %s", lang, qerr.Message)
	}

	m.cache[key] = query

	m.logger.Debug("compiled imports query",
		"language", lang.String(),
		"isTSX", isTSX)

	return query, nil
}

func importsQueryString(lang parser.Language) (string, error) {
	switch lang {
	case parser.LanguageTypeScript:
		return TSImports, nil
	case parser.LanguageJavaScript:
		return JSImports, nil
	default:
		return "", fmt.Errorf("unsupported language for imports query: %s", lang)
	}
}

// Execute runs a compiled query on a parse tree and returns structured
// matches.
func (m *Manager) Execute(tree *ts.Tree, query *ts.Query, source []byte) ([]Match, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	iter := cursor.Matches(query, tree.RootNode(), source)
	captureNames := query.CaptureNames()

	var matches []Match
	for {
		match := iter.Next()
		if match == nil {
			break
		}

		var captures []Capture
		for _, capture := range match.Captures {
			var captureName string
			if int(capture.Index) < len(captureNames) {
				captureName = captureNames[capture.Index]
			}

			category, field := parseCaptureName(captureName)

			captures = append(captures, Capture{
				Name:     captureName,
				Category: category,
				Field:    field,
				Node:     &capture.Node,
				Text:     capture.Node.Utf8Text(source),
			})
		}

		matches = append(matches, Match{
			PatternIndex: uint32(match.PatternIndex),
			Captures:     captures,
		})
	}

	return matches, nil
}

// Close releases all compiled queries. The Manager cannot be used afterwards.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for key, query := range m.cache {
		if query != nil {
			query.Close()
		}
		delete(m.cache, key)
	}

	return nil
}

// Match represents a single pattern match from query execution.
type Match struct {
	// PatternIndex identifies which query pattern matched
	PatternIndex uint32

	// Captures contains all captured nodes for this match
	Captures []Capture
}

// Capture represents a single captured node from a query match.
type Capture struct {
	// Name is the full capture name (e.g., "import.named")
	Name string

	// Category is the first part of the capture name (e.g., "import")
	Category string

	// Field is the rest of the capture name (e.g., "named");
	// empty when the name has no dot
	Field string

	// Node is the captured AST node
	Node *ts.Node

	// Text is the source code text of the captured node
	Text string
}

// parseCaptureName splits a capture name like "import.named" into
// ("import", "named"). If the name has no dot, returns (name, "").
func parseCaptureName(name string) (category, field string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return name, ""
}
