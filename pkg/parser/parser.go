// Package parser manages tree-sitter parsers for the TSX analysis pipeline.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// poolKey uniquely identifies a parser pool (language + TSX variant).
type poolKey struct {
	lang  Language
	isTSX bool
}

// Manager manages tree-sitter parsers for TypeScript/TSX/JavaScript with
// lazy initialization and thread-safe concurrent access.
//
// Memory management:
//   - Parser pools are created lazily on first use per grammar
//   - Manager owns parser pool instances and must be closed via Close()
//   - Callers own Tree instances and must call tree.Close() after use
//
// Thread safety:
//   - Multiple goroutines can parse the same language simultaneously;
//     each grammar keeps a pool of parsers up to the shared pool size
//   - Pool creation is synchronized with write locks
type Manager struct {
	pools  map[poolKey]*parserPool
	mutex  sync.RWMutex
	logger *slog.Logger
}

// NewManager creates a new parser Manager.
//
// The returned manager must be closed via Close() to free resources.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		pools:  make(map[poolKey]*parserPool),
		logger: logger,
	}
}

// Parse parses source code using the specified language grammar.
//
// The isTSX parameter is only relevant for TypeScript - it enables JSX
// support. For JavaScript the grammar handles JSX natively and isTSX is
// ignored.
//
// Returns a Tree that MUST be closed by the caller via tree.Close().
// A tree with syntax errors is still returned; callers that need to reject
// broken files check tree.RootNode().HasError() themselves.
func (m *Manager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pool, err := m.getOrCreatePool(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}

	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}

	return tree, nil
}

// ParseFile is a convenience method that parses a file by detecting its
// language from the file path.
//
// Returns a Tree that MUST be closed by the caller via tree.Close().
func (m *Manager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	return m.Parse(source, lang, IsTSXFile(filePath))
}

// Close releases all parser pool resources.
//
// MUST be called when the Manager is no longer needed.
// After Close(), the Manager cannot be used.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for key, pool := range m.pools {
		if pool != nil {
			pool.close()
			m.logger.Debug("closed parser pool",
				"language", key.lang.String(),
				"isTSX", key.isTSX)
		}
	}

	m.pools = make(map[poolKey]*parserPool)

	return nil
}

// getOrCreatePool returns an existing parser pool or creates a new one.
// Thread-safe using double-checked locking.
func (m *Manager) getOrCreatePool(lang Language, isTSX bool) (*parserPool, error) {
	key := poolKey{lang: lang, isTSX: isTSX}

	// Fast path: pool already exists (read lock)
	m.mutex.RLock()
	pool, exists := m.pools[key]
	m.mutex.RUnlock()

	if exists {
		return pool, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Double-check: another goroutine may have created it
	if pool, exists = m.pools[key]; exists {
		return pool, nil
	}

	langPtr, err := m.LanguagePointer(lang, isTSX)
	if err != nil {
		return nil, err
	}

	poolSize := getDefaultPoolSize()
	pool = newParserPool(lang, langPtr, isTSX, poolSize, m.logger)
	m.pools[key] = pool

	m.logger.Debug("created new parser pool",
		"language", lang.String(),
		"isTSX", isTSX,
		"maxSize", poolSize)

	return pool, nil
}

// LanguagePointer returns the unsafe.Pointer to the tree-sitter grammar.
//
// Used by the query layer to compile queries against the same grammar the
// trees were parsed with. The isTSX parameter is only relevant for
// TypeScript.
func (m *Manager) LanguagePointer(lang Language, isTSX bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil

	case LanguageJavaScript:
		return ts_javascript.Language(), nil

	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}
