package extractor

import (
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/tim-richter/spinne/pkg/parser"
	"github.com/tim-richter/spinne/pkg/parser/queries"
)

// ParseError is a per-file syntactic failure. The pipeline records it,
// skips the file, and continues with the rest of the project.
type ParseError struct {
	File    string
	Line    uint32
	Column  uint32
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// Extractor performs unified extraction of imports, component definitions,
// re-exports, and JSX usage sites.
//
// Each file is parsed once; the import query and the definition/JSX walks
// all run on the same tree.
type Extractor struct {
	parsers *parser.Manager
	queries *queries.Manager
	logger  *slog.Logger
}

// NewExtractor creates a new extractor.
func NewExtractor(parsers *parser.Manager, queryManager *queries.Manager, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Extractor{
		parsers: parsers,
		queries: queryManager,
		logger:  logger,
	}
}

// ExtractFile parses a file once and extracts all information from the tree.
//
//  1. Detect language from the file extension
//  2. Parse (trees with syntax errors are rejected as ParseError)
//  3. Run the imports query → imports map
//  4. Scan top-level statements → definitions, re-exports, default export
//  5. Walk the tree → JSX usage sites attributed to enclosing definitions
//  6. Close the tree and return the FileResult
func (e *Extractor) ExtractFile(filePath string, sourceCode []byte) (*FileResult, error) {
	lang := parser.DetectLanguage(filePath)
	if lang == parser.LanguageUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", filePath)
	}

	isTSX := parser.IsTSXFile(filePath)

	tree, err := e.parsers.Parse(sourceCode, lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		perr := firstParseError(root, filePath)
		e.logger.Debug("parse tree contains errors",
			"file", filePath,
			"line", perr.Line,
			"column", perr.Column)
		return nil, perr
	}

	result := &FileResult{
		FilePath: filePath,
		Imports:  make(map[string]ImportRecord),
	}

	if err := e.extractImports(tree, sourceCode, lang, isTSX, result); err != nil {
		return nil, fmt.Errorf("import extraction failed for %s: %w", filePath, err)
	}

	e.extractModuleLevel(root, sourceCode, result)
	e.extractUsages(root, sourceCode, result)

	e.logger.Debug("extracted file",
		"file", filePath,
		"imports", len(result.Imports),
		"definitions", len(result.Definitions),
		"usages", len(result.Usages))

	return result, nil
}

// firstParseError locates the first ERROR or MISSING node in the tree and
// converts its position into a ParseError.
func firstParseError(node *ts.Node, filePath string) *ParseError {
	if node.IsError() || node.IsMissing() {
		pos := node.StartPosition()
		return &ParseError{
			File:    filePath,
			Line:    uint32(pos.Row) + 1,
			Column:  uint32(pos.Column),
			Message: "syntax error",
		}
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.HasError() {
			continue
		}
		if found := firstParseError(child, filePath); found != nil {
			return found
		}
	}
	// HasError was set but no ERROR node found below; report the node itself.
	pos := node.StartPosition()
	return &ParseError{
		File:    filePath,
		Line:    uint32(pos.Row) + 1,
		Column:  uint32(pos.Column),
		Message: "syntax error",
	}
}

// nodeLocation converts a tree-sitter node span into a Location.
func nodeLocation(node *ts.Node) Location {
	start := node.StartPosition()
	return Location{
		StartLine:   uint32(start.Row) + 1,
		StartColumn: uint32(start.Column),
		StartByte:   uint32(node.StartByte()),
		EndByte:     uint32(node.EndByte()),
	}
}
