package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/tim-richter/spinne/pkg/parser"
)

// extractImports runs the imports query and folds the matches into the
// file's imports map (local name → ImportRecord).
//
// A single import statement yields several matches (one per specifier plus
// one for the source string); specifier captures are tied back to their
// enclosing import_statement through the AST rather than across matches.
func (e *Extractor) extractImports(tree *ts.Tree, sourceCode []byte, lang parser.Language, isTSX bool, result *FileResult) error {
	query, err := e.queries.ImportsQuery(lang, isTSX)
	if err != nil {
		return err
	}

	matches, err := e.queries.Execute(tree, query, sourceCode)
	if err != nil {
		return err
	}

	type statementInfo struct {
		source   string
		typeOnly bool
	}

	// First pass: collect per-statement source and type-only markers,
	// keyed by the statement's byte offset.
	statements := make(map[uint32]*statementInfo)
	stmtInfo := func(node *ts.Node) *statementInfo {
		stmt := enclosingKind(node, "import_statement")
		if stmt == nil {
			return nil
		}
		key := uint32(stmt.StartByte())
		info, ok := statements[key]
		if !ok {
			info = &statementInfo{}
			statements[key] = info
		}
		return info
	}

	for _, match := range matches {
		for _, capture := range match.Captures {
			info := stmtInfo(capture.Node)
			if info == nil {
				continue
			}
			switch capture.Name {
			case "import.source":
				info.source = capture.Text
			case "import.type.marker":
				info.typeOnly = true
			}
		}
	}

	// Second pass: build ImportRecords, skipping type-only bindings (a type
	// can never be a JSX tag).
	for _, match := range matches {
		for _, capture := range match.Captures {
			info := stmtInfo(capture.Node)
			if info == nil || info.source == "" || info.typeOnly {
				continue
			}

			switch capture.Name {
			case "import.named":
				spec := capture.Node.Parent() // import_specifier
				if spec != nil && specifierIsTypeOnly(spec, sourceCode) {
					continue
				}
				local := capture.Text
				imported := capture.Text
				// An alias renames the local binding: import { Button as Btn }.
				if spec != nil {
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						local = alias.Utf8Text(sourceCode)
					}
				}
				result.Imports[local] = ImportRecord{
					LocalName:    local,
					ImportedName: imported,
					Module:       info.source,
					Kind:         ImportKindNamed,
				}

			case "import.default":
				result.Imports[capture.Text] = ImportRecord{
					LocalName: capture.Text,
					Module:    info.source,
					Kind:      ImportKindDefault,
				}

			case "import.namespace":
				result.Imports[capture.Text] = ImportRecord{
					LocalName: capture.Text,
					Module:    info.source,
					Kind:      ImportKindNamespace,
				}
			}
		}
	}

	return nil
}

// specifierIsTypeOnly reports whether an import_specifier carries its own
// `type` keyword: import { type Props } from './types'.
func specifierIsTypeOnly(spec *ts.Node, sourceCode []byte) bool {
	for i := uint(0); i < uint(spec.ChildCount()); i++ {
		child := spec.Child(i)
		if !child.IsNamed() && child.Utf8Text(sourceCode) == "type" {
			return true
		}
	}
	return false
}

// enclosingKind walks up the tree to the nearest ancestor of the given kind.
func enclosingKind(node *ts.Node, kind string) *ts.Node {
	for n := node; n != nil; n = n.Parent() {
		if n.Kind() == kind {
			return n
		}
	}
	return nil
}
