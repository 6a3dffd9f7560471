package extractor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/tim-richter/spinne/pkg/util"
)

// extractModuleLevel scans the direct children of the program node for
// component definitions, export markers, and re-export clauses.
//
// Only top-level declarations can define components; nested helpers render
// through their enclosing component and never appear in the graph.
func (e *Extractor) extractModuleLevel(root *ts.Node, sourceCode []byte, result *FileResult) {
	exportedNames := make(map[string]bool)

	for i := uint(0); i < uint(root.ChildCount()); i++ {
		stmt := root.Child(i)

		switch stmt.Kind() {
		case "export_statement":
			e.processExportStatement(stmt, sourceCode, result, exportedNames)
		case "function_declaration":
			e.addFunctionDefinition(stmt, sourceCode, false, result)
		case "lexical_declaration", "variable_declaration":
			e.addVariableDefinitions(stmt, sourceCode, false, result)
		case "class_declaration":
			e.addClassDefinition(stmt, sourceCode, false, result)
		}
	}

	// `export { Card }` lists mark previously-declared locals as exported.
	for idx := range result.Definitions {
		if exportedNames[result.Definitions[idx].Name] {
			result.Definitions[idx].Exported = true
		}
	}
}

func (e *Extractor) processExportStatement(stmt *ts.Node, sourceCode []byte, result *FileResult, exportedNames map[string]bool) {
	source := exportSource(stmt, sourceCode)

	if source != "" {
		// Re-export: export { A } from './a' or export * from './a'.
		clause := childOfKind(stmt, "export_clause")
		if clause == nil {
			result.Reexports = append(result.Reexports, ReexportRecord{
				Module: source,
				Star:   true,
			})
			return
		}
		for i := uint(0); i < uint(clause.ChildCount()); i++ {
			spec := clause.Child(i)
			if spec.Kind() != "export_specifier" {
				continue
			}
			name := spec.ChildByFieldName("name")
			if name == nil {
				continue
			}
			local := name.Utf8Text(sourceCode)
			sourceName := local
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				local = alias.Utf8Text(sourceCode)
			}
			result.Reexports = append(result.Reexports, ReexportRecord{
				LocalName:  local,
				SourceName: sourceName,
				Module:     source,
			})
		}
		return
	}

	// export default <identifier>;
	if hasAnonChild(stmt, "default") {
		if value := stmt.ChildByFieldName("value"); value != nil && value.Kind() == "identifier" {
			result.DefaultExport = value.Utf8Text(sourceCode)
			exportedNames[result.DefaultExport] = true
			return
		}
	}

	// export [default] <declaration>
	if decl := stmt.ChildByFieldName("declaration"); decl != nil {
		before := len(result.Definitions)
		switch decl.Kind() {
		case "function_declaration":
			e.addFunctionDefinition(decl, sourceCode, true, result)
		case "lexical_declaration", "variable_declaration":
			e.addVariableDefinitions(decl, sourceCode, true, result)
		case "class_declaration":
			e.addClassDefinition(decl, sourceCode, true, result)
		}
		if hasAnonChild(stmt, "default") && len(result.Definitions) > before {
			result.DefaultExport = result.Definitions[before].Name
		}
		return
	}

	// export { Card, Button }; (local export list, no source)
	if clause := childOfKind(stmt, "export_clause"); clause != nil {
		for i := uint(0); i < uint(clause.ChildCount()); i++ {
			spec := clause.Child(i)
			if spec.Kind() != "export_specifier" {
				continue
			}
			if name := spec.ChildByFieldName("name"); name != nil {
				exportedNames[name.Utf8Text(sourceCode)] = true
			}
		}
	}
}

// addFunctionDefinition records `function Card() { return <div/> }` when the
// name is PascalCase and the body produces JSX.
func (e *Extractor) addFunctionDefinition(decl *ts.Node, sourceCode []byte, exported bool, result *FileResult) {
	name := decl.ChildByFieldName("name")
	if name == nil {
		return
	}
	ident := name.Utf8Text(sourceCode)
	if !util.IsPascalCase(ident) {
		return
	}
	if body := decl.ChildByFieldName("body"); body == nil || !containsJSX(body) {
		return
	}

	result.Definitions = append(result.Definitions, Definition{
		Name:     ident,
		Exported: exported,
		Location: nodeLocation(decl),
	})
}

// addVariableDefinitions records `const Card = () => <div/>` declarators.
// Components may be wrapped in memo()/forwardRef() calls, and a declarator
// annotated React.FC counts even when the body JSX is not syntactically
// visible (e.g. delegated rendering).
func (e *Extractor) addVariableDefinitions(decl *ts.Node, sourceCode []byte, exported bool, result *FileResult) {
	for i := uint(0); i < uint(decl.ChildCount()); i++ {
		declarator := decl.Child(i)
		if declarator.Kind() != "variable_declarator" {
			continue
		}
		name := declarator.ChildByFieldName("name")
		if name == nil || name.Kind() != "identifier" {
			continue
		}
		ident := name.Utf8Text(sourceCode)
		if !util.IsPascalCase(ident) {
			continue
		}

		if !isComponentValue(declarator.ChildByFieldName("value"), sourceCode) &&
			!hasReactFCAnnotation(declarator, sourceCode) {
			continue
		}

		result.Definitions = append(result.Definitions, Definition{
			Name:     ident,
			Exported: exported,
			Location: nodeLocation(declarator),
		})
	}
}

// addClassDefinition records `class Menu extends React.Component`.
func (e *Extractor) addClassDefinition(decl *ts.Node, sourceCode []byte, exported bool, result *FileResult) {
	name := decl.ChildByFieldName("name")
	if name == nil {
		return
	}
	ident := name.Utf8Text(sourceCode)
	if !util.IsPascalCase(ident) {
		return
	}

	heritage := childOfKind(decl, "class_heritage")
	if heritage == nil || !strings.Contains(heritage.Utf8Text(sourceCode), "Component") {
		return
	}

	result.Definitions = append(result.Definitions, Definition{
		Name:     ident,
		Exported: exported,
		Location: nodeLocation(decl),
	})
}

// isComponentValue reports whether a declarator value is a function that
// produces JSX, directly or through a memo()/forwardRef() wrapper.
func isComponentValue(value *ts.Node, sourceCode []byte) bool {
	if value == nil {
		return false
	}

	switch value.Kind() {
	case "arrow_function", "function_expression", "function":
		return containsJSX(value)
	case "call_expression":
		fn := value.ChildByFieldName("function")
		if fn == nil {
			return false
		}
		callee := fn.Utf8Text(sourceCode)
		if callee != "memo" && callee != "React.memo" &&
			callee != "forwardRef" && callee != "React.forwardRef" {
			return false
		}
		args := value.ChildByFieldName("arguments")
		if args == nil {
			return false
		}
		for i := uint(0); i < uint(args.NamedChildCount()); i++ {
			if isComponentValue(args.NamedChild(i), sourceCode) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// hasReactFCAnnotation reports whether the declarator is typed as a React
// function component: const Card: React.FC<Props> = ...
func hasReactFCAnnotation(declarator *ts.Node, sourceCode []byte) bool {
	annotation := childOfKind(declarator, "type_annotation")
	if annotation == nil {
		return false
	}
	text := annotation.Utf8Text(sourceCode)
	return strings.Contains(text, "React.FC") ||
		strings.Contains(text, "React.FunctionComponent") ||
		strings.HasPrefix(strings.TrimPrefix(text, ": "), "FC<")
}

// containsJSX recursively checks whether any descendant is a JSX node.
func containsJSX(node *ts.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return true
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if containsJSX(node.Child(i)) {
			return true
		}
	}
	return false
}

// childOfKind returns the first direct child of the given kind.
func childOfKind(node *ts.Node, kind string) *ts.Node {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// hasAnonChild reports whether node has an anonymous child with the given
// token text, e.g. the `default` keyword of an export statement.
func hasAnonChild(node *ts.Node, token string) bool {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.IsNamed() && child.Kind() == token {
			return true
		}
	}
	return false
}

// exportSource returns the module specifier of `export ... from '<mod>'`,
// or "" when the statement has no source.
func exportSource(stmt *ts.Node, sourceCode []byte) string {
	source := stmt.ChildByFieldName("source")
	if source == nil {
		return ""
	}
	for i := uint(0); i < uint(source.ChildCount()); i++ {
		child := source.Child(i)
		if child.Kind() == "string_fragment" {
			return child.Utf8Text(sourceCode)
		}
	}
	text := source.Utf8Text(sourceCode)
	return strings.Trim(text, "\"'`")
}
