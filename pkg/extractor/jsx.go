package extractor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/tim-richter/spinne/pkg/util"
)

// extractUsages walks the whole tree and records every JSX opening element
// as a usage site, attributed to the innermost enclosing component
// definition.
//
// JSX at module top level (outside any definition) is attributed to a
// synthetic definition named after the file stem.
func (e *Extractor) extractUsages(root *ts.Node, sourceCode []byte, result *FileResult) {
	e.walkJSX(root, sourceCode, result)

	needSynthetic := false
	for idx := range result.Usages {
		if result.Usages[idx].ContainingName == "" {
			result.Usages[idx].ContainingName = util.FileStem(result.FilePath)
			needSynthetic = true
		}
	}

	if needSynthetic {
		stem := util.FileStem(result.FilePath)
		if _, exists := result.FindDefinition(stem); !exists {
			result.Definitions = append(result.Definitions, Definition{
				Name:     stem,
				Location: nodeLocation(root),
			})
		}
	}
}

func (e *Extractor) walkJSX(node *ts.Node, sourceCode []byte, result *FileResult) {
	switch node.Kind() {
	case "jsx_self_closing_element":
		e.recordUsage(node, sourceCode, result)
	case "jsx_element":
		if opening := childOfKind(node, "jsx_opening_element"); opening != nil {
			e.recordUsage(opening, sourceCode, result)
		}
	}

	for i := uint(0); i < uint(node.ChildCount()); i++ {
		e.walkJSX(node.Child(i), sourceCode, result)
	}
}

// recordUsage extracts tag, props, and spread flag from a jsx_opening_element
// or jsx_self_closing_element node.
func (e *Extractor) recordUsage(element *ts.Node, sourceCode []byte, result *FileResult) {
	tag := jsxTagName(element, sourceCode)
	if tag == "" {
		return
	}

	site := UsageSite{
		Tag:            tag,
		ContainingName: e.containingDefinition(result, uint32(element.StartByte())),
		Location:       nodeLocation(element),
	}

	for i := uint(0); i < uint(element.ChildCount()); i++ {
		child := element.Child(i)
		switch child.Kind() {
		case "jsx_attribute":
			if prop, ok := extractProp(child, sourceCode); ok {
				site.Props = append(site.Props, prop)
			}
		case "jsx_expression":
			// {...props} spread: set the flag, never enumerate names.
			if isSpreadExpression(child, sourceCode) {
				site.HasSpread = true
			}
		}
	}

	result.Usages = append(result.Usages, site)
}

// jsxTagName builds the dotted tag string from the element name node.
//
//	<Foo/>      → "Foo"
//	<A.B.C/>    → "A.B.C"
//	<ns:Name/>  → "ns.Name"
func jsxTagName(element *ts.Node, sourceCode []byte) string {
	for i := uint(0); i < uint(element.ChildCount()); i++ {
		child := element.Child(i)
		switch child.Kind() {
		case "identifier", "member_expression", "nested_identifier":
			return child.Utf8Text(sourceCode)
		case "jsx_namespace_name":
			return strings.ReplaceAll(child.Utf8Text(sourceCode), ":", ".")
		}
	}
	return ""
}

// containingDefinition returns the name of the innermost top-level
// definition whose span contains the given byte offset, or "".
func (e *Extractor) containingDefinition(result *FileResult, offset uint32) string {
	name := ""
	span := ^uint32(0)
	for _, def := range result.Definitions {
		if def.Location.StartByte <= offset && offset < def.Location.EndByte {
			if width := def.Location.EndByte - def.Location.StartByte; width < span {
				span = width
				name = def.Name
			}
		}
	}
	return name
}

// extractProp converts a jsx_attribute node into a Prop.
//
// Value taxonomy:
//   - no value                 → Bool true
//   - "literal"                → String
//   - {42} / {"x"} / {true}    → Number / String / Bool
//   - {anything else}          → Opaque, raw "(node kind)"
func extractProp(attr *ts.Node, sourceCode []byte) (Prop, bool) {
	var name string
	var value *PropValue

	for i := uint(0); i < uint(attr.ChildCount()); i++ {
		child := attr.Child(i)
		switch child.Kind() {
		case "property_identifier", "jsx_namespace_name":
			if name == "" {
				name = child.Utf8Text(sourceCode)
			}
		case "string":
			value = &PropValue{Kind: PropString, Raw: stringContent(child, sourceCode)}
		case "jsx_expression":
			value = expressionValue(child, sourceCode)
		}
	}

	if name == "" {
		return Prop{}, false
	}
	if value == nil {
		// Boolean shorthand: <Button disabled />
		value = &PropValue{Kind: PropBool, Raw: "true"}
	}
	return Prop{Name: name, Value: *value}, true
}

// expressionValue classifies the expression inside a JSXExpressionContainer.
func expressionValue(expr *ts.Node, sourceCode []byte) *PropValue {
	inner := expr.NamedChild(0)
	if inner == nil {
		return &PropValue{Kind: PropOpaque, Raw: "(empty)"}
	}

	switch inner.Kind() {
	case "number":
		return &PropValue{Kind: PropNumber, Raw: inner.Utf8Text(sourceCode)}
	case "string":
		return &PropValue{Kind: PropString, Raw: stringContent(inner, sourceCode)}
	case "true", "false":
		return &PropValue{Kind: PropBool, Raw: inner.Kind()}
	default:
		return &PropValue{Kind: PropOpaque, Raw: "(" + inner.Kind() + ")"}
	}
}

// isSpreadExpression reports whether a jsx_expression inside an opening
// element is a {...props} spread.
func isSpreadExpression(expr *ts.Node, sourceCode []byte) bool {
	if inner := expr.NamedChild(0); inner != nil && inner.Kind() == "spread_element" {
		return true
	}
	text := expr.Utf8Text(sourceCode)
	return len(text) > 3 && text[1] == '.' && text[2] == '.' && text[3] == '.'
}

// stringContent returns the text inside a string node, without quotes.
func stringContent(node *ts.Node, sourceCode []byte) string {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() == "string_fragment" {
			return child.Utf8Text(sourceCode)
		}
	}
	text := node.Utf8Text(sourceCode)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}
