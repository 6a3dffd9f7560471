// Package extractor implements per-file extraction of imports, component
// definitions, re-exports, and JSX usage sites.
//
// Each file is parsed ONCE and all extraction passes run on the same tree;
// the tree is closed before the result is returned so that only the compact
// FileResult outlives the parse.
package extractor

// ImportKind identifies the syntactic form of an import binding.
type ImportKind string

const (
	ImportKindNamed     ImportKind = "named"     // import { Button } from './ui'
	ImportKindDefault   ImportKind = "default"   // import Button from './Button'
	ImportKindNamespace ImportKind = "namespace" // import * as UI from './ui'
)

// ImportRecord describes how a binding reaches the current file's scope.
//
// Keyed within a file by LocalName. ImportedName is set for named imports
// and may differ from LocalName when the import is aliased; it is empty for
// default and namespace imports.
type ImportRecord struct {
	LocalName    string
	ImportedName string
	Module       string
	Kind         ImportKind
}

// PropKind is the duck-typed taxonomy for statically-known prop values.
type PropKind string

const (
	PropBool   PropKind = "bool"
	PropNumber PropKind = "number"
	PropString PropKind = "string"
	// PropOpaque marks any expression the analysis does not evaluate; the
	// value preserves the expression's syntactic category as "(kind)".
	PropOpaque PropKind = "opaque"
)

// PropValue is a statically-extracted prop value.
type PropValue struct {
	Kind PropKind
	Raw  string
}

// Prop is one attribute of a JSX opening element.
type Prop struct {
	Name  string
	Value PropValue
}

// Location is a source span. Lines are 1-based, columns 0-based, matching
// the positions tree-sitter reports.
type Location struct {
	StartLine   uint32
	StartColumn uint32
	StartByte   uint32
	EndByte     uint32
}

// Definition is a top-level declaration identified as a React component:
// a PascalCase function declaration or variable bound to a function whose
// body produces JSX, a class extending a React component, or a declaration
// carrying a React.FC-style annotation.
type Definition struct {
	Name     string
	Exported bool
	Location Location
}

// UsageSite is a single JSX opening element inside a component body.
//
// Tag preserves the dotted form of the element name ("Button", "UI.Menu",
// "ns.Name" for namespaced tags). ContainingName is the name of the
// innermost enclosing Definition, or the file stem when the JSX sits at
// module top level.
type UsageSite struct {
	Tag            string
	ContainingName string
	Props          []Prop
	HasSpread      bool
	Location       Location
}

// ReexportRecord is an `export ... from` clause, followed later by the
// component registry to find the originating definition of a binding.
//
// Star re-exports (`export * from './x'`) carry no names; LocalName and
// SourceName are empty and Star is true.
type ReexportRecord struct {
	// LocalName is the name the binding is exported as from this file.
	LocalName string
	// SourceName is the name of the binding in the source module; differs
	// from LocalName for `export { A as B } from './a'`.
	SourceName string
	Module     string
	Star       bool
}

// FileResult contains everything extracted from a single file.
type FileResult struct {
	FilePath string

	// Imports maps local binding name → ImportRecord.
	Imports map[string]ImportRecord

	// Definitions are the top-level component definitions of the file.
	Definitions []Definition

	// DefaultExport is the local name behind `export default <identifier>`
	// or a default-exported declaration; empty if the file has none that
	// could be identified statically.
	DefaultExport string

	// Reexports are the file's `export ... from` clauses.
	Reexports []ReexportRecord

	// Usages are the JSX usage sites in document order.
	Usages []UsageSite
}

// Definition lookup by name; imports shadow locals at resolution time, so
// callers check the imports map first.
func (fr *FileResult) FindDefinition(name string) (Definition, bool) {
	for _, def := range fr.Definitions {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}
