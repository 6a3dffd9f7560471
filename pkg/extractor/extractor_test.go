package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-richter/spinne/pkg/parser"
	"github.com/tim-richter/spinne/pkg/parser/queries"
)

// setupExtractor creates an extractor for testing
func setupExtractor(_ *testing.T) *Extractor {
	pm := parser.NewManager(nil)
	qm := queries.NewManager(pm, nil)
	return NewExtractor(pm, qm, nil)
}

func extract(t *testing.T, path, source string) *FileResult {
	t.Helper()
	result, err := setupExtractor(t).ExtractFile(path, []byte(source))
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestExtractImports_Named(t *testing.T) {
	result := extract(t, "App.tsx", `
		import { Button, Card as C } from './ui';
		export const App = () => <Button />;
	`)

	button, ok := result.Imports["Button"]
	require.True(t, ok)
	assert.Equal(t, "Button", button.ImportedName)
	assert.Equal(t, "./ui", button.Module)
	assert.Equal(t, ImportKindNamed, button.Kind)

	card, ok := result.Imports["C"]
	require.True(t, ok, "aliased import should be keyed by its local name")
	assert.Equal(t, "Card", card.ImportedName)
	assert.Equal(t, ImportKindNamed, card.Kind)
}

func TestExtractImports_DefaultAndNamespace(t *testing.T) {
	result := extract(t, "App.tsx", `
		import Button from './Button';
		import * as UI from './ui';
		export const App = () => <Button />;
	`)

	button, ok := result.Imports["Button"]
	require.True(t, ok)
	assert.Equal(t, ImportKindDefault, button.Kind)
	assert.Empty(t, button.ImportedName)

	ui, ok := result.Imports["UI"]
	require.True(t, ok)
	assert.Equal(t, ImportKindNamespace, ui.Kind)
	assert.Equal(t, "./ui", ui.Module)
}

func TestExtractImports_TypeOnlySkipped(t *testing.T) {
	result := extract(t, "App.tsx", `
		import type { Props } from './types';
		import { type Other, Button } from './ui';
		export const App = () => <Button />;
	`)

	_, ok := result.Imports["Props"]
	assert.False(t, ok, "type-only import can never be a JSX tag")
	_, ok = result.Imports["Other"]
	assert.False(t, ok, "per-symbol type import can never be a JSX tag")
	_, ok = result.Imports["Button"]
	assert.True(t, ok)
}

func TestExtractDefinitions_FunctionAndArrow(t *testing.T) {
	result := extract(t, "Comps.tsx", `
		export function Header() { return <div />; }
		export const Card = () => <span />;
		const helper = () => 42;
		function lowercase() { return <div />; }
	`)

	names := definitionNames(result)
	assert.Contains(t, names, "Header")
	assert.Contains(t, names, "Card")
	assert.NotContains(t, names, "helper", "lowercase names are not components")
	assert.NotContains(t, names, "lowercase")

	header, _ := result.FindDefinition("Header")
	assert.True(t, header.Exported)
	card, _ := result.FindDefinition("Card")
	assert.True(t, card.Exported)
}

func TestExtractDefinitions_NonJSXVariableIgnored(t *testing.T) {
	result := extract(t, "Comps.tsx", `
		const Config = { theme: 'dark' };
		const Compute = () => 1 + 2;
	`)

	assert.Empty(t, result.Definitions)
}

func TestExtractDefinitions_ClassComponent(t *testing.T) {
	result := extract(t, "Menu.tsx", `
		import React from 'react';
		export class Menu extends React.Component {
			render() { return <ul />; }
		}
		class Plain {}
	`)

	names := definitionNames(result)
	assert.Contains(t, names, "Menu")
	assert.NotContains(t, names, "Plain")
}

func TestExtractDefinitions_MemoAndForwardRef(t *testing.T) {
	result := extract(t, "Wrapped.tsx", `
		import { memo, forwardRef } from 'react';
		export const Fast = memo(() => <div />);
		export const WithRef = forwardRef((props, ref) => <input ref={ref} />);
	`)

	names := definitionNames(result)
	assert.Contains(t, names, "Fast")
	assert.Contains(t, names, "WithRef")
}

func TestExtractDefinitions_ReactFCAnnotation(t *testing.T) {
	result := extract(t, "Typed.tsx", `
		import React from 'react';
		export const Typed: React.FC<{ label: string }> = renderLabel;
	`)

	names := definitionNames(result)
	assert.Contains(t, names, "Typed")
}

func TestExtractUsages_TagsAndContainment(t *testing.T) {
	result := extract(t, "App.tsx", `
		import { Button } from './Button';
		import * as UI from './ui';

		export const App = () => (
			<div>
				<Button variant="blue" />
				<UI.Menu open />
			</div>
		);

		export const Other = () => <Button />;
	`)

	require.Len(t, result.Usages, 4)

	tags := make(map[string]string)
	for _, usage := range result.Usages {
		tags[usage.Tag] = usage.ContainingName
	}
	assert.Equal(t, "App", tags["div"])
	assert.Equal(t, "App", tags["UI.Menu"])
	assert.Contains(t, []string{"App", "Other"}, tags["Button"])
}

func TestExtractUsages_TopLevelJSXSynthesizesFileStem(t *testing.T) {
	result := extract(t, "src/landing.tsx", `
		import { Hero } from './Hero';
		export default <Hero title="welcome" />;
	`)

	require.Len(t, result.Usages, 1)
	assert.Equal(t, "landing", result.Usages[0].ContainingName)

	_, ok := result.FindDefinition("landing")
	assert.True(t, ok, "a synthetic definition should back the file-stem attribution")
}

func TestExtractUsages_PropTaxonomy(t *testing.T) {
	result := extract(t, "App.tsx", `
		import { Button } from './Button';
		export const App = () => (
			<Button disabled label="go" count={3} title={"hi"} live={true} onClick={handle} />
		);
	`)

	var button *UsageSite
	for i := range result.Usages {
		if result.Usages[i].Tag == "Button" {
			button = &result.Usages[i]
		}
	}
	require.NotNil(t, button)

	values := make(map[string]PropValue)
	for _, prop := range button.Props {
		values[prop.Name] = prop.Value
	}

	assert.Equal(t, PropValue{Kind: PropBool, Raw: "true"}, values["disabled"])
	assert.Equal(t, PropValue{Kind: PropString, Raw: "go"}, values["label"])
	assert.Equal(t, PropValue{Kind: PropNumber, Raw: "3"}, values["count"])
	assert.Equal(t, PropValue{Kind: PropString, Raw: "hi"}, values["title"])
	assert.Equal(t, PropValue{Kind: PropBool, Raw: "true"}, values["live"])
	assert.Equal(t, PropOpaque, values["onClick"].Kind)
	assert.Equal(t, "(identifier)", values["onClick"].Raw)
}

func TestExtractUsages_SpreadSetsFlagWithoutNames(t *testing.T) {
	result := extract(t, "App.tsx", `
		import { Card } from './Card';
		export const App = ({ p }) => <Card {...p} title="x" />;
	`)

	var card *UsageSite
	for i := range result.Usages {
		if result.Usages[i].Tag == "Card" {
			card = &result.Usages[i]
		}
	}
	require.NotNil(t, card)

	assert.True(t, card.HasSpread)
	require.Len(t, card.Props, 1)
	assert.Equal(t, "title", card.Props[0].Name)
}

func TestExtractReexports(t *testing.T) {
	result := extract(t, "index.ts", `
		export { Button } from './Button';
		export { Card as FancyCard } from './Card';
		export * from './rest';
	`)

	require.Len(t, result.Reexports, 3)

	assert.Equal(t, ReexportRecord{LocalName: "Button", SourceName: "Button", Module: "./Button"}, result.Reexports[0])
	assert.Equal(t, ReexportRecord{LocalName: "FancyCard", SourceName: "Card", Module: "./Card"}, result.Reexports[1])
	assert.True(t, result.Reexports[2].Star)
	assert.Equal(t, "./rest", result.Reexports[2].Module)
}

func TestExtractDefaultExport(t *testing.T) {
	result := extract(t, "Button.tsx", `
		const Button = () => <button />;
		export default Button;
	`)

	assert.Equal(t, "Button", result.DefaultExport)
}

func TestExtractFile_SyntaxErrorIsParseError(t *testing.T) {
	_, err := setupExtractor(t).ExtractFile("Broken.tsx", []byte(`
		export const App = () => <div
	`))

	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "Broken.tsx", parseErr.File)
	assert.NotZero(t, parseErr.Line)
}

func TestExtractFile_UnsupportedExtension(t *testing.T) {
	_, err := setupExtractor(t).ExtractFile("styles.css", []byte("body {}"))
	require.Error(t, err)
}

func definitionNames(result *FileResult) []string {
	names := make([]string, 0, len(result.Definitions))
	for _, def := range result.Definitions {
		names = append(names, def.Name)
	}
	return names
}
