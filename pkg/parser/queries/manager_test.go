package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-richter/spinne/pkg/parser"
)

func TestImportsQueryCompilesForAllGrammars(t *testing.T) {
	pm := parser.NewManager(nil)
	defer pm.Close()
	qm := NewManager(pm, nil)
	defer qm.Close()

	for _, tc := range []struct {
		lang  parser.Language
		isTSX bool
	}{
		{parser.LanguageTypeScript, false},
		{parser.LanguageTypeScript, true},
		{parser.LanguageJavaScript, false},
	} {
		query, err := qm.ImportsQuery(tc.lang, tc.isTSX)
		require.NoError(t, err, "lang=%s isTSX=%v", tc.lang, tc.isTSX)
		require.NotNil(t, query)

		// Second access must hit the cache and return the same query.
		again, err := qm.ImportsQuery(tc.lang, tc.isTSX)
		require.NoError(t, err)
		assert.Same(t, query, again)
	}
}

func TestExecuteCapturesImports(t *testing.T) {
	pm := parser.NewManager(nil)
	defer pm.Close()
	qm := NewManager(pm, nil)
	defer qm.Close()

	source := []byte(`
		import Button from './Button';
		import { Card as C } from './Card';
		import * as UI from './ui';
	`)

	tree, err := pm.Parse(source, parser.LanguageTypeScript, true)
	require.NoError(t, err)
	defer tree.Close()

	query, err := qm.ImportsQuery(parser.LanguageTypeScript, true)
	require.NoError(t, err)

	matches, err := qm.Execute(tree, query, source)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	captured := make(map[string][]string)
	for _, match := range matches {
		for _, capture := range match.Captures {
			captured[capture.Name] = append(captured[capture.Name], capture.Text)
		}
	}

	assert.Contains(t, captured["import.source"], "./Button")
	assert.Contains(t, captured["import.source"], "./Card")
	assert.Contains(t, captured["import.default"], "Button")
	assert.Contains(t, captured["import.named"], "Card")
	assert.Contains(t, captured["import.alias"], "C")
	assert.Contains(t, captured["import.namespace"], "UI")
}

func TestParseCaptureName(t *testing.T) {
	category, field := parseCaptureName("import.named")
	assert.Equal(t, "import", category)
	assert.Equal(t, "named", field)

	category, field = parseCaptureName("import.type.marker")
	assert.Equal(t, "import", category)
	assert.Equal(t, "type.marker", field)

	category, field = parseCaptureName("plain")
	assert.Equal(t, "plain", category)
	assert.Empty(t, field)
}
