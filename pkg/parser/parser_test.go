package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LanguageTypeScript, DetectLanguage("src/App.tsx"))
	assert.Equal(t, LanguageTypeScript, DetectLanguage("src/util.ts"))
	assert.Equal(t, LanguageJavaScript, DetectLanguage("src/legacy.jsx"))
	assert.Equal(t, LanguageJavaScript, DetectLanguage("src/index.js"))
	assert.Equal(t, LanguageUnknown, DetectLanguage("styles.css"))
}

func TestIsTSXFile(t *testing.T) {
	assert.True(t, IsTSXFile("App.tsx"))
	assert.True(t, IsTSXFile("App.TSX"))
	assert.False(t, IsTSXFile("App.ts"))
}

func TestParseTSX(t *testing.T) {
	m := NewManager(nil)
	defer m.Close()

	tree, err := m.Parse([]byte(`export const App = () => <div className="x" />;`), LanguageTypeScript, true)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.False(t, root.HasError())
	assert.Equal(t, "program", root.Kind())
}

func TestParseFileDetectsGrammar(t *testing.T) {
	m := NewManager(nil)
	defer m.Close()

	// JSX syntax must parse under the TSX grammar but is a syntax error in
	// plain TypeScript, where <div> parses as a type assertion.
	tree, err := m.ParseFile([]byte(`const App = () => <div>hi</div>;`), "App.tsx")
	require.NoError(t, err)
	defer tree.Close()
	assert.False(t, tree.RootNode().HasError())

	_, err = m.ParseFile([]byte("body {}"), "styles.css")
	require.Error(t, err)
}

func TestParseConcurrent(t *testing.T) {
	m := NewManager(nil)
	defer m.Close()

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			tree, err := m.Parse([]byte(`const X = () => <span />;`), LanguageTypeScript, true)
			if tree != nil {
				tree.Close()
			}
			done <- err
		}()
	}
	for i := 0; i < 16; i++ {
		require.NoError(t, <-done)
	}
}
