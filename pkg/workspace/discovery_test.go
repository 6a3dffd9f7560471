package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-richter/spinne/pkg/config"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestDiscoverFilesDefaults(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/App.tsx":            "",
		"src/Button.tsx":         "",
		"src/App.test.tsx":       "",
		"src/App.stories.tsx":    "",
		"src/util.ts":            "",
		"node_modules/x/y.tsx":   "",
		"dist/out.tsx":           "",
		"build/out.tsx":          "",
		"src/deep/Nested.tsx":    "",
		"src/Component.spec.tsx": "",
	})

	files, err := DiscoverFiles(root, config.DefaultInclude, config.DefaultExclude, nil)
	require.NoError(t, err)

	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, _ := filepath.Rel(root, f)
		rel = append(rel, filepath.ToSlash(r))
	}

	assert.Equal(t, []string{"src/App.tsx", "src/Button.tsx", "src/deep/Nested.tsx"}, rel)
}

func TestDiscoverFilesSortedAndDeduplicated(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b.tsx": "",
		"a.tsx": "",
		"c.tsx": "",
	})

	// Overlapping include patterns must not produce duplicates.
	files, err := DiscoverFiles(root, []string{"**/*.tsx", "*.tsx"}, nil, nil)
	require.NoError(t, err)

	require.Len(t, files, 3)
	assert.True(t, files[0] < files[1] && files[1] < files[2])
}

func TestDiscoverFilesInvalidPattern(t *testing.T) {
	_, err := DiscoverFiles(t.TempDir(), []string{"[invalid"}, nil, nil)
	assert.Error(t, err)

	_, err = DiscoverFiles(t.TempDir(), []string{"**/*.tsx"}, []string{"[invalid"}, nil)
	assert.Error(t, err)
}

func TestDiscoverFilesCustomInclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/App.tsx": "",
		"src/util.ts": "",
	})

	files, err := DiscoverFiles(root, []string{"**/*.ts", "**/*.tsx"}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
