package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-richter/spinne/pkg/extractor"
	"github.com/tim-richter/spinne/pkg/parser"
	"github.com/tim-richter/spinne/pkg/parser/queries"
	"github.com/tim-richter/spinne/pkg/resolver"
	"github.com/tim-richter/spinne/pkg/util"
)

func setupFollower(t *testing.T) *Follower {
	t.Helper()
	pm := parser.NewManager(nil)
	t.Cleanup(func() { pm.Close() })
	qm := queries.NewManager(pm, nil)
	t.Cleanup(func() { qm.Close() })

	extract := extractor.NewExtractor(pm, qm, nil)
	files := util.NewFileCache(nil)
	t.Cleanup(func() { files.Close() })

	return NewFollower(extract, resolver.NewResolver(nil, nil), files, nil)
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return util.CanonicalPath(path)
}

func TestOriginDirectDefinition(t *testing.T) {
	root := t.TempDir()
	button := writeFile(t, filepath.Join(root, "Button.tsx"),
		"export const Button = () => <button />;")

	f := setupFollower(t)
	file, name, err := f.Origin(button, "Button")
	require.NoError(t, err)
	assert.Equal(t, button, file)
	assert.Equal(t, "Button", name)
}

func TestOriginThroughBarrel(t *testing.T) {
	root := t.TempDir()
	button := writeFile(t, filepath.Join(root, "pkg", "Button.tsx"),
		"export const Button = () => <button />;")
	index := writeFile(t, filepath.Join(root, "pkg", "index.ts"),
		"export { Button } from './Button';")

	f := setupFollower(t)
	file, name, err := f.Origin(index, "Button")
	require.NoError(t, err)
	assert.Equal(t, button, file, "the id must live at the original definition, not the barrel")
	assert.Equal(t, "Button", name)
}

func TestOriginThroughAliasedReexport(t *testing.T) {
	root := t.TempDir()
	card := writeFile(t, filepath.Join(root, "Card.tsx"),
		"export const Card = () => <div />;")
	index := writeFile(t, filepath.Join(root, "index.ts"),
		"export { Card as FancyCard } from './Card';")

	f := setupFollower(t)
	file, name, err := f.Origin(index, "FancyCard")
	require.NoError(t, err)
	assert.Equal(t, card, file)
	assert.Equal(t, "Card", name, "the origin keeps the source-side name")
}

func TestOriginThroughStarReexport(t *testing.T) {
	root := t.TempDir()
	button := writeFile(t, filepath.Join(root, "Button.tsx"),
		"export const Button = () => <button />;")
	writeFile(t, filepath.Join(root, "other.ts"), "export const helper = 1;")
	index := writeFile(t, filepath.Join(root, "index.ts"),
		"export * from './other';\nexport * from './Button';")

	f := setupFollower(t)
	file, name, err := f.Origin(index, "Button")
	require.NoError(t, err)
	assert.Equal(t, button, file)
	assert.Equal(t, "Button", name)
}

func TestOriginNestedBarrels(t *testing.T) {
	root := t.TempDir()
	button := writeFile(t, filepath.Join(root, "ui", "Button.tsx"),
		"export const Button = () => <button />;")
	writeFile(t, filepath.Join(root, "ui", "index.ts"),
		"export { Button } from './Button';")
	outer := writeFile(t, filepath.Join(root, "index.ts"),
		"export { Button } from './ui';")

	f := setupFollower(t)
	file, _, err := f.Origin(outer, "Button")
	require.NoError(t, err)
	assert.Equal(t, button, file)
}

func TestOriginDefaultExport(t *testing.T) {
	root := t.TempDir()
	button := writeFile(t, filepath.Join(root, "Button.tsx"),
		"const Button = () => <button />;\nexport default Button;")

	f := setupFollower(t)
	file, name, err := f.Origin(button, "default")
	require.NoError(t, err)
	assert.Equal(t, button, file)
	assert.Equal(t, "Button", name)
}

func TestOriginCycleBounded(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, filepath.Join(root, "a.ts"), "export { Button } from './b';")
	writeFile(t, filepath.Join(root, "b.ts"), "export { Button } from './a';")

	f := setupFollower(t)
	_, _, err := f.Origin(a, "Button")
	require.Error(t, err)

	var cycle *CycleError
	assert.ErrorAs(t, err, &cycle)
}

func TestOriginNotFound(t *testing.T) {
	root := t.TempDir()
	index := writeFile(t, filepath.Join(root, "index.ts"),
		"export const helper = 1;")

	f := setupFollower(t)
	_, _, err := f.Origin(index, "Button")
	assert.ErrorIs(t, err, ErrOriginNotFound)
}
