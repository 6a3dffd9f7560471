package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-richter/spinne/pkg/util"
)

func makeProject(t *testing.T, root, rel, name string) string {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
	manifest := `{"name": "` + name + `"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0644))
	return util.CanonicalPath(dir)
}

func TestDiscoverProjectsInvalidRoot(t *testing.T) {
	_, err := DiscoverProjects(filepath.Join(t.TempDir(), "missing"), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRoot)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = DiscoverProjects(file, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRoot)
}

func TestDiscoverProjectsWorkspaceMode(t *testing.T) {
	root := t.TempDir()
	libRoot := makeProject(t, root, "lib", "lib")
	appRoot := makeProject(t, root, "app", "app")

	projects, err := DiscoverProjects(root, nil, nil)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	// Lexical order by root path.
	assert.Equal(t, appRoot, projects[0].Root)
	assert.Equal(t, "app", projects[0].Name)
	assert.Equal(t, libRoot, projects[1].Root)
	assert.Equal(t, "lib", projects[1].Name)
}

func TestDiscoverProjectsNestedOutermostWins(t *testing.T) {
	root := t.TempDir()
	outer := makeProject(t, root, "outer", "outer")
	makeProject(t, root, "outer/packages/inner", "inner")

	projects, err := DiscoverProjects(root, nil, nil)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, outer, projects[0].Root)
}

func TestDiscoverProjectsManifestWithoutGitIsNotAProject(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "pkg")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"pkg"}`), 0644))

	projects, err := DiscoverProjects(root, nil, nil)
	require.NoError(t, err)

	// Falls back to the anonymous single project at the entry.
	require.Len(t, projects, 1)
	assert.Equal(t, util.CanonicalPath(root), projects[0].Root)
	assert.Equal(t, filepath.Base(util.CanonicalPath(root)), projects[0].Name)
}

func TestDiscoverProjectsAnonymousFallbackUsesManifestName(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"name":"my-app"}`), 0644))

	projects, err := DiscoverProjects(root, nil, nil)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "my-app", projects[0].Name)
}

func TestDiscoverProjectsSkipsNodeModules(t *testing.T) {
	root := t.TempDir()
	makeProject(t, root, "node_modules/dep", "dep")
	appRoot := makeProject(t, root, "app", "app")

	projects, err := DiscoverProjects(root, nil, nil)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, appRoot, projects[0].Root)
}

func TestProjectForLongestRootWins(t *testing.T) {
	projects := []*Project{
		{Name: "outer", Root: "/ws/outer"},
		{Name: "inner", Root: "/ws/outer/inner"},
	}

	owner := projectFor(projects, "/ws/outer/inner/src/App.tsx")
	require.NotNil(t, owner)
	assert.Equal(t, "inner", owner.Name)

	owner = projectFor(projects, "/ws/outer/src/App.tsx")
	require.NotNil(t, owner)
	assert.Equal(t, "outer", owner.Name)

	assert.Nil(t, projectFor(projects, "/elsewhere/App.tsx"))
}

func TestReadPackageJSON(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"name": "app",
		"dependencies": {"react": "^18.0.0", "lib": "*"},
		"devDependencies": {"typescript": "^5"}
	}`), 0644))

	pkg := ReadPackageJSON(path)
	require.NotNil(t, pkg)
	assert.Equal(t, "app", pkg.Name)
	assert.Equal(t, []string{"lib", "react", "typescript"}, pkg.AllDependencies())

	assert.Nil(t, ReadPackageJSON(filepath.Join(root, "missing.json")))
}
