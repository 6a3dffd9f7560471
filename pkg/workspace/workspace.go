// Package workspace resolves a root path into projects and runs the
// per-project analysis pipeline: file discovery, parallel extraction,
// graph building, and cross-project aggregation.
package workspace

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tim-richter/spinne/pkg/util"
)

// ErrInvalidRoot marks an entry path that is missing or not a directory.
var ErrInvalidRoot = errors.New("entry path does not exist or is not a directory")

// ErrNoFiles marks a run where zero files matched the include/exclude sets.
var ErrNoFiles = errors.New("no files matched the include/exclude patterns")

// Project is a self-contained React source tree: a directory holding a
// package manifest (and, in workspace mode, a version-control marker).
type Project struct {
	Name     string
	Root     string // canonical absolute path
	Manifest *PackageJSON
}

// DiscoverProjects classifies the entry path into an ordered list of
// projects.
//
// A directory is a project when it contains both package.json and a .git
// marker. Nested projects are flattened: once a directory is classified,
// its subtree is not rescanned (outermost wins). Directories matching the
// exclude globs are not descended into. When nothing qualifies, the entry
// itself becomes a single anonymous project named after its manifest or
// directory.
func DiscoverProjects(entry string, exclude []string, logger *slog.Logger) ([]*Project, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(entry)
	if err != nil || !info.IsDir() {
		return nil, ErrInvalidRoot
	}

	root := util.CanonicalPath(entry)
	var projects []*Project

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("walk error during project discovery", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		relPath, rerr := filepath.Rel(root, path)
		if rerr == nil {
			relPath = filepath.ToSlash(relPath)
			for _, pattern := range exclude {
				if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
					return filepath.SkipDir
				}
			}
		}
		// node_modules trees can contain manifests and even .git markers;
		// they are never projects of this workspace.
		if d.Name() == "node_modules" {
			return filepath.SkipDir
		}

		if project := classifyProject(path); project != nil {
			logger.Info("found project", "name", project.Name, "root", project.Root)
			projects = append(projects, project)
			return filepath.SkipDir // outermost wins
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if len(projects) == 0 {
		projects = append(projects, anonymousProject(root))
		logger.Info("no workspace projects found, analyzing entry as a single project",
			"name", projects[0].Name)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Root < projects[j].Root
	})

	return projects, nil
}

// classifyProject returns a Project when dir holds both a package manifest
// and a version-control marker.
func classifyProject(dir string) *Project {
	manifestPath := filepath.Join(dir, "package.json")
	if _, err := os.Stat(manifestPath); err != nil {
		return nil
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return nil
	}

	root := util.CanonicalPath(dir)
	manifest := ReadPackageJSON(manifestPath)
	name := filepath.Base(root)
	if manifest != nil && manifest.Name != "" {
		name = manifest.Name
	}

	return &Project{Name: name, Root: root, Manifest: manifest}
}

// anonymousProject wraps the entry directory as a single project. The
// version-control marker is not required in single-project mode, but a
// manifest is still honored for the name.
func anonymousProject(root string) *Project {
	manifest := ReadPackageJSON(filepath.Join(root, "package.json"))
	name := filepath.Base(root)
	if manifest != nil && manifest.Name != "" {
		name = manifest.Name
	}
	return &Project{Name: name, Root: root, Manifest: manifest}
}

// projectFor returns the project owning a canonical file path: the one with
// the longest root that is a prefix of the path. Returns nil when the file
// is outside every project.
func projectFor(projects []*Project, path string) *Project {
	var owner *Project
	for _, project := range projects {
		if !strings.HasPrefix(path, project.Root+string(filepath.Separator)) && path != project.Root {
			continue
		}
		if owner == nil || len(project.Root) > len(owner.Root) {
			owner = project
		}
	}
	return owner
}
