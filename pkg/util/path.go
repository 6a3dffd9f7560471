package util

import (
	"path/filepath"
	"strings"
)

// CanonicalPath returns the absolute, symlink-resolved form of a path.
//
// Two paths that canonicalize equal refer to the same file and must collapse
// to the same graph node, so every path that participates in component
// identity goes through here exactly once. If the path (or a parent) does
// not exist, symlink resolution is skipped and the cleaned absolute path is
// returned instead.
func CanonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return filepath.Clean(abs)
}

// ProjectRelative returns path relative to root with POSIX separators, the
// form used in reports. Falls back to the input when path is outside root.
func ProjectRelative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// IsPascalCase reports whether an identifier starts with an upper-case ASCII
// letter, the React convention separating components from host elements.
func IsPascalCase(name string) bool {
	if name == "" {
		return false
	}
	return name[0] >= 'A' && name[0] <= 'Z'
}

// FileStem returns the file name without directory or extension, used to name
// the synthetic definition for JSX found at module top level.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
