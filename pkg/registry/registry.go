// Package registry assigns stable identities to discovered components and
// deduplicates them across translation units.
package registry

import (
	"log/slog"
	"sync"
)

// ComponentDefinition is a registered component keyed by its canonical
// (project root, file path, exported name) triple.
type ComponentDefinition struct {
	ID          string
	ProjectRoot string
	FilePath    string
	Name        string

	// DeclaredProps is the union of prop names observed across all of the
	// component's usage sites. Re-exports alias the original definition and
	// contribute nothing on their own.
	DeclaredProps map[string]bool
}

// Registry deduplicates component definitions.
//
// Insertion is guarded by a mutex so that file-level parallelism can
// register components concurrently; id assignment is idempotent for the
// same canonical key.
type Registry struct {
	mu     sync.Mutex
	byID   map[string]*ComponentDefinition
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		byID:   make(map[string]*ComponentDefinition),
		logger: logger,
	}
}

// Ensure registers a component for the canonical key and returns it. Two
// references to the same canonical key collapse to one definition. Paths
// must already be canonical.
func (r *Registry) Ensure(projectRoot, filePath, exportedName string) *ComponentDefinition {
	id := ComponentID(projectRoot, filePath, exportedName)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[id]; ok {
		return existing
	}

	def := &ComponentDefinition{
		ID:            id,
		ProjectRoot:   projectRoot,
		FilePath:      filePath,
		Name:          exportedName,
		DeclaredProps: make(map[string]bool),
	}
	r.byID[id] = def
	r.logger.Debug("registered component",
		"id", id,
		"name", exportedName,
		"file", filePath)
	return def
}

// AddProps unions prop names into a component's declared set.
func (r *Registry) AddProps(id string, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.byID[id]
	if !ok {
		return
	}
	for _, name := range names {
		def.DeclaredProps[name] = true
	}
}

// Get returns the definition for an id.
func (r *Registry) Get(id string) (*ComponentDefinition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	def, ok := r.byID[id]
	return def, ok
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
