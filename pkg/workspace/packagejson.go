package workspace

import (
	"encoding/json"
	"os"
	"sort"
)

// PackageJSON is the subset of a package manifest the pipeline reads: the
// project name and the dependency maps. Only the name is used by the
// analysis; cross-project attribution is decided from resolved file paths
// and does not consult the dependency maps.
type PackageJSON struct {
	Name             string            `json:"name"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// ReadPackageJSON parses the manifest at path. Returns nil when the file is
// missing or malformed; a broken manifest only costs the project its name.
func ReadPackageJSON(path string) *PackageJSON {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil
	}
	return &pkg
}

// AllDependencies returns the union of dependency names, sorted.
func (p *PackageJSON) AllDependencies() []string {
	seen := make(map[string]bool)
	for name := range p.Dependencies {
		seen[name] = true
	}
	for name := range p.DevDependencies {
		seen[name] = true
	}
	for name := range p.PeerDependencies {
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
