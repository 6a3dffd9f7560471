package registry

import (
	"strconv"

	"github.com/minio/highwayhash"
)

// hashKey is the fixed all-zero HighwayHash key. The key is deliberately
// constant and documented: component ids must be identical across runs,
// machines, and project orderings, because cross-project edges and
// re-exports compare ids produced by independent pipeline runs.
var hashKey [32]byte

// ComponentID computes the stable identity of a component as the decimal
// string of a 64-bit hash over (canonical project root, canonical file
// path, exported name).
//
// Moving a declaration within its file does not change the id; renaming the
// exported symbol or moving the file does.
func ComponentID(projectRoot, filePath, exportedName string) string {
	h, err := highwayhash.New64(hashKey[:])
	if err != nil {
		// New64 only fails on a wrong key length; the key is fixed above.
		panic(err)
	}
	h.Write([]byte(projectRoot))
	h.Write([]byte{0})
	h.Write([]byte(filePath))
	h.Write([]byte{0})
	h.Write([]byte(exportedName))
	return strconv.FormatUint(h.Sum64(), 10)
}
