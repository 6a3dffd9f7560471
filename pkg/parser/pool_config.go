package parser

import (
	"github.com/tim-richter/spinne/pkg/util"
)

// getDefaultPoolSize returns the default pool size based on CPU count.
//
// Delegates to util.GetOptimalPoolSize() so that the parser pools and the
// file worker pool are always sized identically; a mismatch makes workers
// block waiting for parsers.
func getDefaultPoolSize() int {
	return util.GetOptimalPoolSize()
}
