package util

import "runtime"

// GetOptimalPoolSize returns the pool size shared by the parser pools and the
// file worker pool.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// The parser pool and the worker pool must be sized identically: a worker
// that cannot acquire a parser blocks, and an oversized parser pool only
// wastes memory (each tree-sitter parser holds grammar state).
//
//   - Minimum 4: some parallelism even on weak machines
//   - 2× CPU cores: parsing is CGO-heavy; extra slots keep cores busy while
//     a goroutine is blocked inside tree-sitter
//   - Maximum 32: caps memory on high-core machines
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU() * 2

	if poolSize < 4 {
		poolSize = 4
	}
	if poolSize > 32 {
		poolSize = 32
	}

	return poolSize
}
