package util

import "runtime"

// GetOptimalPoolSize returns the concurrency limit for CPU-bound fan-out:
// min(max(runtime.NumCPU() * 2, 4), 32).
//
// It sizes both the tree-sitter parser pool and the number of catalog files
// validated at once, so parse-heavy work never waits on a parser.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
