// Package conv provides checked integer narrowing for automaton and trie
// indices. Overflow means a pattern set far beyond any supported size, so
// the helpers panic rather than silently wrapping.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n is negative or does not fit.
func IntToUint32(n int) uint32 {
	if n < 0 || uint64(n) > math.MaxUint32 {
		panic("conv: index out of uint32 range")
	}
	return uint32(n)
}

// IntToInt32 converts n to int32.
// Panics if n does not fit.
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("conv: index out of int32 range")
	}
	return int32(n)
}
