package engine

import "math/rand/v2"

// Source is the uniform randomness used by the generator and the auction.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform int in [0, n). n must be > 0.
	IntN(n int) int
}

// NewSource returns a PCG-backed source. The same seed always yields the
// same sequence. A zero seed is replaced by a random one.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(ResolveSeed(seed), pcgStream))
}

// ResolveSeed returns seed unchanged unless it is zero, in which case a
// non-deterministic seed is drawn.
func ResolveSeed(seed uint64) uint64 {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return seed
}

const pcgStream = 0x9e3779b97f4a7c15

// intBetween draws a uniform int from the closed range [lo, hi].
func intBetween(src Source, lo, hi int) int {
	return lo + src.IntN(hi-lo+1)
}
