package solver

import "math/rand"

// NewRand builds a seeded generator. A single seeded source threaded through
// selection, crossover, mutation, and TSSP tie-breaking is what makes a run
// reproducible given (instance, seed, parameters) — spec section 9 forbids
// reaching for the package-level math/rand functions anywhere in this tree.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// childSeed derives a deterministic, distinct seed for individual i of the
// initial population so that parallel seed construction (spec section 5)
// never shares — or leaks across — a single *rand.Rand.
func childSeed(base int64, i int) int64 {
	// Splitmix64-style mix: cheap, well distributed, deterministic.
	x := uint64(base) + uint64(i+1)*0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	x = x ^ (x >> 31)
	return int64(x)
}
