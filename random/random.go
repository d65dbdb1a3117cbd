// Package random provides the seedable random source shared by one simulation.
package random

import "math/rand"

// Source is a pseudo-random generator that can be rewound to its seed.
// It is not safe for concurrent use; each simulation owns one.
type Source struct {
	seed int64
	rng  *rand.Rand
}

// New creates a source seeded with seed.
func New(seed int64) *Source {
	return &Source{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the source resets to.
func (s *Source) Seed() int64 {
	return s.seed
}

// Reset rewinds the source so it replays the same sequence from the start.
func (s *Source) Reset() {
	s.rng.Seed(s.seed)
}

// Reseed changes the seed and rewinds.
func (s *Source) Reseed(seed int64) {
	s.seed = seed
	s.Reset()
}

// Intn returns a value in [0, bound). bound <= 0 yields 0.
func (s *Source) Intn(bound int) int {
	if bound <= 0 {
		return 0
	}
	return s.rng.Intn(bound)
}

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Shuffle randomises the order of n elements using swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}
