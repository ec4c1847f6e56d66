package narrative

import (
	"math/rand/v2"
	"sync/atomic"
	"time"
)

// Rand is the randomness the Composer consumes. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// Source hands out independent generators, one per call site, so that
// concurrent sessions never share mutable random state.
type Source struct {
	seed    uint64
	counter atomic.Uint64
}

// NewSource returns a Source. A zero seed is replaced by the clock, which
// makes output vary between runs; any other seed makes the sequence of
// generators reproducible.
func NewSource(seed uint64) *Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Source{seed: seed}
}

// New returns a fresh generator.
func (s *Source) New() Rand {
	n := s.counter.Add(1)
	return rand.New(rand.NewPCG(s.seed, n))
}

// pick returns a uniformly chosen element, or "" for an empty pool.
func pick(pool []string, rng Rand) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.IntN(len(pool))]
}

// chance reports true with probability p.
func chance(p float64, rng Rand) bool {
	return p > 0 && rng.Float64() < p
}
