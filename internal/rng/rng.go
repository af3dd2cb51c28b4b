// Package rng provides the explicit randomness sources threaded through
// sequencing and value synthesis.
package rng

import (
	"math/rand/v2"

	"fortio.org/safecast"
)

// Source abstracts the source of randomness.
type Source interface {
	// Intn returns a uniform value in [0, n). n must be positive.
	Intn(n int) int
	// Uint64 returns a uniform 64-bit value.
	Uint64() uint64
	// Uint64N returns a uniform value in [0, n). n must be positive.
	Uint64N(n uint64) uint64
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

// Rand is a seeded PCG source.
type Rand struct {
	r *rand.Rand
}

// New returns a source seeded with seed.
func New(seed uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^streamMix))}
}

const streamMix = 0x9E3779B97F4A7C15

// Derive returns the source of the index-th item of a batch seeded with
// seed. The result depends only on (seed, index).
func Derive(seed uint64, index int) *Rand {
	idx, err := safecast.Conv[uint64](index)
	if err != nil {
		panic("rng: negative derive index")
	}
	return &Rand{r: rand.New(rand.NewPCG(seed, (idx+1)*streamMix))}
}

func (s *Rand) Intn(n int) int          { return s.r.IntN(n) }
func (s *Rand) Uint64() uint64          { return s.r.Uint64() }
func (s *Rand) Uint64N(n uint64) uint64 { return s.r.Uint64N(n) }
func (s *Rand) Float64() float64        { return s.r.Float64() }

// Chance returns true with probability p.
func Chance(s Source, p float64) bool {
	return s.Float64() < p
}

// Coin is a fair coin flip.
func Coin(s Source) bool {
	return Chance(s, 0.5)
}

// Between returns a uniform value in [lo, hi). hi must exceed lo.
func Between(s Source, lo, hi int) int {
	return lo + s.Intn(hi-lo)
}

// Pick returns a uniformly chosen element. items must not be empty.
func Pick[T any](s Source, items []T) T {
	return items[s.Intn(len(items))]
}
