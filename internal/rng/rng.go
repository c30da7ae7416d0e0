// Package rng provides a seedable random number source for rotation
// decisions. Injecting the source keeps every randomized choice in the
// engine deterministic under a fixed seed.
package rng

import (
	"math/rand"
	"time"
)

// Source produces the two kinds of randomness the rotation engine needs:
// uniform integers over an inclusive range and uniform picks from a slice.
type Source interface {
	// IntBetween returns a uniform integer in [min, max], inclusive.
	IntBetween(min, max int) int

	// Pick returns a uniform index into a collection of length n.
	// n must be > 0.
	Pick(n int) int
}

type mathSource struct {
	r *rand.Rand
}

// New creates a Source seeded with the given value.
// A seed of 0 means seed from the current time.
func New(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &mathSource{r: rand.New(rand.NewSource(seed))}
}

func (s *mathSource) IntBetween(min, max int) int {
	if min >= max {
		return min
	}
	return min + s.r.Intn(max-min+1)
}

func (s *mathSource) Pick(n int) int {
	return s.r.Intn(n)
}
