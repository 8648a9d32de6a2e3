package engine

import "math/rand/v2"

// countingSource is a PCG stream that counts the values drawn from it, so
// a loaded game can fast-forward to the same point.
type countingSource struct {
	pcg   *rand.PCG
	drawn int64
}

func (s *countingSource) Uint64() uint64 {
	s.drawn++
	return s.pcg.Uint64()
}

// RNG rolls the damage variance dice. It is seeded from the game config
// and saved as (seed, draws).
type RNG struct {
	seed int64
	src  *countingSource
	r    *rand.Rand
}

// NewRNG creates a deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	src := &countingSource{pcg: rand.NewPCG(uint64(seed), 0)}
	return &RNG{seed: seed, src: src, r: rand.New(src)}
}

// Roll returns a value in [1, sides], or 0 when sides < 1 without drawing.
func (r *RNG) Roll(sides int) int {
	if sides < 1 {
		return 0
	}
	return r.r.IntN(sides) + 1
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 { return r.seed }

// Position returns the number of values drawn from the stream.
func (r *RNG) Position() int64 { return r.src.drawn }

// RestoreRNG creates an RNG and advances its stream by position draws.
func RestoreRNG(seed, position int64) *RNG {
	r := NewRNG(seed)
	for r.src.drawn < position {
		r.src.Uint64()
	}
	return r
}
