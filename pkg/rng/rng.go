// Package rng provides the seeded random source shared by a randomization run.
package rng

import "math/rand"

// countingSource counts every value taken from the wrapped source.
type countingSource struct {
	src rand.Source64
	n   int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.n++
	return c.src.Uint64()
}

func (c *countingSource) Seed(seed int64) {
	c.n = 0
	c.src.Seed(seed)
}

// Rand wraps math/rand.Rand with deterministic position tracking.
// Position counts the values drawn from the underlying source, so a stream
// can be restored from (seed, position) alone even when Intn rejects and
// redraws.
type Rand struct {
	seed int64
	cnt  *countingSource
	src  *rand.Rand
}

// New creates a new deterministic source from a seed.
func New(seed int64) *Rand {
	cnt := &countingSource{src: rand.NewSource(seed).(rand.Source64)}
	return &Rand{
		seed: seed,
		cnt:  cnt,
		src:  rand.New(cnt),
	}
}

// Seed returns the seed the source was created with.
func (r *Rand) Seed() int64 {
	return r.seed
}

// Intn returns a uniform integer in [0, n).
// Returns 0 without drawing when n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.src.Intn(n)
}

// Range returns a uniform integer in [lo, hi).
// An empty or inverted range yields lo without drawing.
func (r *Rand) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo)
}

// Int63 returns a non-negative 63-bit integer.
func (r *Rand) Int63() int64 {
	return r.src.Int63()
}

// Split draws one value from r and returns a new independent source
// seeded with it. Splitting the same stream in the same order always
// yields the same children.
func (r *Rand) Split() *Rand {
	return New(r.Int63())
}

// Position returns the number of values drawn from the underlying source.
func (r *Rand) Position() int64 {
	return r.cnt.n
}

// Restore creates a source and advances it to the given position.
func Restore(seed int64, position int64) *Rand {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.cnt.Int63()
	}
	return r
}
