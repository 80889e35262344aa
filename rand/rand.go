// rand/rand.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import (
	"github.com/MichaelTJones/pcg"
)

///////////////////////////////////////////////////////////////////////////
// Random numbers.

// Rand is a small wrapper around a PCG32 generator; it is not safe for
// concurrent use.
type Rand struct {
	r *pcg.PCG32
}

func New() *Rand {
	return &Rand{r: pcg.NewPCG32()}
}

// NewSeeded returns a generator seeded with s, so that sequences are
// reproducible.
func NewSeeded(s int64) *Rand {
	r := New()
	r.Seed(s)
	return r
}

func (r *Rand) Seed(s int64) {
	r.r.Seed(uint64(s), 0xda3e39cb94b95bdb)
}

func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}

func (r *Rand) Uint32() uint32 {
	return r.r.Random()
}

func (r *Rand) Float32() float32 {
	return float32(r.r.Random()) / (1<<32 - 1)
}

// Shuffle randomly permutes s in place.
func Shuffle[Slice ~[]E, E any](r *Rand, s Slice) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Sample returns n distinct elements chosen uniformly from s, in the
// order they were drawn. If n exceeds len(s), all of s is returned in a
// random order. s is not modified. A nil generator returns the first n
// elements in order.
func Sample[Slice ~[]E, E any](r *Rand, s Slice, n int) Slice {
	n = max(0, min(n, len(s)))
	c := make(Slice, len(s))
	copy(c, s)
	if r == nil {
		return c[:n]
	}
	// Partial Fisher-Yates: the first n entries are the sample.
	for i := 0; i < n; i++ {
		j := i + r.Intn(len(c)-i)
		c[i], c[j] = c[j], c[i]
	}
	return c[:n]
}
