// Package rng implements the xorshift32 generator and the Fisher-Yates
// permutation used to scramble a board.
//
// Both are part of the reproducibility contract: a given seed must produce
// the same draws, and the same permutation, on every platform. All state
// arithmetic is done in uint32, so shifts truncate to 32 bits by construction.
package rng

import "github.com/matzehuels/tilescramble/pkg/seed"

// Source yields uniformly distributed values in [0, 1).
// Every call consumes exactly one draw.
type Source interface {
	Float64() float64
}

// XorShift32 is Marsaglia's 32-bit xorshift generator with shifts 13, 17, 5.
type XorShift32 struct {
	state uint32
}

// New returns a generator seeded with s. A zero seed is replaced with
// seed.Fallback since zero is a fixed point of the generator.
func New(s uint32) *XorShift32 {
	if s == 0 {
		s = seed.Fallback
	}
	return &XorShift32{state: s}
}

// Next advances the generator and returns the new state.
func (r *XorShift32) Next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float64 advances the generator and returns state / 2^32.
func (r *XorShift32) Float64() float64 {
	return float64(r.Next()) / (1 << 32)
}

// State returns the current generator state without advancing it.
func (r *XorShift32) State() uint32 {
	return r.state
}

// Intn returns floor(draw * n) for one draw. n must be positive.
func Intn(src Source, n int) int {
	return int(src.Float64() * float64(n))
}

// Shuffle runs Fisher-Yates over n elements: i goes from n-1 down to 1, and
// each step draws once and swaps i with Intn(src, i+1). The draw order is
// fixed and must not change.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := Intn(src, i+1)
		swap(i, j)
	}
}

// Permutation returns a permutation of [0, n) produced by Shuffle on the
// identity sequence.
func Permutation(src Source, n int) []int {
	if n <= 0 {
		return nil
	}
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	Shuffle(src, n, func(i, j int) { p[i], p[j] = p[j], p[i] })
	return p
}
