package rng

import (
	"slices"
	"testing"

	"github.com/matzehuels/tilescramble/pkg/seed"
)

func TestXorShift32Sequence(t *testing.T) {
	r := New(1)
	want := []uint32{270369, 67634689, 2647435461, 307599695, 2398689233}
	for i, w := range want {
		if got := r.Next(); got != w {
			t.Fatalf("draw %d = %d, want %d", i, got, w)
		}
	}
}

func TestXorShift32FromPassphrase(t *testing.T) {
	r := New(seed.FromPassphrase("abc123"))
	want := []uint32{710951479, 1727059876, 4236860774}
	for i, w := range want {
		if got := r.Next(); got != w {
			t.Fatalf("draw %d = %d, want %d", i, got, w)
		}
	}
}

func TestNewZeroSeed(t *testing.T) {
	r := New(0)
	if r.State() != seed.Fallback {
		t.Errorf("State() = %#x, want %#x", r.State(), seed.Fallback)
	}
	if r.Next() == 0 {
		t.Error("generator stuck at zero")
	}
}

func TestFloat64Range(t *testing.T) {
	r := New(12345)
	for range 10000 {
		f := r.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v, out of [0,1)", f)
		}
	}
}

func TestDeterministicReplay(t *testing.T) {
	for _, p := range []string{"", "abc123", "another key"} {
		a := New(seed.FromPassphrase(p))
		b := New(seed.FromPassphrase(p))
		for i := range 1000 {
			if x, y := a.Float64(), b.Float64(); x != y {
				t.Fatalf("passphrase %q draw %d: %v != %v", p, i, x, y)
			}
		}
	}
}

func TestPermutation(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		n          int
		want       []int
	}{
		{"abc123 nine", "abc123", 9, []int{5, 7, 4, 0, 2, 8, 6, 3, 1}},
		{"empty five", "", 5, []int{2, 0, 1, 4, 3}},
		{"single", "abc123", 1, []int{0}},
		{"none", "abc123", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Permutation(New(seed.FromPassphrase(tt.passphrase)), tt.n)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Permutation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPermutationIsPermutation(t *testing.T) {
	for n := 1; n <= 200; n += 7 {
		p := Permutation(New(uint32(n)*2654435761), n)
		seen := make([]bool, n)
		for _, v := range p {
			if v < 0 || v >= n || seen[v] {
				t.Fatalf("n=%d: invalid permutation %v", n, p)
			}
			seen[v] = true
		}
	}
}

// countingSource records how many draws were consumed.
type countingSource struct {
	draws int
}

func (c *countingSource) Float64() float64 {
	c.draws++
	return 0.5
}

func TestShuffleDrawCount(t *testing.T) {
	for _, n := range []int{0, 1, 2, 9, 100} {
		src := &countingSource{}
		Shuffle(src, n, func(i, j int) {})
		want := max(n-1, 0)
		if src.draws != want {
			t.Errorf("n=%d: draws = %d, want %d", n, src.draws, want)
		}
	}
}

func TestShuffleDescendingOrder(t *testing.T) {
	var seen []int
	Shuffle(&countingSource{}, 5, func(i, j int) { seen = append(seen, i) })
	if want := []int{4, 3, 2, 1}; !slices.Equal(seen, want) {
		t.Errorf("swap order = %v, want %v", seen, want)
	}
}
