package permgraph

import "slices"

// Cycles decomposes the mapping position → tiles[position] into cycles, each
// starting at its smallest position. Cycles are ordered by that position.
// tiles must be a permutation of [0, len(tiles)).
func Cycles(tiles []int) [][]int {
	seen := make([]bool, len(tiles))
	var out [][]int
	for start := range tiles {
		if seen[start] {
			continue
		}
		var c []int
		for p := start; !seen[p]; p = tiles[p] {
			seen[p] = true
			c = append(c, p)
		}
		out = append(out, c)
	}
	return out
}

// Stats summarises a permutation.
type Stats struct {
	Tiles   int `json:"tiles"`   // length of the permutation
	Fixed   int `json:"fixed"`   // tiles left in place
	Cycles  int `json:"cycles"`  // cycles of length two or more
	Longest int `json:"longest"` // longest cycle
	Swaps   int `json:"swaps"`   // minimum number of swaps to solve: Tiles minus the number of cycles
}

// Summarize computes Stats for tiles.
func Summarize(tiles []int) Stats {
	cs := Cycles(tiles)
	s := Stats{Tiles: len(tiles), Swaps: len(tiles) - len(cs)}
	for _, c := range cs {
		if len(c) == 1 {
			s.Fixed++
			continue
		}
		s.Cycles++
		s.Longest = max(s.Longest, len(c))
	}
	if len(tiles) > 0 {
		s.Longest = max(s.Longest, 1)
	}
	return s
}

// Valid reports whether tiles is a permutation of [0, len(tiles)).
func Valid(tiles []int) bool {
	sorted := slices.Clone(tiles)
	slices.Sort(sorted)
	for i, v := range sorted {
		if v != i {
			return false
		}
	}
	return true
}
