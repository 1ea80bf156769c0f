// Package gesture turns pointer input into board actions.
//
// [Surface] maps a pointer position on a displayed canvas to a board
// position, correcting for the difference between the displayed size and the
// canvas' backing pixel size. [Machine] resolves a press/release cycle into
// exactly one action: a long press rotates, a secondary press rotates, and a
// plain tap selects, deselects or swaps with the selection.
//
// Neither type depends on a UI toolkit; callers feed them coordinates and
// button state.
package gesture

import (
	"math"

	"github.com/matzehuels/tilescramble/pkg/partition"
)

// Surface is a canvas displayed at a possibly different size.
type Surface struct {
	DisplayW, DisplayH float64
	Partition          *partition.Partition
}

// Backing converts a display coordinate to a canvas pixel.
func (s Surface) Backing(x, y float64) (int, int) {
	c := s.Partition.Canvas()
	bx := x * float64(c.Dx()) / s.DisplayW
	by := y * float64(c.Dy()) / s.DisplayH
	return int(math.Floor(bx)), int(math.Floor(by))
}

// Locate returns the board position under display point (x, y), or
// partition.NoHit outside the tiled region.
func (s Surface) Locate(x, y float64) int {
	if s.Partition.Degenerate() || s.DisplayW <= 0 || s.DisplayH <= 0 {
		return partition.NoHit
	}
	bx, by := s.Backing(x, y)
	return s.Partition.Locate(bx, by)
}
