// Package board holds the ordered piece array of a scramble.
//
// Position i of a Board is cell i of the partition; the piece there names the
// source tile it shows and how that tile is rotated and flipped. The tiles
// across a board are always a permutation of [0, n): Swap, RotateAt and the
// selection never change that set, and Shuffle replaces the whole board in a
// single assignment.
//
// All methods treat a nil or empty board as a no-op.
package board

import (
	"fmt"

	"github.com/matzehuels/tilescramble/pkg/rng"
)

// Piece is a tile instance occupying one cell.
type Piece struct {
	Tile     int  // index of the source tile
	Rotation int  // clockwise degrees: 0, 90, 180 or 270
	FlipH    bool // mirror across the vertical axis
	FlipV    bool // mirror across the horizontal axis
}

// Identity reports whether p shows its tile untransformed.
func (p Piece) Identity() bool {
	return p.Rotation == 0 && !p.FlipH && !p.FlipV
}

func (p Piece) String() string {
	s := fmt.Sprintf("%d@%d", p.Tile, p.Rotation)
	if p.FlipH {
		s += "h"
	}
	if p.FlipV {
		s += "v"
	}
	return s
}

// NoSelection is returned by Selected when no position is selected.
const NoSelection = -1

// Board is the ordered sequence of pieces plus the identity snapshot it was
// created with and at most one selected position.
type Board struct {
	pieces   []Piece
	snapshot []Piece
	selected int
}

// New builds the identity board for n tiles: position i holds tile i,
// unrotated and unflipped.
func New(n int) *Board {
	n = max(n, 0)
	b := &Board{
		pieces:   identity(n),
		snapshot: identity(n),
		selected: NoSelection,
	}
	return b
}

func identity(n int) []Piece {
	p := make([]Piece, n)
	for i := range p {
		p[i] = Piece{Tile: i}
	}
	return p
}

// Len returns the number of positions.
func (b *Board) Len() int {
	if b == nil {
		return 0
	}
	return len(b.pieces)
}

func (b *Board) empty() bool { return b.Len() == 0 }

func (b *Board) valid(pos int) bool { return pos >= 0 && pos < b.Len() }

// At returns the piece at pos. It panics if pos is out of range.
func (b *Board) At(pos int) Piece { return b.pieces[pos] }

// Pieces returns a copy of the pieces in position order.
func (b *Board) Pieces() []Piece {
	if b.empty() {
		return nil
	}
	return append([]Piece(nil), b.pieces...)
}

// Clone returns an independent copy of b, selection included.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	return &Board{
		pieces:   append([]Piece(nil), b.pieces...),
		snapshot: append([]Piece(nil), b.snapshot...),
		selected: b.selected,
	}
}

// Shuffle permutes the identity sequence with src and then assigns
// transforms. The result is computed on a scratch slice and committed in one
// assignment; the selection is cleared.
//
// Shuffle always starts from the identity, so a given seed and flag pair
// yields the same board whatever state b was in.
func (b *Board) Shuffle(src rng.Source, allowRotation, allowFlip bool) {
	if b.empty() {
		return
	}
	perm := rng.Permutation(src, len(b.pieces))
	next := make([]Piece, len(perm))
	for i, t := range perm {
		next[i] = Piece{Tile: t}
	}
	AssignTransforms(next, src, allowRotation, allowFlip)
	b.pieces = next
	b.selected = NoSelection
}

// Swap exchanges the pieces at a and b. Transforms travel with the piece.
func (b *Board) Swap(i, j int) {
	if !b.valid(i) || !b.valid(j) {
		return
	}
	b.pieces[i], b.pieces[j] = b.pieces[j], b.pieces[i]
}

// RotateAt turns the piece at pos a further 90° clockwise.
func (b *Board) RotateAt(pos int) {
	if !b.valid(pos) {
		return
	}
	b.pieces[pos].Rotation = (b.pieces[pos].Rotation + 90) % 360
}

// Reset restores the identity snapshot and clears the selection.
func (b *Board) Reset() {
	if b.empty() {
		return
	}
	copy(b.pieces, b.snapshot)
	b.selected = NoSelection
}

// Select marks pos as selected, replacing any previous selection.
func (b *Board) Select(pos int) {
	if !b.valid(pos) {
		return
	}
	b.selected = pos
}

// Deselect clears the selection.
func (b *Board) Deselect() {
	if b == nil {
		return
	}
	b.selected = NoSelection
}

// Selected returns the selected position or NoSelection.
func (b *Board) Selected() int {
	if b == nil {
		return NoSelection
	}
	return b.selected
}

// Solved reports whether every position shows its own tile untransformed.
func (b *Board) Solved() bool {
	for i, p := range b.Pieces() {
		if p.Tile != i || !p.Identity() {
			return false
		}
	}
	return true
}

// Tiles returns the tile index at each position.
func (b *Board) Tiles() []int {
	out := make([]int, b.Len())
	for i := range out {
		out[i] = b.pieces[i].Tile
	}
	return out
}

// Inverse returns the board that, composited over an image rendered from b,
// reproduces the original arrangement. Cell t of the inverse takes its pixels
// from the position where b placed tile t and undoes that piece's transform.
func (b *Board) Inverse() *Board {
	if b.empty() {
		return New(0)
	}
	inv := New(len(b.pieces))
	for pos, p := range b.pieces {
		inv.pieces[p.Tile] = p.inverse(pos)
	}
	return inv
}

// inverse returns the piece that undoes p, reading from position pos.
// A reflection composed with a rotation is an involution, so the rotation is
// kept when exactly one axis is flipped and negated otherwise.
func (p Piece) inverse(pos int) Piece {
	rot := p.Rotation
	if p.FlipH == p.FlipV {
		rot = (360 - rot) % 360
	}
	return Piece{Tile: pos, Rotation: rot, FlipH: p.FlipH, FlipV: p.FlipV}
}
