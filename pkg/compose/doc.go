// Package compose renders a board: each cell receives its piece's source
// tile, flipped and rotated about the cell centre.
//
// # Transform
//
// A source point p of a tile with centre Cs lands at
//
//	Cd + F · R(θ) · S · (p − Cs)
//
// where Cd is the destination cell centre, S scales the tile to the cell, R(θ)
// rotates clockwise (y points down) and F mirrors the flipped axes. F is
// applied after R in this product, which is the same as flipping the frame
// first and rotating inside the flipped frame. Swapping the two changes
// which mirror axis survives a 90° or 270° turn, so the order is fixed.
//
// Pixels are sampled nearest-neighbour and clipped to the cell. When a quarter
// turn maps a non-square tile into its cell, the uncovered corners stay
// transparent, as does any part of the canvas outside the tiled region.
package compose
