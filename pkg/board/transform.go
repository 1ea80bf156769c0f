package board

import "github.com/matzehuels/tilescramble/pkg/rng"

// AssignTransforms sets the rotation and flips of pieces in ascending
// position order.
//
// For each position, one draw picks the rotation floor(d*4)*90 when
// allowRotation is set; then, when allowFlip is set, two more draws pick
// FlipH and FlipV (d < 0.5). A disabled feature consumes no draws and forces
// zero rotation or no flip. The draw order is part of the reproducibility
// contract.
func AssignTransforms(pieces []Piece, src rng.Source, allowRotation, allowFlip bool) {
	for i := range pieces {
		p := &pieces[i]
		p.Rotation = 0
		p.FlipH, p.FlipV = false, false
		if allowRotation {
			p.Rotation = rng.Intn(src, 4) * 90
		}
		if allowFlip {
			p.FlipH = src.Float64() < 0.5
			p.FlipV = src.Float64() < 0.5
		}
	}
}
