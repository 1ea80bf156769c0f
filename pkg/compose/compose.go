package compose

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tilescramble/pkg/board"
	"github.com/matzehuels/tilescramble/pkg/errors"
	"github.com/matzehuels/tilescramble/pkg/partition"
)

// Render draws every cell of p with the matching piece and returns a canvas
// the size of p.Canvas(). Rows are drawn concurrently; cells are disjoint so
// no locking is needed. pieces must not be mutated while Render runs.
func Render(ctx context.Context, src image.Image, p *partition.Partition, pieces []board.Piece) (*image.NRGBA, error) {
	if p.Degenerate() {
		return nil, errors.New(errors.ErrCodePartitionDegenerate, "no tiles to render")
	}
	if len(pieces) != p.Len() {
		return nil, errors.New(errors.ErrCodeInternal, "board has %d pieces, partition has %d tiles", len(pieces), p.Len())
	}

	dst := image.NewNRGBA(p.Canvas())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for r := range p.Rows() {
		g.Go(func() error {
			for c := range p.Cols() {
				if err := ctx.Err(); err != nil {
					return err
				}
				i := r*p.Cols() + c
				pc := pieces[i]
				if pc.Tile < 0 || pc.Tile >= p.Len() {
					return errors.New(errors.ErrCodeInternal, "piece %d names tile %d", i, pc.Tile)
				}
				DrawPiece(dst, p.Cell(i), src, p.Tile(pc.Tile), pc)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dst, nil
}

// DrawPiece draws the tile rectangle of src into cell of dst, transformed by
// the piece's flips and rotation. Pixels outside cell are left untouched.
func DrawPiece(dst *image.NRGBA, cell image.Rectangle, src image.Image, tile image.Rectangle, pc board.Piece) {
	cell = cell.Intersect(dst.Bounds())
	if cell.Empty() || tile.Empty() {
		return
	}
	clip := dst.SubImage(cell).(*image.NRGBA)
	m := Matrix(cell, tile, pc)
	if m[1] == 0 && m[3] == 0 && m[0] > 0 && m[4] > 0 {
		// Upright piece. Transform mishandles pure integer translations
		// (it copies from the wrong source point), so copy or scale directly.
		if cell.Size() == tile.Size() {
			draw.Copy(clip, cell.Min, src, tile, draw.Src, nil)
		} else {
			draw.NearestNeighbor.Scale(clip, cell, src, tile, draw.Src, nil)
		}
		return
	}
	draw.NearestNeighbor.Transform(clip, m, src, tile, draw.Src, nil)
}

// Matrix returns the source-to-destination affine transform for drawing tile
// into cell with the piece's transform.
func Matrix(cell, tile image.Rectangle, pc board.Piece) f64.Aff3 {
	cos, sin := quarterTurn(pc.Rotation)
	fx, fy := 1.0, 1.0
	if pc.FlipH {
		fx = -1
	}
	if pc.FlipV {
		fy = -1
	}
	sx := float64(cell.Dx()) / float64(tile.Dx())
	sy := float64(cell.Dy()) / float64(tile.Dy())

	// F · R · S
	a, b := fx*cos*sx, -fx*sin*sy
	d, e := fy*sin*sx, fy*cos*sy

	cdx, cdy := centre(cell)
	csx, csy := centre(tile)
	return f64.Aff3{
		a, b, cdx - a*csx - b*csy,
		d, e, cdy - d*csx - e*csy,
	}
}

func centre(r image.Rectangle) (float64, float64) {
	return float64(r.Min.X+r.Max.X) / 2, float64(r.Min.Y+r.Max.Y) / 2
}

// quarterTurn returns exact cosine and sine for multiples of 90 degrees.
func quarterTurn(deg int) (cos, sin float64) {
	switch ((deg % 360) + 360) % 360 {
	case 90:
		return 0, 1
	case 180:
		return -1, 0
	case 270:
		return 0, -1
	}
	return 1, 0
}
