package compose

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/tilescramble/pkg/board"
	"github.com/matzehuels/tilescramble/pkg/partition"
)

// Overlay colours.
const (
	GridColor      = "#ffffff80"
	SelectionColor = "#3b82f6"
)

// OverlayOptions selects what Overlay draws.
type OverlayOptions struct {
	Grid      bool    // cell boundaries
	Selected  int     // highlighted cell, or board.NoSelection
	LineWidth float64 // grid line width; 0 means 1
}

// Overlay draws grid lines and the selection frame over img, which must be a
// canvas rendered for p. img is not modified.
func Overlay(img image.Image, p *partition.Partition, opts OverlayOptions) image.Image {
	dc := gg.NewContextForImage(img)
	if opts.Grid && !p.Degenerate() {
		w := opts.LineWidth
		if w <= 0 {
			w = 1
		}
		dc.SetHexColor(GridColor)
		dc.SetLineWidth(w)
		t := p.Tiled()
		for c := 1; c < p.Cols(); c++ {
			x := float64(p.Cell(c).Min.X)
			dc.DrawLine(x, float64(t.Min.Y), x, float64(t.Max.Y))
		}
		for r := 1; r < p.Rows(); r++ {
			y := float64(p.Cell(r * p.Cols()).Min.Y)
			dc.DrawLine(float64(t.Min.X), y, float64(t.Max.X), y)
		}
		dc.Stroke()
	}
	if opts.Selected != board.NoSelection && opts.Selected >= 0 && opts.Selected < p.Len() {
		c := p.Cell(opts.Selected)
		dc.SetHexColor(SelectionColor)
		dc.SetLineWidth(3)
		dc.DrawRectangle(float64(c.Min.X)+1.5, float64(c.Min.Y)+1.5, float64(c.Dx())-3, float64(c.Dy())-3)
		dc.Stroke()
	}
	return dc.Image()
}

// Thumbnail scales img to fit within w×h, preserving the aspect ratio.
func Thumbnail(img image.Image, w, h int) *image.NRGBA {
	return imaging.Fit(img, max(w, 1), max(h, 1), imaging.NearestNeighbor)
}
