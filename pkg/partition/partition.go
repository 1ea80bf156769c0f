// Package partition carves a source raster into tile rectangles.
//
// One Partition type covers all variants. A partition works in two coordinate
// spaces:
//
//   - source coordinates, the bounds of the decoded image; [Tile] rectangles
//     live here and are what the compositor samples from.
//   - canvas coordinates, the cropped region translated to the origin; [Cell]
//     rectangles and [Partition.Locate] live here and are what the compositor
//     draws into.
//
// Tiles and cells are listed in row-major order and share indices, so cell i
// of an unshuffled board shows tile i.
package partition

import (
	"fmt"
	"image"
	"sort"
)

// NoHit is returned by Locate for points outside the tiled region.
const NoHit = -1

// Tile is an immutable source rectangle.
type Tile struct {
	Index int
	Rect  image.Rectangle
}

// Partition is the tiling of one image under one Config.
type Partition struct {
	cfg    Config
	region image.Rectangle // source coordinates, after square crop
	cols   int
	rows   int
	xs, ys []int // cell boundaries in canvas coordinates, len cols+1 and rows+1
	tiles  []Tile
}

// New partitions bounds under cfg. A region too small for a single tile
// yields an empty (degenerate) partition, not an error; only an invalid cfg
// is rejected.
func New(bounds image.Rectangle, cfg Config) (*Partition, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Partition{cfg: cfg, region: crop(bounds.Canon(), cfg.Square)}
	w, h := p.region.Dx(), p.region.Dy()

	switch cfg.Variant {
	case Grid:
		n := cfg.Grid
		if w < n || h < n {
			break
		}
		p.cols, p.rows = n, n
		p.xs = spread(w, n)
		p.ys = spread(h, n)
	default:
		e := cfg.Edge()
		p.cols, p.rows = w/e, h/e
		if p.cols == 0 || p.rows == 0 {
			p.cols, p.rows = 0, 0
			break
		}
		p.xs = steps(p.cols, e)
		p.ys = steps(p.rows, e)
	}

	p.tiles = make([]Tile, 0, p.cols*p.rows)
	for i := range p.cols * p.rows {
		p.tiles = append(p.tiles, Tile{Index: i, Rect: p.Cell(i).Add(p.region.Min)})
	}
	return p, nil
}

// crop returns the centred min(W,H) square of r, or r itself.
func crop(r image.Rectangle, square bool) image.Rectangle {
	if !square {
		return r
	}
	w, h := r.Dx(), r.Dy()
	s := min(w, h)
	x0 := r.Min.X + (w-s)/2
	y0 := r.Min.Y + (h-s)/2
	return image.Rect(x0, y0, x0+s, y0+s)
}

// spread returns n+1 boundaries floor(i*length/n).
func spread(length, n int) []int {
	b := make([]int, n+1)
	for i := range b {
		b[i] = i * length / n
	}
	return b
}

// steps returns n+1 boundaries i*edge.
func steps(n, edge int) []int {
	b := make([]int, n+1)
	for i := range b {
		b[i] = i * edge
	}
	return b
}

// Config returns the configuration the partition was built with.
func (p *Partition) Config() Config { return p.cfg }

// Len returns the number of tiles. It is the required board length.
func (p *Partition) Len() int {
	if p == nil {
		return 0
	}
	return len(p.tiles)
}

// Degenerate reports whether the partition has no tiles.
func (p *Partition) Degenerate() bool { return p.Len() == 0 }

// Cols returns the number of tiles per row.
func (p *Partition) Cols() int { return p.cols }

// Rows returns the number of tile rows.
func (p *Partition) Rows() int { return p.rows }

// Region returns the cropped source region in source coordinates.
func (p *Partition) Region() image.Rectangle { return p.region }

// Canvas returns the output canvas: the cropped region moved to the origin.
// For the Pixel and Micro variants it includes the excluded remainder strips.
func (p *Partition) Canvas() image.Rectangle {
	return image.Rect(0, 0, p.region.Dx(), p.region.Dy())
}

// Tiled returns the part of the canvas covered by cells.
func (p *Partition) Tiled() image.Rectangle {
	if p.Degenerate() {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, p.xs[p.cols], p.ys[p.rows])
}

// Tiles returns the tiles in row-major order. The slice must not be modified.
func (p *Partition) Tiles() []Tile { return p.tiles }

// Tile returns the source rectangle of tile i.
func (p *Partition) Tile(i int) image.Rectangle {
	return p.tiles[i].Rect
}

// Cell returns the canvas rectangle of cell i.
func (p *Partition) Cell(i int) image.Rectangle {
	c, r := i%p.cols, i/p.cols
	return image.Rect(p.xs[c], p.ys[r], p.xs[c+1], p.ys[r+1])
}

// Locate returns the index of the cell containing canvas point (x, y),
// or NoHit when the point lies outside the tiled region.
func (p *Partition) Locate(x, y int) int {
	if p.Degenerate() || !image.Pt(x, y).In(p.Tiled()) {
		return NoHit
	}
	c := sort.SearchInts(p.xs, x+1) - 1
	r := sort.SearchInts(p.ys, y+1) - 1
	return r*p.cols + c
}

// Name returns the export base name encoding the active parameters:
// puzzle_{N}x{N} for Grid and puzzle_{P}px_{cols}x{rows} otherwise.
func (p *Partition) Name() string {
	if p.cfg.Variant == Grid {
		return fmt.Sprintf("puzzle_%dx%d", p.cfg.Grid, p.cfg.Grid)
	}
	return fmt.Sprintf("puzzle_%dpx_%dx%d", p.cfg.Edge(), p.cols, p.rows)
}

// String describes the partition for logs.
func (p *Partition) String() string {
	return fmt.Sprintf("%s %dx%d (%d tiles, region %v)", p.cfg.Variant, p.cols, p.rows, p.Len(), p.region)
}
