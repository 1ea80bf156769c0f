package permgraph

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/tilescramble/pkg/board"
	"github.com/matzehuels/tilescramble/pkg/partition"
)

type arrangement struct {
	Variant string  `json:"variant"`
	Cols    int     `json:"cols"`
	Rows    int     `json:"rows"`
	Pieces  []piece `json:"pieces"`
	Cycles  [][]int `json:"cycles"`
	Stats   Stats   `json:"stats"`
}

type piece struct {
	Pos      int    `json:"pos"`
	Tile     int    `json:"tile"`
	Rotation int    `json:"rotation"`
	FlipH    bool   `json:"flip_h,omitempty"`
	FlipV    bool   `json:"flip_v,omitempty"`
	Cell     [4]int `json:"cell"` // x, y, width, height on the canvas
}

// WriteJSON encodes an arrangement as JSON: one entry per board position with
// the tile it shows and the canvas cell it covers, plus its cycles and Stats.
func WriteJSON(w io.Writer, p *partition.Partition, pieces []board.Piece) error {
	if p.Len() != len(pieces) {
		return fmt.Errorf("board has %d pieces for %d cells", len(pieces), p.Len())
	}
	tiles := make([]int, len(pieces))
	out := arrangement{
		Variant: string(p.Config().Variant),
		Cols:    p.Cols(),
		Rows:    p.Rows(),
		Pieces:  make([]piece, len(pieces)),
	}
	for pos, pc := range pieces {
		c := p.Cell(pos)
		tiles[pos] = pc.Tile
		out.Pieces[pos] = piece{
			Pos:      pos,
			Tile:     pc.Tile,
			Rotation: pc.Rotation,
			FlipH:    pc.FlipH,
			FlipV:    pc.FlipV,
			Cell:     [4]int{c.Min.X, c.Min.Y, c.Dx(), c.Dy()},
		}
	}
	out.Cycles = Cycles(tiles)
	out.Stats = Summarize(tiles)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
