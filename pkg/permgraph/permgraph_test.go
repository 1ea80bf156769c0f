package permgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/tilescramble/pkg/board"
	"github.com/matzehuels/tilescramble/pkg/partition"
	"github.com/matzehuels/tilescramble/pkg/rng"
	"github.com/matzehuels/tilescramble/pkg/seed"
)

var abc123 = []int{5, 7, 4, 0, 2, 8, 6, 3, 1}

func TestCycles(t *testing.T) {
	got := Cycles(abc123)
	want := [][]int{{0, 5, 8, 1, 7, 3}, {2, 4}, {6}}
	if len(got) != len(want) {
		t.Fatalf("Cycles() = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("cycle %d = %v, want %v", i, got[i], want[i])
		}
	}

	if got := Cycles(nil); len(got) != 0 {
		t.Errorf("Cycles(nil) = %v", got)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		tiles []int
		want  Stats
	}{
		{"abc123", abc123, Stats{Tiles: 9, Fixed: 1, Cycles: 2, Longest: 6, Swaps: 6}},
		{"identity", []int{0, 1, 2}, Stats{Tiles: 3, Fixed: 3, Longest: 1}},
		{"transposition", []int{1, 0}, Stats{Tiles: 2, Cycles: 1, Longest: 2, Swaps: 1}},
		{"empty", nil, Stats{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.tiles); got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSwapsSolveBoard(t *testing.T) {
	b := board.New(36)
	b.Shuffle(rng.New(seed.FromPassphrase("swaps")), false, false)
	want := Summarize(b.Tiles()).Swaps

	swaps := 0
	for pos := range b.Len() {
		for b.At(pos).Tile != pos {
			b.Swap(pos, b.At(pos).Tile)
			swaps++
		}
	}
	if !b.Solved() {
		t.Fatal("board not solved")
	}
	if swaps != want {
		t.Errorf("solved in %d swaps, Summarize says %d", swaps, want)
	}
}

func TestValid(t *testing.T) {
	if !Valid(abc123) {
		t.Error("Valid(abc123) = false")
	}
	for _, bad := range [][]int{{0, 0}, {1, 2}, {-1, 0}} {
		if Valid(bad) {
			t.Errorf("Valid(%v) = true", bad)
		}
	}
}

func TestToDOT(t *testing.T) {
	b := board.New(9)
	b.Shuffle(rng.New(seed.FromPassphrase("abc123")), true, false)
	dot := ToDOT(b.Pieces(), Options{Cols: 3})

	for _, want := range []string{
		"digraph P",
		"subgraph cluster_0",
		`label="6-cycle"`,
		`label="2-cycle"`,
		`label="fixed"`,
		"p0 -> p5;",
		"p2 -> p4;",
		"p4 -> p2;",
		`r0c0\n← 5\n180°`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "p6 -> p6") {
		t.Error("ToDOT() drew a self loop for a fixed point")
	}
}

func TestToDOTHideFixed(t *testing.T) {
	pieces := board.New(3).Pieces()
	pieces[0], pieces[1] = pieces[1], pieces[0]
	dot := ToDOT(pieces, Options{HideFixed: true})
	if strings.Contains(dot, "p2 ") {
		t.Errorf("ToDOT() kept fixed point:\n%s", dot)
	}

	pieces[2].Rotation = 90
	dot = ToDOT(pieces, Options{HideFixed: true})
	if !strings.Contains(dot, "p2 [") {
		t.Errorf("ToDOT() hid a rotated fixed point:\n%s", dot)
	}
}

func TestToDOTInvalid(t *testing.T) {
	dot := ToDOT([]board.Piece{{Tile: 3}}, Options{})
	if strings.Contains(dot, "subgraph") {
		t.Errorf("ToDOT() of an invalid board has clusters:\n%s", dot)
	}
}

func TestRenderDOT(t *testing.T) {
	out, err := Render(context.Background(), "digraph P {}", DOT)
	if err != nil || string(out) != "digraph P {}" {
		t.Errorf("Render(DOT) = %q, %v", out, err)
	}
	if _, err := Render(context.Background(), "digraph P {}", "bmp"); err == nil {
		t.Error("Render(bmp) succeeded")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	dot := ToDOT(board.New(4).Pieces(), Options{})
	svg, err := Render(context.Background(), dot, SVG)
	if err != nil {
		t.Fatalf("Render(SVG) error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("Render(SVG) output is not SVG")
	}
}

func TestWriteJSON(t *testing.T) {
	p, err := partition.New(image.Rect(0, 0, 30, 30), partition.Config{Variant: partition.Grid, Grid: 3})
	if err != nil {
		t.Fatal(err)
	}
	pieces := make([]board.Piece, len(abc123))
	for i, tile := range abc123 {
		pieces[i] = board.Piece{Tile: tile}
	}
	pieces[0].Rotation, pieces[0].FlipH = 180, true

	var buf bytes.Buffer
	if err := WriteJSON(&buf, p, pieces); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var got struct {
		Variant string `json:"variant"`
		Cols    int    `json:"cols"`
		Pieces  []struct {
			Pos, Tile, Rotation int
			FlipH               bool   `json:"flip_h"`
			Cell                [4]int `json:"cell"`
		} `json:"pieces"`
		Cycles [][]int `json:"cycles"`
		Stats  Stats   `json:"stats"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Variant != "grid" || got.Cols != 3 || len(got.Pieces) != 9 {
		t.Errorf("header = %q cols=%d pieces=%d", got.Variant, got.Cols, len(got.Pieces))
	}
	first := got.Pieces[0]
	if first.Tile != 5 || first.Rotation != 180 || !first.FlipH || first.Cell != [4]int{0, 0, 10, 10} {
		t.Errorf("pieces[0] = %+v", first)
	}
	if got.Pieces[4].Cell != [4]int{10, 10, 10, 10} {
		t.Errorf("pieces[4].cell = %v", got.Pieces[4].Cell)
	}
	if got.Stats.Swaps != 6 || len(got.Cycles) != 3 {
		t.Errorf("stats = %+v cycles = %v", got.Stats, got.Cycles)
	}

	if err := WriteJSON(&buf, p, pieces[:4]); err == nil {
		t.Error("WriteJSON() accepted a board of the wrong length")
	}
}
