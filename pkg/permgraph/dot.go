package permgraph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tilescramble/pkg/board"
)

// Options configures the diagram.
type Options struct {
	// Cols, when positive, labels nodes with row/column instead of the flat index.
	Cols int
	// HideFixed omits tiles that are in place and unrotated.
	HideFixed bool
}

// ToDOT converts a board to Graphviz DOT. Node n is board position n, labelled
// with the tile it holds and its transform; edges run from each position to
// the position its tile belongs to.
func ToDOT(pieces []board.Piece, opts Options) string {
	tiles := make([]int, len(pieces))
	for i, p := range pieces {
		tiles[i] = p.Tile
	}

	var buf bytes.Buffer
	buf.WriteString("digraph P {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	if !Valid(tiles) {
		buf.WriteString("}\n")
		return buf.String()
	}

	for i, c := range Cycles(tiles) {
		if len(c) == 1 && opts.HideFixed && pieces[c[0]].Identity() {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", cycleLabel(len(c)))
		buf.WriteString("    style=dashed;\n")
		for _, pos := range c {
			fmt.Fprintf(&buf, "    p%d [%s];\n", pos, strings.Join(nodeAttrs(pos, pieces[pos], opts), ", "))
		}
		for _, pos := range c {
			if len(c) > 1 {
				fmt.Fprintf(&buf, "    p%d -> p%d;\n", pos, tiles[pos])
			}
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func cycleLabel(n int) string {
	if n == 1 {
		return "fixed"
	}
	return fmt.Sprintf("%d-cycle", n)
}

func nodeAttrs(pos int, p board.Piece, opts Options) []string {
	name := fmt.Sprint(pos)
	if opts.Cols > 0 {
		name = fmt.Sprintf("r%dc%d", pos/opts.Cols, pos%opts.Cols)
	}
	label := fmt.Sprintf("%s\\n← %d", name, p.Tile)
	if !p.Identity() {
		label += "\\n" + transformLabel(p)
	}
	attrs := []string{fmt.Sprintf("label=\"%s\"", label)}
	if p.Rotation != 0 || p.FlipH || p.FlipV {
		attrs = append(attrs, "fillcolor=lightyellow")
	}
	return attrs
}

func transformLabel(p board.Piece) string {
	var parts []string
	if p.Rotation != 0 {
		parts = append(parts, fmt.Sprintf("%d°", p.Rotation))
	}
	if p.FlipH {
		parts = append(parts, "H")
	}
	if p.FlipV {
		parts = append(parts, "V")
	}
	return strings.Join(parts, " ")
}

// Format is a rendered output format.
type Format string

const (
	DOT Format = "dot"
	SVG Format = "svg"
	PNG Format = "png"
)

// Render renders DOT source with Graphviz. DOT returns the source unchanged.
func Render(ctx context.Context, dot string, f Format) ([]byte, error) {
	var gf graphviz.Format
	switch f {
	case DOT:
		return []byte(dot), nil
	case SVG:
		gf = graphviz.SVG
	case PNG:
		gf = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported diagram format %q", f)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gf, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
