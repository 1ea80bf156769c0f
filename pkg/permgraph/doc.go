// Package permgraph draws a scramble's permutation as a cycle diagram.
//
// A shuffled board moves tile t into some position p. Following p → t → ...
// decomposes the board into disjoint cycles; fixed points are tiles that stayed
// in place. [ToDOT] emits one Graphviz cluster per cycle with an edge from each
// position to the position its tile belongs to, so swapping along the edges
// solves the board.
//
// # Usage
//
//	dot := permgraph.ToDOT(b.Pieces(), permgraph.Options{})
//	svg, err := permgraph.Render(ctx, dot, permgraph.SVG)
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz in-process.
package permgraph
