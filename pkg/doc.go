// Package pkg provides the core libraries for tilescramble.
//
// # Overview
//
// tilescramble cuts an image into tiles and rearranges them from a
// passphrase: the tiles are permuted and, optionally, rotated by quarter turns
// and flipped. The same passphrase and configuration always yield the same
// arrangement, so a scrambled image can be restored by applying the inverse.
//
// # Architecture
//
// The data flow through tilescramble:
//
//	passphrase
//	     ↓
//	[seed] (SHA-256 → uint32)
//	     ↓
//	[rng] (xorshift32, Fisher-Yates)
//	     ↓
//	[board] (pieces: tile, rotation, flips)  ←  [gesture] (select, swap, rotate)
//	     ↓
//	[compose] (affine tile compositing over a [partition])
//	     ↓
//	PNG/JPEG/GIF
//
// [session] ties these together around one loaded image and [pipeline] runs
// the load → scramble → export flow shared by the CLI commands.
//
// # Quick Start
//
//	s := session.New(session.WithConfig(partition.Config{
//	    Variant: partition.Grid,
//	    Grid:    4,
//	}))
//	if err := s.Load(img); err != nil {
//	    return err
//	}
//	if err := s.Shuffle(ctx, "abc123", session.Transforms{Rotate: true}); err != nil {
//	    return err
//	}
//	name, err := s.Export(ctx, w, session.PNG)
//
// # Main Packages
//
// [seed] - Passphrase to 32-bit seed derivation.
//
// [rng] - The xorshift32 generator and the Fisher-Yates shuffle it drives.
//
// [partition] - Grid, Pixel and Micro tilings of an image, with optional
// square cropping and hit testing.
//
// [board] - The arrangement of pieces and its mutations: shuffle, swap,
// rotate, reset and selection.
//
// [compose] - Rendering an arrangement at full resolution, overlays and
// thumbnails.
//
// [gesture] - A toolkit-independent press/long-press/release state machine.
//
// [session] - A loaded image, its partition and board, and export.
//
// [permgraph] - Cycle statistics and Graphviz diagrams of a permutation.
//
// [pipeline] - The load → scramble → export flow.
//
// [errors] - Structured error codes shared by all of the above.
//
// [observability] - Session hooks for logging and metrics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/board/...              # Specific package
//	go test -run Example                 # Examples only
//	go test -short ./...                 # Skip Graphviz rendering
//
// [seed]: https://pkg.go.dev/github.com/matzehuels/tilescramble/pkg/seed
// [rng]: https://pkg.go.dev/github.com/matzehuels/tilescramble/pkg/rng
// [partition]: https://pkg.go.dev/github.com/matzehuels/tilescramble/pkg/partition
// [board]: https://pkg.go.dev/github.com/matzehuels/tilescramble/pkg/board
// [compose]: https://pkg.go.dev/github.com/matzehuels/tilescramble/pkg/compose
// [gesture]: https://pkg.go.dev/github.com/matzehuels/tilescramble/pkg/gesture
// [session]: https://pkg.go.dev/github.com/matzehuels/tilescramble/pkg/session
// [permgraph]: https://pkg.go.dev/github.com/matzehuels/tilescramble/pkg/permgraph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tilescramble/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/tilescramble/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/tilescramble/pkg/observability
package pkg
