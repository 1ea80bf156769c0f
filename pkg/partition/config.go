package partition

import (
	"slices"
	"strings"

	"github.com/matzehuels/tilescramble/pkg/errors"
)

// Variant selects the rule used to carve the source into tiles.
type Variant string

const (
	// Grid splits the region into N×N tiles of (nearly) equal size.
	Grid Variant = "grid"
	// Pixel uses square tiles with a fixed edge length; the remainder is excluded.
	Pixel Variant = "pixel"
	// Micro is Pixel with the smallest tile edge.
	Micro Variant = "micro"
)

// GridSizes lists the supported tile counts per axis for the Grid variant.
var GridSizes = []int{3, 4, 6, 10}

// TileSizes lists the supported tile edge lengths, in pixels, for the Pixel variant.
var TileSizes = []int{16, 32, 64, 128}

// MicroTileSize is the tile edge used by the Micro variant.
const MicroTileSize = 16

const (
	DefaultGrid     = 4
	DefaultTileSize = 32
)

// Strength is a named grid size.
type Strength string

const (
	Weak   Strength = "weak"
	Normal Strength = "normal"
	Strong Strength = "strong"
	Max    Strength = "max"
)

var strengthGrid = map[Strength]int{
	Weak:   3,
	Normal: 4,
	Strong: 6,
	Max:    10,
}

// Strengths lists the strength levels from weakest to strongest.
var Strengths = []Strength{Weak, Normal, Strong, Max}

// Grid returns the tile count per axis for s, or 0 if s is unknown.
func (s Strength) Grid() int {
	return strengthGrid[s]
}

// ParseStrength parses a strength level name (case-insensitive).
func ParseStrength(s string) (Strength, error) {
	st := Strength(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := strengthGrid[st]; !ok {
		return "", errors.New(errors.ErrCodeInvalidStrength, "unknown strength %q (want weak, normal, strong or max)", s)
	}
	return st, nil
}

// ParseVariant parses a variant name (case-insensitive).
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case Grid, Pixel, Micro:
		return v, nil
	}
	return "", errors.New(errors.ErrCodeInvalidVariant, "unknown variant %q (want grid, pixel or micro)", s)
}

// Config selects a variant and its sizing parameter.
// Grid is read only by the Grid variant and TileSize only by the Pixel variant.
type Config struct {
	Variant  Variant
	Grid     int
	TileSize int
	Square   bool // crop to the centred min(W,H) square before tiling
}

// DefaultConfig returns a 4×4 grid without square crop.
func DefaultConfig() Config {
	return Config{
		Variant:  Grid,
		Grid:     DefaultGrid,
		TileSize: DefaultTileSize,
	}
}

// Validate checks that the parameter of the selected variant is one of the
// enumerated values.
func (c Config) Validate() error {
	switch c.Variant {
	case Grid:
		if !slices.Contains(GridSizes, c.Grid) {
			return errors.New(errors.ErrCodeInvalidSize, "grid size %d not in %v", c.Grid, GridSizes)
		}
	case Pixel:
		if !slices.Contains(TileSizes, c.TileSize) {
			return errors.New(errors.ErrCodeInvalidSize, "tile size %d not in %v", c.TileSize, TileSizes)
		}
	case Micro:
	default:
		return errors.New(errors.ErrCodeInvalidVariant, "unknown variant %q", c.Variant)
	}
	return nil
}

// Edge returns the fixed tile edge for the Pixel and Micro variants, and 0 for Grid.
func (c Config) Edge() int {
	switch c.Variant {
	case Pixel:
		return c.TileSize
	case Micro:
		return MicroTileSize
	}
	return 0
}
