// Package pipeline provides the load → scramble → export pipeline for tilescramble.
//
// This package implements the one-shot flow shared by the scramble and
// unscramble commands and by the interactive player's initial load. By
// centralizing it, every entry point applies the same defaults and
// validation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode the input file, honouring EXIF orientation, into a session
//  2. Scramble: Shuffle (or unscramble) the board from the passphrase
//  3. Export: Render at full resolution and encode in the requested format
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Input:      "photo.jpg",
//	    Passphrase: "abc123",
//	    Strength:   "strong",
//	    Rotate:     true,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Filename, result.Data, 0o644)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilescramble/pkg/errors"
	"github.com/matzehuels/tilescramble/pkg/partition"
	"github.com/matzehuels/tilescramble/pkg/session"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI and the player
// =============================================================================

const (
	// DefaultVariant is the default partition variant.
	DefaultVariant = partition.Grid

	// DefaultStrength is used when neither a grid size nor a strength is given.
	DefaultStrength = partition.Normal

	// DefaultFormat is the default export format.
	DefaultFormat = session.DefaultFormat
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// The toml tags match the keys of the CLI config file.
type Options struct {
	// Load options
	Input string `toml:"-"`

	// Partition options
	Variant  string `toml:"variant"`
	Strength string `toml:"strength"`  // weak, normal, strong, max; ignored when Grid is set
	Grid     int    `toml:"grid"`      // tiles per axis for the grid variant
	TileSize int    `toml:"tile_size"` // tile edge for the pixel variant
	Square   bool   `toml:"square"`

	// Scramble options
	Passphrase string `toml:"-"`
	Rotate     bool   `toml:"rotate"`
	Flip       bool   `toml:"flip"`
	Unscramble bool   `toml:"-"`

	// Export options
	Format      string `toml:"format"`
	Overlay     bool   `toml:"overlay"` // draw cell boundaries over the export
	JPEGQuality int    `toml:"jpeg_quality"`

	// Runtime options (not serialized)
	Logger *log.Logger `toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Session holds the loaded image and the final board.
	Session *session.Session

	// Filename is the suggested output name, e.g. puzzle_4x4.png.
	Filename string

	// Data is the encoded export.
	Data []byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Width, Height int
	Cols, Rows    int
	Tiles         int
	LoadTime      time.Duration
	ScrambleTime  time.Duration
	ExportTime    time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input image is required")
	}
	if _, err := o.PartitionConfig(); err != nil {
		return err
	}
	f, err := session.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.Format = string(f)
	if o.JPEGQuality == 0 {
		o.JPEGQuality = session.DefaultJPEGQuality
	}
	if o.JPEGQuality < 1 || o.JPEGQuality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "jpeg quality %d out of range 1-100", o.JPEGQuality)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// PartitionConfig resolves the partition options. An explicit Grid wins over
// Strength; with neither, DefaultStrength applies.
func (o *Options) PartitionConfig() (partition.Config, error) {
	cfg := partition.DefaultConfig()
	cfg.Square = o.Square

	if o.Variant != "" {
		v, err := partition.ParseVariant(o.Variant)
		if err != nil {
			return cfg, err
		}
		cfg.Variant = v
	}

	switch {
	case o.Grid != 0:
		cfg.Grid = o.Grid
	case o.Strength != "":
		s, err := partition.ParseStrength(o.Strength)
		if err != nil {
			return cfg, err
		}
		cfg.Grid = s.Grid()
	default:
		cfg.Grid = DefaultStrength.Grid()
	}
	if o.TileSize != 0 {
		cfg.TileSize = o.TileSize
	}
	return cfg, cfg.Validate()
}

// Transforms returns the shuffle toggles.
func (o *Options) Transforms() session.Transforms {
	return session.Transforms{Rotate: o.Rotate, Flip: o.Flip}
}

// String summarizes the options for logs.
func (o *Options) String() string {
	cfg, _ := o.PartitionConfig()
	return fmt.Sprintf("%s grid=%d tile=%d square=%v rotate=%v flip=%v", cfg.Variant, cfg.Grid, cfg.TileSize, cfg.Square, o.Rotate, o.Flip)
}
