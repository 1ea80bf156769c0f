package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/tilescramble/pkg/errors"
	"github.com/matzehuels/tilescramble/pkg/seed"
	"github.com/matzehuels/tilescramble/pkg/session"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the logger and seed deriver - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Logger  *log.Logger
	Deriver seed.Deriver
}

// NewRunner creates a runner. If logger is nil, log.Default is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger, Deriver: seed.SHA256}
}

// Execute runs the complete load → scramble → export pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Load
	loadStart := time.Now()
	s, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result := &Result{Session: s}
	result.Stats.LoadTime = time.Since(loadStart)

	p := s.Partition()
	result.Stats.Width, result.Stats.Height = p.Canvas().Dx(), p.Canvas().Dy()
	result.Stats.Cols, result.Stats.Rows = p.Cols(), p.Rows()
	result.Stats.Tiles = p.Len()
	r.Logger.Info("loaded image",
		"file", opts.Input,
		"size", fmt.Sprintf("%dx%d", result.Stats.Width, result.Stats.Height),
		"tiles", p.Len(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Scramble
	scrambleStart := time.Now()
	if opts.Unscramble {
		err = s.Unscramble(ctx, opts.Passphrase, opts.Transforms())
	} else {
		err = s.Shuffle(ctx, opts.Passphrase, opts.Transforms())
	}
	if err != nil {
		return nil, fmt.Errorf("scramble: %w", err)
	}
	result.Stats.ScrambleTime = time.Since(scrambleStart)

	// Stage 3: Export
	exportStart := time.Now()
	var exportOpts []session.ExportOption
	if opts.Overlay {
		exportOpts = append(exportOpts, session.WithGrid())
	}
	var buf bytes.Buffer
	name, err := s.Export(ctx, &buf, session.Format(opts.Format), exportOpts...)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Filename = name
	result.Data = buf.Bytes()
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Debug("pipeline complete",
		"scramble", result.Stats.ScrambleTime,
		"export", result.Stats.ExportTime,
		"bytes", len(result.Data))
	return result, nil
}

// Load decodes opts.Input and returns a session configured from opts with the
// image loaded and the board at identity.
func (r *Runner) Load(ctx context.Context, opts Options) (*session.Session, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, err := opts.PartitionConfig()
	if err != nil {
		return nil, err
	}

	img, err := Open(opts.Input)
	if err != nil {
		return nil, err
	}
	s := session.New(
		session.WithLogger(r.Logger),
		session.WithDeriver(r.Deriver),
		session.WithConfig(cfg),
		session.WithJPEGQuality(opts.JPEGQuality),
	)
	if err := s.Load(img); err != nil {
		return nil, err
	}
	return s, nil
}

// Open decodes an image file, applying its EXIF orientation.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode %s", path)
}
