package session

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/matzehuels/tilescramble/pkg/board"
	"github.com/matzehuels/tilescramble/pkg/compose"
	"github.com/matzehuels/tilescramble/pkg/errors"
	"github.com/matzehuels/tilescramble/pkg/observability"
	"github.com/matzehuels/tilescramble/pkg/partition"
)

// ExportOption adjusts an export.
type ExportOption func(*exportOptions)

type exportOptions struct {
	grid      bool
	selection bool
}

// WithGrid draws cell boundaries over the export.
func WithGrid() ExportOption {
	return func(o *exportOptions) { o.grid = true }
}

// WithSelection frames the selected cell in the export.
func WithSelection() ExportOption {
	return func(o *exportOptions) { o.selection = true }
}

// Export renders the current arrangement at full resolution, encodes it in
// format f to w and returns the suggested filename. On error nothing is
// written.
func (s *Session) Export(ctx context.Context, w io.Writer, f Format, opts ...ExportOption) (string, error) {
	var o exportOptions
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	name, size, err := s.export(ctx, w, f, o)
	observability.Session().OnExport(ctx, s.id, string(f), size, time.Since(start), err)
	if err != nil {
		return "", err
	}
	s.logger.Info("exported", "file", name, "bytes", size, "duration", time.Since(start))
	return name, nil
}

func (s *Session) export(ctx context.Context, w io.Writer, f Format, o exportOptions) (string, int, error) {
	f, err := ParseFormat(string(f))
	if err != nil {
		return "", 0, err
	}
	v, err := s.snapshot()
	if err != nil {
		return "", 0, err
	}
	out, err := compose.Render(ctx, v.img, v.part, v.pieces)
	if err != nil {
		return "", 0, err
	}

	var img image.Image = out
	if o.grid || (o.selection && v.selected != board.NoSelection) {
		sel := board.NoSelection
		if o.selection {
			sel = v.selected
		}
		img = compose.Overlay(out, v.part, compose.OverlayOptions{Grid: o.grid, Selected: sel})
	}

	n, err := encode(w, img, f, s.jpegQuality)
	if err != nil {
		return "", n, err
	}
	return Filename(v.part, f), n, nil
}

// Filename returns the suggested export name for p in format f:
// puzzle_{N}x{N}.{ext} or puzzle_{P}px_{cols}x{rows}.{ext}.
func Filename(p *partition.Partition, f Format) string {
	return p.Name() + "." + f.Ext()
}

// Filename returns the suggested export name for the current partition.
func (s *Session) Filename(f Format) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.part == nil {
		return "", errors.New(errors.ErrCodeNoImage, "no image loaded")
	}
	return Filename(s.part, f), nil
}
