// Package cli implements the tilescramble command-line interface.
//
// This package provides commands for scrambling and restoring images from a
// passphrase, inspecting the resulting permutation, and solving puzzles
// interactively in the terminal. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - scramble: Cut an image into tiles and export a scrambled copy
//   - unscramble: Restore an image scrambled with the same passphrase and settings
//   - tiles: Print the tile table and cycle statistics for a scramble
//   - permmap: Draw the permutation as a graph (DOT, SVG or PNG)
//   - play: Solve a scramble interactively with the mouse or keyboard
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/tilescramble/config.toml when it
// exists. Every key can be overridden by the matching flag.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// installs session hooks that log every load, shuffle and export.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilescramble/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Scrambled 16 tiles (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports session events at debug level.
type logHooks struct {
	logger *log.Logger
}

var _ observability.SessionHooks = (*logHooks)(nil)

func (h *logHooks) OnLoad(_ context.Context, id string, width, height, tiles int) {
	h.logger.Debug("session load", "session", shortID(id), "width", width, "height", height, "tiles", tiles)
}

func (h *logHooks) OnShuffle(_ context.Context, id string, tiles int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("session shuffle failed", "session", shortID(id), "err", err)
		return
	}
	h.logger.Debug("session shuffle", "session", shortID(id), "tiles", tiles, "duration", d)
}

func (h *logHooks) OnExport(_ context.Context, id, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("session export failed", "session", shortID(id), "format", format, "err", err)
		return
	}
	h.logger.Debug("session export", "session", shortID(id), "format", format, "bytes", size, "duration", d)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
