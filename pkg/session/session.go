// Package session owns one image and the board scrambled over it.
//
// A Session replaces module-level state: it holds the decoded image, the
// partition configuration, the partition and the board, and serialises every
// mutation behind one mutex. Sessions are independent; nothing is shared
// between them and nothing is persisted.
//
// # Usage
//
//	s := session.New(session.WithLogger(logger))
//	if err := s.Load(img); err != nil {
//	    return err
//	}
//	if err := s.Shuffle(ctx, "abc123", session.Transforms{Rotate: true}); err != nil {
//	    return err
//	}
//	name, err := s.Export(ctx, w, session.PNG)
//
// Mutations on a session with no image, or with a degenerate partition, are
// silent no-ops. Export is the exception: it reports NO_IMAGE or
// PARTITION_DEGENERATE and writes nothing.
package session

import (
	"context"
	"image"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tilescramble/pkg/board"
	"github.com/matzehuels/tilescramble/pkg/compose"
	"github.com/matzehuels/tilescramble/pkg/errors"
	"github.com/matzehuels/tilescramble/pkg/observability"
	"github.com/matzehuels/tilescramble/pkg/partition"
	"github.com/matzehuels/tilescramble/pkg/rng"
	"github.com/matzehuels/tilescramble/pkg/seed"
)

// Transforms enables per-piece transforms during a shuffle.
type Transforms struct {
	Rotate bool
	Flip   bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDeriver replaces seed.SHA256.
func WithDeriver(d seed.Deriver) Option {
	return func(s *Session) {
		if d != nil {
			s.deriver = d
		}
	}
}

// WithConfig sets the initial partition configuration. An invalid config is
// ignored in favour of partition.DefaultConfig.
func WithConfig(cfg partition.Config) Option {
	return func(s *Session) {
		if cfg.Validate() == nil {
			s.cfg = cfg
		}
	}
}

// WithJPEGQuality sets the JPEG export quality (1-100).
func WithJPEGQuality(q int) Option {
	return func(s *Session) {
		if q >= 1 && q <= 100 {
			s.jpegQuality = q
		}
	}
}

// Session is one image/board pair. It is safe for concurrent use.
type Session struct {
	id          string
	logger      *log.Logger
	deriver     seed.Deriver
	jpegQuality int

	mu    sync.Mutex
	img   image.Image
	cfg   partition.Config
	part  *partition.Partition
	board *board.Board
}

// New returns an empty session with a fresh ID.
func New(opts ...Option) *Session {
	s := &Session{
		id:          uuid.NewString(),
		logger:      log.NewWithOptions(io.Discard, log.Options{}),
		deriver:     seed.SHA256,
		jpegQuality: DefaultJPEGQuality,
		cfg:         partition.DefaultConfig(),
		board:       board.New(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id[:8])
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Load replaces the image and rebuilds the board as identity.
func (s *Session) Load(img image.Image) error {
	if img == nil {
		return errors.New(errors.ErrCodeNoImage, "no image")
	}
	b := img.Bounds()
	if err := errors.ValidateImageSize(b.Dx(), b.Dy()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
	if err := s.rebuild(); err != nil {
		return err
	}
	s.logger.Debug("image loaded", "size", b.Size(), "tiles", s.board.Len())
	observability.Session().OnLoad(context.Background(), s.id, b.Dx(), b.Dy(), s.board.Len())
	return nil
}

// Configure sets the partition configuration. With an image loaded the board
// is rebuilt as identity, even if cfg is unchanged.
func (s *Session) Configure(cfg partition.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	if err := s.rebuild(); err != nil {
		return err
	}
	s.logger.Debug("reconfigured", "variant", cfg.Variant, "tiles", s.board.Len())
	return nil
}

// Config returns the partition configuration.
func (s *Session) Config() partition.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// rebuild recomputes the partition and resets the board. Callers hold mu.
func (s *Session) rebuild() error {
	if s.img == nil {
		s.part, s.board = nil, board.New(0)
		return nil
	}
	p, err := partition.New(s.img.Bounds(), s.cfg)
	if err != nil {
		return err
	}
	s.part, s.board = p, board.New(p.Len())
	if p.Degenerate() {
		s.logger.Warn("image smaller than one tile", "partition", p)
	}
	return nil
}

// Shuffle derives a seed from passphrase and replaces the board with the
// seeded permutation and transforms. The lock is held from derivation to
// commit. If derivation fails the board is unchanged and a SEED_DERIVATION
// error is returned.
func (s *Session) Shuffle(ctx context.Context, passphrase string, t Transforms) error {
	return s.scramble(ctx, passphrase, t, false)
}

// Unscramble treats the loaded image as the export of a shuffle with the
// same passphrase, transforms and configuration, and sets the board to the
// inverse arrangement so that rendering restores the original.
func (s *Session) Unscramble(ctx context.Context, passphrase string, t Transforms) error {
	return s.scramble(ctx, passphrase, t, true)
}

func (s *Session) scramble(ctx context.Context, passphrase string, t Transforms, inverse bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil || s.board.Len() == 0 {
		return nil
	}

	start := time.Now()
	sd, err := s.deriver.Derive(ctx, passphrase)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeSeedDerivation, err, "derive seed")
		observability.Session().OnShuffle(ctx, s.id, s.board.Len(), time.Since(start), err)
		return err
	}

	next := board.New(s.board.Len())
	next.Shuffle(rng.New(sd), t.Rotate, t.Flip)
	if inverse {
		next = next.Inverse()
	}
	s.board = next

	s.logger.Info("shuffled",
		"tiles", next.Len(),
		"rotate", t.Rotate,
		"flip", t.Flip,
		"inverse", inverse,
		"duration", time.Since(start))
	observability.Session().OnShuffle(ctx, s.id, next.Len(), time.Since(start), nil)
	return nil
}

// Swap exchanges the pieces at a and b.
func (s *Session) Swap(a, b int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Swap(a, b)
}

// RotateAt rotates the piece at pos by 90° clockwise.
func (s *Session) RotateAt(pos int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.RotateAt(pos)
}

// RotateSelected rotates the selected piece, if any.
func (s *Session) RotateSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.RotateAt(s.board.Selected())
}

// Reset restores the identity arrangement.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Reset()
}

// Select marks pos as selected.
func (s *Session) Select(pos int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Select(pos)
}

// Deselect clears the selection.
func (s *Session) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Deselect()
}

// Selected returns the selected position or board.NoSelection.
func (s *Session) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Selected()
}

// Board returns a copy of the current board.
func (s *Session) Board() *board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// Partition returns the current partition, or nil with no image loaded.
// Partitions are immutable.
func (s *Session) Partition() *partition.Partition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.part
}

// view is an immutable copy of what rendering needs.
type view struct {
	img      image.Image
	part     *partition.Partition
	pieces   []board.Piece
	selected int
}

func (s *Session) snapshot() (view, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return view{}, errors.New(errors.ErrCodeNoImage, "no image loaded")
	}
	if s.part.Degenerate() {
		return view{}, errors.New(errors.ErrCodePartitionDegenerate, "image %v is smaller than one tile", s.img.Bounds().Size())
	}
	return view{
		img:      s.img,
		part:     s.part,
		pieces:   s.board.Pieces(),
		selected: s.board.Selected(),
	}, nil
}

// Render composites the current arrangement at full resolution. The lock is
// released before drawing, so mutations during a render do not affect it.
func (s *Session) Render(ctx context.Context) (*image.NRGBA, error) {
	v, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return compose.Render(ctx, v.img, v.part, v.pieces)
}
