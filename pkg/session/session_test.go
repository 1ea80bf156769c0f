package session

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/matzehuels/tilescramble/pkg/board"
	"github.com/matzehuels/tilescramble/pkg/errors"
	"github.com/matzehuels/tilescramble/pkg/observability"
	"github.com/matzehuels/tilescramble/pkg/partition"
	"github.com/matzehuels/tilescramble/pkg/rng"
	"github.com/matzehuels/tilescramble/pkg/seed"
)

func noise(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 7), uint8(y * 13), uint8(x*y + 3), 255})
		}
	}
	return img
}

var grid3 = partition.Config{Variant: partition.Grid, Grid: 3}

func loaded(t *testing.T, img image.Image, cfg partition.Config) *Session {
	t.Helper()
	s := New(WithConfig(cfg))
	if err := s.Load(img); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	a, b := New(), New()
	if _, err := uuid.Parse(a.ID()); err != nil {
		t.Errorf("ID() = %q is not a UUID", a.ID())
	}
	if a.ID() == b.ID() {
		t.Error("two sessions share an ID")
	}
	if a.Config() != partition.DefaultConfig() {
		t.Errorf("Config() = %+v", a.Config())
	}
}

func TestNoImage(t *testing.T) {
	s := New()
	if err := s.Shuffle(context.Background(), "abc123", Transforms{Rotate: true}); err != nil {
		t.Errorf("Shuffle() error = %v, want silent no-op", err)
	}
	s.Swap(0, 1)
	s.RotateAt(0)
	s.Select(0)
	s.RotateSelected()
	s.Reset()
	if s.Board().Len() != 0 || s.Selected() != board.NoSelection {
		t.Error("mutations without an image changed the board")
	}

	var buf bytes.Buffer
	if _, err := s.Export(context.Background(), &buf, PNG); !errors.Is(err, errors.ErrCodeNoImage) {
		t.Errorf("Export() error = %v, want NO_IMAGE", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Export() wrote %d bytes", buf.Len())
	}
	if _, err := s.Filename(PNG); !errors.Is(err, errors.ErrCodeNoImage) {
		t.Errorf("Filename() error = %v", err)
	}
	if err := s.Load(nil); !errors.Is(err, errors.ErrCodeNoImage) {
		t.Errorf("Load(nil) error = %v", err)
	}
}

func TestShuffleReproducible(t *testing.T) {
	img := noise(90, 90)
	want := []int{5, 7, 4, 0, 2, 8, 6, 3, 1}
	for range 2 {
		s := loaded(t, img, grid3)
		if err := s.Shuffle(context.Background(), "abc123", Transforms{Rotate: true, Flip: true}); err != nil {
			t.Fatalf("Shuffle() error = %v", err)
		}
		if got := s.Board().Tiles(); !slices.Equal(got, want) {
			t.Errorf("Tiles() = %v, want %v", got, want)
		}
		if got := s.Board().At(0); got != (board.Piece{Tile: 5, Rotation: 180, FlipH: true}) {
			t.Errorf("At(0) = %v", got)
		}
	}
}

func TestShuffleSeedFailure(t *testing.T) {
	failing := seed.DeriverFunc(func(context.Context, string) (uint32, error) {
		return 0, context.DeadlineExceeded
	})
	s := New(WithConfig(grid3), WithDeriver(failing))
	if err := s.Load(noise(30, 30)); err != nil {
		t.Fatal(err)
	}
	s.Swap(0, 1)
	before := s.Board().Pieces()

	err := s.Shuffle(context.Background(), "abc123", Transforms{Rotate: true})
	if !errors.Is(err, errors.ErrCodeSeedDerivation) {
		t.Fatalf("Shuffle() error = %v, want SEED_DERIVATION", err)
	}
	if !slices.Equal(s.Board().Pieces(), before) {
		t.Error("failed shuffle changed the board")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s2 := loaded(t, noise(30, 30), grid3)
	if err := s2.Shuffle(ctx, "abc123", Transforms{}); !errors.Is(err, errors.ErrCodeSeedDerivation) {
		t.Errorf("Shuffle(cancelled) error = %v", err)
	}
	if !s2.Board().Solved() {
		t.Error("cancelled shuffle changed the board")
	}
}

func TestShuffleArbitraryPassphrase(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
	}{
		{"nul byte", "a\x00b"},
		{"long", strings.Repeat("k", 5000)},
		{"invalid utf8", "ab\xffcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t, noise(30, 30), grid3)
			if err := s.Shuffle(context.Background(), tt.passphrase, Transforms{}); err != nil {
				t.Fatalf("Shuffle() error = %v", err)
			}

			want := board.New(9)
			want.Shuffle(rng.New(seed.FromPassphrase(tt.passphrase)), false, false)
			if got := s.Board().Pieces(); !slices.Equal(got, want.Pieces()) {
				t.Errorf("Board() = %v, want %v", got, want.Pieces())
			}
		})
	}
}

func TestDegenerate(t *testing.T) {
	s := loaded(t, noise(10, 10), partition.Config{Variant: partition.Pixel, TileSize: 16})
	if s.Board().Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Board().Len())
	}
	if err := s.Shuffle(context.Background(), "x", Transforms{Rotate: true}); err != nil {
		t.Errorf("Shuffle() error = %v, want no-op", err)
	}
	var buf bytes.Buffer
	if _, err := s.Export(context.Background(), &buf, PNG); !errors.Is(err, errors.ErrCodePartitionDegenerate) {
		t.Errorf("Export() error = %v, want PARTITION_DEGENERATE", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Export() wrote %d bytes", buf.Len())
	}

	if err := s.Configure(partition.Config{Variant: partition.Grid, Grid: 4}); err != nil {
		t.Fatal(err)
	}
	if s.Board().Len() != 16 {
		t.Errorf("Len() after reconfigure = %d, want 16", s.Board().Len())
	}
}

func TestConfigureResets(t *testing.T) {
	s := loaded(t, noise(64, 64), grid3)
	if err := s.Shuffle(context.Background(), "abc123", Transforms{Rotate: true}); err != nil {
		t.Fatal(err)
	}
	s.Select(2)

	if err := s.Configure(partition.Config{Variant: partition.Pixel, TileSize: 16}); err != nil {
		t.Fatal(err)
	}
	b := s.Board()
	if b.Len() != 16 || !b.Solved() || b.Selected() != board.NoSelection {
		t.Errorf("board after Configure: len=%d solved=%v selected=%d", b.Len(), b.Solved(), b.Selected())
	}
	if s.Partition().Len() != b.Len() {
		t.Errorf("partition has %d tiles, board %d", s.Partition().Len(), b.Len())
	}

	err := s.Configure(partition.Config{Variant: partition.Grid, Grid: 7})
	if !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("Configure(7) error = %v", err)
	}
	if s.Config().Variant != partition.Pixel {
		t.Error("invalid Configure replaced the config")
	}
}

func TestInteraction(t *testing.T) {
	s := loaded(t, noise(30, 30), grid3)
	s.Select(1)
	s.RotateSelected()
	s.RotateSelected()
	if got := s.Board().At(1).Rotation; got != 180 {
		t.Errorf("rotation = %d, want 180", got)
	}
	s.Swap(1, 2)
	if got := s.Board().At(2); got != (board.Piece{Tile: 1, Rotation: 180}) {
		t.Errorf("At(2) = %v", got)
	}
	s.Deselect()
	s.Reset()
	if !s.Board().Solved() {
		t.Error("Reset() did not restore identity")
	}

	// Board returns a copy
	b := s.Board()
	b.RotateAt(0)
	if s.Board().At(0).Rotation != 0 {
		t.Error("Board() exposed internal state")
	}
}

func TestExport(t *testing.T) {
	tests := []struct {
		name     string
		cfg      partition.Config
		format   Format
		wantName string
		wantSize image.Point
	}{
		{"grid png", grid3, PNG, "puzzle_3x3.png", image.Pt(90, 60)},
		{"grid jpeg", grid3, JPEG, "puzzle_3x3.jpg", image.Pt(90, 60)},
		{"pixel gif", partition.Config{Variant: partition.Pixel, TileSize: 32}, GIF, "puzzle_32px_2x1.gif", image.Pt(90, 60)},
		{"micro square", partition.Config{Variant: partition.Micro, Square: true}, PNG, "puzzle_16px_3x3.png", image.Pt(60, 60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t, noise(90, 60), tt.cfg)
			if err := s.Shuffle(context.Background(), "abc123", Transforms{Rotate: true, Flip: true}); err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			name, err := s.Export(context.Background(), &buf, tt.format, WithGrid())
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			img, err := imaging.Decode(&buf)
			if err != nil {
				t.Fatalf("decode export: %v", err)
			}
			if img.Bounds().Size() != tt.wantSize {
				t.Errorf("export size = %v, want %v", img.Bounds().Size(), tt.wantSize)
			}
		})
	}
}

func TestExportInvalidFormat(t *testing.T) {
	s := loaded(t, noise(30, 30), grid3)
	var buf bytes.Buffer
	if _, err := s.Export(context.Background(), &buf, "bmp"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Export(bmp) error = %v", err)
	}
	if buf.Len() != 0 {
		t.Error("Export(bmp) wrote bytes")
	}
}

func TestUnscrambleRoundTrip(t *testing.T) {
	original := noise(60, 60)
	secret := "correct horse"
	tr := Transforms{Rotate: true, Flip: true}

	scrambler := loaded(t, original, grid3)
	if err := scrambler.Shuffle(context.Background(), secret, tr); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := scrambler.Export(context.Background(), &buf, PNG); err != nil {
		t.Fatal(err)
	}
	scrambled, err := imaging.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}

	restorer := loaded(t, scrambled, grid3)
	if err := restorer.Unscramble(context.Background(), secret, tr); err != nil {
		t.Fatalf("Unscramble() error = %v", err)
	}
	restored, err := restorer.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for y := range 60 {
		for x := range 60 {
			if restored.NRGBAAt(x, y) != original.NRGBAAt(x, y) {
				t.Fatalf("restored (%d,%d) = %v, want %v", x, y, restored.NRGBAAt(x, y), original.NRGBAAt(x, y))
			}
		}
	}
}

func TestConcurrentMutations(t *testing.T) {
	s := loaded(t, noise(100, 100), partition.Config{Variant: partition.Grid, Grid: 10})
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				s.Swap((g+i)%100, (g*7+i*3)%100)
				s.RotateAt(i % 100)
				if i%50 == 0 {
					_ = s.Shuffle(context.Background(), "race", Transforms{Rotate: true})
				}
				_ = s.Board().Len()
			}
		}()
	}
	wg.Wait()

	tiles := s.Board().Tiles()
	slices.Sort(tiles)
	for i, v := range tiles {
		if v != i {
			t.Fatalf("tiles are no longer a permutation: %v", tiles)
		}
	}
}

type countingHooks struct {
	observability.NoopSessionHooks
	mu       sync.Mutex
	shuffles []error
	exports  []string
}

func (h *countingHooks) OnShuffle(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shuffles = append(h.shuffles, err)
}

func (h *countingHooks) OnExport(_ context.Context, _, format string, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err == nil {
		h.exports = append(h.exports, format)
	}
}

func TestHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetSessionHooks(h)
	defer observability.Reset()

	s := loaded(t, noise(30, 30), grid3)
	_ = s.Shuffle(context.Background(), "a", Transforms{})
	var buf bytes.Buffer
	if _, err := s.Export(context.Background(), &buf, GIF); err != nil {
		t.Fatal(err)
	}
	if len(h.shuffles) != 1 || h.shuffles[0] != nil {
		t.Errorf("shuffles = %v", h.shuffles)
	}
	if !slices.Equal(h.exports, []string{"gif"}) {
		t.Errorf("exports = %v", h.exports)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"png", PNG, true},
		{"", PNG, true},
		{".JPG", JPEG, true},
		{"jpeg", JPEG, true},
		{"gif", GIF, true},
		{"webp", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
