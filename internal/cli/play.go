package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilescramble/pkg/board"
	"github.com/matzehuels/tilescramble/pkg/compose"
	"github.com/matzehuels/tilescramble/pkg/gesture"
	"github.com/matzehuels/tilescramble/pkg/partition"
	"github.com/matzehuels/tilescramble/pkg/pipeline"
	"github.com/matzehuels/tilescramble/pkg/session"
)

// playCommand creates the play command.
func (c *CLI) playCommand() *cobra.Command {
	var (
		flags     scrambleFlags
		output    string
		longPress time.Duration
	)
	cmd := &cobra.Command{
		Use:   "play [image]",
		Short: "Solve a scramble in the terminal",
		Long: `Play shows the scrambled image in the terminal. Click a tile to select it
and click another to swap them. Hold the button, right-click, or ctrl-click
to rotate a tile. The keyboard works too: arrows move, space selects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.options(cmd, &flags, args[0])
			if !cmd.Flags().Changed("long-press") {
				longPress = c.Config.LongPress()
			}
			warnEmptyPassphrase(opts)

			s, err := c.newRunner().Load(ctx, opts)
			if err != nil {
				return err
			}

			var prog *tea.Program
			send := func(msg tea.Msg) {
				if prog != nil {
					prog.Send(msg)
				}
			}
			m := newPlayModel(ctx, s, opts, send, gesture.WithLongPress(longPress))
			m.exportDir = output
			if err := m.shuffle(); err != nil {
				return err
			}

			prog = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
			final, err := prog.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(playModel); ok && fm.solved {
				printSuccess("Solved in %d moves", fm.moves)
			} else if ok {
				printInfo("Left unsolved after %d moves", fm.moves)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "directory for exports (default current directory)")
	cmd.Flags().DurationVar(&longPress, "long-press", gesture.DefaultLongPress, "hold time before a press rotates")
	return cmd
}

// =============================================================================
// Messages
// =============================================================================

// longPressMsg carries an elapsed long-press timer onto the update loop, so
// the rotation it triggers never races a key or mouse event.
type longPressMsg struct {
	fire func()
}

// =============================================================================
// playModel - Interactive board
// =============================================================================

const (
	playHeaderLines = 3
	playFooterLines = 2
)

var (
	playStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	playHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	playErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)

	selectionTint = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	cursorTint    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// playModel is the bubbletea model for the play command.
type playModel struct {
	ctx     context.Context
	sess    *session.Session
	machine *gesture.Machine
	opts    pipeline.Options

	width, height int
	cursor        int
	keyboard      bool // draw the keyboard cursor
	grid          bool
	exportDir     string

	// rendered board and its size in pixels (two per terminal row)
	frame    string
	thumbW   int
	thumbH   int
	moves    int
	solved   bool
	shuffled bool
	status   string
	err      error
}

func newPlayModel(ctx context.Context, s *session.Session, opts pipeline.Options, send func(tea.Msg), gopts ...gesture.Option) playModel {
	afterFunc := func(d time.Duration, f func()) gesture.Timer {
		return time.AfterFunc(d, func() { send(longPressMsg{fire: f}) })
	}
	gopts = append([]gesture.Option{gesture.WithAfterFunc(afterFunc)}, gopts...)
	return playModel{
		ctx:     ctx,
		sess:    s,
		machine: gesture.NewMachine(s, gopts...),
		opts:    opts,
		width:   80,
		height:  24,
		grid:    opts.Overlay,
	}
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case longPressMsg:
		before := m.sess.Board()
		msg.fire()
		m.afterAction(before)
	case tea.MouseMsg:
		if !m.mouse(msg) {
			return m, nil
		}
	case tea.KeyMsg:
		if quit := m.key(msg); quit {
			return m, tea.Quit
		}
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

// mouse feeds press and release events to the gesture machine and reports
// whether the board needs redrawing.
func (m *playModel) mouse(msg tea.MouseMsg) bool {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonRight {
			return false
		}
		pos := m.locate(msg.X, msg.Y-playHeaderLines)
		if pos == partition.NoHit {
			return false
		}
		m.keyboard = false
		m.cursor = pos
		m.machine.Press(pos, msg.Button == tea.MouseButtonRight || msg.Ctrl || msg.Alt)
		return false
	case tea.MouseActionRelease:
		before := m.sess.Board()
		out := m.machine.Release(false)
		if out.Action == gesture.None {
			return false
		}
		m.afterAction(before)
		return true
	}
	return false
}

// key handles keyboard input and reports whether to quit.
func (m *playModel) key(msg tea.KeyMsg) bool {
	p := m.sess.Partition()
	cols, n := p.Cols(), p.Len()
	move := func(d int) {
		m.keyboard = true
		if n > 0 {
			m.cursor = ((m.cursor+d)%n + n) % n
		}
	}

	before := m.sess.Board()
	switch msg.String() {
	case "q", "ctrl+c":
		m.machine.Cancel()
		return true
	case "left", "h":
		move(-1)
	case "right", "l":
		move(1)
	case "up", "k":
		move(-cols)
	case "down", "j":
		move(cols)
	case " ", "enter":
		m.keyboard = true
		m.machine.Press(m.cursor, false)
		m.machine.Release(false)
		m.afterAction(before)
	case "r":
		if m.sess.Selected() != board.NoSelection {
			m.sess.RotateSelected()
		} else {
			m.sess.RotateAt(m.cursor)
		}
		m.afterAction(before)
	case "esc":
		m.sess.Deselect()
	case "s":
		if err := m.shuffle(); err != nil {
			m.err = err
		}
	case "u":
		m.sess.Reset()
		m.moves, m.solved, m.shuffled = 0, false, false
		m.status = "showing the original; press s to shuffle again"
	case "g":
		m.grid = !m.grid
	case "+", "=":
		m.restrength(1)
	case "-", "_":
		m.restrength(-1)
	case "e":
		m.export()
	}
	return false
}

// afterAction counts moves that changed the board and checks for a solve.
func (m *playModel) afterAction(before *board.Board) {
	m.err = nil
	after := m.sess.Board()
	if slices.Equal(before.Pieces(), after.Pieces()) {
		return
	}
	m.moves++
	if m.shuffled && after.Solved() {
		m.solved = true
		m.status = fmt.Sprintf("solved in %d moves", m.moves)
	}
}

func (m *playModel) shuffle() error {
	if err := m.sess.Shuffle(m.ctx, m.opts.Passphrase, m.opts.Transforms()); err != nil {
		return err
	}
	m.cursor, m.moves, m.solved = 0, 0, false
	m.shuffled = m.sess.Partition().Len() > 1
	m.status = fmt.Sprintf("shuffled %s", m.sess.Partition())
	m.refresh()
	return nil
}

// restrength steps the partition one notch finer (dir > 0) or coarser and
// reshuffles.
func (m *playModel) restrength(dir int) {
	cfg := stepConfig(m.sess.Config(), dir)
	if cfg == m.sess.Config() {
		return
	}
	if err := m.sess.Configure(cfg); err != nil {
		m.err = err
		return
	}
	if err := m.shuffle(); err != nil {
		m.err = err
	}
}

// stepConfig moves cfg one step along the grid sizes, or along the tile sizes
// in reverse for the pixel variants. The ends are sticky.
func stepConfig(cfg partition.Config, dir int) partition.Config {
	switch cfg.Variant {
	case partition.Grid:
		cfg.Grid = step(partition.GridSizes, cfg.Grid, dir)
	case partition.Pixel:
		cfg.TileSize = step(partition.TileSizes, cfg.TileSize, -dir)
	}
	return cfg
}

func step(vals []int, cur, dir int) int {
	i := slices.Index(vals, cur)
	if i < 0 {
		return cur
	}
	return vals[min(max(i+dir, 0), len(vals)-1)]
}

func (m *playModel) export() {
	var exportOpts []session.ExportOption
	if m.grid {
		exportOpts = append(exportOpts, session.WithGrid())
	}
	var buf bytes.Buffer
	name, err := m.sess.Export(m.ctx, &buf, session.Format(m.opts.Format), exportOpts...)
	if err != nil {
		m.err = err
		return
	}
	path, err := outputPath(m.exportDir, name)
	if err != nil {
		m.err = err
		return
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		m.err = err
		return
	}
	m.status = "exported " + path
}

// =============================================================================
// Rendering
// =============================================================================

// imageArea is the terminal area available to the board, in cells.
func (m playModel) imageArea() (int, int) {
	return max(m.width, 1), max(m.height-playHeaderLines-playFooterLines, 1)
}

// surface maps terminal cells over the board to board positions.
func (m playModel) surface() gesture.Surface {
	return gesture.Surface{
		DisplayW:  float64(m.thumbW),
		DisplayH:  float64(m.thumbH) / 2,
		Partition: m.sess.Partition(),
	}
}

// locate returns the board position under terminal cell (x, y) of the board area.
func (m playModel) locate(x, y int) int {
	if x < 0 || y < 0 || x >= m.thumbW || 2*y >= m.thumbH {
		return partition.NoHit
	}
	return m.surface().Locate(float64(x)+0.5, float64(y)+0.5)
}

// refresh re-renders the board into frame.
func (m *playModel) refresh() {
	img, err := m.sess.Render(m.ctx)
	if err != nil {
		m.err = err
		m.frame = ""
		return
	}
	p := m.sess.Partition()
	cols, rows := m.imageArea()
	canvas := p.Canvas()
	scale := max(float64(canvas.Dx())/float64(cols), float64(canvas.Dy())/float64(2*rows), 1)

	var shown image.Image = img
	if m.grid {
		shown = compose.Overlay(img, p, compose.OverlayOptions{Grid: true, Selected: board.NoSelection, LineWidth: scale})
	}
	thumb := compose.Thumbnail(shown, cols, 2*rows)
	m.thumbW, m.thumbH = thumb.Bounds().Dx(), thumb.Bounds().Dy()

	cursor := partition.NoHit
	if m.keyboard {
		cursor = m.cursor
	}
	m.frame = halfBlocks(thumb, m.surface(), m.sess.Selected(), cursor)
}

// halfBlocks draws img with one "▀" per two pixel rows: the upper pixel is the
// foreground and the lower the background. Pixels of the selected and cursor
// cells are tinted.
func halfBlocks(img *image.NRGBA, s gesture.Surface, selected, cursor int) string {
	b := img.Bounds()
	px := func(x, y int) color.NRGBA {
		if y >= b.Max.Y {
			return color.NRGBA{}
		}
		c := img.NRGBAAt(x, y)
		pos := s.Locate(float64(x-b.Min.X)+0.5, (float64(y-b.Min.Y)+0.5)/2)
		switch {
		case pos == partition.NoHit:
		case pos == selected:
			c = blend(c, selectionTint, 0.45)
		case pos == cursor:
			c = blend(c, cursorTint, 0.3)
		}
		return c
	}

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			st := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(px(x, y)))).
				Background(lipgloss.Color(hex(px(x, y+1))))
			sb.WriteString(st.Render("▀"))
		}
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func blend(c, tint color.NRGBA, a float64) color.NRGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x)*(1-a) + float64(y)*a) }
	return color.NRGBA{R: mix(c.R, tint.R), G: mix(c.G, tint.G), B: mix(c.B, tint.B), A: 0xff}
}

// hex formats c for lipgloss; transparent pixels are drawn black.
func hex(c color.NRGBA) string {
	if c.A == 0 {
		return "#000000"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("tilescramble"))
	b.WriteString(playStatusStyle.Render(fmt.Sprintf("  %s · %d moves", m.sess.Partition(), m.moves)))
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(playErrorStyle.Render(m.err.Error()))
	case m.solved:
		b.WriteString(StyleSuccess.Render(iconSuccess + " " + m.status))
	default:
		b.WriteString(playStatusStyle.Render(m.status))
	}
	b.WriteString("\n\n")

	b.WriteString(m.frame)
	b.WriteString("\n\n")
	b.WriteString(playHelpStyle.Render("click select/swap · hold or right-click rotate · arrows+space · r rotate · s shuffle · u reset · +/- strength · g grid · e export · q quit"))
	return b.String()
}
