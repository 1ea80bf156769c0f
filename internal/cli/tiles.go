package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilescramble/pkg/board"
	"github.com/matzehuels/tilescramble/pkg/partition"
	"github.com/matzehuels/tilescramble/pkg/permgraph"
	"github.com/matzehuels/tilescramble/pkg/session"
)

// tilesCommand creates the tiles command.
func (c *CLI) tilesCommand() *cobra.Command {
	var flags scrambleFlags
	var unscramble, asJSON bool
	cmd := &cobra.Command{
		Use:   "tiles [image]",
		Short: "Show which tile lands where for a scramble",
		Long: `Tiles prints one row per board position: the cell it covers, the source
tile drawn there and that tile's rotation and flips, followed by cycle
statistics for the permutation. With --json the same data is written as
JSON, including each cell's rectangle on the canvas.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadScrambled(cmd, &flags, args[0], unscramble)
			if err != nil {
				return err
			}
			if asJSON {
				return permgraph.WriteJSON(c.out, s.Partition(), s.Board().Pieces())
			}
			fmt.Fprintln(statusOut, renderTileTable(s.Partition(), s.Board().Pieces()))
			printPermStats(permgraph.Summarize(s.Board().Tiles()))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&unscramble, "unscramble", false, "show the inverse arrangement")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the arrangement as JSON to stdout")
	return cmd
}

// loadScrambled loads input and applies the scramble the flags describe.
func (c *CLI) loadScrambled(cmd *cobra.Command, flags *scrambleFlags, input string, unscramble bool) (*session.Session, error) {
	ctx := cmd.Context()
	opts := c.options(cmd, flags, input)
	s, err := c.newRunner().Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	if unscramble {
		err = s.Unscramble(ctx, opts.Passphrase, opts.Transforms())
	} else {
		err = s.Shuffle(ctx, opts.Passphrase, opts.Transforms())
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// cellName labels a board position by row and column.
func cellName(p *partition.Partition, pos int) string {
	if p.Cols() == 0 {
		return fmt.Sprint(pos)
	}
	return fmt.Sprintf("r%dc%d", pos/p.Cols(), pos%p.Cols())
}

func flipLabel(pc board.Piece) string {
	var b strings.Builder
	if pc.FlipH {
		b.WriteString("h")
	}
	if pc.FlipV {
		b.WriteString("v")
	}
	if b.Len() == 0 {
		return "—"
	}
	return b.String()
}

func renderTileTable(p *partition.Partition, pieces []board.Piece) string {
	rows := make([][]string, len(pieces))
	for pos, pc := range pieces {
		rows[pos] = []string{
			fmt.Sprint(pos),
			cellName(p, pos),
			cellName(p, pc.Tile),
			fmt.Sprintf("%d°", pc.Rotation),
			flipLabel(pc),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Pos", "Cell", "Tile", "Rotation", "Flip").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(pieces) && pieces[row].Identity() && pieces[row].Tile == row {
				return styleFixed
			}
			if row < len(pieces) && !pieces[row].Identity() && col >= 3 {
				return StyleHighlight
			}
			if col == 0 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func printPermStats(st permgraph.Stats) {
	printKeyValue("tiles", fmt.Sprint(st.Tiles))
	printKeyValue("in place", fmt.Sprint(st.Fixed))
	printKeyValue("cycles", fmt.Sprint(st.Cycles))
	printKeyValue("longest", fmt.Sprint(st.Longest))
	printKeyValue("min swaps", fmt.Sprint(st.Swaps))
}
