package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilescramble/pkg/errors"
	"github.com/matzehuels/tilescramble/pkg/permgraph"
)

// permmapCommand creates the permmap command.
func (c *CLI) permmapCommand() *cobra.Command {
	var (
		flags     scrambleFlags
		format    string
		output    string
		hideFixed bool
	)
	cmd := &cobra.Command{
		Use:   "permmap [image]",
		Short: "Draw a scramble's permutation as a graph",
		Long: `Permmap draws one node per board position, grouped by cycle, with an edge
from each position to where its tile belongs. DOT output needs nothing else;
SVG and PNG are rendered with an embedded Graphviz.`,
		Example: `  tilescramble permmap photo.jpg -p secret -f svg -o perm.svg
  tilescramble permmap photo.jpg -p secret | dot -Tpng > perm.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := permgraph.Format(strings.ToLower(format))
			switch f {
			case permgraph.DOT, permgraph.SVG, permgraph.PNG:
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram format %q (want dot, svg or png)", format)
			}

			s, err := c.loadScrambled(cmd, &flags, args[0], false)
			if err != nil {
				return err
			}
			p := s.Partition()
			dot := permgraph.ToDOT(s.Board().Pieces(), permgraph.Options{Cols: p.Cols(), HideFixed: hideFixed})
			data, err := permgraph.Render(cmd.Context(), dot, f)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := c.out.Write(data)
				return err
			}
			path, err := outputPath(output, fmt.Sprintf("%s_perm.%s", p.Name(), f))
			if err != nil {
				return err
			}
			if err := c.writeOutput(path, data); err != nil {
				return err
			}
			printSuccess("Permutation map")
			printFile(path)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(permgraph.DOT), "diagram format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory (default stdout)")
	cmd.Flags().BoolVar(&hideFixed, "hide-fixed", false, "omit tiles already in place")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion("dot", "svg", "png"))
	return cmd
}
