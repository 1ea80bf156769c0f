package cli

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilescramble/pkg/partition"
	"github.com/matzehuels/tilescramble/pkg/pipeline"
	"github.com/matzehuels/tilescramble/pkg/session"
)

// scrambleFlags are the partition and transform flags shared by every
// command that reproduces a scramble.
type scrambleFlags struct {
	variant    string
	strength   string
	grid       int
	tileSize   int
	square     bool
	rotate     bool
	flip       bool
	passphrase string
}

func (f *scrambleFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.variant, "variant", "", "partition variant: grid, pixel, micro")
	fl.StringVarP(&f.strength, "strength", "s", "", "grid strength: weak (3x3), normal (4x4), strong (6x6), max (10x10)")
	fl.IntVar(&f.grid, "grid", 0, "tiles per axis for the grid variant (3, 4, 6, 10)")
	fl.IntVar(&f.tileSize, "tile-size", 0, "tile edge in pixels for the pixel variant (16, 32, 64, 128)")
	fl.BoolVar(&f.square, "square", false, "crop the image to a centred square first")
	fl.BoolVar(&f.rotate, "rotate", true, "rotate tiles by quarter turns")
	fl.BoolVar(&f.flip, "flip", false, "flip tiles horizontally and vertically")
	fl.StringVarP(&f.passphrase, "passphrase", "p", "", "passphrase (default $"+passphraseEnv+")")

	_ = cmd.RegisterFlagCompletionFunc("variant", fixedCompletion(variantNames()...))
	_ = cmd.RegisterFlagCompletionFunc("strength", fixedCompletion(strengthNames()...))
	_ = cmd.RegisterFlagCompletionFunc("grid", fixedCompletion(intNames(partition.GridSizes)...))
	_ = cmd.RegisterFlagCompletionFunc("tile-size", fixedCompletion(intNames(partition.TileSizes)...))
}

// options merges the config file with the flags the user actually set.
func (c *CLI) options(cmd *cobra.Command, f *scrambleFlags, input string) pipeline.Options {
	opts := c.Config.Options
	opts.Input = input
	opts.Logger = c.Logger

	changed := cmd.Flags().Changed
	if changed("variant") {
		opts.Variant = f.variant
	}
	if changed("strength") {
		opts.Strength = f.strength
		if !changed("grid") {
			opts.Grid = 0
		}
	}
	if changed("grid") {
		opts.Grid = f.grid
	}
	if changed("tile-size") {
		opts.TileSize = f.tileSize
	}
	if changed("square") {
		opts.Square = f.square
	}
	if changed("rotate") {
		opts.Rotate = f.rotate
	}
	if changed("flip") {
		opts.Flip = f.flip
	}

	opts.Passphrase = f.passphrase
	if !changed("passphrase") {
		opts.Passphrase = os.Getenv(passphraseEnv)
	}
	return opts
}

// warnEmptyPassphrase flags scrambles anyone can reproduce.
func warnEmptyPassphrase(opts pipeline.Options) {
	if opts.Passphrase == "" {
		printWarning("empty passphrase: anyone can reproduce this scramble")
	}
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func variantNames() []string {
	return []string{string(partition.Grid), string(partition.Pixel), string(partition.Micro)}
}

func strengthNames() []string {
	return []string{string(partition.Weak), string(partition.Normal), string(partition.Strong), string(partition.Max)}
}

func formatNames() []string {
	names := make([]string, len(session.Formats))
	for i, f := range session.Formats {
		names[i] = string(f)
	}
	return names
}

func intNames(vals []int) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.Itoa(v)
	}
	return out
}
