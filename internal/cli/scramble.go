package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilescramble/pkg/permgraph"
)

// exportFlags hold the output options of scramble and unscramble.
type exportFlags struct {
	scrambleFlags
	format      string
	overlay     bool
	jpegQuality int
	output      string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	f.scrambleFlags.register(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&f.format, "format", "f", "", "output format: png, jpeg, gif")
	fl.BoolVar(&f.overlay, "overlay", false, "draw tile boundaries over the output")
	fl.IntVar(&f.jpegQuality, "jpeg-quality", 0, "JPEG quality 1-100 (default 92)")
	fl.StringVarP(&f.output, "output", "o", "", "output file or directory; - writes to stdout")

	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(formatNames()...))
}

// scrambleCommand creates the scramble command.
func (c *CLI) scrambleCommand() *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "scramble [image]",
		Short: "Scramble an image into a tile puzzle",
		Long: `Scramble cuts an image into tiles and shuffles them from a passphrase.

The same passphrase and settings always give the same result. Keep both to
restore the image later with unscramble.`,
		Example: `  tilescramble scramble photo.jpg -p secret
  tilescramble scramble photo.jpg -p secret --strength max --flip -o out/
  tilescramble scramble photo.jpg --variant pixel --tile-size 16 -o - > puzzle.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, &flags, args[0], false)
		},
	}
	flags.register(cmd)
	return cmd
}

// unscrambleCommand creates the unscramble command.
func (c *CLI) unscrambleCommand() *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "unscramble [image]",
		Short: "Restore an image scrambled with the same passphrase",
		Long: `Unscramble applies the inverse of the scramble the passphrase and settings
describe. Partition settings must match those used to scramble; a lossy
format for either step degrades the result.`,
		Example: `  tilescramble unscramble puzzle_4x4.png -p secret -o restored.png`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, &flags, args[0], true)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, flags *exportFlags, input string, unscramble bool) error {
	ctx := cmd.Context()
	opts := c.options(cmd, &flags.scrambleFlags, input)
	opts.Unscramble = unscramble
	if cmd.Flags().Changed("format") {
		opts.Format = flags.format
	}
	if cmd.Flags().Changed("overlay") {
		opts.Overlay = flags.overlay
	}
	if cmd.Flags().Changed("jpeg-quality") {
		opts.JPEGQuality = flags.jpegQuality
	}

	if flags.output == "-" {
		prev := statusOut
		statusOut = os.Stderr
		defer func() { statusOut = prev }()
	}
	warnEmptyPassphrase(opts)

	verb, done := "Scrambling", "Scrambled"
	if unscramble {
		verb, done = "Unscrambling", "Restored"
	}
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("%s %s...", verb, input))
	spinner.Start()
	result, err := c.newRunner().Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	path, err := outputPath(flags.output, result.Filename)
	if err != nil {
		return err
	}
	if err := c.writeOutput(path, result.Data); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("%s %d tiles", done, result.Stats.Tiles))

	st := permgraph.Summarize(result.Session.Board().Tiles())
	printSuccess("%s %s", done, input)
	printStats(result.Stats.Width, result.Stats.Height, result.Stats.Tiles, st.Fixed)
	if path != "-" {
		printFile(path)
	}
	return nil
}
