package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilescramble/pkg/buildinfo"
	"github.com/matzehuels/tilescramble/pkg/errors"
	"github.com/matzehuels/tilescramble/pkg/observability"
	"github.com/matzehuels/tilescramble/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tilescramble"

	// configFileName is the config file looked up in the config directory.
	configFileName = "config.toml"

	// passphraseEnv supplies the passphrase when --passphrase is not given.
	passphraseEnv = "TILESCRAMBLE_PASSPHRASE"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
	out        io.Writer
}

// New creates a new CLI instance with a default logger and default config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level == LogDebug {
		observability.SetSessionHooks(&logHooks{logger: c.Logger})
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "tilescramble scrambles images into reproducible tile puzzles",
		Long:         `tilescramble cuts an image into tiles, permutes, rotates and flips them from a passphrase, and lets you solve or export the result. The same passphrase and settings always produce the same scramble, so a scrambled image can be restored with unscramble.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tilescramble/config.toml)")

	// Register all subcommands
	root.AddCommand(c.scrambleCommand())
	root.AddCommand(c.unscrambleCommand())
	root.AddCommand(c.tilesCommand())
	root.AddCommand(c.permmapCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one if
// it exists.
func (c *CLI) loadConfig() error {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, configFileName)
	}
	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config", "path", path, "options", &cfg.Options)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/tilescramble/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// outputPath resolves where an export named name goes. An empty output means
// the current directory; an existing directory receives name inside it.
// Whenever name is used it must be a plain basename.
func outputPath(output, name string) (string, error) {
	if output != "" {
		fi, err := os.Stat(output)
		if err != nil || !fi.IsDir() {
			return output, nil
		}
	}
	if err := errors.ValidateFilename(name); err != nil {
		return "", err
	}
	if output == "" {
		return name, nil
	}
	return filepath.Join(output, name), nil
}

// writeOutput writes data to path, or to stdout when path is "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
