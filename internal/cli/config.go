package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tilescramble/pkg/errors"
	"github.com/matzehuels/tilescramble/pkg/gesture"
	"github.com/matzehuels/tilescramble/pkg/pipeline"
)

// Config is the on-disk CLI configuration. Flags override every key.
//
//	variant = "pixel"
//	tile_size = 32
//	rotate = true
//	flip = false
//	format = "png"
//	long_press_ms = 450
type Config struct {
	pipeline.Options

	// LongPressMS is the hold time in milliseconds before a press in the
	// player rotates a tile.
	LongPressMS int `toml:"long_press_ms"`
}

// DefaultConfig returns the built-in defaults: a normal-strength grid with
// rotation on and flips off.
func DefaultConfig() Config {
	return Config{
		Options: pipeline.Options{
			Variant:  string(pipeline.DefaultVariant),
			Strength: string(pipeline.DefaultStrength),
			Rotate:   true,
			Format:   string(pipeline.DefaultFormat),
		},
		LongPressMS: int(gesture.DefaultLongPress / time.Millisecond),
	}
}

// LoadConfig decodes the file at path over DefaultConfig. A missing file
// yields the defaults unless required is set.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return DefaultConfig(), nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if _, err := cfg.PartitionConfig(); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if cfg.LongPressMS <= 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: long_press_ms must be positive", path)
	}
	return cfg, nil
}

// LongPress returns the configured long-press threshold.
func (c Config) LongPress() time.Duration {
	return time.Duration(c.LongPressMS) * time.Millisecond
}
