package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/tilescramble/pkg/errors"
	"github.com/matzehuels/tilescramble/pkg/gesture"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Rotate || cfg.Flip {
		t.Errorf("rotate/flip = %v/%v, want true/false", cfg.Rotate, cfg.Flip)
	}
	if cfg.Variant != "grid" || cfg.Strength != "normal" || cfg.Format != "png" {
		t.Errorf("DefaultConfig() = %+v", cfg.Options)
	}
	if cfg.LongPress() != gesture.DefaultLongPress {
		t.Errorf("LongPress() = %v, want %v", cfg.LongPress(), gesture.DefaultLongPress)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
variant = "pixel"
tile_size = 64
flip = true
rotate = false
format = "jpeg"
jpeg_quality = 80
long_press_ms = 600
`)
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Variant != "pixel" || cfg.TileSize != 64 || !cfg.Flip || cfg.Rotate {
		t.Errorf("LoadConfig() = %+v", cfg.Options)
	}
	if cfg.Format != "jpeg" || cfg.JPEGQuality != 80 {
		t.Errorf("format = %q quality = %d", cfg.Format, cfg.JPEGQuality)
	}
	if cfg.Strength != "normal" {
		t.Errorf("unset key strength = %q, want default", cfg.Strength)
	}
	if cfg.LongPress() != 600*time.Millisecond {
		t.Errorf("LongPress() = %v", cfg.LongPress())
	}
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig(optional) error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig(optional) = %+v, want defaults", cfg)
	}

	if _, err := LoadConfig(path, true); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadConfig(required) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `variant = `},
		{"unknown key", `colour = "red"`},
		{"bad variant", `variant = "hex"`},
		{"bad grid", `grid = 5`},
		{"bad strength", `strength = "huge"`},
		{"zero long press", `long_press_ms = 0`},
		{"wrong type", `rotate = "yes"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body), true)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("LoadConfig() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", appName); dir != want {
		t.Errorf("configDir() = %q, want %q", dir, want)
	}
}

func TestConfigDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-config", appName); dir != want {
		t.Errorf("configDir() with XDG_CONFIG_HOME = %q, want %q", dir, want)
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name, output, file, want string
		wantErr                  bool
	}{
		{"default", "", "puzzle_4x4.png", "puzzle_4x4.png", false},
		{"directory", dir, "puzzle_4x4.png", filepath.Join(dir, "puzzle_4x4.png"), false},
		{"file", filepath.Join(dir, "out.png"), "puzzle_4x4.png", filepath.Join(dir, "out.png"), false},
		{"stdout", "-", "puzzle_4x4.png", "-", false},
		{"explicit file ignores name", filepath.Join(dir, "out.png"), "../x.png", filepath.Join(dir, "out.png"), false},
		{"name with separator", dir, "../x.png", "", true},
		{"hidden name", "", ".png", "", true},
		{"empty name", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPath(tt.output, tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("outputPath(%q, %q) error = %v, wantErr %v", tt.output, tt.file, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidPath) {
					t.Errorf("outputPath() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPath)
				}
				return
			}
			if got != tt.want {
				t.Errorf("outputPath(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}
