package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/iburimskiy/pulse/internal/colors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pulse.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFull(t *testing.T) {
	path := writeConfig(t, `
size = 90
pattern = [4, -3, 0]
color = "#0fa"
background = [10, 20, 300]
trail = 40
fps = 30
backend = "terminal"
title = "activity"

[sound]
enabled = true
frequency = 440.5
duration = "120ms"
volume = 0.5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Size != 90 {
		t.Errorf("size = %v, want 90", cfg.Size)
	}
	if !slices.Equal(cfg.Pattern, []float64{4, -3, 0}) {
		t.Errorf("pattern = %v, want [4 -3 0]", cfg.Pattern)
	}
	if cfg.Trail != 40 || cfg.FPS != 30 {
		t.Errorf("trail = %d fps = %d, want 40 30", cfg.Trail, cfg.FPS)
	}
	if cfg.Backend != BackendTerminal || cfg.Title != "activity" {
		t.Errorf("backend = %q title = %q", cfg.Backend, cfg.Title)
	}
	if !cfg.Sound.Enabled || cfg.Sound.Frequency != 440.5 || cfg.Sound.Volume != 0.5 {
		t.Errorf("sound = %+v", cfg.Sound)
	}
	if cfg.Sound.Duration.Duration != 120*time.Millisecond {
		t.Errorf("sound duration = %s, want 120ms", cfg.Sound.Duration.Duration)
	}
	if cfg.FrameInterval() != time.Second/30 {
		t.Errorf("frame interval = %s", cfg.FrameInterval())
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatal(err)
	}
	if *opts.Color != (colors.RGB{R: 0, G: 255, B: 170}) {
		t.Errorf("color = %v, want {0 255 170}", *opts.Color)
	}
	if opts.Background == nil || *opts.Background != (colors.RGB{R: 10, G: 20, B: 255}) {
		t.Errorf("background = %v, want {10 20 255}", opts.Background)
	}
	if opts.TrailLength != 40 || opts.Size != 90 {
		t.Errorf("opts = %+v", opts)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Size != 150 || cfg.Trail != 70 || cfg.FPS != DefaultFPS || cfg.Backend != BackendWindow {
		t.Errorf("defaults = %+v", cfg)
	}
	if !slices.Equal(cfg.Pattern, []float64{5, -2, 3, 0}) {
		t.Errorf("pattern = %v, want [5 -2 3 0]", cfg.Pattern)
	}
	if cfg.Sound.Enabled {
		t.Error("sound should be off by default")
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatal(err)
	}
	if *opts.Color != (colors.RGB{R: 0, G: 250, B: 0}) {
		t.Errorf("default color = %v", *opts.Color)
	}
	if opts.Background != nil {
		t.Errorf("background = %v, want absent", *opts.Background)
	}
}

func TestDefaultMatchesEmptyFile(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestDefaultPatternIsCopied(t *testing.T) {
	cfg := Default()
	cfg.Pattern[0] = 99
	if Default().Pattern[0] != 5 {
		t.Error("mutating a config changed the package default pattern")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad color", `color = "not-a-color"`, "unsupported color value"},
		{"bad background", `background = "#12"`, "background"},
		{"negative size", `size = -3`, "size must be > 0"},
		{"empty pattern", `pattern = []`, "pattern must not be empty"},
		{"bad backend", `backend = "canvas"`, "backend must be"},
		{"fps too high", `fps = 1000`, "fps must be between"},
		{"bad duration", "[sound]\nduration = \"soon\"", "invalid duration"},
		{"loud", "[sound]\nvolume = 2.0", "sound volume"},
		{"syntax", `size = `, "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("error = %v, want read config error", err)
	}
}
