package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/iburimskiy/pulse/internal/colors"
	"github.com/iburimskiy/pulse/internal/pulse"
)

const (
	WindowTitle = "pulse"

	DefaultFPS      = 60
	DefaultBackend  = BackendWindow
	MaxFPS          = 240
	DefaultBlipFreq = 880.0
	DefaultBlipDur  = 60 * time.Millisecond
	DefaultBlipVol  = 0.25
)

const (
	BackendWindow   = "window"
	BackendTerminal = "terminal"
)

// Duration wraps time.Duration for TOML string parsing ("60ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	return nil
}

type Config struct {
	Size       float64     `toml:"size"`
	Pattern    []float64   `toml:"pattern"`
	Color      any         `toml:"color"`
	Background any         `toml:"background"`
	Trail      int         `toml:"trail"`
	FPS        int         `toml:"fps"`
	Backend    string      `toml:"backend"`
	Title      string      `toml:"title"`
	Sound      SoundConfig `toml:"sound"`
}

type SoundConfig struct {
	Enabled   bool     `toml:"enabled"`
	Frequency float64  `toml:"frequency"`
	Duration  Duration `toml:"duration"`
	Volume    float64  `toml:"volume"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Size == 0 {
		cfg.Size = pulse.DefaultSize
	}
	if cfg.Pattern == nil {
		cfg.Pattern = append([]float64(nil), pulse.DefaultPattern...)
	}
	if cfg.Color == nil {
		c := pulse.DefaultColor
		cfg.Color = []int{int(c.R), int(c.G), int(c.B)}
	}
	if cfg.Trail == 0 {
		cfg.Trail = pulse.DefaultTrailLength
	}
	if cfg.FPS == 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if cfg.Title == "" {
		cfg.Title = WindowTitle
	}
	if cfg.Sound.Frequency == 0 {
		cfg.Sound.Frequency = DefaultBlipFreq
	}
	if cfg.Sound.Duration.Duration == 0 {
		cfg.Sound.Duration.Duration = DefaultBlipDur
	}
	if cfg.Sound.Volume == 0 {
		cfg.Sound.Volume = DefaultBlipVol
	}
}

// Validate checks ranges and colors. Flags applied after Load are checked
// by calling it again.
func (cfg *Config) Validate() error {
	if cfg.Size <= 0 || math.IsInf(cfg.Size, 0) || math.IsNaN(cfg.Size) {
		return fmt.Errorf("size must be > 0, got %v", cfg.Size)
	}
	if len(cfg.Pattern) == 0 {
		return fmt.Errorf("pattern must not be empty")
	}
	if cfg.Trail < 1 {
		return fmt.Errorf("trail must be >= 1, got %d", cfg.Trail)
	}
	if cfg.FPS < 1 || cfg.FPS > MaxFPS {
		return fmt.Errorf("fps must be between 1 and %d, got %d", MaxFPS, cfg.FPS)
	}
	switch cfg.Backend {
	case BackendWindow, BackendTerminal:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendWindow, BackendTerminal, cfg.Backend)
	}
	if _, err := colors.Parse(cfg.Color); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	if cfg.Background != nil {
		if _, err := colors.Parse(cfg.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}
	if cfg.Sound.Frequency <= 0 {
		return fmt.Errorf("sound frequency must be > 0, got %v", cfg.Sound.Frequency)
	}
	if cfg.Sound.Duration.Duration < time.Millisecond {
		return fmt.Errorf("sound duration must be >= 1ms, got %s", cfg.Sound.Duration.Duration)
	}
	if cfg.Sound.Volume < 0 || cfg.Sound.Volume > 1 {
		return fmt.Errorf("sound volume must be within [0, 1], got %v", cfg.Sound.Volume)
	}
	return nil
}

// EngineOptions converts the configuration into engine options.
func (cfg *Config) EngineOptions() (pulse.Options, error) {
	fg, err := colors.Parse(cfg.Color)
	if err != nil {
		return pulse.Options{}, fmt.Errorf("color: %w", err)
	}
	opts := pulse.Options{
		Size:        cfg.Size,
		Pattern:     cfg.Pattern,
		Color:       &fg,
		TrailLength: cfg.Trail,
	}
	if cfg.Background != nil {
		bg, err := colors.Parse(cfg.Background)
		if err != nil {
			return pulse.Options{}, fmt.Errorf("background: %w", err)
		}
		opts.Background = &bg
	}
	return opts, nil
}

// FrameInterval is the delay between frames for timer driven backends.
func (cfg *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(cfg.FPS)
}
