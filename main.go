package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/pulse/internal/colors"
	"github.com/iburimskiy/pulse/internal/config"
	"github.com/iburimskiy/pulse/internal/game"
	"github.com/iburimskiy/pulse/internal/pulse"
	"github.com/iburimskiy/pulse/internal/sound"
	"github.com/iburimskiy/pulse/internal/term"
)

type options struct {
	configPath string
	open       bool
	pickColor  bool
	debug      bool

	size       float64
	pattern    string
	color      string
	background string
	trail      int
	fps        int
	backend    string
	sound      bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "path to a TOML config file")
	flag.BoolVar(&o.open, "open", false, "choose the config file in a dialog")
	flag.BoolVar(&o.pickColor, "pick-color", false, "choose the dot color in a dialog")
	flag.BoolVar(&o.debug, "debug", false, "debug logging and on-screen status")
	flag.Float64Var(&o.size, "size", 0, "glyph half-extent in pixels")
	flag.StringVar(&o.pattern, "pattern", "", "comma separated displacement divisors, e.g. 5,-2,3,0")
	flag.StringVar(&o.color, "color", "", "dot color, #rgb or #rrggbb")
	flag.StringVar(&o.background, "background", "", "background color, #rgb or #rrggbb")
	flag.IntVar(&o.trail, "trail", 0, "number of trail dots")
	flag.IntVar(&o.fps, "fps", 0, "frames per second")
	flag.StringVar(&o.backend, "backend", "", `"window" or "terminal"`)
	flag.BoolVar(&o.sound, "sound", false, "play a blip on every ping")
	flag.Parse()

	if o.debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := loadConfig(&o)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := applyFlags(cfg, &o, set); err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(1)
	}
	if o.pickColor {
		if err := pickColor(cfg); err != nil {
			slog.Error("color dialog failed", "error", err)
			os.Exit(1)
		}
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	e, err := pulse.NewEngine(opts)
	if err != nil {
		slog.Error("failed to create pulse", "error", err)
		os.Exit(1)
	}
	slog.Info("pulse ready", "backend", cfg.Backend, "size", e.Size(), "color", e.Color().String(), "targets", e.Targets())

	onPing, closeSound := pingHook(cfg)
	defer closeSound()

	switch cfg.Backend {
	case config.BackendTerminal:
		err = runTerminal(e, cfg, onPing)
	default:
		err = runWindow(e, cfg, o.debug, onPing)
	}
	if err != nil {
		closeSound()
		slog.Error("pulse stopped with error", "error", err)
		os.Exit(1)
	}
}

func loadConfig(o *options) (*config.Config, error) {
	path := o.configPath
	if o.open {
		chosen, err := openConfigDialog()
		if err != nil {
			return nil, err
		}
		if chosen != "" {
			path = chosen
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	slog.Debug("loading config", "path", path)
	return config.Load(path)
}

func openConfigDialog() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Pulse Config"),
		zenity.FileFilters{{
			Name:     "Pulse config",
			Patterns: []string{"*.toml"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", fmt.Errorf("config dialog: %w", err)
	}
	return filename, nil
}

func pickColor(cfg *config.Config) error {
	initial, err := colors.Parse(cfg.Color)
	if err != nil {
		initial = pulse.DefaultColor
	}
	c, err := zenity.SelectColor(zenity.Title("Pulse Color"), zenity.Color(initial.Color()))
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	cfg.Color = colors.FromColor(c).String()
	slog.Debug("color picked", "color", cfg.Color)
	return nil
}

// applyFlags overrides config values with the flags given on the command line.
func applyFlags(cfg *config.Config, o *options, set map[string]bool) error {
	if set["size"] {
		cfg.Size = o.size
	}
	if set["pattern"] {
		p, err := parsePattern(o.pattern)
		if err != nil {
			return err
		}
		cfg.Pattern = p
	}
	if set["color"] {
		cfg.Color = o.color
	}
	if set["background"] {
		if o.background == "" {
			cfg.Background = nil
		} else {
			cfg.Background = o.background
		}
	}
	if set["trail"] {
		cfg.Trail = o.trail
	}
	if set["fps"] {
		cfg.FPS = o.fps
	}
	if set["backend"] {
		cfg.Backend = o.backend
	}
	if set["sound"] {
		cfg.Sound.Enabled = o.sound
	}
	return nil
}

func parsePattern(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("pattern entry %q: %w", part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("pattern %q has no entries", s)
	}
	return out, nil
}

// pingHook returns the ping callback and the function releasing its audio device.
func pingHook(cfg *config.Config) (hook func(), release func()) {
	var player *sound.Player
	if cfg.Sound.Enabled {
		p, err := sound.NewPlayer(cfg.Sound.Frequency, cfg.Sound.Duration.Duration, cfg.Sound.Volume)
		if err != nil {
			// Non-fatal, the glyph runs silent.
			slog.Warn("audio unavailable", "error", err)
		} else {
			player = p
		}
	}
	hook = func() {
		slog.Debug("ping")
		if player != nil {
			player.Ping()
		}
	}
	release = func() {
		if player != nil {
			player.Close()
			player = nil
		}
	}
	return hook, release
}

func runWindow(e *pulse.Engine, cfg *config.Config, debug bool, onPing func()) error {
	side := int(e.Size())
	ebiten.SetWindowSize(side, side)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetTPS(cfg.FPS)

	g := game.NewGame(e, debug)
	g.Loop().OnPing(onPing)
	defer g.Loop().Stop()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func runTerminal(e *pulse.Engine, cfg *config.Config, onPing func()) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	var background *colors.RGB
	if bg, ok := e.Background(); ok {
		background = &bg
	}
	r := term.NewRenderer(screen, e.Extent(), background)
	if cols, rows := r.Size(); cols == 0 || rows == 0 {
		slog.Warn("terminal reported no size, waiting for a resize")
	}

	// Log lines would be drawn over the grid.
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.DiscardHandler))
	defer slog.SetDefault(prev)

	host := term.NewHost(screen, r, cfg.FrameInterval())

	loop := pulse.Start(e, r, host)
	loop.OnPing(onPing)
	defer loop.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return host.Run(ctx)
}
