package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/app"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/telemetry"
	"github.com/pthm-cable/shoal/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per frame")
	workers := flag.Int("workers", 0, "Steering goroutines (0 or 1 = serial)")
	loadPath := flag.String("load", "", "Restore the tank from this save file")
	savePath := flag.String("save", "", "Save the tank here on exit (graphical Save/Load default to tank.msgpack)")
	epithets := flag.Bool("epithets", false, "Title newborn fish after their temperament")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	var output *telemetry.OutputManager
	if *outputDir != "" {
		var err error
		output, err = telemetry.NewOutputManager(*outputDir)
		if err != nil {
			slog.Error("failed to create output directory", "error", err)
			os.Exit(1)
		}
		defer output.Close()
		if err := output.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	opts := game.Options{
		Seed:      rngSeed,
		Output:    output,
		LogStats:  *logStats,
		Workers:   *workers,
		EmptyTank: *loadPath != "",
	}
	if *epithets {
		opts.Namer = game.EpithetNamer{}
	}

	if *headless {
		opts.Hooks = game.LogHooks{}
		g := newGame(cfg, opts, *loadPath)
		defer g.Close()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"stats_window", cfg.Telemetry.StatsWindow,
			"max_ticks", *maxTicks,
			"workers", *workers,
		)

		for *maxTicks <= 0 || int(g.Tick()) < *maxTicks {
			g.Step()
		}
		slog.Info("max ticks reached", "tick", g.Tick())
		g.LogTankState()
		saveOnExit(g, *savePath)
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Tank.Width), int32(cfg.Tank.Height), "Shoal")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Tank.TargetFPS))
	rl.SetExitKey(0)

	particles := renderer.NewParticleRenderer(rngSeed)
	ticker := ui.NewTicker()
	opts.Hooks = game.HookList{game.LogHooks{}, particles, ticker}

	g := newGame(cfg, opts, *loadPath)
	defer g.Close()

	slot := *savePath
	if slot == "" {
		slot = "tank.msgpack"
	}
	a := app.New(g, particles, ticker, app.Options{
		StepsPerUpdate: *stepsPerUpdate,
		SavePath:       slot,
	})
	defer a.Unload()

	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
	saveOnExit(g, *savePath)
}

// newGame creates the tank, restoring it from loadPath when set. It exits on failure.
func newGame(cfg *config.Config, opts game.Options, loadPath string) *game.Game {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create tank", "error", err)
		os.Exit(1)
	}
	if loadPath == "" {
		return g
	}
	if _, err := g.LoadFile(loadPath); err != nil {
		slog.Error("failed to load tank", "path", loadPath, "error", err)
		g.Close()
		os.Exit(1)
	}
	return g
}

func saveOnExit(g *game.Game, path string) {
	if path == "" {
		return
	}
	if err := g.SaveFile(path); err != nil {
		slog.Error("failed to save tank", "path", path, "error", err)
		return
	}
	slog.Info("tank saved", "path", path, "tick", g.Tick())
}
