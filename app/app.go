// Package app is the graphical shell around a game: window input, the camera, drawing
// and the raygui interface. The game itself never touches raylib.
package app

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/ui"
	"github.com/pthm-cable/shoal/vmath"
)

const (
	controlsWidth  = 250
	inspectorWidth = 270
	statusTTL      = 3 // seconds
)

// Options configures the shell.
type Options struct {
	StepsPerUpdate int    // sim ticks per frame
	MaxSpeed       int    // upper bound for StepsPerUpdate, default 10
	SavePath       string // target of the Save and Load buttons
}

// App owns the camera, the renderers and the UI for one game.
type App struct {
	game *game.Game

	cam       *camera.Camera
	water     *renderer.WaterRenderer
	substrate *renderer.SubstrateRenderer
	fish      *renderer.FishRenderer
	particles *renderer.ParticleRenderer

	hud       *ui.HUD
	controls  *ui.ControlsPanel
	inspector *ui.Inspector
	ticker    *ui.Ticker
	perf      *ui.PerfPanel
	stats     *ui.StatsPanel
	overlays  *ui.OverlayRegistry

	selected       ecs.Entity
	paused         bool
	hideUI         bool
	stepsPerUpdate int
	maxSpeed       int
	savePath       string

	status    string
	statusAge float32

	screenW, screenH float32
}

// New creates the shell. particles and ticker must be the instances registered as hooks
// on g. The raylib window must already be open.
func New(g *game.Game, particles *renderer.ParticleRenderer, ticker *ui.Ticker, opts Options) *App {
	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	if opts.MaxSpeed < opts.StepsPerUpdate {
		opts.MaxSpeed = max(10, opts.StepsPerUpdate)
	}

	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	cfg := g.Config()

	return &App{
		game:           g,
		cam:            camera.New(w, h, float32(cfg.Derived.Width), float32(cfg.Derived.Height)),
		water:          renderer.NewWaterRenderer(),
		substrate:      renderer.NewSubstrateRenderer(float32(cfg.Derived.Width), float32(cfg.Derived.Height), g.Seed()),
		fish:           renderer.NewFishRenderer(),
		particles:      particles,
		hud:            ui.NewHUD(),
		controls:       ui.NewControlsPanel(controlsWidth),
		inspector:      ui.NewInspector(inspectorWidth),
		ticker:         ticker,
		perf:           ui.NewPerfPanel(),
		stats:          ui.NewStatsPanel(),
		overlays:       ui.NewOverlayRegistry(),
		stepsPerUpdate: opts.StepsPerUpdate,
		maxSpeed:       opts.MaxSpeed,
		savePath:       opts.SavePath,
		screenW:        w,
		screenH:        h,
	}
}

// Unload frees GPU resources.
func (a *App) Unload() {
	a.water.Unload()
	a.substrate.Unload()
}

// Update handles input and advances the simulation for one frame.
func (a *App) Update() {
	dt := rl.GetFrameTime()
	a.handleInput()

	if !a.paused {
		for i := 0; i < a.stepsPerUpdate; i++ {
			a.game.Step()
		}
	}

	a.particles.Update(dt)
	a.ticker.Update(dt)
	if a.status != "" {
		a.statusAge += dt
		if a.statusAge > statusTTL {
			a.status = ""
		}
	}
}

// setStatus shows a short message under the HUD.
func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
	a.statusAge = 0
}

func (a *App) togglePause() {
	a.paused = !a.paused
}

func (a *App) feedRandom() {
	cfg := a.game.Config()
	a.game.DropFood(vmath.V(cfg.Derived.Width*(0.2+0.6*float64(rl.GetRandomValue(0, 1000))/1000), 0))
}

func (a *App) toggleNight() {
	if a.game.IsNight() {
		a.game.SetDrowsiness(0)
	} else {
		a.game.SetDrowsiness(1)
	}
}

func (a *App) save() {
	if err := a.game.SaveFile(a.savePath); err != nil {
		slog.Error("save failed", "path", a.savePath, "error", err)
		a.setStatus("save failed: %v", err)
		return
	}
	slog.Info("tank saved", "path", a.savePath, "tick", a.game.Tick())
	a.setStatus("saved %s", a.savePath)
}

func (a *App) load() {
	skipped, err := a.game.LoadFile(a.savePath)
	if err != nil {
		slog.Error("load failed", "path", a.savePath, "error", err)
		a.setStatus("load failed: %v", err)
		return
	}
	a.deselect()
	if skipped > 0 {
		a.setStatus("loaded %s, %d fish lost", a.savePath, skipped)
		return
	}
	a.setStatus("loaded %s", a.savePath)
}

func (a *App) buy(speciesID string) {
	cfg := a.game.Config()
	pos := vmath.V(cfg.Derived.Width/2, cfg.Derived.Height/3)
	e, err := a.game.Purchase(speciesID, pos, "")
	if err != nil {
		a.setStatus("purchase failed: %v", err)
		return
	}
	a.selected = e
}

// apply carries out what the player did in the control panel.
func (a *App) apply(act ui.ControlActions) {
	if act.Feed {
		a.feedRandom()
	}
	a.paused = act.Paused
	if act.AutoFeed != a.game.AutoFeed() {
		a.game.SetAutoFeed(act.AutoFeed)
	}
	switch {
	case act.NightPinned:
		if act.Night != float32(a.game.Drowsiness()) || !a.game.DrowsinessPinned() {
			a.game.SetDrowsiness(float64(act.Night))
		}
	case a.game.DrowsinessPinned():
		a.game.ClearDrowsiness()
	}
	a.stepsPerUpdate = min(max(act.Speed, 1), a.maxSpeed)
	if act.Buy != "" {
		a.buy(act.Buy)
	}
	if act.Save {
		a.save()
	}
	if act.Load {
		a.load()
	}
}
