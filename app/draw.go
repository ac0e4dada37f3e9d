package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/ui"
	"github.com/pthm-cable/shoal/vmath"
)

var nightShade = rl.Color{R: 5, G: 10, B: 35, A: 255}

// Draw renders the frame.
func (a *App) Draw() {
	a.game.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	tank := a.tankRect()
	night := float32(a.game.Drowsiness())
	a.water.Draw(float32(rl.GetTime()), tank, a.cam.Zoom, night)

	rl.BeginMode2D(renderer.Camera2D(a.cam))
	a.drawWorld()
	rl.EndMode2D()

	// Night dims the fish too
	if night > 0 {
		rl.DrawRectangleRec(tank, rl.Fade(nightShade, night*0.35))
	}

	if a.overlays.IsEnabled(ui.OverlayNames) {
		a.drawNames()
	}

	if !a.hideUI {
		a.drawUI()
	}

	rl.EndDrawing()
}

// tankRect is the tank in screen coordinates.
func (a *App) tankRect() rl.Rectangle {
	cfg := a.game.Config()
	x0, y0 := a.cam.WorldToScreen(0, 0)
	x1, y1 := a.cam.WorldToScreen(float32(cfg.Derived.Width), float32(cfg.Derived.Height))
	return rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// drawWorld draws everything in tank coordinates.
func (a *App) drawWorld() {
	cfg := a.game.Config()
	now := a.game.Time()

	a.substrate.Draw(float32(a.game.Drowsiness()))

	if a.overlays.IsEnabled(ui.OverlayGrid) {
		a.drawGrid()
	}

	renderer.DrawFood(a.game.Foods(), cfg.Food.Radius)

	// Corpses first so the living swim over them
	for _, dead := range []bool{true, false} {
		a.game.EachAgent(func(ag *systems.Agent) {
			if ag.Vit.Dead != dead || !a.visible(ag) {
				return
			}
			a.fish.Draw(ag, now)
		})
	}

	if a.overlays.IsEnabled(ui.OverlayTargets) {
		a.game.EachAgent(func(ag *systems.Agent) {
			if !ag.Alive() {
				return
			}
			a.eachTarget(ag, func(to vmath.Vec2, kind renderer.TargetKind) {
				a.fish.DrawTarget(ag, to, kind)
			})
		})
	}

	if ag, ok := a.selectedAgent(); ok {
		a.fish.DrawSelection(ag, now)
		if a.overlays.IsEnabled(ui.OverlaySenseRadius) {
			st := &cfg.Steering
			a.fish.DrawSenseRadius(ag, st.FoodSearchRadius)
			if ag.Predator() {
				a.fish.DrawSenseRadius(ag, st.HuntRadius)
			} else {
				a.fish.DrawSenseRadius(ag, st.FleeRadius)
			}
		}
	}

	a.particles.Draw()
}

func (a *App) visible(ag *systems.Agent) bool {
	return a.cam.IsVisible(float32(ag.Kin.Pos.X), float32(ag.Kin.Pos.Y), float32(ag.Size()))
}

// drawGrid outlines the neighbor index buckets.
func (a *App) drawGrid() {
	cfg := a.game.Config()
	cell := float32(cfg.Physics.CellSize)
	w := float32(cfg.Derived.Width)
	h := float32(cfg.Derived.Height)
	c := rl.Color{R: 255, G: 255, B: 255, A: 25}
	for x := cell; x < w; x += cell {
		rl.DrawLineV(rl.Vector2{X: x, Y: 0}, rl.Vector2{X: x, Y: h}, c)
	}
	for y := cell; y < h; y += cell {
		rl.DrawLineV(rl.Vector2{X: 0, Y: y}, rl.Vector2{X: w, Y: y}, c)
	}
}

// drawNames labels the living fish in screen space so text stays crisp at any zoom.
func (a *App) drawNames() {
	const fontSize = 12
	a.game.EachAgent(func(ag *systems.Agent) {
		if !ag.Alive() || !a.visible(ag) {
			return
		}
		sx, sy := a.cam.WorldToScreen(float32(ag.Kin.Pos.X), float32(ag.Kin.Pos.Y))
		tw := rl.MeasureText(ag.ID.Name, fontSize)
		y := int32(sy - float32(ag.Size())*a.cam.Zoom*0.5 - fontSize - 2)
		rl.DrawText(ag.ID.Name, int32(sx)-tw/2, y, fontSize, rl.Fade(rl.RayWhite, 0.8))
	})
}

func (a *App) drawUI() {
	prey, pred := a.game.Population()
	a.hud.Draw(ui.HUDData{
		Score:      a.game.Score(),
		PreyCount:  prey,
		PredCount:  pred,
		FoodCount:  len(a.game.Foods()),
		Tick:       a.game.Tick(),
		SimTime:    a.game.Time(),
		Speed:      a.stepsPerUpdate,
		FPS:        rl.GetFPS(),
		Paused:     a.paused,
		AutoFeed:   a.game.AutoFeed(),
		Drowsiness: a.game.Drowsiness(),
		Status:     a.status,
	})
	a.ticker.DrawScoreFlash(10+rl.MeasureText("Score 00000", 24), 10)

	sh := int32(a.screenH)
	sw := int32(a.screenW)
	a.ticker.Draw(10, sh-32)
	a.hud.DrawControls(sh, controlsLegend)

	if a.controls.IsVisible() {
		act := a.controls.Draw(sw-10, 10, ui.ControlState{
			Paused:      a.paused,
			AutoFeed:    a.game.AutoFeed(),
			NightPinned: a.game.DrowsinessPinned(),
			Night:       float32(a.game.Drowsiness()),
			Speed:       a.stepsPerUpdate,
			MaxSpeed:    a.maxSpeed,
			Shop:        a.game.Catalog().All(),
		}, a.overlays)
		a.apply(act)
	}

	panelY := int32(130)
	if ag, ok := a.selectedAgent(); ok {
		name, renamed := a.inspector.Draw(10, panelY, ui.InspectorData{
			Agent:   ag,
			Now:     a.game.Time(),
			Pursuit: a.pursuit(ag),
		})
		if renamed {
			if err := a.game.Rename(a.selected, name); err != nil {
				a.setStatus("rename failed: %v", err)
			}
		}
		return
	}

	switch {
	case a.overlays.IsEnabled(ui.OverlayPerf):
		a.perf.Draw(10, panelY, a.game.PerfStats())
	case a.overlays.IsEnabled(ui.OverlayStats):
		ws, ok := a.game.LastWindow()
		a.stats.Draw(10, panelY, ws, ok)
	}
}
