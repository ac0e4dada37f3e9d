package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/vmath"
)

// controlsLegend is the key reference at the bottom of the screen.
const controlsLegend = "Click: feed/select | Right-click: deselect | Space: pause | </>: speed | F: feed | A: auto-feed | N: night | F5/F9: save/load | Tab: panel | H: hide UI"

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Keys type into the rename box while it has focus.
	if !a.inspector.Editing() {
		a.handleKeys()
	}

	a.handleCameraInput()
	a.handleMouse()
}

func (a *App) handleKeys() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.togglePause()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && a.stepsPerUpdate > 1 {
		a.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && a.stepsPerUpdate < a.maxSpeed {
		a.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyF) {
		a.feedRandom()
	}
	if rl.IsKeyPressed(rl.KeyA) {
		a.game.SetAutoFeed(!a.game.AutoFeed())
	}
	if rl.IsKeyPressed(rl.KeyN) {
		a.toggleNight()
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		a.save()
	}
	if rl.IsKeyPressed(rl.KeyF9) {
		a.load()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.hideUI = !a.hideUI
	}

	a.overlays.HandleKeys()
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenW && h == a.screenH {
		return
	}
	a.screenW = w
	a.screenH = h
	a.cam.Resize(w, h)
}

// handleCameraInput processes camera pan/zoom controls.
func (a *App) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / a.cam.Zoom

	if !a.inspector.Editing() {
		if rl.IsKeyDown(rl.KeyRight) {
			a.cam.Pan(panSpeed, 0)
		}
		if rl.IsKeyDown(rl.KeyLeft) {
			a.cam.Pan(-panSpeed, 0)
		}
		if rl.IsKeyDown(rl.KeyDown) {
			a.cam.Pan(0, panSpeed)
		}
		if rl.IsKeyDown(rl.KeyUp) {
			a.cam.Pan(0, -panSpeed)
		}

		if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
			a.cam.ZoomBy(1.25)
		}
		if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
			a.cam.ZoomBy(0.8)
		}
		if rl.IsKeyPressed(rl.KeyHome) {
			a.cam.Reset()
		}
	}

	// Zoom toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !a.overUI(rl.GetMousePosition()) {
		m := rl.GetMousePosition()
		a.cam.ZoomAt(m.X, m.Y, 1+wheel*0.1)
	}
}

// handleMouse tracks the cursor for the fish and handles clicks in the tank.
func (a *App) handleMouse() {
	m := rl.GetMousePosition()
	wx, wy := a.cam.ScreenToWorld(m.X, m.Y)
	inTank := a.cam.InTank(wx, wy) && !a.overUI(m)

	if inTank && rl.IsCursorOnScreen() {
		a.game.SetCursor(vmath.V(float64(wx), float64(wy)))
	} else {
		a.game.ClearCursor()
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		a.deselect()
	}
	if !inTank || !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	p := vmath.V(float64(wx), float64(wy))
	if !a.selectAt(p) {
		a.game.DropFood(p)
	}
}

// overUI reports whether a screen point is covered by a panel.
func (a *App) overUI(p rl.Vector2) bool {
	if a.hideUI {
		return false
	}
	return a.controls.Contains(p) || a.inspector.Contains(p)
}
