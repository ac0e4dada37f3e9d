package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/species"
)

// ControlState is what the control panel displays this frame.
type ControlState struct {
	Paused      bool
	AutoFeed    bool
	NightPinned bool
	Night       float32
	Speed       int
	MaxSpeed    int
	Shop        []*species.Descriptor
}

// ControlActions is what the player did with the panel this frame. The App applies it.
type ControlActions struct {
	Feed        bool
	Save        bool
	Load        bool
	Paused      bool
	AutoFeed    bool
	NightPinned bool
	Night       float32
	Speed       int
	Buy         string // species ID, empty for none
}

// ControlsPanel renders the right-side raygui control panel with overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	width    int32
	visible  bool
	bounds   rl.Rectangle
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies on the panel, so clicks there do not
// reach the tank.
func (c *ControlsPanel) Contains(p rl.Vector2) bool {
	return c.visible && rl.CheckCollisionPointRec(p, c.bounds)
}

// Draw renders the panel with its top-right corner at (right, y) and returns the actions.
func (c *ControlsPanel) Draw(right, y int32, state ControlState, overlays *OverlayRegistry) ControlActions {
	act := ControlActions{
		Paused:      state.Paused,
		AutoFeed:    state.AutoFeed,
		NightPinned: state.NightPinned,
		Night:       state.Night,
		Speed:       state.Speed,
	}
	if !c.visible {
		return act
	}

	r := c.renderer
	pad := float32(r.Theme.Padding)
	row := float32(26)
	shopRows := (len(state.Shop) + 1) / 2
	height := row*float32(9+shopRows+len(overlays.All())) + pad*2

	x := float32(right - c.width)
	c.bounds = rl.Rectangle{X: x, Y: float32(y), Width: float32(c.width), Height: height}
	r.DrawPanel(int32(x), y, c.width, int32(height))

	w := float32(c.width) - pad*2
	half := (w - pad) / 2
	cx := x + pad
	cy := float32(y) + pad

	rl.DrawText("Tank", int32(cx), int32(cy), 16, rl.White)
	cy += row

	act.Feed = gui.Button(rl.Rectangle{X: cx, Y: cy, Width: half, Height: 22}, "Feed")
	act.AutoFeed = gui.Toggle(rl.Rectangle{X: cx + half + pad, Y: cy, Width: half, Height: 22}, "Auto-feed", state.AutoFeed)
	cy += row

	act.Paused = gui.Toggle(rl.Rectangle{X: cx, Y: cy, Width: half, Height: 22}, "Pause", state.Paused)
	act.NightPinned = gui.CheckBox(rl.Rectangle{X: cx + half + pad, Y: cy + 3, Width: 16, Height: 16}, "Pin night", state.NightPinned)
	cy += row

	rl.DrawText("Night", int32(cx), int32(cy+4), r.Theme.FontSize, r.Theme.LabelColor)
	act.Night = gui.SliderBar(rl.Rectangle{X: cx + 60, Y: cy, Width: w - 100, Height: 20}, "", fmt.Sprintf("%.0f%%", state.Night*100), state.Night, 0, 1)
	if act.Night != state.Night {
		act.NightPinned = true
	}
	cy += row

	rl.DrawText("Speed", int32(cx), int32(cy+4), r.Theme.FontSize, r.Theme.LabelColor)
	speed := gui.SliderBar(rl.Rectangle{X: cx + 60, Y: cy, Width: w - 100, Height: 20}, "", fmt.Sprintf("%dx", state.Speed), float32(state.Speed), 1, float32(state.MaxSpeed))
	act.Speed = max(1, int(speed+0.5))
	cy += row

	act.Save = gui.Button(rl.Rectangle{X: cx, Y: cy, Width: half, Height: 22}, "Save")
	act.Load = gui.Button(rl.Rectangle{X: cx + half + pad, Y: cy, Width: half, Height: 22}, "Load")
	cy += row + 4

	rl.DrawText("Shop", int32(cx), int32(cy), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	cy += row
	for i, sp := range state.Shop {
		bx := cx
		if i%2 == 1 {
			bx += half + pad
		}
		if gui.Button(rl.Rectangle{X: bx, Y: cy, Width: half, Height: 22}, sp.Name) {
			act.Buy = sp.ID
		}
		if i%2 == 1 || i == len(state.Shop)-1 {
			cy += row
		}
	}
	cy += 4

	rl.DrawText("Overlays", int32(cx), int32(cy), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	cy += row
	for _, desc := range overlays.All() {
		on := overlays.IsEnabled(desc.ID)
		label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
		if gui.CheckBox(rl.Rectangle{X: cx, Y: cy + 3, Width: 16, Height: 16}, label, on) != on {
			overlays.Toggle(desc.ID)
		}
		cy += row
	}

	return act
}
