package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/vmath"
)

// bodySegments is the number of triangles in a fish body.
const bodySegments = 14

// Camera2D converts the tank camera into a raylib camera for BeginMode2D.
func Camera2D(c *camera.Camera) rl.Camera2D {
	return rl.Camera2D{
		Offset: rl.Vector2{X: c.ViewportW / 2, Y: c.ViewportH / 2},
		Target: rl.Vector2{X: c.X, Y: c.Y},
		Zoom:   c.Zoom,
	}
}

// FishRenderer draws agents in world coordinates. Call it between BeginMode2D and EndMode2D.
type FishRenderer struct{}

// NewFishRenderer creates a fish renderer.
func NewFishRenderer() *FishRenderer {
	return &FishRenderer{}
}

// Draw renders one agent at sim time now. Corpses go belly-up, gray out and fade.
func (f *FishRenderer) Draw(a *systems.Agent, now float64) {
	size := float32(a.Size())
	if size <= 0 {
		return
	}
	sp := a.ID.Species

	col := SpeciesColor(sp)
	belly := float32(1)
	if a.Vit.Dead {
		col = blend(col, corpseColor, 0.7)
		col = fade(col, a.Vit.Fade)
		belly = -1
	}

	pos := rl.Vector2{X: float32(a.Kin.Pos.X), Y: float32(a.Kin.Pos.Y)}
	heading := a.Kin.VisualHeading
	fwd := rl.Vector2{X: float32(math.Cos(heading)), Y: float32(math.Sin(heading))}
	side := rl.Vector2{X: -fwd.Y * belly, Y: fwd.X * belly}

	length := size
	width := size * 0.45
	if sp.Predator {
		width = size * 0.32
	}

	// local maps body coordinates (u along the fish, v across it) to world space.
	local := func(u, v float32) rl.Vector2 {
		return rl.Vector2{
			X: pos.X + fwd.X*u + side.X*v,
			Y: pos.Y + fwd.Y*u + side.Y*v,
		}
	}

	// Tail first so the body overlaps its root.
	wag := float32(0)
	if !a.Vit.Dead {
		speed := float32(a.Kin.Vel.Len())
		wag = float32(math.Sin(now*(4+float64(speed)*0.08)+a.Wan.Offset)) * width * 0.35
	}
	root := local(-length*0.45, 0)
	drawTriangle(root,
		local(-length*0.85, width*0.55+wag),
		local(-length*0.85, -width*0.55+wag),
		blend(col, eyeColor, 0.15))

	// Dorsal fin
	fin := width * 0.7
	if sp.Predator {
		fin = width * 1.1
	}
	drawTriangle(local(length*0.1, -width*0.4),
		local(-length*0.25, -width*0.4),
		local(-length*0.2, -width*0.4-fin),
		blend(col, eyeColor, 0.1))

	// Body ellipse as a fan of triangles
	prev := local(length*0.5, 0)
	for i := 1; i <= bodySegments; i++ {
		t := float64(i) / bodySegments * 2 * math.Pi
		next := local(float32(math.Cos(t))*length*0.5, float32(math.Sin(t))*width*0.5)
		drawTriangle(pos, prev, next, col)
		prev = next
	}

	eye := local(length*0.28, -width*0.12)
	rl.DrawCircleV(eye, max(size*0.06, 1), fade(eyeColor, float64(col.A)/255))
}

// DrawSelection outlines the selected agent.
func (f *FishRenderer) DrawSelection(a *systems.Agent, now float64) {
	pos := rl.Vector2{X: float32(a.Kin.Pos.X), Y: float32(a.Kin.Pos.Y)}
	pulse := float32(1 + 0.08*math.Sin(now*4))
	rl.DrawCircleLinesV(pos, float32(a.Size())*0.8*pulse, rl.Yellow)
}

// TargetKind selects the line color of a pursuit overlay.
type TargetKind int

const (
	TargetFood TargetKind = iota
	TargetHunt
	TargetMate
	TargetRival
)

var targetColors = [...]rl.Color{foodColor, rl.Red, rl.Pink, rl.Orange}

// DrawTarget draws a line from a to the point it is pursuing.
func (f *FishRenderer) DrawTarget(a *systems.Agent, to vmath.Vec2, kind TargetKind) {
	from := rl.Vector2{X: float32(a.Kin.Pos.X), Y: float32(a.Kin.Pos.Y)}
	rl.DrawLineV(from, rl.Vector2{X: float32(to.X), Y: float32(to.Y)}, fade(targetColors[kind], 0.7))
}

// DrawSenseRadius draws the awareness circle used for the agent's neighbor queries.
func (f *FishRenderer) DrawSenseRadius(a *systems.Agent, radius float64) {
	pos := rl.Vector2{X: float32(a.Kin.Pos.X), Y: float32(a.Kin.Pos.Y)}
	rl.DrawCircleLinesV(pos, float32(radius), rl.Color{R: 255, G: 255, B: 255, A: 60})
}

// DrawFood renders the pellets still in the water.
func DrawFood(foods []*components.Food, radius float64) {
	r := float32(radius)
	for _, fd := range foods {
		if !fd.Available() {
			continue
		}
		p := rl.Vector2{X: float32(fd.Pos.X), Y: float32(fd.Pos.Y)}
		rl.DrawCircleV(p, r, foodColor)
		rl.DrawCircleV(rl.Vector2{X: p.X - r*0.3, Y: p.Y - r*0.3}, r*0.35, rl.Color{R: 220, G: 170, B: 110, A: 255})
	}
}

// drawTriangle draws a filled triangle regardless of winding. raylib culls triangles
// whose vertices are not counter-clockwise on screen.
func drawTriangle(a, b, c rl.Vector2, col rl.Color) {
	if (b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X) > 0 {
		b, c = c, b
	}
	rl.DrawTriangle(a, b, c, col)
}
