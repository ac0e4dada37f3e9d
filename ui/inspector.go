package ui

import (
	"fmt"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/systems"
)

// InspectorData holds all the data needed to render the inspector panel.
type InspectorData struct {
	Agent   *systems.Agent
	Now     float64
	Pursuit string // what the fish is currently after, empty for nothing
}

// Inspector renders the selected fish's panel, including a rename box.
type Inspector struct {
	renderer *Renderer
	width    int32
	bounds   rl.Rectangle

	shown   ecs.Entity
	name    string
	editing bool
}

// NewInspector creates a new inspector panel.
func NewInspector(width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		width:    width,
	}
}

// Contains reports whether a screen point lies on the panel.
func (ins *Inspector) Contains(p rl.Vector2) bool {
	return !ins.shown.IsZero() && rl.CheckCollisionPointRec(p, ins.bounds)
}

// Editing reports whether the rename box has keyboard focus.
func (ins *Inspector) Editing() bool {
	return ins.editing
}

// Hide forgets the current fish.
func (ins *Inspector) Hide() {
	ins.shown = ecs.Entity{}
	ins.editing = false
}

// Draw renders the panel at (x, y). When the player commits a new name it is returned
// with ok set.
func (ins *Inspector) Draw(x, y int32, data InspectorData) (rename string, ok bool) {
	a := data.Agent
	if a.E != ins.shown {
		ins.shown = a.E
		ins.name = a.ID.Name
		ins.editing = false
	}
	if !ins.editing {
		ins.name = a.ID.Name
	}

	r := ins.renderer
	pad := r.Theme.Padding
	fields := components.AgentFieldDescriptors()
	height := r.Theme.LineHeight*int32(len(fields)+9) + pad*2 + 34
	ins.bounds = rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(ins.width), Height: float32(height)}
	r.DrawPanel(x, y, ins.width, height)

	cx := x + pad
	cy := y + pad
	contentWidth := ins.width - pad*2
	sp := a.ID.Species

	rl.DrawRectangle(cx, cy+3, 14, 14, renderer.SpeciesColor(sp))
	rl.DrawText(a.ID.Name, cx+20, cy, 20, rl.White)
	cy += 26

	role := "prey"
	if sp.Predator {
		role = "predator"
	}
	rl.DrawText(fmt.Sprintf("%s, %s %s", sp.Name, sp.Temperament, role), cx, cy, r.Theme.FontSize, r.Theme.LabelColor)
	cy += r.Theme.LineHeight + 4

	cy = r.DrawSectionHeader(cx, cy, "Life")
	age := a.ID.Age(data.Now)
	cy = r.DrawLabelValue(cx, cy, "Age", fmt.Sprintf("%.0fs of %.0fs", age, a.ID.Lifespan))
	cy = r.DrawLabelValue(cx, cy, "Stage", stage(a))
	pursuit := data.Pursuit
	if pursuit == "" {
		pursuit = "wandering"
	}
	cy = r.DrawLabelValue(cx, cy, "Doing", pursuit)
	cy = r.DrawLabelValue(cx, cy, "Record", fmt.Sprintf("%d meals, %d catches", a.Bio.Meals, a.Bio.Catches))
	cy += 4

	cy = r.DrawSectionHeader(cx, cy, "Vitals")
	for _, fd := range fields {
		if fd.ID == "hunt_cooldown" && !sp.Predator {
			continue
		}
		if fd.ID == "energy" {
			fd.Max = a.Bio.MaxEnergy
		}
		v := components.GetAgentValue(a.Kin, a.ID, a.Bio, fd.ID)
		cy = r.DrawField(cx, cy, fd, v, contentWidth)
	}
	cy += 6

	if a.Vit.Dead {
		return "", false
	}
	box := rl.Rectangle{X: float32(cx), Y: float32(cy), Width: float32(contentWidth), Height: 24}
	if gui.TextBox(box, &ins.name, 24, ins.editing) {
		ins.editing = !ins.editing
		if !ins.editing {
			name := strings.TrimSpace(ins.name)
			if name != "" && name != a.ID.Name {
				return name, true
			}
		}
	}
	return "", false
}

func stage(a *systems.Agent) string {
	switch {
	case a.Vit.Dead:
		return "dead (" + a.Vit.Cause.String() + ")"
	case !a.Bio.GrownUp:
		return fmt.Sprintf("juvenile, %.0f%% grown", a.Bio.Growth*100)
	default:
		return "adult"
	}
}
