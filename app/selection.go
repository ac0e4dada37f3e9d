package app

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/vmath"
)

// selectAt selects the fish under world point p. It returns false if there is none.
func (a *App) selectAt(p vmath.Vec2) bool {
	e, ok := a.game.AgentAt(p)
	if !ok {
		return false
	}
	a.selected = e
	return true
}

func (a *App) deselect() {
	a.selected = ecs.Entity{}
	a.inspector.Hide()
}

// selectedAgent returns the selected fish. A fish that has been removed from the tank
// clears the selection; a corpse still fading out stays selected.
func (a *App) selectedAgent() (*systems.Agent, bool) {
	if a.selected.IsZero() {
		return nil, false
	}
	ag, ok := a.game.Agent(a.selected)
	if !ok {
		a.deselect()
		return nil, false
	}
	return ag, true
}

// pursuit describes what ag is currently after, for the inspector.
func (a *App) pursuit(ag *systems.Agent) string {
	if ag.Vit.Dead {
		return "drifting"
	}
	if other, ok := a.game.Agent(ag.Tgt.Hunt); ok {
		return "hunting " + other.ID.Name
	}
	if other, ok := a.game.Agent(ag.Tgt.Rival); ok {
		return "circling " + other.ID.Name
	}
	if other, ok := a.game.Agent(ag.Tgt.Mate); ok {
		return "courting " + other.ID.Name
	}
	if ag.Tgt.Food.Available() {
		return "chasing food"
	}
	return ""
}

// eachTarget calls fn with the position of every live thing ag is pursuing.
func (a *App) eachTarget(ag *systems.Agent, fn func(to vmath.Vec2, kind renderer.TargetKind)) {
	if ag.Tgt.Food.Available() {
		fn(ag.Tgt.Food.Pos, renderer.TargetFood)
	}
	if other, ok := a.game.Agent(ag.Tgt.Hunt); ok {
		fn(other.Kin.Pos, renderer.TargetHunt)
	}
	if other, ok := a.game.Agent(ag.Tgt.Mate); ok {
		fn(other.Kin.Pos, renderer.TargetMate)
	}
	if other, ok := a.game.Agent(ag.Tgt.Rival); ok {
		fn(other.Kin.Pos, renderer.TargetRival)
	}
}
