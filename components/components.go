// Package components defines ECS components for the simulation.
package components

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/vmath"
)

// Kinematics holds an agent's motion state.
type Kinematics struct {
	Pos   vmath.Vec2
	Vel   vmath.Vec2
	Accel vmath.Vec2 // steering output for the current tick

	Heading       float64 // radians, follows velocity
	VisualHeading float64 // smoothed heading for rendering only

	SpeedLimit float64 // max speed for the current tick, set by steering
	Darting    bool    // burst-speed flag, recomputed every tick
}

// Targets holds weak references to what the agent is currently pursuing.
// Every reference must be re-validated before use; an invalid one is cleared.
type Targets struct {
	Food  *Food
	Hunt  ecs.Entity // predators only
	Mate  ecs.Entity
	Rival ecs.Entity // predators only; never set together with Hunt
}

// ClearHunt drops the hunting target and resets the chase clock.
func (t *Targets) ClearHunt(bio *Biology) {
	t.Hunt = ecs.Entity{}
	bio.ChaseTime = 0
}

// Wander holds the per-agent randomness and meander state.
type Wander struct {
	Rng    *rand.Rand // agent-owned stream; keeps steering independent of update order
	Angle  float64    // smoothed wander heading
	Offset float64    // this agent's coordinate in the shared noise field
}

// Food is a pellet dropped into the tank. It is not an ECS entity; the game owns the list.
type Food struct {
	ID      uint32
	Pos     vmath.Vec2
	VelY    float64
	Eaten   bool
	Removed bool // pruned from the tank (eaten or fell past the bottom)
	Chasers int  // agents targeting this pellet at the start of the tick
}

// Available reports whether the pellet can still be targeted or eaten.
func (f *Food) Available() bool {
	return f != nil && !f.Eaten && !f.Removed
}
