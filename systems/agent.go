package systems

import (
	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/vmath"
)

// Agent bundles the component pointers of one simulated fish.
// The pointers come straight from an ark query or map lookup and are valid until the
// next structural change to the world.
type Agent struct {
	E   ecs.Entity
	Kin *components.Kinematics
	ID  *components.Identity
	Bio *components.Biology
	Tgt *components.Targets
	Vit *components.Vitals
	Wan *components.Wander
}

// Size returns the agent's current body size.
func (a *Agent) Size() float64 {
	return a.Bio.Size(a.ID.Species)
}

// Predator reports whether the agent's species hunts.
func (a *Agent) Predator() bool {
	return a.ID.Species.Predator
}

// Alive reports whether the agent still participates in steering and interactions.
func (a *Agent) Alive() bool {
	return !a.Vit.Dead
}

// Env is the read-mostly context shared by all systems during one tick.
type Env struct {
	Cfg *config.Config

	Dt     float64
	Time   float64
	Width  float64
	Height float64

	Cursor     vmath.Vec2
	HasCursor  bool
	Drowsiness float64 // 0 = day, 1 = deep night

	Foods      []*components.Food
	Index      *SpatialIndex
	Population int // live agents at the start of the tick

	Noise opensimplex.Noise
}

// NewEnv creates a tick context sized from the config.
func NewEnv(cfg *config.Config, index *SpatialIndex, noise opensimplex.Noise) *Env {
	return &Env{
		Cfg:    cfg,
		Dt:     cfg.Physics.DT,
		Width:  cfg.Derived.Width,
		Height: cfg.Derived.Height,
		Index:  index,
		Noise:  noise,
	}
}

// Snapshot builds the index entry for an agent.
func Snapshot(a *Agent, fertile bool) Entry {
	return Entry{
		E:       a.E,
		Pos:     a.Kin.Pos,
		Vel:     a.Kin.Vel,
		Size:    a.Size(),
		Species: a.ID.Species,
		Energy:  a.Bio.Energy,
		Fertile: fertile,
		Dead:    a.Vit.Dead,
	}
}
