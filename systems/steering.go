package systems

import (
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/vmath"
)

// Mode decides how a behavior's force combines with the rest of the chain.
type Mode uint8

const (
	// ModeConstraint forces are always added. Wall avoidance uses this.
	ModeConstraint Mode = iota
	// ModeOverride behaviors are tried in chain order; the first active one wins and
	// suppresses every later override and every ambient behavior.
	ModeOverride
	// ModeAmbient forces are added only while no override is active.
	ModeAmbient
)

// String returns the display name for a Mode.
func (m Mode) String() string {
	switch m {
	case ModeConstraint:
		return "constraint"
	case ModeOverride:
		return "override"
	case ModeAmbient:
		return "ambient"
	default:
		return "unknown"
	}
}

// Behavior is one layer of the steering chain.
// Steer returns the layer's force, already limited to the layer's own max force, and
// whether the layer is active this tick. Behaviors may update the agent's own targets
// and timers but must read other agents only through the snapshot index.
type Behavior interface {
	Name() string
	Mode() Mode
	Steer(a *Agent, s *Sense, env *Env) (vmath.Vec2, bool)
}

// Sense is the per-agent scratch shared by the behaviors of one Steer call.
type Sense struct {
	Neighbors []Entry // snapshot entries in the surrounding cells, self excluded
	MaxSpeed  float64 // modulated speed cap before boosts
	Boost     float64 // speed and force multiplier granted by the winning override
	Darting   bool

	prey     Entry
	preyOK   bool
	preyDone bool
}

func (s *Sense) reset() {
	s.Neighbors = s.Neighbors[:0]
	s.MaxSpeed = 0
	s.Boost = 1
	s.Darting = false
	s.prey = Entry{}
	s.preyOK = false
	s.preyDone = false
}

// Cruise is the relaxed swimming speed ambient behaviors aim for.
func (s *Sense) Cruise(cfg *config.SteeringConfig) float64 {
	return s.MaxSpeed * cfg.CruiseFactor
}

// Result is the steering output for one agent and tick.
type Result struct {
	Accel      vmath.Vec2
	SpeedLimit float64
	Darting    bool
	Active     string // winning override, empty when idle
}

// Controller runs the ordered behavior chain for each agent.
// A Controller reuses its scratch buffers and is not safe for concurrent use.
type Controller struct {
	cfg   *config.Config
	chain []Behavior
	sense Sense
}

// NewController creates a controller with the default chain:
// wall, territorial, flee, food, hunt, mate, flock, wander.
func NewController(cfg *config.Config, repro *Reproduction) *Controller {
	return NewControllerWithChain(cfg, DefaultChain(cfg, repro))
}

// NewControllerWithChain creates a controller over a custom chain.
func NewControllerWithChain(cfg *config.Config, chain []Behavior) *Controller {
	return &Controller{
		cfg:   cfg,
		chain: chain,
		sense: Sense{Neighbors: make([]Entry, 0, 64)},
	}
}

// DefaultChain returns the behaviors in precedence order.
func DefaultChain(cfg *config.Config, repro *Reproduction) []Behavior {
	sc := &cfg.Steering
	return []Behavior{
		&WallAvoid{cfg: sc},
		&Territorial{cfg: sc, life: &cfg.Lifecycle},
		&Flee{cfg: sc, life: &cfg.Lifecycle},
		&FoodSeek{cfg: sc, life: &cfg.Lifecycle},
		&Hunt{cfg: sc, life: &cfg.Lifecycle},
		&MateSeek{cfg: sc, repro: repro},
		&Flock{cfg: sc},
		&Wander{cfg: sc},
	}
}

// Chain returns the behaviors in precedence order.
func (c *Controller) Chain() []Behavior {
	return c.chain
}

// Steer computes the agent's acceleration and speed cap for this tick.
// The result depends only on the snapshot index, the agent's own components and its
// own random stream, so agents can be steered in any order.
func (c *Controller) Steer(a *Agent, env *Env) Result {
	s := &c.sense
	s.reset()
	s.Neighbors = gatherNeighbors(s.Neighbors, env.Index, a)
	s.MaxSpeed = c.speedCap(a, env)

	var res Result
	var total vmath.Vec2
	overridden := false

	for _, b := range c.chain {
		mode := b.Mode()
		if overridden && mode != ModeConstraint {
			continue
		}
		f, ok := b.Steer(a, s, env)
		if !ok {
			continue
		}
		total = total.Add(f)
		if mode == ModeOverride {
			overridden = true
			res.Active = b.Name()
		}
	}

	res.Accel = total.Limit(c.cfg.Physics.MaxAccel * s.Boost)
	res.SpeedLimit = s.MaxSpeed * s.Boost
	res.Darting = s.Darting
	return res
}

// speedCap applies the night, low-energy and cursor modifiers to the species base speed.
func (c *Controller) speedCap(a *Agent, env *Env) float64 {
	sc := &c.cfg.Steering
	v := a.ID.Species.BaseSpeed
	v *= 1 - sc.NightSlowdown*vmath.Clamp01(env.Drowsiness)
	if a.Bio.Energy < c.cfg.Lifecycle.LowEnergy {
		v *= 1 - sc.LowEnergySlowdown
	}
	if env.HasCursor && sc.CursorRadius > 0 {
		d := a.Kin.Pos.Dist(env.Cursor)
		if d < sc.CursorRadius {
			v *= 1 - sc.CursorSlowdown*(1-d/sc.CursorRadius)
		}
	}
	return v
}

// gatherNeighbors fills dst with the snapshot entries around a, dropping a itself.
func gatherNeighbors(dst []Entry, index *SpatialIndex, a *Agent) []Entry {
	dst = index.QueryNearInto(dst[:0], a.Kin.Pos)
	n := 0
	for _, e := range dst {
		if e.E == a.E {
			continue
		}
		dst[n] = e
		n++
	}
	return dst[:n]
}

// seek returns the force that turns vel toward dir at the given speed.
func seek(dir vmath.Vec2, speed float64, vel vmath.Vec2, maxForce float64) vmath.Vec2 {
	if dir.IsZero() {
		return vmath.Vec2{}
	}
	return dir.WithLen(speed).Sub(vel).Limit(maxForce)
}

// Integrate advances an agent's motion by dt and keeps it inside the tank.
func Integrate(a *Agent, env *Env) {
	kin := a.Kin
	dt := env.Dt

	kin.Vel = kin.Vel.Add(kin.Accel.Scale(dt)).Limit(kin.SpeedLimit)
	kin.Pos = kin.Pos.Add(kin.Vel.Scale(dt))

	if kin.Pos.X < 0 {
		kin.Pos.X = 0
		kin.Vel.X = 0
	} else if kin.Pos.X > env.Width {
		kin.Pos.X = env.Width
		kin.Vel.X = 0
	}
	if kin.Pos.Y < 0 {
		kin.Pos.Y = 0
		kin.Vel.Y = 0
	} else if kin.Pos.Y > env.Height {
		kin.Pos.Y = env.Height
		kin.Vel.Y = 0
	}

	if kin.Vel.LenSq() > 1e-4 {
		kin.Heading = kin.Vel.Angle()
	}
	kin.VisualHeading = turnToward(kin.VisualHeading, kin.Heading, env.Cfg.Steering.VisualTurnRate, dt)
}
