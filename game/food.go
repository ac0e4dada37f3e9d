package game

import (
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/vmath"
)

// DropFood adds a pellet at pos. Pellets dropped above the surface start at it.
func (g *Game) DropFood(pos vmath.Vec2) *components.Food {
	pos.X = vmath.Clamp(pos.X, 0, g.cfg.Derived.Width)
	pos.Y = vmath.Clamp(pos.Y, 0, g.cfg.Derived.Height)

	g.nextFoodID++
	f := &components.Food{ID: g.nextFoodID, Pos: pos}
	g.foods = append(g.foods, f)
	g.hooks.SpawnEffect(pos, components.EffectSplash)
	return f
}

// SetAutoFeed turns the timed feeder on or off. Turning it on restarts its timer.
func (g *Game) SetAutoFeed(on bool) {
	if on && !g.autoFeed {
		g.feedTimer = 0
	}
	g.autoFeed = on
}

// AutoFeed reports whether the timed feeder is running.
func (g *Game) AutoFeed() bool { return g.autoFeed }

func (g *Game) updateFood() {
	systems.UpdateFood(g.foods, &g.cfg.Food, g.env)
	g.foods = systems.PruneFood(g.foods)
}

// updateFeeder scatters a handful of pellets across the surface every interval.
func (g *Game) updateFeeder() {
	fc := &g.cfg.Food
	if !g.autoFeed || fc.AutoFeedInterval <= 0 || fc.AutoFeedCount <= 0 {
		return
	}
	g.feedTimer += g.cfg.Physics.DT
	if g.feedTimer < fc.AutoFeedInterval {
		return
	}
	g.feedTimer -= fc.AutoFeedInterval

	w := g.cfg.Derived.Width
	for i := 0; i < fc.AutoFeedCount; i++ {
		x := w * (0.1 + 0.8*g.rng.Float64())
		g.DropFood(vmath.V(x, 0))
	}
}
