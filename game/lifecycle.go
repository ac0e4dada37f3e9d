package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
	"github.com/pthm-cable/shoal/vmath"
)

// pendingLitter is a brood waiting for the sweep. Parent names are captured at mating
// time because a parent may be gone by then.
type pendingLitter struct {
	systems.Litter
	parents [2]string
}

func (g *Game) pendingBirths() int {
	n := 0
	for _, l := range g.litters {
		n += len(l.Positions)
	}
	return n
}

// sweep removes finished agents and hatches the litters queued this tick.
func (g *Game) sweep() {
	for _, e := range g.removals {
		if !g.world.Alive(e) {
			continue
		}
		_, id, _, _, _, _ := g.mapper.Get(e)
		g.names.Release(id.Name)
		g.world.RemoveEntity(e)
	}
	g.removals = g.removals[:0]

	// Agent pointers die with the first structural change.
	g.agents = g.agents[:0]
	clear(g.slot)

	for _, l := range g.litters {
		g.hatch(l)
	}
	clear(g.litters)
	g.litters = g.litters[:0]
}

func (g *Game) hatch(l pendingLitter) {
	lc := &g.cfg.Lifecycle
	names := make([]string, 0, len(l.Positions))

	for _, pos := range l.Positions {
		pos.X = vmath.Clamp(pos.X, 0, g.cfg.Derived.Width)
		pos.Y = vmath.Clamp(pos.Y, 0, g.cfg.Derived.Height)
		e := g.spawn(birth{
			species:   l.Species,
			pos:       pos,
			heading:   g.rng.Float64() * 2 * math.Pi,
			growth:    lc.JuvenileGrowth,
			energy:    g.cfg.Reproduction.OffspringEnergy,
			birthTime: g.time,
		})
		a := g.view(e)
		names = append(names, a.ID.Name)
		g.collector.RecordBirth()
		g.logEvent(telemetry.EventBirth, &a, l.parents[0]+" & "+l.parents[1], "")
	}

	slog.Info("birth",
		"species", l.Species.ID,
		"parents", l.parents,
		"offspring", names,
	)
	g.hooks.OnBirth(l.parents[0], l.parents[1], names, l.Species.Name)
}
