package game

import (
	"log/slog"

	"github.com/pthm-cable/shoal/systems"
)

// LogTankState logs a census line per species present, then the tank totals.
func (g *Game) LogTankState() {
	type census struct {
		count     int
		juveniles int
		dead      int
		energy    float64
	}
	by := make(map[string]*census)
	g.EachAgent(func(a *systems.Agent) {
		c := by[a.ID.Species.ID]
		if c == nil {
			c = &census{}
			by[a.ID.Species.ID] = c
		}
		if a.Vit.Dead {
			c.dead++
			return
		}
		c.count++
		c.energy += a.Bio.Energy
		if !a.Bio.GrownUp {
			c.juveniles++
		}
	})

	for _, sp := range g.catalog.All() {
		c := by[sp.ID]
		if c == nil {
			continue
		}
		mean := 0.0
		if c.count > 0 {
			mean = c.energy / float64(c.count)
		}
		slog.Info("species census",
			"species", sp.ID,
			"count", c.count,
			"juveniles", c.juveniles,
			"fading", c.dead,
			"energy_mean", mean,
		)
	}

	slog.Info("tank state",
		"tick", g.tick,
		"time", g.time,
		"score", g.score,
		"prey", g.numPrey,
		"predators", g.numPred,
		"food", len(g.foods),
		"drowsiness", g.drowsiness,
	)
}
