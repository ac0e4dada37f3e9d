package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/species"
	"github.com/pthm-cable/shoal/telemetry"
	"github.com/pthm-cable/shoal/vmath"
)

// newAgentRand gives each fish its own stream so its wander and cooldown draws do not
// depend on how many other fish drew before it.
func newAgentRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// birth describes one agent to add to the tank.
type birth struct {
	species   *species.Descriptor
	pos       vmath.Vec2
	heading   float64
	growth    float64
	energy    float64
	birthTime float64
	lifespan  float64 // 0 draws a fresh lifespan
	name      string  // empty generates one
	finalized bool
}

// spawn creates the entity for b. It invalidates any agent pointers held by the caller.
func (g *Game) spawn(b birth) ecs.Entity {
	sp := b.species
	lc := &g.cfg.Lifecycle

	lifespan := b.lifespan
	if lifespan <= 0 {
		lifespan = g.life.DrawLifespan(sp, g.rng)
	}

	name := b.name
	if name == "" {
		name = g.names.Next()
	} else {
		name = g.names.Reserve(name)
	}

	growth := math.Min(b.growth, sp.MaxGrowth)
	rngSeed := g.rng.Int63()

	kin := components.Kinematics{
		Pos:           b.pos,
		Vel:           vmath.FromAngle(b.heading).Scale(sp.BaseSpeed * g.cfg.Steering.CruiseFactor * 0.5),
		Heading:       b.heading,
		VisualHeading: b.heading,
		SpeedLimit:    sp.BaseSpeed,
	}
	id := components.Identity{
		Species:       sp,
		Name:          name,
		NameFinalized: b.finalized,
		BirthTime:     b.birthTime,
		Lifespan:      lifespan,
	}
	bio := components.Biology{
		Energy:    vmath.Clamp(b.energy, 0, lc.MaxEnergy),
		MaxEnergy: lc.MaxEnergy,
		Growth:    growth,
		GrownUp:   growth >= 1,
		MateCheck: g.rng.Float64() * g.cfg.Steering.MateCheckInterval,
	}
	if sp.Predator && !bio.GrownUp {
		bio.HuntCooldown = g.cfg.Predation.NewbornGrace
	}
	tgt := components.Targets{}
	vit := components.Vitals{Fade: 1}
	wan := components.Wander{
		Rng:    newAgentRand(rngSeed),
		Angle:  b.heading,
		Offset: g.rng.Float64() * 1000,
	}

	e := g.mapper.NewEntity(&kin, &id, &bio, &tgt, &vit, &wan)

	if !b.finalized && g.namer != nil {
		g.namer.request(e, id.NameToken, NameRequest{
			Species:     sp.Name,
			Temperament: string(sp.Temperament),
			Placeholder: name,
		})
	}
	return e
}

// spawnInitialPopulation stocks the tank with adults of random species and ages.
func (g *Game) spawnInitialPopulation() {
	prey := g.catalog.Prey()
	preds := g.catalog.Predators()
	pc := &g.cfg.Population
	maturity := g.cfg.Reproduction.MaturityAge

	for i := 0; i < pc.Initial; i++ {
		pool := prey
		if len(preds) > 0 && (len(prey) == 0 || g.rng.Float64() < pc.PredatorChance) {
			pool = preds
		}
		sp := pool[g.rng.Intn(len(pool))]

		g.spawn(birth{
			species:   sp,
			pos:       g.randomPosition(),
			heading:   g.rng.Float64() * 2 * math.Pi,
			growth:    1,
			energy:    g.cfg.Lifecycle.InitialEnergy,
			birthTime: g.time - g.rng.Float64()*maturity*2,
		})
	}
	slog.Debug("tank stocked", "agents", pc.Initial)
}

// randomPosition returns a point inside the wall margins.
func (g *Game) randomPosition() vmath.Vec2 {
	m := g.cfg.Steering.WallSoftMargin
	w, h := g.cfg.Derived.Width, g.cfg.Derived.Height
	return vmath.V(m+g.rng.Float64()*math.Max(w-2*m, 1), m+g.rng.Float64()*math.Max(h-2*m, 1))
}

// Purchase adds a full-size adult of the given species at pos. The name is final: it is
// never replaced by async enrichment. An empty name generates one.
func (g *Game) Purchase(speciesID string, pos vmath.Vec2, name string) (ecs.Entity, error) {
	sp, ok := g.catalog.Get(speciesID)
	if !ok {
		return ecs.Entity{}, fmt.Errorf("purchase: unknown species %q", speciesID)
	}

	pos.X = vmath.Clamp(pos.X, 0, g.cfg.Derived.Width)
	pos.Y = vmath.Clamp(pos.Y, 0, g.cfg.Derived.Height)

	e := g.spawn(birth{
		species:   sp,
		pos:       pos,
		heading:   g.rng.Float64() * 2 * math.Pi,
		growth:    1,
		energy:    g.cfg.Lifecycle.InitialEnergy,
		birthTime: g.time - g.cfg.Reproduction.MaturityAge,
		name:      strings.TrimSpace(name),
		finalized: true,
	})

	a := g.view(e)
	g.collector.RecordPurchase()
	g.logEvent(telemetry.EventPurchase, &a, "", "")
	g.hooks.SpawnEffect(pos, components.EffectSplash)
	slog.Info("purchased", "name", a.ID.Name, "species", sp.ID)
	return e, nil
}

