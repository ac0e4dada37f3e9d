// Package game owns the tank: the ECS world, the food list, the score and the tick loop
// that drives the systems package.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
	"github.com/pthm-cable/shoal/vmath"
)

type agentMapper = ecs.Map6[
	components.Kinematics,
	components.Identity,
	components.Biology,
	components.Targets,
	components.Vitals,
	components.Wander,
]

type agentFilter = ecs.Filter6[
	components.Kinematics,
	components.Identity,
	components.Biology,
	components.Targets,
	components.Vitals,
	components.Wander,
]

// Options configures a new game.
type Options struct {
	Seed int64

	Hooks       Hooks         // notification surface, nil for none
	Namer       Namer         // optional async name enrichment
	NameTimeout time.Duration // per-request limit for Namer, default 5s

	Output        *telemetry.OutputManager
	LogStats      bool
	StatsCallback func(telemetry.WindowStats)

	EmptyTank bool // skip the initial population
	Workers   int  // steering goroutines, 0 or 1 steers on the calling goroutine
}

// Game holds the complete tank state.
type Game struct {
	cfg     *config.Config
	catalog *species.Catalog
	rng     *rand.Rand
	seed    int64

	world  *ecs.World
	mapper *agentMapper
	filter *agentFilter

	index *systems.SpatialIndex
	env   *systems.Env
	steer *systems.Controller
	life  *systems.Lifecycle
	repro *systems.Reproduction
	pred  *systems.Predation

	foods      []*components.Food
	nextFoodID uint32
	autoFeed   bool
	feedTimer  float64

	tick  int32
	time  float64
	score int

	drowsiness     float64
	drowsyOverride bool

	parallel *parallelState

	hooks Hooks
	names *NameGenerator
	namer *enricher

	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	events           []telemetry.Event
	lastWindow       telemetry.WindowStats
	hasWindow        bool

	numPrey int
	numPred int

	// Per-tick scratch. Agent pointers are valid from the index rebuild until the sweep.
	agents   []systems.Agent
	slot     map[ecs.Entity]int
	litters  []pendingLitter
	removals []ecs.Entity
}

// NewGame creates a tank from cfg. The species catalog is built and validated here.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	catalog, err := species.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading species: %w", err)
	}

	world := ecs.NewWorld()
	index := systems.NewSpatialIndex(cfg.Derived.Width, cfg.Derived.Height, cfg.Physics.CellSize)
	life := systems.NewLifecycle(cfg)
	repro := systems.NewReproduction(cfg)

	hooks := opts.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}

	g := &Game{
		cfg:     cfg,
		catalog: catalog,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		seed:    opts.Seed,
		world:   world,
		mapper:  ecs.NewMap6[components.Kinematics, components.Identity, components.Biology, components.Targets, components.Vitals, components.Wander](world),
		filter:  ecs.NewFilter6[components.Kinematics, components.Identity, components.Biology, components.Targets, components.Vitals, components.Wander](world),
		index:   index,
		env:     systems.NewEnv(cfg, index, opensimplex.New(opts.Seed)),
		steer:   systems.NewController(cfg, repro),
		life:    life,
		repro:   repro,
		pred:    systems.NewPredation(cfg, life),

		autoFeed: cfg.Food.AutoFeed,
		hooks:    hooks,
		names:    NewNameGenerator(opts.Seed),

		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Physics.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager:    opts.Output,
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,

		slot: make(map[ecs.Entity]int),
	}

	if opts.Namer != nil {
		timeout := opts.NameTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		g.namer = newEnricher(opts.Namer, timeout)
	}

	if opts.Workers > 1 {
		g.parallel = newParallelState(g, opts.Workers)
	}

	g.updateDayNight()

	if !opts.EmptyTank {
		g.spawnInitialPopulation()
	}

	return g, nil
}

// Close stops the steering workers and outstanding name requests. The output manager
// belongs to the caller.
func (g *Game) Close() {
	g.stopParallelWorkers()
	if g.namer != nil {
		g.namer.stop()
	}
}

// Config returns the configuration the tank was built from.
func (g *Game) Config() *config.Config { return g.cfg }

// Catalog returns the species catalog.
func (g *Game) Catalog() *species.Catalog { return g.catalog }

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.tick }

// Time returns the simulation time in seconds.
func (g *Game) Time() float64 { return g.time }

// Score returns the accumulated score.
func (g *Game) Score() int { return g.score }

// Seed returns the seed the tank was created with.
func (g *Game) Seed() int64 { return g.seed }

// Population returns the live prey and predator counts as of the last index rebuild.
func (g *Game) Population() (prey, pred int) { return g.numPrey, g.numPred }

// Foods returns the pellets in the tank. The slice must not be modified.
func (g *Game) Foods() []*components.Food { return g.foods }

// Drowsiness returns the night factor, 0 by day and 1 at deep night.
func (g *Game) Drowsiness() float64 { return g.drowsiness }

// PerfStats returns the rolling per-phase timing.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perfCollector.Stats() }

// LastWindow returns the most recently closed stats window. ok is false before the first.
func (g *Game) LastWindow() (ws telemetry.WindowStats, ok bool) { return g.lastWindow, g.hasWindow }

// RecordFrame feeds frame timing into the perf stats (graphics mode).
func (g *Game) RecordFrame() { g.perfCollector.RecordFrame() }

// SetCursor tells the fish where the pointer is; they slow down near it.
func (g *Game) SetCursor(p vmath.Vec2) {
	g.env.Cursor = p
	g.env.HasCursor = true
}

// ClearCursor removes the pointer from the tank.
func (g *Game) ClearCursor() {
	g.env.HasCursor = false
}

// SetDrowsiness overrides the day/night cycle with a fixed night factor in [0, 1].
func (g *Game) SetDrowsiness(v float64) {
	g.drowsyOverride = true
	g.drowsiness = vmath.Clamp01(v)
	g.env.Drowsiness = g.drowsiness
}

// ClearDrowsiness hands the night factor back to the day/night cycle.
func (g *Game) ClearDrowsiness() {
	g.drowsyOverride = false
	g.updateDayNight()
}

// DrowsinessPinned reports whether SetDrowsiness is overriding the day/night cycle.
func (g *Game) DrowsinessPinned() bool { return g.drowsyOverride }

// Agent returns the component view of a live entity.
// The pointers are valid until the next Step or spawn.
func (g *Game) Agent(e ecs.Entity) (*systems.Agent, bool) {
	if e.IsZero() || !g.world.Alive(e) {
		return nil, false
	}
	a := g.view(e)
	return &a, true
}

// EachAgent calls fn for every agent, dead ones included, in storage order.
// fn must not spawn or remove agents.
func (g *Game) EachAgent(fn func(a *systems.Agent)) {
	query := g.filter.Query()
	for query.Next() {
		kin, id, bio, tgt, vit, wan := query.Get()
		a := systems.Agent{E: query.Entity(), Kin: kin, ID: id, Bio: bio, Tgt: tgt, Vit: vit, Wan: wan}
		fn(&a)
	}
}

// AgentAt returns the live agent whose body covers p, preferring the closest.
func (g *Game) AgentAt(p vmath.Vec2) (ecs.Entity, bool) {
	var best ecs.Entity
	bestD := -1.0
	g.EachAgent(func(a *systems.Agent) {
		if !a.Alive() {
			return
		}
		r := a.Size()
		d := a.Kin.Pos.DistSq(p)
		if d <= r*r && (bestD < 0 || d < bestD) {
			best, bestD = a.E, d
		}
	})
	return best, bestD >= 0
}

// Count returns the number of entities in the world, including fading corpses.
func (g *Game) Count() int {
	n := 0
	query := g.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

func (g *Game) view(e ecs.Entity) systems.Agent {
	kin, id, bio, tgt, vit, wan := g.mapper.Get(e)
	return systems.Agent{E: e, Kin: kin, ID: id, Bio: bio, Tgt: tgt, Vit: vit, Wan: wan}
}
