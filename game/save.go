package game

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/mlange-42/ark/ecs"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
	"github.com/pthm-cable/shoal/vmath"
)

// saveVersion is bumped whenever savedAgent changes incompatibly.
const saveVersion = 1

// saveFile is the on-disk tank. Each agent is encoded separately so one bad record
// costs one fish, not the whole tank.
type saveFile struct {
	Version  int                  `msgpack:"version"`
	Seed     int64                `msgpack:"seed"`
	Tick     int32                `msgpack:"tick"`
	Time     float64              `msgpack:"time"`
	Score    int                  `msgpack:"score"`
	AutoFeed bool                 `msgpack:"auto_feed"`
	Agents   []msgpack.RawMessage `msgpack:"agents"`
	Foods    []savedFood          `msgpack:"foods"`
}

type savedAgent struct {
	Species   string     `msgpack:"species"`
	Name      string     `msgpack:"name"`
	BirthTime float64    `msgpack:"birth_time"`
	Lifespan  float64    `msgpack:"lifespan"`
	Pos       vmath.Vec2 `msgpack:"pos"`
	Vel       vmath.Vec2 `msgpack:"vel"`
	Heading   float64    `msgpack:"heading"`

	Energy        float64 `msgpack:"energy"`
	Growth        float64 `msgpack:"growth"`
	GrownUp       bool    `msgpack:"grown_up"`
	FeedCooldown  float64 `msgpack:"feed_cooldown"`
	HuntCooldown  float64 `msgpack:"hunt_cooldown"`
	ReproCooldown float64 `msgpack:"repro_cooldown"`

	Offspring int `msgpack:"offspring"`
	Meals     int `msgpack:"meals"`
	Catches   int `msgpack:"catches"`
}

type savedFood struct {
	Pos  vmath.Vec2 `msgpack:"pos"`
	VelY float64    `msgpack:"vel_y"`
}

// errNotFinite rejects records carrying NaN or Inf.
var errNotFinite = errors.New("non-finite value")

func (sa *savedAgent) check() error {
	for _, v := range []float64{
		sa.BirthTime, sa.Lifespan, sa.Pos.X, sa.Pos.Y, sa.Vel.X, sa.Vel.Y, sa.Heading,
		sa.Energy, sa.Growth, sa.FeedCooldown, sa.HuntCooldown, sa.ReproCooldown,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errNotFinite
		}
	}
	return nil
}

// Save writes the live tank to w. Dead fish still fading out are left behind.
func (g *Game) Save(w io.Writer) error {
	sf := saveFile{
		Version:  saveVersion,
		Seed:     g.seed,
		Tick:     g.tick,
		Time:     g.time,
		Score:    g.score,
		AutoFeed: g.autoFeed,
	}

	var encErr error
	g.EachAgent(func(a *systems.Agent) {
		if !a.Alive() || encErr != nil {
			return
		}
		raw, err := msgpack.Marshal(savedAgent{
			Species:       a.ID.Species.ID,
			Name:          a.ID.Name,
			BirthTime:     a.ID.BirthTime,
			Lifespan:      a.ID.Lifespan,
			Pos:           a.Kin.Pos,
			Vel:           a.Kin.Vel,
			Heading:       a.Kin.Heading,
			Energy:        a.Bio.Energy,
			Growth:        a.Bio.Growth,
			GrownUp:       a.Bio.GrownUp,
			FeedCooldown:  a.Bio.FeedCooldown,
			HuntCooldown:  a.Bio.HuntCooldown,
			ReproCooldown: a.Bio.ReproCooldown,
			Offspring:     a.Bio.Offspring,
			Meals:         a.Bio.Meals,
			Catches:       a.Bio.Catches,
		})
		if err != nil {
			encErr = fmt.Errorf("encoding %s: %w", a.ID.Name, err)
			return
		}
		sf.Agents = append(sf.Agents, raw)
	})
	if encErr != nil {
		return encErr
	}

	for _, f := range g.foods {
		if f.Available() {
			sf.Foods = append(sf.Foods, savedFood{Pos: f.Pos, VelY: f.VelY})
		}
	}

	bw := bufio.NewWriter(w)
	if err := msgpack.NewEncoder(bw).Encode(&sf); err != nil {
		return fmt.Errorf("encoding save: %w", err)
	}
	return bw.Flush()
}

// SaveFile writes the tank to path.
func (g *Game) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating save: %w", err)
	}
	if err := g.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Restore replaces the tank with the one read from r. Records that fail to decode or
// name an unknown species are skipped with a warning; skipped counts them. Restored
// names are final and never replaced by enrichment.
func (g *Game) Restore(r io.Reader) (skipped int, err error) {
	var sf saveFile
	if err := msgpack.NewDecoder(bufio.NewReader(r)).Decode(&sf); err != nil {
		return 0, fmt.Errorf("decoding save: %w", err)
	}
	if sf.Version > saveVersion {
		return 0, fmt.Errorf("save version %d is newer than supported %d", sf.Version, saveVersion)
	}

	g.clearTank()
	g.tick = sf.Tick
	g.time = sf.Time
	g.score = sf.Score
	g.autoFeed = sf.AutoFeed
	g.env.Time = g.time

	for i, raw := range sf.Agents {
		var sa savedAgent
		if err := msgpack.Unmarshal(raw, &sa); err != nil {
			slog.Warn("skipping corrupt agent record", "index", i, "error", err)
			skipped++
			continue
		}
		if err := sa.check(); err != nil {
			slog.Warn("skipping corrupt agent record", "index", i, "name", sa.Name, "error", err)
			skipped++
			continue
		}
		sp, ok := g.catalog.Get(sa.Species)
		if !ok {
			slog.Warn("skipping agent of unknown species", "index", i, "name", sa.Name, "species", sa.Species)
			skipped++
			continue
		}

		pos := sa.Pos
		pos.X = vmath.Clamp(pos.X, 0, g.cfg.Derived.Width)
		pos.Y = vmath.Clamp(pos.Y, 0, g.cfg.Derived.Height)

		e := g.spawn(birth{
			species:   sp,
			pos:       pos,
			heading:   sa.Heading,
			growth:    math.Max(sa.Growth, g.cfg.Lifecycle.JuvenileGrowth),
			energy:    sa.Energy,
			birthTime: sa.BirthTime,
			lifespan:  sa.Lifespan,
			name:      sa.Name,
			finalized: true,
		})
		a := g.view(e)
		a.Kin.Vel = sa.Vel
		a.Bio.GrownUp = sa.GrownUp || a.Bio.Growth >= 1
		a.Bio.FeedCooldown = math.Max(sa.FeedCooldown, 0)
		a.Bio.HuntCooldown = math.Max(sa.HuntCooldown, 0)
		a.Bio.ReproCooldown = math.Max(sa.ReproCooldown, 0)
		a.Bio.Offspring = sa.Offspring
		a.Bio.Meals = sa.Meals
		a.Bio.Catches = sa.Catches
	}

	for _, fd := range sf.Foods {
		g.nextFoodID++
		g.foods = append(g.foods, &components.Food{ID: g.nextFoodID, Pos: fd.Pos, VelY: fd.VelY})
	}

	g.updateDayNight()
	g.logEvent(telemetry.EventLoaded, nil, "", fmt.Sprintf("%d agents, %d skipped", len(sf.Agents)-skipped, skipped))
	slog.Info("tank restored",
		"agents", len(sf.Agents)-skipped,
		"skipped", skipped,
		"foods", len(g.foods),
		"tick", g.tick,
	)
	return skipped, nil
}

// LoadFile restores the tank from path.
func (g *Game) LoadFile(path string) (skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening save: %w", err)
	}
	defer f.Close()
	return g.Restore(f)
}

// clearTank removes every agent and pellet. Pending name lookups are orphaned by the
// entity removal and dropped when they arrive.
func (g *Game) clearTank() {
	var all []ecs.Entity
	query := g.filter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		_, id, _, _, _, _ := g.mapper.Get(e)
		g.names.Release(id.Name)
		g.world.RemoveEntity(e)
	}

	for _, f := range g.foods {
		f.Removed = true
	}
	clear(g.foods)
	g.foods = g.foods[:0]

	g.agents = g.agents[:0]
	clear(g.slot)
	clear(g.litters)
	g.litters = g.litters[:0]
	g.removals = g.removals[:0]
	g.feedTimer = 0
}
