package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
	"github.com/pthm-cable/shoal/vmath"
)

// tank is a minimal ECS world for exercising the systems without the game package.
type tank struct {
	t       *testing.T
	cfg     *config.Config
	catalog *species.Catalog
	world   *ecs.World
	mapper  *ecs.Map6[components.Kinematics, components.Identity, components.Biology, components.Targets, components.Vitals, components.Wander]
	index   *SpatialIndex
	env     *Env
	life    *Lifecycle
	repro   *Reproduction
	pred    *Predation
	ctrl    *Controller
	rng     *rand.Rand
	order   []ecs.Entity
}

func newTank(t *testing.T) *tank {
	t.Helper()
	cfg := config.Default()
	cat, err := species.FromConfig(cfg)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	world := ecs.NewWorld()
	index := NewSpatialIndex(cfg.Derived.Width, cfg.Derived.Height, cfg.Physics.CellSize)
	env := NewEnv(cfg, index, opensimplex.New(7))
	life := NewLifecycle(cfg)
	repro := NewReproduction(cfg)
	return &tank{
		t:       t,
		cfg:     cfg,
		catalog: cat,
		world:   world,
		mapper:  ecs.NewMap6[components.Kinematics, components.Identity, components.Biology, components.Targets, components.Vitals, components.Wander](world),
		index:   index,
		env:     env,
		life:    life,
		repro:   repro,
		pred:    NewPredation(cfg, life),
		ctrl:    NewController(cfg, repro),
		rng:     rand.New(rand.NewSource(1)),
	}
}

// spawn adds an adult of the given species at pos. Fetch the agent with get after all
// spawns are done; storage may move while entities are added.
func (tk *tank) spawn(speciesID string, pos vmath.Vec2) ecs.Entity {
	tk.t.Helper()
	sp, ok := tk.catalog.Get(speciesID)
	if !ok {
		tk.t.Fatalf("unknown species %q", speciesID)
	}
	seed := int64(len(tk.order) + 1)
	kin := components.Kinematics{Pos: pos}
	id := components.Identity{Species: sp, Name: speciesID, BirthTime: -1000, Lifespan: 1e9}
	bio := components.Biology{Energy: 50, MaxEnergy: tk.cfg.Lifecycle.MaxEnergy, Growth: 1, GrownUp: true}
	tgt := components.Targets{}
	vit := components.Vitals{Fade: 1}
	wan := components.Wander{Rng: rand.New(rand.NewSource(seed)), Offset: float64(seed) * 13.7}
	e := tk.mapper.NewEntity(&kin, &id, &bio, &tgt, &vit, &wan)
	tk.order = append(tk.order, e)
	return e
}

func (tk *tank) get(e ecs.Entity) *Agent {
	kin, id, bio, tgt, vit, wan := tk.mapper.Get(e)
	return &Agent{E: e, Kin: kin, ID: id, Bio: bio, Tgt: tgt, Vit: vit, Wan: wan}
}

// rebuild snapshots every agent into the index.
func (tk *tank) rebuild() {
	tk.index.Clear()
	for _, e := range tk.order {
		a := tk.get(e)
		tk.index.Insert(Snapshot(a, tk.repro.Fertile(a, tk.env.Time)))
	}
	tk.env.Population = tk.index.Len()
}

func (tk *tank) steer(e ecs.Entity) Result {
	return tk.ctrl.Steer(tk.get(e), tk.env)
}
