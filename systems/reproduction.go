package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
	"github.com/pthm-cable/shoal/vmath"
)

// Litter is a planned brood. The caller spawns the juveniles.
type Litter struct {
	Species   *species.Descriptor
	Parents   [2]ecs.Entity
	Positions []vmath.Vec2
}

// Reproduction gates mating and plans litters.
type Reproduction struct {
	cfg     *config.ReproductionConfig
	softCap int
}

// NewReproduction creates the reproduction system.
func NewReproduction(cfg *config.Config) *Reproduction {
	return &Reproduction{cfg: &cfg.Reproduction, softCap: cfg.Population.SoftCap}
}

// Fertile reports whether an agent passes every individual reproduction gate:
// alive, grown up, old enough, well fed and off cooldown.
func (r *Reproduction) Fertile(a *Agent, now float64) bool {
	bio := a.Bio
	return !a.Vit.Dead &&
		bio.GrownUp &&
		a.ID.Age(now) >= r.cfg.MaturityAge &&
		bio.Energy > r.cfg.EnergyThreshold &&
		bio.ReproCooldown <= 0
}

// PopulationFactor scales mating probability by crowding. It is 1 in an empty tank and
// falls smoothly to 0 at the soft cap.
func (r *Reproduction) PopulationFactor(population int) float64 {
	if r.softCap <= 0 {
		return 1
	}
	x := float64(population) / float64(r.softCap)
	if x >= 1 {
		return 0
	}
	return 1 - x*x
}

// InContact reports whether two agents are close enough to spawn.
func (r *Reproduction) InContact(a, b *Agent) bool {
	d := (a.Size() + b.Size()) * r.cfg.ContactFactor
	return a.Kin.Pos.DistSq(b.Kin.Pos) < d*d
}

// Mate attempts a spawning between a and b. On success both parents pay the energy
// cost and start a cooldown, and the returned litter holds 1 to MaxOffspring positions
// around the parents' midpoint.
func (r *Reproduction) Mate(a, b *Agent, population int, now float64, rng *rand.Rand) (Litter, bool) {
	if a.E == b.E || a.ID.Species != b.ID.Species {
		return Litter{}, false
	}
	if !r.Fertile(a, now) || !r.Fertile(b, now) || r.PopulationFactor(population) <= 0 {
		return Litter{}, false
	}

	n := r.cfg.MinOffspring
	if r.cfg.MaxOffspring > r.cfg.MinOffspring {
		n += rng.Intn(r.cfg.MaxOffspring - r.cfg.MinOffspring + 1)
	}

	mid := a.Kin.Pos.Lerp(b.Kin.Pos, 0.5)
	j := r.cfg.SpawnJitter
	litter := Litter{
		Species:   a.ID.Species,
		Parents:   [2]ecs.Entity{a.E, b.E},
		Positions: make([]vmath.Vec2, n),
	}
	for i := range litter.Positions {
		litter.Positions[i] = mid.Add(vmath.V(uniform(rng, -j, j), uniform(rng, -j, j)))
	}

	for _, p := range [2]*Agent{a, b} {
		p.Bio.Energy = vmath.Clamp(p.Bio.Energy-r.cfg.EnergyCost, 0, p.Bio.MaxEnergy)
		p.Bio.ReproCooldown = uniform(rng, r.cfg.CooldownMin, r.cfg.CooldownMax)
		p.Bio.Offspring += n
		p.Tgt.Mate = ecs.Entity{}
	}
	return litter, true
}
