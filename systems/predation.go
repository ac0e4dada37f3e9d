package systems

import (
	"math/rand"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// Outcome is the result of resolving one predator's hunt for a tick.
type Outcome uint8

const (
	OutcomeNone      Outcome = iota // no valid target
	OutcomeChasing                  // still pursuing
	OutcomeCaught                   // prey eaten this tick
	OutcomeAbandoned                // gave up: chased too long or prey escaped
)

// String returns the display name for an Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeChasing:
		return "chasing"
	case OutcomeCaught:
		return "caught"
	case OutcomeAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Predation resolves catches and hunt give-ups.
type Predation struct {
	cfg      *config.PredationConfig
	steering *config.SteeringConfig
	life     *Lifecycle
}

// NewPredation creates the predation resolver.
func NewPredation(cfg *config.Config, life *Lifecycle) *Predation {
	return &Predation{cfg: &cfg.Predation, steering: &cfg.Steering, life: life}
}

// CanCatch reports whether two bodies overlap: distance below the sum of their sizes.
func CanCatch(predator, prey *Agent) bool {
	r := predator.Size() + prey.Size()
	return predator.Kin.Pos.DistSq(prey.Kin.Pos) < r*r
}

// Resolve advances the predator's chase of prey by dt. On a catch the prey is killed,
// the predator is fed and starts digesting; grewUp reports the predator reaching adult
// size on that meal. An abandoned hunt carries no cooldown.
func (p *Predation) Resolve(predator, prey *Agent, env *Env, rng *rand.Rand) (out Outcome, grewUp bool) {
	bio, tgt := predator.Bio, predator.Tgt
	if prey == nil || !prey.Alive() || prey.Predator() {
		tgt.ClearHunt(bio)
		return OutcomeNone, false
	}

	if CanCatch(predator, prey) {
		p.life.Kill(prey, components.CauseEaten, env.Time)
		grewUp = p.life.Nourish(predator, p.cfg.CatchEnergy)
		bio.HuntCooldown = uniform(rng, p.cfg.DigestMin, p.cfg.DigestMax)
		bio.Catches++
		tgt.ClearHunt(bio)
		return OutcomeCaught, grewUp
	}

	bio.ChaseTime += env.Dt
	giveUp := p.steering.HuntRadius * p.cfg.GiveUpFactor
	if bio.ChaseTime > p.cfg.MaxChase || predator.Kin.Pos.DistSq(prey.Kin.Pos) > giveUp*giveUp {
		tgt.ClearHunt(bio)
		return OutcomeAbandoned, false
	}
	return OutcomeChasing, false
}
