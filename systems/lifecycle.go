package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
	"github.com/pthm-cable/shoal/vmath"
)

// Lifecycle owns energy, growth, cooldowns, death and the post-death drift.
type Lifecycle struct {
	cfg *config.LifecycleConfig
}

// NewLifecycle creates the lifecycle system.
func NewLifecycle(cfg *config.Config) *Lifecycle {
	return &Lifecycle{cfg: &cfg.Lifecycle}
}

// DrawLifespan draws a natural lifespan in seconds for a newborn of the given species.
func (l *Lifecycle) DrawLifespan(sp *species.Descriptor, rng *rand.Rand) float64 {
	if sp.Predator {
		return uniform(rng, l.cfg.PredatorLifespanMin, l.cfg.PredatorLifespanMax)
	}
	return uniform(rng, l.cfg.PreyLifespanMin, l.cfg.PreyLifespanMax)
}

// Hungry reports whether the agent wants food.
func (l *Lifecycle) Hungry(a *Agent) bool {
	return a.Bio.Energy < l.cfg.HungerThreshold
}

// Nourish adds energy and grows the agent by one meal. It returns true exactly once
// per agent: on the meal that first brings it to adult size.
func (l *Lifecycle) Nourish(a *Agent, amount float64) (grewUp bool) {
	bio := a.Bio
	bio.Energy = vmath.Clamp(bio.Energy+amount, 0, bio.MaxEnergy)
	bio.Meals++

	// Growth eases toward a point past the cap and is clamped there, so the cap and
	// adult size are both reached after a bounded number of meals.
	maxGrowth := a.ID.Species.MaxGrowth
	if bio.Growth < maxGrowth {
		aim := maxGrowth + l.cfg.GrowthOvershoot
		bio.Growth = min(bio.Growth+(aim-bio.Growth)*l.cfg.GrowthPerMeal, maxGrowth)
	}

	if !bio.GrownUp && bio.Growth >= 1 {
		bio.GrownUp = true
		return true
	}
	return false
}

// Feed consumes a pellet: energy, growth and a fresh feeding cooldown.
func (l *Lifecycle) Feed(a *Agent, rng *rand.Rand) (grewUp bool) {
	grewUp = l.Nourish(a, l.cfg.FeedEnergy)
	a.Bio.FeedCooldown = uniform(rng, l.cfg.FeedCooldownMin, l.cfg.FeedCooldownMax)
	return grewUp
}

// Update advances one agent by dt. For a living agent it applies energy decay, ticks the
// cooldowns and checks the death conditions; newlyDead reports a death this call.
// For a dead agent it runs the drift-and-fade animation. The returned status tells the
// caller whether to keep or remove the agent.
func (l *Lifecycle) Update(a *Agent, env *Env) (st components.Status, newlyDead bool) {
	if a.Vit.Dead {
		return l.fade(a, env), false
	}

	bio := a.Bio
	dt := env.Dt

	decayRate := l.cfg.PreyEnergyDecay
	if a.Predator() {
		decayRate = l.cfg.PredatorEnergyDecay
	}
	bio.Energy = vmath.Clamp(bio.Energy-decayRate*dt, 0, bio.MaxEnergy)

	decay(&bio.FeedCooldown, dt)
	decay(&bio.HuntCooldown, dt)
	decay(&bio.ReproCooldown, dt)
	decay(&bio.MateCheck, dt)
	decay(&bio.DuelCooldown, dt)

	cause := components.CauseNone
	switch {
	case a.ID.Age(env.Time) >= a.ID.Lifespan:
		cause = components.CauseOldAge
	case bio.Energy <= 0:
		cause = components.CauseStarved
	case a.Wan.Rng.Float64() < l.cfg.IllnessRate*dt:
		cause = components.CauseIllness
	}
	if cause != components.CauseNone && l.Kill(a, cause, env.Time) {
		return components.StatusAlive, true
	}
	return components.StatusAlive, false
}

// Kill marks the agent dead and releases its targets. It returns false if the agent
// was already dead.
func (l *Lifecycle) Kill(a *Agent, cause components.DeathCause, now float64) bool {
	if !a.Vit.Kill(cause, now) {
		return false
	}
	a.Vit.Fade = 1
	a.Tgt.Food = nil
	a.Tgt.ClearHunt(a.Bio)
	a.Tgt.Mate = ecs.Entity{}
	a.Tgt.Rival = ecs.Entity{}
	a.Kin.Accel = vmath.Vec2{}
	a.Kin.Darting = false
	return true
}

// fade drifts a corpse upward and fades it out.
func (l *Lifecycle) fade(a *Agent, env *Env) components.Status {
	if a.Vit.Eaten {
		return components.StatusEaten
	}

	kin := a.Kin
	kin.Vel = vmath.V(0, -l.cfg.DriftSpeed)
	kin.Pos = kin.Pos.Add(kin.Vel.Scale(env.Dt))
	if kin.Pos.Y < 0 {
		kin.Pos.Y = 0
	}

	if l.cfg.FadeDuration <= 0 {
		a.Vit.Fade = 0
	} else {
		a.Vit.Fade -= env.Dt / l.cfg.FadeDuration
	}
	if a.Vit.Fade <= 0 {
		a.Vit.Fade = 0
		return components.StatusGone
	}
	return components.StatusAlive
}
