package components

import "github.com/pthm-cable/shoal/species"

// Identity ties an agent to its species and holds its persistent identity fields.
type Identity struct {
	Species       *species.Descriptor
	Name          string
	NameFinalized bool   // set once a name is restored, purchased or enriched; never overwritten after
	NameToken     uint32 // bumped whenever identity fields are overwritten
	BirthTime     float64
	Lifespan      float64 // seconds, drawn once at birth
}

// Age returns the agent's age at sim time now.
func (id *Identity) Age(now float64) float64 {
	return now - id.BirthTime
}

// Biology tracks energy, growth and the behavior cooldowns.
type Biology struct {
	Energy    float64
	MaxEnergy float64
	Growth    float64 // size as a fraction of adult size, never decreases
	GrownUp   bool

	FeedCooldown  float64
	HuntCooldown  float64 // predators only: digestion
	ReproCooldown float64
	MateCheck     float64 // seconds until the next mate scan
	ChaseTime     float64 // seconds spent on the current hunt
	DuelTime      float64 // seconds spent circling the current rival
	DuelCooldown  float64 // seconds rivals are ignored after a duel

	Offspring int
	Meals     int
	Catches   int
}

// Size returns the current body size for the given species.
func (b *Biology) Size(sp *species.Descriptor) float64 {
	return sp.AdultSize * b.Growth
}

// Vitals tracks death and the post-death drift-and-fade.
type Vitals struct {
	Dead   bool
	Eaten  bool
	Cause  DeathCause
	DiedAt float64
	Fade   float64 // 1 while alive, falls to 0 during the death animation
}

// Kill marks the agent dead with the given cause. It returns false if the agent was already dead;
// the first cause sticks.
func (v *Vitals) Kill(cause DeathCause, now float64) bool {
	if v.Dead {
		return false
	}
	v.Dead = true
	v.Cause = cause
	v.DiedAt = now
	if cause == CauseEaten {
		v.Eaten = true
	}
	return true
}
