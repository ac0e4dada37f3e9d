package systems

import (
	"math"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// UpdateFood sinks every pellet under light gravity with drag. Pellets that fall past
// the bottom of the tank are marked removed.
func UpdateFood(foods []*components.Food, cfg *config.FoodConfig, env *Env) {
	damp := math.Exp(-cfg.Drag * env.Dt)
	for _, f := range foods {
		if !f.Available() {
			continue
		}
		f.VelY = (f.VelY + cfg.Gravity*env.Dt) * damp
		f.Pos.Y += f.VelY * env.Dt
		if f.Pos.Y > env.Height {
			f.Removed = true
		}
	}
}

// PruneFood drops eaten and removed pellets, keeping the order of the rest.
func PruneFood(foods []*components.Food) []*components.Food {
	n := 0
	for _, f := range foods {
		if f.Eaten {
			f.Removed = true
		}
		if f.Removed {
			continue
		}
		foods[n] = f
		n++
	}
	clear(foods[n:])
	return foods[:n]
}

// ResetChasers zeroes every pellet's chaser count. Call CountChaser for each agent's
// food target afterwards.
func ResetChasers(foods []*components.Food) {
	for _, f := range foods {
		f.Chasers = 0
	}
}

// CountChaser records that a is heading for its food target, dropping a stale target.
func CountChaser(a *Agent) {
	f := a.Tgt.Food
	if f == nil {
		return
	}
	if !f.Available() || a.Vit.Dead {
		a.Tgt.Food = nil
		return
	}
	f.Chasers++
}

// ClaimFood recounts the pellet chasers from the targets chosen this tick. Agents claim
// in slice order; a claim on a full pellet is dropped, so no pellet ever has more than
// limit chasers whatever the steering order was.
func ClaimFood(foods []*components.Food, agents []Agent, limit int) {
	ResetChasers(foods)
	for i := range agents {
		a := &agents[i]
		f := a.Tgt.Food
		if f == nil {
			continue
		}
		if !f.Available() || a.Vit.Dead || f.Chasers >= limit {
			a.Tgt.Food = nil
			continue
		}
		f.Chasers++
	}
}

// CanEat reports whether the pellet is within eating reach of the agent's mouth.
func (l *Lifecycle) CanEat(a *Agent, f *components.Food) bool {
	if !f.Available() {
		return false
	}
	reach := a.Size()*0.5 + l.cfg.EatDistance
	return a.Kin.Pos.DistSq(f.Pos) < reach*reach
}
