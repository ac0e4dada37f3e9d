package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/shoal/vmath"
)

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// decay lowers a cooldown timer toward zero.
func decay(v *float64, dt float64) {
	if *v > 0 {
		*v -= dt
		if *v < 0 {
			*v = 0
		}
	}
}

// closerBy reports whether candidate distance beats current by the stickiness margin.
// stickiness 0.8 means the candidate must be at least 20% closer.
func closerBy(candidateDistSq, currentDistSq, stickiness float64) bool {
	return candidateDistSq < currentDistSq*stickiness*stickiness
}

// smoothFactor converts a per-second rate into a frame-rate independent lerp fraction.
func smoothFactor(rate, dt float64) float64 {
	if rate <= 0 {
		return 1
	}
	return 1 - math.Exp(-rate*dt)
}

// turnToward rotates angle cur toward target at the given rate.
func turnToward(cur, target, rate, dt float64) float64 {
	return vmath.LerpAngle(cur, target, smoothFactor(rate, dt))
}
