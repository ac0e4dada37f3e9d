package game

import (
	"math"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/vmath"
)

// drowsinessAt returns the night factor at simulation time t. Each cycle opens with day
// and ends with night, which takes the last NightFraction of it. Dusk ramps up over the
// Fade seconds before night starts and dawn ramps down over the last Fade seconds of the
// cycle, so a new cycle always starts in daylight.
func drowsinessAt(t float64, dc config.DayConfig) float64 {
	if dc.Length <= 0 || dc.NightFraction <= 0 {
		return 0
	}
	length := dc.Length
	phase := math.Mod(t, length)
	if phase < 0 {
		phase += length
	}

	nightStart := length * (1 - vmath.Clamp01(dc.NightFraction))
	fade := math.Min(dc.Fade, math.Min(nightStart, length-nightStart))

	if fade <= 0 {
		if phase >= nightStart {
			return 1
		}
		return 0
	}

	dusk := vmath.Smoothstep(nightStart-fade, nightStart, phase)
	dawn := 1 - vmath.Smoothstep(length-fade, length, phase)
	return dusk * dawn
}

// updateDayNight refreshes the night factor unless the player pinned it.
func (g *Game) updateDayNight() {
	if !g.drowsyOverride {
		g.drowsiness = drowsinessAt(g.time, g.cfg.Day)
	}
	g.env.Drowsiness = g.drowsiness
}

// IsNight reports whether the tank is more asleep than awake.
func (g *Game) IsNight() bool { return g.drowsiness >= 0.5 }
