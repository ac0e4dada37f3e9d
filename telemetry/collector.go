package telemetry

import "github.com/pthm-cable/shoal/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	births      int
	deaths      [components.CauseIllness + 1]int
	catches     int
	abandoned   int
	meals       int
	grewUp      int
	purchases   int
	scoreGained int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records one hatched juvenile.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordPurchase records an agent added from outside the tank.
func (c *Collector) RecordPurchase() {
	c.purchases++
}

// RecordDeath records a death by cause.
func (c *Collector) RecordDeath(cause components.DeathCause) {
	if int(cause) < len(c.deaths) {
		c.deaths[cause]++
	}
}

// RecordCatch records a predator catching prey.
func (c *Collector) RecordCatch() {
	c.catches++
}

// RecordAbandonedHunt records a predator giving up a chase.
func (c *Collector) RecordAbandonedHunt() {
	c.abandoned++
}

// RecordMeal records a pellet eaten.
func (c *Collector) RecordMeal() {
	c.meals++
}

// RecordGrewUp records a juvenile reaching adult size.
func (c *Collector) RecordGrewUp() {
	c.grewUp++
}

// RecordScore records score awarded during the window.
func (c *Collector) RecordScore(amount int) {
	c.scoreGained += amount
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the tank state observed at the end of a window.
type Sample struct {
	PreyEnergies []float64
	PredEnergies []float64
	Sizes        []float64
	Juveniles    int
	Food         int
	Score        int
	Drowsiness   float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	var catchRate float64
	if attempts := c.catches + c.abandoned; attempts > 0 {
		catchRate = float64(c.catches) / float64(attempts)
	}

	prey := Summarize(s.PreyEnergies)
	pred := Summarize(s.PredEnergies)
	size := Summarize(s.Sizes)

	deaths := 0
	for _, n := range c.deaths {
		deaths += n
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Population: len(s.PreyEnergies) + len(s.PredEnergies),
		PreyCount:  len(s.PreyEnergies),
		PredCount:  len(s.PredEnergies),
		Juveniles:  s.Juveniles,
		FoodInTank: s.Food,

		Births:         c.births,
		Deaths:         deaths,
		DeathsOldAge:   c.deaths[components.CauseOldAge],
		DeathsStarved:  c.deaths[components.CauseStarved],
		DeathsEaten:    c.deaths[components.CauseEaten],
		DeathsIllness:  c.deaths[components.CauseIllness],
		Catches:        c.catches,
		AbandonedHunts: c.abandoned,
		Meals:          c.meals,
		GrewUp:         c.grewUp,
		Purchases:      c.purchases,

		ScoreGained: c.scoreGained,
		Score:       s.Score,
		CatchRate:   catchRate,

		PreyEnergyMean: prey.Mean,
		PreyEnergyP10:  prey.P10,
		PreyEnergyP50:  prey.P50,
		PreyEnergyP90:  prey.P90,

		PredEnergyMean: pred.Mean,
		PredEnergyP10:  pred.P10,
		PredEnergyP50:  pred.P50,
		PredEnergyP90:  pred.P90,

		SizeMean: size.Mean,
		SizeStd:  size.Std,

		Drowsiness: s.Drowsiness,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	clear(c.deaths[:])
	c.catches = 0
	c.abandoned = 0
	c.meals = 0
	c.grewUp = 0
	c.purchases = 0
	c.scoreGained = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
