// Package main searches for tank settings that keep prey and predators coexisting.
package main

import (
	"math"

	"github.com/pthm-cable/shoal/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // column name in tune_log.csv
	Path    string  // YAML path in config.yaml
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Integer bool    // rounded before it is applied

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters. The digest and
// cooldown windows are tuned as a start plus a span so min <= max always holds.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Metabolism
			{Name: "prey_energy_decay", Path: "lifecycle.prey_energy_decay", Min: 0.03, Max: 0.20,
				get: func(c *config.Config) float64 { return c.Lifecycle.PreyEnergyDecay },
				set: func(c *config.Config, v float64) { c.Lifecycle.PreyEnergyDecay = v }},
			{Name: "predator_energy_decay", Path: "lifecycle.predator_energy_decay", Min: 0.01, Max: 0.10,
				get: func(c *config.Config) float64 { return c.Lifecycle.PredatorEnergyDecay },
				set: func(c *config.Config, v float64) { c.Lifecycle.PredatorEnergyDecay = v }},
			{Name: "feed_energy", Path: "lifecycle.feed_energy", Min: 8, Max: 40,
				get: func(c *config.Config) float64 { return c.Lifecycle.FeedEnergy },
				set: func(c *config.Config, v float64) { c.Lifecycle.FeedEnergy = v }},

			// Predation
			{Name: "catch_energy", Path: "predation.catch_energy", Min: 20, Max: 100,
				get: func(c *config.Config) float64 { return c.Predation.CatchEnergy },
				set: func(c *config.Config, v float64) { c.Predation.CatchEnergy = v }},
			{Name: "digest_min", Path: "predation.digest_min", Min: 30, Max: 240,
				get: func(c *config.Config) float64 { return c.Predation.DigestMin },
				set: func(c *config.Config, v float64) { c.Predation.DigestMin = v }},
			{Name: "digest_span", Path: "predation.digest_max", Min: 0, Max: 300,
				get: func(c *config.Config) float64 { return c.Predation.DigestMax - c.Predation.DigestMin },
				set: func(c *config.Config, v float64) { c.Predation.DigestMax = c.Predation.DigestMin + v }},
			{Name: "max_chase", Path: "predation.max_chase", Min: 5, Max: 40,
				get: func(c *config.Config) float64 { return c.Predation.MaxChase },
				set: func(c *config.Config, v float64) { c.Predation.MaxChase = v }},
			{Name: "newborn_grace", Path: "predation.newborn_grace", Min: 10, Max: 180,
				get: func(c *config.Config) float64 { return c.Predation.NewbornGrace },
				set: func(c *config.Config, v float64) { c.Predation.NewbornGrace = v }},
			{Name: "hunt_force", Path: "steering.hunt_force", Min: 40, Max: 200,
				get: func(c *config.Config) float64 { return c.Steering.HuntForce },
				set: func(c *config.Config, v float64) { c.Steering.HuntForce = v }},
			{Name: "flee_force", Path: "steering.flee_force", Min: 60, Max: 260,
				get: func(c *config.Config) float64 { return c.Steering.FleeForce },
				set: func(c *config.Config, v float64) { c.Steering.FleeForce = v }},

			// Reproduction
			{Name: "maturity_age", Path: "reproduction.maturity_age", Min: 30, Max: 300,
				get: func(c *config.Config) float64 { return c.Reproduction.MaturityAge },
				set: func(c *config.Config, v float64) { c.Reproduction.MaturityAge = v }},
			{Name: "repro_threshold", Path: "reproduction.energy_threshold", Min: 40, Max: 95,
				get: func(c *config.Config) float64 { return c.Reproduction.EnergyThreshold },
				set: func(c *config.Config, v float64) { c.Reproduction.EnergyThreshold = v }},
			{Name: "repro_cost", Path: "reproduction.energy_cost", Min: 5, Max: 50,
				get: func(c *config.Config) float64 { return c.Reproduction.EnergyCost },
				set: func(c *config.Config, v float64) { c.Reproduction.EnergyCost = v }},
			{Name: "cooldown_min", Path: "reproduction.cooldown_min", Min: 60, Max: 600,
				get: func(c *config.Config) float64 { return c.Reproduction.CooldownMin },
				set: func(c *config.Config, v float64) { c.Reproduction.CooldownMin = v }},
			{Name: "cooldown_span", Path: "reproduction.cooldown_max", Min: 0, Max: 600,
				get: func(c *config.Config) float64 { return c.Reproduction.CooldownMax - c.Reproduction.CooldownMin },
				set: func(c *config.Config, v float64) { c.Reproduction.CooldownMax = c.Reproduction.CooldownMin + v }},
			{Name: "offspring_energy", Path: "reproduction.offspring_energy", Min: 20, Max: 80,
				get: func(c *config.Config) float64 { return c.Reproduction.OffspringEnergy },
				set: func(c *config.Config, v float64) { c.Reproduction.OffspringEnergy = v }},

			// Population and feeding
			{Name: "predator_chance", Path: "population.predator_chance", Min: 0.02, Max: 0.30,
				get: func(c *config.Config) float64 { return c.Population.PredatorChance },
				set: func(c *config.Config, v float64) { c.Population.PredatorChance = v }},
			{Name: "auto_feed_interval", Path: "food.auto_feed_interval", Min: 10, Max: 120,
				get: func(c *config.Config) float64 { return c.Food.AutoFeedInterval },
				set: func(c *config.Config, v float64) { c.Food.AutoFeedInterval = v }},
			{Name: "auto_feed_count", Path: "food.auto_feed_count", Min: 1, Max: 12, Integer: true,
				get: func(c *config.Config) float64 { return float64(c.Food.AutoFeedCount) },
				set: func(c *config.Config, v float64) { c.Food.AutoFeedCount = int(v) }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds, rounding integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := min(max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes the clamped values into cfg, in Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}
