package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/telemetry"
)

// FitnessEvaluator runs headless tanks and scores how well both food-chain levels hold on.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	bestFitness float64
	bestWindows []telemetry.WindowStats
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 30.0,
		bestFitness: math.Inf(1),
	}
}

// BestWindows returns the window stats of the best seed from the best evaluation.
func (fe *FitnessEvaluator) BestWindows() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestWindows
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// If either level stays below minViablePop for extinctionGraceSec it counts as gone.
const (
	minViablePop       = 2
	extinctionGraceSec = 120.0
	warmupSec          = 30.0
)

// invalidFitness is returned for parameter sets the config rejects.
const invalidFitness = 1e9

type runResult struct {
	survivalTicks int32
	windows       []telemetry.WindowStats
}

type seedResult struct {
	fitness float64
	quality float64
	windows []telemetry.WindowStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.configFor(x)
	if err := cfg.Validate(); err != nil {
		return invalidFitness
	}

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(fe.configFor(x), s)
			q := computeQuality(r.windows, cfg.Lifecycle.MaxEnergy)
			results[idx] = seedResult{
				fitness: computeFitness(r.survivalTicks, q),
				quality: q,
				windows: r.windows,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeed := 0
	for i, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < results[bestSeed].fitness {
			bestSeed = i
		}
	}
	n := float64(len(results))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestWindows = results[bestSeed].windows
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// configFor returns a private copy of the base config with x applied.
func (fe *FitnessEvaluator) configFor(x []float64) *config.Config {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Food.AutoFeed = true
	cfg.Telemetry.StatsWindow = fe.statsWindow
	return cfg
}

// runSimulation executes one headless tank until functional extinction or maxTicks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	g, err := game.NewGame(cfg, game.Options{
		Seed: seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windows = append(result.windows, stats)
		},
	})
	if err != nil {
		return result
	}
	defer g.Close()

	dt := cfg.Physics.DT
	warmupTicks := int32(warmupSec / dt)
	graceTicks := int32(extinctionGraceSec / dt)
	var preyBelow, predBelow int32

	for g.Tick() < fe.maxTicks {
		g.Step()

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}

		prey, pred := g.Population()
		if prey == 0 || pred == 0 {
			result.survivalTicks = tick
			return result
		}

		preyBelow = belowFor(preyBelow, prey)
		predBelow = belowFor(predBelow, pred)
		if preyBelow >= graceTicks || predBelow >= graceTicks {
			result.survivalTicks = tick
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

func belowFor(ticks int32, count int) int32 {
	if count < minViablePop {
		return ticks + 1
	}
	return 0
}

// computeFitness is -(survivalTicks * (1 + 0.2*quality)). Survival dominates;
// quality separates configs that survive equally long.
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.30
	qualityWeightStability = 0.25
	qualityWeightEnergy    = 0.25
	qualityWeightHunting   = 0.20

	qualityWarmupWindows = 2
	qualityTargetRatio   = 6.0 // prey per predator
)

// computeQuality scores the tank in [0, 1] from its window stats.
func computeQuality(windows []telemetry.WindowStats, maxEnergy float64) float64 {
	if len(windows) <= qualityWarmupWindows || maxEnergy <= 0 {
		return 0
	}

	var ratioSum, energySum, huntSum float64
	var valid, huntCount int
	preyCounts := make([]float64, 0, len(windows))
	predCounts := make([]float64, 0, len(windows))

	for _, w := range windows[qualityWarmupWindows:] {
		if w.PreyCount < minViablePop || w.PredCount < minViablePop {
			continue
		}
		valid++
		preyCounts = append(preyCounts, float64(w.PreyCount))
		predCounts = append(predCounts, float64(w.PredCount))

		logErr := math.Log(float64(w.PreyCount) / float64(w.PredCount) / qualityTargetRatio)
		ratioSum += math.Exp(-logErr * logErr)

		preyH := gaussian(w.PreyEnergyP50/maxEnergy, 0.55, 0.2)
		predH := gaussian(w.PredEnergyP50/maxEnergy, 0.55, 0.2)
		energySum += (preyH + predH) / 2

		if attempts := w.Catches + w.AbandonedHunts; attempts > 0 {
			rate := gaussian(w.CatchRate, 0.3, 0.15)
			perPred := float64(w.Catches) / float64(w.PredCount)
			huntSum += 0.6*rate + 0.4*(1-math.Exp(-perPred))
			huntCount++
		}
	}
	if valid == 0 {
		return 0
	}

	stability := 0.0
	if len(preyCounts) >= 2 {
		cvPrey := cv(preyCounts)
		cvPred := cv(predCounts)
		stability = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}

	hunting := 0.0
	if huntCount > 0 {
		hunting = huntSum / float64(huntCount)
	}

	quality := qualityWeightRatio*ratioSum/float64(valid) +
		qualityWeightStability*stability +
		qualityWeightEnergy*energySum/float64(valid) +
		qualityWeightHunting*hunting
	return min(max(quality, 0), 1)
}

func gaussian(x, mu, sigma float64) float64 {
	d := (x - mu) / sigma
	return math.Exp(-d * d)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	if mean == 0 {
		return 0
	}
	return math.Sqrt(variance) / mean
}
