package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Population int `csv:"population"`
	PreyCount  int `csv:"prey"`
	PredCount  int `csv:"pred"`
	Juveniles  int `csv:"juveniles"`
	FoodInTank int `csv:"food"`

	// Events during window
	Births         int `csv:"births"`
	Deaths         int `csv:"deaths"`
	DeathsOldAge   int `csv:"deaths_old_age"`
	DeathsStarved  int `csv:"deaths_starved"`
	DeathsEaten    int `csv:"deaths_eaten"`
	DeathsIllness  int `csv:"deaths_illness"`
	Catches        int `csv:"catches"`
	AbandonedHunts int `csv:"abandoned_hunts"`
	Meals          int `csv:"meals"`
	GrewUp         int `csv:"grew_up"`
	Purchases      int `csv:"purchases"`

	// Score
	ScoreGained int `csv:"score_gained"`
	Score       int `csv:"score"`

	// Hunting efficiency
	CatchRate float64 `csv:"catch_rate"` // catches / (catches + abandoned)

	// Energy distribution (sampled at window end)
	PreyEnergyMean float64 `csv:"prey_energy_mean"`
	PreyEnergyP10  float64 `csv:"prey_energy_p10"`
	PreyEnergyP50  float64 `csv:"prey_energy_p50"`
	PreyEnergyP90  float64 `csv:"prey_energy_p90"`

	PredEnergyMean float64 `csv:"pred_energy_mean"`
	PredEnergyP10  float64 `csv:"pred_energy_p10"`
	PredEnergyP50  float64 `csv:"pred_energy_p50"`
	PredEnergyP90  float64 `csv:"pred_energy_p90"`

	// Body size distribution
	SizeMean float64 `csv:"size_mean"`
	SizeStd  float64 `csv:"size_std"`

	Drowsiness float64 `csv:"drowsiness"`
}

// Distribution summarizes a sample of values.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// Percentile returns the empirical p-quantile of a sorted slice: the smallest value
// with at least a fraction p of the samples at or below it. p is clamped to [0, 1].
// Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Summarize computes mean, standard deviation and percentiles of values.
// values is not modified.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
	if n > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (d Distribution) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("mean", d.Mean),
		slog.Float64("std", d.Std),
		slog.Float64("p10", d.P10),
		slog.Float64("p50", d.P50),
		slog.Float64("p90", d.P90),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Int("juveniles", s.Juveniles),
		slog.Int("food", s.FoodInTank),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("deaths_old_age", s.DeathsOldAge),
		slog.Int("deaths_starved", s.DeathsStarved),
		slog.Int("deaths_eaten", s.DeathsEaten),
		slog.Int("deaths_illness", s.DeathsIllness),
		slog.Int("catches", s.Catches),
		slog.Int("abandoned_hunts", s.AbandonedHunts),
		slog.Int("meals", s.Meals),
		slog.Int("grew_up", s.GrewUp),
		slog.Int("purchases", s.Purchases),
		slog.Int("score_gained", s.ScoreGained),
		slog.Int("score", s.Score),
		slog.Float64("catch_rate", s.CatchRate),
		slog.Float64("prey_energy_mean", s.PreyEnergyMean),
		slog.Float64("prey_energy_p10", s.PreyEnergyP10),
		slog.Float64("prey_energy_p50", s.PreyEnergyP50),
		slog.Float64("prey_energy_p90", s.PreyEnergyP90),
		slog.Float64("pred_energy_mean", s.PredEnergyMean),
		slog.Float64("pred_energy_p10", s.PredEnergyP10),
		slog.Float64("pred_energy_p50", s.PredEnergyP50),
		slog.Float64("pred_energy_p90", s.PredEnergyP90),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_std", s.SizeStd),
		slog.Float64("drowsiness", s.Drowsiness),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"prey", s.PreyCount,
		"pred", s.PredCount,
		"juveniles", s.Juveniles,
		"food", s.FoodInTank,
		"births", s.Births,
		"deaths", s.Deaths,
		"eaten", s.DeathsEaten,
		"starved", s.DeathsStarved,
		"catches", s.Catches,
		"abandoned", s.AbandonedHunts,
		"meals", s.Meals,
		"score", s.Score,
		"catch_rate", s.CatchRate,
		"prey_energy_mean", s.PreyEnergyMean,
		"pred_energy_mean", s.PredEnergyMean,
		"size_mean", s.SizeMean,
	)
}
