package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of steps.
type WindowStats struct {
	WindowStartStep int `csv:"-"`
	WindowEndStep   int `csv:"window_end"`

	// Population counts at window end
	PreyCount int `csv:"prey"`
	PredCount int `csv:"pred"`

	// Population series over the window (one sample per step)
	PreyMean float64 `csv:"prey_mean"`
	PreyStd  float64 `csv:"prey_std"`
	PredMean float64 `csv:"pred_mean"`
	PredStd  float64 `csv:"pred_std"`

	// Events during window
	PreyBirths       int `csv:"prey_births"`
	PredBirths       int `csv:"pred_births"`
	PreyDeaths       int `csv:"prey_deaths"`
	PredDeaths       int `csv:"pred_deaths"`
	DeathsOldAge     int `csv:"deaths_old_age"`
	DeathsStarvation int `csv:"deaths_starvation"`
	Kills            int `csv:"kills"`

	// Kills per predator alive at window end
	KillRate float64 `csv:"kill_rate"`

	// Age distribution (sampled at window end)
	PreyAgeMean float64 `csv:"prey_age_mean"`
	PreyAgeP10  float64 `csv:"prey_age_p10"`
	PreyAgeP50  float64 `csv:"prey_age_p50"`
	PreyAgeP90  float64 `csv:"prey_age_p90"`

	PredAgeMean float64 `csv:"pred_age_mean"`
	PredAgeP10  float64 `csv:"pred_age_p10"`
	PredAgeP50  float64 `csv:"pred_age_p50"`
	PredAgeP90  float64 `csv:"pred_age_p90"`

	// Predator food level distribution
	PredFoodMean float64 `csv:"pred_food_mean"`
	PredFoodP10  float64 `csv:"pred_food_p10"`

	// Share of cells holding an organism
	Occupancy float64 `csv:"occupancy"`
}

// Summary holds mean, standard deviation and percentiles of a sample.
type Summary struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes a Summary of values. An empty sample yields zeros and
// a single value has zero deviation.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var s Summary
	if n == 1 {
		s.Mean = sorted[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	}
	s.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	s.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return s
}

// CoefficientOfVariation returns std/mean of values, or 0 when the mean is 0
// or fewer than two values are given.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartStep),
		slog.Int("window_end", s.WindowEndStep),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Float64("prey_mean", s.PreyMean),
		slog.Float64("prey_std", s.PreyStd),
		slog.Float64("pred_mean", s.PredMean),
		slog.Float64("pred_std", s.PredStd),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("pred_births", s.PredBirths),
		slog.Int("prey_deaths", s.PreyDeaths),
		slog.Int("pred_deaths", s.PredDeaths),
		slog.Int("deaths_old_age", s.DeathsOldAge),
		slog.Int("deaths_starvation", s.DeathsStarvation),
		slog.Int("kills", s.Kills),
		slog.Float64("kill_rate", s.KillRate),
		slog.Float64("prey_age_mean", s.PreyAgeMean),
		slog.Float64("pred_age_mean", s.PredAgeMean),
		slog.Float64("pred_food_mean", s.PredFoodMean),
		slog.Float64("occupancy", s.Occupancy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
