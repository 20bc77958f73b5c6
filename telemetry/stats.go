package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes one finished generation.
type GenerationStats struct {
	RunID       string  `csv:"run_id"`
	Generation  int     `csv:"generation"`
	DurationSec float64 `csv:"duration_sec"`
	Ticks       int     `csv:"ticks"`
	Population  int     `csv:"population"`

	// Fitness distribution
	BestFitness float64 `csv:"best_fitness"`
	MeanFitness float64 `csv:"mean_fitness"`
	StdFitness  float64 `csv:"std_fitness"`
	P50Fitness  float64 `csv:"p50_fitness"`
	P90Fitness  float64 `csv:"p90_fitness"`

	TargetsConsumed int `csv:"targets_consumed"`
	BestParams      int `csv:"best_params"`
}

// FitnessStats holds the distribution of a generation's fitness values.
type FitnessStats struct {
	Best, Mean, Std float64
	P50, P90        float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFitnessStats calculates best, mean, standard deviation, and percentiles.
// The standard deviation is the population form so a single value reports 0.
func ComputeFitnessStats(values []float64) FitnessStats {
	if len(values) == 0 {
		return FitnessStats{}
	}

	mean := stat.Mean(values, nil)
	variance := stat.PopVariance(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return FitnessStats{
		Best: floats.Max(values),
		Mean: mean,
		Std:  math.Sqrt(variance),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// Apply copies the distribution into the generation record.
func (f FitnessStats) Apply(s *GenerationStats) {
	s.BestFitness = f.Best
	s.MeanFitness = f.Mean
	s.StdFitness = f.Std
	s.P50Fitness = f.P50
	s.P90Fitness = f.P90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Float64("duration_sec", s.DurationSec),
		slog.Int("ticks", s.Ticks),
		slog.Int("population", s.Population),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.Float64("std_fitness", s.StdFitness),
		slog.Float64("p50_fitness", s.P50Fitness),
		slog.Float64("p90_fitness", s.P90Fitness),
		slog.Int("targets_consumed", s.TargetsConsumed),
	)
}

// LogStats logs the generation summary using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"generation", s.Generation,
		"duration_sec", s.DurationSec,
		"ticks", s.Ticks,
		"population", s.Population,
		"best_fitness", s.BestFitness,
		"mean_fitness", s.MeanFitness,
		"std_fitness", s.StdFitness,
		"p50_fitness", s.P50Fitness,
		"p90_fitness", s.P90Fitness,
		"targets_consumed", s.TargetsConsumed,
		"best_params", s.BestParams,
	)
}
