package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeFitnessStats(t *testing.T) {
	fs := ComputeFitnessStats([]float64{10, 7, 3, 0})

	if fs.Best != 10 {
		t.Errorf("Best = %v, want 10", fs.Best)
	}
	if math.Abs(fs.Mean-5) > 1e-9 {
		t.Errorf("Mean = %v, want 5", fs.Mean)
	}
	// Population std of {10, 7, 3, 0}: sqrt((25+4+4+25)/4)
	if want := math.Sqrt(14.5); math.Abs(fs.Std-want) > 1e-9 {
		t.Errorf("Std = %v, want %v", fs.Std, want)
	}
	if math.Abs(fs.P50-5) > 1e-9 {
		t.Errorf("P50 = %v, want 5", fs.P50)
	}
}

func TestComputeFitnessStatsEdgeCases(t *testing.T) {
	if fs := ComputeFitnessStats(nil); fs != (FitnessStats{}) {
		t.Errorf("empty input should give zero stats, got %+v", fs)
	}

	fs := ComputeFitnessStats([]float64{20})
	if fs.Best != 20 || fs.Mean != 20 || fs.Std != 0 {
		t.Errorf("single value stats = %+v", fs)
	}
}

func TestFitnessStatsApply(t *testing.T) {
	var gs GenerationStats
	FitnessStats{Best: 4, Mean: 2, Std: 1, P50: 2, P90: 3.5}.Apply(&gs)
	if gs.BestFitness != 4 || gs.P90Fitness != 3.5 {
		t.Errorf("Apply did not copy fields: %+v", gs)
	}
}
