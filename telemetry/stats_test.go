package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/evogrid/population"
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

func TestComputeEnergyStats(t *testing.T) {
	values := []float64{10, 9.5, 9, 8.5, 8, 7.5, 7, 6.5, 6, 5.5}
	mean, p10, p50, p90 := ComputeEnergyStats(values)

	if math.Abs(mean-7.75) > 0.001 {
		t.Errorf("mean = %v, want 7.75", mean)
	}
	if math.Abs(p10-5.95) > 0.01 {
		t.Errorf("p10 = %v, want ~5.95", p10)
	}
	if math.Abs(p50-7.75) > 0.01 {
		t.Errorf("p50 = %v, want ~7.75", p50)
	}
	if math.Abs(p90-9.55) > 0.01 {
		t.Errorf("p90 = %v, want ~9.55", p90)
	}
}

func TestComputeEnergyStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeEnergyStats([]float64{})

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestComputeGenerationRecord(t *testing.T) {
	traits := population.Traits{
		Fitness:     []float64{2, 8, 5},
		Energy:      []float64{10, 10, 10},
		Speed:       []float64{1, 1.5, 2},
		DirBias:     []float64{-0.5, 0, 0.5},
		FoodSeek:    []float64{0.2, 0.4, 0.6},
		Cooperative: 2,
	}

	rec := ComputeGenerationRecord(0, traits)

	if rec.Generation != 1 {
		t.Errorf("generation should be 1-based, got %d", rec.Generation)
	}
	if math.Abs(rec.AvgFitness-5) > 1e-9 {
		t.Errorf("avg fitness = %v, want 5", rec.AvgFitness)
	}
	if rec.BestFitness != 8 {
		t.Errorf("best fitness = %v, want 8", rec.BestFitness)
	}
	if math.Abs(rec.AvgSpeed-1.5) > 1e-9 {
		t.Errorf("avg speed = %v, want 1.5", rec.AvgSpeed)
	}
	if math.Abs(rec.AvgDirBias) > 1e-9 {
		t.Errorf("avg dir bias = %v, want 0", rec.AvgDirBias)
	}
	if math.Abs(rec.AvgFoodSeek-0.4) > 1e-9 {
		t.Errorf("avg food seek = %v, want 0.4", rec.AvgFoodSeek)
	}
	if math.Abs(rec.FitnessStd-math.Sqrt(6)) > 1e-9 {
		t.Errorf("fitness std = %v, want sqrt(6)", rec.FitnessStd)
	}
	if rec.Agents != 3 || rec.Cooperative != 2 {
		t.Errorf("agents/cooperative = %d/%d, want 3/2", rec.Agents, rec.Cooperative)
	}
}

func TestComputeGenerationRecordEmpty(t *testing.T) {
	rec := ComputeGenerationRecord(4, population.Traits{})
	if rec.Generation != 5 || rec.AvgFitness != 0 || rec.BestFitness != 0 {
		t.Errorf("unexpected record for empty population: %+v", rec)
	}
}
