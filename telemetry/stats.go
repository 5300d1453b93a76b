package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/evogrid/population"
)

// GenerationRecord summarizes one finished generation. The CSV columns are
// the persisted record; the remaining fields are logged only.
type GenerationRecord struct {
	Generation  int     `csv:"Generation"` // 1-based
	AvgFitness  float64 `csv:"AvgFitness"`
	BestFitness float64 `csv:"BestFitness"`
	AvgSpeed    float64 `csv:"AvgSpeed"`
	AvgDirBias  float64 `csv:"AvgDirBias"`
	AvgFoodSeek float64 `csv:"AvgFoodSeek"`

	FitnessStd  float64 `csv:"-"`
	Cooperative int     `csv:"-"`
	Agents      int     `csv:"-"`

	// Energy distribution at generation end
	EnergyMean float64 `csv:"-"`
	EnergyP10  float64 `csv:"-"`
	EnergyP50  float64 `csv:"-"`
	EnergyP90  float64 `csv:"-"`

	// Events during the generation
	FoodEaten     int `csv:"-"`
	HazardsEaten  int `csv:"-"`
	BlockedMoves  int `csv:"-"`
	FoodRemaining int `csv:"-"`
}

// ComputeGenerationRecord aggregates the final trait values of a generation.
// generation is the 0-based loop index; the record stores it 1-based.
func ComputeGenerationRecord(generation int, t population.Traits) GenerationRecord {
	rec := GenerationRecord{
		Generation:  generation + 1,
		Agents:      len(t.Fitness),
		Cooperative: t.Cooperative,
	}
	if len(t.Fitness) == 0 {
		return rec
	}

	rec.AvgFitness, rec.FitnessStd = stat.PopMeanStdDev(t.Fitness, nil)
	rec.BestFitness = floats.Max(t.Fitness)
	rec.AvgSpeed = stat.Mean(t.Speed, nil)
	rec.AvgDirBias = stat.Mean(t.DirBias, nil)
	rec.AvgFoodSeek = stat.Mean(t.FoodSeek, nil)
	rec.EnergyMean, rec.EnergyP10, rec.EnergyP50, rec.EnergyP90 = ComputeEnergyStats(t.Energy)
	return rec
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

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (r GenerationRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", r.Generation),
		slog.Float64("avg_fitness", r.AvgFitness),
		slog.Float64("best_fitness", r.BestFitness),
		slog.Float64("fitness_std", r.FitnessStd),
		slog.Float64("avg_speed", r.AvgSpeed),
		slog.Float64("avg_dir_bias", r.AvgDirBias),
		slog.Float64("avg_food_seek", r.AvgFoodSeek),
		slog.Int("agents", r.Agents),
		slog.Int("cooperative", r.Cooperative),
		slog.Float64("energy_mean", r.EnergyMean),
		slog.Float64("energy_p10", r.EnergyP10),
		slog.Float64("energy_p50", r.EnergyP50),
		slog.Float64("energy_p90", r.EnergyP90),
		slog.Int("food_eaten", r.FoodEaten),
		slog.Int("hazards_eaten", r.HazardsEaten),
		slog.Int("blocked_moves", r.BlockedMoves),
		slog.Int("food_remaining", r.FoodRemaining),
	)
}
