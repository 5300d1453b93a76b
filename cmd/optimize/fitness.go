package main

import (
	"context"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/evogrid/config"
	"github.com/pthm-cable/evogrid/game"
	"github.com/pthm-cable/evogrid/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	bestRecords []telemetry.GenerationRecord
	lastBest    float64 // mean best fitness from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestRecords returns the generation records of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestRecords() []telemetry.GenerationRecord {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestRecords
}

// LastBest returns the mean final best fitness from the most recent evaluation.
func (fe *FitnessEvaluator) LastBest() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastBest
}

// tailFraction is the share of late generations averaged into the score.
const tailFraction = 0.25

// failedRunPenalty scores a run that produced no generation. It is worse
// than any reachable score but finite, so CMA-ES can still rank samples.
const failedRunPenalty = 1e9

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	best    float64
	records []telemetry.GenerationRecord
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated late-generation average fitness plus a bonus for
// the final best agent, averaged over seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			records := fe.runSimulation(x, s)
			results[idx] = seedResult{
				fitness: computeFitness(records),
				best:    finalBest(records),
				records: records,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalBest float64
	bestSeed := math.Inf(1)
	var bestSeedRecords []telemetry.GenerationRecord
	for _, r := range results {
		totalFitness += r.fitness
		totalBest += r.best
		if r.fitness < bestSeed {
			bestSeed = r.fitness
			bestSeedRecords = r.records
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestRecords = bestSeedRecords
	}
	fe.lastBest = totalBest / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run and returns its records.
// A failed run returns nil and scores failedRunPenalty.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.GenerationRecord {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	sim, err := game.New(cfg, game.Options{Seed: seed})
	if err != nil {
		return nil
	}
	summary, err := sim.Run(context.Background())
	if err != nil {
		return nil
	}
	return summary.Records
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Food.Types = append([]config.FoodTypeConfig(nil), fe.baseConfig.Food.Types...)
	return &cfg
}

// computeFitness scores a run (lower = better).
// Formula: -(mean AvgFitness over the last quarter + 0.25 × final BestFitness)
func computeFitness(records []telemetry.GenerationRecord) float64 {
	if len(records) == 0 {
		return failedRunPenalty
	}
	tail := int(math.Ceil(float64(len(records)) * tailFraction))
	avgs := make([]float64, 0, tail)
	for _, r := range records[len(records)-tail:] {
		avgs = append(avgs, r.AvgFitness)
	}
	return -(stat.Mean(avgs, nil) + 0.25*finalBest(records))
}

func finalBest(records []telemetry.GenerationRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	return records[len(records)-1].BestFitness
}
