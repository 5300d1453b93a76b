// Package evolution breeds the next generation from fitness-ranked parents.
package evolution

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/pthm-cable/evogrid/components"
	"github.com/pthm-cable/evogrid/config"
	"github.com/pthm-cable/evogrid/population"
)

// ErrInsufficientPopulation is returned when fewer than two agents are bred.
var ErrInsufficientPopulation = errors.New("insufficient population: need at least 2 agents")

// Params holds the evolution settings.
type Params struct {
	MutationRate    float64
	EpigeneticNoise float64
	EliteDivisor    int
	Birth           population.BirthParams
}

// ParamsFromConfig extracts evolution settings from the config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		MutationRate:    cfg.Mutation.Rate,
		EpigeneticNoise: cfg.Mutation.EpigeneticNoise,
		EliteDivisor:    cfg.Mutation.EliteDivisor,
		Birth:           population.BirthParamsFromConfig(cfg),
	}
}

// EliteCount returns ceil(n/divisor), at least 1.
func EliteCount(n, divisor int) int {
	if divisor < 1 {
		divisor = 1
	}
	k := (n + divisor - 1) / divisor
	if k < 1 {
		k = 1
	}
	return k
}

// RankByFitness returns agent indices ordered by fitness, best first.
// Equal fitness keeps update order.
func RankByFitness(pop *population.Population) []int {
	ranked := make([]int, pop.Len())
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return pop.FitnessAt(ranked[a]) > pop.FitnessAt(ranked[b])
	})
	return ranked
}

// Reproduce builds a population of the same size from the elites of pop.
// Every child is new: parents are archived in the arena and referenced from
// the child's lineage, never carried over.
func Reproduce(rng *rand.Rand, pop *population.Population, arena *population.Arena, p Params) (*population.Population, error) {
	n := pop.Len()
	if n < 2 {
		return nil, fmt.Errorf("reproducing generation %d with %d agents: %w", pop.Generation(), n, ErrInsufficientPopulation)
	}

	ranked := RankByFitness(pop)
	elites := ranked[:EliteCount(n, p.EliteDivisor)]

	next := population.New(pop.Generation()+1, n)
	for next.Len() < n {
		i1, i2 := pickParents(rng, elites)
		p1, p2 := pop.At(i1), pop.At(i2)

		genome := Crossover(rng, *p1.Genome, *p2.Genome, p)

		ancestors := make([]components.AncestorID, 0, len(p1.Lineage.Ancestors)+1)
		ancestors = append(ancestors, p1.Lineage.Ancestors...)
		ancestors = append(ancestors, arena.Archive(p1))

		pos := population.RandomPosition(rng, p.Birth.GridSize)
		next.Add(pos, genome, p.Birth.InitialEnergy, ancestors)
	}
	return next, nil
}

// pickParents samples two distinct elites. A single elite is paired with itself.
func pickParents(rng *rand.Rand, elites []int) (int, int) {
	k := len(elites)
	if k == 1 {
		return elites[0], elites[0]
	}
	a := rng.Intn(k)
	b := rng.Intn(k - 1)
	if b >= a {
		b++
	}
	return elites[a], elites[b]
}

// Crossover averages the parents' traits and applies multiplicative mutation.
// The epigenetic bias is averaged and perturbed additively instead.
func Crossover(rng *rand.Rand, a, b components.Genome, p Params) components.Genome {
	child := components.Genome{
		Epigenetic: (a.Epigenetic+b.Epigenetic)/2 + uniform(rng, -p.EpigeneticNoise, p.EpigeneticNoise),
		Speed:      (a.Speed + b.Speed) / 2 * mutationFactor(rng, p.MutationRate),
		DirBias:    (a.DirBias + b.DirBias) / 2 * mutationFactor(rng, p.MutationRate),
		FoodSeek:   (a.FoodSeek + b.FoodSeek) / 2 * mutationFactor(rng, p.MutationRate),
		Strategy:   a.Strategy,
	}
	if rng.Intn(2) == 1 {
		child.Strategy = b.Strategy
	}
	return child
}

func mutationFactor(rng *rand.Rand, rate float64) float64 {
	return 1 + uniform(rng, -rate, rate)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
