package systems

import (
	"math/rand"

	"github.com/pthm-cable/evogrid/components"
)

// fakeRoster is a slice-backed Roster for tests.
type fakeRoster struct {
	pos      []components.Position
	strategy []components.Strategy
	fitness  []float64
}

func (r *fakeRoster) Len() int                             { return len(r.pos) }
func (r *fakeRoster) PositionAt(i int) components.Position { return r.pos[i] }
func (r *fakeRoster) StrategyAt(i int) components.Strategy { return r.strategy[i] }
func (r *fakeRoster) FitnessAt(i int) float64              { return r.fitness[i] }

// emptyEnv returns a grid with no food, no obstacles and flat terrain.
func emptyEnv(size int) *Environment {
	return GenerateEnvironment(rand.New(rand.NewSource(1)), EnvironmentParams{GridSize: size}, 0)
}

func testParams(size int) BehaviorParams {
	return BehaviorParams{
		MaxCoord:           float64(size - 1),
		StepCost:           0.5,
		SenseRadius:        5,
		PheromoneWeight:    0.2,
		CohesionWeight:     0.1,
		AggressionWeight:   0.2,
		RewardBlockedMoves: true,
	}
}

// testAgent returns component storage for one agent.
func testAgent(x, y float64, g components.Genome) (Agent, *components.Position, *components.Vitals) {
	pos := &components.Position{X: x, Y: y}
	vitals := &components.Vitals{Energy: 20}
	genome := g
	return Agent{Pos: pos, Genome: &genome, Vitals: vitals}, pos, vitals
}
