package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/evogrid/components"
	"github.com/pthm-cable/evogrid/config"
)

// Neighborhood gives live read access to agent positions in update order.
type Neighborhood interface {
	Len() int
	PositionAt(i int) components.Position
}

// Agent bundles the component pointers a move reads and writes.
type Agent struct {
	Pos    *components.Position
	Genome *components.Genome
	Vitals *components.Vitals
}

// BehaviorParams holds the movement constants shared by all agents.
type BehaviorParams struct {
	MaxCoord           float64
	StepCost           float64
	SenseRadius        float64
	PheromoneWeight    float64
	CohesionWeight     float64
	AggressionWeight   float64
	RewardBlockedMoves bool
}

// BehaviorParamsFromConfig extracts movement constants from the config.
func BehaviorParamsFromConfig(cfg *config.Config) BehaviorParams {
	return BehaviorParams{
		MaxCoord:           cfg.Derived.MaxCoord,
		StepCost:           cfg.Agent.StepCost,
		SenseRadius:        cfg.Behavior.SenseRadius,
		PheromoneWeight:    cfg.Behavior.PheromoneWeight,
		CohesionWeight:     cfg.Behavior.CohesionWeight,
		AggressionWeight:   cfg.Behavior.AggressionWeight,
		RewardBlockedMoves: cfg.Fitness.RewardBlockedMoves,
	}
}

// StepContext is the shared world state seen by every move within one step.
type StepContext struct {
	Env        *Environment
	Pheromones []PheromoneSample
	Agents     Neighborhood
	Params     BehaviorParams
}

// MoveResult describes the outcome of a single move.
type MoveResult struct {
	DX, DY       float64 // scaled heading before clamping
	Blocked      bool
	Displacement float64 // fitness credited for movement
	Eaten        []FoodItem
}

// Move advances one agent by a single step: heading, strategy adjustment,
// speed and terrain scaling, obstacle check, metabolism and feeding.
// self is the agent's index in sc.Agents and is excluded from neighbor scans.
func (sc *StepContext) Move(rng *rand.Rand, self int, a Agent) MoveResult {
	pos := *a.Pos
	g := a.Genome

	dx := float64(rng.Intn(3)-1) + g.DirBias + g.Epigenetic
	dy := float64(rng.Intn(3) - 1)

	fdx, fdy := SenseFood(pos, sc.Env.Food)
	dx += g.FoodSeek * fdx
	dy += g.FoodSeek * fdy

	sdx, sdy := BehaviorFor(g.Strategy).Adjust(sc, self, pos)
	dx += sdx
	dy += sdy

	dx *= g.Speed
	dy *= g.Speed
	terrain := sc.Env.TerrainAt(pos.Cell())
	dx *= terrain
	dy *= terrain

	candidate := components.Position{
		X: clampFloat(pos.X+dx, 0, sc.Params.MaxCoord),
		Y: clampFloat(pos.Y+dy, 0, sc.Params.MaxCoord),
	}
	res := MoveResult{DX: dx, DY: dy}
	if sc.Env.IsObstacle(candidate.Cell()) {
		res.Blocked = true
	} else {
		*a.Pos = candidate
	}

	// Movement is credited from the unclamped heading, even when blocked,
	// unless RewardBlockedMoves is off.
	if sc.Params.RewardBlockedMoves {
		res.Displacement = math.Hypot(dx, dy)
	} else {
		res.Displacement = distance(a.Pos.X, a.Pos.Y, pos.X, pos.Y)
	}

	a.Vitals.Energy -= sc.Params.StepCost
	a.Vitals.Fitness += res.Displacement

	res.Eaten = sc.Env.ConsumeAt(a.Pos.Cell())
	for _, f := range res.Eaten {
		a.Vitals.Fitness += f.Value
		a.Vitals.Energy += math.Max(f.Value, 0)
	}
	return res
}
