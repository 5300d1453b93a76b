package systems

import (
	"fmt"

	"github.com/pthm-cable/evogrid/components"
)

// StrategyBehavior contributes the strategy-specific part of an agent's heading.
type StrategyBehavior interface {
	Adjust(sc *StepContext, self int, pos components.Position) (dx, dy float64)
}

var strategyBehaviors = [components.NumStrategies]StrategyBehavior{
	components.StrategyCooperative: cooperative{},
	components.StrategyAggressive:  aggressive{},
}

// BehaviorFor returns the heading adjustment for a strategy.
// Panics on a value outside the strategy enum.
func BehaviorFor(s components.Strategy) StrategyBehavior {
	if int(s) >= len(strategyBehaviors) {
		panic(fmt.Sprintf("systems: unknown strategy %d", s))
	}
	return strategyBehaviors[s]
}

// cooperative follows the strongest nearby pheromone and drifts toward the
// centroid of other agents within sense range.
type cooperative struct{}

func (cooperative) Adjust(sc *StepContext, self int, pos components.Position) (float64, float64) {
	p := sc.Params
	pdx, pdy := SensePheromones(pos, sc.Pheromones, p.SenseRadius)
	dx := p.PheromoneWeight * pdx
	dy := p.PheromoneWeight * pdy

	cx, cy := Cohesion(sc.Agents, self, pos, p.SenseRadius)
	dx += p.CohesionWeight * cx
	dy += p.CohesionWeight * cy
	return dx, dy
}

// aggressive closes in on the nearest other agent regardless of range.
type aggressive struct{}

func (aggressive) Adjust(sc *StepContext, self int, pos components.Position) (float64, float64) {
	nearest, ok := NearestOther(sc.Agents, self, pos)
	if !ok {
		return 0, 0
	}
	w := sc.Params.AggressionWeight
	return w * (nearest.X - pos.X), w * (nearest.Y - pos.Y)
}

// Cohesion returns the offset from pos to the centroid of every other agent
// closer than radius, or (0, 0) when there is none.
func Cohesion(agents Neighborhood, self int, pos components.Position, radius float64) (dx, dy float64) {
	var sumX, sumY float64
	n := 0
	for i := 0; i < agents.Len(); i++ {
		if i == self {
			continue
		}
		o := agents.PositionAt(i)
		if distance(o.X, o.Y, pos.X, pos.Y) < radius {
			sumX += o.X
			sumY += o.Y
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sumX/float64(n) - pos.X, sumY/float64(n) - pos.Y
}

// NearestOther returns the position of the closest other agent by squared
// distance. The first minimum in order wins ties.
func NearestOther(agents Neighborhood, self int, pos components.Position) (components.Position, bool) {
	var nearest components.Position
	best := -1.0
	for i := 0; i < agents.Len(); i++ {
		if i == self {
			continue
		}
		o := agents.PositionAt(i)
		d := distanceSq(o.X, o.Y, pos.X, pos.Y)
		if best < 0 || d < best {
			best = d
			nearest = o
		}
	}
	return nearest, best >= 0
}
