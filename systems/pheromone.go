package systems

import "github.com/pthm-cable/evogrid/components"

// PheromoneSample is a transient trail marker left by a cooperative agent.
type PheromoneSample struct {
	X, Y      int
	Intensity float64
}

// Roster is a read-only, ordered view of the live population.
type Roster interface {
	Len() int
	PositionAt(i int) components.Position
	StrategyAt(i int) components.Strategy
	FitnessAt(i int) float64
}

// ComputePheromones emits one sample per cooperative agent at its current
// cell with intensity fitness*scale. Samples follow roster order.
func ComputePheromones(r Roster, scale float64) []PheromoneSample {
	samples := make([]PheromoneSample, 0, r.Len())
	for i := 0; i < r.Len(); i++ {
		if r.StrategyAt(i) != components.StrategyCooperative {
			continue
		}
		c := r.PositionAt(i).Cell()
		samples = append(samples, PheromoneSample{
			X:         c.X,
			Y:         c.Y,
			Intensity: r.FitnessAt(i) * scale,
		})
	}
	return samples
}
