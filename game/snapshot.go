package game

import (
	"github.com/pthm-cable/evogrid/components"
	"github.com/pthm-cable/evogrid/systems"
)

// AgentView is a read-only copy of one agent's display state.
type AgentView struct {
	X, Y     float64
	Strategy components.Strategy
	Energy   float64
	Fitness  float64
}

// Snapshot is the read-only state handed to observers after each step.
// All slices are copies.
type Snapshot struct {
	Generation int // 0-based
	Step       int // 0-based index of the step just completed
	Agents     []AgentView
	Best       int // index into Agents of the fittest agent
	Food       []systems.FoodItem
	Obstacles  []components.Cell
	Heatmap    [][]int // nil unless the heatmap toggle is on
	Control    Control
}

// Observer receives a snapshot after every step.
type Observer interface {
	ObserveStep(snap Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) ObserveStep(snap Snapshot) {
	f(snap)
}

// snapshot copies the current state for observers.
func (s *Simulation) snapshot(ctl Control) Snapshot {
	snap := Snapshot{
		Generation: s.generation,
		Step:       s.step,
		Agents:     make([]AgentView, s.pop.Len()),
		Best:       s.best,
		Food:       append([]systems.FoodItem(nil), s.env.Food...),
		Obstacles:  s.env.ObstacleList(),
		Control:    ctl,
	}
	for i := range snap.Agents {
		m := s.pop.At(i)
		snap.Agents[i] = AgentView{
			X:        m.Pos.X,
			Y:        m.Pos.Y,
			Strategy: m.Genome.Strategy,
			Energy:   m.Vitals.Energy,
			Fitness:  m.Vitals.Fitness,
		}
	}
	if ctl.Heatmap {
		snap.Heatmap = s.heatmap.Grid()
	}
	return snap
}
