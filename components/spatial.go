// Package components defines the ECS components carried by every agent.
package components

// Position represents an agent's continuous grid position.
type Position struct {
	X, Y float64
}

// Cell returns the grid cell containing the position (coordinates truncated).
func (p Position) Cell() Cell {
	return Cell{X: int(p.X), Y: int(p.Y)}
}

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}
