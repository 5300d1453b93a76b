package telemetry

import "github.com/pthm-cable/evogrid/components"

// Heatmap counts agent visits per grid cell over a generation.
type Heatmap struct {
	size   int
	counts []int
}

// NewHeatmap creates an empty size x size heatmap.
func NewHeatmap(size int) *Heatmap {
	return &Heatmap{size: size, counts: make([]int, size*size)}
}

// Visit increments the count of a cell. Off-grid cells are ignored.
func (h *Heatmap) Visit(c components.Cell) {
	if c.X < 0 || c.Y < 0 || c.X >= h.size || c.Y >= h.size {
		return
	}
	h.counts[c.Y*h.size+c.X]++
}

// At returns the visit count of a cell.
func (h *Heatmap) At(c components.Cell) int {
	if c.X < 0 || c.Y < 0 || c.X >= h.size || c.Y >= h.size {
		return 0
	}
	return h.counts[c.Y*h.size+c.X]
}

// Grid returns a copy of the counts indexed [y][x].
func (h *Heatmap) Grid() [][]int {
	grid := make([][]int, h.size)
	for y := range grid {
		row := make([]int, h.size)
		copy(row, h.counts[y*h.size:(y+1)*h.size])
		grid[y] = row
	}
	return grid
}

// Reset clears all counts.
func (h *Heatmap) Reset() {
	for i := range h.counts {
		h.counts[i] = 0
	}
}
