package telemetry

import "github.com/pthm-cable/evogrid/systems"

// Collector accumulates movement and feeding events within one generation.
type Collector struct {
	steps        int
	moves        int
	blockedMoves int
	foodEaten    int
	hazardsEaten int
}

// NewCollector creates a new event collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordStep records the completion of a step.
func (c *Collector) RecordStep() {
	c.steps++
}

// RecordMove records the outcome of one agent move.
func (c *Collector) RecordMove(res systems.MoveResult) {
	c.moves++
	if res.Blocked {
		c.blockedMoves++
	}
	for _, f := range res.Eaten {
		if f.Value < 0 {
			c.hazardsEaten++
		} else {
			c.foodEaten++
		}
	}
}

// Steps returns the number of steps recorded since the last reset.
func (c *Collector) Steps() int {
	return c.steps
}

// Fill copies the event counters into a generation record.
func (c *Collector) Fill(rec *GenerationRecord) {
	rec.FoodEaten = c.foodEaten
	rec.HazardsEaten = c.hazardsEaten
	rec.BlockedMoves = c.blockedMoves
}

// Reset clears all counters for a new generation.
func (c *Collector) Reset() {
	*c = Collector{}
}
