package systems

import "github.com/pthm-cable/evogrid/components"

// SenseFood returns a per-axis sign vector pointing at the nearest food item
// by squared distance. The first minimum in list order wins ties.
// Returns (0, 0) when no food remains.
func SenseFood(pos components.Position, food []FoodItem) (dx, dy float64) {
	if len(food) == 0 {
		return 0, 0
	}

	nearest := 0
	best := distanceSq(float64(food[0].Cell.X), float64(food[0].Cell.Y), pos.X, pos.Y)
	for i := 1; i < len(food); i++ {
		d := distanceSq(float64(food[i].Cell.X), float64(food[i].Cell.Y), pos.X, pos.Y)
		if d < best {
			best = d
			nearest = i
		}
	}

	target := food[nearest].Cell
	return sign(float64(target.X) - pos.X), sign(float64(target.Y) - pos.Y)
}

// SensePheromones returns a sign vector toward the strongest sample closer
// than radius. The first maximum in list order wins ties.
// Returns (0, 0) when nothing is in range.
func SensePheromones(pos components.Position, samples []PheromoneSample, radius float64) (dx, dy float64) {
	strongest := -1
	for i, s := range samples {
		if distance(float64(s.X), float64(s.Y), pos.X, pos.Y) >= radius {
			continue
		}
		if strongest < 0 || s.Intensity > samples[strongest].Intensity {
			strongest = i
		}
	}
	if strongest < 0 {
		return 0, 0
	}

	s := samples[strongest]
	return sign(float64(s.X) - pos.X), sign(float64(s.Y) - pos.Y)
}
