package systems

import (
	"math/rand"
	"sort"

	"github.com/pthm-cable/evogrid/components"
	"github.com/pthm-cable/evogrid/config"
)

// FoodItem is a consumable placed on a grid cell. Negative values are hazards.
type FoodItem struct {
	Cell   components.Cell
	Symbol string
	Value  float64
}

// Environment is the per-generation world: food, obstacles and terrain.
// Food is shared by every agent of the generation and shrinks as it is eaten.
type Environment struct {
	GridSize  int
	Food      []FoodItem
	Obstacles map[components.Cell]struct{}
	Terrain   [][]float64 // indexed [y][x]
}

// EnvironmentParams controls environment generation.
type EnvironmentParams struct {
	GridSize      int
	FoodBase      int
	Seasons       int
	FoodTypes     []config.FoodTypeConfig
	ObstacleCount int
	TerrainSlow   float64
	TerrainFast   float64
	SlowCells     int
	FastCells     int
}

// EnvironmentParamsFromConfig extracts generation parameters from the config.
func EnvironmentParamsFromConfig(cfg *config.Config) EnvironmentParams {
	return EnvironmentParams{
		GridSize:      cfg.World.GridSize,
		FoodBase:      cfg.Food.BaseCount,
		Seasons:       cfg.World.Seasons,
		FoodTypes:     cfg.Food.Types,
		ObstacleCount: cfg.World.ObstacleCount,
		TerrainSlow:   cfg.Terrain.Slow,
		TerrainFast:   cfg.Terrain.Fast,
		SlowCells:     cfg.Terrain.SlowCells,
		FastCells:     cfg.Terrain.FastCells,
	}
}

// Season returns the season index for a generation.
func (p EnvironmentParams) Season(generation int) int {
	if p.Seasons <= 0 {
		return 0
	}
	return generation % p.Seasons
}

// GenerateEnvironment builds the food list, obstacle set and terrain grid for
// one generation. Draw order is food, obstacles, then terrain.
func GenerateEnvironment(rng *rand.Rand, p EnvironmentParams, generation int) *Environment {
	env := &Environment{
		GridSize:  p.GridSize,
		Food:      generateFood(rng, p, generation),
		Obstacles: generateObstacles(rng, p),
	}
	env.Terrain = generateTerrain(rng, p)
	return env
}

func generateFood(rng *rand.Rand, p EnvironmentParams, generation int) []FoodItem {
	count := p.FoodBase + p.Season(generation)
	if len(p.FoodTypes) == 0 || count <= 0 {
		return nil
	}

	food := make([]FoodItem, 0, count)
	for i := 0; i < count; i++ {
		x := rng.Intn(p.GridSize)
		y := rng.Intn(p.GridSize)
		ft := p.FoodTypes[rng.Intn(len(p.FoodTypes))]
		food = append(food, FoodItem{
			Cell:   components.Cell{X: x, Y: y},
			Symbol: ft.Symbol,
			Value:  ft.Value,
		})
	}
	return food
}

func generateObstacles(rng *rand.Rand, p EnvironmentParams) map[components.Cell]struct{} {
	obstacles := make(map[components.Cell]struct{}, p.ObstacleCount)
	for i := 0; i < p.ObstacleCount; i++ {
		c := components.Cell{X: rng.Intn(p.GridSize), Y: rng.Intn(p.GridSize)}
		obstacles[c] = struct{}{}
	}
	return obstacles
}

func generateTerrain(rng *rand.Rand, p EnvironmentParams) [][]float64 {
	terrain := make([][]float64, p.GridSize)
	for y := range terrain {
		row := make([]float64, p.GridSize)
		for x := range row {
			row[x] = 1.0
		}
		terrain[y] = row
	}

	// Fast cells are written last and win on collision.
	for i := 0; i < p.SlowCells; i++ {
		terrain[rng.Intn(p.GridSize)][rng.Intn(p.GridSize)] = p.TerrainSlow
	}
	for i := 0; i < p.FastCells; i++ {
		terrain[rng.Intn(p.GridSize)][rng.Intn(p.GridSize)] = p.TerrainFast
	}
	return terrain
}

// InBounds reports whether the cell lies on the grid.
func (e *Environment) InBounds(c components.Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < e.GridSize && c.Y < e.GridSize
}

// IsObstacle reports whether the cell is impassable.
func (e *Environment) IsObstacle(c components.Cell) bool {
	_, ok := e.Obstacles[c]
	return ok
}

// TerrainAt returns the movement multiplier of a cell, 1.0 off-grid.
func (e *Environment) TerrainAt(c components.Cell) float64 {
	if !e.InBounds(c) || e.Terrain == nil {
		return 1.0
	}
	return e.Terrain[c.Y][c.X]
}

// ConsumeAt removes every food item on the cell and returns them in list order.
// The remaining items keep their relative order.
func (e *Environment) ConsumeAt(c components.Cell) []FoodItem {
	var eaten []FoodItem
	kept := e.Food[:0]
	for _, f := range e.Food {
		if f.Cell == c {
			eaten = append(eaten, f)
			continue
		}
		kept = append(kept, f)
	}
	e.Food = kept
	return eaten
}

// ObstacleList returns the obstacle cells sorted row-major.
func (e *Environment) ObstacleList() []components.Cell {
	cells := make([]components.Cell, 0, len(e.Obstacles))
	for c := range e.Obstacles {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// RandomFreeCell returns a uniformly chosen cell that is not an obstacle.
// ok is false when every cell is blocked.
func (e *Environment) RandomFreeCell(rng *rand.Rand) (components.Cell, bool) {
	free := e.GridSize*e.GridSize - len(e.Obstacles)
	if free <= 0 {
		return components.Cell{}, false
	}
	n := rng.Intn(free)
	for y := 0; y < e.GridSize; y++ {
		for x := 0; x < e.GridSize; x++ {
			c := components.Cell{X: x, Y: y}
			if e.IsObstacle(c) {
				continue
			}
			if n == 0 {
				return c, true
			}
			n--
		}
	}
	return components.Cell{}, false
}
