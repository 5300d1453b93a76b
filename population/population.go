// Package population stores agents as ECS entities in a fixed update order.
package population

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/evogrid/components"
	"github.com/pthm-cable/evogrid/config"
	"github.com/pthm-cable/evogrid/systems"
)

// BirthParams holds the ranges new founders are drawn from and the state
// every newborn starts with.
type BirthParams struct {
	GridSize      int
	InitialEnergy float64
	MinSpeed      float64
	MaxSpeed      float64
	DirBiasRange  float64
	MaxFoodSeek   float64
}

// BirthParamsFromConfig extracts birth parameters from the config.
func BirthParamsFromConfig(cfg *config.Config) BirthParams {
	return BirthParams{
		GridSize:      cfg.World.GridSize,
		InitialEnergy: cfg.Agent.InitialEnergy,
		MinSpeed:      cfg.Agent.MinSpeed,
		MaxSpeed:      cfg.Agent.MaxSpeed,
		DirBiasRange:  cfg.Agent.DirBiasRange,
		MaxFoodSeek:   cfg.Agent.MaxFoodSeek,
	}
}

// Member is a live agent: its entity and pointers into component storage.
// Pointers stay valid until the population's world is modified structurally.
type Member struct {
	Entity  ecs.Entity
	Pos     *components.Position
	Genome  *components.Genome
	Vitals  *components.Vitals
	Lineage *components.Lineage
}

// Agent returns the view used by the movement system.
func (m Member) Agent() systems.Agent {
	return systems.Agent{Pos: m.Pos, Genome: m.Genome, Vitals: m.Vitals}
}

// Population is an ordered collection of agents for one generation.
// Iteration order is insertion order; it decides who eats contested food.
type Population struct {
	world      *ecs.World
	generation int

	mapper *ecs.Map4[
		components.Position,
		components.Genome,
		components.Vitals,
		components.Lineage,
	]
	posMap    *ecs.Map1[components.Position]
	genomeMap *ecs.Map1[components.Genome]
	vitalsMap *ecs.Map1[components.Vitals]

	order []ecs.Entity
}

// New creates an empty population for the given generation.
func New(generation, capacity int) *Population {
	world := ecs.NewWorld()
	return &Population{
		world:      world,
		generation: generation,
		mapper: ecs.NewMap4[
			components.Position,
			components.Genome,
			components.Vitals,
			components.Lineage,
		](world),
		posMap:    ecs.NewMap1[components.Position](world),
		genomeMap: ecs.NewMap1[components.Genome](world),
		vitalsMap: ecs.NewMap1[components.Vitals](world),
		order:     make([]ecs.Entity, 0, capacity),
	}
}

// Founders creates generation zero with n randomly drawn agents.
func Founders(rng *rand.Rand, bp BirthParams, n int) *Population {
	p := New(0, n)
	for i := 0; i < n; i++ {
		p.Spawn(rng, bp)
	}
	return p
}

// RandomPosition returns the integer corner of a uniformly chosen cell.
func RandomPosition(rng *rand.Rand, gridSize int) components.Position {
	return components.Position{
		X: float64(rng.Intn(gridSize)),
		Y: float64(rng.Intn(gridSize)),
	}
}

// RandomGenome draws founder traits.
func RandomGenome(rng *rand.Rand, bp BirthParams) components.Genome {
	return components.Genome{
		Speed:    bp.MinSpeed + rng.Float64()*(bp.MaxSpeed-bp.MinSpeed),
		DirBias:  (rng.Float64()*2 - 1) * bp.DirBiasRange,
		FoodSeek: rng.Float64() * bp.MaxFoodSeek,
		Strategy: components.Strategy(rng.Intn(components.NumStrategies)),
	}
}

// Spawn adds a founder with random position and traits.
func (p *Population) Spawn(rng *rand.Rand, bp BirthParams) ecs.Entity {
	pos := RandomPosition(rng, bp.GridSize)
	genome := RandomGenome(rng, bp)
	return p.Add(pos, genome, bp.InitialEnergy, nil)
}

// Add appends an agent with zero fitness at the end of the update order.
func (p *Population) Add(pos components.Position, genome components.Genome, energy float64, ancestors []components.AncestorID) ecs.Entity {
	vitals := components.Vitals{Energy: energy}
	lineage := components.Lineage{
		Generation: p.generation,
		Slot:       len(p.order),
		Ancestors:  ancestors,
	}
	entity := p.mapper.NewEntity(&pos, &genome, &vitals, &lineage)
	p.order = append(p.order, entity)
	return entity
}

// Generation returns the generation index this population lives in.
func (p *Population) Generation() int {
	return p.generation
}

// Len returns the number of agents.
func (p *Population) Len() int {
	return len(p.order)
}

// At returns the i-th agent in update order.
func (p *Population) At(i int) Member {
	e := p.order[i]
	pos, genome, vitals, lineage := p.mapper.Get(e)
	return Member{Entity: e, Pos: pos, Genome: genome, Vitals: vitals, Lineage: lineage}
}

// Alive reports whether the entity belongs to this population.
func (p *Population) Alive(e ecs.Entity) bool {
	return p.world.Alive(e)
}

// PositionAt returns the live position of the i-th agent.
func (p *Population) PositionAt(i int) components.Position {
	return *p.posMap.Get(p.order[i])
}

// StrategyAt returns the strategy of the i-th agent.
func (p *Population) StrategyAt(i int) components.Strategy {
	return p.genomeMap.Get(p.order[i]).Strategy
}

// FitnessAt returns the accumulated fitness of the i-th agent.
func (p *Population) FitnessAt(i int) float64 {
	return p.vitalsMap.Get(p.order[i]).Fitness
}

// Best returns the index of the fittest agent; the first maximum wins.
// Returns -1 for an empty population.
func (p *Population) Best() int {
	best := -1
	bestFit := 0.0
	for i := range p.order {
		f := p.FitnessAt(i)
		if best < 0 || f > bestFit {
			best = i
			bestFit = f
		}
	}
	return best
}

// Traits holds one column per trait, in update order.
type Traits struct {
	Fitness  []float64
	Energy   []float64
	Speed    []float64
	DirBias  []float64
	FoodSeek []float64
	// Cooperative counts agents with the cooperative strategy.
	Cooperative int
}

// Traits collects trait columns for statistics.
func (p *Population) Traits() Traits {
	n := len(p.order)
	t := Traits{
		Fitness:  make([]float64, n),
		Energy:   make([]float64, n),
		Speed:    make([]float64, n),
		DirBias:  make([]float64, n),
		FoodSeek: make([]float64, n),
	}
	for i, e := range p.order {
		genome := p.genomeMap.Get(e)
		vitals := p.vitalsMap.Get(e)
		t.Fitness[i] = vitals.Fitness
		t.Energy[i] = vitals.Energy
		t.Speed[i] = genome.Speed
		t.DirBias[i] = genome.DirBias
		t.FoodSeek[i] = genome.FoodSeek
		if genome.Strategy == components.StrategyCooperative {
			t.Cooperative++
		}
	}
	return t
}
