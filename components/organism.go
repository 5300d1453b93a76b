package components

// Strategy is the behavioral strategy an agent is born with.
type Strategy uint8

const (
	StrategyCooperative Strategy = iota // follows pheromones and flocks with nearby agents
	StrategyAggressive                  // closes in on the nearest agent
)

// NumStrategies is the number of defined strategies.
const NumStrategies = 2

func (s Strategy) String() string {
	switch s {
	case StrategyCooperative:
		return "cooperative"
	case StrategyAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// Genome holds the heritable traits of an agent.
// Speed, DirBias and FoodSeek mutate; Epigenetic is inherited by averaging.
type Genome struct {
	Speed      float64
	DirBias    float64
	FoodSeek   float64
	Epigenetic float64
	Strategy   Strategy
}

// Vitals is the per-generation mutable state of an agent.
type Vitals struct {
	Energy  float64
	Fitness float64
}

// AncestorID indexes a record in the lineage arena.
type AncestorID int

// Lineage identifies an agent within its generation and lists its ancestors,
// oldest first.
type Lineage struct {
	Generation int
	Slot       int
	Ancestors  []AncestorID
}

// Depth returns the number of recorded ancestors.
func (l Lineage) Depth() int {
	return len(l.Ancestors)
}
