// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Population PopulationConfig `yaml:"population"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Food       FoodConfig       `yaml:"food"`
	Agent      AgentConfig      `yaml:"agent"`
	Behavior   BehaviorConfig   `yaml:"behavior"`
	Fitness    FitnessConfig    `yaml:"fitness"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid dimensions and generation timing.
type WorldConfig struct {
	GridSize      int `yaml:"grid_size"`
	Lifespan      int `yaml:"lifespan"`       // steps per generation
	ObstacleCount int `yaml:"obstacle_count"` // random draws, duplicates collapse
	Seasons       int `yaml:"seasons"`        // season = generation % seasons
}

// TerrainConfig holds movement multipliers for the terrain grid.
type TerrainConfig struct {
	Slow      float64 `yaml:"slow"`
	Fast      float64 `yaml:"fast"`
	SlowCells int     `yaml:"slow_cells"`
	FastCells int     `yaml:"fast_cells"`
}

// PopulationConfig holds population size and run length.
type PopulationConfig struct {
	NumAgents   int `yaml:"num_agents"`
	Generations int `yaml:"generations"`
}

// MutationConfig holds evolution parameters.
type MutationConfig struct {
	Rate            float64 `yaml:"rate"`
	EpigeneticNoise float64 `yaml:"epigenetic_noise"`
	EliteDivisor    int     `yaml:"elite_divisor"`
}

// FoodConfig holds food spawning parameters.
type FoodConfig struct {
	BaseCount int              `yaml:"base_count"`
	Types     []FoodTypeConfig `yaml:"types"`
}

// FoodTypeConfig defines one entry of the food-type table.
// Negative values are hazards.
type FoodTypeConfig struct {
	Symbol string  `yaml:"symbol"`
	Value  float64 `yaml:"value"`
}

// AgentConfig holds birth defaults and metabolic costs.
type AgentConfig struct {
	InitialEnergy float64 `yaml:"initial_energy"`
	StepCost      float64 `yaml:"step_cost"`
	MinSpeed      float64 `yaml:"min_speed"`
	MaxSpeed      float64 `yaml:"max_speed"`
	DirBiasRange  float64 `yaml:"dir_bias_range"`
	MaxFoodSeek   float64 `yaml:"max_food_seek"`
}

// BehaviorConfig holds the movement weights used by strategies.
type BehaviorConfig struct {
	SenseRadius      float64 `yaml:"sense_radius"`
	PheromoneWeight  float64 `yaml:"pheromone_weight"`
	PheromoneScale   float64 `yaml:"pheromone_scale"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	AggressionWeight float64 `yaml:"aggression_weight"`
}

// FitnessConfig holds fitness accounting switches.
type FitnessConfig struct {
	// RewardBlockedMoves credits the attempted displacement even when an
	// obstacle rejected the move. Disable to credit only committed movement.
	RewardBlockedMoves bool `yaml:"reward_blocked_moves"`
}

// TelemetryConfig holds logging parameters.
type TelemetryConfig struct {
	LogSteps bool `yaml:"log_steps"`
	Heatmap  bool `yaml:"heatmap"` // initial heatmap toggle
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxCoord float64 // GridSize-1, upper clamp bound
	NumCells int     // GridSize*GridSize
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := parseDefaults()
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	cfg.computeDerived()
	return cfg
}

func parseDefaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse merges YAML data over the embedded defaults, substitutes defaults for
// invalid values and computes derived fields.
func Parse(data []byte) (*Config, error) {
	cfg, err := parseDefaults()
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		// Unmarshal into same struct - only overwrites fields present in data
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	def, err := parseDefaults()
	if err != nil {
		return nil, err
	}
	for _, fix := range cfg.Sanitize(def) {
		slog.Warn("invalid config value, using default",
			"field", fix.Field,
			"value", fix.Value,
			"default", fix.Default,
		)
	}

	cfg.computeDerived()
	return cfg, nil
}

// Fix describes a value replaced by Sanitize.
type Fix struct {
	Field   string
	Value   any
	Default any
}

// Sanitize replaces out-of-range values with the corresponding value from def
// and reports every substitution.
func (c *Config) Sanitize(def *Config) []Fix {
	var fixes []Fix

	fixInt := func(field string, v *int, d int, ok bool) {
		if !ok {
			fixes = append(fixes, Fix{Field: field, Value: *v, Default: d})
			*v = d
		}
	}
	fixFloat := func(field string, v *float64, d float64, ok bool) {
		if !ok || math.IsNaN(*v) || math.IsInf(*v, 0) {
			fixes = append(fixes, Fix{Field: field, Value: *v, Default: d})
			*v = d
		}
	}

	fixInt("world.grid_size", &c.World.GridSize, def.World.GridSize, c.World.GridSize >= 1)
	fixInt("world.lifespan", &c.World.Lifespan, def.World.Lifespan, c.World.Lifespan >= 1)
	// At least one cell must stay free so agents can be placed off obstacles.
	cells := c.World.GridSize * c.World.GridSize
	obstacleDefault := min(def.World.ObstacleCount, cells-1)
	fixInt("world.obstacle_count", &c.World.ObstacleCount, obstacleDefault,
		c.World.ObstacleCount >= 0 && c.World.ObstacleCount < cells)
	fixInt("world.seasons", &c.World.Seasons, def.World.Seasons, c.World.Seasons >= 1)

	fixFloat("terrain.slow", &c.Terrain.Slow, def.Terrain.Slow, c.Terrain.Slow > 0)
	fixFloat("terrain.fast", &c.Terrain.Fast, def.Terrain.Fast, c.Terrain.Fast > 0)
	fixInt("terrain.slow_cells", &c.Terrain.SlowCells, def.Terrain.SlowCells, c.Terrain.SlowCells >= 0)
	fixInt("terrain.fast_cells", &c.Terrain.FastCells, def.Terrain.FastCells, c.Terrain.FastCells >= 0)

	// Two agents is the smallest population that can be bred.
	fixInt("population.num_agents", &c.Population.NumAgents, def.Population.NumAgents, c.Population.NumAgents >= 2)
	fixInt("population.generations", &c.Population.Generations, def.Population.Generations, c.Population.Generations >= 1)

	fixFloat("mutation.rate", &c.Mutation.Rate, def.Mutation.Rate, c.Mutation.Rate >= 0)
	fixFloat("mutation.epigenetic_noise", &c.Mutation.EpigeneticNoise, def.Mutation.EpigeneticNoise, c.Mutation.EpigeneticNoise >= 0)
	fixInt("mutation.elite_divisor", &c.Mutation.EliteDivisor, def.Mutation.EliteDivisor, c.Mutation.EliteDivisor >= 1)

	fixInt("food.base_count", &c.Food.BaseCount, def.Food.BaseCount, c.Food.BaseCount >= 0)
	if len(c.Food.Types) == 0 {
		fixes = append(fixes, Fix{Field: "food.types", Value: "[]", Default: len(def.Food.Types)})
		c.Food.Types = append([]FoodTypeConfig(nil), def.Food.Types...)
	}

	fixFloat("agent.initial_energy", &c.Agent.InitialEnergy, def.Agent.InitialEnergy, true)
	fixFloat("agent.step_cost", &c.Agent.StepCost, def.Agent.StepCost, c.Agent.StepCost >= 0)
	fixFloat("agent.min_speed", &c.Agent.MinSpeed, def.Agent.MinSpeed, c.Agent.MinSpeed > 0)
	fixFloat("agent.max_speed", &c.Agent.MaxSpeed, def.Agent.MaxSpeed, c.Agent.MaxSpeed >= c.Agent.MinSpeed)
	fixFloat("agent.dir_bias_range", &c.Agent.DirBiasRange, def.Agent.DirBiasRange, c.Agent.DirBiasRange >= 0)
	fixFloat("agent.max_food_seek", &c.Agent.MaxFoodSeek, def.Agent.MaxFoodSeek, c.Agent.MaxFoodSeek >= 0)

	fixFloat("behavior.sense_radius", &c.Behavior.SenseRadius, def.Behavior.SenseRadius, c.Behavior.SenseRadius >= 0)
	fixFloat("behavior.pheromone_weight", &c.Behavior.PheromoneWeight, def.Behavior.PheromoneWeight, true)
	fixFloat("behavior.pheromone_scale", &c.Behavior.PheromoneScale, def.Behavior.PheromoneScale, true)
	fixFloat("behavior.cohesion_weight", &c.Behavior.CohesionWeight, def.Behavior.CohesionWeight, true)
	fixFloat("behavior.aggression_weight", &c.Behavior.AggressionWeight, def.Behavior.AggressionWeight, true)

	return fixes
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MaxCoord = float64(c.World.GridSize - 1)
	c.Derived.NumCells = c.World.GridSize * c.World.GridSize
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() {
	c.computeDerived()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
