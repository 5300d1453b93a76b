package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.World.GridSize != 20 || cfg.World.Lifespan != 20 || cfg.World.ObstacleCount != 25 || cfg.World.Seasons != 5 {
		t.Errorf("world defaults = %+v", cfg.World)
	}
	if cfg.Population.NumAgents != 20 || cfg.Population.Generations != 30 {
		t.Errorf("population defaults = %+v", cfg.Population)
	}
	if cfg.Mutation.Rate != 0.2 || cfg.Mutation.EliteDivisor != 5 {
		t.Errorf("mutation defaults = %+v", cfg.Mutation)
	}
	if len(cfg.Food.Types) != 2 || cfg.Food.Types[1].Symbol != "!" || cfg.Food.Types[1].Value != -5 {
		t.Errorf("food types = %+v", cfg.Food.Types)
	}
	if cfg.Derived.MaxCoord != 19 || cfg.Derived.NumCells != 400 {
		t.Errorf("derived = %+v", cfg.Derived)
	}
	if !cfg.Fitness.RewardBlockedMoves {
		t.Error("blocked moves should be rewarded by default")
	}
}

func TestDefaults_FreshCopy(t *testing.T) {
	a := Defaults()
	a.World.GridSize = 3
	if b := Defaults(); b.World.GridSize != 20 {
		t.Errorf("Defaults shares state: grid size %d", b.World.GridSize)
	}
}

func TestParse_Override(t *testing.T) {
	cfg, err := Parse([]byte("world:\n  grid_size: 8\npopulation:\n  generations: 3\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.World.GridSize != 8 || cfg.Population.Generations != 3 {
		t.Errorf("overrides not applied: %+v %+v", cfg.World, cfg.Population)
	}
	if cfg.World.Lifespan != 20 {
		t.Errorf("unset field lost its default: lifespan %d", cfg.World.Lifespan)
	}
	if cfg.Derived.MaxCoord != 7 {
		t.Errorf("MaxCoord = %v, want 7", cfg.Derived.MaxCoord)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("world: [not a map")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSanitize(t *testing.T) {
	cfg, err := Parse([]byte(`
population:
  num_agents: 1
world:
  grid_size: 0
  lifespan: -2
agent:
  min_speed: 1.5
  max_speed: 1.0
food:
  types: []
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := Defaults()
	if cfg.Population.NumAgents != def.Population.NumAgents {
		t.Errorf("num_agents = %d, want default %d", cfg.Population.NumAgents, def.Population.NumAgents)
	}
	if cfg.World.GridSize != def.World.GridSize || cfg.World.Lifespan != def.World.Lifespan {
		t.Errorf("world = %+v", cfg.World)
	}
	if cfg.Agent.MaxSpeed != def.Agent.MaxSpeed {
		t.Errorf("max_speed below min_speed kept: %v", cfg.Agent.MaxSpeed)
	}
	if len(cfg.Food.Types) != len(def.Food.Types) {
		t.Errorf("empty food table kept: %v", cfg.Food.Types)
	}
}

func TestSanitize_ReportsFixes(t *testing.T) {
	cfg := Defaults()
	cfg.Mutation.EliteDivisor = 0
	cfg.Terrain.Slow = -1

	fixes := cfg.Sanitize(Defaults())
	if len(fixes) != 2 {
		t.Fatalf("fixes = %+v, want 2", fixes)
	}
	if fixes[0].Field != "terrain.slow" || fixes[1].Field != "mutation.elite_divisor" {
		t.Errorf("fix order = %+v", fixes)
	}
	if len(Defaults().Sanitize(Defaults())) != 0 {
		t.Error("defaults should need no fixes")
	}
}

func TestLoadAndWriteYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Defaults()
	cfg.Behavior.CohesionWeight = 0.35
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Behavior.CohesionWeight != 0.35 {
		t.Errorf("cohesion weight = %v after round trip", loaded.Behavior.CohesionWeight)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}

func TestInitAndCfg(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Cfg().World.GridSize != 20 {
		t.Errorf("Cfg grid size = %d", Cfg().World.GridSize)
	}
}

func TestSanitize_ObstacleCountLeavesFreeCell(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantCount int
	}{
		{"fills grid", "world:\n  grid_size: 10\n  obstacle_count: 100\n", 25},
		{"one below grid", "world:\n  grid_size: 10\n  obstacle_count: 99\n", 99},
		{"default too large for tiny grid", "world:\n  grid_size: 3\n  obstacle_count: 9\n", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if cfg.World.ObstacleCount != tt.wantCount {
				t.Errorf("obstacle_count = %d, want %d", cfg.World.ObstacleCount, tt.wantCount)
			}
		})
	}
}
