// Package game runs the generational simulation loop.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/evogrid/components"
	"github.com/pthm-cable/evogrid/config"
	"github.com/pthm-cable/evogrid/evolution"
	"github.com/pthm-cable/evogrid/population"
	"github.com/pthm-cable/evogrid/systems"
	"github.com/pthm-cable/evogrid/telemetry"
)

// RecordSink receives one record per finished generation, in order.
type RecordSink interface {
	RecordGeneration(ctx context.Context, rec telemetry.GenerationRecord) error
}

// PerfSink receives step timing statistics once per generation.
type PerfSink interface {
	WritePerf(stats telemetry.PerfStats, generation int) error
}

// Options configures a simulation beyond the config file.
type Options struct {
	Seed     int64
	Observer Observer
	Input    InputSource
	Sinks    []RecordSink
	Perf     PerfSink

	// Pacing between steps; zero runs as fast as possible.
	StepDelay       time.Duration
	FastStepDelay   time.Duration
	GenerationDelay time.Duration
	PausePoll       time.Duration
}

// Summary describes a finished or stopped run.
type Summary struct {
	Records    []telemetry.GenerationRecord
	Evolutions int
	Stopped    bool // quit was requested through Control
}

// Simulation holds the complete simulation state.
type Simulation struct {
	cfg  *config.Config
	opts Options
	rng  *rand.Rand

	envParams      systems.EnvironmentParams
	behavior       systems.BehaviorParams
	evoParams      evolution.Params
	pheromoneScale float64

	pop        *population.Population
	arena      *population.Arena
	env        *systems.Environment
	pheromones []systems.PheromoneSample

	generation int
	step       int
	best       int
	evolutions int

	collector *telemetry.Collector
	heatmap   *telemetry.Heatmap
	perf      *telemetry.PerfCollector
}

// New creates a simulation with a founder population drawn from the seed.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	if cfg.Population.NumAgents < 2 {
		return nil, fmt.Errorf("population of %d agents: %w", cfg.Population.NumAgents, evolution.ErrInsufficientPopulation)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	evoParams := evolution.ParamsFromConfig(cfg)

	s := &Simulation{
		cfg:            cfg,
		opts:           opts,
		rng:            rng,
		envParams:      systems.EnvironmentParamsFromConfig(cfg),
		behavior:       systems.BehaviorParamsFromConfig(cfg),
		evoParams:      evoParams,
		pheromoneScale: cfg.Behavior.PheromoneScale,
		pop:            population.Founders(rng, evoParams.Birth, cfg.Population.NumAgents),
		arena:          population.NewArena(),
		best:           -1,
		collector:      telemetry.NewCollector(),
		heatmap:        telemetry.NewHeatmap(cfg.World.GridSize),
		perf:           telemetry.NewPerfCollector(cfg.World.Lifespan),
	}
	return s, nil
}

// Run executes every generation. Cancelling ctx or setting Control.Quit
// stops the loop between steps; the interrupted generation is neither
// recorded nor evolved.
func (s *Simulation) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	ctl := Control{Heatmap: s.cfg.Telemetry.Heatmap}

	for s.generation < s.cfg.Population.Generations {
		if err := ctx.Err(); err != nil {
			summary.Evolutions = s.evolutions
			return summary, fmt.Errorf("generation %d: %w", s.generation+1, err)
		}
		s.BeginGeneration()

		for s.step < s.cfg.World.Lifespan {
			if err := ctx.Err(); err != nil {
				summary.Evolutions = s.evolutions
				return summary, fmt.Errorf("generation %d step %d: %w", s.generation+1, s.step, err)
			}

			var err error
			ctl, err = awaitInput(ctx, s.opts.Input, ctl, s.opts.PausePoll)
			if err != nil {
				summary.Evolutions = s.evolutions
				return summary, fmt.Errorf("generation %d step %d: %w", s.generation+1, s.step, err)
			}
			if ctl.Quit {
				slog.Info("simulation stopped", "generation", s.generation+1, "step", s.step)
				summary.Evolutions = s.evolutions
				summary.Stopped = true
				return summary, nil
			}

			var snap Snapshot
			snap, ctl = s.Step(ctl)
			if s.opts.Observer != nil {
				s.opts.Observer.ObserveStep(snap)
			}

			delay := s.opts.StepDelay
			if ctl.Fast {
				delay = s.opts.FastStepDelay
			}
			if err := sleepContext(ctx, delay); err != nil {
				summary.Evolutions = s.evolutions
				return summary, fmt.Errorf("generation %d step %d: %w", s.generation+1, s.step, err)
			}
		}

		rec, err := s.EndGeneration(ctx)
		if err != nil {
			summary.Evolutions = s.evolutions
			return summary, err
		}
		summary.Records = append(summary.Records, rec)

		if err := sleepContext(ctx, s.opts.GenerationDelay); err != nil {
			summary.Evolutions = s.evolutions
			return summary, fmt.Errorf("generation %d: %w", s.generation, err)
		}
	}

	summary.Evolutions = s.evolutions
	return summary, nil
}

// BeginGeneration generates a fresh environment and clears per-generation
// state. Agents standing on a new obstacle are moved to a random free cell.
func (s *Simulation) BeginGeneration() {
	s.env = systems.GenerateEnvironment(s.rng, s.envParams, s.generation)
	s.pheromones = nil
	s.step = 0
	s.best = -1
	s.collector.Reset()
	s.heatmap.Reset()

	for i := 0; i < s.pop.Len(); i++ {
		m := s.pop.At(i)
		if !s.env.IsObstacle(m.Pos.Cell()) {
			continue
		}
		c, ok := s.env.RandomFreeCell(s.rng)
		if !ok {
			slog.Warn("no free cell to relocate agent", "generation", s.generation+1, "agent", i)
			continue
		}
		*m.Pos = components.Position{X: float64(c.X), Y: float64(c.Y)}
	}
}

// Step moves every agent once in population order and returns the resulting
// snapshot together with the control state.
func (s *Simulation) Step(ctl Control) (Snapshot, Control) {
	s.perf.StartStep()

	s.perf.StartPhase(telemetry.PhasePheromones)
	s.pheromones = systems.ComputePheromones(s.pop, s.pheromoneScale)
	s.perf.AddItems(telemetry.PhasePheromones, len(s.pheromones))

	s.perf.StartPhase(telemetry.PhaseMovement)
	sc := systems.StepContext{
		Env:        s.env,
		Pheromones: s.pheromones,
		Agents:     s.pop,
		Params:     s.behavior,
	}
	for i := 0; i < s.pop.Len(); i++ {
		m := s.pop.At(i)
		res := sc.Move(s.rng, i, m.Agent())
		s.collector.RecordMove(res)
		s.heatmap.Visit(m.Pos.Cell())
	}
	s.perf.AddItems(telemetry.PhaseMovement, s.pop.Len())
	s.best = s.pop.Best()
	s.collector.RecordStep()

	s.perf.StartPhase(telemetry.PhaseObserve)
	snap := s.snapshot(ctl)
	if s.cfg.Telemetry.LogSteps {
		slog.Debug("step",
			"generation", s.generation+1,
			"step", s.step,
			"best_fitness", s.pop.FitnessAt(s.best),
			"food_left", len(s.env.Food),
		)
	}
	s.perf.EndStep()

	s.step++
	return snap, ctl
}

// EndGeneration emits the generation record to every sink and replaces the
// population with the evolved offspring.
func (s *Simulation) EndGeneration(ctx context.Context) (telemetry.GenerationRecord, error) {
	rec := telemetry.ComputeGenerationRecord(s.generation, s.pop.Traits())
	s.collector.Fill(&rec)
	rec.FoodRemaining = len(s.env.Food)

	perf := s.perf.Stats()
	slog.Info("generation complete", "stats", rec, "perf", perf)

	for _, sink := range s.opts.Sinks {
		if err := sink.RecordGeneration(ctx, rec); err != nil {
			return rec, fmt.Errorf("recording generation %d: %w", rec.Generation, err)
		}
	}
	if s.opts.Perf != nil {
		if err := s.opts.Perf.WritePerf(perf, rec.Generation); err != nil {
			return rec, fmt.Errorf("recording perf for generation %d: %w", rec.Generation, err)
		}
	}

	next, err := evolution.Reproduce(s.rng, s.pop, s.arena, s.evoParams)
	if err != nil {
		return rec, err
	}
	s.evolutions++
	s.pop = next
	s.generation++
	return rec, nil
}

// Population returns the live population.
func (s *Simulation) Population() *population.Population {
	return s.pop
}

// Arena returns the lineage arena.
func (s *Simulation) Arena() *population.Arena {
	return s.arena
}

// Environment returns the current generation's environment, nil before the
// first generation starts.
func (s *Simulation) Environment() *systems.Environment {
	return s.env
}

// Generation returns the 0-based index of the current generation.
func (s *Simulation) Generation() int {
	return s.generation
}

// StepIndex returns the number of steps completed in the current generation.
func (s *Simulation) StepIndex() int {
	return s.step
}

// Evolutions returns how many times the population has been bred.
func (s *Simulation) Evolutions() int {
	return s.evolutions
}
