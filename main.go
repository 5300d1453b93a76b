package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/evogrid/config"
	"github.com/pthm-cable/evogrid/game"
	"github.com/pthm-cable/evogrid/storage"
	"github.com/pthm-cable/evogrid/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	storeKind := flag.String("store", "memory", "Run store backend: memory or sqlite")
	dbPath := flag.String("db", "evogrid.db", "SQLite database path when -store=sqlite")
	generations := flag.Int("generations", 0, "Override number of generations (0 = use config)")
	agents := flag.Int("agents", 0, "Override population size (0 = use config)")
	logSteps := flag.Bool("log-steps", false, "Log every step at debug level")
	stepDelay := flag.Duration("step-delay", 0, "Pause between steps")
	fastDelay := flag.Duration("fast-step-delay", 0, "Pause between steps in fast mode")
	genDelay := flag.Duration("generation-delay", 0, "Pause between generations")
	fast := flag.Bool("fast", false, "Start in fast mode")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *logSteps {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *generations > 0 {
		cfg.Population.Generations = *generations
	}
	if *agents > 0 {
		cfg.Population.NumAgents = *agents
	}
	if *logSteps {
		cfg.Telemetry.LogSteps = true
	}
	cfg.Refresh()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, runOptions{
		seed:      rngSeed,
		outputDir: *outputDir,
		storeKind: *storeKind,
		dbPath:    *dbPath,
		stepDelay: *stepDelay,
		fastDelay: *fastDelay,
		genDelay:  *genDelay,
		fast:      *fast,
	}); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	seed      int64
	outputDir string
	storeKind string
	dbPath    string
	stepDelay time.Duration
	fastDelay time.Duration
	genDelay  time.Duration
	fast      bool
}

func run(ctx context.Context, cfg *config.Config, ro runOptions) error {
	output, err := telemetry.NewOutputManager(ro.outputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := output.Close(); err != nil {
			slog.Error("failed to close output files", "error", err)
		}
	}()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	store, err := storage.NewStore(ro.storeKind, ro.dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.CloseIfSupported(store); err != nil {
			slog.Error("failed to close run store", "backend", ro.storeKind, "error", err)
		}
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	cfgYAML, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	runID := storage.NewRunID()
	if err := store.SaveRun(ctx, storage.Run{
		ID:        runID,
		Seed:      ro.seed,
		StartedAt: time.Now().UTC(),
		Config:    string(cfgYAML),
	}); err != nil {
		return err
	}

	opts := game.Options{
		Seed:            ro.seed,
		Sinks:           []game.RecordSink{storage.NewRecorder(store, runID)},
		StepDelay:       ro.stepDelay,
		FastStepDelay:   ro.fastDelay,
		GenerationDelay: ro.genDelay,
	}
	if output != nil {
		opts.Sinks = append(opts.Sinks, output)
		opts.Perf = output
	}
	if ro.fast {
		opts.Input = game.InputFunc(func(c game.Control) game.Control {
			c.Fast = true
			return c
		})
	}

	sim, err := game.New(cfg, opts)
	if err != nil {
		return err
	}

	slog.Info("starting simulation",
		"run_id", runID,
		"seed", ro.seed,
		"agents", cfg.Population.NumAgents,
		"generations", cfg.Population.Generations,
		"lifespan", cfg.World.Lifespan,
	)

	summary, err := sim.Run(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("simulation interrupted", "run_id", runID, "generations", len(summary.Records))
		return nil
	}
	if err != nil {
		return err
	}

	saved, err := store.ListGenerations(ctx, runID)
	if err != nil {
		return err
	}
	slog.Info("simulation finished",
		"run_id", runID,
		"generations", len(summary.Records),
		"evolutions", summary.Evolutions,
		"stored", len(saved),
		"lineage_records", sim.Arena().Len(),
		"stopped", summary.Stopped,
	)
	return nil
}
