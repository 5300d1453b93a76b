package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/evogrid/config"
	"github.com/pthm-cable/evogrid/telemetry"
)

func TestParamVector_RoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	raw := pv.ExtractFromConfig(cfg)
	if len(raw) != pv.Dim() {
		t.Fatalf("extracted %d values for %d specs", len(raw), pv.Dim())
	}
	for i, spec := range pv.Specs {
		if raw[i] != spec.Default {
			t.Errorf("%s: config default %v, spec default %v", spec.Name, raw[i], spec.Default)
		}
	}

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestParamVector_ApplyClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	values := make([]float64, pv.Dim())
	for i := range values {
		values[i] = 100
	}
	pv.ApplyToConfig(cfg, values)

	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Max {
			t.Errorf("%s = %v, want clamped to %v", spec.Name, got[i], spec.Max)
		}
	}
}

func TestComputeFitness(t *testing.T) {
	if computeFitness(nil) != failedRunPenalty {
		t.Error("a run without records should score the failure penalty")
	}

	// Hazards can push average fitness negative; a real run still beats a failed one.
	poor := []telemetry.GenerationRecord{{AvgFitness: -40, BestFitness: -10}}
	if got := computeFitness(poor); got >= computeFitness(nil) {
		t.Errorf("negative-fitness run scored %v, not better than a failed run", got)
	}

	records := []telemetry.GenerationRecord{
		{AvgFitness: 1, BestFitness: 2},
		{AvgFitness: 2, BestFitness: 3},
		{AvgFitness: 3, BestFitness: 4},
		{AvgFitness: 5, BestFitness: 8},
	}
	// Last quarter is the final record: -(5 + 0.25*8)
	if got := computeFitness(records); math.Abs(got+7) > 1e-9 {
		t.Errorf("computeFitness = %v, want -7", got)
	}
}

func TestEvaluate_RunsEverySeed(t *testing.T) {
	cfg := config.Defaults()
	cfg.Population.Generations = 2
	cfg.World.Lifespan = 3
	cfg.Population.NumAgents = 6

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, []int64{1, 2}, cfg)
	score := fe.Evaluate(pv.DefaultVector())

	if math.IsInf(score, 0) || math.IsNaN(score) {
		t.Errorf("score = %v", score)
	}
	if n := len(fe.BestRecords()); n != 2 {
		t.Errorf("best run has %d records, want 2", n)
	}
	if cfg.Mutation.Rate != 0.2 {
		t.Error("evaluation mutated the base config")
	}
}

func TestParamVector_InitialPoint(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()
	cfg.Mutation.Rate = 0.45
	cfg.Behavior.SenseRadius = 50 // outside the search range

	fromConfig, err := pv.InitialPoint("config", cfg)
	if err != nil {
		t.Fatalf("InitialPoint(config): %v", err)
	}
	if fromConfig[0] != 0.45 {
		t.Errorf("mutation_rate start = %v, want loaded 0.45", fromConfig[0])
	}
	if fromConfig[5] != pv.Specs[5].Max {
		t.Errorf("sense_radius start = %v, want clamped to %v", fromConfig[5], pv.Specs[5].Max)
	}

	fromDefaults, err := pv.InitialPoint("defaults", cfg)
	if err != nil {
		t.Fatalf("InitialPoint(defaults): %v", err)
	}
	for i, spec := range pv.Specs {
		if fromDefaults[i] != spec.Default {
			t.Errorf("%s start = %v, want table default %v", spec.Name, fromDefaults[i], spec.Default)
		}
	}

	if _, err := pv.InitialPoint("random", cfg); err == nil {
		t.Error("expected error for unknown start point")
	}
}

func TestEvaluate_FailedRunsScorePenalty(t *testing.T) {
	cfg := config.Defaults()
	cfg.Population.NumAgents = 1 // rejected by the simulation

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, []int64{1}, cfg)
	if score := fe.Evaluate(pv.DefaultVector()); score != failedRunPenalty {
		t.Errorf("score = %v, want %v", score, failedRunPenalty)
	}
}
