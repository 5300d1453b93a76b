package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/evogrid/telemetry"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := Run{
		ID:        NewRunID(),
		Seed:      42,
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Config:    "world:\n  grid_size: 20\n",
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	got, ok, err := store.GetRun(ctx, run.ID)
	if err != nil || !ok {
		t.Fatalf("get run: ok=%v err=%v", ok, err)
	}
	if got.Seed != run.Seed || got.Config != run.Config || !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("run round trip mismatch: got %+v, want %+v", got, run)
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Errorf("missing run: ok=%v err=%v", ok, err)
	}

	rec := NewRecorder(store, run.ID)
	// Written out of order; listing must sort by generation.
	for _, g := range []int{2, 1, 3} {
		r := telemetry.GenerationRecord{Generation: g, AvgFitness: float64(g), BestFitness: float64(2 * g), FoodEaten: g}
		if err := rec.RecordGeneration(ctx, r); err != nil {
			t.Fatalf("record generation %d: %v", g, err)
		}
	}

	gens, err := store.ListGenerations(ctx, run.ID)
	if err != nil {
		t.Fatalf("list generations: %v", err)
	}
	if len(gens) != 3 {
		t.Fatalf("expected 3 generations, got %d", len(gens))
	}
	for i, g := range gens {
		if g.Generation != i+1 {
			t.Errorf("generation %d out of order: %d", i, g.Generation)
		}
		if g.BestFitness != float64(2*(i+1)) || g.FoodEaten != i+1 {
			t.Errorf("generation %d fields mismatch: %+v", i+1, g)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	defer store.Close()
	exerciseStore(t, store)
}

func TestSQLiteStore_RequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err := store.SaveRun(context.Background(), Run{ID: "x"}); err == nil {
		t.Error("expected error before Init")
	}
}

func TestNewStore(t *testing.T) {
	if _, err := NewStore("memory", ""); err != nil {
		t.Errorf("memory: %v", err)
	}
	if _, err := NewStore("sqlite", "x.db"); err != nil {
		t.Errorf("sqlite: %v", err)
	}
	if _, err := NewStore("postgres", ""); err == nil {
		t.Error("expected error for unsupported backend")
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Errorf("run ids should be unique and non-empty: %q %q", a, b)
	}
}
