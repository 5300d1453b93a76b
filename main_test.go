package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/evogrid/config"
	"github.com/pthm-cable/evogrid/storage"
	"github.com/pthm-cable/evogrid/telemetry"
)

func TestRun_SQLiteAndOutput(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	outDir := filepath.Join(dir, "out")

	cfg := config.Defaults()
	cfg.Population.Generations = 2
	cfg.World.Lifespan = 3
	cfg.Population.NumAgents = 4

	err := run(context.Background(), cfg, runOptions{
		seed:      7,
		outputDir: outDir,
		storeKind: "sqlite",
		dbPath:    dbPath,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, name := range []string{telemetry.GenerationsFile, telemetry.PerfFile, telemetry.ConfigFile} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	// The store was closed on return; a fresh handle must see a readable database.
	store := storage.NewSQLiteStore(dbPath)
	defer store.Close()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("reopening store: %v", err)
	}
}

func TestRun_UnknownStore(t *testing.T) {
	cfg := config.Defaults()
	if err := run(context.Background(), cfg, runOptions{storeKind: "redis"}); err == nil {
		t.Error("expected error for unknown store backend")
	}
}

func TestRun_CancelledIsNotAFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.Defaults()
	cfg.Population.Generations = 1
	if err := run(ctx, cfg, runOptions{seed: 1}); err != nil {
		t.Errorf("cancelled run = %v, want nil", err)
	}
}
