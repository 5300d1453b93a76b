// Package storage persists runs and their generation records.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/evogrid/telemetry"
)

// Run describes one simulation run.
type Run struct {
	ID        string
	Seed      int64
	StartedAt time.Time
	Config    string // YAML snapshot
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Store defines persistence operations for runs and generation records.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	SaveGeneration(ctx context.Context, runID string, rec telemetry.GenerationRecord) error
	ListGenerations(ctx context.Context, runID string) ([]telemetry.GenerationRecord, error)
}

// Recorder writes generation records of a single run to a store.
type Recorder struct {
	store Store
	runID string
}

// NewRecorder binds a store to a run.
func NewRecorder(store Store, runID string) *Recorder {
	return &Recorder{store: store, runID: runID}
}

// RunID returns the bound run identifier.
func (r *Recorder) RunID() string {
	return r.runID
}

// RecordGeneration saves one generation record.
func (r *Recorder) RecordGeneration(ctx context.Context, rec telemetry.GenerationRecord) error {
	return r.store.SaveGeneration(ctx, r.runID, rec)
}
