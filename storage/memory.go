package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pthm-cable/evogrid/telemetry"
)

// MemoryStore keeps runs in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	runs        map[string]Run
	generations map[string]map[int]telemetry.GenerationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:        make(map[string]Run),
		generations: make(map[string]map[int]telemetry.GenerationRecord),
	}
}

func (s *MemoryStore) Init(context.Context) error {
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	return run, ok, nil
}

// SaveGeneration stores a record, replacing one with the same generation.
func (s *MemoryStore) SaveGeneration(_ context.Context, runID string, rec telemetry.GenerationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("unknown run %s", runID)
	}
	gens, ok := s.generations[runID]
	if !ok {
		gens = make(map[int]telemetry.GenerationRecord)
		s.generations[runID] = gens
	}
	gens[rec.Generation] = rec
	return nil
}

// ListGenerations returns the run's records ordered by generation.
func (s *MemoryStore) ListGenerations(_ context.Context, runID string) ([]telemetry.GenerationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gens := s.generations[runID]
	out := make([]telemetry.GenerationRecord, 0, len(gens))
	for _, rec := range gens {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Generation < out[j].Generation })
	return out, nil
}
