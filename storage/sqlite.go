package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pthm-cable/evogrid/telemetry"
)

// SQLiteStore persists runs in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if run.ID == "" {
		return errors.New("run id is required")
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, started_at, config)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seed = excluded.seed,
			started_at = excluded.started_at,
			config = excluded.config
	`, run.ID, run.Seed, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Config)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	run := Run{ID: id}
	var startedAt string
	err = db.QueryRowContext(ctx, `SELECT seed, started_at, config FROM runs WHERE id = ?`, id).
		Scan(&run.Seed, &startedAt, &run.Config)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Run{}, false, fmt.Errorf("decode run %s start time: %w", id, err)
	}
	return run, true, nil
}

func (s *SQLiteStore) SaveGeneration(ctx context.Context, runID string, rec telemetry.GenerationRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (
			run_id, generation, avg_fitness, best_fitness, avg_speed, avg_dir_bias, avg_food_seek,
			fitness_std, agents, cooperative, food_eaten, hazards_eaten, blocked_moves, food_remaining
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			avg_fitness = excluded.avg_fitness,
			best_fitness = excluded.best_fitness,
			avg_speed = excluded.avg_speed,
			avg_dir_bias = excluded.avg_dir_bias,
			avg_food_seek = excluded.avg_food_seek,
			fitness_std = excluded.fitness_std,
			agents = excluded.agents,
			cooperative = excluded.cooperative,
			food_eaten = excluded.food_eaten,
			hazards_eaten = excluded.hazards_eaten,
			blocked_moves = excluded.blocked_moves,
			food_remaining = excluded.food_remaining
	`, runID, rec.Generation, rec.AvgFitness, rec.BestFitness, rec.AvgSpeed, rec.AvgDirBias, rec.AvgFoodSeek,
		rec.FitnessStd, rec.Agents, rec.Cooperative, rec.FoodEaten, rec.HazardsEaten, rec.BlockedMoves, rec.FoodRemaining)
	if err != nil {
		return fmt.Errorf("save generation %d of run %s: %w", rec.Generation, runID, err)
	}
	return nil
}

func (s *SQLiteStore) ListGenerations(ctx context.Context, runID string) ([]telemetry.GenerationRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, avg_fitness, best_fitness, avg_speed, avg_dir_bias, avg_food_seek,
			fitness_std, agents, cooperative, food_eaten, hazards_eaten, blocked_moves, food_remaining
		FROM generations
		WHERE run_id = ?
		ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []telemetry.GenerationRecord
	for rows.Next() {
		var rec telemetry.GenerationRecord
		if err := rows.Scan(
			&rec.Generation, &rec.AvgFitness, &rec.BestFitness, &rec.AvgSpeed, &rec.AvgDirBias, &rec.AvgFoodSeek,
			&rec.FitnessStd, &rec.Agents, &rec.Cooperative, &rec.FoodEaten, &rec.HazardsEaten, &rec.BlockedMoves, &rec.FoodRemaining,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			config TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL REFERENCES runs(id),
			generation INTEGER NOT NULL,
			avg_fitness REAL NOT NULL,
			best_fitness REAL NOT NULL,
			avg_speed REAL NOT NULL,
			avg_dir_bias REAL NOT NULL,
			avg_food_seek REAL NOT NULL,
			fitness_std REAL NOT NULL,
			agents INTEGER NOT NULL,
			cooperative INTEGER NOT NULL,
			food_eaten INTEGER NOT NULL,
			hazards_eaten INTEGER NOT NULL,
			blocked_moves INTEGER NOT NULL,
			food_remaining INTEGER NOT NULL,
			PRIMARY KEY (run_id, generation)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
