package migration

import (
	"context"

	"gogaze/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the event store schema. Statements use types that
// both SQLite and PostgreSQL accept and are safe to repeat.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	steps := []struct {
		name string
		sql  string
	}{
		{"runs", `
			CREATE TABLE IF NOT EXISTS runs (
				id TEXT PRIMARY KEY,
				source TEXT NOT NULL,
				params_hash TEXT NOT NULL,
				started_at BIGINT NOT NULL,
				duration_ms BIGINT NOT NULL,
				trial_count INTEGER NOT NULL
			)`},
		{"trials", `
			CREATE TABLE IF NOT EXISTS trials (
				id TEXT PRIMARY KEY,
				run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
				trial_index INTEGER NOT NULL,
				samples INTEGER NOT NULL,
				duration BIGINT NOT NULL,
				blinks INTEGER NOT NULL,
				fixations INTEGER NOT NULL,
				saccades INTEGER NOT NULL,
				microsaccades INTEGER NOT NULL,
				mean_fixation_duration DOUBLE PRECISION NOT NULL,
				mean_saccade_amplitude DOUBLE PRECISION NOT NULL,
				mean_pupil DOUBLE PRECISION NOT NULL
			)`},
		{"events", `
			CREATE TABLE IF NOT EXISTS events (
				trial_id TEXT NOT NULL REFERENCES trials(id) ON DELETE CASCADE,
				seq INTEGER NOT NULL,
				kind TEXT NOT NULL,
				start_time BIGINT NOT NULL,
				end_time BIGINT NOT NULL,
				duration BIGINT NOT NULL,
				start_x DOUBLE PRECISION,
				start_y DOUBLE PRECISION,
				end_x DOUBLE PRECISION,
				end_y DOUBLE PRECISION,
				PRIMARY KEY (trial_id, seq)
			)`},
		{"messages", `
			CREATE TABLE IF NOT EXISTS messages (
				trial_id TEXT NOT NULL REFERENCES trials(id) ON DELETE CASCADE,
				seq INTEGER NOT NULL,
				time BIGINT NOT NULL,
				text TEXT NOT NULL,
				PRIMARY KEY (trial_id, seq)
			)`},
		{"indexes", `CREATE INDEX IF NOT EXISTS idx_trials_run_id ON trials(run_id)`},
		{"indexes", `CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind)`},
	}

	for _, step := range steps {
		if _, err := db.ExecContext(ctx, step.sql); err != nil {
			return errors.StorageError("failed to create "+step.name, err)
		}
	}
	return nil
}
