package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"gogaze/domain/core"
	"gogaze/internal/errors"
	"gogaze/internal/migration"
	"gogaze/ports"
)

// Store persists run results in SQLite or PostgreSQL
type Store struct {
	db *sqlx.DB
}

// DriverFor picks the database driver from a DSN. postgres:// and
// postgresql:// URLs use lib/pq, anything else is a SQLite path.
func DriverFor(dsn string) (driver, source string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite3", strings.TrimPrefix(dsn, "sqlite://")
	default:
		return "sqlite3", dsn
	}
}

// Open connects to the database and applies the schema
func Open(ctx context.Context, dsn string) (*Store, error) {
	driver, source := DriverFor(dsn)
	db, err := sqlx.ConnectContext(ctx, driver, source)
	if err != nil {
		return nil, errors.StorageError("failed to connect to "+driver+" database", err)
	}
	if driver == "sqlite3" {
		// one connection keeps in-memory databases shared and serialises writers
		db.SetMaxOpenConns(1)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug().Str("driver", driver).Msg("[Store] schema ready")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type trialRow struct {
	ID                   string  `db:"id"`
	RunID                string  `db:"run_id"`
	TrialIndex           int     `db:"trial_index"`
	Samples              int     `db:"samples"`
	Duration             int64   `db:"duration"`
	Blinks               int     `db:"blinks"`
	Fixations            int     `db:"fixations"`
	Saccades             int     `db:"saccades"`
	Microsaccades        int     `db:"microsaccades"`
	MeanFixationDuration float64 `db:"mean_fixation_duration"`
	MeanSaccadeAmplitude float64 `db:"mean_saccade_amplitude"`
	MeanPupil            float64 `db:"mean_pupil"`
}

// EventRow is a stored event joined with its trial index
type EventRow struct {
	TrialID    string          `db:"trial_id"`
	TrialIndex int             `db:"trial_index"`
	Seq        int             `db:"seq"`
	Kind       string          `db:"kind"`
	StartTime  int64           `db:"start_time"`
	EndTime    int64           `db:"end_time"`
	Duration   int64           `db:"duration"`
	StartX     sql.NullFloat64 `db:"start_x"`
	StartY     sql.NullFloat64 `db:"start_y"`
	EndX       sql.NullFloat64 `db:"end_x"`
	EndY       sql.NullFloat64 `db:"end_y"`
}

type messageRow struct {
	TrialID string `db:"trial_id"`
	Seq     int    `db:"seq"`
	Time    int64  `db:"time"`
	Text    string `db:"text"`
}

// WriteResults stores a run with its trials, events and messages in one transaction
func (s *Store) WriteResults(ctx context.Context, run ports.RunResult) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.StorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO runs (id, source, params_hash, started_at, duration_ms, trial_count)
		VALUES (:id, :source, :params_hash, :started_at, :duration_ms, :trial_count)`,
		RunSummary{
			ID:         run.ID.String(),
			Source:     run.Source,
			ParamsHash: run.Params.String(),
			StartedAt:  run.StartedAt.UnixMilli(),
			DurationMs: run.Duration.Milliseconds(),
			TrialCount: len(run.Trials),
		})
	if err != nil {
		return errors.StorageError("failed to insert run", err)
	}

	for _, tr := range run.Trials {
		if err := s.insertTrial(ctx, tx, run.ID, tr); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.StorageError("failed to commit run", err)
	}
	log.Info().Str("run_id", run.ID.String()).Int("trials", len(run.Trials)).Int("events", run.EventCount()).Msg("[Store] run stored")
	return nil
}

func (s *Store) insertTrial(ctx context.Context, tx *sqlx.Tx, runID core.RunID, tr ports.TrialResult) error {
	sum := tr.Summary
	trialID := tr.Trial.ID.String()
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO trials (id, run_id, trial_index, samples, duration, blinks, fixations, saccades, microsaccades,
			mean_fixation_duration, mean_saccade_amplitude, mean_pupil)
		VALUES (:id, :run_id, :trial_index, :samples, :duration, :blinks, :fixations, :saccades, :microsaccades,
			:mean_fixation_duration, :mean_saccade_amplitude, :mean_pupil)`,
		trialRow{
			ID:                   trialID,
			RunID:                runID.String(),
			TrialIndex:           tr.Trial.Index,
			Samples:              sum.Samples,
			Duration:             sum.Duration,
			Blinks:               sum.Blinks,
			Fixations:            sum.Fixations,
			Saccades:             sum.Saccades,
			Microsaccades:        sum.Microsaccades,
			MeanFixationDuration: sum.MeanFixationDuration,
			MeanSaccadeAmplitude: sum.MeanSaccadeAmplitude,
			MeanPupil:            sum.MeanPupil,
		})
	if err != nil {
		return errors.StorageError("failed to insert trial "+trialID, err)
	}

	for i, ev := range tr.Trial.Events.All() {
		row := EventRow{
			TrialID:   trialID,
			Seq:       i,
			Kind:      string(ev.Kind),
			StartTime: ev.StartTime,
			EndTime:   ev.EndTime,
			Duration:  ev.Duration,
		}
		if ev.HasPositions() {
			row.StartX = sql.NullFloat64{Float64: ev.Start.X, Valid: true}
			row.StartY = sql.NullFloat64{Float64: ev.Start.Y, Valid: true}
			row.EndX = sql.NullFloat64{Float64: ev.End.X, Valid: true}
			row.EndY = sql.NullFloat64{Float64: ev.End.Y, Valid: true}
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO events (trial_id, seq, kind, start_time, end_time, duration, start_x, start_y, end_x, end_y)
			VALUES (:trial_id, :seq, :kind, :start_time, :end_time, :duration, :start_x, :start_y, :end_x, :end_y)`, row)
		if err != nil {
			return errors.StorageError("failed to insert event", err)
		}
	}

	for i, m := range tr.Trial.Messages {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO messages (trial_id, seq, time, text)
			VALUES (:trial_id, :seq, :time, :text)`,
			messageRow{TrialID: trialID, Seq: i, Time: m.Time, Text: m.Text})
		if err != nil {
			return errors.StorageError("failed to insert message", err)
		}
	}
	return nil
}

// RunSummary is a stored run header
type RunSummary struct {
	ID         string `db:"id"`
	Source     string `db:"source"`
	ParamsHash string `db:"params_hash"`
	StartedAt  int64  `db:"started_at"`
	DurationMs int64  `db:"duration_ms"`
	TrialCount int    `db:"trial_count"`
}

// ListRuns returns stored runs, most recent first
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	var runs []RunSummary
	err := s.db.SelectContext(ctx, &runs, `
		SELECT id, source, params_hash, started_at, duration_ms, trial_count
		FROM runs
		ORDER BY started_at DESC, id DESC`)
	if err != nil {
		return nil, errors.StorageError("failed to list runs", err)
	}
	return runs, nil
}

// EventsForRun returns the events of a run, optionally restricted to one kind
func (s *Store) EventsForRun(ctx context.Context, runID core.RunID, kind string) ([]EventRow, error) {
	query := `
		SELECT e.trial_id, t.trial_index, e.seq, e.kind, e.start_time, e.end_time, e.duration,
			e.start_x, e.start_y, e.end_x, e.end_y
		FROM events e
		JOIN trials t ON t.id = e.trial_id
		WHERE t.run_id = ?`
	args := []interface{}{runID.String()}
	if kind != "" {
		query += ` AND e.kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY t.trial_index, e.seq`

	var rows []EventRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, errors.StorageError("failed to query events", err)
	}
	return rows, nil
}

// MessagesForTrial returns the stored messages of a trial in recording order
func (s *Store) MessagesForTrial(ctx context.Context, trialID core.TrialID) ([]string, error) {
	var texts []string
	err := s.db.SelectContext(ctx, &texts, s.db.Rebind(`
		SELECT text FROM messages WHERE trial_id = ? ORDER BY seq`), trialID.String())
	if err != nil {
		return nil, errors.StorageError("failed to query messages", err)
	}
	return texts, nil
}
