package journal

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/artpar/wpdeploy/internal/core/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the journal database and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, NewJournalError("NewSQLiteStore", "", "failed to open database", ErrConnectionFailed)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewJournalError("NewSQLiteStore", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewJournalError("NewSQLiteStore", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations runs schema migrations from the embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Row Mapping
// =============================================================================

// runRow represents a run row in the database.
type runRow struct {
	ID          string  `db:"id"`
	Environment string  `db:"environment"`
	Operation   string  `db:"operation"`
	Mode        string  `db:"mode"`
	Verbosity   int     `db:"verbosity"`
	State       string  `db:"state"`
	Steps       *string `db:"steps"`
	Artifacts   *string `db:"artifacts"`
	HookOutput  string  `db:"hook_output"`
	StartedAt   string  `db:"started_at"`
	FinishedAt  *string `db:"finished_at"`
}

func toRow(run *domain.Run) (*runRow, error) {
	row := &runRow{
		ID:          run.ID,
		Environment: run.Environment,
		Operation:   string(run.Operation),
		Mode:        string(run.Mode),
		Verbosity:   run.Verbosity,
		State:       string(run.State),
		HookOutput:  run.HookOutput,
		StartedAt:   run.StartedAt.Format(time.RFC3339Nano),
	}
	if run.FinishedAt != nil {
		s := run.FinishedAt.Format(time.RFC3339Nano)
		row.FinishedAt = &s
	}
	if len(run.Steps) > 0 {
		data, err := json.Marshal(run.Steps)
		if err != nil {
			return nil, ErrInvalidData
		}
		s := string(data)
		row.Steps = &s
	}
	if len(run.Artifacts) > 0 {
		data, err := json.Marshal(run.Artifacts)
		if err != nil {
			return nil, ErrInvalidData
		}
		s := string(data)
		row.Artifacts = &s
	}
	return row, nil
}

func (r *runRow) toDomain() (*domain.Run, error) {
	run := &domain.Run{
		ID:          r.ID,
		Environment: r.Environment,
		Operation:   domain.Operation(r.Operation),
		Mode:        domain.Mode(r.Mode),
		Verbosity:   r.Verbosity,
		State:       domain.RunState(r.State),
		HookOutput:  r.HookOutput,
	}

	startedAt, err := time.Parse(time.RFC3339Nano, r.StartedAt)
	if err != nil {
		return nil, ErrInvalidData
	}
	run.StartedAt = startedAt

	if r.FinishedAt != nil {
		finishedAt, err := time.Parse(time.RFC3339Nano, *r.FinishedAt)
		if err != nil {
			return nil, ErrInvalidData
		}
		run.FinishedAt = &finishedAt
	}
	if r.Steps != nil {
		if err := json.Unmarshal([]byte(*r.Steps), &run.Steps); err != nil {
			return nil, ErrInvalidData
		}
	}
	if r.Artifacts != nil {
		if err := json.Unmarshal([]byte(*r.Artifacts), &run.Artifacts); err != nil {
			return nil, ErrInvalidData
		}
	}
	return run, nil
}

// =============================================================================
// Run Operations
// =============================================================================

func (s *SQLiteStore) RecordRun(ctx context.Context, run *domain.Run) error {
	row, err := toRow(run)
	if err != nil {
		return NewJournalError("RecordRun", run.ID, "failed to serialize run", err)
	}

	query := `
		INSERT INTO runs (id, environment, operation, mode, verbosity, state,
		                  steps, artifacts, hook_output, started_at, finished_at)
		VALUES (:id, :environment, :operation, :mode, :verbosity, :state,
		        :steps, :artifacts, :hook_output, :started_at, :finished_at)`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return NewJournalError("RecordRun", run.ID, "failed to insert run", err)
	}
	return nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, run *domain.Run) error {
	row, err := toRow(run)
	if err != nil {
		return NewJournalError("FinishRun", run.ID, "failed to serialize run", err)
	}

	query := `
		UPDATE runs
		SET state = :state, steps = :steps, artifacts = :artifacts,
		    hook_output = :hook_output, finished_at = :finished_at
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return NewJournalError("FinishRun", run.ID, "failed to update run", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return NewJournalError("FinishRun", run.ID, "failed to check update", err)
	}
	if affected == 0 {
		return NewJournalError("FinishRun", run.ID, "run not found", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	var row runRow
	query := `SELECT * FROM runs WHERE id = ?`
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewJournalError("GetRun", id, "run not found", ErrNotFound)
		}
		return nil, NewJournalError("GetRun", id, "failed to query run", err)
	}
	run, err := row.toDomain()
	if err != nil {
		return nil, NewJournalError("GetRun", id, "failed to deserialize run", err)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows []runRow
	query := `SELECT * FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, NewJournalError("ListRuns", "", "failed to query runs", err)
	}

	runs := make([]domain.Run, 0, len(rows))
	for i := range rows {
		run, err := rows[i].toDomain()
		if err != nil {
			return nil, NewJournalError("ListRuns", rows[i].ID, "failed to deserialize run", err)
		}
		runs = append(runs, *run)
	}
	return runs, nil
}
