// Package journal persists run records so past deployments, their step logs
// and their leftover artifacts can be inspected with `wpdeploy history`.
package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/artpar/wpdeploy/internal/core/domain"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNotFound is returned when a run is not found.
	ErrNotFound = errors.New("run not found")

	// ErrConnectionFailed is returned when opening the database fails.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrMigrationFailed is returned when schema migration fails.
	ErrMigrationFailed = errors.New("database migration failed")

	// ErrInvalidData is returned when JSON serialization fails.
	ErrInvalidData = errors.New("invalid data format")
)

// JournalError wraps errors with the failing operation and run ID.
type JournalError struct {
	Op      string // Operation that failed (e.g., "RecordRun")
	RunID   string
	Message string
	Err     error
}

func (e *JournalError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.RunID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *JournalError) Unwrap() error {
	return e.Err
}

// NewJournalError creates a new JournalError.
func NewJournalError(op, runID, message string, err error) *JournalError {
	return &JournalError{Op: op, RunID: runID, Message: message, Err: err}
}

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for run records.
type Store interface {
	// RecordRun inserts a run in its initial running state.
	RecordRun(ctx context.Context, run *domain.Run) error

	// FinishRun updates a run with its final state, step log, artifacts and
	// hook output.
	FinishRun(ctx context.Context, run *domain.Run) error

	// GetRun returns one run by ID.
	GetRun(ctx context.Context, id string) (*domain.Run, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)

	// Lifecycle
	Close() error
}
