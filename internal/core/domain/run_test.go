package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mode Tests
// =============================================================================

func TestParseMode_ValidModes(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"database", ModeDatabase},
		{"uploads", ModeUploads},
		{"themes", ModeThemes},
		{"plugins", ModePlugins},
		{"core", ModeCore},
		{"DATABASE", ModeDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestParseMode_Invalid(t *testing.T) {
	_, err := ParseMode("files")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

// =============================================================================
// Run Tests
// =============================================================================

func TestNewRun_InitialState(t *testing.T) {
	run := NewRun("production", OperationPush, ModeDatabase, 1)
	assert.Equal(t, RunStateRunning, run.State)
	assert.Equal(t, "production", run.Environment)
	assert.Nil(t, run.FinishedAt)
	assert.False(t, run.StartedAt.IsZero())
}

func TestNewRunID_Format(t *testing.T) {
	id := NewRunID()
	assert.Regexp(t, regexp.MustCompile(`^run_[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, NewRunID())
}

func TestFinish_SetsStateAndTimestamp(t *testing.T) {
	run := NewRun("production", OperationPull, ModeUploads, 1)
	run.Finish(RunStateAborted)
	assert.Equal(t, RunStateAborted, run.State)
	require.NotNil(t, run.FinishedAt)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
}
