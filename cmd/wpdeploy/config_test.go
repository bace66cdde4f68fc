package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// LoadConfig Tests
// =============================================================================

func TestLoadConfig_Defaults(t *testing.T) {
	// Run from an empty directory so no wpdeploy.yml is picked up.
	chdirTemp(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, ".wpdeploy/history.db", cfg.Journal.Path)
	assert.Empty(t, cfg.Environments)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "wpdeploy.yml")
	content := `
log:
  level: debug
  format: json
journal:
  enabled: false
environments:
  local:
    path: /home/dev/site
    db_name: wp_dev
  production:
    host: example.com
    ssh_user: deploy
    path: /var/www
    writable_path: /tmp
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Journal.Enabled)
	assert.Equal(t, "/home/dev/site", cfg.Environments["local"]["path"])
	assert.Equal(t, "example.com", cfg.Environments["production"]["host"])
	assert.Equal(t, "/tmp", cfg.Environments["production"]["writable_path"])
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/wpdeploy.yml")
	assert.Error(t, err)
}

func TestLoadConfig_MissingDefaultFileIsFine(t *testing.T) {
	chdirTemp(t)
	_, err := LoadConfig("")
	assert.NoError(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "wpdeploy.yml")
	require.NoError(t, os.WriteFile(path, []byte("environments: [not a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

// =============================================================================
// SetupLogger Tests
// =============================================================================

func TestSetupLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := SetupLogger(&Config{Log: LogConfig{Level: tt.level, Format: "text"}})
			assert.True(t, logger.Enabled(nil, tt.enabled))
			if tt.enabled > slog.LevelDebug {
				assert.False(t, logger.Enabled(nil, tt.enabled-4))
			}
		})
	}
}
