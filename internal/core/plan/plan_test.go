package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/wpdeploy/internal/core/config"
	"github.com/artpar/wpdeploy/internal/core/domain"
)

// =============================================================================
// Test Helpers
// =============================================================================

// resolveFor runs the real resolution engine over the default templates plus
// the given environment inputs, the way the engine does before planning.
func resolveFor(t *testing.T, inputs map[string]string) config.Resolved {
	t.Helper()
	templates := config.Defaults().Merged(inputs)
	return config.Resolve(templates, config.Context{
		"environment": "production",
		"timestamp":   "20260830120000",
		"hash":        "abc1234",
		"local_path":  "/home/dev/site",
	})
}

func remoteEnv() map[string]string {
	return map[string]string{
		"host":          "example.com",
		"ssh_user":      "deploy",
		"path":          "/var/www",
		"writable_path": "/tmp",
		"sync_dir":      "%%uploads_dir%%",
	}
}

func stepTexts(p Plan) []string {
	texts := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		texts[i] = s.Text
	}
	return texts
}

// =============================================================================
// Registry Tests
// =============================================================================

func TestLookup_UnknownModeCombination(t *testing.T) {
	_, err := Lookup(domain.OperationDump, domain.ModeUploads)
	var modeErr *UnknownModeError
	require.ErrorAs(t, err, &modeErr)
	assert.Equal(t, domain.OperationDump, modeErr.Operation)
	assert.Equal(t, domain.ModeUploads, modeErr.Mode)
}

func TestLookup_EveryPushPullModeRegistered(t *testing.T) {
	modes := []domain.Mode{
		domain.ModeDatabase, domain.ModeUploads, domain.ModeThemes,
		domain.ModePlugins, domain.ModeCore,
	}
	for _, op := range []domain.Operation{domain.OperationPush, domain.OperationPull} {
		for _, mode := range modes {
			_, err := Lookup(op, mode)
			assert.NoError(t, err, "%s/%s", op, mode)
		}
	}
}

// =============================================================================
// Push Database Tests
// =============================================================================

func TestBuildPushDatabase_StepOrder(t *testing.T) {
	cfg := resolveFor(t, remoteEnv())
	p, err := Build(domain.OperationPush, domain.ModeDatabase, cfg, Options{Cleanup: true})
	require.NoError(t, err)

	texts := stepTexts(p)
	require.Len(t, texts, 5)

	// Export, upload, local cleanup, remote import, remote cleanup.
	assert.Contains(t, texts[0], "wp db export")
	assert.Contains(t, texts[1], "rsync")
	assert.Contains(t, texts[1], "/tmp/production-abc1234.sql")
	assert.Contains(t, texts[2], "rm -f /home/dev/site/production-20260830120000.sql")
	assert.Contains(t, texts[3], "wp db import /tmp/production-abc1234.sql")
	assert.Contains(t, texts[4], "rm -f /tmp/production-abc1234.sql")
}

func TestBuildPushDatabase_PrefersMysqldumpWhenLocalCredentialsKnown(t *testing.T) {
	templates := config.Defaults().Merged(remoteEnv())
	cfg := config.Resolve(templates, config.Context{
		"environment":      "production",
		"timestamp":        "20260830120000",
		"hash":             "abc1234",
		"local_path":       "/home/dev/site",
		"local_db_name":    "wp_dev",
		"local_db_options": "-h localhost -u dev -psecret",
	})

	p, err := Build(domain.OperationPush, domain.ModeDatabase, cfg, Options{Cleanup: true})
	require.NoError(t, err)
	assert.Contains(t, stepTexts(p)[0], "mysqldump -h localhost -u dev -psecret wp_dev")
}

func TestBuildPushDatabase_Artifacts(t *testing.T) {
	cfg := resolveFor(t, remoteEnv())
	p, err := Build(domain.OperationPush, domain.ModeDatabase, cfg, Options{Cleanup: true})
	require.NoError(t, err)

	assert.Equal(t, []domain.Artifact{
		{Path: "/home/dev/site/production-20260830120000.sql", Location: domain.ArtifactLocal},
		{Path: "/tmp/production-abc1234.sql", Location: domain.ArtifactRemote},
	}, p.Artifacts)
}

// =============================================================================
// Pull Database Tests
// =============================================================================

func TestBuildPullDatabase_GuardsFollowFlags(t *testing.T) {
	cfg := resolveFor(t, remoteEnv())
	p, err := Build(domain.OperationPull, domain.ModeDatabase, cfg, Options{Backup: false, Cleanup: false})
	require.NoError(t, err)

	require.Len(t, p.Steps, 6)
	assert.False(t, p.Steps[2].Guard, "remote cleanup disabled")
	assert.False(t, p.Steps[3].Guard, "backup disabled")
	assert.False(t, p.Steps[5].Guard, "local cleanup disabled")
	assert.True(t, p.Steps[0].Guard)
	assert.True(t, p.Steps[1].Guard)
	assert.True(t, p.Steps[4].Guard)
}

func TestBuildPullDatabase_BackupArtifactOnlyWhenRequested(t *testing.T) {
	cfg := resolveFor(t, remoteEnv())

	plain, err := Build(domain.OperationPull, domain.ModeDatabase, cfg, Options{Cleanup: true})
	require.NoError(t, err)
	withBackup, err := Build(domain.OperationPull, domain.ModeDatabase, cfg, Options{Backup: true, Cleanup: true})
	require.NoError(t, err)

	assert.Len(t, plain.Artifacts, 2)
	require.Len(t, withBackup.Artifacts, 3)
	assert.Equal(t,
		domain.Artifact{Path: "/home/dev/site/backup-production-20260830120000.sql", Location: domain.ArtifactLocal},
		withBackup.Artifacts[2])
}

// =============================================================================
// File Sync Tests
// =============================================================================

func TestBuildPushSync_SingleRsyncStep(t *testing.T) {
	cfg := resolveFor(t, remoteEnv())
	p, err := Build(domain.OperationPush, domain.ModeUploads, cfg, Options{})
	require.NoError(t, err)

	require.Len(t, p.Steps, 1)
	assert.Equal(t,
		"rsync -az --delete -e 'ssh -p 22' /home/dev/site/wp-content/uploads/ deploy@example.com:/var/www/wp-content/uploads/",
		p.Steps[0].Text)
	assert.Empty(t, p.Artifacts)
}

func TestBuildPushSync_ExcludingVariantWhenExcludeConfigured(t *testing.T) {
	env := remoteEnv()
	env["exclude"] = ".deployignore"
	cfg := resolveFor(t, env)

	p, err := Build(domain.OperationPush, domain.ModeUploads, cfg, Options{})
	require.NoError(t, err)
	assert.Contains(t, p.Steps[0].Text, "--exclude-from=.deployignore")
}

func TestBuildPullCore_ExcludesContentDir(t *testing.T) {
	cfg := resolveFor(t, remoteEnv())
	p, err := Build(domain.OperationPull, domain.ModeCore, cfg, Options{})
	require.NoError(t, err)

	require.Len(t, p.Steps, 1)
	assert.Contains(t, p.Steps[0].Text, "--exclude=wp-content")
	assert.Contains(t, p.Steps[0].Text, "deploy@example.com:/var/www/ /home/dev/site/")
}

// =============================================================================
// Dump Tests
// =============================================================================

func TestBuildDump_SingleStep(t *testing.T) {
	templates := config.Defaults().Merged(map[string]string{
		"db_name":     "wp_prod",
		"db_user":     "wp",
		"db_password": "secret",
	})
	cfg := config.Resolve(templates, config.Context{
		"environment": "local",
		"timestamp":   "20260830120000",
		"local_path":  "/home/dev/site",
	})

	p, err := Build(domain.OperationDump, domain.ModeNone, cfg, Options{})
	require.NoError(t, err)

	require.Len(t, p.Steps, 1)
	assert.Equal(t,
		"mysqldump -h localhost -u wp -psecret wp_prod > /home/dev/site/local-20260830120000.sql",
		p.Steps[0].Text)
	assert.Empty(t, p.Artifacts)
}
