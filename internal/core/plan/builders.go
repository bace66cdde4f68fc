package plan

import (
	"github.com/artpar/wpdeploy/internal/core/config"
	"github.com/artpar/wpdeploy/internal/core/domain"
	"github.com/artpar/wpdeploy/internal/core/pipeline"
)

// =============================================================================
// Database Builders
// =============================================================================

// buildPushDatabase exports the local database, uploads the dump, removes
// the local copy, imports on the remote and removes the remote copy. The
// upload must precede the local cleanup, which must precede the remote
// import: later steps read files earlier steps produce.
func buildPushDatabase(cfg config.Resolved, _ Options) (Plan, error) {
	export, err := command(cfg, "local_export", "local_export_wp")
	if err != nil {
		return Plan{}, err
	}
	upload, err := command(cfg, "upload_dump")
	if err != nil {
		return Plan{}, err
	}
	localCleanup, err := command(cfg, "local_cleanup")
	if err != nil {
		return Plan{}, err
	}
	remoteImport, err := command(cfg, "remote_import", "remote_import_wp")
	if err != nil {
		return Plan{}, err
	}
	remoteCleanup, err := command(cfg, "remote_cleanup")
	if err != nil {
		return Plan{}, err
	}

	var p Plan
	p.Steps = []pipeline.Step{
		pipeline.NewStep(export, "Local database exported", "Failed to export local database"),
		pipeline.NewStep(upload, "Dump uploaded", "Failed to upload dump"),
		pipeline.NewStep(localCleanup, "Local dump removed", "Failed to remove local dump"),
		pipeline.NewStep(remoteImport, "Remote database imported", "Failed to import remote database"),
		pipeline.NewStep(remoteCleanup, "Remote dump removed", "Failed to remove remote dump"),
	}
	p.Artifacts = append(p.Artifacts, artifact(cfg, "local_dump_file", domain.ArtifactLocal)...)
	p.Artifacts = append(p.Artifacts, artifact(cfg, "remote_dump_file", domain.ArtifactRemote)...)
	return p, nil
}

// buildPullDatabase exports the remote database, downloads the dump and
// imports it locally. Backup and cleanup steps are queued with their guards
// fixed now, from the operator flags.
func buildPullDatabase(cfg config.Resolved, opts Options) (Plan, error) {
	export, err := command(cfg, "remote_export", "remote_export_wp")
	if err != nil {
		return Plan{}, err
	}
	download, err := command(cfg, "download_dump")
	if err != nil {
		return Plan{}, err
	}
	remoteCleanup, err := command(cfg, "remote_cleanup")
	if err != nil {
		return Plan{}, err
	}
	localImport, err := command(cfg, "local_import", "local_import_wp")
	if err != nil {
		return Plan{}, err
	}
	localCleanup, err := command(cfg, "local_cleanup")
	if err != nil {
		return Plan{}, err
	}

	var p Plan
	p.Steps = append(p.Steps,
		pipeline.NewStep(export, "Remote database exported", "Failed to export remote database"),
		pipeline.NewStep(download, "Dump downloaded", "Failed to download dump"),
	)

	cleanupStep := pipeline.NewStep(remoteCleanup, "Remote dump removed", "Failed to remove remote dump")
	cleanupStep.Guard = opts.Cleanup
	p.Steps = append(p.Steps, cleanupStep)

	if backup, err := command(cfg, "local_backup", "local_backup_wp"); err == nil {
		backupStep := pipeline.NewStep(backup, "Local database backed up", "Failed to back up local database")
		backupStep.Guard = opts.Backup
		p.Steps = append(p.Steps, backupStep)
	} else if opts.Backup {
		return Plan{}, err
	}

	p.Steps = append(p.Steps,
		pipeline.NewStep(localImport, "Local database imported", "Failed to import local database"),
	)

	localCleanupStep := pipeline.NewStep(localCleanup, "Local dump removed", "Failed to remove local dump")
	localCleanupStep.Guard = opts.Cleanup
	p.Steps = append(p.Steps, localCleanupStep)

	p.Artifacts = append(p.Artifacts, artifact(cfg, "remote_dump_file", domain.ArtifactRemote)...)
	p.Artifacts = append(p.Artifacts, artifact(cfg, "local_dump_file", domain.ArtifactLocal)...)
	if opts.Backup {
		p.Artifacts = append(p.Artifacts, artifact(cfg, "backup_file", domain.ArtifactLocal)...)
	}
	return p, nil
}

// =============================================================================
// File Sync Builders
// =============================================================================

// buildPushSync syncs one wp-content subtree to the remote. The excluding
// rsync variant only converges when the environment defines an exclude
// file, so key presence selects the variant.
func buildPushSync(cfg config.Resolved, _ Options) (Plan, error) {
	return syncPlan(cfg, "push_files_excluding", "push_files", "Files pushed", "Failed to push files")
}

func buildPullSync(cfg config.Resolved, _ Options) (Plan, error) {
	return syncPlan(cfg, "pull_files_excluding", "pull_files", "Files pulled", "Failed to pull files")
}

func buildPushCore(cfg config.Resolved, _ Options) (Plan, error) {
	return syncPlan(cfg, "push_core_excluding", "push_core", "Core pushed", "Failed to push core")
}

func buildPullCore(cfg config.Resolved, _ Options) (Plan, error) {
	return syncPlan(cfg, "pull_core_excluding", "pull_core", "Core pulled", "Failed to pull core")
}

func syncPlan(cfg config.Resolved, excludingKey, plainKey, success, failure string) (Plan, error) {
	sync, err := command(cfg, excludingKey, plainKey)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Steps: []pipeline.Step{pipeline.NewStep(sync, success, failure)},
	}, nil
}

// =============================================================================
// Dump Builder
// =============================================================================

// buildDump writes a timestamped SQL dump of one environment's database into
// the local working copy. The dump file is the product of the operation, not
// a temporary artifact.
func buildDump(cfg config.Resolved, _ Options) (Plan, error) {
	dump, err := command(cfg, "dump_database")
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Steps: []pipeline.Step{
			pipeline.NewStep(dump, "Database dumped", "Failed to dump database"),
		},
	}, nil
}
