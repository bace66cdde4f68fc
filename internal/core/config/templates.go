// Package config implements the placeholder resolution engine: a declarative
// map of string templates with mutual %%key%% references is expanded into a
// map of fully resolved values.
package config

// =============================================================================
// Template and Resolved Maps
// =============================================================================

// Templates maps symbolic keys to template strings. Values may reference other
// keys with %%key%% tokens; the reference graph need not be acyclic in
// declaration order, but true cycles never converge and are dropped.
type Templates map[string]string

// Context holds runtime-derived facts (environment handle, timestamp, derived
// hash, resolved local paths). Context lookups take priority over template
// lookups during resolution.
type Context map[string]string

// Resolved maps keys to final values. Derived once per invocation and never
// mutated afterwards; no retained value contains a placeholder token. A key
// that is absent is "not configured", which is distinct from present-but-empty.
type Resolved map[string]string

// Get reports the resolved value for key and whether it converged.
func (r Resolved) Get(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}

// Has reports whether key resolved to a final value.
func (r Resolved) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Merged returns a copy of the templates with overrides applied on top.
// Neither input is mutated.
func (t Templates) Merged(overrides map[string]string) Templates {
	out := make(Templates, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Defaults returns the static template map shared by every invocation.
// Environment inputs and mode-derived entries are merged on top before
// resolution; keys whose references never converge (for example
// exclude_options when no exclude file is configured) simply drop out.
func Defaults() Templates {
	return Templates{
		"ssh_port":        "22",
		"db_host":         "localhost",
		"ssh":             "%%ssh_user%%@%%host%%",
		"ssh_command":     "ssh -p %%ssh_port%%",
		"remote_shell":    "%%ssh_command%% %%ssh%%",
		"rsync_options":   "-az --delete -e '%%ssh_command%%'",
		"exclude_options": "--exclude-from=%%exclude%%",

		"content_dir": "wp-content",
		"uploads_dir": "%%content_dir%%/uploads",
		"themes_dir":  "%%content_dir%%/themes",
		"plugins_dir": "%%content_dir%%/plugins",
		"theme_dir":   "%%themes_dir%%/%%theme%%",

		"remote_dump_file": "%%writable_path%%/%%environment%%-%%hash%%.sql",
		"local_dump_file":  "%%local_path%%/%%environment%%-%%timestamp%%.sql",
		"backup_file":      "%%local_path%%/backup-%%environment%%-%%timestamp%%.sql",
		"db_options":       "-h %%db_host%% -u %%db_user%% -p%%db_password%%",

		"local_export":     "mysqldump %%local_db_options%% %%local_db_name%% > %%local_dump_file%%",
		"local_export_wp":  "wp db export %%local_dump_file%% --path=%%local_path%%",
		"local_import":     "mysql %%local_db_options%% %%local_db_name%% < %%local_dump_file%%",
		"local_import_wp":  "wp db import %%local_dump_file%% --path=%%local_path%%",
		"local_backup":     "mysqldump %%local_db_options%% %%local_db_name%% > %%backup_file%%",
		"local_backup_wp":  "wp db export %%backup_file%% --path=%%local_path%%",
		"remote_export":    "%%remote_shell%% 'mysqldump %%db_options%% %%db_name%% > %%remote_dump_file%%'",
		"remote_export_wp": "%%remote_shell%% 'wp db export %%remote_dump_file%% --path=%%path%%'",
		"remote_import":    "%%remote_shell%% 'mysql %%db_options%% %%db_name%% < %%remote_dump_file%%'",
		"remote_import_wp": "%%remote_shell%% 'wp db import %%remote_dump_file%% --path=%%path%%'",
		"upload_dump":      "rsync %%rsync_options%% %%local_dump_file%% %%ssh%%:%%remote_dump_file%%",
		"download_dump":    "rsync %%rsync_options%% %%ssh%%:%%remote_dump_file%% %%local_dump_file%%",
		"remote_cleanup":   "%%remote_shell%% 'rm -f %%remote_dump_file%%'",
		"local_cleanup":    "rm -f %%local_dump_file%%",
		"dump_database":    "mysqldump %%db_options%% %%db_name%% > %%local_dump_file%%",

		"push_files":           "rsync %%rsync_options%% %%local_path%%/%%sync_dir%%/ %%ssh%%:%%path%%/%%sync_dir%%/",
		"push_files_excluding": "rsync %%rsync_options%% %%exclude_options%% %%local_path%%/%%sync_dir%%/ %%ssh%%:%%path%%/%%sync_dir%%/",
		"pull_files":           "rsync %%rsync_options%% %%ssh%%:%%path%%/%%sync_dir%%/ %%local_path%%/%%sync_dir%%/",
		"pull_files_excluding": "rsync %%rsync_options%% %%exclude_options%% %%ssh%%:%%path%%/%%sync_dir%%/ %%local_path%%/%%sync_dir%%/",
		"push_core":            "rsync %%rsync_options%% --exclude=%%content_dir%% %%local_path%%/ %%ssh%%:%%path%%/",
		"push_core_excluding":  "rsync %%rsync_options%% %%exclude_options%% --exclude=%%content_dir%% %%local_path%%/ %%ssh%%:%%path%%/",
		"pull_core":            "rsync %%rsync_options%% --exclude=%%content_dir%% %%ssh%%:%%path%%/ %%local_path%%/",
		"pull_core_excluding":  "rsync %%rsync_options%% %%exclude_options%% --exclude=%%content_dir%% %%ssh%%:%%path%%/ %%local_path%%/",
	}
}
