package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/artpar/wpdeploy/internal/core/config"
	"github.com/artpar/wpdeploy/internal/core/domain"
)

// =============================================================================
// Key Requirements
// =============================================================================

// Source is the environment configuration source: a named environment's flat
// set of values, read by an external loader.
type Source interface {
	// Get returns the raw value of key in environment env, and whether the
	// key is present at all.
	Get(env, key string) (string, bool)
}

// requirement lists the keys an operation needs: a mode-independent global
// list plus mode-indexed lists.
type requirement struct {
	Global []string
	Modes  map[domain.Mode][]string
}

var requirements = map[domain.Operation]requirement{
	domain.OperationPush: {
		Global: []string{"host", "ssh_user", "path"},
		Modes: map[domain.Mode][]string{
			domain.ModeDatabase: {"writable_path"},
		},
	},
	domain.OperationPull: {
		Global: []string{"host", "ssh_user", "path"},
		Modes: map[domain.Mode][]string{
			domain.ModeDatabase: {"writable_path"},
		},
	},
	domain.OperationDump: {
		Global: []string{"db_name", "db_user", "db_password"},
	},
}

// optionalKeys are read opportunistically when present, never required.
var optionalKeys = []string{
	"ssh_port", "db_host", "db_name", "db_user", "db_password",
	"exclude", "post_hook",
}

// RequiredKeys returns global(op) ∪ mode(op, mode), sorted.
func RequiredKeys(op domain.Operation, mode domain.Mode) []string {
	req, ok := requirements[op]
	if !ok {
		return nil
	}
	set := map[string]struct{}{}
	for _, k := range req.Global {
		set[k] = struct{}{}
	}
	for _, k := range req.Modes[mode] {
		set[k] = struct{}{}
	}
	return sortedKeys(set)
}

// Universe returns every key ever referenced by any operation or mode,
// required or optional, sorted.
func Universe() []string {
	set := map[string]struct{}{}
	for _, req := range requirements {
		for _, k := range req.Global {
			set[k] = struct{}{}
		}
		for _, keys := range req.Modes {
			for _, k := range keys {
				set[k] = struct{}{}
			}
		}
	}
	for _, k := range optionalKeys {
		set[k] = struct{}{}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// Errors
// =============================================================================

// MissingKeysError reports every required key absent from the environment
// source, aggregated into one user-facing message.
type MissingKeysError struct {
	Environment string
	Keys        []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("environment %q is missing required keys: %s",
		e.Environment, strings.Join(e.Keys, ", "))
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks that environment env defines every key operation op needs
// in mode, and collects the raw inputs for the resolution engine.
//
// Behavior:
//   - required = global(op) ∪ mode(op, mode); every missing required key is
//     collected before reporting, so the operator sees one aggregated error
//     naming all of them.
//   - Every universe key present in the source is returned as a raw input;
//     optional keys are included opportunistically without being required.
//   - No side effect occurs before or during validation.
//
// Passing validation guarantees the resolution engine receives every key the
// operation needs as raw input, not that every template converges; see
// Recheck for the post-resolution guarantee.
func Validate(source Source, env string, op domain.Operation, mode domain.Mode) (map[string]string, error) {
	if _, ok := requirements[op]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownOperation, op)
	}

	required := map[string]struct{}{}
	for _, k := range RequiredKeys(op, mode) {
		required[k] = struct{}{}
	}

	inputs := map[string]string{}
	var missing []string
	for _, key := range Universe() {
		value, present := source.Get(env, key)
		switch {
		case present:
			inputs[key] = value
		default:
			if _, req := required[key]; req {
				missing = append(missing, key)
			}
		}
	}

	if len(missing) > 0 {
		return nil, &MissingKeysError{Environment: env, Keys: missing}
	}
	return inputs, nil
}

// Recheck verifies after resolution that every required key still has a
// final value. A required key whose template never converged would otherwise
// vanish silently and fail late inside a remote command.
func Recheck(resolved config.Resolved, env string, op domain.Operation, mode domain.Mode) error {
	var missing []string
	for _, key := range RequiredKeys(op, mode) {
		if !resolved.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingKeysError{Environment: env, Keys: missing}
	}
	return nil
}
