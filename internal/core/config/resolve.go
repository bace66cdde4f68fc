package config

import (
	"regexp"
	"sort"
	"strings"
)

// =============================================================================
// Placeholder Resolution
// =============================================================================

// placeholderRegex matches %%key%% tokens. Group 1 is the referenced key.
var placeholderRegex = regexp.MustCompile(`%%([A-Za-z_][A-Za-z0-9_]*)%%`)

// maxPasses bounds resolution against unresolvable or cyclic reference
// chains. Every legitimate chain in the default template set converges in
// far fewer passes.
const maxPasses = 10

// Resolve expands every template to its final value.
//
// Behavior:
//   - Each pass scans every value for %%key%% tokens and replaces each by
//     looking the key up first in the context, then in the (possibly still
//     templated) template map. Unknown keys are left in place.
//   - Passes repeat until a fixed point (no value changed) or maxPasses.
//   - After convergence, any value still containing a token is dropped from
//     the result. An unset optional key therefore disappears rather than
//     resolving to an empty string.
//   - A cyclic pair (A references B, B references A) hits the pass cap and
//     both keys are dropped; cycles are never an error.
//
// Resolve is a pure function: identical inputs yield identical results, the
// result does not depend on declaration order, and neither input is mutated.
//
// Example:
//
//	Resolve(Templates{"ssh": "%%ssh_user%%@%%host%%", "host": "example.com"},
//	        Context{"ssh_user": "deploy"})
//	// Returns: Resolved{"ssh": "deploy@example.com", "host": "example.com"}
func Resolve(templates Templates, context Context) Resolved {
	working := make(map[string]string, len(templates))
	for k, v := range templates {
		working[k] = v
	}

	keys := make([]string, 0, len(working))
	for k := range working {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for _, key := range keys {
			next := substitute(working[key], context, working)
			if next != working[key] {
				working[key] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	resolved := make(Resolved, len(working))
	for k, v := range working {
		if placeholderRegex.MatchString(v) {
			continue
		}
		resolved[k] = v
	}
	return resolved
}

// ResolveValue expands a single template against a context, iterating to a
// fixed point or the pass cap. It reports false when the template never
// converges, which callers treat as "not configured". Used for the post-hook
// command, whose context is the runtime facts plus the fully resolved config.
func ResolveValue(template string, context Context) (string, bool) {
	value := template
	for pass := 0; pass < maxPasses; pass++ {
		next := substitute(value, context, nil)
		if next == value {
			break
		}
		value = next
	}
	if placeholderRegex.MatchString(value) {
		return "", false
	}
	return value, true
}

// substitute replaces every token in value, preferring context over the
// template map. Tokens known to neither are left untouched.
func substitute(value string, context Context, templates map[string]string) string {
	if !strings.Contains(value, "%%") {
		return value
	}
	return placeholderRegex.ReplaceAllStringFunc(value, func(match string) string {
		key := match[2 : len(match)-2]
		if v, ok := context[key]; ok {
			return v
		}
		if v, ok := templates[key]; ok {
			return v
		}
		return match
	})
}
