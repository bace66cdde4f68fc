// Package envfile adapts the loaded configuration file's environments map to
// the validation.Source port: a named environment's flat set of values.
package envfile

import "sort"

// LocalEnvironment is the reserved handle describing the local working copy.
const LocalEnvironment = "local"

// =============================================================================
// Source
// =============================================================================

// Source holds every environment's raw key/value set, as read from the
// configuration file by viper.
type Source struct {
	environments map[string]map[string]string
}

// New wraps the environments map from the loaded configuration.
func New(environments map[string]map[string]string) *Source {
	if environments == nil {
		environments = map[string]map[string]string{}
	}
	return &Source{environments: environments}
}

// Get returns the raw value of key in environment env. Absence of the
// environment and absence of the key both read as "not present".
func (s *Source) Get(env, key string) (string, bool) {
	v, ok := s.environments[env][key]
	return v, ok
}

// Has reports whether environment env is defined at all.
func (s *Source) Has(env string) bool {
	_, ok := s.environments[env]
	return ok
}

// Names returns the defined environment handles, sorted.
func (s *Source) Names() []string {
	names := make([]string, 0, len(s.environments))
	for name := range s.environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
