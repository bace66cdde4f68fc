package envfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_PresentKey(t *testing.T) {
	s := New(map[string]map[string]string{
		"production": {"host": "example.com"},
	})
	v, ok := s.Get("production", "host")
	assert.True(t, ok)
	assert.Equal(t, "example.com", v)
}

func TestGet_AbsentKey(t *testing.T) {
	s := New(map[string]map[string]string{"production": {}})
	_, ok := s.Get("production", "host")
	assert.False(t, ok)
}

func TestGet_AbsentEnvironment(t *testing.T) {
	s := New(nil)
	_, ok := s.Get("production", "host")
	assert.False(t, ok)
}

func TestHas(t *testing.T) {
	s := New(map[string]map[string]string{"local": {}})
	assert.True(t, s.Has("local"))
	assert.False(t, s.Has("staging"))
}

func TestNames_Sorted(t *testing.T) {
	s := New(map[string]map[string]string{
		"staging":    {},
		"local":      {},
		"production": {},
	})
	assert.Equal(t, []string{"local", "production", "staging"}, s.Names())
}
