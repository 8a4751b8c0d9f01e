// Package fs finds the source files a run operates on.
package fs

import (
	"os"
)

// EnvProvider provides environment variable access.
type EnvProvider interface {
	// Lookup returns the value of the variable named by key and whether it is set.
	Lookup(key string) (string, bool)
}

// OSEnvProvider reads from the process environment.
type OSEnvProvider struct{}

// NewEnvProvider creates a new OSEnvProvider.
func NewEnvProvider() *OSEnvProvider {
	return &OSEnvProvider{}
}

func (e *OSEnvProvider) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvProvider serves variables from a fixed map.
type MapEnvProvider map[string]string

func (m MapEnvProvider) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
