// Package ephe resolves the ephemeris directory handed to the external
// astrology engine.
package ephe

import (
	"os"
	"strings"
)

// EnvVar is the ephemeris-path fallback honored by the nataly engine
// family.
const EnvVar = "NATALY_EPHE_PATH"

// localDir is probed last, relative to the working directory.
const localDir = "ephe"

// Resolve picks the ephemeris directory. Precedence: the explicit flag
// value, the NATALY_EPHE_PATH environment variable, the configured
// path, then a local "ephe" directory if one exists. An empty result
// means the engine falls back to its built-in data.
func Resolve(explicit, configured string) string {
	if explicit != "" {
		return explicit
	}

	if env := strings.TrimSpace(os.Getenv(EnvVar)); env != "" {
		return env
	}

	if configured != "" {
		return configured
	}

	if info, err := os.Stat(localDir); err == nil && info.IsDir() {
		return localDir
	}

	return ""
}
