package natal

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for orb validation
var (
	ErrNegativeOrb = errors.New("orb tolerance cannot be negative")
)

// OrbConfig holds per-aspect angular tolerances in degrees. The engine
// applies them during aspect detection; this side only assembles the
// table.
type OrbConfig map[string]float64

// DefaultOrbs returns the standard orb table used when no overrides are
// configured.
func DefaultOrbs() OrbConfig {
	return OrbConfig{
		"Conjunction":    8.0,
		"Opposition":     8.0,
		"Trine":          8.0,
		"Square":         7.0,
		"Sextile":        6.0,
		"Quincunx":       3.0,
		"Semisextile":    2.0,
		"Semisquare":     2.0,
		"Sesquiquadrate": 2.0,
		"Quintile":       2.0,
	}
}

// Merge returns a copy of the orb table with the given overrides applied.
// Only the named aspects change; unknown aspect names are accepted and
// passed through to the engine untouched.
func (o OrbConfig) Merge(overrides map[string]float64) (OrbConfig, error) {
	merged := make(OrbConfig, len(o)+len(overrides))
	for aspect, orb := range o {
		merged[aspect] = orb
	}
	for aspect, orb := range overrides {
		if orb < 0 {
			return nil, fmt.Errorf("%w: %s = %v", ErrNegativeOrb, aspect, orb)
		}
		merged[aspect] = orb
	}
	return merged, nil
}

// Aspects returns the aspect names in the table, sorted for stable
// serialization.
func (o OrbConfig) Aspects() []string {
	names := make([]string, 0, len(o))
	for aspect := range o {
		names = append(names, aspect)
	}
	sort.Strings(names)
	return names
}
