// Package natal defines the chart domain model and the boundary to the
// external astrology engine. The engine owns all computation (ephemeris
// lookup, houses, signs, aspects); this package only describes requests
// and the chart document that comes back.
package natal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentinel errors for request validation
var (
	ErrUnknownHouseSystem = errors.New("unknown house system")
)

// Request carries the validated birth data handed to the engine.
type Request struct {
	Person      string
	Birth       string // local birth time, "YYYY-MM-DD HH:MM"
	TZ          string // UTC offset of the birth time, e.g. "+02:00"
	Lat         float64
	Lon         float64
	HouseSystem string
	EphePath    string
	Orbs        OrbConfig
}

// Body is a placed celestial body in the chart.
type Body struct {
	Name           string  `json:"name"`
	SignedDMS      string  `json:"signed_dms"`
	House          *int    `json:"house"`
	DeclinationDMS *string `json:"declination_dms"`
	AbsoluteDMS    *string `json:"absolute_dms"`
}

// House is a single house cusp.
type House struct {
	ID             int     `json:"id"`
	DMS            string  `json:"dms"`
	Sign           string  `json:"sign"`
	DeclinationDMS *string `json:"declination_dms"`
	AbsoluteDMS    *string `json:"absolute_dms"`
}

// Aspect is a detected angular relationship between two bodies.
type Aspect struct {
	Body1  string `json:"body1"`
	Symbol string `json:"symbol"`
	Body2  string `json:"body2"`
	Orb    string `json:"orb"`
}

// Distribution maps a category (element or modality) to its body count.
type Distribution map[string]int

// Chart is the engine's parsed response document.
type Chart struct {
	UTC           string
	Bodies        []Body
	Houses        []House
	Aspects       []Aspect
	Elements      Distribution
	Modalities    Distribution
	EngineVersion string
}

// BodyByName returns the named body, or nil when the engine did not
// place it. A missing body is not an error.
func (c *Chart) BodyByName(name string) *Body {
	for i := range c.Bodies {
		if c.Bodies[i].Name == name {
			return &c.Bodies[i]
		}
	}
	return nil
}

// Engine computes a natal chart for a request. Implementations wrap the
// external astrology library; nothing behind this interface lives in
// this repository.
type Engine interface {
	Compute(ctx context.Context, req Request) (*Chart, error)
}

// houseSystems is the set of systems the engine understands.
var houseSystems = map[string]bool{
	"Placidus":      true,
	"Koch":          true,
	"Equal":         true,
	"Whole Sign":    true,
	"Regiomontanus": true,
	"Campanus":      true,
	"Porphyry":      true,
	"Alcabitius":    true,
	"Morinus":       true,
}

// NormalizeHouseSystem title-cases a house-system name and validates it
// against the known set, so "placidus" and "PLACIDUS" both resolve to
// "Placidus".
func NormalizeHouseSystem(name string) (string, error) {
	normalized := cases.Title(language.English).String(strings.TrimSpace(name))
	if !houseSystems[normalized] {
		return "", fmt.Errorf("%w: %q", ErrUnknownHouseSystem, name)
	}
	return normalized, nil
}
