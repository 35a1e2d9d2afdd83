package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kodkafa/natal-cli/internal/natal"
)

// Output format selectors
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatBoth = "both"
)

// birthLayout is the accepted local birth time format.
const birthLayout = "2006-01-02 15:04"

// tzPattern accepts UTC offsets from -23:59 to +23:59, e.g. "+02:00".
var tzPattern = regexp.MustCompile(`^[+-](0\d|1\d|2[0-3]):[0-5]\d$`)

// Sentinel errors for input validation
var (
	ErrPersonRequired = errors.New("--person is required")
	ErrBirthRequired  = errors.New("--birth is required")
	ErrTZRequired     = errors.New("--tz is required")
	ErrLatRequired    = errors.New("--lat is required")
	ErrLonRequired    = errors.New("--lon is required")
	ErrInvalidBirth   = errors.New(`invalid --birth value, expected "YYYY-MM-DD HH:MM"`)
	ErrInvalidTZ      = errors.New("invalid --tz value, expected format like +02:00")
	ErrLatitudeRange  = errors.New("--lat must be within [-90, 90]")
	ErrLongitudeRange = errors.New("--lon must be within [-180, 180]")
	ErrInvalidFormat  = errors.New("invalid --format value, expected text, json or both")
)

// Input is the validated birth-data request read from the command line.
type Input struct {
	Person      string
	Birth       string
	TZ          string
	Lat         float64
	Lon         float64
	HouseSystem string
	EphePath    string
	Format      string
}

// rawInput carries flag values before validation. LatSet/LonSet
// distinguish an absent coordinate from a legitimate zero.
type rawInput struct {
	Person      string
	Birth       string
	TZ          string
	Lat         float64
	Lon         float64
	LatSet      bool
	LonSet      bool
	HouseSystem string
	EphePath    string
	Format      string
}

// parseInput reads and validates the chart flags.
func parseInput(c *cli.Context) (Input, error) {
	raw := rawInput{
		Person:      c.String("person"),
		Birth:       c.String("birth"),
		TZ:          c.String("tz"),
		Lat:         c.Float64("lat"),
		Lon:         c.Float64("lon"),
		LatSet:      c.IsSet("lat"),
		LonSet:      c.IsSet("lon"),
		HouseSystem: c.String("house-system"),
		EphePath:    c.String("ephe-path"),
		Format:      c.String("format"),
	}
	return raw.validate()
}

// validate applies the input rules and normalizes the house system.
func (r rawInput) validate() (Input, error) {
	person := strings.TrimSpace(r.Person)
	if person == "" {
		return Input{}, ErrPersonRequired
	}

	birth := strings.TrimSpace(r.Birth)
	if birth == "" {
		return Input{}, ErrBirthRequired
	}
	if _, err := time.Parse(birthLayout, birth); err != nil {
		return Input{}, fmt.Errorf("%w: %q", ErrInvalidBirth, r.Birth)
	}

	tz := strings.TrimSpace(r.TZ)
	if tz == "" {
		return Input{}, ErrTZRequired
	}
	if !tzPattern.MatchString(tz) {
		return Input{}, fmt.Errorf("%w: %q", ErrInvalidTZ, r.TZ)
	}

	if !r.LatSet {
		return Input{}, ErrLatRequired
	}
	if r.Lat < -90 || r.Lat > 90 {
		return Input{}, fmt.Errorf("%w: %v", ErrLatitudeRange, r.Lat)
	}
	if !r.LonSet {
		return Input{}, ErrLonRequired
	}
	if r.Lon < -180 || r.Lon > 180 {
		return Input{}, fmt.Errorf("%w: %v", ErrLongitudeRange, r.Lon)
	}

	houseSystem, err := natal.NormalizeHouseSystem(r.HouseSystem)
	if err != nil {
		return Input{}, err
	}

	format := strings.TrimSpace(r.Format)
	switch format {
	case FormatText, FormatJSON, FormatBoth:
	default:
		return Input{}, fmt.Errorf("%w: %q", ErrInvalidFormat, r.Format)
	}

	return Input{
		Person:      person,
		Birth:       birth,
		TZ:          tz,
		Lat:         r.Lat,
		Lon:         r.Lon,
		HouseSystem: houseSystem,
		EphePath:    strings.TrimSpace(r.EphePath),
		Format:      format,
	}, nil
}
