package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kodkafa/natal-cli/internal/config"
	"github.com/kodkafa/natal-cli/internal/storage"
)

// Sentinel errors
var (
	ErrChartLogNotConfigured = errors.New("chart log not configured: set --db or storage.database_path")
)

// historyEntry is the JSON shape of one listed chart log record.
type historyEntry struct {
	ID            uint    `json:"id"`
	Person        string  `json:"person"`
	UTC           string  `json:"dt_utc_iso"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	HouseSystem   string  `json:"house_system"`
	SunPlacement  string  `json:"sun_placement,omitempty"`
	MoonPlacement string  `json:"moon_placement,omitempty"`
	AspectCount   int     `json:"aspect_count"`
	EngineVersion string  `json:"engine_version,omitempty"`
	RecordedAt    string  `json:"recorded_at"`
}

// historyCommand lists chart invocations recorded in the chart log.
func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List chart invocations recorded in the chart log",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "path to the chart log database (defaults to storage.database_path from config)",
			},
			&cli.StringFlag{
				Name:  "person",
				Usage: "only list charts for this person",
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "maximum number of records to list (0 lists all)",
			},
			&cli.StringFlag{
				Name:  "output",
				Value: FormatText,
				Usage: "output format (text, json)",
			},
		},
		Action: historyAction,
	}
}

// historyAction implements the history command.
func historyAction(c *cli.Context) error {
	outputFormat := c.String("output")
	switch outputFormat {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, outputFormat)
	}

	dbPath := c.String("db")
	if dbPath == "" {
		cfg, err := config.LoadConfig(c.String("config"))
		if err != nil {
			return err
		}
		dbPath = cfg.Storage.DatabasePath
	}
	if dbPath == "" {
		return ErrChartLogNotConfigured
	}

	db, err := storage.InitDB(storage.Config{
		DatabasePath: dbPath,
		LogLevel:     "silent",
	})
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.ListCharts(c.String("person"), c.Int("limit"))
	if err != nil {
		return err
	}

	entries := make([]historyEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, historyEntry{
			ID:            r.ID,
			Person:        r.Person,
			UTC:           r.UTC,
			Lat:           r.Latitude,
			Lon:           r.Longitude,
			HouseSystem:   r.HouseSystem,
			SunPlacement:  r.SunPlacement,
			MoonPlacement: r.MoonPlacement,
			AspectCount:   r.AspectCount,
			EngineVersion: r.EngineVersion,
			RecordedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	if outputFormat == FormatJSON {
		payload, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		fmt.Fprintln(c.App.Writer, string(payload))
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("#%d  %s  %s  %s  aspects=%d", e.ID, e.Person, e.UTC, e.HouseSystem, e.AspectCount)
		if e.SunPlacement != "" {
			line += fmt.Sprintf("  sun=%s", e.SunPlacement)
		}
		fmt.Fprintln(c.App.Writer, line)
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.App.Writer, "no charts recorded")
	}
	return nil
}
