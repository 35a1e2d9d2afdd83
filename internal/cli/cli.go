// Package cli provides the command-line interface for the natal chart
// renderer. The root invocation runs the chart pipeline; the history
// subcommand reads the opt-in chart log.
package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kodkafa/natal-cli/internal/config"
	"github.com/kodkafa/natal-cli/internal/engine"
	"github.com/kodkafa/natal-cli/internal/ephe"
	"github.com/kodkafa/natal-cli/internal/logger"
	"github.com/kodkafa/natal-cli/internal/natal"
	"github.com/kodkafa/natal-cli/internal/render"
	"github.com/kodkafa/natal-cli/internal/storage"
)

// NewApp creates and configures the main CLI application.
func NewApp() *cli.App {
	return &cli.App{
		Name:     "natal-cli",
		Usage:    "Render natal charts computed by an external astrology engine",
		Version:  "1.0.0",
		Compiled: time.Now(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "person",
				Usage: "person name",
			},
			&cli.StringFlag{
				Name:  "birth",
				Usage: `local birth time, "YYYY-MM-DD HH:MM"`,
			},
			&cli.StringFlag{
				Name:  "tz",
				Usage: "UTC offset of the birth time (e.g. +02:00)",
			},
			&cli.Float64Flag{
				Name:  "lat",
				Usage: "birth latitude in decimal degrees",
			},
			&cli.Float64Flag{
				Name:  "lon",
				Usage: "birth longitude in decimal degrees",
			},
			&cli.StringFlag{
				Name:  "house-system",
				Value: "Placidus",
				Usage: "house system handed to the engine",
			},
			&cli.StringFlag{
				Name:  "ephe-path",
				Usage: "ephemeris directory (falls back to NATALY_EPHE_PATH, config, then ./ephe)",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: FormatText,
				Usage: "output format (text, json, both)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML configuration file",
				EnvVars: []string{"NATAL_CLI_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				EnvVars: []string{"NATAL_CLI_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "json",
				Usage: "log format (json, text)",
			},
		},
		Action:   chartAction,
		Commands: []*cli.Command{historyCommand()},
	}
}

// chartAction wires the real engine and runs the chart pipeline.
func chartAction(c *cli.Context) error {
	log, err := logger.New(c.String("log-level"), c.String("log-format"))
	if err != nil {
		return err
	}

	in, err := parseInput(c)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.NewRealCommandRunner(), engine.Options{
		Command:    cfg.Engine.Command,
		MinVersion: cfg.Engine.MinVersion,
		Timeout:    cfg.Engine.GetTimeout(),
		Logger:     log,
	})
	if err != nil {
		return err
	}

	return runChart(c.Context, eng, in, cfg, c.App.Writer, log)
}

// runChart executes the chart pipeline: resolve the request, delegate
// to the engine, shape the summary, render, and append to the chart
// log when one is configured.
func runChart(ctx context.Context, eng natal.Engine, in Input, cfg *config.Config, w io.Writer, log *slog.Logger) error {
	orbs, err := natal.DefaultOrbs().Merge(cfg.Orbs)
	if err != nil {
		return err
	}

	req := natal.Request{
		Person:      in.Person,
		Birth:       in.Birth,
		TZ:          in.TZ,
		Lat:         in.Lat,
		Lon:         in.Lon,
		HouseSystem: in.HouseSystem,
		EphePath:    ephe.Resolve(in.EphePath, cfg.Ephemeris.Path),
		Orbs:        orbs,
	}

	log.Debug("computing chart",
		"person", req.Person,
		"house_system", req.HouseSystem,
		"ephe_path", req.EphePath)

	chart, err := eng.Compute(ctx, req)
	if err != nil {
		return err
	}

	summary := natal.Summarize(chart, req)

	if in.Format == FormatText || in.Format == FormatBoth {
		render.Text(w, summary, cfg.Output.GetMaxAspects())
	}
	if in.Format == FormatJSON || in.Format == FormatBoth {
		if err := render.JSON(w, summary); err != nil {
			return err
		}
	}

	logChart(cfg, chart, summary, req, log)
	return nil
}

// logChart appends the invocation to the chart log. Recording is
// best-effort: failures are logged and never fail the invocation.
func logChart(cfg *config.Config, chart *natal.Chart, summary natal.Summary, req natal.Request, log *slog.Logger) {
	if cfg.Storage.DatabasePath == "" {
		return
	}

	db, err := storage.InitDB(storage.Config{
		DatabasePath: cfg.Storage.DatabasePath,
		LogLevel:     "silent",
	})
	if err != nil {
		log.Warn("failed to open chart log", "error", err)
		return
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn("failed to close chart log", "error", closeErr)
		}
	}()

	record := &storage.ChartRecord{
		Person:        summary.Person,
		UTC:           summary.UTC,
		Latitude:      req.Lat,
		Longitude:     req.Lon,
		HouseSystem:   req.HouseSystem,
		AspectCount:   len(summary.Aspects),
		EngineVersion: chart.EngineVersion,
	}
	if summary.Sun != nil {
		record.SunPlacement = summary.Sun.SignedDMS
	}
	if summary.Moon != nil {
		record.MoonPlacement = summary.Moon.SignedDMS
	}

	if err := db.RecordChart(record); err != nil {
		log.Warn("failed to record chart", "error", err)
		return
	}
	log.Debug("chart recorded", "id", record.ID, "person", record.Person)
}
