package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/kodkafa/natal-cli/internal/natal"
)

// Sentinel errors
var (
	ErrEngineUnavailable  = errors.New("astrology engine command not available")
	ErrEngineIncompatible = errors.New("astrology engine version does not satisfy constraint")
	ErrEmptyCommand       = errors.New("engine command cannot be empty")
)

// DefaultCommand is the engine invoked when no override is configured.
var DefaultCommand = []string{"nataly"}

// Options configures the command engine.
type Options struct {
	Command    []string      // argv prefix, e.g. ["nataly"] or ["python", "-m", "nataly"]
	MinVersion string        // semver constraint; empty disables the version gate
	Timeout    time.Duration // per-invocation limit; zero means no limit
	Logger     *slog.Logger
}

// CommandEngine implements natal.Engine by invoking the external engine
// command and parsing the chart JSON it prints.
type CommandEngine struct {
	runner     CommandRunner
	command    []string
	minVersion string
	timeout    time.Duration
	logger     *slog.Logger
}

// New creates an engine backed by the given command runner.
func New(runner CommandRunner, opts Options) (*CommandEngine, error) {
	command := opts.Command
	if len(command) == 0 {
		command = DefaultCommand
	}
	if strings.TrimSpace(command[0]) == "" {
		return nil, ErrEmptyCommand
	}
	return &CommandEngine{
		runner:     runner,
		command:    command,
		minVersion: opts.MinVersion,
		timeout:    opts.Timeout,
		logger:     opts.Logger,
	}, nil
}

// Compute asks the engine for a natal chart. The engine owns
// timezone-to-UTC conversion, house and sign computation, and aspect
// detection; the request carries the raw birth data plus the orb table.
func (e *CommandEngine) Compute(ctx context.Context, req natal.Request) (*natal.Chart, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	version, err := e.engineVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEngineUnavailable, e.command[0], err)
	}
	if err := e.checkCompatibility(version); err != nil {
		return nil, err
	}

	args, err := buildComputeArgs(e.command, req)
	if err != nil {
		return nil, err
	}

	if e.logger != nil {
		e.logger.Debug("invoking engine",
			"command", e.command[0],
			"engine_version", version,
			"house_system", req.HouseSystem)
	}

	output, err := e.runner.Run(ctx, e.command[0], args...)
	if err != nil {
		return nil, fmt.Errorf("engine invocation failed: %w", err)
	}

	chart, err := parseChart(output)
	if err != nil {
		return nil, err
	}
	chart.EngineVersion = version
	return chart, nil
}

// engineVersion runs `<engine> --version` and returns the reported
// version string. A failure here means the engine is not runnable.
func (e *CommandEngine) engineVersion(ctx context.Context) (string, error) {
	args := append(append([]string{}, e.command[1:]...), "--version")
	output, err := e.runner.Run(ctx, e.command[0], args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// versionPattern extracts a semver from version output like
// "nataly 1.4.2" or "nataly version 1.4.2-rc1".
var versionPattern = regexp.MustCompile(`(\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?)`)

// checkCompatibility validates the engine version against the
// configured constraint. An empty constraint disables the gate.
func (e *CommandEngine) checkCompatibility(versionOutput string) error {
	if e.minVersion == "" {
		return nil
	}

	match := versionPattern.FindString(versionOutput)
	if match == "" {
		return fmt.Errorf("%w: cannot parse version from %q", ErrEngineIncompatible, versionOutput)
	}

	version, err := semver.NewVersion(match)
	if err != nil {
		return fmt.Errorf("%w: invalid version %q: %v", ErrEngineIncompatible, match, err)
	}

	constraint, err := semver.NewConstraint(e.minVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version constraint %q: %w", e.minVersion, err)
	}

	if !constraint.Check(version) {
		return fmt.Errorf("%w: engine %s, constraint %s", ErrEngineIncompatible, version, e.minVersion)
	}
	return nil
}

// buildComputeArgs constructs the engine's compute invocation.
func buildComputeArgs(command []string, req natal.Request) ([]string, error) {
	orbs, err := json.Marshal(req.Orbs)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize orb config: %w", err)
	}

	args := append([]string{}, command[1:]...)
	args = append(args,
		"compute",
		"--person", req.Person,
		"--birth", req.Birth,
		"--tz", req.TZ,
		"--lat", strconv.FormatFloat(req.Lat, 'f', -1, 64),
		"--lon", strconv.FormatFloat(req.Lon, 'f', -1, 64),
		"--house-system", req.HouseSystem,
		"--orbs", string(orbs),
	)
	if req.EphePath != "" {
		args = append(args, "--ephe-path", req.EphePath)
	}
	args = append(args, "--json")
	return args, nil
}
