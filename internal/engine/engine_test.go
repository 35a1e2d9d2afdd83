package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kodkafa/natal-cli/internal/natal"
)

func testRequest() natal.Request {
	return natal.Request{
		Person:      "Ada",
		Birth:       "1990-05-01 10:30",
		TZ:          "+02:00",
		Lat:         48.8566,
		Lon:         2.3522,
		HouseSystem: "Placidus",
		Orbs:        natal.DefaultOrbs(),
	}
}

func TestComputeSuccess(t *testing.T) {
	runner := &MockCommandRunner{
		Outputs: [][]byte{
			[]byte("nataly 1.4.2\n"),
			[]byte(sampleChartJSON),
		},
	}
	eng, err := New(runner, Options{MinVersion: ">= 1.0.0"})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	chart, err := eng.Compute(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}

	if chart.EngineVersion != "nataly 1.4.2" {
		t.Errorf("EngineVersion = %q, want nataly 1.4.2", chart.EngineVersion)
	}
	if len(runner.Calls) != 2 {
		t.Fatalf("engine invoked %d times, want 2 (version + compute)", len(runner.Calls))
	}

	versionCall := runner.Calls[0]
	if versionCall[0] != "nataly" || versionCall[1] != "--version" {
		t.Errorf("version call = %v, want nataly --version", versionCall)
	}

	computeCall := runner.Calls[1]
	wantArgs := map[string]string{
		"--person":       "Ada",
		"--birth":        "1990-05-01 10:30",
		"--tz":           "+02:00",
		"--lat":          "48.8566",
		"--lon":          "2.3522",
		"--house-system": "Placidus",
	}
	for flag, want := range wantArgs {
		if got := argValue(computeCall, flag); got != want {
			t.Errorf("compute call %s = %q, want %q", flag, got, want)
		}
	}
	if computeCall[len(computeCall)-1] != "--json" {
		t.Errorf("compute call = %v, want trailing --json", computeCall)
	}
	if argValue(computeCall, "--ephe-path") != "" {
		t.Errorf("compute call = %v, want no --ephe-path without a resolved path", computeCall)
	}
}

func TestComputePassesEphePath(t *testing.T) {
	runner := &MockCommandRunner{
		Outputs: [][]byte{
			[]byte("nataly 1.4.2"),
			[]byte(sampleChartJSON),
		},
	}
	eng, err := New(runner, Options{})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	req := testRequest()
	req.EphePath = "/var/lib/nataly/ephe"
	if _, err := eng.Compute(context.Background(), req); err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}

	if got := argValue(runner.Calls[1], "--ephe-path"); got != "/var/lib/nataly/ephe" {
		t.Errorf("--ephe-path = %q, want /var/lib/nataly/ephe", got)
	}
}

func TestComputeEngineUnavailable(t *testing.T) {
	runner := &MockCommandRunner{
		Errs: []error{errors.New("exec: \"nataly\": executable file not found in $PATH")},
	}
	eng, err := New(runner, Options{})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	_, err = eng.Compute(context.Background(), testRequest())
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("Compute() error = %v, want ErrEngineUnavailable", err)
	}
}

func TestComputeVersionGate(t *testing.T) {
	tests := []struct {
		name          string
		versionOutput string
		constraint    string
		wantError     bool
	}{
		{"satisfied", "nataly 1.4.2", ">= 1.0.0", false},
		{"satisfied upper bound", "nataly version 2.0.0", ">= 1.0.0, < 3.0.0", false},
		{"too old", "nataly 0.9.1", ">= 1.0.0", true},
		{"unparseable version", "nataly (development build)", ">= 1.0.0", true},
		{"no constraint accepts anything", "nataly (development build)", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &MockCommandRunner{
				Outputs: [][]byte{
					[]byte(tt.versionOutput),
					[]byte(sampleChartJSON),
				},
			}
			eng, err := New(runner, Options{MinVersion: tt.constraint})
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}

			_, err = eng.Compute(context.Background(), testRequest())
			if tt.wantError {
				if !errors.Is(err, ErrEngineIncompatible) {
					t.Errorf("Compute() error = %v, want ErrEngineIncompatible", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Compute() unexpected error: %v", err)
			}
		})
	}
}

func TestComputeMalformedOutput(t *testing.T) {
	runner := &MockCommandRunner{
		Outputs: [][]byte{
			[]byte("nataly 1.4.2"),
			[]byte("Segmentation fault"),
		},
	}
	eng, err := New(runner, Options{})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	_, err = eng.Compute(context.Background(), testRequest())
	if !errors.Is(err, ErrMalformedChart) {
		t.Errorf("Compute() error = %v, want ErrMalformedChart", err)
	}
}

func TestNewRejectsBlankCommand(t *testing.T) {
	_, err := New(&MockCommandRunner{}, Options{Command: []string{"  "}})
	if !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("New() error = %v, want ErrEmptyCommand", err)
	}
}

func TestComputeCustomCommand(t *testing.T) {
	runner := &MockCommandRunner{
		Outputs: [][]byte{
			[]byte("nataly 1.4.2"),
			[]byte(sampleChartJSON),
		},
	}
	eng, err := New(runner, Options{
		Command: []string{"python", "-m", "nataly"},
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	if _, err := eng.Compute(context.Background(), testRequest()); err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}

	versionCall := runner.Calls[0]
	if versionCall[0] != "python" || versionCall[1] != "-m" || versionCall[2] != "nataly" {
		t.Errorf("version call = %v, want python -m nataly --version", versionCall)
	}
	computeCall := runner.Calls[1]
	if computeCall[3] != "compute" {
		t.Errorf("compute call = %v, want python -m nataly compute ...", computeCall)
	}
}

// argValue returns the argument following the given flag, or "".
func argValue(call []string, flag string) string {
	for i, arg := range call {
		if arg == flag && i+1 < len(call) {
			return call[i+1]
		}
	}
	return ""
}
