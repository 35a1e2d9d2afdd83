// Package engine invokes the external astrology engine command and
// parses its chart output.
package engine

import (
	"context"
	"os/exec"
)

// CommandRunner executes external commands.
// This interface enables testing without actual command execution.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RealCommandRunner executes actual system commands.
type RealCommandRunner struct{}

// NewRealCommandRunner creates a command runner that executes real commands.
func NewRealCommandRunner() *RealCommandRunner {
	return &RealCommandRunner{}
}

// Run executes a command and returns its stdout. Engine diagnostics go
// to the engine's stderr and are not mixed into the chart document.
func (r *RealCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// MockCommandRunner is a test double for CommandRunner. Outputs are
// consumed in call order; the last entry repeats once the list runs out.
type MockCommandRunner struct {
	Outputs [][]byte
	Errs    []error
	Calls   [][]string // Track calls for debugging
}

// Run returns the next configured output and error.
func (m *MockCommandRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	call := append([]string{name}, args...)
	m.Calls = append(m.Calls, call)

	idx := len(m.Calls) - 1
	var out []byte
	if len(m.Outputs) > 0 {
		if idx >= len(m.Outputs) {
			idx = len(m.Outputs) - 1
		}
		out = m.Outputs[idx]
	}
	var err error
	if len(m.Errs) > 0 {
		errIdx := len(m.Calls) - 1
		if errIdx >= len(m.Errs) {
			errIdx = len(m.Errs) - 1
		}
		err = m.Errs[errIdx]
	}
	return out, err
}
