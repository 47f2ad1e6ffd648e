package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ExecToolRunner implements the ToolRunner interface by executing
// analyzer binaries installed on the machine.
type ExecToolRunner struct{}

var _ ToolRunner = &ExecToolRunner{} // Compile-time check

// NewExecToolRunner creates a new instance of the local tool runner.
func NewExecToolRunner() *ExecToolRunner {
	return &ExecToolRunner{}
}

// Run executes the tool inside dir and returns its stdout and stderr.
// Checkers signal findings through a non-zero exit, so an ExitError with
// captured output is treated as success. Missing binaries and deadline
// expiry map onto the package sentinel errors for caller classification.
func (r *ExecToolRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	switch {
	case err == nil:
		return stdout.Bytes(), stderr.Bytes(), nil
	case ctx.Err() != nil:
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("%w: %s", ErrToolTimeout, name)
	case errors.Is(err, exec.ErrNotFound):
		return nil, nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Findings were reported through the exit code.
		return stdout.Bytes(), stderr.Bytes(), nil
	}
	return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("running %s: %w", name, err)
}

// LookPath implements the ToolRunner interface.
func (r *ExecToolRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return path, nil
}
