package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

type implExecutor struct {
	dir string
}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// NewInDir creates an Executor that runs every command in the given working directory
func NewInDir(dir string) Executor {
	return &implExecutor{dir: dir}
}

// Run starts an external command, waits for it and captures its output
func (e *implExecutor) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start '%s': %w", name, err)
	}

	err := cmd.Wait()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 {
			// killed by a signal
			res.ExitCode = -1
		}
		return res, nil
	}

	return res, fmt.Errorf("wait '%s': %w", name, err)
}
