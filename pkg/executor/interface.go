package executor

import "context"

// Result is the outcome of an external tool that was started successfully.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the tool exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Executor defines the interface for executing external commands.
// Run returns a non-nil error only when the command could not be started;
// a tool that ran and exited non-zero is reported through Result.ExitCode.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}
