// Package vmrun invokes VMware's vmrun tool and captures its result.
package vmrun

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/cybozu-go/log"
	"github.com/cybozu-go/well"
)

// ExitNotFound is reported when the vmrun binary could not be started.
const ExitNotFound = 127

// Result is the outcome of a single vmrun invocation.
type Result struct {
	// ExitCode is the process exit status. Zero means success.
	ExitCode int

	// Output is the combined stdout and stderr of the process.
	Output string
}

// Successful reports whether the invocation exited with status 0.
func (r Result) Successful() bool {
	return r.ExitCode == 0
}

// Runner runs vmrun with a prepared argument vector.
type Runner interface {
	Run(ctx context.Context, args ...string) Result
}

// ExecRunner runs the vmrun binary found at a fixed path.
type ExecRunner struct {
	path string
}

// NewExecRunner creates a runner for the vmrun binary at path.
func NewExecRunner(path string) *ExecRunner {
	return &ExecRunner{path: path}
}

// Path returns the vmrun binary path.
func (r *ExecRunner) Path() string {
	return r.path
}

// Run executes vmrun and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, args ...string) Result {
	cmd := well.CommandContext(ctx, r.path, args...)
	cmd.Severity = log.LvDebug

	out, err := cmd.CombinedOutput()
	if err == nil {
		return Result{Output: string(out)}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{ExitCode: exitErr.ExitCode(), Output: string(out)}
	}

	log.Error("failed to run vmrun", map[string]interface{}{
		log.FnError: err,
		"command":   CommandLine(r.path, args),
	})
	return Result{
		ExitCode: ExitNotFound,
		Output:   fmt.Sprintf("run %s: %v", r.path, err),
	}
}
