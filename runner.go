package drawioexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/alnah/go-drawio-export/internal/process"
)

// waitDelay bounds how long Wait blocks on output pipes after the renderer
// has been killed.
const waitDelay = 5 * time.Second

// RunOutput is what a finished child process left behind.
type RunOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
//
// Run returns a nil error whenever the process started and exited, whatever
// its exit code. It returns an error wrapping ErrRendererInvocation when the
// process could not be started, and ctx.Err() when ctx ended first.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (RunOutput, error)
}

// ExecRunner implements CommandRunner using os/exec.
// Arguments are passed as discrete tokens; no shell is involved.
type ExecRunner struct{}

// Compile-time interface implementation check.
var _ CommandRunner = (*ExecRunner)(nil)

// Run starts name with args, captures stdout and stderr, and waits for it.
// On cancellation the whole process group is killed.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (RunOutput, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	process.SetGroup(cmd)
	cmd.Cancel = func() error {
		return process.KillGroup(cmd.Process.Pid)
	}
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return RunOutput{}, fmt.Errorf("%w: %s: %v", ErrRendererInvocation, name, err)
	}

	err := cmd.Wait()
	out := RunOutput{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, ctxErr
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return out, fmt.Errorf("waiting for %s: %w", name, err)
	}
	return out, nil
}
