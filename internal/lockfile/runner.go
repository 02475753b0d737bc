package lockfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/cli/safeexec"
)

// Runner runs an external command to completion
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExitError reports a command that ran but did not succeed
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.ExitCode, e.Stderr)
}

// ExecRunner runs commands as child processes. Output is buffered and never reaches
// the parent's stdout or stderr.
type ExecRunner struct{}

// Run resolves name on PATH (never in the working directory) and waits for it to exit
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	path, err := safeexec.LookPath(name)
	if err != nil {
		return fmt.Errorf("failed to locate %s: %w", name, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		command := strings.Join(append([]string{name}, args...), " ")
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				detail = strings.TrimSpace(stdout.String())
			}
			return &ExitError{
				Command:  command,
				ExitCode: exitErr.ExitCode(),
				Stderr:   detail,
			}
		}
		return fmt.Errorf("failed to run %s: %w", command, err)
	}
	return nil
}
