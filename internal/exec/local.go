package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pl247/aimon/internal/errors"
)

// DefaultTimeout bounds a single utility invocation when the caller's context has no deadline.
const DefaultTimeout = 3 * time.Second

// Runner executes a local utility and returns its standard output.
// Sources depend on this so tests can substitute canned output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// Local runs utilities directly (no shell) on this machine.
type Local struct {
	// Timeout applies when ctx carries no deadline of its own. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Run executes name with args and captures stdout.
// Missing binaries, non-zero exits, and deadline overruns all come back as
// errors.ErrSource so the caller can degrade the affected field.
func (l Local) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		timeout := l.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	command := exec.CommandContext(ctx, name, args...)
	// Force C locale so decimal separators and column labels stay parseable
	command.Env = append(os.Environ(), "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	runErr := command.Run()
	if runErr == nil {
		return stdout.Bytes(), nil
	}

	if ctx.Err() != nil {
		return nil, errors.WrapWithCode(ctx.Err(), errors.ErrSource,
			fmt.Sprintf("%s did not finish in time", name),
			"The utility may be hung; it will be retried next refresh.")
	}

	if stderrors.Is(runErr, exec.ErrNotFound) {
		return nil, errors.WrapWithCode(runErr, errors.ErrSource,
			fmt.Sprintf("%s not found", name),
			fmt.Sprintf("Install %s or put it on PATH.", name))
	}

	var exitErr *exec.ExitError
	if stderrors.As(runErr, &exitErr) {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "no stderr output"
		}
		return stdout.Bytes(), errors.WrapWithCode(fmt.Errorf("%s: %w", detail, exitErr), errors.ErrSource,
			fmt.Sprintf("%s exited with status %d", name, exitErr.ExitCode()),
			"")
	}

	return nil, errors.WrapWithCode(runErr, errors.ErrExec,
		fmt.Sprintf("Couldn't run %s", name),
		"Make sure the command exists and is executable.")
}

// ReadFile is the file-backed counterpart of Run for sources like /proc and /sys.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Unavailable(path, err)
	}
	return data, nil
}
