package zfs

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// commandTimeout bounds any single zfs/zpool invocation. A destroy of a
// snapshot with heavy referenced data can take a while; listings are fast.
const commandTimeout = 2 * time.Minute

type result struct {
	stdout   string
	stderr   string
	exitCode int
}

// runner lets tests substitute the exec layer.
type runner func(ctx context.Context, path string, args ...string) (result, error)

// execRun executes path with args and captures output. A nonzero exit is
// reported through result.exitCode, not through the error return.
func execRun(ctx context.Context, path string, args ...string) (result, error) {
	execCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			exitCode = exitErr.ExitCode()
		case errors.Is(execCtx.Err(), context.DeadlineExceeded):
			return result{}, Error.New("%s timed out after %s", path, commandTimeout)
		default:
			return result{}, Error.Wrap(err)
		}
	}

	return result{
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		exitCode: exitCode,
	}, nil
}
