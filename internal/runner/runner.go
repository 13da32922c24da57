package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/backmassage/fflight/internal/fferr"
)

// Result is the outcome of one completed process. A non-zero ExitCode is
// not an error at this layer; callers classify it.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Elapsed  time.Duration
}

// Runner spawns a program with a discrete argument vector. No shell is
// involved. Implementations return an *fferr.Error of kind ExecutionError
// when the process cannot be started and TimeoutError when it outlives its
// deadline.
type Runner interface {
	Run(ctx context.Context, program string, args []string) (Result, error)
}

// waitDelay bounds how long Run waits for output pipes after the process
// has been killed.
const waitDelay = 2 * time.Second

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	// Timeout is applied per invocation on top of ctx. Zero disables it.
	Timeout time.Duration
	// Stderr, when set, receives a live copy of the process's stderr.
	Stderr io.Writer
}

// Run executes program and waits for it to exit.
func (r ExecRunner) Run(ctx context.Context, program string, args []string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.WaitDelay = waitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, r.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:  stdoutBuf.Bytes(),
		Stderr:  stderrBuf.Bytes(),
		Elapsed: time.Since(start),
	}
	if err == nil {
		return res, nil
	}

	binary := filepath.Base(program)
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fferr.Timeout("run", binary, res.Elapsed, ctxErr)
		}
		e := fferr.Wrap(fferr.KindExecutionError, "run", ctxErr, binary+" was canceled")
		e.Binary = binary
		return res, e
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	e := fferr.Wrap(fferr.KindExecutionError, "run", err, "could not start "+binary)
	e.Binary = binary
	return res, e
}
