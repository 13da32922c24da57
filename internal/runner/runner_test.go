package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/backmassage/fflight/internal/fferr"
)

const helperEnv = "FFLIGHT_RUNNER_HELPER"

// TestMain doubles as a fake ffmpeg: when helperEnv is set the test binary
// behaves according to its first argument instead of running tests.
func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "1" {
		os.Exit(helperMain(os.Args[1:]))
	}
	goleak.VerifyTestMain(m)
}

func helperMain(args []string) int {
	if len(args) == 0 {
		return 2
	}
	switch args[0] {
	case "ok":
		fmt.Fprint(os.Stdout, strings.Join(args[1:], "|"))
		return 0
	case "fail":
		fmt.Fprint(os.Stderr, "Unknown encoder 'libnope'")
		return 3
	case "sleep":
		time.Sleep(10 * time.Second)
		return 0
	}
	return 2
}

func helperRunner(t *testing.T, timeout time.Duration) (ExecRunner, string) {
	t.Helper()
	t.Setenv(helperEnv, "1")
	return ExecRunner{Timeout: timeout}, os.Args[0]
}

func TestExecRunner_Success(t *testing.T) {
	r, self := helperRunner(t, 0)
	res, err := r.Run(context.Background(), self, []string{"ok", "a b", "c;d"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	// Arguments arrive verbatim; no shell splitting.
	assert.Equal(t, "a b|c;d", string(res.Stdout))
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	r, self := helperRunner(t, 0)
	var live strings.Builder
	r.Stderr = &live

	res, err := r.Run(context.Background(), self, []string{"fail"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "Unknown encoder 'libnope'", string(res.Stderr))
	assert.Equal(t, string(res.Stderr), live.String())
}

func TestExecRunner_Timeout(t *testing.T) {
	r, self := helperRunner(t, 150*time.Millisecond)
	_, err := r.Run(context.Background(), self, []string{"sleep"})
	require.Error(t, err)

	fe, ok := fferr.As(err)
	require.True(t, ok)
	assert.Equal(t, fferr.KindTimeoutError, fe.Kind)
	assert.GreaterOrEqual(t, fe.Elapsed, 150*time.Millisecond)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestExecRunner_Canceled(t *testing.T) {
	r, self := helperRunner(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, self, []string{"sleep"})
	assert.True(t, fferr.Is(err, fferr.KindExecutionError), "got %v", err)
}

func TestExecRunner_SpawnFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-ffmpeg")
	_, err := ExecRunner{}.Run(context.Background(), missing, nil)
	require.Error(t, err)
	assert.True(t, fferr.Is(err, fferr.KindExecutionError), "got %v", err)
	fe, _ := fferr.As(err)
	assert.Equal(t, "no-such-ffmpeg", fe.Binary)
}
