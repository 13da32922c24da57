package runner_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/fflight/internal/fferr"
	"github.com/backmassage/fflight/internal/logging"
	"github.com/backmassage/fflight/internal/runner"
	"github.com/backmassage/fflight/internal/runner/runnertest"
)

func TestTool_ExecSuccess(t *testing.T) {
	rec := &runnertest.Recorder{Result: runner.Result{Stdout: []byte("{}")}}
	var logs bytes.Buffer
	tool := runnertest.NewTool(rec)
	tool.Log = logging.NewWriter(&logs, true)

	res, err := tool.Exec(context.Background(), "probe", "ffprobe", []string{"-v", "quiet", "in.mkv"})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(res.Stdout))

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/usr/bin/ffprobe", calls[0].Program)
	assert.Equal(t, []string{"-v", "quiet", "in.mkv"}, calls[0].Args)
	assert.Contains(t, logs.String(), "invocation=")
}

func TestTool_NotFound(t *testing.T) {
	for _, tc := range []struct{ goos, want string }{
		{"darwin", "brew"},
		{"windows", "https://ffmpeg.org/download.html"},
		{"linux", "apt"},
	} {
		t.Run(tc.goos, func(t *testing.T) {
			rec := &runnertest.Recorder{}
			tool := &runner.Tool{Runner: rec, Resolver: runnertest.Resolver{}, GOOS: tc.goos}

			_, err := tool.Exec(context.Background(), "transcode", "ffmpeg", nil)
			require.Error(t, err)
			assert.True(t, fferr.Is(err, fferr.KindFFmpegNotFound))
			hint, ok := fferr.SuggestionOf(err)
			require.True(t, ok)
			assert.Contains(t, hint, tc.want)
			assert.Empty(t, rec.Calls(), "runner must not be called when the binary is missing")
		})
	}
}

func TestTool_ProcessingErrorDiagnosis(t *testing.T) {
	stderr := "[NULL @ 0x1] Unknown encoder 'libx999'\nError selecting an encoder\n"
	rec := &runnertest.Recorder{Result: runner.Result{ExitCode: 1, Stderr: []byte(stderr)}}
	tool := runnertest.NewTool(rec)

	_, err := tool.Exec(context.Background(), "transcode", "ffmpeg", []string{"-i", "in.avi", "out.mp4"})
	require.Error(t, err)

	fe, ok := fferr.As(err)
	require.True(t, ok)
	assert.Equal(t, fferr.KindProcessingError, fe.Kind)
	assert.Equal(t, 1, fe.ExitCode)
	assert.Equal(t, stderr, fe.Stderr, "stderr must be carried verbatim")
	assert.Contains(t, err.Error(), "Unknown encoder 'libx999'")

	hint, ok := fe.Suggestion()
	require.True(t, ok)
	assert.Contains(t, hint, "codec name")
	assert.NotContains(t, err.Error(), hint, "suggestion stays out of the message")
}

func TestTool_RunnerErrorsPassThrough(t *testing.T) {
	timeout := fferr.Timeout("run", "ffmpeg", 0, context.DeadlineExceeded)
	tool := runnertest.NewTool(&runnertest.Recorder{Err: timeout})
	_, err := tool.Exec(context.Background(), "transcode", "ffmpeg", nil)
	assert.True(t, fferr.Is(err, fferr.KindTimeoutError))

	plain := errors.New("fork failed")
	tool = runnertest.NewTool(&runnertest.Recorder{Err: plain})
	_, err = tool.Exec(context.Background(), "transcode", "ffmpeg", nil)
	assert.True(t, fferr.Is(err, fferr.KindExecutionError))
	assert.ErrorIs(t, err, plain)
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		stderr string
		want   string
	}{
		{"Unknown encoder 'foo'", "codec name"},
		{"in.avi: No such file or directory", "input path"},
		{"out.mp4: Permission denied", "permission"},
		{"[AVFilterGraph @ 0x1] Error parsing filterchain 'scale=1:'", "filter"},
		{"Error parsing a filter description", "filter"},
		{"[vost#0:0] Error initializing filter 'x'", "filter"},
		{"out.mp4: Invalid argument", "filter"},
		{"File 'out.mp4' already exists. Exiting.", "overwrite"},
		{"in.bin: Invalid data found when processing input", "corrupt"},
	}
	for _, tt := range tests {
		got, ok := runner.Diagnose(tt.stderr)
		if !ok || !strings.Contains(got, tt.want) {
			t.Errorf("Diagnose(%q) = %q, %v; want hint containing %q", tt.stderr, got, ok, tt.want)
		}
	}
	if _, ok := runner.Diagnose("Conversion failed!"); ok {
		t.Error("unrecognized stderr should have no hint")
	}
}
