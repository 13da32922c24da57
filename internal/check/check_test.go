package check

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/fflight/internal/config"
	"github.com/backmassage/fflight/internal/fferr"
	"github.com/backmassage/fflight/internal/runner"
	"github.com/backmassage/fflight/internal/runner/runnertest"
)

type mockLogger struct {
	lines []string
}

func (m *mockLogger) add(level, format string, args ...interface{}) {
	m.lines = append(m.lines, level+" "+fmt.Sprintf(format, args...))
}

func (m *mockLogger) Info(f string, a ...interface{})    { m.add("INFO", f, a...) }
func (m *mockLogger) Success(f string, a ...interface{}) { m.add("OK", f, a...) }
func (m *mockLogger) Warn(f string, a ...interface{})    { m.add("WARN", f, a...) }
func (m *mockLogger) Error(f string, a ...interface{})   { m.add("ERROR", f, a...) }
func (m *mockLogger) Debug(v bool, f string, a ...interface{}) {
	if v {
		m.add("DEBUG", f, a...)
	}
}

func (m *mockLogger) contains(level, substr string) bool {
	return slices.ContainsFunc(m.lines, func(l string) bool {
		return strings.HasPrefix(l, level+" ") && strings.Contains(l, substr)
	})
}

const encodersOut = `Encoders:
 V..... = Video
 A..... = Audio
 S..... = Subtitle
 .F.... = Frame-level multithreading
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC (codec h264)
 V....D libx265              libx265 H.265 / HEVC (codec hevc)
 A....D aac                  AAC (Advanced Audio Coding)
 S..... ass                  ASS (Advanced SubStation Alpha) subtitle
`

func filtersOut(names ...string) string {
	var b strings.Builder
	b.WriteString("Filters:\n  T.. = Timeline support\n  .S. = Slice threading\n  ..C = Command support\n  | = Source or sink filter\n")
	for _, n := range names {
		fmt.Fprintf(&b, " TSC %-16s V->V       Does %s things.\n", n, n)
	}
	return b.String()
}

// fakeFFmpeg answers the invocations RunCheck makes.
func fakeFFmpeg(filters []string, failEncode string) func(string, []string) (runner.Result, error) {
	return func(program string, args []string) (runner.Result, error) {
		switch {
		case slices.Equal(args, []string{"-version"}):
			name := program[strings.LastIndex(program, "/")+1:]
			return runner.Result{Stdout: []byte(name + " version 7.1 Copyright (c) 2000-2024\nbuilt with gcc\n")}, nil
		case slices.Contains(args, "-encoders"):
			return runner.Result{Stdout: []byte(encodersOut)}, nil
		case slices.Contains(args, "-filters"):
			return runner.Result{Stdout: []byte(filtersOut(filters...))}, nil
		case failEncode != "" && slices.Contains(args, failEncode):
			return runner.Result{ExitCode: 1, Stderr: []byte("Unknown encoder '" + failEncode + "'")}, nil
		}
		return runner.Result{}, nil
	}
}

func TestParseEncoders(t *testing.T) {
	assert.Equal(t, []string{"libx264", "libx265", "aac", "ass"}, ParseEncoders(encodersOut))
}

func TestParseFilters(t *testing.T) {
	out := filtersOut("scale", "crop") + " ... nullsrc          |->V       Null video source.\n"
	assert.Equal(t, []string{"scale", "crop", "nullsrc"}, ParseFilters(out))
}

func TestRunCheck_AllGood(t *testing.T) {
	rec := &runnertest.Recorder{Respond: fakeFFmpeg(Filters, "")}
	log := &mockLogger{}
	cfg := config.DefaultConfig()

	rep := RunCheck(context.Background(), runnertest.NewTool(rec), &cfg, log)

	assert.True(t, rep.OK(), "report: %+v\nlog: %v", rep, log.lines)
	assert.Equal(t, "ffmpeg version 7.1 Copyright (c) 2000-2024", rep.FFmpegVersion)
	assert.Equal(t, "ffprobe version 7.1 Copyright (c) 2000-2024", rep.FFprobeVersion)
	assert.Empty(t, rep.MissingFilters)
	assert.Equal(t, map[string]bool{"libx264": true, "aac": true}, rep.Encoders)
	assert.True(t, log.contains("OK", "libx264 encoder works"))
	assert.True(t, log.contains("INFO", "encoder aac: available"))
}

func TestRunCheck_MissingFilterAndEncoder(t *testing.T) {
	rec := &runnertest.Recorder{Respond: fakeFFmpeg([]string{"scale", "crop"}, "libsvtav1")}
	log := &mockLogger{}
	cfg := config.DefaultConfig()
	cfg.Defaults.VideoCodec = "libsvtav1"

	rep := RunCheck(context.Background(), runnertest.NewTool(rec), &cfg, log)

	assert.False(t, rep.OK())
	assert.Contains(t, rep.MissingFilters, "loudnorm")
	assert.NotContains(t, rep.MissingFilters, "scale")
	assert.False(t, rep.Encoders["libsvtav1"])
	assert.True(t, log.contains("WARN", "libsvtav1: not listed"))
	assert.True(t, log.contains("ERROR", "libsvtav1 test encode failed"))
	assert.True(t, log.contains("DEBUG", "codec name"))
}

func TestRunCheck_NoFFmpeg(t *testing.T) {
	rec := &runnertest.Recorder{}
	tool := &runner.Tool{Runner: rec, Resolver: runnertest.Resolver{}, GOOS: "darwin"}
	log := &mockLogger{}

	rep := RunCheck(context.Background(), tool, nil, log)

	assert.False(t, rep.OK())
	assert.Empty(t, rep.FFmpegVersion)
	assert.True(t, log.contains("ERROR", "brew"))
	assert.Empty(t, rec.Calls(), "nothing runs when ffmpeg is missing")
}

func TestCheckDeps(t *testing.T) {
	rec := &runnertest.Recorder{Respond: fakeFFmpeg(nil, "")}
	require.NoError(t, CheckDeps(context.Background(), runnertest.NewTool(rec)))
	require.Len(t, rec.Calls(), 2)

	tool := &runner.Tool{
		Runner:   &runnertest.Recorder{},
		Resolver: runnertest.Resolver{"ffmpeg": "/usr/bin/ffmpeg"},
		GOOS:     "linux",
	}
	err := CheckDeps(context.Background(), tool)
	assert.True(t, fferr.Is(err, fferr.KindFFmpegNotFound))
	fe, _ := fferr.As(err)
	assert.Equal(t, "ffprobe", fe.Binary)
}
