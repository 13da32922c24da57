// Package check provides system diagnostics (the check command) and the
// dependency validation CheckDeps for ffmpeg, ffprobe, the configured
// encoders and the filters fflight renders.
package check

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/backmassage/fflight/internal/config"
	"github.com/backmassage/fflight/internal/fferr"
	"github.com/backmassage/fflight/internal/runner"
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Filters lists every ffmpeg filter the filter package can emit.
var Filters = []string{
	"scale", "crop", "trim", "rotate", "hflip", "vflip", "eq", "hqdn3d", "yadif",
	"volume", "superequalizer", "loudnorm", "highpass", "lowpass",
}

const (
	fallbackVideoCodec = "libx264"
	fallbackAudioCodec = "aac"
)

// Report summarises a RunCheck pass.
type Report struct {
	FFmpegVersion  string
	FFprobeVersion string
	MissingFilters []string
	Encoders       map[string]bool // codec -> test encode succeeded
}

// OK reports whether nothing blocking was found.
func (r Report) OK() bool {
	if r.FFmpegVersion == "" || r.FFprobeVersion == "" || len(r.MissingFilters) > 0 {
		return false
	}
	for _, ok := range r.Encoders {
		if !ok {
			return false
		}
	}
	return true
}

// RunCheck runs the interactive check flow: prints availability and version
// of ffmpeg and ffprobe, the filters fflight needs and a short test encode
// with the configured default codecs. It does not stop at the first failure.
func RunCheck(ctx context.Context, tool *runner.Tool, cfg *config.Config, log Logger) Report {
	log.Info("=== System Check ===")

	rep := Report{Encoders: map[string]bool{}}
	rep.FFmpegVersion = checkBinary(ctx, tool, "ffmpeg", log)
	rep.FFprobeVersion = checkBinary(ctx, tool, "ffprobe", log)
	if rep.FFmpegVersion == "" {
		return rep
	}

	rep.MissingFilters = checkFilters(ctx, tool, log)

	video, audio := codecs(cfg)
	checkEncoders(ctx, tool, []string{video, audio}, log)
	rep.Encoders[video] = checkEncode(ctx, tool, videoTestArgs(video), video, log)
	rep.Encoders[audio] = checkEncode(ctx, tool, audioTestArgs(audio), audio, log)
	return rep
}

// CheckDeps is the pre-run validation: it verifies that ffmpeg and ffprobe
// resolve and that both answer -version. Returns FFmpegNotFound (with an
// install suggestion) or the failing invocation's error.
func CheckDeps(ctx context.Context, tool *runner.Tool) error {
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if _, err := tool.Exec(ctx, "check", name, []string{"-version"}); err != nil {
			return err
		}
	}
	return nil
}

func codecs(cfg *config.Config) (video, audio string) {
	video, audio = fallbackVideoCodec, fallbackAudioCodec
	if cfg != nil {
		if cfg.Defaults.VideoCodec != "" {
			video = cfg.Defaults.VideoCodec
		}
		if cfg.Defaults.AudioCodec != "" {
			audio = cfg.Defaults.AudioCodec
		}
	}
	return video, audio
}

// checkBinary logs the first line of "name -version". Returns "" when
// the binary is missing or fails.
func checkBinary(ctx context.Context, tool *runner.Tool, name string, log Logger) string {
	res, err := tool.Exec(ctx, "check", name, []string{"-version"})
	if err != nil {
		if fferr.Is(err, fferr.KindFFmpegNotFound) {
			hint, _ := fferr.SuggestionOf(err)
			log.Error("%s not found (%s)", name, hint)
			return ""
		}
		log.Warn("%s found but -version failed: %v", name, err)
		return ""
	}
	firstLine := strings.TrimSpace(string(res.Stdout))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	if firstLine == "" {
		firstLine = "(no version output)"
	}
	log.Success("%s: %s", name, firstLine)
	return firstLine
}

// encoderLine matches one row of "ffmpeg -encoders", e.g.
// " V....D libx264   libx264 H.264 / AVC".
var encoderLine = regexp.MustCompile(`^\s*[VAS][F.][S.][X.][B.][D.]\s+(\S+)`)

// filterLine matches one row of "ffmpeg -filters", e.g.
// " ..C scale   V->V   Scale the input video size".
var filterLine = regexp.MustCompile(`^\s*[T.][S.][C.]\s+(\S+)\s+\S*->\S*`)

// ParseEncoders extracts encoder names from "ffmpeg -encoders" output.
func ParseEncoders(out string) []string {
	return parseList(out, encoderLine)
}

// ParseFilters extracts filter names from "ffmpeg -filters" output.
func ParseFilters(out string) []string {
	return parseList(out, filterLine)
}

func parseList(out string, re *regexp.Regexp) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		m := re.FindStringSubmatch(line)
		if m == nil || m[1] == "=" {
			continue
		}
		names = append(names, m[1])
	}
	return names
}

// checkEncoders logs whether each codec appears in the encoder list.
func checkEncoders(ctx context.Context, tool *runner.Tool, want []string, log Logger) {
	res, err := tool.Exec(ctx, "check", "ffmpeg", []string{"-hide_banner", "-encoders"})
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return
	}
	have := ParseEncoders(string(res.Stdout))
	for _, c := range want {
		if c == "copy" {
			continue
		}
		if slices.Contains(have, c) {
			log.Info("  encoder %s: available", c)
		} else {
			log.Warn("  encoder %s: not listed by this ffmpeg build", c)
		}
	}
}

// checkFilters returns the entries of Filters missing from this build.
func checkFilters(ctx context.Context, tool *runner.Tool, log Logger) []string {
	log.Info("Filters:")
	res, err := tool.Exec(ctx, "check", "ffmpeg", []string{"-hide_banner", "-filters"})
	if err != nil {
		log.Warn("Could not list filters: %v", err)
		return nil
	}
	have := ParseFilters(string(res.Stdout))
	var missing []string
	for _, f := range Filters {
		if !slices.Contains(have, f) {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		log.Success("All %d filters available", len(Filters))
	} else {
		log.Error("Missing filters: %s", strings.Join(missing, ", "))
	}
	return missing
}

// checkEncode runs a minimal test encode and logs the outcome.
func checkEncode(ctx context.Context, tool *runner.Tool, args []string, codec string, log Logger) bool {
	if codec == "copy" {
		return true
	}
	log.Info("Testing %s encoder...", codec)
	if _, err := tool.Exec(ctx, "check", "ffmpeg", args); err != nil {
		log.Error("%s test encode failed", codec)
		if hint, ok := fferr.SuggestionOf(err); ok {
			log.Debug(true, "  %s", hint)
		}
		return false
	}
	log.Success("%s encoder works", codec)
	return true
}

// videoTestArgs returns the arguments for a minimal video test encode.
func videoTestArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", codec,
		"-f", "null", "-",
	}
}

// audioTestArgs returns the arguments for a minimal audio test encode.
func audioTestArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", codec,
		"-f", "null", "-",
	}
}
