package ffmpeg

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/backmassage/fflight/internal/config"
	"github.com/backmassage/fflight/internal/fferr"
	"github.com/backmassage/fflight/internal/filter"
	"github.com/backmassage/fflight/internal/logging"
	"github.com/backmassage/fflight/internal/runner"
	"github.com/backmassage/fflight/internal/units"
)

// knownPresets are the x264/x265 speed presets. Other names are passed
// through to the encoder unchanged.
var knownPresets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow", "placebo",
}

// TranscodeBuilder accumulates a single ffmpeg transcode job. Setters
// return the builder for chaining; the first invalid value is remembered
// and reported by Args or Run. A builder is owned by one caller and is not
// safe for concurrent use.
type TranscodeBuilder struct {
	input  string
	output string

	videoCodec   string
	audioCodec   string
	videoBitrate units.Bitrate
	audioBitrate units.Bitrate
	frameRate    *units.FrameRate
	preset       string
	size         *units.Size
	overwrite    bool

	videoFilters []filter.VideoFilter
	audioFilters []filter.AudioFilter
	extraArgs    []string

	tool *runner.Tool
	log  *logging.Logger

	err              error
	warnedDeprecated bool
}

// NewTranscode returns an empty builder. Overwrite is on by default.
func NewTranscode() *TranscodeBuilder {
	return &TranscodeBuilder{overwrite: true}
}

func (b *TranscodeBuilder) fail(err error) *TranscodeBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *TranscodeBuilder) logger() *logging.Logger {
	if b.log != nil {
		return b.log
	}
	if b.tool != nil {
		return b.tool.Logger()
	}
	return logging.Nop()
}

// --- Setters ---

// Input sets the source media path.
func (b *TranscodeBuilder) Input(path string) *TranscodeBuilder {
	if strings.TrimSpace(path) == "" {
		return b.fail(fferr.InvalidInput("input", "input path is empty"))
	}
	b.input = path
	return b
}

// Output sets the destination path.
func (b *TranscodeBuilder) Output(path string) *TranscodeBuilder {
	if strings.TrimSpace(path) == "" {
		return b.fail(fferr.InvalidInput("output", "output path is empty"))
	}
	b.output = path
	return b
}

// VideoCodec sets the -c:v encoder name, e.g. "libx264" or "copy".
func (b *TranscodeBuilder) VideoCodec(name string) *TranscodeBuilder {
	if err := checkIdent("video codec", name); err != nil {
		return b.fail(err)
	}
	b.videoCodec = name
	return b
}

// AudioCodec sets the -c:a encoder name.
func (b *TranscodeBuilder) AudioCodec(name string) *TranscodeBuilder {
	if err := checkIdent("audio codec", name); err != nil {
		return b.fail(err)
	}
	b.audioCodec = name
	return b
}

// VideoBitrate sets the target video bitrate in kbit/s.
func (b *TranscodeBuilder) VideoBitrate(kbps int) *TranscodeBuilder {
	br, err := units.NewBitrate(kbps)
	if err != nil {
		return b.fail(fferr.InvalidInput("video bitrate", "video bitrate must be positive (got %d)", kbps))
	}
	b.videoBitrate = br
	return b
}

// AudioBitrate sets the target audio bitrate in kbit/s.
func (b *TranscodeBuilder) AudioBitrate(kbps int) *TranscodeBuilder {
	br, err := units.NewBitrate(kbps)
	if err != nil {
		return b.fail(fferr.InvalidInput("audio bitrate", "audio bitrate must be positive (got %d)", kbps))
	}
	b.audioBitrate = br
	return b
}

// FrameRate sets the output frame rate as a rational.
func (b *TranscodeBuilder) FrameRate(r units.FrameRate) *TranscodeBuilder {
	fr, err := units.NewFrameRate(r.Num, r.Den)
	if err != nil {
		return b.fail(err)
	}
	b.frameRate = &fr
	return b
}

// FrameRateFloat sets the output frame rate from a decimal such as 29.97.
func (b *TranscodeBuilder) FrameRateFloat(fps float64) *TranscodeBuilder {
	fr, err := units.FrameRateFromFloat(fps)
	if err != nil {
		return b.fail(err)
	}
	b.frameRate = &fr
	return b
}

// Preset sets the encoder speed preset. Names outside the x264/x265 set
// are passed through.
func (b *TranscodeBuilder) Preset(name string) *TranscodeBuilder {
	if err := checkIdent("preset", name); err != nil {
		return b.fail(err)
	}
	if !slices.Contains(knownPresets, name) {
		lg := b.logger()
		lg.Debug(lg.Verbose(), "Preset %q is not a known x264/x265 preset; passing it through", name)
	}
	b.preset = name
	return b
}

// Size sets an explicit output frame size. It is applied as the first
// stage of the video filter chain.
func (b *TranscodeBuilder) Size(width, height int) *TranscodeBuilder {
	s, err := units.NewSize(width, height)
	if err != nil {
		return b.fail(err)
	}
	b.size = &s
	return b
}

// Overwrite selects -y (true) or -n (false).
func (b *TranscodeBuilder) Overwrite(on bool) *TranscodeBuilder {
	b.overwrite = on
	return b
}

// AddVideoFilter appends f to the video chain.
func (b *TranscodeBuilder) AddVideoFilter(f filter.VideoFilter) *TranscodeBuilder {
	if f == nil {
		return b.fail(fferr.InvalidInput("video filter", "video filter is nil"))
	}
	b.videoFilters = append(b.videoFilters, f)
	return b
}

// AddAudioFilter appends f to the audio chain.
func (b *TranscodeBuilder) AddAudioFilter(f filter.AudioFilter) *TranscodeBuilder {
	if f == nil {
		return b.fail(fferr.InvalidInput("audio filter", "audio filter is nil"))
	}
	b.audioFilters = append(b.audioFilters, f)
	return b
}

// AddFilter appends a video filter.
//
// Deprecated: use AddVideoFilter.
func (b *TranscodeBuilder) AddFilter(f filter.VideoFilter) *TranscodeBuilder {
	if !b.warnedDeprecated {
		b.warnedDeprecated = true
		b.logger().Warn("AddFilter is deprecated; use AddVideoFilter")
	}
	return b.AddVideoFilter(f)
}

// ExtraArgs appends raw arguments placed just before the output path.
func (b *TranscodeBuilder) ExtraArgs(args ...string) *TranscodeBuilder {
	b.extraArgs = append(b.extraArgs, args...)
	return b
}

// WithTool binds the runner used by Run.
func (b *TranscodeBuilder) WithTool(t *runner.Tool) *TranscodeBuilder {
	b.tool = t
	return b
}

// WithLogger sets the logger for builder diagnostics.
func (b *TranscodeBuilder) WithLogger(l *logging.Logger) *TranscodeBuilder {
	b.log = l
	return b
}

func checkIdent(slot, name string) error {
	if strings.TrimSpace(name) == "" {
		return fferr.InvalidInput(slot, "%s is empty", slot)
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return fferr.InvalidInput(slot, "%s %q must not contain whitespace", slot, name)
	}
	return nil
}

// --- Accessors ---

func (b *TranscodeBuilder) InputPath() string       { return b.input }
func (b *TranscodeBuilder) OutputPath() string      { return b.output }
func (b *TranscodeBuilder) VideoCodecValue() string { return b.videoCodec }
func (b *TranscodeBuilder) AudioCodecValue() string { return b.audioCodec }
func (b *TranscodeBuilder) PresetValue() string     { return b.preset }
func (b *TranscodeBuilder) OverwriteEnabled() bool  { return b.overwrite }

// VideoBitrateValue reports the video bitrate, if set.
func (b *TranscodeBuilder) VideoBitrateValue() (units.Bitrate, bool) {
	return b.videoBitrate, b.videoBitrate > 0
}

// AudioBitrateValue reports the audio bitrate, if set.
func (b *TranscodeBuilder) AudioBitrateValue() (units.Bitrate, bool) {
	return b.audioBitrate, b.audioBitrate > 0
}

// FrameRateValue reports the frame rate, if set.
func (b *TranscodeBuilder) FrameRateValue() (units.FrameRate, bool) {
	if b.frameRate == nil {
		return units.FrameRate{}, false
	}
	return *b.frameRate, true
}

// SizeValue reports the explicit output size, if set.
func (b *TranscodeBuilder) SizeValue() (units.Size, bool) {
	if b.size == nil {
		return units.Size{}, false
	}
	return *b.size, true
}

// VideoFilters returns a copy of the video chain.
func (b *TranscodeBuilder) VideoFilters() []filter.VideoFilter { return slices.Clone(b.videoFilters) }

// AudioFilters returns a copy of the audio chain.
func (b *TranscodeBuilder) AudioFilters() []filter.AudioFilter { return slices.Clone(b.audioFilters) }

// ExtraArgsValue returns a copy of the extra arguments.
func (b *TranscodeBuilder) ExtraArgsValue() []string { return slices.Clone(b.extraArgs) }

// Err returns the first setter error, if any.
func (b *TranscodeBuilder) Err() error { return b.err }

// --- Finalize ---

// Args validates the accumulated state and returns the ffmpeg argument
// vector, without the program name. It never mutates the builder, so
// repeated calls return identical vectors.
//
// Order: -y|-n, -ss/-to (lifted Trim), -i, -c:v, -c:a, -b:v, -b:a, -r,
// -vf, -af, -preset, extra args, output. The lifted range goes before -i
// so ffmpeg seeks the input instead of decoding and discarding frames.
func (b *TranscodeBuilder) Args() ([]string, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.input == "" {
		return nil, fferr.InvalidInput("transcode", "input path is not set")
	}
	if b.output == "" {
		return nil, fferr.InvalidInput("transcode", "output path is not set")
	}

	trim, err := b.liftTrim()
	if err != nil {
		return nil, err
	}
	vf, err := b.renderVideo()
	if err != nil {
		return nil, err
	}
	af, err := filter.RenderAudio(b.audioFilters)
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, 32)

	// --- Overwrite ---
	if b.overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}

	// --- Input seeking (lifted Trim) ---
	if trim != nil {
		if !trim.Start.IsZero() {
			args = append(args, "-ss", trim.Start.Timestamp())
		}
		if trim.End != nil {
			args = append(args, "-to", trim.End.Timestamp())
		}
	}

	// --- Input ---
	args = append(args, "-i", b.input)

	// --- Codecs ---
	if b.videoCodec != "" {
		args = append(args, "-c:v", b.videoCodec)
	}
	if b.audioCodec != "" {
		args = append(args, "-c:a", b.audioCodec)
	}

	// --- Bitrates ---
	if b.videoBitrate > 0 {
		args = append(args, "-b:v", b.videoBitrate.Arg())
	}
	if b.audioBitrate > 0 {
		args = append(args, "-b:a", b.audioBitrate.Arg())
	}

	// --- Frame rate ---
	if b.frameRate != nil {
		args = append(args, "-r", b.frameRate.String())
	}

	// --- Filter graphs ---
	if vf != "" {
		args = append(args, "-vf", vf)
	}
	if af != "" {
		args = append(args, "-af", af)
	}

	// --- Preset ---
	if b.preset != "" {
		args = append(args, "-preset", b.preset)
	}

	// --- Extra args and output ---
	args = append(args, b.extraArgs...)
	args = append(args, b.output)

	return args, nil
}

// liftTrim returns the single Trim in the video chain, if any. More than
// one is a conflict: input seeking covers one range.
func (b *TranscodeBuilder) liftTrim() (*filter.Trim, error) {
	var found *filter.Trim
	for i, f := range b.videoFilters {
		t, ok := f.(filter.Trim)
		if !ok {
			continue
		}
		if found != nil {
			return nil, fferr.InvalidInput("transcode", "more than one Trim filter (second at index %d); only one time range can be applied", i)
		}
		if err := t.Validate(); err != nil {
			return nil, fferr.Filter(filter.ChainOp, i, t.String(), err)
		}
		found = &t
	}
	return found, nil
}

// videoChain assembles the explicit Size (if any) followed by every video
// filter except the lifted Trim. origin maps each chain position back to
// the caller's video filter index.
func (b *TranscodeBuilder) videoChain() (chain filter.Chain[filter.VideoFilter], origin []int) {
	chain = make(filter.Chain[filter.VideoFilter], 0, len(b.videoFilters)+1)
	origin = make([]int, 0, len(b.videoFilters)+1)
	if b.size != nil {
		chain = append(chain, filter.Scale{Width: b.size.Width, Height: b.size.Height})
		origin = append(origin, fferr.NoFilterIndex)
		if b.hasScale() {
			lg := b.logger()
			lg.Debug(lg.Verbose(), "Explicit size %s and Scale filter both set; applying size first (two-stage scale)", b.size)
		}
	}
	for i, f := range b.videoFilters {
		if _, ok := f.(filter.Trim); ok {
			continue
		}
		chain = append(chain, f)
		origin = append(origin, i)
	}
	return chain, origin
}

// remapIndex rewrites a chain FilterError's index to the caller's list.
func remapIndex(err error, origin []int) error {
	if fe, ok := fferr.As(err); ok && fe.Kind == fferr.KindFilterError &&
		fe.FilterIndex >= 0 && fe.FilterIndex < len(origin) {
		fe.FilterIndex = origin[fe.FilterIndex]
	}
	return err
}

func (b *TranscodeBuilder) renderVideo() (string, error) {
	chain, origin := b.videoChain()
	out, err := chain.Render()
	if err != nil {
		return "", remapIndex(err, origin)
	}
	return out, nil
}

// FilterGraph renders the video and audio chains as a single labeled
// -filter_complex graph, "[0:v]...[v];[0:a]...[a]". Empty chains are
// left out; a builder with no filters yields "". A lifted Trim is not
// part of the graph.
func (b *TranscodeBuilder) FilterGraph() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if _, err := b.liftTrim(); err != nil {
		return "", err
	}
	chain, origin := b.videoChain()
	vg, err := chain.Labeled("0:v", "v")
	if err != nil {
		return "", remapIndex(err, origin)
	}
	ag, err := filter.Chain[filter.AudioFilter](b.audioFilters).Labeled("0:a", "a")
	if err != nil {
		return "", err
	}
	var parts []string
	for _, g := range []string{vg, ag} {
		if g != "" {
			parts = append(parts, g)
		}
	}
	return strings.Join(parts, ";"), nil
}

func (b *TranscodeBuilder) hasScale() bool {
	return slices.ContainsFunc(b.videoFilters, func(f filter.VideoFilter) bool {
		_, ok := f.(filter.Scale)
		return ok
	})
}

// --- Run ---

func (b *TranscodeBuilder) runTool() *runner.Tool {
	if b.tool != nil {
		return b.tool
	}
	cfg := config.DefaultConfig()
	return runner.NewTool(&cfg, b.logger())
}

// Run resolves ffmpeg, finalizes the arguments and invokes ffmpeg exactly
// once. It may be called again and reproduces the same invocation.
func (b *TranscodeBuilder) Run(ctx context.Context) error {
	tool := b.runTool()
	if _, err := tool.Resolve("transcode", "ffmpeg"); err != nil {
		return err
	}
	args, err := b.Args()
	if err != nil {
		return err
	}
	_, err = tool.Exec(ctx, "transcode", "ffmpeg", args)
	return err
}

// DryRun returns the command line Run would execute, quoted for display.
func (b *TranscodeBuilder) DryRun() (string, error) {
	args, err := b.Args()
	if err != nil {
		return "", err
	}
	return CommandLine("ffmpeg", args), nil
}

// CommandLine renders program and args as a single display string,
// quoting arguments that contain whitespace or quotes.
func CommandLine(program string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, program)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'\\") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
