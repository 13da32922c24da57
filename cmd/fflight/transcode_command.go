package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/backmassage/fflight/internal/config"
	"github.com/backmassage/fflight/internal/fferr"
	"github.com/backmassage/fflight/internal/ffmpeg"
	"github.com/backmassage/fflight/internal/filter"
	"github.com/backmassage/fflight/internal/units"
)

type transcodeOptions struct {
	videoCodec   string
	audioCodec   string
	videoBitrate string
	audioBitrate string
	frameRate    string
	preset       string
	size         string
	noOverwrite  bool
	dryRun       bool
	printGraph   bool
	extra        []string

	// Video filters, applied in this order.
	trimStart   string
	trimEnd     string
	deinterlace string
	crop        string
	scale       string
	rotate      float64
	flip        string
	brightness  float64
	contrast    float64
	denoise     string
	videoCustom []string

	// Audio filters, applied in this order.
	highpass    float64
	lowpass     float64
	bass        float64
	mid         float64
	treble      float64
	normalize   float64
	volume      float64
	audioCustom []string
}

func newTranscodeCommand(ctx *commandContext) *cobra.Command {
	var opts transcodeOptions

	cmd := &cobra.Command{
		Use:   "transcode <input> <output>",
		Short: "Transcode a file with optional video and audio filters",
		Long: `Transcode a file with ffmpeg.

Video filters run in a fixed order: deinterlace, crop, scale, rotate,
flip, brightness/contrast, denoise, then --vf-custom expressions. A trim
range is applied as input seeking. Audio filters run as highpass,
lowpass, equalizer, normalize, volume, then --af-custom expressions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := buildTranscode(cmd.Flags(), &opts, ctx.cfg, args[0], args[1])
			if err != nil {
				return err
			}
			b.WithTool(ctx.tool).WithLogger(ctx.log)

			if opts.printGraph {
				graph, err := b.FilterGraph()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), graph)
				return err
			}

			if opts.dryRun {
				line, err := b.DryRun()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), line)
				return err
			}

			ctx.log.Info("Transcoding %s -> %s", args[0], args[1])
			if err := b.Run(cmd.Context()); err != nil {
				return err
			}
			ctx.log.Success("Wrote %s", args[1])
			return nil
		},
	}

	bindTranscodeFlags(cmd.Flags(), &opts)
	return cmd
}

func bindTranscodeFlags(f *pflag.FlagSet, opts *transcodeOptions) {
	f.StringVar(&opts.videoCodec, "vcodec", "", "Video encoder (default from config)")
	f.StringVar(&opts.audioCodec, "acodec", "", "Audio encoder (default from config)")
	f.StringVar(&opts.videoBitrate, "vb", "", "Video bitrate, e.g. 2500k or 2.5M")
	f.StringVar(&opts.audioBitrate, "ab", "", "Audio bitrate, e.g. 192k")
	f.StringVar(&opts.frameRate, "fps", "", "Output frame rate, e.g. 30000/1001 or 29.97")
	f.StringVar(&opts.preset, "preset", "", "Encoder preset (default from config)")
	f.StringVar(&opts.size, "size", "", "Output size WxH, applied before --scale")
	f.BoolVar(&opts.noOverwrite, "no-overwrite", false, "Fail instead of replacing an existing output")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Print the ffmpeg command without running it")
	f.BoolVar(&opts.printGraph, "print-graph", false, "Print the filters as a labeled -filter_complex graph and exit")
	f.StringArrayVar(&opts.extra, "extra", nil, "Raw ffmpeg argument placed before the output (repeatable)")

	f.StringVar(&opts.trimStart, "trim-start", "", "Start time (HH:MM:SS.fff or seconds)")
	f.StringVar(&opts.trimEnd, "trim-end", "", "End time (HH:MM:SS.fff or seconds)")
	f.StringVar(&opts.deinterlace, "deinterlace", "", "Deinterlace with yadif; pass a mode as --deinterlace=MODE (send_frame, send_field, ...)")
	f.Lookup("deinterlace").NoOptDefVal = "default"
	f.StringVar(&opts.crop, "crop", "", "Crop W:H:X:Y")
	f.StringVar(&opts.scale, "scale", "", "Scale to WxH")
	f.Float64Var(&opts.rotate, "rotate", 0, "Rotate clockwise by degrees")
	f.StringVar(&opts.flip, "flip", "", "Mirror: h or v")
	f.Float64Var(&opts.brightness, "brightness", 0, "Brightness in [-1, 1]")
	f.Float64Var(&opts.contrast, "contrast", 1, "Contrast in [-1000, 1000]")
	f.StringVar(&opts.denoise, "denoise", "", "Denoise strength: light, medium or heavy")
	f.StringArrayVar(&opts.videoCustom, "vf-custom", nil, "Raw video filter expression (repeatable)")

	f.Float64Var(&opts.highpass, "highpass", 0, "High-pass cutoff in Hz")
	f.Float64Var(&opts.lowpass, "lowpass", 0, "Low-pass cutoff in Hz")
	f.Float64Var(&opts.bass, "bass", 1, "Bass gain (linear)")
	f.Float64Var(&opts.mid, "mid", 1, "Mid gain (linear)")
	f.Float64Var(&opts.treble, "treble", 1, "Treble gain (linear)")
	f.Float64Var(&opts.normalize, "normalize", -16, "Loudness-normalize to this integrated LUFS target")
	f.Float64Var(&opts.volume, "volume", 1, "Volume multiplier")
	f.StringArrayVar(&opts.audioCustom, "af-custom", nil, "Raw audio filter expression (repeatable)")
}

// buildTranscode turns parsed flags into a builder. Only flags the user
// set produce filters.
func buildTranscode(fs *pflag.FlagSet, o *transcodeOptions, cfg *config.Config, input, output string) (*ffmpeg.TranscodeBuilder, error) {
	b := ffmpeg.NewTranscode().Input(input).Output(output)

	// --- Codecs and rate control ---
	if c := firstNonEmpty(o.videoCodec, cfg.Defaults.VideoCodec); c != "" {
		b.VideoCodec(c)
	}
	if c := firstNonEmpty(o.audioCodec, cfg.Defaults.AudioCodec); c != "" {
		b.AudioCodec(c)
	}
	if p := firstNonEmpty(o.preset, cfg.Defaults.Preset); p != "" {
		b.Preset(p)
	}
	if o.videoBitrate != "" {
		br, err := units.ParseBitrate(o.videoBitrate)
		if err != nil {
			return nil, err
		}
		b.VideoBitrate(br.Kbps())
	}
	if o.audioBitrate != "" {
		br, err := units.ParseBitrate(o.audioBitrate)
		if err != nil {
			return nil, err
		}
		b.AudioBitrate(br.Kbps())
	}
	if o.frameRate != "" {
		fr, err := units.ParseFrameRate(o.frameRate)
		if err != nil {
			return nil, err
		}
		b.FrameRate(fr)
	}
	if o.size != "" {
		s, err := units.ParseSize(o.size)
		if err != nil {
			return nil, err
		}
		b.Size(s.Width, s.Height)
	}
	b.Overwrite(cfg.Overwrite && !o.noOverwrite)
	b.ExtraArgs(o.extra...)

	// --- Video filters ---
	if o.trimStart != "" || o.trimEnd != "" {
		trim, err := parseTrim(o.trimStart, o.trimEnd)
		if err != nil {
			return nil, err
		}
		b.AddVideoFilter(trim)
	}
	if fs.Changed("deinterlace") {
		mode := filter.DeinterlaceMode(o.deinterlace)
		if o.deinterlace == "default" {
			mode = filter.DeinterlaceDefault
		}
		b.AddVideoFilter(filter.Deinterlace{Mode: mode})
	}
	if o.crop != "" {
		c, err := parseCrop(o.crop)
		if err != nil {
			return nil, err
		}
		b.AddVideoFilter(c)
	}
	if o.scale != "" {
		s, err := units.ParseSize(o.scale)
		if err != nil {
			return nil, err
		}
		b.AddVideoFilter(filter.Scale{Width: s.Width, Height: s.Height})
	}
	if fs.Changed("rotate") {
		b.AddVideoFilter(filter.Rotate{Degrees: o.rotate})
	}
	if o.flip != "" {
		axis, err := filter.ParseFlipAxis(o.flip)
		if err != nil {
			return nil, err
		}
		b.AddVideoFilter(filter.Flip{Axis: axis})
	}
	if fs.Changed("brightness") || fs.Changed("contrast") {
		var bc filter.BrightnessContrast
		if fs.Changed("brightness") {
			bc.Brightness = &o.brightness
		}
		if fs.Changed("contrast") {
			bc.Contrast = &o.contrast
		}
		b.AddVideoFilter(bc)
	}
	if o.denoise != "" {
		s, err := filter.ParseDenoiseStrength(o.denoise)
		if err != nil {
			return nil, err
		}
		b.AddVideoFilter(filter.Denoise{Strength: s})
	}
	for _, expr := range o.videoCustom {
		b.AddVideoFilter(filter.VideoCustom{Expr: expr})
	}

	// --- Audio filters ---
	if fs.Changed("highpass") {
		b.AddAudioFilter(filter.HighPass{Frequency: o.highpass})
	}
	if fs.Changed("lowpass") {
		b.AddAudioFilter(filter.LowPass{Frequency: o.lowpass})
	}
	if fs.Changed("bass") || fs.Changed("mid") || fs.Changed("treble") {
		var eq filter.Equalizer
		if fs.Changed("bass") {
			eq.Bass = &o.bass
		}
		if fs.Changed("mid") {
			eq.Mid = &o.mid
		}
		if fs.Changed("treble") {
			eq.Treble = &o.treble
		}
		b.AddAudioFilter(eq)
	}
	if fs.Changed("normalize") {
		b.AddAudioFilter(filter.Normalization{TargetLevel: o.normalize})
	}
	if fs.Changed("volume") {
		b.AddAudioFilter(filter.Volume{Level: o.volume})
	}
	for _, expr := range o.audioCustom {
		b.AddAudioFilter(filter.AudioCustom{Expr: expr})
	}

	return b, b.Err()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseTrim(start, end string) (filter.Trim, error) {
	var trim filter.Trim
	if start != "" {
		t, err := units.ParseTime(start)
		if err != nil {
			return trim, err
		}
		trim.Start = t
	}
	if end != "" {
		t, err := units.ParseTime(end)
		if err != nil {
			return trim, err
		}
		trim.End = &t
	}
	return trim, nil
}

// parseCrop accepts "W:H:X:Y" or "W:H" (centered offsets are not
// computed; X and Y default to 0).
func parseCrop(text string) (filter.Crop, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 4 {
		return filter.Crop{}, fferr.InvalidInput("crop", "malformed crop %q (use W:H:X:Y)", text)
	}
	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return filter.Crop{}, fferr.InvalidInput("crop", "malformed crop %q (use W:H:X:Y)", text)
		}
		nums[i] = n
	}
	return filter.Crop{Width: nums[0], Height: nums[1], X: nums[2], Y: nums[3]}, nil
}
