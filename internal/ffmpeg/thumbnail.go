package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/fflight/internal/config"
	"github.com/backmassage/fflight/internal/fferr"
	"github.com/backmassage/fflight/internal/filter"
	"github.com/backmassage/fflight/internal/runner"
	"github.com/backmassage/fflight/internal/units"
)

// ThumbnailOptions controls single-frame extraction.
type ThumbnailOptions struct {
	Time   units.Time
	Size   *units.Size            // nil keeps the source frame size.
	Format config.ThumbnailFormat // "" means PNG.
}

// thumbnailMuxers maps an image format to its -f muxer and default extension.
var thumbnailMuxers = map[config.ThumbnailFormat]struct{ muxer, ext string }{
	config.ThumbnailPNG:  {"image2", "png"},
	config.ThumbnailJPEG: {"mjpeg", "jpg"},
}

// ThumbnailArgs returns the ffmpeg arguments for extracting one frame from
// input at opts.Time, plus the output path actually written (with an
// extension appended when output has none).
func ThumbnailArgs(input, output string, opts ThumbnailOptions) ([]string, string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, "", fferr.InvalidInput("thumbnail", "input path is empty")
	}
	if strings.TrimSpace(output) == "" {
		return nil, "", fferr.InvalidInput("thumbnail", "output path is empty")
	}
	format := opts.Format
	if format == "" {
		format = config.ThumbnailPNG
	}
	mux, ok := thumbnailMuxers[format]
	if !ok {
		return nil, "", fferr.InvalidInput("thumbnail", "unknown thumbnail format %q (use png or jpeg)", format)
	}
	if filepath.Ext(output) == "" {
		output += "." + mux.ext
	}

	args := []string{
		"-y",
		"-ss", opts.Time.Timestamp(),
		"-i", input,
		"-frames:v", "1",
	}
	if opts.Size != nil {
		if err := opts.Size.Validate(); err != nil {
			return nil, "", err
		}
		vf, err := filter.RenderVideo([]filter.VideoFilter{filter.Scale{Width: opts.Size.Width, Height: opts.Size.Height}})
		if err != nil {
			return nil, "", err
		}
		args = append(args, "-vf", vf)
	}
	args = append(args, "-f", mux.muxer, output)
	return args, output, nil
}

// GenerateThumbnail writes a single frame of input to output. The parent
// directory of output is created if needed. It returns the path written.
func GenerateThumbnail(ctx context.Context, tool *runner.Tool, input, output string, opts ThumbnailOptions) (string, error) {
	args, written, err := ThumbnailArgs(input, output, opts)
	if err != nil {
		return "", err
	}
	if _, err := tool.Resolve("thumbnail", "ffmpeg"); err != nil {
		return "", err
	}
	if dir := filepath.Dir(written); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fferr.Wrap(fferr.KindExecutionError, "thumbnail", err, "create output directory")
		}
	}
	if _, err := tool.Exec(ctx, "thumbnail", "ffmpeg", args); err != nil {
		return "", err
	}
	return written, nil
}
