package main

import (
	"github.com/spf13/cobra"

	"github.com/backmassage/fflight/internal/config"
	"github.com/backmassage/fflight/internal/ffmpeg"
	"github.com/backmassage/fflight/internal/units"
)

func newThumbnailCommand(ctx *commandContext) *cobra.Command {
	var at, size, format string

	cmd := &cobra.Command{
		Use:   "thumbnail <input> <output>",
		Short: "Extract a single frame as an image",
		Long: `Extract one frame from the input at --at.

The output extension is appended when missing (.png or .jpg) and the
output directory is created if needed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := thumbnailOptions(at, size, format, ctx.cfg)
			if err != nil {
				return err
			}
			written, err := ffmpeg.GenerateThumbnail(cmd.Context(), ctx.tool, args[0], args[1], opts)
			if err != nil {
				return err
			}
			ctx.log.Success("Thumbnail written to %s", written)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "0", "Frame time (HH:MM:SS.fff or seconds)")
	cmd.Flags().StringVar(&size, "size", "", "Resize the frame to WxH")
	cmd.Flags().StringVar(&format, "format", "", "Image format: png or jpeg (default from config)")
	return cmd
}

func thumbnailOptions(at, size, format string, cfg *config.Config) (ffmpeg.ThumbnailOptions, error) {
	var opts ffmpeg.ThumbnailOptions

	t, err := units.ParseTime(at)
	if err != nil {
		return opts, err
	}
	opts.Time = t

	if size != "" {
		s, err := units.ParseSize(size)
		if err != nil {
			return opts, err
		}
		opts.Size = &s
	}

	if format == "" {
		format = string(cfg.Defaults.ThumbnailFormat)
	}
	f, err := config.ParseThumbnailFormat(format)
	if err != nil {
		return opts, err
	}
	opts.Format = f
	return opts, nil
}
