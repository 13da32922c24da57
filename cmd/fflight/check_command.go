package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/backmassage/fflight/internal/check"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify ffmpeg, ffprobe, encoders and filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := check.RunCheck(cmd.Context(), ctx.tool, ctx.cfg, ctx.log)
			if !rep.OK() {
				return errors.New("system check found problems")
			}
			return nil
		},
	}
}
