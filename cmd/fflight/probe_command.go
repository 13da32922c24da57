package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/fflight/internal/display"
	"github.com/backmassage/fflight/internal/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Show container and stream metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pr, raw, err := probe.ProbeRaw(cmd.Context(), ctx.tool, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				_, err := out.Write(raw)
				return err
			}
			_, err = fmt.Fprintln(out, display.RenderProbe(args[0], pr))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print ffprobe's JSON output unchanged")
	return cmd
}
