package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/fflight/internal/display"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the fflight version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipSetup": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			display.PrintBanner(out)
			_, err := fmt.Fprintf(out, "fflight %s (%s)\n", version, commit)
			return err
		},
	}
}
