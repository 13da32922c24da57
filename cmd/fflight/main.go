// Command fflight is a thin CLI over ffprobe and ffmpeg: probe media,
// transcode with typed filters, extract thumbnails and check the local
// ffmpeg installation.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Cancel the running ffmpeg invocation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cc := newCommandContext()
	defer cc.close()

	cmd := newRootCommand(cc)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			printError(os.Stderr, err)
		}
		return 1
	}
	return 0
}
