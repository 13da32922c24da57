package runner

import (
	"context"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/backmassage/fflight/internal/config"
	"github.com/backmassage/fflight/internal/fferr"
	"github.com/backmassage/fflight/internal/logging"
)

// Tool bundles the capabilities needed to invoke ffmpeg and ffprobe:
// process spawning, binary resolution, the host OS (for install hints) and
// a logger. The zero value is not usable; build one with [NewTool] or set
// Runner and Resolver explicitly.
type Tool struct {
	Runner   Runner
	Resolver Resolver
	GOOS     string
	Log      *logging.Logger
}

// NewTool wires an ExecRunner and PathResolver from cfg.
func NewTool(cfg *config.Config, log *logging.Logger) *Tool {
	r := ExecRunner{Timeout: cfg.Timeout.Std()}
	if cfg.Verbose {
		r.Stderr = os.Stderr
	}
	return &Tool{
		Runner:   r,
		Resolver: NewPathResolver(cfg.FFmpegPath, cfg.FFprobePath),
		GOOS:     runtime.GOOS,
		Log:      log,
	}
}

func (t *Tool) goos() string {
	if t.GOOS == "" {
		return runtime.GOOS
	}
	return t.GOOS
}

// Logger returns t.Log, or a no-op logger when none is set.
func (t *Tool) Logger() *logging.Logger {
	if t.Log == nil {
		return logging.Nop()
	}
	return t.Log
}

// Resolve finds name via the Resolver. Absence yields FFmpegNotFound with
// an install suggestion for the host OS.
func (t *Tool) Resolve(op, name string) (string, error) {
	if t.Resolver != nil {
		if p, ok := t.Resolver.Resolve(name); ok {
			return p, nil
		}
	}
	return "", fferr.NotFound(op, name, InstallSuggestion(t.goos()))
}

// Exec resolves name, runs it once with args and classifies the outcome.
// A non-zero exit becomes a ProcessingError carrying stderr verbatim and,
// when the text matches a known pattern, a recovery suggestion. Exec
// never retries.
func (t *Tool) Exec(ctx context.Context, op, name string, args []string) (Result, error) {
	path, err := t.Resolve(op, name)
	if err != nil {
		return Result{}, err
	}
	if t.Runner == nil {
		return Result{}, fferr.New(fferr.KindExecutionError, op, "no runner configured")
	}

	zl := t.Logger().Component("runner").With().
		Str("invocation", uuid.NewString()).
		Str("binary", name).
		Logger()
	zl.Debug().Str("path", path).Strs("args", args).Msg("exec")

	res, err := t.Runner.Run(ctx, path, args)
	if err != nil {
		zl.Warn().Err(err).Msg("invocation failed")
		if _, ok := fferr.As(err); ok {
			return res, err
		}
		e := fferr.Wrap(fferr.KindExecutionError, op, err, "could not run "+name)
		e.Binary = name
		return res, e
	}

	logResult(zl, res)
	if res.ExitCode != 0 {
		stderr := string(res.Stderr)
		e := fferr.Processing(op, name, res.ExitCode, stderr)
		if hint, ok := Diagnose(stderr); ok {
			e = e.WithSuggestion(hint)
		}
		return res, e
	}
	return res, nil
}

func logResult(zl zerolog.Logger, res Result) {
	ev := zl.Debug()
	if res.ExitCode != 0 {
		ev = zl.Warn()
	}
	ev.Int("exit_code", res.ExitCode).
		Dur("elapsed", res.Elapsed).
		Int("stderr_bytes", len(res.Stderr)).
		Msg("exited")
}
