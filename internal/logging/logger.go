// Package logging provides the leveled console logger used by fflight.
//
// Output goes through rs/zerolog: a human console format on stdout (errors
// on stderr) and, when a log file is configured, one JSON object per line
// appended to that file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/backmassage/fflight/internal/config"
	"github.com/backmassage/fflight/internal/term"
)

const timeFormat = "2006-01-02 15:04:05"

// levelSuccess is written as the level field of Success events.
const levelSuccess = "success"

// Logger provides leveled, optionally colored logging with an optional file
// sink.
type Logger struct {
	zl      zerolog.Logger
	verbose bool
	file    *os.File
	mu      sync.Mutex
}

// NewLogger configures colors from cfg and optionally opens cfg.LogFile.
// Call Close when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	color := term.Configure(cfg.ColorMode)

	var file *os.File
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if cfg.Verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	s := &sink{
		out: consoleWriter(os.Stdout, color),
		err: consoleWriter(os.Stderr, color),
	}
	if file != nil {
		s.file = file
	}
	l := &Logger{
		zl:      zerolog.New(s).Level(level).With().Timestamp().Logger(),
		verbose: cfg.Verbose,
		file:    file,
	}
	return l, nil
}

// NewWriter returns an uncolored logger that writes every level to w.
func NewWriter(w io.Writer, verbose bool) *Logger {
	cw := consoleWriter(w, false)
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return &Logger{
		zl:      zerolog.New(&sink{out: cw, err: cw}).Level(level).With().Timestamp().Logger(),
		verbose: verbose,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Verbose reports whether debug output was requested.
func (l *Logger) Verbose() bool { return l.verbose }

// Component returns a child logger tagged with component.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zl.With().Str("component", name).Logger()
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

// Success logs a completed step. It is always shown regardless of level.
func (l *Logger) Success(format string, args ...any) {
	l.zl.Log().Str(zerolog.LevelFieldName, levelSuccess).Msgf(format, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs at ERROR level, to stderr.
func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

// Debug logs at DEBUG level only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...any) {
	if !verbose {
		return
	}
	dl := l.zl.Level(zerolog.TraceLevel)
	dl.Debug().Msgf(format, args...)
}

// sink routes console output by level and mirrors raw JSON to the file.
type sink struct {
	mu   sync.Mutex
	out  io.Writer
	err  io.Writer
	file io.Writer
}

func (s *sink) Write(p []byte) (int, error) {
	return s.WriteLevel(zerolog.NoLevel, p)
}

func (s *sink) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.out
	if level >= zerolog.ErrorLevel && level < zerolog.NoLevel {
		w = s.err
	}
	if _, err := w.Write(p); err != nil {
		return 0, err
	}
	if s.file != nil {
		if _, err := s.file.Write(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func consoleWriter(w io.Writer, color bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:         w,
		NoColor:     !color,
		TimeFormat:  timeFormat,
		FormatLevel: formatLevel,
	}
}

// formatLevel renders "[INFO]"-style tags in the colors set by term.
func formatLevel(i any) string {
	lvl, _ := i.(string)
	var tag, color string
	switch lvl {
	case "trace":
		tag, color = "TRACE", term.Dim
	case "debug":
		tag, color = "DEBUG", term.Cyan
	case "info":
		tag, color = "INFO", term.Blue
	case levelSuccess:
		tag, color = "SUCCESS", term.Green
	case "warn":
		tag, color = "WARN", term.Yellow
	case "error", "fatal", "panic":
		tag, color = "ERROR", term.Red
	default:
		tag = "LOG"
	}
	if color == "" {
		return "[" + tag + "]"
	}
	return color + "[" + tag + "]" + term.NC
}
