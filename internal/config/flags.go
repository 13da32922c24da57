package config

// This file binds the global flags shared by every subcommand. Flags are
// parsed into a scratch Config; only those the user actually set are
// copied over the file/default values by ApplyFlags.

import (
	"time"

	"github.com/spf13/pflag"
)

// BindFlags registers the global flags on fs, storing parsed values in cfg.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "Path to the ffmpeg binary")
	fs.StringVar(&cfg.FFprobePath, "ffprobe", cfg.FFprobePath, "Path to the ffprobe binary")
	fs.DurationVar((*time.Duration)(&cfg.Timeout), "timeout", cfg.Timeout.Std(), "Deadline per ffmpeg/ffprobe invocation (0 = none)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Color output: auto | always | never")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace | debug | info | warn | error")
}

// flagFields maps a global flag name to the Config field it sets.
var flagFields = map[string]func(dst, src *Config){
	"ffmpeg":    func(d, s *Config) { d.FFmpegPath = s.FFmpegPath },
	"ffprobe":   func(d, s *Config) { d.FFprobePath = s.FFprobePath },
	"timeout":   func(d, s *Config) { d.Timeout = s.Timeout },
	"verbose":   func(d, s *Config) { d.Verbose = s.Verbose },
	"color":     func(d, s *Config) { d.ColorMode = s.ColorMode },
	"log":       func(d, s *Config) { d.LogFile = s.LogFile },
	"log-level": func(d, s *Config) { d.LogLevel = s.LogLevel },
}

// ApplyFlags copies every global flag the user set on fs from src into
// dst. Unset flags leave dst untouched.
func ApplyFlags(fs *pflag.FlagSet, dst, src *Config) {
	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := flagFields[f.Name]; ok {
			apply(dst, src)
		}
	})
}

// pflag.Value adapter so ColorMode can be validated at parse time.
type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *colorModeValue) Set(s string) error {
	m, err := ParseColorMode(s)
	if err != nil {
		return err
	}
	*c.p = m
	return nil
}

func (c *colorModeValue) Type() string { return "mode" }
