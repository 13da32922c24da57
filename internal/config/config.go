// Package config holds runtime configuration: defaults, file loading, flag
// binding and validation. Precedence is defaults < config file < flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ThumbnailFormat is the image format written by the thumbnail command.
type ThumbnailFormat string

const (
	ThumbnailPNG  ThumbnailFormat = "png"
	ThumbnailJPEG ThumbnailFormat = "jpeg"
)

// Duration is a time.Duration that decodes from "90s"-style text in both
// TOML and YAML files.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML accepts a scalar duration string.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", n.Line)
	}
	return d.UnmarshalText([]byte(n.Value))
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults are the per-command fallbacks applied when a flag is not given.
type Defaults struct {
	VideoCodec      string          `toml:"video_codec" yaml:"video_codec"`
	AudioCodec      string          `toml:"audio_codec" yaml:"audio_codec"`
	Preset          string          `toml:"preset" yaml:"preset"`
	ThumbnailFormat ThumbnailFormat `toml:"thumbnail_format" yaml:"thumbnail_format"`
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [Load], then by command-line flags.
type Config struct {
	// Binary overrides. Empty means resolve from PATH.
	FFmpegPath  string `toml:"ffmpeg_path" yaml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path" yaml:"ffprobe_path"`

	// Per-invocation deadline for external tools. Zero disables it.
	Timeout Duration `toml:"timeout" yaml:"timeout"`

	// Whether ffmpeg may replace existing output files (-y). Default: true.
	Overwrite bool `toml:"overwrite" yaml:"overwrite"`

	// Display and logging.
	Verbose   bool      `toml:"verbose" yaml:"verbose"`
	ColorMode ColorMode `toml:"color" yaml:"color"`         // Default: "auto".
	LogFile   string    `toml:"log_file" yaml:"log_file"`   // Optional log file path.
	LogLevel  string    `toml:"log_level" yaml:"log_level"` // Default: "info".

	Defaults Defaults `toml:"defaults" yaml:"defaults"`
}

// DefaultConfig returns a Config with every default set.
func DefaultConfig() Config {
	return Config{
		Timeout:   0,
		Overwrite: true,
		ColorMode: ColorAuto,
		LogLevel:  "info",
		Defaults: Defaults{
			ThumbnailFormat: ThumbnailPNG,
		},
	}
}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks enum fields and value ranges. It canonicalizes the log
// level and thumbnail format in place.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use auto, always or never)", c.ColorMode)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if !logLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}

	format, err := ParseThumbnailFormat(string(c.Defaults.ThumbnailFormat))
	if err != nil {
		return err
	}
	c.Defaults.ThumbnailFormat = format

	for name, v := range map[string]string{
		"video codec": c.Defaults.VideoCodec,
		"audio codec": c.Defaults.AudioCodec,
		"preset":      c.Defaults.Preset,
	} {
		if strings.ContainsAny(v, " \t\n") {
			return fmt.Errorf("default %s %q must not contain whitespace", name, v)
		}
	}
	return nil
}

// ParseThumbnailFormat accepts "png", "jpeg" or "jpg". Empty means PNG.
func ParseThumbnailFormat(s string) (ThumbnailFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return ThumbnailPNG, nil
	case "jpeg", "jpg":
		return ThumbnailJPEG, nil
	}
	return "", fmt.Errorf("invalid thumbnail format %q (use png or jpeg)", s)
}

// ParseColorMode accepts auto, always or never.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q (use auto, always or never)", s)
}
