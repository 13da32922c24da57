package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Overwrite {
		t.Error("default Overwrite should be true")
	}
	if cfg.ColorMode != ColorAuto {
		t.Errorf("default ColorMode = %q, want %q", cfg.ColorMode, ColorAuto)
	}
	if cfg.Timeout != 0 {
		t.Errorf("default Timeout = %v, want 0", cfg.Timeout.Std())
	}
	if cfg.Defaults.ThumbnailFormat != ThumbnailPNG {
		t.Errorf("default ThumbnailFormat = %q", cfg.Defaults.ThumbnailFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		wantErr bool
	}{
		{"auto is valid", ColorAuto, false},
		{"always is valid", ColorAlways, false},
		{"never is valid", ColorNever, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "rainbow", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ColorMode = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"log level canonicalized", func(c *Config) { c.LogLevel = " DEBUG " }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"negative timeout", func(c *Config) { c.Timeout = Duration(-time.Second) }, true},
		{"jpg accepted", func(c *Config) { c.Defaults.ThumbnailFormat = "jpg" }, false},
		{"gif rejected", func(c *Config) { c.Defaults.ThumbnailFormat = "gif" }, true},
		{"codec with space", func(c *Config) { c.Defaults.VideoCodec = "lib x264" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "fflight.toml", `
ffmpeg_path = "/opt/ffmpeg/bin/ffmpeg"
timeout = "90s"
overwrite = false
color = "never"

[defaults]
video_codec = "libx265"
preset = "slow"
thumbnail_format = "jpg"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpegPath = %q", cfg.FFmpegPath)
	}
	if cfg.Timeout.Std() != 90*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout.Std())
	}
	if cfg.Overwrite {
		t.Error("Overwrite should be false")
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q", cfg.ColorMode)
	}
	if cfg.Defaults.VideoCodec != "libx265" || cfg.Defaults.Preset != "slow" {
		t.Errorf("Defaults = %+v", cfg.Defaults)
	}
	if cfg.Defaults.ThumbnailFormat != ThumbnailJPEG {
		t.Errorf("ThumbnailFormat = %q, want canonical jpeg", cfg.Defaults.ThumbnailFormat)
	}
	// Untouched fields keep their defaults.
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "fflight.yaml", `
ffprobe_path: /usr/local/bin/ffprobe
timeout: 2m
verbose: true
defaults:
  audio_codec: aac
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FFprobePath != "/usr/local/bin/ffprobe" {
		t.Errorf("FFprobePath = %q", cfg.FFprobePath)
	}
	if cfg.Timeout.Std() != 2*time.Minute {
		t.Errorf("Timeout = %v", cfg.Timeout.Std())
	}
	if !cfg.Verbose || cfg.Defaults.AudioCodec != "aac" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Overwrite {
		t.Error("Overwrite default should survive a file that omits it")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name, file, body string
	}{
		{"unknown toml key", "a.toml", "bogus = 1\n"},
		{"unknown yaml key", "a.yml", "bogus: 1\n"},
		{"bad duration", "a.toml", "timeout = \"soon\"\n"},
		{"invalid value", "a.yaml", "color: purple\n"},
		{"unsupported extension", "a.json", "{}"},
		{"multiple yaml documents", "a.yaml", "verbose: true\n---\nverbose: false\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.file, tt.body)); err == nil {
				t.Error("Load() should fail")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestApplyFlags_OnlyChangedFlagsOverride(t *testing.T) {
	fromFile := DefaultConfig()
	fromFile.FFmpegPath = "/from/file/ffmpeg"
	fromFile.LogLevel = "warn"

	parsed := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &parsed)
	if err := fs.Parse([]string{"--color", "always", "-v", "--timeout", "5s"}); err != nil {
		t.Fatal(err)
	}

	ApplyFlags(fs, &fromFile, &parsed)

	if fromFile.FFmpegPath != "/from/file/ffmpeg" {
		t.Errorf("unset flag overwrote FFmpegPath: %q", fromFile.FFmpegPath)
	}
	if fromFile.LogLevel != "warn" {
		t.Errorf("unset flag overwrote LogLevel: %q", fromFile.LogLevel)
	}
	if fromFile.ColorMode != ColorAlways || !fromFile.Verbose || fromFile.Timeout.Std() != 5*time.Second {
		t.Errorf("set flags not applied: %+v", fromFile)
	}
}

func TestColorFlagRejectsUnknownMode(t *testing.T) {
	cfg := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	BindFlags(fs, &cfg)
	if err := fs.Parse([]string{"--color", "sometimes"}); err == nil {
		t.Error("expected parse error for invalid color mode")
	}
}
