package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backmassage/fflight/internal/config"
	"github.com/backmassage/fflight/internal/logging"
	"github.com/backmassage/fflight/internal/runner"
)

// configEnv names a config file used when --config is not given.
const configEnv = "FFLIGHT_CONFIG"

// commandContext carries state shared by every subcommand: the merged
// config, the logger and the ffmpeg tool.
type commandContext struct {
	configPath string
	flags      config.Config // scratch target for global flags

	cfg  *config.Config
	log  *logging.Logger
	tool *runner.Tool

	// Overridable in tests.
	newLogger func(*config.Config) (*logging.Logger, error)
	newTool   func(*config.Config, *logging.Logger) *runner.Tool
}

func newCommandContext() *commandContext {
	return &commandContext{
		flags:     config.DefaultConfig(),
		newLogger: logging.NewLogger,
		newTool:   runner.NewTool,
	}
}

// setup merges defaults, the config file and explicitly set flags (in
// that order of precedence) and builds the logger and tool.
func (c *commandContext) setup(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()

	path := strings.TrimSpace(c.configPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(configEnv))
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	config.ApplyFlags(cmd.Flags(), &cfg, &c.flags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	log, err := c.newLogger(&cfg)
	if err != nil {
		return err
	}
	c.cfg = &cfg
	c.log = log
	c.tool = c.newTool(&cfg, log)
	if path != "" {
		log.Debug(cfg.Verbose, "Loaded config %s", path)
	}
	return nil
}

func (c *commandContext) close() {
	if c.log != nil {
		_ = c.log.Close()
	}
}
