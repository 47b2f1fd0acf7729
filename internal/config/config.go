// Package config loads server settings from TETHER_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
)

// Config holds the runtime configuration.
type Config struct {
	// DataDir holds the SQLite database. Defaults to ~/.tether.
	DataDir string `env:"TETHER_DATA_DIR"`
	// TokenSecret signs session tokens. When empty a random secret is
	// generated at startup and tokens do not survive a restart.
	TokenSecret string        `env:"TETHER_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"TETHER_TOKEN_TTL"     envDefault:"720h"`
	LogLevel    string        `env:"TETHER_LOG_LEVEL"     envDefault:"info"`
	// MetricsAddr enables the Prometheus /metrics listener when set.
	MetricsAddr string `env:"TETHER_METRICS_ADDR"`
	// KeyboardDir is the shared container the keyboard extension writes
	// snapshots to and reads profiles from. Defaults to <DataDir>/keyboard.
	KeyboardDir  string `env:"TETHER_KEYBOARD_DIR"`
	BridgeBuffer int    `env:"TETHER_BRIDGE_BUFFER" envDefault:"16"`
	// QuestionBank overrides the embedded question bank with a YAML file.
	QuestionBank string `env:"TETHER_QUESTION_BANK"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.DataDir) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".tether")
	}
	if strings.TrimSpace(c.KeyboardDir) == "" {
		c.KeyboardDir = filepath.Join(c.DataDir, "keyboard")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TETHER_TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.BridgeBuffer <= 0 {
		return fmt.Errorf("TETHER_BRIDGE_BUFFER must be positive, got %d", c.BridgeBuffer)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid TETHER_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
