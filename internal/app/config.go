package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config controls one game session. Values come from the environment
// first (GROTTO_* variables), then flag overrides in main.
type Config struct {
	PlayerName string `env:"GROTTO_PLAYER"`
	WorkDir    string `env:"GROTTO_WORKDIR"`
	RoomsPath  string `env:"GROTTO_ROOMS"`
	DataDir    string `env:"GROTTO_DATA_DIR"`
	LogPath    string `env:"GROTTO_LOG"`
	Resume     bool   `env:"GROTTO_RESUME"`
	ASCIIOnly  bool   `env:"GROTTO_ASCII"`
}

func DefaultConfig() Config {
	return Config{PlayerName: "wanderer"}
}

// FromEnv layers environment variables over the defaults.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate normalizes the config, filling derived paths.
func (c *Config) Validate() error {
	c.PlayerName = strings.TrimSpace(c.PlayerName)
	if c.PlayerName == "" {
		return errors.New("player name is required")
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "gitgrotto")
	}
	if c.WorkDir == "" {
		c.WorkDir = filepath.Join(c.DataDir, "grotto")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(c.DataDir, "session.log")
	}
	if c.RoomsPath != "" {
		if _, err := os.Stat(c.RoomsPath); err != nil {
			return fmt.Errorf("rooms pack not found: %s", c.RoomsPath)
		}
	}
	return nil
}
