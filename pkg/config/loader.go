package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/td-cli/td/pkg/log"
)

const configFilename = "config.toml"

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "TD_CONFIG"

// DefaultPath returns the platform config file location, honoring the
// TD_CONFIG override and XDG_CONFIG_HOME.
func DefaultPath() string {
	if override := os.Getenv(EnvConfigPath); override != "" {
		return override
	}
	return filepath.Join(xdg.ConfigHome, "td", configFilename)
}

// Load reads and validates the config at path. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Version > CurrentVersion {
		logger := log.WithComponent(log.ComponentConfig)
		logger.Warn().
			Int("version", cfg.Version).Int("supported", CurrentVersion).
			Msg("config file is from a newer version; continuing")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories. The
// file is written via a sibling temp file and rename so a crash never
// leaves a truncated config behind.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	raw, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace config file %s: %w", path, err)
	}
	return nil
}
