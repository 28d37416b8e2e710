package config

import (
	"fmt"
	"strings"
)

// CurrentVersion is the config schema version this build writes.
const CurrentVersion = 1

// TokenStorage selects where the API token lives.
type TokenStorage string

const (
	StorageConfig  TokenStorage = "config"
	StorageKeyring TokenStorage = "keyring"
	StorageEnv     TokenStorage = "env"
)

// DateFormat selects how dates render in human output.
type DateFormat string

const (
	DateRelative DateFormat = "relative"
	DateISO      DateFormat = "iso"
	DateShort    DateFormat = "short"
)

// Config is the on-disk configuration.
type Config struct {
	// Version of the config schema. Forward versions parse unchanged
	// with a warning.
	Version int `toml:"version"`

	// Token is the API token, when token_storage is "config".
	Token string `toml:"token,omitempty"`

	// TokenStorage is one of "config", "keyring", "env".
	TokenStorage TokenStorage `toml:"token_storage,omitempty"`

	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
}

// OutputConfig controls human-readable rendering.
type OutputConfig struct {
	Color      bool       `toml:"color"`
	DateFormat DateFormat `toml:"date_format,omitempty"`
}

// CacheConfig controls the local cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		Version:      CurrentVersion,
		TokenStorage: StorageConfig,
		Output: OutputConfig{
			Color:      true,
			DateFormat: DateRelative,
		},
		Cache: CacheConfig{Enabled: true},
	}
}

// Validate checks enum fields.
func (c *Config) Validate() error {
	switch c.TokenStorage {
	case "", StorageConfig, StorageKeyring, StorageEnv:
	default:
		return fmt.Errorf("invalid token_storage %q: use config, keyring, or env", c.TokenStorage)
	}
	switch c.Output.DateFormat {
	case "", DateRelative, DateISO, DateShort:
	default:
		return fmt.Errorf("invalid date_format %q: use relative, iso, or short", c.Output.DateFormat)
	}
	return nil
}

// Get returns the value at a dotted key, e.g. "output.color".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "version":
		return fmt.Sprintf("%d", c.Version), nil
	case "token_storage":
		return string(c.TokenStorage), nil
	case "output.color":
		return fmt.Sprintf("%t", c.Output.Color), nil
	case "output.date_format":
		return string(c.Output.DateFormat), nil
	case "cache.enabled":
		return fmt.Sprintf("%t", c.Cache.Enabled), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set assigns the value at a dotted key, validating enums and booleans.
func (c *Config) Set(key, value string) error {
	switch key {
	case "token":
		c.Token = value
		return nil
	case "token_storage":
		c.TokenStorage = TokenStorage(value)
		return c.Validate()
	case "output.color":
		b, err := ParseBool(value)
		if err != nil {
			return err
		}
		c.Output.Color = b
		return nil
	case "output.date_format":
		c.Output.DateFormat = DateFormat(value)
		return c.Validate()
	case "cache.enabled":
		b, err := ParseBool(value)
		if err != nil {
			return err
		}
		c.Cache.Enabled = b
		return nil
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
}

// ParseBool accepts the usual spellings of booleans.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q: use true/false, yes/no, 1/0, or on/off", s)
	}
}
