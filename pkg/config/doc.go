// Package config loads and saves the TOML configuration file,
// including the token storage preference and output options.
package config
