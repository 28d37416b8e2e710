// Package token resolves the API token through the priority chain
// (explicit override, environment, config file, OS keyring) and masks
// it for display.
package token
