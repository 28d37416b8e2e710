package token

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/td-cli/td/pkg/config"
)

// EnvToken is the environment override for the API token.
const EnvToken = "TODOIST_TOKEN"

const (
	keyringService = "td"
	keyringAccount = "api-token"
)

const maskVisibleChars = 4

// ErrNoToken means no source in the chain produced a token.
var ErrNoToken = errors.New("no API token configured: set " + EnvToken +
	", add token to the config file, or store one in the system keyring")

// Resolve walks the priority chain: explicit override, environment,
// config file, OS keyring. The first non-empty token wins.
func Resolve(override string, cfg *config.Config) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv(EnvToken); env != "" {
		return env, nil
	}
	if cfg != nil && cfg.Token != "" {
		return cfg.Token, nil
	}
	if stored, err := keyring.Get(keyringService, keyringAccount); err == nil && stored != "" {
		return stored, nil
	}
	return "", ErrNoToken
}

// Store saves the token where the config's token_storage preference
// points. Storing to "env" is rejected since the process cannot set
// its parent's environment.
func Store(tok string, cfg *config.Config, cfgPath string) error {
	switch cfg.TokenStorage {
	case config.StorageKeyring:
		if err := keyring.Set(keyringService, keyringAccount, tok); err != nil {
			return fmt.Errorf("failed to store token in keyring: %w", err)
		}
		return nil
	case config.StorageEnv:
		return fmt.Errorf("token_storage is %q: export %s yourself", cfg.TokenStorage, EnvToken)
	default:
		cfg.Token = tok
		return config.Save(cfgPath, cfg)
	}
}

// Forget removes the token from the keyring and the config file.
func Forget(cfg *config.Config, cfgPath string) error {
	if err := keyring.Delete(keyringService, keyringAccount); err != nil &&
		!errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	if cfg.Token != "" {
		cfg.Token = ""
		return config.Save(cfgPath, cfg)
	}
	return nil
}

// Mask renders a token for display: first four and last four
// characters joined by "..." when the token is longer than eight
// characters (counted in runes), otherwise fully masked.
func Mask(tok string) string {
	runes := []rune(tok)
	if len(runes) > 2*maskVisibleChars {
		return string(runes[:maskVisibleChars]) + "..." + string(runes[len(runes)-maskVisibleChars:])
	}
	return "****"
}
