package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, StorageConfig, cfg.TokenStorage)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, DateRelative, cfg.Output.DateFormat)
	assert.True(t, cfg.Cache.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadEnums(t *testing.T) {
	cfg := Default()
	cfg.TokenStorage = "vault"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Output.DateFormat = "fancy"
	assert.Error(t, cfg.Validate())
}

func TestGetSetRoundTrip(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("output.color", "off"))
	v, err := cfg.Get("output.color")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	require.NoError(t, cfg.Set("output.date_format", "iso"))
	v, err = cfg.Get("output.date_format")
	require.NoError(t, err)
	assert.Equal(t, "iso", v)

	require.NoError(t, cfg.Set("cache.enabled", "no"))
	assert.False(t, cfg.Cache.Enabled)

	require.NoError(t, cfg.Set("token_storage", "keyring"))
	assert.Equal(t, StorageKeyring, cfg.TokenStorage)
}

func TestSetRejectsUnknownKey(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Set("nope", "x"))
	_, err := cfg.Get("nope")
	assert.Error(t, err)
}

func TestSetRejectsInvalidValues(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Set("output.color", "maybe"))
	assert.Error(t, cfg.Set("token_storage", "vault"))
	assert.Error(t, cfg.Set("output.date_format", "fancy"))
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "yes", "1", "on", "On"} {
		v, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"false", "no", "0", "off", "OFF"} {
		v, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "td", "config.toml")
	cfg := Default()
	cfg.Token = "my-token"
	cfg.TokenStorage = StorageKeyring
	cfg.Output.Color = false
	cfg.Output.DateFormat = DateShort

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "my-token", loaded.Token)
	assert.Equal(t, StorageKeyring, loaded.TokenStorage)
	assert.False(t, loaded.Output.Color)
	assert.Equal(t, DateShort, loaded.Output.DateFormat)
}

func TestLoadParsesHandWrittenTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	raw := `
version = 1
token = "abc"
token_storage = "config"

[output]
color = false
date_format = "iso"

[cache]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Token)
	assert.False(t, cfg.Output.Color)
	assert.Equal(t, DateISO, cfg.Output.DateFormat)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadForwardVersionParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 99\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.Version)
}

func TestLoadInvalidEnumFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`token_storage = "vault"`), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Save(path, Default()))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
