// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pinkubus/Training-Chatbot/internal/cloud"
	"github.com/Pinkubus/Training-Chatbot/internal/model"
)

// keyEnv returns a variable name unique to the test and unsets it on
// cleanup; godotenv never overrides a variable that exists, even empty.
func keyEnv(t *testing.T) string {
	t.Helper()
	name := "GSOC_TEST_KEY_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	t.Cleanup(func() { os.Unsetenv(name) })
	return name
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, cloud.DefaultBaseURL, cfg.Cloud.BaseURL)
	assert.Equal(t, cloud.DefaultModel, cfg.Cloud.Model)
	assert.Equal(t, DefaultAPIKeyEnv, cfg.Cloud.APIKeyEnv)
	assert.Zero(t, cfg.Cloud.RequestsPerMinute)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.UI.Markdown)
	assert.True(t, cfg.UI.History)
	assert.Empty(t, cfg.Metrics.ListenAddr)
	assert.NoError(t, cfg.Validate())

	_, ok := cfg.DefaultMode()
	assert.False(t, ok, "default config should ask for the mode")
}

// =============================================================================
// LOADING
// =============================================================================

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, cloud.DefaultModel, cfg.Cloud.Model)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	env := keyEnv(t)
	writeFile(t, path, `
[cloud]
model = "gpt-4o-mini"
api_key_env = "`+env+`"
requests_per_minute = 20

[session]
default_mode = "phone"

[log]
level = "debug"

[ui]
markdown = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Cloud.Model)
	assert.Equal(t, cloud.DefaultBaseURL, cfg.Cloud.BaseURL, "unset keys keep defaults")
	assert.Equal(t, 20, cfg.Cloud.RequestsPerMinute)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.UI.Markdown)
	assert.True(t, cfg.UI.History)

	mode, ok := cfg.DefaultMode()
	assert.True(t, ok)
	assert.Equal(t, model.ModePhone, mode)
}

func TestLoad_UnknownKeysRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[cloud]\nmodle = \"typo\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cloud.modle")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[cloud\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[session]\ndefault_mode = \"carrier-pigeon\"\n")

	_, err := Load(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "session.default_mode", verrs[0].Field)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GSOC_TRAINER_MODEL", "gpt-4o")
	t.Setenv("GSOC_TRAINER_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("GSOC_TRAINER_MODE", "radio")
	t.Setenv("GSOC_TRAINER_LOG_LEVEL", "warn")
	t.Setenv("GSOC_TRAINER_METRICS_ADDR", "127.0.0.1:9464")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "gpt-4o", cfg.Cloud.Model)
	assert.Equal(t, "http://localhost:8080/v1", cfg.Cloud.BaseURL)
	assert.Equal(t, "radio", cfg.Session.DefaultMode)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.ListenAddr)
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// CREDENTIAL
// =============================================================================

func TestLoadCredential_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := keyEnv(t)
	writeFile(t, filepath.Join(dir, ".env"), env+"=sk-from-dotenv\n")

	cfg := Default()
	cfg.Cloud.APIKeyEnv = env
	loaded, err := cfg.LoadCredential(filepath.Join(dir, "missing.env"), filepath.Join(dir, ".env"))

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, ".env")}, loaded)
	assert.Equal(t, "sk-from-dotenv", cfg.APIKey)
	assert.True(t, cfg.HasCredential())
}

func TestLoadCredential_EnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	env := keyEnv(t)
	writeFile(t, filepath.Join(dir, ".env"), env+"=sk-from-dotenv\n")
	require.NoError(t, os.Setenv(env, "sk-from-shell"))

	cfg := Default()
	cfg.Cloud.APIKeyEnv = env
	_, err := cfg.LoadCredential(filepath.Join(dir, ".env"))

	require.NoError(t, err)
	assert.Equal(t, "sk-from-shell", cfg.APIKey)
}

func TestLoadCredential_Missing(t *testing.T) {
	cfg := Default()
	cfg.Cloud.APIKeyEnv = keyEnv(t)
	_, err := cfg.LoadCredential(filepath.Join(t.TempDir(), ".env"))

	assert.NoError(t, err, "a missing .env file is not an error")
	assert.Empty(t, cfg.APIKey)
	assert.False(t, cfg.HasCredential())
}

func TestLoadCredential_MalformedFileReported(t *testing.T) {
	dir := t.TempDir()
	env := keyEnv(t)
	bad := filepath.Join(dir, "bad.env")
	good := filepath.Join(dir, "good.env")
	writeFile(t, bad, "BAD-NAME=1\n")
	writeFile(t, good, env+"=sk-from-good\n")

	cfg := Default()
	cfg.Cloud.APIKeyEnv = env
	loaded, err := cfg.LoadCredential(bad, good)

	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
	assert.Equal(t, []string{good}, loaded)
	assert.Equal(t, "sk-from-good", cfg.APIKey, "later files still load")
}

func TestLoad_MalformedEnvIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	env := keyEnv(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[cloud]\napi_key_env = \""+env+"\"\n")
	writeFile(t, filepath.Join(dir, ".env"), "BAD-NAME=1\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Error(t, cfg.EnvFileErr)
	assert.Contains(t, cfg.EnvFileErr.Error(), filepath.Join(dir, ".env"))
	assert.False(t, cfg.HasCredential())
}

func TestLoad_ReadsEnvNextToConfig(t *testing.T) {
	dir := t.TempDir()
	env := keyEnv(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[cloud]\napi_key_env = \""+env+"\"\n")
	writeFile(t, filepath.Join(dir, ".env"), env+"=sk-config-dir\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-config-dir", cfg.APIKey)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"relative base url", func(c *Config) { c.Cloud.BaseURL = "/v1" }, "cloud.base_url"},
		{"ftp base url", func(c *Config) { c.Cloud.BaseURL = "ftp://example.com" }, "cloud.base_url"},
		{"empty model", func(c *Config) { c.Cloud.Model = " " }, "cloud.model"},
		{"empty key env", func(c *Config) { c.Cloud.APIKeyEnv = "" }, "cloud.api_key_env"},
		{"negative pacing", func(c *Config) { c.Cloud.RequestsPerMinute = -1 }, "cloud.requests_per_minute"},
		{"bad mode", func(c *Config) { c.Session.DefaultMode = "fax" }, "session.default_mode"},
		{"bad level", func(c *Config) { c.Log.Level = "shouty" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidateErrors_Error(t *testing.T) {
	errs := ValidateErrors{
		{Field: "cloud.model", Message: "must not be empty"},
		{Field: "log.level", Message: "unknown level 'x'"},
	}
	assert.Equal(t, "cloud.model: must not be empty; log.level: unknown level 'x'", errs.Error())
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())
}

// =============================================================================
// SAVE / STRING
// =============================================================================

func TestSave_OmitsKeyAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Cloud.Model = "gpt-4o-mini"
	cfg.Session.DefaultMode = "phone"
	cfg.APIKey = "sk-secret-value"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-secret-value")

	loaded := Default()
	require.NoError(t, loaded.decodeFile(path))
	assert.Equal(t, "gpt-4o-mini", loaded.Cloud.Model)
	assert.Equal(t, "phone", loaded.Session.DefaultMode)
}

func TestString_MasksKey(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "sk-secret-value"

	out := cfg.String()
	assert.NotContains(t, out, "sk-secret-value")
	assert.Contains(t, out, cloud.Fingerprint("sk-secret-value"))
	assert.Contains(t, out, `model = "`+cloud.DefaultModel+`"`)

	cfg.APIKey = ""
	assert.Contains(t, cfg.String(), "not set")
}
