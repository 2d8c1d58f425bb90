// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Pinkubus/Training-Chatbot/internal/cloud"
	"github.com/Pinkubus/Training-Chatbot/internal/model"
	"github.com/Pinkubus/Training-Chatbot/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete trainer configuration.
type Config struct {
	Cloud   CloudConfig   `toml:"cloud"`
	Session SessionConfig `toml:"session"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
	UI      UIConfig      `toml:"ui"`

	// APIKey is filled by LoadCredential and never written out.
	APIKey string `toml:"-"`

	// EnvFileErr records .env files Load could not parse. Load does not
	// fail on it; the caller reports it.
	EnvFileErr error `toml:"-"`
}

// CloudConfig selects the chat-completion endpoint.
type CloudConfig struct {
	BaseURL           string `toml:"base_url"`
	Model             string `toml:"model"`
	APIKeyEnv         string `toml:"api_key_env"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// SessionConfig holds session defaults.
type SessionConfig struct {
	// DefaultMode is "radio", "phone", or empty to ask at start.
	DefaultMode string `toml:"default_mode"`
}

// LogConfig controls the zerolog logger.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig controls the Prometheus listener.
type MetricsConfig struct {
	// ListenAddr is host:port for /metrics; empty disables the listener.
	ListenAddr string `toml:"listen_addr"`
}

// UIConfig holds presentation toggles.
type UIConfig struct {
	Markdown bool `toml:"markdown"`
	History  bool `toml:"history"`
}

// DefaultAPIKeyEnv is the variable the credential is read from by default.
const DefaultAPIKeyEnv = "OPENAI_API_KEY"

// Default returns the built-in configuration.
func Default() *Config {
	logFile := ""
	if dir, err := ConfigDir(); err == nil {
		logFile = filepath.Join(dir, "trainer.log")
	}
	return &Config{
		Cloud: CloudConfig{
			BaseURL:   cloud.DefaultBaseURL,
			Model:     cloud.DefaultModel,
			APIKeyEnv: DefaultAPIKeyEnv,
		},
		Log: LogConfig{
			Level: "info",
			File:  logFile,
		},
		UI: UIConfig{
			Markdown: true,
			History:  true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the trainer configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".gsoc-trainer"), nil
}

// DefaultPath returns the path to the default config file.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the config file at path (the default location when empty),
// applies environment overrides, loads the credential and validates.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if err := cfg.decodeFile(path); err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	_, cfg.EnvFileErr = cfg.LoadCredential(".env", filepath.Join(filepath.Dir(path), ".env"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadCredential loads the given .env files, skipping missing ones, and
// reads the API key from the variable named by cloud.api_key_env.
// Variables already present in the environment win over .env values.
// It returns the files that were loaded and an error naming every file that
// could not be parsed. The key is read even when err is non-nil.
func (c *Config) LoadCredential(envFiles ...string) (loaded []string, err error) {
	var errs []error
	for _, f := range envFiles {
		if _, statErr := os.Stat(f); statErr != nil {
			continue
		}
		if loadErr := godotenv.Load(f); loadErr != nil {
			errs = append(errs, fmt.Errorf("failed to parse %s: %w", f, loadErr))
			continue
		}
		loaded = append(loaded, f)
	}
	c.APIKey = strings.TrimSpace(os.Getenv(c.Cloud.APIKeyEnv))
	return loaded, errors.Join(errs...)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - GSOC_TRAINER_MODEL: overrides cloud.model
//   - GSOC_TRAINER_BASE_URL: overrides cloud.base_url
//   - GSOC_TRAINER_MODE: overrides session.default_mode
//   - GSOC_TRAINER_LOG_LEVEL: overrides log.level
//   - GSOC_TRAINER_METRICS_ADDR: overrides metrics.listen_addr
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("GSOC_TRAINER_MODEL"); v != "" {
		c.Cloud.Model = v
	}
	if v := os.Getenv("GSOC_TRAINER_BASE_URL"); v != "" {
		c.Cloud.BaseURL = v
	}
	if v := os.Getenv("GSOC_TRAINER_MODE"); v != "" {
		c.Session.DefaultMode = v
	}
	if v := os.Getenv("GSOC_TRAINER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("GSOC_TRAINER_METRICS_ADDR"); v != "" {
		c.Metrics.ListenAddr = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Cloud.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "cloud.base_url",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", c.Cloud.BaseURL),
		})
	}
	if strings.TrimSpace(c.Cloud.Model) == "" {
		errs = append(errs, ValidationError{Field: "cloud.model", Message: "must not be empty"})
	}
	if strings.TrimSpace(c.Cloud.APIKeyEnv) == "" {
		errs = append(errs, ValidationError{Field: "cloud.api_key_env", Message: "must not be empty"})
	}
	if c.Cloud.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "cloud.requests_per_minute",
			Message: fmt.Sprintf("must be >= 0, got %d", c.Cloud.RequestsPerMinute),
		})
	}

	if c.Session.DefaultMode != "" {
		if _, err := model.ParseMode(c.Session.DefaultMode); err != nil {
			errs = append(errs, ValidationError{
				Field:   "session.default_mode",
				Message: fmt.Sprintf("invalid mode '%s', must be one of: radio, phone", c.Session.DefaultMode),
			})
		}
	}

	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
			errs = append(errs, ValidationError{
				Field:   "log.level",
				Message: fmt.Sprintf("unknown level '%s'", c.Log.Level),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// DefaultMode returns the configured mode; ok is false when the trainee
// should be asked.
func (c *Config) DefaultMode() (mode model.Mode, ok bool) {
	if c.Session.DefaultMode == "" {
		return model.ModeRadio, false
	}
	mode, err := model.ParseMode(c.Session.DefaultMode)
	if err != nil {
		return model.ModeRadio, false
	}
	return mode, true
}

// HasCredential reports whether an API key was found.
func (c *Config) HasCredential() bool {
	return c.APIKey != ""
}

// =============================================================================
// SAVE / STRING
// =============================================================================

// Save writes the configuration as TOML to path with 0600 permissions.
// The API key is never written.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	buf.WriteString("# gsoc-trainer configuration file\n")
	buf.WriteString("# The API key is read from the environment variable named by cloud.api_key_env.\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600, 0o700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String renders the effective configuration as TOML. The credential is
// shown only as a fingerprint.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	key := "not set"
	if c.HasCredential() {
		key = "set (fingerprint " + cloud.Fingerprint(c.APIKey) + ")"
	}
	fmt.Fprintf(&buf, "\n# %s: %s\n", c.Cloud.APIKeyEnv, key)
	return buf.String()
}
