// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/Pinkubus/Training-Chatbot/internal/cloud"
	"github.com/Pinkubus/Training-Chatbot/internal/config"
	"github.com/Pinkubus/Training-Chatbot/internal/logging"
	"github.com/Pinkubus/Training-Chatbot/internal/metrics"
	"github.com/Pinkubus/Training-Chatbot/internal/model"
	"github.com/Pinkubus/Training-Chatbot/internal/session"
	"github.com/Pinkubus/Training-Chatbot/internal/ui/styles"
)

// app is the wired component graph behind the interactive commands.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *cloud.Client
	orch   *session.Orchestrator
	theme  *styles.Theme
	closer io.Closer
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(f *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.mode != "" {
		if _, err := model.ParseMode(f.mode); err != nil {
			return nil, fmt.Errorf("--mode: %w", err)
		}
		cfg.Session.DefaultMode = f.mode
	}
	if f.logLevel != "" {
		if _, err := logging.ParseLevel(f.logLevel); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
		cfg.Log.Level = f.logLevel
	}
	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}
	return cfg, nil
}

// newApp wires config, logging, metrics, the completion client and the
// orchestrator. The metrics listener lives until ctx is done.
func newApp(ctx context.Context, f *rootFlags) (*app, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}

	log, closer, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}

	if cfg.EnvFileErr != nil {
		log.Warn().Err(cfg.EnvFileErr).Msg("could not read .env file")
	}

	var rec *metrics.Recorder
	if addr := cfg.Metrics.ListenAddr; addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		rec = metrics.NewRecorder(reg)
		go func() {
			if err := metrics.Serve(ctx, addr, reg, log); err != nil {
				log.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
			}
		}()
	}

	client := cloud.NewClient(cloud.Options{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.Cloud.BaseURL,
		Model:             cfg.Cloud.Model,
		RequestsPerMinute: cfg.Cloud.RequestsPerMinute,
		Logger:            log,
	})

	log.Info().
		Str("version", Version).
		Str("model", client.Model()).
		Str("base_url", client.BaseURL()).
		Bool("configured", client.IsConfigured()).
		Str("key", client.KeyFingerprint()).
		Msg("trainer starting")

	return &app{
		cfg:    cfg,
		log:    log,
		client: client,
		orch:   session.NewOrchestrator(client, log, rec),
		theme:  newTheme(f.plain),
		closer: closer,
	}, nil
}

// newSession starts a session in mode.
func (a *app) newSession(mode model.Mode) *session.Session {
	s := session.New(mode, a.orch)
	a.log.Info().Str("session", s.ID()).Str("mode", mode.String()).Msg("session started")
	return s
}

// credentialWarning returns the start-up warning for a missing key, or "".
func (a *app) credentialWarning() string {
	if a.cfg.HasCredential() {
		return ""
	}
	w := fmt.Sprintf("configuration warning: credential missing, set %s in your environment or .env file",
		a.cfg.Cloud.APIKeyEnv)
	if a.cfg.EnvFileErr != nil {
		w += " (" + a.cfg.EnvFileErr.Error() + ")"
	}
	return w
}

func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// interrupted reports whether err is the normal result of Ctrl+C.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
