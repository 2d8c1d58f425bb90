// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads trainer configuration.
//
// Settings come from, in increasing precedence:
//   - built-in defaults
//   - ~/.gsoc-trainer/config.toml (or the path given with --config)
//   - GSOC_TRAINER_* environment variables
//
// The API credential is never stored in the config file. It is read once
// at start-up from the environment variable named by cloud.api_key_env,
// after .env files in the working directory and the config directory have
// been loaded without overriding variables that are already set.
package config
