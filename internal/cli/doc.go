// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the gsoc-trainer command line.
//
// # Commands Overview
//
//   - (no command), tui: full-screen trainer; falls back to line mode when
//     stdin or stdout is not a terminal, or with --plain
//   - chat: line-mode trainer with input history
//   - config show | path | init: inspect or create the config file
//   - version: print build information
//
// # Line-mode Commands
//
//   - /help, /h: show available commands
//   - /clear, /c: clear the conversation and show the greeting again
//   - /mode [radio|phone]: show the scenario, or start a new session in another
//   - /history: print the conversation so far
//   - /status, /s: show session statistics
//   - /quit, /q: exit
//
// Global flags: --config, --mode, --plain, --log-level, --log-file.
package cli
