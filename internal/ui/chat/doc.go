// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the trainer's terminal transcript view.

# Key Components

## Model (model.go)

The Bubble Tea model. It opens on a scenario picker (Radio is preselected)
unless a mode was fixed by flag or config, then shows the transcript:
  - Header with the scenario title and mode
  - Viewport holding the transcript entries
  - Text input, disabled while a request is in flight
  - Status bar with key hints and configuration warnings

## Update Loop (update.go)

Keys:
  - Enter sends the input as the operator's next transmission
  - Ctrl+L clears the conversation and shows the greeting again
  - PgUp/PgDn scroll the transcript
  - Esc or Ctrl+C quits

Each send runs the session on a Bubble Tea command; the command returns
exactly one replyMsg, which re-enables the input.

## Entries (entry.go)

Transcript entries are labelled "GSOC" for the operator, with the scenario
persona label (for example "Test 8") for replies, and "ERROR" for failures.
Replies that merely repeat the role-play instructions are not shown.
Renderer formats entries for both this view and the line-mode REPL.
*/
package chat
