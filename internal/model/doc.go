// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for training conversations.
//
// # Key Types
//
//   - Role: Turn role enumeration (system, user, assistant)
//   - Turn: Single immutable message with role, content and timestamp
//   - Conversation: Ordered, append-only turn history replayed on every request
//   - Mode: Communication scenario (radio or phone), fixed for a session
//
// # Usage
//
// Create a conversation and record a transmission:
//
//	conv := model.NewConversation()
//	conv.Append(model.RoleUser, "Test8 to GSOC, radio check.")
//
// Take a snapshot for a request:
//
//	turns := conv.Turns()
//
// The system instruction for the active Mode is never stored in a
// Conversation. It is prepended when a request is built.
package model
