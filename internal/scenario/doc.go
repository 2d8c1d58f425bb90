// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scenario holds the static role-play profiles for each communication
// mode.
//
// A Profile is immutable data: the instruction text sent to the remote model
// as the leading system message, plus the labels and greeting the
// presentation layer shows. ProfileFor is a pure lookup.
//
// Persona randomisation and the "no updates" behaviour of the phone caller
// are driven entirely by the instruction text; nothing here is random.
package scenario
