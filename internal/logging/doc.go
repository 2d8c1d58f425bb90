// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zerolog logger shared by every component.
//
// The terminal belongs to the user interface, so logs go to a file by
// default. A file name of "-" sends them to stderr instead.
package logging
