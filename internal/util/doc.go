// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small file helpers shared by the trainer.
//
//	// Write the config file without ever leaving a partial copy behind
//	err := util.AtomicWriteFile(path, data, 0o600, 0o700)
package util
