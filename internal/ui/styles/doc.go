// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling for the trainer's terminal views.
//
// Colors are Lip Gloss AdaptiveColors so light and dark terminals both stay
// readable. NewTheme detects the terminal's capabilities with termenv;
// NewPlainTheme renders without color for pipes and --plain.
//
//	theme := styles.NewTheme()
//	fmt.Println(theme.OperatorLabel.Render("GSOC:"))
package styles
