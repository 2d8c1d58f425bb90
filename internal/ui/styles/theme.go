// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the transcript views.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMode  lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT
	// ==========================================================================

	OperatorLabel lipgloss.Style
	PersonaLabel  lipgloss.Style
	ErrorLabel    lipgloss.Style
	Body          lipgloss.Style
	ErrorBody     lipgloss.Style
	Notice        lipgloss.Style

	// ==========================================================================
	// INPUT, STATUS, PICKER
	// ==========================================================================

	InputPrompt    lipgloss.Style
	InputDisabled  lipgloss.Style
	Separator      lipgloss.Style
	StatusBar      lipgloss.Style
	Warning        lipgloss.Style
	PickerItem     lipgloss.Style
	PickerSelected lipgloss.Style
}

// NewTheme creates a theme for the current terminal.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// NewPlainTheme creates a theme that emits no color or decoration.
func NewPlainTheme() *Theme {
	t := &Theme{IsDark: true, ColorProfile: termenv.Ascii}
	t.initStyles()
	return t
}

// Plain reports whether the theme renders without color.
func (t *Theme) Plain() bool {
	return t.ColorProfile == termenv.Ascii
}

func (t *Theme) initStyles() {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(t.ColorProfile)
	r.SetHasDarkBackground(t.IsDark)
	style := r.NewStyle

	t.Header = style().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = style().Bold(true).Foreground(Purple)
	t.HeaderMode = style().Foreground(TextSecondary).Italic(true)

	t.OperatorLabel = style().Bold(true).Foreground(Cyan)
	t.PersonaLabel = style().Bold(true).Foreground(Purple)
	t.ErrorLabel = style().Bold(true).Foreground(Rose)
	t.Body = style().Foreground(TextPrimary)
	t.ErrorBody = style().Foreground(Rose)
	t.Notice = style().Foreground(TextMuted).Italic(true)

	t.InputPrompt = style().Bold(true).Foreground(Cyan)
	t.InputDisabled = style().Foreground(TextMuted)
	t.Separator = style().Foreground(Overlay)
	t.StatusBar = style().Foreground(TextSecondary).Padding(0, 1)
	t.Warning = style().Bold(true).Foreground(Amber)
	t.PickerItem = style().Foreground(TextPrimary).PaddingLeft(2)
	t.PickerSelected = style().Bold(true).Foreground(Emerald).PaddingLeft(2)
}

// SetSize updates the theme dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
