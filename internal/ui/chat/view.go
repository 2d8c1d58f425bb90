// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state == StatePicking {
		return m.renderPicker()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

func (m Model) renderPicker() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.HeaderTitle.Render("GSOC Communication Trainer"))
	b.WriteString("\n\n")
	b.WriteString(t.Body.Render("Select a training scenario:"))
	b.WriteString("\n\n")
	for i, mode := range m.modes {
		if i == m.cursor {
			b.WriteString(t.PickerSelected.Render("> " + mode.Label()))
		} else {
			b.WriteString(t.PickerItem.Render("  " + mode.Label()))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(t.StatusBar.Render("up/down choose | enter start | esc radio | ctrl+c quit"))
	if m.opts.Warning != "" {
		b.WriteString("\n")
		b.WriteString(t.Warning.Render(m.opts.Warning))
	}
	return b.String()
}

func (m Model) renderHeader() string {
	t := m.theme
	p := m.sess.Profile()
	title := t.HeaderTitle.Render(p.Title)
	mode := t.HeaderMode.Render("  " + p.Mode.Label())
	return t.Header.Width(m.width).Render(title+mode) + "\n"
}

func (m Model) renderInput() string {
	t := m.theme
	sep := t.Separator.Render(strings.Repeat("-", max(m.width, 1)))
	if m.state == StateWaiting {
		who := m.sess.Profile().PersonaLabel
		return sep + "\n" + m.spinner.View() + t.InputDisabled.Render(" waiting for "+who+"...")
	}
	return sep + "\n" + m.input.View()
}

func (m Model) renderStatusBar() string {
	t := m.theme
	hints := "enter send | ctrl+l clear | pgup/pgdn scroll | esc quit"
	switch {
	case m.opts.Warning != "":
		return t.Warning.Render(m.opts.Warning)
	case m.status != "":
		return t.StatusBar.Render(m.status + " | " + hints)
	}
	return t.StatusBar.Render(hints)
}
