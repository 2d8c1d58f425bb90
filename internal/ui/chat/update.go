// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Pinkubus/Training-Chatbot/internal/cloud"
	"github.com/Pinkubus/Training-Chatbot/internal/model"
	"github.com/Pinkubus/Training-Chatbot/internal/session"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.state != StatePicking {
			m.updateViewport()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ModeSelectedMsg:
		if m.state != StatePicking {
			return m, nil
		}
		cmd := m.start(msg.Mode)
		return m, cmd

	case replyMsg:
		return m.handleReply(msg)

	case rejectedMsg:
		m.state = StateReady
		m.dropPending()
		m.status = msg.Err.Error()
		m.updateViewport()
		cmd := m.input.Focus()
		return m, cmd

	case spinner.TickMsg:
		if m.state != StateWaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state == StateReady {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		if m.state == StatePicking {
			// Dismissing the picker starts the default scenario.
			cmd := m.start(model.ModeRadio)
			return m, cmd
		}
		m.quitting = true
		return m, tea.Quit
	}

	if m.state == StatePicking {
		return m.handlePickerKey(msg)
	}

	switch msg.String() {
	case "enter":
		return m.send()
	case "ctrl+l":
		return m.clear()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.state != StateReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "tab":
		if m.cursor < len(m.modes)-1 {
			m.cursor++
		}
	case "1", "r":
		m.cursor = 0
	case "2", "p":
		m.cursor = len(m.modes) - 1
	case "enter":
		mode := m.modes[m.cursor]
		return m, func() tea.Msg { return ModeSelectedMsg{Mode: mode} }
	}
	return m, nil
}

// send submits the input on a command so the session runs off the UI loop.
func (m Model) send() (tea.Model, tea.Cmd) {
	if m.state != StateReady {
		return m, nil
	}
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	m.entries = append(m.entries, OperatorEntry(text))
	m.pending = true
	m.input.Reset()
	m.input.Blur()
	m.state = StateWaiting
	m.status = ""
	m.updateViewport()

	sess, ctx := m.sess, m.opts.Context
	submit := func() tea.Msg {
		res, err := sess.Submit(ctx, text)
		if err != nil {
			return rejectedMsg{Err: err}
		}
		return replyMsg{Result: res}
	}
	return m, tea.Batch(submit, m.spinner.Tick)
}

func (m Model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	res := msg.Result

	// Without a credential nothing was recorded, so the transmission goes too.
	if errors.Is(res.Error(), cloud.ErrNotConfigured) {
		m.dropPending()
	}
	m.pending = false

	e, ok := ResultEntry(m.sess.Profile(), res)
	switch {
	case !ok:
		m.status = "reply hidden: it repeated the scenario instructions"
	case res.OK():
		m.entries = append(m.entries, e)
	case res.Err.Kind.Recoverable():
		m.entries = append(m.entries, e)
		m.status = "send again to retry"
	default:
		m.entries = append(m.entries, e)
		m.status = "set the API key, then restart"
	}
	m.updateViewport()
	cmd := m.input.Focus()
	return m, cmd
}

// dropPending removes a transmission the session did not record.
func (m *Model) dropPending() {
	if m.pending && len(m.entries) > 0 {
		m.entries = m.entries[:len(m.entries)-1]
	}
	m.pending = false
}

func (m Model) clear() (tea.Model, tea.Cmd) {
	if err := m.sess.Reset(); err != nil {
		if errors.Is(err, session.ErrBusy) {
			m.status = "wait for the reply before clearing"
		} else {
			m.status = err.Error()
		}
		return m, nil
	}
	m.entries = []Entry{NoticeEntry(m.sess.Profile().Greeting)}
	m.status = "conversation cleared"
	m.updateViewport()
	return m, nil
}
