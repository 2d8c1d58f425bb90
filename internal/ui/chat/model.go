// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Pinkubus/Training-Chatbot/internal/model"
	"github.com/Pinkubus/Training-Chatbot/internal/session"
	"github.com/Pinkubus/Training-Chatbot/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current screen of the view.
type State int

const (
	StatePicking State = iota // Choosing Radio or Phone
	StateReady                // Waiting for the operator's input
	StateWaiting              // A submission is in flight
)

// Layout rows reserved around the viewport.
const (
	headerHeight    = 2
	inputAreaHeight = 2
	statusBarHeight = 1
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures New.
type Options struct {
	Theme *styles.Theme

	// NewSession creates the session once the mode is known.
	NewSession func(model.Mode) *session.Session

	// Mode is used directly when AskMode is false.
	Mode    model.Mode
	AskMode bool

	// Markdown renders replies with glamour.
	Markdown bool

	// Warning is shown in the status bar, e.g. a missing credential.
	Warning string

	// Context is passed to every submission; defaults to Background.
	Context context.Context
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the trainer.
type Model struct {
	state State
	opts  Options
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Picker
	modes  []model.Mode
	cursor int

	// Session and transcript
	sess     *session.Session
	entries  []Entry
	renderer *Renderer
	status   string

	// pending is set while the last entry is a transmission the session
	// has not recorded yet.
	pending bool

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	quitting bool
}

// New creates the model. It starts on the picker when opts.AskMode is set.
func New(opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	in := textinput.New()
	in.Prompt = opts.Theme.InputPrompt.Render("GSOC> ")
	in.Placeholder = "Type your transmission and press Enter"
	in.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		state:    StatePicking,
		opts:     opts,
		theme:    opts.Theme,
		modes:    model.Modes(),
		viewport: viewport.New(80, 20),
		input:    in,
		spinner:  sp,
	}
	m.resize(80, 24)

	if !opts.AskMode {
		m.start(opts.Mode)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// start opens a session in mode and shows the greeting.
func (m *Model) start(mode model.Mode) tea.Cmd {
	m.sess = m.opts.NewSession(mode)
	m.state = StateReady
	m.entries = []Entry{NoticeEntry(m.sess.Profile().Greeting)}
	m.updateViewport()
	return m.input.Focus()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	vh := height - headerHeight - inputAreaHeight - statusBarHeight
	if vh < 1 {
		vh = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vh

	const promptLen = 6 // "GSOC> "
	iw := width - promptLen - 2
	if iw < 10 {
		iw = 10
	}
	m.input.Width = iw

	m.renderer = NewRenderer(m.theme, m.opts.Markdown, width-2)
}

func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderer.RenderAll(m.entries))
	m.viewport.GotoBottom()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current screen.
func (m Model) State() State {
	return m.state
}

// Session returns the active session, nil while picking.
func (m Model) Session() *session.Session {
	return m.sess
}

// Entries returns a copy of the transcript.
func (m Model) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// InputEnabled reports whether the operator may type.
func (m Model) InputEnabled() bool {
	return m.state == StateReady && m.input.Focused()
}
