// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Pinkubus/Training-Chatbot/internal/cloud"
	"github.com/Pinkubus/Training-Chatbot/internal/model"
	"github.com/Pinkubus/Training-Chatbot/internal/scenario"
	"github.com/Pinkubus/Training-Chatbot/internal/ui/styles"
)

// ErrorLabel prefixes failure entries.
const ErrorLabel = "ERROR"

// HiddenReplyNotice stands in for a reply that repeated the role-play
// instructions.
const HiddenReplyNotice = "[Reply hidden: it repeated the scenario instructions]"

// EntryKind identifies who produced a transcript entry.
type EntryKind int

const (
	EntryNotice   EntryKind = iota // Greeting and local notices
	EntryOperator                  // The trainee
	EntryPersona                   // The role-played officer or caller
	EntryError                     // A failed completion
)

// Entry is one block of the transcript.
type Entry struct {
	Kind  EntryKind
	Label string
	Text  string
}

// NoticeEntry returns an unlabelled notice.
func NoticeEntry(text string) Entry {
	return Entry{Kind: EntryNotice, Text: text}
}

// OperatorEntry returns the trainee's transmission.
func OperatorEntry(text string) Entry {
	return Entry{Kind: EntryOperator, Label: scenario.OperatorLabel, Text: strings.TrimSpace(text)}
}

// PersonaEntry returns a reply labelled with the profile's persona.
func PersonaEntry(p scenario.Profile, text string) Entry {
	return Entry{Kind: EntryPersona, Label: p.PersonaLabel, Text: text}
}

// ErrorEntry returns the entry for a failed result.
func ErrorEntry(err *cloud.CompletionError) Entry {
	msg := "An error occurred."
	if err != nil && err.Message != "" {
		msg = err.Message
	}
	return Entry{Kind: EntryError, Label: ErrorLabel, Text: msg}
}

// ResultEntry converts a completion result into its transcript entry.
// ok is false when the reply echoes the role-play instructions; e is then
// the HiddenReplyNotice entry.
func ResultEntry(p scenario.Profile, res cloud.Result) (e Entry, ok bool) {
	if !res.OK() {
		return ErrorEntry(res.Err), true
	}
	if scenario.EchoesInstructions(res.Reply) {
		return NoticeEntry(HiddenReplyNotice), false
	}
	return PersonaEntry(p, res.Reply), true
}

// TurnEntry converts a recorded turn into its transcript entry. Replies
// that echo the instructions are masked the same way ResultEntry masks them.
func TurnEntry(p scenario.Profile, t model.Turn) Entry {
	switch {
	case t.Role == model.RoleUser:
		return OperatorEntry(t.Content)
	case scenario.EchoesInstructions(t.Content):
		return NoticeEntry(HiddenReplyNotice)
	default:
		return PersonaEntry(p, t.Content)
	}
}

// =============================================================================
// RENDERER
// =============================================================================

// Renderer formats entries with the theme, rendering replies as markdown
// when enabled.
type Renderer struct {
	theme *styles.Theme
	md    *glamour.TermRenderer
}

// NewRenderer creates a renderer wrapping at width. Markdown rendering is
// dropped silently if glamour cannot be initialised.
func NewRenderer(theme *styles.Theme, markdown bool, width int) *Renderer {
	r := &Renderer{theme: theme}
	if !markdown {
		return r
	}
	if width < 20 {
		width = 20
	}
	style := glamour.WithAutoStyle()
	if theme.Plain() {
		style = glamour.WithStandardStyle("notty")
	}
	md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err == nil {
		r.md = md
	}
	return r
}

// Render formats a single entry.
func (r *Renderer) Render(e Entry) string {
	t := r.theme
	switch e.Kind {
	case EntryNotice:
		return t.Notice.Render(e.Text)
	case EntryOperator:
		return t.OperatorLabel.Render(e.Label+":") + " " + t.Body.Render(e.Text)
	case EntryError:
		return t.ErrorLabel.Render(e.Label+":") + " " + t.ErrorBody.Render(e.Text)
	}

	label := t.PersonaLabel.Render(e.Label + ":")
	if r.md != nil {
		if out, err := r.md.Render(e.Text); err == nil {
			return label + "\n" + strings.Trim(out, "\n")
		}
	}
	return label + " " + t.Body.Render(strings.TrimRight(e.Text, "\n"))
}

// RenderAll joins entries with a blank line between them.
func (r *Renderer) RenderAll(entries []Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = r.Render(e)
	}
	return strings.Join(parts, "\n\n")
}
