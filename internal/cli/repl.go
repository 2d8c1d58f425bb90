// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/Pinkubus/Training-Chatbot/internal/config"
	"github.com/Pinkubus/Training-Chatbot/internal/model"
	"github.com/Pinkubus/Training-Chatbot/internal/scenario"
	"github.com/Pinkubus/Training-Chatbot/internal/session"
	"github.com/Pinkubus/Training-Chatbot/internal/ui/chat"
	"github.com/Pinkubus/Training-Chatbot/internal/ui/styles"
)

const linePrompt = scenario.OperatorLabel + "> "

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader is the part of liner the REPL uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// historyLiner wraps liner with a history file in the config directory.
type historyLiner struct {
	*liner.State
	historyFile string
}

func newHistoryLiner(persist bool) *historyLiner {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	h := &historyLiner{State: line}
	if !persist {
		return h
	}
	if dir, err := config.ConfigDir(); err == nil {
		h.historyFile = filepath.Join(dir, "chat_history")
		if f, err := os.Open(h.historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	return h
}

// Close saves history with owner-only permissions and restores the terminal.
func (h *historyLiner) Close() error {
	if h.historyFile != "" && config.EnsureConfigDir() == nil {
		if f, err := os.OpenFile(h.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			h.WriteHistory(f)
			f.Close()
		}
	}
	return h.State.Close()
}

// =============================================================================
// LINE-MODE REPL
// =============================================================================

type repl struct {
	ctx        context.Context
	in         lineReader
	out        io.Writer
	theme      *styles.Theme
	renderer   *chat.Renderer
	width      int
	newSession func(model.Mode) *session.Session
	sess       *session.Session
}

func runChat(cmd *cobra.Command, f *rootFlags) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, f)
	if err != nil {
		return err
	}
	defer a.Close()

	line := newHistoryLiner(a.cfg.UI.History)
	defer line.Close()

	width := GetTerminalWidth()
	r := &repl{
		ctx:        ctx,
		in:         line,
		out:        cmd.OutOrStdout(),
		theme:      a.theme,
		renderer:   chat.NewRenderer(a.theme, a.cfg.UI.Markdown, width-2),
		width:      width,
		newSession: a.newSession,
	}

	if w := a.credentialWarning(); w != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), a.theme.Warning.Render(w))
	}

	mode, fixed := a.cfg.DefaultMode()
	err = r.run(mode, !fixed)
	if interrupted(err) {
		return nil
	}
	return err
}

// run drives the prompt loop until /quit, EOF, Ctrl+C or ctx ends.
func (r *repl) run(mode model.Mode, ask bool) error {
	if ask {
		picked, err := r.chooseMode()
		if err != nil {
			return ignoreExit(err)
		}
		mode = picked
	}
	r.start(mode)

	for {
		input, err := r.in.Prompt(linePrompt)
		if err != nil {
			fmt.Fprintln(r.out)
			return ignoreExit(err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.in.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if !r.handleSlashCommand(input) {
				return nil
			}
			continue
		}

		if err := r.send(input); err != nil {
			return err
		}
	}
}

func ignoreExit(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (r *repl) chooseMode() (model.Mode, error) {
	fmt.Fprintln(r.out, r.theme.HeaderTitle.Render("Select a training scenario:"))
	for i, m := range model.Modes() {
		fmt.Fprintf(r.out, "  [%d] %s\n", i+1, m.Label())
	}
	for {
		answer, err := r.in.Prompt("Scenario (Enter for Radio): ")
		if err != nil {
			return model.ModeRadio, err
		}
		switch answer = strings.TrimSpace(answer); answer {
		case "", "1":
			return model.ModeRadio, nil
		case "2":
			return model.ModePhone, nil
		}
		if m, err := model.ParseMode(answer); err == nil {
			return m, nil
		}
		fmt.Fprintln(r.out, r.theme.Warning.Render("Please answer 1 or 2."))
	}
}

func (r *repl) start(mode model.Mode) {
	r.sess = r.newSession(mode)
	p := r.sess.Profile()
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.theme.HeaderTitle.Render(p.Title))
	r.printEntry(chat.NoticeEntry(p.Greeting))
	fmt.Fprintln(r.out, r.theme.StatusBar.Render(`Type "Done." for feedback, /help for commands.`))
	fmt.Fprintln(r.out)
}

// send submits text and blocks until its single result arrives.
func (r *repl) send(text string) error {
	ch, err := r.sess.SubmitAsync(r.ctx, text)
	if err != nil {
		fmt.Fprintln(r.out, r.theme.Warning.Render(err.Error()))
		return nil
	}

	select {
	case res := <-ch:
		// A hidden reply comes back as a notice entry.
		e, _ := chat.ResultEntry(r.sess.Profile(), res)
		r.printEntry(e)
		fmt.Fprintln(r.out)
		return nil
	case <-r.ctx.Done():
		return r.ctx.Err()
	}
}

func (r *repl) printEntry(e chat.Entry) {
	out := r.renderer.Render(e)
	if r.theme.Plain() {
		out = wordwrap.String(out, r.width-2)
	}
	fmt.Fprintln(r.out, out)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand runs a /command. It returns false to end the REPL.
func (r *repl) handleSlashCommand(input string) bool {
	parts := strings.Fields(input)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		r.printHelp()

	case "/clear", "/c":
		if err := r.sess.Reset(); err != nil {
			fmt.Fprintln(r.out, r.theme.Warning.Render(err.Error()))
			return true
		}
		fmt.Fprintln(r.out, r.theme.Notice.Render("[Conversation cleared]"))
		r.printEntry(chat.NoticeEntry(r.sess.Profile().Greeting))

	case "/mode", "/m":
		r.handleModeCommand(args)

	case "/history":
		r.printHistory()

	case "/status", "/s":
		r.printStatus()

	case "/quit", "/q", "/exit":
		return false

	default:
		fmt.Fprintln(r.out, r.theme.Warning.Render(
			fmt.Sprintf("unknown command: %s (type /help for commands)", command)))
	}
	return true
}

// handleModeCommand shows the mode or starts a new session in another one;
// a session's mode never changes.
func (r *repl) handleModeCommand(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Current scenario: %s\n", r.sess.Mode().Label())
		return
	}
	mode, err := model.ParseMode(args[0])
	if err != nil {
		fmt.Fprintln(r.out, r.theme.Warning.Render(err.Error()))
		return
	}
	if r.sess.Busy() {
		fmt.Fprintln(r.out, r.theme.Warning.Render(session.ErrBusy.Error()))
		return
	}
	r.start(mode)
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, `Commands:
  /help, /h            Show this help
  /clear, /c           Clear the conversation
  /mode [radio|phone]  Show the scenario, or start a new one
  /history             Show the conversation so far
  /status, /s          Show session statistics
  /quit, /q            Exit`)
}

func (r *repl) printHistory() {
	p := r.sess.Profile()
	turns := r.sess.Turns()
	if len(turns) == 0 {
		fmt.Fprintln(r.out, r.theme.Notice.Render("(no transmissions yet)"))
		return
	}
	for _, t := range turns {
		r.printEntry(chat.TurnEntry(p, t))
	}
}

func (r *repl) printStatus() {
	st := r.sess.GetStatus()
	fmt.Fprintf(r.out, "Session:  %s\n", st.SessionID)
	fmt.Fprintf(r.out, "Scenario: %s\n", st.Mode.Label())
	fmt.Fprintf(r.out, "Turns:    %d (%s %d, %s %d)\n", st.Turns,
		model.RoleUser.DisplayName(), st.Turns-st.Replies,
		model.RoleAssistant.DisplayName(), st.Replies)
	fmt.Fprintf(r.out, "Cleared:  %d times\n", st.Resets)
	fmt.Fprintf(r.out, "Started:  %s\n", st.StartTime.Format("15:04:05"))
}
