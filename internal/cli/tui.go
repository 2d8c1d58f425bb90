// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Pinkubus/Training-Chatbot/internal/ui/chat"
)

func runTUI(cmd *cobra.Command, f *rootFlags) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, f)
	if err != nil {
		return err
	}
	defer a.Close()

	mode, fixed := a.cfg.DefaultMode()
	m := chat.New(chat.Options{
		Theme:      a.theme,
		NewSession: a.newSession,
		Mode:       mode,
		AskMode:    !fixed,
		Markdown:   a.cfg.UI.Markdown,
		Warning:    a.credentialWarning(),
		Context:    ctx,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if interrupted(ctx.Err()) {
			return nil
		}
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
