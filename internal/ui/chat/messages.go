// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/Pinkubus/Training-Chatbot/internal/cloud"
	"github.com/Pinkubus/Training-Chatbot/internal/model"
)

// replyMsg carries the single outcome of a submission.
type replyMsg struct {
	Result cloud.Result
}

// rejectedMsg reports a submission the session refused before sending.
type rejectedMsg struct {
	Err error
}

// ModeSelectedMsg starts a session in the chosen mode.
type ModeSelectedMsg struct {
	Mode model.Mode
}
