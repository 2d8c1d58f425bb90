// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the chat-completion client used for role-play replies.
package cloud

import (
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Pinkubus/Training-Chatbot/internal/model"
)

// Completion parameters sent with every request.
const (
	// DefaultTemperature is the sampling temperature for role-play replies.
	DefaultTemperature = 0.7

	// DefaultMaxTokens bounds the length of a single reply.
	DefaultMaxTokens = 500
)

var (
	// ErrEmptyInstructions indicates a request without a system instruction.
	ErrEmptyInstructions = errors.New("instructions must not be empty")

	// ErrNoTurns indicates a request without any conversation turns.
	ErrNoTurns = errors.New("request must contain at least one turn")

	// ErrInvalidRole indicates a turn whose role has no wire form.
	ErrInvalidRole = errors.New("turn has an unknown role")
)

// CompletionRequest is everything needed for one completion call. It is a
// plain value built fresh for every call.
type CompletionRequest struct {
	Instructions string
	Turns        []model.Turn
	Temperature  float64
	MaxTokens    int
}

// NewCompletionRequest builds a request with the default temperature and
// length limit.
func NewCompletionRequest(instructions string, turns []model.Turn) CompletionRequest {
	return CompletionRequest{
		Instructions: instructions,
		Turns:        turns,
		Temperature:  DefaultTemperature,
		MaxTokens:    DefaultMaxTokens,
	}
}

// Validate checks the input constraints of a request.
func (r CompletionRequest) Validate() error {
	if strings.TrimSpace(r.Instructions) == "" {
		return ErrEmptyInstructions
	}
	if len(r.Turns) == 0 {
		return ErrNoTurns
	}
	for i, t := range r.Turns {
		if !t.Role.IsValid() {
			return fmt.Errorf("turn %d: %w: %q", i, ErrInvalidRole, t.Role)
		}
	}
	return nil
}

// Messages returns the wire messages: the instructions as the leading system
// entry, then every turn in order.
func (r CompletionRequest) Messages() []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(r.Turns)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: r.Instructions,
	})
	for _, t := range r.Turns {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    wireRole(t.Role),
			Content: t.Content,
		})
	}
	return msgs
}

func wireRole(r model.Role) string {
	switch r {
	case model.RoleSystem:
		return openai.ChatMessageRoleSystem
	case model.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
