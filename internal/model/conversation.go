// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for training conversations.
package model

import (
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered turn history of one training session.
//
// Insertion order is replay order. Turns are only ever appended; the
// sole way to remove them is Reset, which empties the history.
type Conversation struct {
	mu    sync.RWMutex
	id    string
	turns []Turn
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	return &Conversation{
		id:    uuid.NewString(),
		turns: make([]Turn, 0),
	}
}

// ID returns the conversation identifier. It changes on Reset.
func (c *Conversation) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// =============================================================================
// TURN MANAGEMENT
// =============================================================================

// Append records a new turn and returns it.
func (c *Conversation) Append(role Role, content string) Turn {
	turn := NewTurn(role, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, turn)
	return turn
}

// Turns returns a copy of the history in insertion order.
func (c *Conversation) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// Count returns the number of turns with the given role.
func (c *Conversation) Count(role Role) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, t := range c.turns {
		if t.Role == role {
			n++
		}
	}
	return n
}

// Reset clears the history and starts a new conversation ID.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = make([]Turn, 0)
	c.id = uuid.NewString()
}
