// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/panics"

	"github.com/Pinkubus/Training-Chatbot/internal/cloud"
	"github.com/Pinkubus/Training-Chatbot/internal/model"
	"github.com/Pinkubus/Training-Chatbot/internal/scenario"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is one trainee conversation. Its mode is fixed at creation and at
// most one submission is in flight at a time.
type Session struct {
	id        string
	mode      model.Mode
	startTime time.Time

	conv *model.Conversation
	orch *Orchestrator

	inFlight atomic.Bool

	mu           sync.Mutex
	lastActivity time.Time
	resets       int
}

// New creates a session in mode. An invalid mode falls back to Radio.
func New(mode model.Mode, orch *Orchestrator) *Session {
	if !mode.IsValid() {
		mode = model.ModeRadio
	}
	now := time.Now()
	return &Session{
		id:           uuid.NewString(),
		mode:         mode,
		startTime:    now,
		conv:         model.NewConversation(),
		orch:         orch,
		lastActivity: now,
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Mode returns the session's scenario mode.
func (s *Session) Mode() model.Mode {
	return s.mode
}

// Profile returns the scenario profile for the session's mode.
func (s *Session) Profile() scenario.Profile {
	return scenario.ProfileFor(s.mode)
}

// Turns returns a snapshot of the conversation.
func (s *Session) Turns() []model.Turn {
	return s.conv.Turns()
}

// Busy reports whether a submission is in flight.
func (s *Session) Busy() bool {
	return s.inFlight.Load()
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submit runs one submission on the calling goroutine.
func (s *Session) Submit(ctx context.Context, text string) (cloud.Result, error) {
	if err := s.acquire(text); err != nil {
		return cloud.Result{}, err
	}
	defer s.inFlight.Store(false)
	return s.run(ctx, text)
}

// SubmitAsync starts a submission on a worker goroutine. The returned
// channel delivers exactly one Result and is then closed.
//
// Rejections (ErrEmptyInput, ErrBusy) are reported synchronously and start
// no worker.
func (s *Session) SubmitAsync(ctx context.Context, text string) (<-chan cloud.Result, error) {
	if err := s.acquire(text); err != nil {
		return nil, err
	}

	ch := make(chan cloud.Result, 1)
	go func() {
		defer close(ch)
		res, err := s.run(ctx, text)
		if err != nil {
			res = cloud.Failure(cloud.KindUnknown, fmt.Sprintf("An error occurred: %v", err))
		}
		// Release before delivering so the receiver can submit again at once.
		s.inFlight.Store(false)
		ch <- res
	}()
	return ch, nil
}

func (s *Session) acquire(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	s.touch()
	return nil
}

// run executes the orchestrator, turning a panic into an Unknown failure.
func (s *Session) run(ctx context.Context, text string) (res cloud.Result, err error) {
	var pc panics.Catcher
	pc.Try(func() {
		res, err = s.orch.Submit(ctx, s.conv, s.mode, text)
	})
	if r := pc.Recovered(); r != nil {
		s.orch.log.Error().
			Str("session", s.id).
			Str("panic", fmt.Sprint(r.Value)).
			Msg("completion worker panicked")
		return cloud.Failure(cloud.KindUnknown, fmt.Sprintf("An error occurred: %v", r.Value)), nil
	}
	return res, err
}

// =============================================================================
// RESET
// =============================================================================

// Reset clears the conversation. It is refused while a submission is in
// flight so a late reply cannot land in the fresh conversation.
func (s *Session) Reset() error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.inFlight.Store(false)

	s.conv.Reset()
	s.orch.metrics.ObserveReset()

	s.mu.Lock()
	s.resets++
	s.lastActivity = time.Now()
	s.mu.Unlock()

	s.orch.log.Info().Str("session", s.id).Msg("conversation cleared")
	return nil
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status is a point-in-time view of a session.
type Status struct {
	SessionID    string
	Mode         model.Mode
	StartTime    time.Time
	LastActivity time.Time
	Turns        int
	Replies      int
	Resets       int
	Busy         bool
}

// GetStatus returns the current session status.
func (s *Session) GetStatus() Status {
	s.mu.Lock()
	last, resets := s.lastActivity, s.resets
	s.mu.Unlock()

	return Status{
		SessionID:    s.id,
		Mode:         s.mode,
		StartTime:    s.startTime,
		LastActivity: last,
		Turns:        s.conv.Len(),
		Replies:      s.conv.Count(model.RoleAssistant),
		Resets:       resets,
		Busy:         s.Busy(),
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}
