// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Pinkubus/Training-Chatbot/internal/cloud"
	"github.com/Pinkubus/Training-Chatbot/internal/logging"
	"github.com/Pinkubus/Training-Chatbot/internal/metrics"
	"github.com/Pinkubus/Training-Chatbot/internal/model"
	"github.com/Pinkubus/Training-Chatbot/internal/scenario"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyInput is returned when the submitted text is blank.
	ErrEmptyInput = errors.New("input is empty")

	// ErrBusy is returned while a submission is still in flight.
	ErrBusy = errors.New("a request is already in flight")

	// ErrNoConversation is returned when Submit is given a nil conversation.
	ErrNoConversation = errors.New("no conversation")
)

// previewWidth bounds the text logged at debug level.
const previewWidth = 48

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Completer performs a single completion call.
// *cloud.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req cloud.CompletionRequest) cloud.Result
	IsConfigured() bool
}

// Orchestrator ties a conversation to the completion client.
// It holds no per-conversation state and is safe for concurrent use.
type Orchestrator struct {
	client  Completer
	log     zerolog.Logger
	metrics *metrics.Recorder
}

// NewOrchestrator returns an orchestrator using client. rec may be nil.
func NewOrchestrator(client Completer, log zerolog.Logger, rec *metrics.Recorder) *Orchestrator {
	return &Orchestrator{
		client:  client,
		log:     log.With().Str("component", "orchestrator").Logger(),
		metrics: rec,
	}
}

// Submit sends text as the trainee's next turn and returns the outcome.
//
// A non-nil error means the submission was rejected before anything
// happened: no turn was appended and no Result exists. Otherwise the
// returned Result is either the reply, which has been appended, or a
// failure, in which case only the user's turn was appended. A missing
// credential fails before the user's turn is appended.
func (o *Orchestrator) Submit(ctx context.Context, conv *model.Conversation, mode model.Mode, text string) (cloud.Result, error) {
	if conv == nil {
		return cloud.Result{}, ErrNoConversation
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return cloud.Result{}, ErrEmptyInput
	}

	if !o.client.IsConfigured() {
		o.log.Warn().Str("mode", mode.String()).Msg("submission refused: credential missing")
		return cloud.NotConfigured(), nil
	}

	conv.Append(model.RoleUser, text)
	o.metrics.ObserveTurn(model.RoleUser.String())

	req := cloud.NewCompletionRequest(scenario.Instructions(mode), conv.Turns())

	o.log.Debug().
		Str("mode", mode.String()).
		Int("turns", len(req.Turns)).
		Str("text", logging.Preview(text, previewWidth)).
		Msg("submitting turn")

	start := time.Now()
	res := o.client.Complete(ctx, req)
	o.metrics.ObserveCompletion(mode.String(), res.Outcome(), time.Since(start))

	if !res.OK() {
		o.log.Info().
			Str("mode", mode.String()).
			Str("kind", res.Err.Kind.String()).
			Msg("completion failed")
		return res, nil
	}

	conv.Append(model.RoleAssistant, res.Reply)
	o.metrics.ObserveTurn(model.RoleAssistant.String())

	o.log.Debug().
		Str("reply", logging.Preview(res.Reply, previewWidth)).
		Msg("reply appended")

	return res, nil
}
