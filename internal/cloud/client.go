// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the chat-completion client used for role-play replies.
package cloud

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Configuration constants for the completion endpoint.
const (
	// DefaultBaseURL is the base URL of the OpenAI API.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gpt-3.5-turbo"
)

// chatCompleter is the subset of the go-openai client the Client needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options configures a Client.
type Options struct {
	// APIKey is the bearer credential. Empty leaves the client unconfigured.
	APIKey string

	// BaseURL overrides DefaultBaseURL, e.g. for OpenRouter.
	BaseURL string

	// Model overrides DefaultModel.
	Model string

	// RequestsPerMinute paces outgoing calls on the client side. 0 disables pacing.
	RequestsPerMinute int

	// HTTPClient overrides the transport. Nil uses the library default, which
	// has no overall timeout.
	HTTPClient *http.Client

	// Logger receives request/response diagnostics.
	Logger zerolog.Logger
}

// Client issues chat-completion calls. It is safe for concurrent use, holds
// no conversation state and never retries.
type Client struct {
	api     chatCompleter
	apiKey  string
	baseURL string
	model   string
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient creates a Client from opts.
//
// If the API key is empty the client is still created but every Complete
// call fails with an AuthFailure before any network traffic.
func NewClient(opts Options) *Client {
	apiKey := strings.TrimSpace(opts.APIKey)

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURLOrDefault(opts.BaseURL)
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	return newClient(openai.NewClientWithConfig(cfg), apiKey, opts)
}

func newClient(api chatCompleter, apiKey string, opts Options) *Client {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	return &Client{
		api:     api,
		apiKey:  apiKey,
		baseURL: baseURLOrDefault(opts.BaseURL),
		model:   model,
		limiter: limiter,
		log:     opts.Logger.With().Str("component", "cloud").Logger(),
	}
}

func baseURLOrDefault(u string) string {
	u = strings.TrimSuffix(strings.TrimSpace(u), "/")
	if u == "" {
		return DefaultBaseURL
	}
	return u
}

// IsConfigured returns true if the client has an API key configured.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Model returns the model identifier sent with every request.
func (c *Client) Model() string {
	return c.model
}

// BaseURL returns the endpoint base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// KeyFingerprint returns a short SHA-256 fingerprint of the API key.
// SECURITY: Never exposes any fragment of the key itself.
func (c *Client) KeyFingerprint() string {
	return Fingerprint(c.apiKey)
}

// Fingerprint returns the first 8 hex characters of the SHA-256 of key, or
// "none" for an empty key.
func Fingerprint(key string) string {
	if key == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// COMPLETION
// =============================================================================

// Complete performs one chat-completion call for req.
//
// It never returns a Go error: every failure is a classified Result. The
// reply text is the first choice's content, verbatim.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) Result {
	if !c.IsConfigured() {
		return NotConfigured()
	}
	if err := req.Validate(); err != nil {
		return failureFrom(KindUnknown, fmt.Sprintf("An error occurred: invalid request: %v", err), 0, err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return failureFrom(KindUnknown, fmt.Sprintf("An error occurred: %v", err), 0, err)
		}
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    req.Messages(),
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		N:           1,
	}

	c.log.Debug().
		Str("model", c.model).
		Int("turns", len(req.Turns)).
		Msg("completion request")

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	duration := time.Since(start)

	if err != nil {
		res := Classify(err)
		c.log.Warn().
			Err(err).
			Str("kind", res.Err.Kind.String()).
			Int("status", res.Err.Status).
			Dur("duration", duration).
			Msg("completion failed")
		return res
	}

	if len(resp.Choices) == 0 {
		c.log.Warn().Dur("duration", duration).Msg("completion returned no choices")
		return failureFrom(KindUnknown, "An error occurred: the service returned no choices", http.StatusOK, nil)
	}

	c.log.Debug().
		Dur("duration", duration).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Msg("completion succeeded")

	return Success(resp.Choices[0].Message.Content)
}

// Classify converts a transport error into a failed Result.
//
// HTTP 401 maps to AuthFailure and HTTP 429 to RateLimited; everything else,
// including network and decode errors, is Unknown.
func Classify(err error) Result {
	if err == nil {
		return failureFrom(KindUnknown, "An error occurred: unknown error", 0, nil)
	}

	status := 0
	detail := err.Error()

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
		if apiErr.Message != "" {
			detail = apiErr.Message
		}
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusUnauthorized:
		return failureFrom(KindAuthFailure, msgAuthFailed, status, err)
	case http.StatusTooManyRequests:
		return failureFrom(KindRateLimited, msgRateLimited, status, err)
	default:
		return failureFrom(KindUnknown, "An error occurred: "+detail, status, err)
	}
}
