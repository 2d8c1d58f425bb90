// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pinkubus/Training-Chatbot/internal/model"
)

const testKey = "sk-test-abcdefghijklmnopqrstuvwxyz0123456789"

// wireRequest mirrors the JSON body the endpoint receives.
type wireRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestServer(t *testing.T, status int, body string, seen *wireRequest, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(url string) *Client {
	return NewClient(Options{
		APIKey:  testKey,
		BaseURL: url + "/v1",
		Model:   "gpt-3.5-turbo",
		Logger:  zerolog.Nop(),
	})
}

func radioRequest() CompletionRequest {
	return NewCompletionRequest("You are a security officer.", []model.Turn{
		model.NewTurn(model.RoleUser, "Test8 to GSOC, radio check."),
	})
}

// =============================================================================
// WIRE FORMAT TESTS
// =============================================================================

func TestComplete_Success(t *testing.T) {
	var seen wireRequest
	server := newTestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-3.5-turbo",
		"choices": [{
			"index": 0,
			"message": {"role": "assistant", "content": "  GSOC to Test8, copy.\n"},
			"finish_reason": "stop"
		}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`, &seen, nil)

	res := newTestClient(server.URL).Complete(context.Background(), radioRequest())

	require.True(t, res.OK(), "unexpected failure: %v", res.Err)
	assert.Equal(t, "  GSOC to Test8, copy.\n", res.Reply, "reply must be verbatim")

	assert.Equal(t, "gpt-3.5-turbo", seen.Model)
	assert.InDelta(t, 0.7, seen.Temperature, 1e-6)
	assert.Equal(t, 500, seen.MaxTokens)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "You are a security officer.", seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Equal(t, "Test8 to GSOC, radio check.", seen.Messages[1].Content)
}

func TestComplete_ReplaysHistoryInOrder(t *testing.T) {
	var seen wireRequest
	server := newTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`, &seen, nil)

	req := NewCompletionRequest("instr", []model.Turn{
		model.NewTurn(model.RoleUser, "one"),
		model.NewTurn(model.RoleAssistant, "two"),
		model.NewTurn(model.RoleUser, "three"),
	})
	res := newTestClient(server.URL).Complete(context.Background(), req)
	require.True(t, res.OK())

	roles := make([]string, 0, len(seen.Messages))
	contents := make([]string, 0, len(seen.Messages))
	for _, m := range seen.Messages {
		roles = append(roles, m.Role)
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles)
	assert.Equal(t, []string{"instr", "one", "two", "three"}, contents)
}

// =============================================================================
// ERROR CLASSIFICATION TESTS
// =============================================================================

func TestComplete_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
		sentinel error
	}{
		{
			name:     "invalid key",
			status:   http.StatusUnauthorized,
			body:     `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			wantKind: KindAuthFailure,
			sentinel: ErrAuthFailed,
		},
		{
			name:     "throttled",
			status:   http.StatusTooManyRequests,
			body:     `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`,
			wantKind: KindRateLimited,
			sentinel: ErrRateLimited,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error":{"message":"The server had an error","type":"server_error"}}`,
			wantKind: KindUnknown,
			sentinel: ErrCompletionFailed,
		},
		{
			name:     "non-json error body",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			wantKind: KindUnknown,
			sentinel: ErrCompletionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := newTestServer(t, tt.status, tt.body, nil, &calls)

			res := newTestClient(server.URL).Complete(context.Background(), radioRequest())

			require.False(t, res.OK())
			assert.Equal(t, tt.wantKind, res.Err.Kind)
			assert.NotEmpty(t, res.Err.Message)
			assert.True(t, errors.Is(res.Error(), tt.sentinel))
			assert.Equal(t, int32(1), calls.Load(), "failures must not be retried")
		})
	}
}

func TestComplete_NoChoices(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"choices":[]}`, nil, nil)

	res := newTestClient(server.URL).Complete(context.Background(), radioRequest())

	require.False(t, res.OK())
	assert.Equal(t, KindUnknown, res.Err.Kind)
}

func TestComplete_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	res := newTestClient(url).Complete(context.Background(), radioRequest())

	require.False(t, res.OK())
	assert.Equal(t, KindUnknown, res.Err.Kind)
	assert.Contains(t, res.Err.Message, "An error occurred")
}

func TestComplete_NotConfigured(t *testing.T) {
	var calls atomic.Int32
	server := newTestServer(t, http.StatusOK, `{}`, nil, &calls)

	client := NewClient(Options{BaseURL: server.URL + "/v1", Logger: zerolog.Nop()})
	res := client.Complete(context.Background(), radioRequest())

	require.False(t, res.OK())
	assert.Equal(t, KindAuthFailure, res.Err.Kind)
	assert.Contains(t, res.Err.Message, "credential missing")
	assert.True(t, errors.Is(res.Error(), ErrNotConfigured))
	assert.Equal(t, int32(0), calls.Load())
}

func TestComplete_InvalidRequest(t *testing.T) {
	fake := &fakeAPI{}
	client := newClient(fake, testKey, Options{Logger: zerolog.Nop()})

	res := client.Complete(context.Background(), NewCompletionRequest("instr", nil))
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Error(), ErrNoTurns)

	res = client.Complete(context.Background(), NewCompletionRequest("  ", []model.Turn{model.NewTurn(model.RoleUser, "x")}))
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Error(), ErrEmptyInstructions)

	res = client.Complete(context.Background(), NewCompletionRequest("instr", []model.Turn{model.NewTurn(model.Role("tool"), "x")}))
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Error(), ErrInvalidRole)

	assert.Zero(t, fake.calls.Load())
}

// =============================================================================
// CLIENT OPTION TESTS
// =============================================================================

type fakeAPI struct {
	calls atomic.Int32
	last  openai.ChatCompletionRequest
}

func (f *fakeAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls.Add(1)
	f.last = req
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "ok"}}},
	}, nil
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Options{APIKey: "  " + testKey + "  "})

	assert.True(t, client.IsConfigured())
	assert.Equal(t, DefaultModel, client.Model())
	assert.Equal(t, DefaultBaseURL, client.BaseURL())

	client = NewClient(Options{BaseURL: "https://openrouter.ai/api/v1/", Model: "openai/gpt-4o-mini"})
	assert.False(t, client.IsConfigured())
	assert.Equal(t, "https://openrouter.ai/api/v1", client.BaseURL())
	assert.Equal(t, "openai/gpt-4o-mini", client.Model())
}

func TestComplete_UsesConfiguredModel(t *testing.T) {
	fake := &fakeAPI{}
	client := newClient(fake, testKey, Options{Model: "gpt-4o-mini", Logger: zerolog.Nop()})

	res := client.Complete(context.Background(), radioRequest())
	require.True(t, res.OK())
	assert.Equal(t, "gpt-4o-mini", fake.last.Model)
	assert.Equal(t, 500, fake.last.MaxTokens)
	assert.InDelta(t, 0.7, float64(fake.last.Temperature), 1e-6)
}

func TestComplete_RateLimiterHonoursContext(t *testing.T) {
	fake := &fakeAPI{}
	client := newClient(fake, testKey, Options{RequestsPerMinute: 1, Logger: zerolog.Nop()})

	require.True(t, client.Complete(context.Background(), radioRequest()).OK())

	// The second call must wait ~60s for a token; a short deadline fails it locally.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res := client.Complete(ctx, radioRequest())

	require.False(t, res.OK())
	assert.Equal(t, KindUnknown, res.Err.Kind)
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "none", Fingerprint(""))
	fp := Fingerprint(testKey)
	assert.Len(t, fp, 8)
	assert.NotContains(t, testKey, fp)
	assert.Equal(t, fp, NewClient(Options{APIKey: testKey}).KeyFingerprint())
}

func TestClassify_Nil(t *testing.T) {
	res := Classify(nil)
	require.False(t, res.OK())
	assert.Equal(t, KindUnknown, res.Err.Kind)
}
