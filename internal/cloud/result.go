// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the chat-completion client used for role-play replies.
package cloud

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// ErrorKind classifies a failed completion.
type ErrorKind int

const (
	// KindUnknown covers transport, timeout and parse failures.
	KindUnknown ErrorKind = iota
	// KindAuthFailure means the credential is missing or was rejected.
	KindAuthFailure
	// KindRateLimited means the remote service throttled the request.
	KindRateLimited
)

// String returns the metric/log label of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthFailure:
		return "auth_failure"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Recoverable reports whether a later attempt may succeed without the user
// changing configuration.
func (k ErrorKind) Recoverable() bool {
	return k != KindAuthFailure
}

// Sentinel errors matched by CompletionError.Is.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("credential missing")

	// ErrAuthFailed indicates authentication failed (invalid or expired API key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrCompletionFailed matches every other failure.
	ErrCompletionFailed = errors.New("completion failed")
)

// Messages shown to the trainee for each kind.
const (
	msgCredentialMissing = "credential missing: set OPENAI_API_KEY in your environment or .env file"
	msgAuthFailed        = "Authentication failed. Please check your API key in the .env file."
	msgRateLimited       = "Rate limit exceeded. Please wait a moment and try again."
)

// CompletionError is a classified completion failure.
type CompletionError struct {
	Kind    ErrorKind
	Message string
	// Status is the HTTP status of the remote reply, 0 when none was received.
	Status int

	cause error
}

// Error implements the error interface.
func (e *CompletionError) Error() string {
	return e.Message
}

// Unwrap returns the underlying transport error, if any.
func (e *CompletionError) Unwrap() error {
	return e.cause
}

// Is matches the sentinel for the error's kind.
func (e *CompletionError) Is(target error) bool {
	switch target {
	case ErrAuthFailed:
		return e.Kind == KindAuthFailure
	case ErrNotConfigured:
		return e.Kind == KindAuthFailure && errors.Is(e.cause, ErrNotConfigured)
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrCompletionFailed:
		return true
	}
	return false
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the outcome of one completion: exactly one of Reply or Err is
// meaningful. Err is nil on success.
type Result struct {
	Reply string
	Err   *CompletionError
}

// Success returns a successful result carrying text verbatim.
func Success(text string) Result {
	return Result{Reply: text}
}

// Failure returns a failed result of the given kind.
func Failure(kind ErrorKind, message string) Result {
	return Result{Err: &CompletionError{Kind: kind, Message: message}}
}

// NotConfigured is the failure returned when no credential is set.
func NotConfigured() Result {
	return Result{Err: &CompletionError{
		Kind:    KindAuthFailure,
		Message: msgCredentialMissing,
		cause:   ErrNotConfigured,
	}}
}

func failureFrom(kind ErrorKind, message string, status int, cause error) Result {
	return Result{Err: &CompletionError{Kind: kind, Message: message, Status: status, cause: cause}}
}

// OK reports whether the completion succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Error returns the failure as an error, or nil on success.
func (r Result) Error() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

// Outcome returns the metric label for the result: "success" or the kind.
func (r Result) Outcome() string {
	if r.Err == nil {
		return "success"
	}
	return r.Err.Kind.String()
}

// String implements fmt.Stringer for logs.
func (r Result) String() string {
	if r.Err == nil {
		return fmt.Sprintf("success(%d chars)", len(r.Reply))
	}
	return fmt.Sprintf("failure(%s: %s)", r.Err.Kind, r.Err.Message)
}
