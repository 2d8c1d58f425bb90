// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the chat-completion client used for role-play replies.
//
// The client speaks the OpenAI chat-completions protocol, so it works against
// OpenAI itself or any compatible endpoint (OpenRouter, a local gateway).
// Each call is a single request: no streaming and no retries.
//
// # Key Types
//
//   - CompletionRequest: Instructions plus the turn history for one call
//   - Result: Either a reply or a classified CompletionError
//   - ErrorKind: AuthFailure, RateLimited or Unknown
//   - Client: Synchronous wrapper around the remote endpoint
//
// # Usage
//
//	client := cloud.NewClient(cloud.Options{APIKey: key, Model: "gpt-3.5-turbo"})
//	req := cloud.NewCompletionRequest(instructions, conv.Turns())
//	res := client.Complete(ctx, req)
//	if !res.OK() {
//	    fmt.Println(res.Err.Kind, res.Err.Message)
//	}
//
// # Security
//
// The API key is never logged. Use KeyFingerprint for diagnostics.
package cloud
