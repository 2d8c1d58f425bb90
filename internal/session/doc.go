// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session runs training conversations against the completion client.
//
// # Key Types
//
//   - Orchestrator: appends turns and drives one completion per submission
//   - Session: one trainee conversation in a fixed mode, single flight
//   - Completer: the completion client as seen by the orchestrator
//
// # Usage
//
//	orch := session.NewOrchestrator(client, logger, recorder)
//	sess := session.New(model.ModeRadio, orch)
//
//	ch, err := sess.SubmitAsync(ctx, "GSOC to Test8, radio check.")
//	if err != nil {
//	    // ErrEmptyInput or ErrBusy, nothing was appended
//	}
//	res := <-ch
//
// Exactly one Result is delivered per accepted submission. The user's turn
// stays in the conversation whatever the outcome; the reply is appended
// only on success.
package session
