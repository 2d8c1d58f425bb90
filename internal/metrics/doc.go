// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics records completion outcomes with Prometheus.
//
// A nil *Recorder is valid and records nothing, so callers never need to
// check whether metrics are enabled. Serve exposes a registry on /metrics
// when a listen address is configured.
package metrics
