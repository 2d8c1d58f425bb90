// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gsoc_trainer"

// Recorder exposes counters and histograms for training sessions.
type Recorder struct {
	completions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	turns       *prometheus.CounterVec
	resets      prometheus.Counter
}

// NewRecorder registers the session metrics on reg. A nil reg uses the
// default registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Completion calls by mode and outcome",
		}, []string{"mode", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Latency of completion calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"mode"}),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Turns appended to conversations by role",
		}, []string{"role"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Conversations cleared by the trainee",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(r.completions, r.duration, r.turns, r.resets)
	return r
}

// ObserveCompletion records one finished completion call.
func (r *Recorder) ObserveCompletion(mode, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.completions.WithLabelValues(mode, outcome).Inc()
	r.duration.WithLabelValues(mode).Observe(d.Seconds())
}

// ObserveTurn records a turn appended to a conversation.
func (r *Recorder) ObserveTurn(role string) {
	if r == nil {
		return
	}
	r.turns.WithLabelValues(role).Inc()
}

// ObserveReset records a cleared conversation.
func (r *Recorder) ObserveReset() {
	if r == nil {
		return
	}
	r.resets.Inc()
}
