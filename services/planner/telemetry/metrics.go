// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	plansParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planweave_plans_parsed_total",
		Help: "Total plan parse attempts by status",
	}, []string{"status"})

	stepsRecognized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planweave_steps_recognized_total",
		Help: "Total plan steps recognized by the tokenizer",
	})

	stepsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planweave_steps_skipped_total",
		Help: "Total plan lines skipped by the tokenizer",
	})

	graphBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planweave_graph_build_seconds",
		Help:    "Plan graph build latency",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	joinDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planweave_join_decisions_total",
		Help: "Total join-phase classifications by decision kind",
	}, []string{"kind"})
)

// ObserveParse records one parse attempt.
//
// Inputs:
//
//	status - "ok", "invalid_tool_reference", or "duplicate_step_id".
//	recognized - Steps the tokenizer recognized.
//	skipped - Lines the tokenizer skipped.
//	duration - End-to-end parse latency.
func ObserveParse(status string, recognized, skipped int, duration time.Duration) {
	plansParsed.WithLabelValues(status).Inc()
	stepsRecognized.Add(float64(recognized))
	stepsSkipped.Add(float64(skipped))
	graphBuildDuration.Observe(duration.Seconds())
}

// ObserveJoinDecision records one join-phase classification.
//
// Inputs:
//
//	kind - "replan", "answer", or "none".
func ObserveJoinDecision(kind string) {
	joinDecisions.WithLabelValues(kind).Inc()
}
