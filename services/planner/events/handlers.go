// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LoggingHandler creates a handler that logs events.
//
// Inputs:
//
//	logger - The slog logger to use.
//	level - The log level for events.
//
// Outputs:
//
//	Handler - A handler function that logs events.
func LoggingHandler(logger *slog.Logger, level slog.Level) Handler {
	return func(event *Event) {
		attrs := []any{
			slog.String("event_id", event.ID),
			slog.String("event_type", string(event.Type)),
			slog.String("session_id", event.SessionID),
			slog.Int("step", event.Step),
			slog.Time("timestamp", event.Timestamp),
		}

		switch data := event.Data.(type) {
		case *PlanParsedData:
			attrs = append(attrs,
				slog.Int("steps", data.Steps),
				slog.Int("skipped", data.Skipped),
				slog.Bool("terminated", data.Terminated),
			)

		case *StepSkippedData:
			attrs = append(attrs, slog.String("line", data.Line))

		case *GraphBuiltData:
			attrs = append(attrs,
				slog.Int("nodes", data.Nodes),
				slog.Int("join_node_id", data.JoinNodeID),
				slog.Duration("duration", data.Duration),
			)

		case *ParseFailedData:
			attrs = append(attrs,
				slog.String("kind", data.Kind),
				slog.String("error", data.Error),
			)

		case *JoinDecisionData:
			attrs = append(attrs,
				slog.Bool("is_replan", data.IsReplan),
				slog.Bool("has_answer", data.HasAnswer),
			)
		}

		logger.Log(context.Background(), level, "planner event", attrs...)
	}
}

// Collector accumulates events for inspection, primarily in tests.
//
// Thread Safety: Collector is safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Handler returns the handler to subscribe with.
func (c *Collector) Handler() Handler {
	return func(event *Event) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.events = append(c.events, *event)
	}
}

// Events returns a copy of all collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// ByType returns collected events of one type.
func (c *Collector) ByType(t EventType) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of collected events.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// MetricsHandler counts events in Prometheus.
//
// Description:
//
//	Registers a counter vector on the given registerer and returns a
//	handler that increments it per event type. Use a fresh registerer per
//	handler; registering twice on the same registerer panics, matching
//	prometheus conventions.
//
// Inputs:
//
//	reg - The registerer to register the counter on. Nil uses the
//	default registerer.
//
// Outputs:
//
//	Handler - A handler that counts events by type.
func MetricsHandler(reg prometheus.Registerer) Handler {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planweave_events_total",
		Help: "Total planner events by type",
	}, []string{"type"})
	reg.MustRegister(counter)

	return func(event *Event) {
		counter.WithLabelValues(string(event.Type)).Inc()
	}
}
