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
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestEmitter_Subscribe(t *testing.T) {
	emitter := NewEmitter()

	var received []Event
	subID := emitter.Subscribe(func(e *Event) {
		received = append(received, *e)
	})

	if subID == "" {
		t.Error("expected non-empty subscription ID")
	}
	if emitter.SubscriptionCount() != 1 {
		t.Errorf("SubscriptionCount = %d, want 1", emitter.SubscriptionCount())
	}

	emitter.Emit(TypePlanParsed, &PlanParsedData{Steps: 3})

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Type != TypePlanParsed {
		t.Errorf("Type = %s, want %s", received[0].Type, TypePlanParsed)
	}
	if received[0].ID == "" || received[0].SessionID == "" {
		t.Error("expected event and session ids to be set")
	}
}

func TestEmitter_SubscribeWithFilter(t *testing.T) {
	emitter := NewEmitter()

	var received []Event
	emitter.SubscribeWithFilter(func(e *Event) {
		received = append(received, *e)
	}, func(e *Event) bool {
		return e.Step > 5
	})

	emitter.SetStep(3)
	emitter.Emit(TypePlanParsed, &PlanParsedData{Steps: 1})
	emitter.SetStep(7)
	emitter.Emit(TypePlanParsed, &PlanParsedData{Steps: 1})

	if len(received) != 1 {
		t.Fatalf("expected 1 filtered event, got %d", len(received))
	}
	if received[0].Step != 7 {
		t.Errorf("Step = %d, want 7", received[0].Step)
	}
}

func TestEmitter_Unsubscribe(t *testing.T) {
	emitter := NewEmitter()

	count := 0
	subID := emitter.Subscribe(func(e *Event) { count++ })

	emitter.Emit(TypeGraphBuilt, &GraphBuiltData{Nodes: 2})
	if !emitter.Unsubscribe(subID) {
		t.Error("Unsubscribe returned false for live subscription")
	}
	emitter.Emit(TypeGraphBuilt, &GraphBuiltData{Nodes: 2})

	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
	if emitter.Unsubscribe(subID) {
		t.Error("Unsubscribe returned true for removed subscription")
	}
}

func TestEmitter_NilHandlerIgnored(t *testing.T) {
	emitter := NewEmitter()
	if id := emitter.Subscribe(nil); id != "" {
		t.Errorf("Subscribe(nil) = %q, want empty id", id)
	}
	if emitter.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount = %d, want 0", emitter.SubscriptionCount())
	}
}

func TestCollector(t *testing.T) {
	emitter := NewEmitter()
	collector := NewCollector()
	emitter.Subscribe(collector.Handler())

	emitter.Emit(TypePlanParsed, &PlanParsedData{Steps: 2})
	emitter.Emit(TypeStepSkipped, &StepSkippedData{Line: "junk"})
	emitter.Emit(TypeStepSkipped, &StepSkippedData{Line: "more junk"})

	if collector.Len() != 3 {
		t.Errorf("Len = %d, want 3", collector.Len())
	}
	if got := collector.ByType(TypeStepSkipped); len(got) != 2 {
		t.Errorf("ByType(step_skipped) = %d events, want 2", len(got))
	}
}

func TestLoggingHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	emitter := NewEmitter()
	emitter.Subscribe(LoggingHandler(logger, slog.LevelInfo))
	emitter.Emit(TypeParseFailed, &ParseFailedData{Kind: "duplicate_step_id", Error: "step 3"})

	out := buf.String()
	if !strings.Contains(out, "parse_failed") || !strings.Contains(out, "duplicate_step_id") {
		t.Errorf("log output missing event fields: %s", out)
	}
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	emitter := NewEmitter()
	emitter.Subscribe(MetricsHandler(reg))

	emitter.Emit(TypePlanParsed, &PlanParsedData{Steps: 1})
	emitter.Emit(TypePlanParsed, &PlanParsedData{Steps: 1})
	emitter.Emit(TypeJoinDecision, &JoinDecisionData{IsReplan: true})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, fam := range families {
		if fam.GetName() != "planweave_events_total" {
			continue
		}
		found = true
		for _, metric := range fam.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetValue() == "plan_parsed" && metric.GetCounter().GetValue() != 2 {
					t.Errorf("plan_parsed count = %v, want 2", metric.GetCounter().GetValue())
				}
			}
		}
	}
	if !found {
		t.Error("planweave_events_total not registered")
	}
}
