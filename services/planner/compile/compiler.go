// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package compile

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/PlanWeave/services/planner/events"
	"github.com/AleutianAI/PlanWeave/services/planner/telemetry"
)

// Compiler binds a capability set to the parse pipeline and adds the
// observability the pure functions deliberately omit: a span per parse,
// Prometheus counters, and structured events.
//
// Hosts that do not want any of that call Parse directly.
//
// Thread Safety: Compiler is safe for concurrent use; each parse operates
// on its own input and output.
type Compiler struct {
	caps    CapabilitySet
	emitter *events.Emitter
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithEmitter attaches an event emitter. Without one, no events are sent.
func WithEmitter(emitter *events.Emitter) CompilerOption {
	return func(c *Compiler) {
		c.emitter = emitter
	}
}

// NewCompiler creates a compiler over a capability set.
//
// Inputs:
//
//	caps - Known tool names. Must not be nil; ParsePlan returns
//	ErrNilCapabilitySet otherwise.
//	opts - Configuration options.
//
// Outputs:
//
//	*Compiler - The configured compiler.
func NewCompiler(caps CapabilitySet, opts ...CompilerOption) *Compiler {
	c := &Compiler{caps: caps}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParsePlan parses plan text into a graph with tracing, metrics, and events.
//
// Description:
//
//	Semantics are identical to Parse. The context is used for span
//	propagation only; parsing never blocks and does not observe
//	cancellation.
//
// Inputs:
//
//	ctx - Context carrying an optional parent span.
//	text - Full plan text.
//
// Outputs:
//
//	*PlanGraph - The validated graph.
//	error - See BuildGraph.
//
// Thread Safety: Safe for concurrent use.
func (c *Compiler) ParsePlan(ctx context.Context, text string) (*PlanGraph, error) {
	_, span := telemetry.StartSpan(ctx, "compile.Compiler.ParsePlan",
		trace.WithAttributes(attribute.Int("plan.bytes", len(text))),
	)
	defer span.End()

	start := time.Now()
	steps, stats := TokenizeWithStats(text)

	if c.emitter != nil {
		for _, line := range stats.Skipped {
			c.emitter.Emit(events.TypeStepSkipped, &events.StepSkippedData{Line: line})
		}
		c.emitter.Emit(events.TypePlanParsed, &events.PlanParsedData{
			Steps:      stats.Recognized,
			Skipped:    len(stats.Skipped),
			Terminated: stats.Terminated,
		})
	}

	graph, err := BuildGraph(steps, c.caps)
	duration := time.Since(start)

	if err != nil {
		kind := errorKind(err)
		telemetry.ObserveParse(kind, stats.Recognized, len(stats.Skipped), duration)
		telemetry.RecordError(span, err, attribute.String("error.kind", kind))
		if c.emitter != nil {
			c.emitter.Emit(events.TypeParseFailed, &events.ParseFailedData{
				Kind:  kind,
				Error: err.Error(),
			})
		}
		return nil, err
	}

	telemetry.ObserveParse("ok", stats.Recognized, len(stats.Skipped), duration)
	telemetry.SetSpanOK(span)
	span.SetAttributes(attribute.Int("graph.nodes", graph.NodeCount()))

	if c.emitter != nil {
		c.emitter.Emit(events.TypeGraphBuilt, &events.GraphBuiltData{
			Nodes:      graph.NodeCount(),
			JoinNodeID: graph.JoinID(),
			Duration:   duration,
		})
	}

	return graph, nil
}

// errorKind maps a build error to its taxonomy tag.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidToolReference):
		return "invalid_tool_reference"
	case errors.Is(err, ErrDuplicateStepID):
		return "duplicate_step_id"
	case errors.Is(err, ErrCycleDetected):
		return "cycle_detected"
	case errors.Is(err, ErrNilCapabilitySet):
		return "nil_capability_set"
	default:
		return "internal"
	}
}
