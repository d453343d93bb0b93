// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package compile turns free-form planner output into a validated task graph.
//
// The package is the front end of the planning pipeline. A language model
// produces a loosely structured plan: numbered steps that invoke named tools,
// optionally preceded by "Thought:" lines, where a step's arguments may
// reference the not-yet-known outputs of earlier steps ($1, ${2}).
//
// Processing happens in three stages:
//
//	plan text ──> Tokenize ──> []RawStep ──> BuildGraph ──> *PlanGraph
//
//   - Tokenize scans the text with a tolerant line grammar. Lines that do
//     not match are skipped; tokenizing never fails.
//   - ScanRefs extracts the task-id references embedded in an argument
//     string. It is the only place the reference syntax is defined.
//   - BuildGraph validates tool names against a CapabilitySet, resolves
//     each step's dependency set, and injects a synthetic join node so the
//     resulting graph always has exactly one sink.
//
// The Compiler type wraps the pure pipeline with tracing, metrics, and
// event emission for hosts that want observability; Parse is the plain
// function path for hosts that do not.
//
// The package never executes tools and never calls a model. All functions
// are pure and safe for concurrent use; each parse operates on its own
// input and produces a fresh immutable graph.
package compile
