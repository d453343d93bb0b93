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
	"errors"
	"fmt"
)

// Sentinel errors for the compile package.
var (
	// ErrMalformedStep marks tokenizer-level rejects. It is never fatal
	// and never returned from a parse; it appears only in diagnostics
	// such as step-skipped events.
	ErrMalformedStep = errors.New("malformed step")

	// ErrInvalidToolReference is returned when a plan invokes a tool name
	// absent from the capability set. The whole parse fails: a plan
	// referencing an unknown tool cannot be safely partially executed.
	ErrInvalidToolReference = errors.New("invalid tool reference")

	// ErrDuplicateStepID is returned when the same step id appears twice
	// with conflicting tool or argument content.
	ErrDuplicateStepID = errors.New("duplicate step id")

	// ErrCycleDetected is returned by ExecutionOrder if the dependency
	// edges do not admit a topological order. Graphs built by BuildGraph
	// cannot trip this; it guards hand-assembled graphs.
	ErrCycleDetected = errors.New("cycle detected in plan graph")

	// ErrNilCapabilitySet is returned when BuildGraph is given a nil
	// capability set.
	ErrNilCapabilitySet = errors.New("capability set must not be nil")
)

// ToolReferenceError reports the step that invoked an unknown tool.
type ToolReferenceError struct {
	StepID int
	Tool   string
}

// Error returns the error message.
func (e *ToolReferenceError) Error() string {
	return fmt.Sprintf("%v: step %d invokes unknown tool %q", ErrInvalidToolReference, e.StepID, e.Tool)
}

// Unwrap returns ErrInvalidToolReference.
func (e *ToolReferenceError) Unwrap() error {
	return ErrInvalidToolReference
}

// DuplicateStepError reports both conflicting definitions of a step id,
// for diagnostics.
type DuplicateStepError struct {
	ID     int
	First  RawStep
	Second RawStep
}

// Error returns the error message.
func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("%v: step %d defined as %s(%s) and %s(%s)",
		ErrDuplicateStepID, e.ID, e.First.Tool, e.First.Args, e.Second.Tool, e.Second.Args)
}

// Unwrap returns ErrDuplicateStepID.
func (e *DuplicateStepError) Unwrap() error {
	return ErrDuplicateStepID
}
