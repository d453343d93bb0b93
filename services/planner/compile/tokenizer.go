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
	"regexp"
	"strconv"
	"strings"
)

// EndOfPlan is the terminal token a planner emits to close a plan. Once it
// appears, nothing after it is consumed, even if later lines would match.
const EndOfPlan = "<END_OF_PLAN>"

// thoughtPrefix introduces free-form reasoning attached to the next step.
const thoughtPrefix = "Thought:"

// stepHeadPattern matches the head of a step line: "<digits>. <tool>(".
// The argument payload is not part of the pattern; it runs from the head's
// opening parenthesis to the last ")" on the line.
var stepHeadPattern = regexp.MustCompile(`^(\d+)\.\s+(\w+)\(`)

// markerPattern matches an optional trailing "#<tag>" marker after the
// closing parenthesis.
var markerPattern = regexp.MustCompile(`^\s*#(\w+)\s*$`)

// RawStep is one recognized step of a plan, in source order.
//
// Ids are assigned by the model and are not guaranteed contiguous or unique;
// duplicate handling is the graph builder's concern, not the tokenizer's.
type RawStep struct {
	// Thought is the free text of a "Thought:" line immediately preceding
	// the step, if any.
	Thought string `json:"thought,omitempty"`

	// ID is the step's caller-assigned positive id.
	ID int `json:"id"`

	// Tool is the bare-word tool name being invoked.
	Tool string `json:"tool"`

	// Args is the raw argument text between the outer parentheses,
	// treated as opaque.
	Args string `json:"args"`

	// Marker is the trailing "#<tag>" annotation without the "#", if any.
	Marker string `json:"marker,omitempty"`
}

// TokenizeStats describes what the tokenizer did and did not recognize.
type TokenizeStats struct {
	// Recognized is the number of steps produced.
	Recognized int

	// Skipped holds the non-empty lines that matched no grammar rule.
	Skipped []string

	// Terminated is true if the end-of-plan token stopped the scan.
	Terminated bool
}

// Tokenize scans plan text into an ordered sequence of raw steps.
//
// Description:
//
//	Applies the step grammar line by line: an optional "Thought: <text>"
//	line, then "<digits>. <tool>(<args>)" with an optional trailing
//	"#<tag>" marker. Lines matching neither rule are skipped silently and
//	break the thought/step adjacency. Blank lines are ignored entirely.
//	Scanning stops at the first end-of-plan token.
//
//	The argument payload runs from the opening parenthesis to the LAST
//	closing parenthesis on the line. It is not balanced-parenthesis aware:
//	a quoted ")" inside the arguments shifts the payload boundary. This is
//	a known limitation of the grammar, kept deliberately.
//
// Inputs:
//
//	text - Full plan text, UTF-8.
//
// Outputs:
//
//	[]RawStep - Recognized steps in source order. Never nil on malformed
//	input; degrades to fewer recognized steps.
//
// Thread Safety: Safe for concurrent use.
func Tokenize(text string) []RawStep {
	steps, _ := TokenizeWithStats(text)
	return steps
}

// TokenizeWithStats is Tokenize plus diagnostics about skipped lines.
//
// Outputs:
//
//	[]RawStep - Recognized steps in source order.
//	TokenizeStats - Counts and skipped lines, for event emission.
//
// Thread Safety: Safe for concurrent use.
func TokenizeWithStats(text string) ([]RawStep, TokenizeStats) {
	var (
		steps   []RawStep
		stats   TokenizeStats
		thought string
	)

	for _, line := range strings.Split(text, "\n") {
		if i := strings.Index(line, EndOfPlan); i >= 0 {
			// A step may share the terminal line.
			if step, ok := parseStepLine(strings.TrimSpace(line[:i])); ok {
				step.Thought = thought
				steps = append(steps, step)
				stats.Recognized++
			}
			stats.Terminated = true
			break
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, thoughtPrefix) {
			// Consecutive thought lines: the last one wins.
			thought = strings.TrimSpace(trimmed[len(thoughtPrefix):])
			continue
		}

		step, ok := parseStepLine(trimmed)
		if !ok {
			stats.Skipped = append(stats.Skipped, trimmed)
			thought = ""
			continue
		}

		step.Thought = thought
		thought = ""
		steps = append(steps, step)
		stats.Recognized++
	}

	return steps, stats
}

// parseStepLine parses a single trimmed line as a step entry.
func parseStepLine(line string) (RawStep, bool) {
	head := stepHeadPattern.FindStringSubmatch(line)
	if head == nil {
		return RawStep{}, false
	}

	id, err := strconv.Atoi(head[1])
	if err != nil || id < 1 {
		// Ids are positive by contract; "0." or an overflowing id is
		// malformed, not a step.
		return RawStep{}, false
	}

	argsStart := len(head[0])
	argsEnd := strings.LastIndex(line, ")")
	if argsEnd < argsStart {
		return RawStep{}, false
	}

	step := RawStep{
		ID:   id,
		Tool: head[2],
		Args: line[argsStart:argsEnd],
	}

	if rest := line[argsEnd+1:]; rest != "" {
		if m := markerPattern.FindStringSubmatch(rest); m != nil {
			step.Marker = m[1]
		}
		// Other trailing text is tolerated and ignored.
	}

	return step, true
}
