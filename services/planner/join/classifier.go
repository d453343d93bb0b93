// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package join classifies the model's join-phase output.
//
// After a plan has been executed, the model is asked whether the gathered
// results answer the user's question or whether planning must restart. Its
// reply is free-form text; this package extracts the reasoning trace, the
// answer payload, and the replan flag from fixed-prefix lines. Unlike the
// plan parser, classification never fails: join-phase text is naturally
// loose, and absence of a recognizable action is itself meaningful to the
// caller ("no actionable decision yet").
package join

import "strings"

const (
	// thoughtPrefix introduces the reasoning line.
	thoughtPrefix = "Thought:"

	// actionPrefix introduces the decision line.
	actionPrefix = "Action:"

	// ReplanToken marks a replan decision when it appears on the action
	// line, e.g. "Action: Replan(need more data)".
	ReplanToken = "Replan"
)

// Result is the classified outcome of one join-phase text.
type Result struct {
	// Thought is the reasoning trace, or "" if absent.
	Thought string `json:"thought,omitempty"`

	// Answer is the payload between the action line's first "(" and last
	// ")", or "" if no action line was found.
	Answer string `json:"answer"`

	// IsReplan is true when the action line carries the replan token.
	IsReplan bool `json:"is_replan"`
}

// Classify parses join-phase text into a Result.
//
// Description:
//
//	Scans lines for the "Thought:" and "Action:" prefixes, recognized
//	case-sensitively at line start. The action payload is the substring
//	strictly between the first "(" and the last ")" on that line. Lines
//	matching neither prefix are ignored. When several lines share a
//	prefix, the last one wins. A missing action line yields an empty
//	answer with IsReplan false; there is no error path.
//
// Inputs:
//
//	text - Join-phase text, UTF-8, line-oriented.
//
// Outputs:
//
//	Result - The decision. Zero value when nothing is recognized.
//
// Thread Safety: Safe for concurrent use.
func Classify(text string) Result {
	var res Result
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, actionPrefix):
			res.Answer = actionPayload(line)
			res.IsReplan = strings.Contains(line, ReplanToken)
		case strings.HasPrefix(line, thoughtPrefix):
			res.Thought = strings.TrimSpace(line[len(thoughtPrefix):])
		}
	}
	return res
}

// actionPayload extracts the text between the first "(" and the last ")".
// Missing or reversed parentheses yield "".
func actionPayload(line string) string {
	open := strings.Index(line, "(")
	end := strings.LastIndex(line, ")")
	if open < 0 || end <= open {
		return ""
	}
	return line[open+1 : end]
}
