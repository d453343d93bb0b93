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
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []RawStep
	}{
		{
			name: "single step",
			text: `1. search("Ronaldo number of kids")`,
			want: []RawStep{
				{ID: 1, Tool: "search", Args: `"Ronaldo number of kids"`},
			},
		},
		{
			name: "thought attaches to following step",
			text: "Thought: need two facts\n1. search(\"a\")\n2. search(\"b\")",
			want: []RawStep{
				{Thought: "need two facts", ID: 1, Tool: "search", Args: `"a"`},
				{ID: 2, Tool: "search", Args: `"b"`},
			},
		},
		{
			name: "garbage line between thought and step drops the thought",
			text: "Thought: stale\nsome prose the model added\n1. search(\"a\")",
			want: []RawStep{
				{ID: 1, Tool: "search", Args: `"a"`},
			},
		},
		{
			name: "blank lines between thought and step are fine",
			text: "Thought: still fresh\n\n\n1. search(\"a\")",
			want: []RawStep{
				{Thought: "still fresh", ID: 1, Tool: "search", Args: `"a"`},
			},
		},
		{
			name: "one good step one garbage line",
			text: "not a step at all\n1. search(\"a\")",
			want: []RawStep{
				{ID: 1, Tool: "search", Args: `"a"`},
			},
		},
		{
			name: "trailing marker",
			text: `3. math($1 + $2) #fast`,
			want: []RawStep{
				{ID: 3, Tool: "math", Args: `$1 + $2`, Marker: "fast"},
			},
		},
		{
			name: "end of plan stops the scan",
			text: "1. search(\"a\")\n<END_OF_PLAN>\n2. search(\"b\")",
			want: []RawStep{
				{ID: 1, Tool: "search", Args: `"a"`},
			},
		},
		{
			name: "step sharing the terminal line is kept",
			text: "1. search(\"a\")\n2. join($1) <END_OF_PLAN>",
			want: []RawStep{
				{ID: 1, Tool: "search", Args: `"a"`},
				{ID: 2, Tool: "join", Args: `$1`},
			},
		},
		{
			name: "zero id is malformed",
			text: `0. search("a")`,
			want: nil,
		},
		{
			name: "missing closing paren is malformed",
			text: `1. search("a"`,
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "indented step",
			text: `   2. lookup("key", $1)`,
			want: []RawStep{
				{ID: 2, Tool: "lookup", Args: `"key", $1`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// The argument payload runs to the last ")" on the line and is not
// balanced-parenthesis aware. Both sides of that trade-off are pinned here
// so a future "fix" shows up as a deliberate change.
func TestTokenize_ParenthesisLimitation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantArgs string
	}{
		{
			name:     "nested parens survive because the last paren wins",
			text:     `1. search("pop of Oslo (2024)")`,
			wantArgs: `"pop of Oslo (2024)"`,
		},
		{
			name:     "quoted closing paren shifts the boundary",
			text:     `1. search("smiley )") #tag`,
			wantArgs: `"smiley )"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := Tokenize(tt.text)
			if len(steps) != 1 {
				t.Fatalf("Tokenize() yielded %d steps, want 1", len(steps))
			}
			if steps[0].Args != tt.wantArgs {
				t.Errorf("Args = %q, want %q", steps[0].Args, tt.wantArgs)
			}
		})
	}
}

func TestTokenizeWithStats(t *testing.T) {
	text := "prose line\n1. search(\"a\")\nmore prose\n<END_OF_PLAN>"
	steps, stats := TokenizeWithStats(text)

	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(steps))
	}
	if stats.Recognized != 1 {
		t.Errorf("Recognized = %d, want 1", stats.Recognized)
	}
	if want := []string{"prose line", "more prose"}; !reflect.DeepEqual(stats.Skipped, want) {
		t.Errorf("Skipped = %v, want %v", stats.Skipped, want)
	}
	if !stats.Terminated {
		t.Error("Terminated = false, want true")
	}
}
