// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package join

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Result
	}{
		{
			name: "finish with thought",
			text: "Thought: done\nAction: Finish(42)",
			want: Result{Thought: "done", Answer: "42", IsReplan: false},
		},
		{
			name: "replan without thought",
			text: "Action: Replan(need more data)",
			want: Result{Answer: "need more data", IsReplan: true},
		},
		{
			name: "no action line",
			text: "Thought: still deciding\nsome prose",
			want: Result{Thought: "still deciding"},
		},
		{
			name: "empty text",
			text: "",
			want: Result{},
		},
		{
			name: "payload spans to the last closing paren",
			text: "Action: Finish(f(x) = 2)",
			want: Result{Answer: "f(x) = 2"},
		},
		{
			name: "action without parentheses",
			text: "Action: Finish",
			want: Result{},
		},
		{
			name: "prefixes are case-sensitive at line start",
			text: "action: Finish(42)\n  Action: Finish(43)",
			want: Result{},
		},
		{
			name: "last action wins",
			text: "Action: Finish(1)\nAction: Replan(try again)",
			want: Result{Answer: "try again", IsReplan: true},
		},
		{
			name: "last thought wins",
			text: "Thought: first\nThought: second\nAction: Finish(ok)",
			want: Result{Thought: "second", Answer: "ok"},
		},
		{
			// The flag keys off the token anywhere on the action line,
			// not the action name.
			name: "replan token inside a finish payload still flags replan",
			text: "Action: Finish(we may Replan later)",
			want: Result{Answer: "we may Replan later", IsReplan: true},
		},
		{
			name: "unrelated lines ignored",
			text: "Observation: sky is blue\nAction: Finish(blue)",
			want: Result{Answer: "blue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}
