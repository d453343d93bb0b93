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
	"sort"
	"strconv"
)

// refPattern matches a task-id reference in bare ($7) or braced (${7}) form.
//
// The token-boundary check lives in ScanRefs, not the pattern: Go's regexp
// has no lookbehind, and consuming the preceding character here would make
// adjacent references like ${1}${2} overlap so only the first matched.
var refPattern = regexp.MustCompile(`\$(?:\{(\d+)\}|(\d+))`)

// isWordByte reports whether b is a letter, digit, or underscore.
func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

// ScanRefs returns the task ids referenced inside an argument string.
//
// Description:
//
//	Scans args for $N and ${N} references and returns the referenced ids
//	in ascending order with duplicates removed. Malformed references
//	simply do not match; there are no failure modes.
//
//	A reference only counts when the sigil sits at a token boundary: a
//	`$` immediately preceded by a letter, digit, or underscore is part of
//	an identifier, not a reference, so `x$3y` yields nothing while
//	`lookup($1, ${2})` yields 1 and 2. The end of a recognized reference
//	is itself a boundary, so run-together references like `$1$2` or
//	`${1}${2}` all count.
//
// Inputs:
//
//	args - Raw argument text of a step, treated as opaque.
//
// Outputs:
//
//	[]int - Referenced ids, sorted ascending, deduplicated. Nil if none.
//
// Thread Safety: Safe for concurrent use.
func ScanRefs(args string) []int {
	matches := refPattern.FindAllStringSubmatchIndex(args, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(matches))
	ids := make([]int, 0, len(matches))
	lastEnd := -1
	for _, m := range matches {
		start := m[0]
		if start > 0 && start != lastEnd && isWordByte(args[start-1]) {
			continue
		}
		lastEnd = m[1]

		var digits string
		if m[2] >= 0 {
			digits = args[m[2]:m[3]]
		} else {
			digits = args[m[4]:m[5]]
		}
		id, err := strconv.Atoi(digits)
		if err != nil {
			// \d+ can only overflow, and an id that large cannot
			// name a real step.
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	sort.Ints(ids)
	return ids
}

// HasRef reports whether args references the given task id.
//
// Inputs:
//
//	id - The task id to look for.
//	args - Raw argument text of a step.
//
// Outputs:
//
//	bool - True if args contains $id or ${id}.
//
// Thread Safety: Safe for concurrent use.
func HasRef(id int, args string) bool {
	for _, ref := range ScanRefs(args) {
		if ref == id {
			return true
		}
	}
	return false
}
