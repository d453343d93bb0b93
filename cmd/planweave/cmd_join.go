// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/PlanWeave/services/planner/join"
	"github.com/AleutianAI/PlanWeave/services/planner/telemetry"
)

var joinCmd = &cobra.Command{
	Use:   "join [join-file]",
	Short: "Classify join-phase text into an answer-or-replan decision",
	Long: `Reads the model's join-phase output (from the file or stdin) and prints
the extracted thought, answer payload, and replan flag. Classification
never fails; unrecognized text yields an empty decision.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runJoin,
}

func runJoin(cmd *cobra.Command, args []string) {
	source := ""
	if len(args) == 1 {
		source = args[0]
	}
	data, err := readInput(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(CLIExitError)
	}

	result := join.Classify(string(data))
	telemetry.ObserveJoinDecision(decisionKind(result))

	if outputJSON {
		if err := OutputJSON(result); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(CLIExitError)
		}
		os.Exit(CLIExitSuccess)
	}

	if result.Thought != "" {
		fmt.Printf("thought: %s\n", result.Thought)
	}
	fmt.Printf("answer: %s\n", result.Answer)
	fmt.Printf("replan: %t\n", result.IsReplan)
	os.Exit(CLIExitSuccess)
}

// decisionKind maps a join result to its metrics label.
func decisionKind(r join.Result) string {
	switch {
	case r.IsReplan:
		return "replan"
	case r.Answer != "":
		return "answer"
	default:
		return "none"
	}
}
