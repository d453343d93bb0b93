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

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "planweave",
		Short: "Parse LLM planner output into executable task graphs",
		Long: `PlanWeave turns the loosely structured plans a language model emits
(numbered tool-call steps with $N references) into validated dependency
graphs, and classifies join-phase output into answer-or-replan decisions.`,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the planweave version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}

	// Shared flags.
	registryPath string
	outputJSON   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "",
		"path to a capability registry YAML (default: built-in registry, or $PLANWEAVE_REGISTRY)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false,
		"emit machine-readable JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(toolsCmd)
}
