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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/PlanWeave/services/planner/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the capability set plans are validated against",
	Run:   runTools,
}

func runTools(cmd *cobra.Command, args []string) {
	registry, err := loadCapabilities(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load capability registry: %v\n", err)
		os.Exit(CLIExitError)
	}

	descriptors := registry.Descriptors()
	if outputJSON {
		if err := OutputJSON(descriptors); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(CLIExitError)
		}
		os.Exit(CLIExitSuccess)
	}

	for _, d := range descriptors {
		arity := fmt.Sprintf("%d", d.Arity)
		if d.Arity == tools.VariadicArity {
			arity = "variadic"
		}
		fmt.Printf("%-12s %-10s args=%-9s %s\n", d.Name, d.Category, arity, d.Description)
	}
	os.Exit(CLIExitSuccess)
}
