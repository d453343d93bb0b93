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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/AleutianAI/PlanWeave/services/planner/tools"
)

// CLI exit codes.
const (
	// CLIExitSuccess means the command completed.
	CLIExitSuccess = 0

	// CLIExitParseFailure means input was read but failed to parse.
	CLIExitParseFailure = 1

	// CLIExitError means an operational error (bad flags, unreadable file).
	CLIExitError = 2
)

// OutputJSON writes v as JSON to stdout: indented when stdout is an
// interactive terminal, compact single-line when piped.
//
// Inputs:
//
//	v - The value to encode.
//
// Outputs:
//
//	error - Non-nil if encoding fails.
func OutputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	if stdoutIsTerminal() {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// stdoutIsTerminal reports whether stdout is an interactive terminal.
func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// loadCapabilities resolves the capability registry for a command run:
// the --registry flag, then $PLANWEAVE_REGISTRY, then the built-in set.
func loadCapabilities(ctx context.Context) (*tools.Registry, error) {
	path := registryPath
	if path == "" {
		path = os.Getenv("PLANWEAVE_REGISTRY")
	}
	if path == "" {
		return tools.DefaultRegistry(ctx)
	}
	return tools.LoadRegistry(ctx, path)
}

// readInput reads one input: a named file, or stdin for "-" or no name.
func readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
