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
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/PlanWeave/pkg/logging"
	"github.com/AleutianAI/PlanWeave/services/planner/compile"
	"github.com/AleutianAI/PlanWeave/services/planner/events"
)

var parseVerbose bool

var parseCmd = &cobra.Command{
	Use:   "parse [plan-file...]",
	Short: "Parse plan text into a task graph",
	Long: `Parses planner output into a validated dependency graph and prints it.
With no arguments (or "-") the plan is read from stdin. With several files,
each is parsed independently and concurrently.

Exit codes: 0 parsed, 1 parse failure, 2 operational error.`,
	Run: runParse,
}

func init() {
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false,
		"log parse events (skipped lines, graph stats) to stderr")
}

// parseResult is the per-input outcome, for JSON output.
type parseResult struct {
	Source string             `json:"source"`
	Graph  *compile.PlanGraph `json:"graph,omitempty"`
	Order  []int              `json:"execution_order,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	caps, err := loadCapabilities(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load capability registry: %v\n", err)
		os.Exit(CLIExitError)
	}

	var opts []compile.CompilerOption
	if parseVerbose {
		logger := logging.New(logging.Config{Level: logging.LevelDebug})
		emitter := events.NewEmitter()
		emitter.Subscribe(events.LoggingHandler(logger.Slog(), slog.LevelDebug))
		opts = append(opts, compile.WithEmitter(emitter))
	}
	compiler := compile.NewCompiler(caps, opts...)

	sources := args
	if len(sources) == 0 {
		sources = []string{"-"}
	}

	results := make([]parseResult, len(sources))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		g.Go(func() error {
			data, err := readInput(source)
			if err != nil {
				return err
			}
			res := parseResult{Source: source}
			if graph, err := compiler.ParsePlan(gctx, string(data)); err != nil {
				res.Error = err.Error()
			} else {
				res.Graph = graph
				// ParsePlan rejects cyclic plans, so ordering a graph
				// it returned cannot fail.
				res.Order, _ = graph.ExecutionOrder()
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(CLIExitError)
	}

	failed := false
	for _, res := range results {
		if res.Error != "" {
			failed = true
		}
	}

	if outputJSON {
		var out any = results
		if len(results) == 1 {
			out = results[0]
		}
		if err := OutputJSON(out); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(CLIExitError)
		}
	} else {
		for _, res := range results {
			printGraph(res)
		}
	}

	if failed {
		os.Exit(CLIExitParseFailure)
	}
	os.Exit(CLIExitSuccess)
}

// printGraph renders one parse result for humans.
func printGraph(res parseResult) {
	if res.Source != "-" {
		fmt.Printf("--- %s ---\n", res.Source)
	}
	if res.Error != "" {
		fmt.Printf("parse failed: %s\n", res.Error)
		return
	}

	for _, id := range res.Graph.NodeIDs() {
		node, _ := res.Graph.Node(id)
		deps := "none"
		if len(node.Dependencies) > 0 {
			parts := make([]string, len(node.Dependencies))
			for i, d := range node.Dependencies {
				parts[i] = fmt.Sprintf("%d", d)
			}
			deps = strings.Join(parts, ", ")
		}
		label := ""
		if id == res.Graph.JoinID() {
			label = " [join]"
		}
		fmt.Printf("%3d. %s(%s)%s  deps: %s\n", node.ID, node.Tool, node.Args, label, deps)
	}
	if len(res.Order) > 0 {
		parts := make([]string, len(res.Order))
		for i, id := range res.Order {
			parts[i] = fmt.Sprintf("%d", id)
		}
		fmt.Printf("execution order: %s\n", strings.Join(parts, " -> "))
	}
}
