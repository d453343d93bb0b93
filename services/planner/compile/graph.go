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
	"encoding/json"
	"sort"
)

// JoinTool is the tool name assigned to the synthetic join node.
const JoinTool = "join"

// CapabilitySet is the set of tool names a plan may invoke.
//
// The graph builder validates by name only; argument schemas belong to the
// registry that implements this interface.
type CapabilitySet interface {
	// Has reports whether a tool name is known.
	Has(name string) bool

	// Names returns all known tool names, sorted.
	Names() []string
}

// TaskNode is one node of a plan graph, immutable once constructed.
type TaskNode struct {
	// ID is the step id, or the synthetic join id for the join node.
	ID int `json:"id"`

	// Tool is the validated tool name.
	Tool string `json:"tool"`

	// Args is the raw argument text, with references unresolved. The
	// executor substitutes predecessor outputs at run time.
	Args string `json:"args"`

	// Thought is the planner's reasoning for this step, if any.
	Thought string `json:"thought,omitempty"`

	// Dependencies are the ids of nodes whose outputs this node consumes,
	// sorted ascending. Only ids present in the graph appear here.
	Dependencies []int `json:"dependencies"`
}

// PlanGraph is a directed acyclic task graph keyed by step id.
//
// Description:
//
//	Every graph carries a synthetic join node depended on by each node no
//	other node references, so the graph has exactly one sink regardless
//	of the plan's shape. Schedulers rely on the single sink to know when
//	all branches have completed.
//
// Thread Safety:
//
//	PlanGraph is immutable after BuildGraph returns and safe for
//	concurrent reads.
type PlanGraph struct {
	nodes  map[int]*TaskNode
	joinID int
}

// Node returns a node by id.
//
// Outputs:
//
//	*TaskNode - The node if found.
//	bool - True if found.
func (g *PlanGraph) Node(id int) (*TaskNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// JoinID returns the synthetic join node's id. It is always one greater
// than the highest real step id and never collides with a real step.
func (g *PlanGraph) JoinID() int {
	return g.joinID
}

// NodeCount returns the number of nodes, join node included.
func (g *PlanGraph) NodeCount() int {
	return len(g.nodes)
}

// NodeIDs returns all node ids sorted ascending, join node included.
func (g *PlanGraph) NodeIDs() []int {
	ids := make([]int, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Dependencies returns the dependency ids for a node, or nil if the node
// does not exist.
func (g *PlanGraph) Dependencies(id int) []int {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	deps := make([]int, len(n.Dependencies))
	copy(deps, n.Dependencies)
	return deps
}

// Roots returns the ids of nodes with no dependencies, sorted ascending.
func (g *PlanGraph) Roots() []int {
	var roots []int
	for id, n := range g.nodes {
		if len(n.Dependencies) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Ints(roots)
	return roots
}

// ExecutionOrder returns a topological order of all node ids.
//
// Description:
//
//	Kahn's algorithm with ascending-id tie breaking, so the order is
//	deterministic for a given graph. BuildGraph rejects cyclic reference
//	sets before returning, so on its graphs this cannot fail; the cycle
//	check guards graphs assembled by hand.
//
// Outputs:
//
//	[]int - Node ids in dependency-respecting order, join node last.
//	error - ErrCycleDetected if no topological order exists.
func (g *PlanGraph) ExecutionOrder() ([]int, error) {
	indegree := make(map[int]int, len(g.nodes))
	dependents := make(map[int][]int, len(g.nodes))
	for id, n := range g.nodes {
		indegree[id] += 0
		for _, dep := range n.Dependencies {
			if _, ok := g.nodes[dep]; !ok {
				continue
			}
			indegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []int
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Ints(ready)

	order := make([]int, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var freed []int
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				freed = append(freed, dep)
			}
		}
		if len(freed) > 0 {
			ready = append(ready, freed...)
			sort.Ints(ready)
		}
	}

	if len(order) != len(g.nodes) {
		return nil, ErrCycleDetected
	}
	return order, nil
}

// graphJSON is the wire form of a PlanGraph.
type graphJSON struct {
	Nodes      []*TaskNode `json:"nodes"`
	JoinNodeID int         `json:"join_node_id"`
}

// MarshalJSON serializes the graph with nodes sorted by id.
func (g *PlanGraph) MarshalJSON() ([]byte, error) {
	out := graphJSON{
		Nodes:      make([]*TaskNode, 0, len(g.nodes)),
		JoinNodeID: g.joinID,
	}
	for _, id := range g.NodeIDs() {
		out.Nodes = append(out.Nodes, g.nodes[id])
	}
	return json.Marshal(out)
}

// BuildGraph assembles a plan graph from tokenized steps.
//
// Description:
//
//	Validates every step's tool name against the capability set, resolves
//	each step's dependency set via ScanRefs, and injects the synthetic
//	join node. Dependency resolution drops self-references (a step may
//	not depend on itself) and dangling references to ids no step defines;
//	forward references to ids that do exist are kept as edges, since
//	ordering is the executor's responsibility. Mutually referencing steps
//	form a cycle no executor can schedule, so they fail the parse.
//
//	Duplicate ids with identical tool and argument content deduplicate
//	silently, first occurrence wins. Conflicting duplicates fail the
//	parse: the plan is ambiguous.
//
// Inputs:
//
//	steps - Ordered raw steps from Tokenize.
//	caps - Known tool names. Must not be nil.
//
// Outputs:
//
//	*PlanGraph - The validated graph. An empty step list yields a graph
//	containing only the join node.
//	error - ErrNilCapabilitySet, ErrCycleDetected, a *ToolReferenceError,
//	or a *DuplicateStepError.
//
// Thread Safety: Safe for concurrent use.
func BuildGraph(steps []RawStep, caps CapabilitySet) (*PlanGraph, error) {
	if caps == nil {
		return nil, ErrNilCapabilitySet
	}

	accepted := make(map[int]RawStep, len(steps))
	maxID := 0
	for _, step := range steps {
		if !caps.Has(step.Tool) {
			return nil, &ToolReferenceError{StepID: step.ID, Tool: step.Tool}
		}
		if prev, ok := accepted[step.ID]; ok {
			if prev.Tool != step.Tool || prev.Args != step.Args {
				return nil, &DuplicateStepError{ID: step.ID, First: prev, Second: step}
			}
			continue
		}
		accepted[step.ID] = step
		if step.ID > maxID {
			maxID = step.ID
		}
	}

	nodes := make(map[int]*TaskNode, len(accepted)+1)
	referenced := make(map[int]bool, len(accepted))
	for id, step := range accepted {
		deps := make([]int, 0, 4)
		for _, ref := range ScanRefs(step.Args) {
			if ref == id {
				continue // self-loop, dropped to keep the graph a DAG
			}
			if _, ok := accepted[ref]; !ok {
				continue // dangling, the model hallucinated a step
			}
			deps = append(deps, ref)
			referenced[ref] = true
		}
		nodes[id] = &TaskNode{
			ID:           id,
			Tool:         step.Tool,
			Args:         step.Args,
			Thought:      step.Thought,
			Dependencies: deps,
		}
	}

	joinID := maxID + 1
	joinDeps := make([]int, 0, len(nodes))
	for id := range nodes {
		if !referenced[id] {
			joinDeps = append(joinDeps, id)
		}
	}
	sort.Ints(joinDeps)
	nodes[joinID] = &TaskNode{
		ID:           joinID,
		Tool:         JoinTool,
		Dependencies: joinDeps,
	}

	graph := &PlanGraph{nodes: nodes, joinID: joinID}
	if _, err := graph.ExecutionOrder(); err != nil {
		return nil, err
	}
	return graph, nil
}

// Parse tokenizes plan text and builds its graph in one call.
//
// Inputs:
//
//	text - Full plan text.
//	caps - Known tool names. Must not be nil.
//
// Outputs:
//
//	*PlanGraph - The validated graph.
//	error - See BuildGraph.
//
// Thread Safety: Safe for concurrent use.
func Parse(text string, caps CapabilitySet) (*PlanGraph, error) {
	return BuildGraph(Tokenize(text), caps)
}
