// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package events delivers structured records about planning milestones to
// pluggable sinks. The parsers themselves stay pure; the Compiler facade and
// host control loops emit through an Emitter, and handlers fan the records
// out to logs, metrics, or test collectors.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of planning event.
type EventType string

const (
	// TypePlanParsed fires after tokenizing, before graph building.
	TypePlanParsed EventType = "plan_parsed"

	// TypeStepSkipped fires once per line the tokenizer rejected.
	TypeStepSkipped EventType = "step_skipped"

	// TypeGraphBuilt fires when a graph was assembled successfully.
	TypeGraphBuilt EventType = "graph_built"

	// TypeParseFailed fires when graph building aborted the parse.
	TypeParseFailed EventType = "parse_failed"

	// TypeJoinDecision fires after classifying join-phase text.
	TypeJoinDecision EventType = "join_decision"
)

// Event is one structured planning record.
type Event struct {
	// ID uniquely identifies this event.
	ID string `json:"id"`

	// Type is the event kind.
	Type EventType `json:"type"`

	// SessionID ties events from one agent session together.
	SessionID string `json:"session_id,omitempty"`

	// Step is the host loop's replan iteration counter.
	Step int `json:"step"`

	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// Data carries the type-specific payload.
	Data any `json:"data,omitempty"`
}

// PlanParsedData is the payload of TypePlanParsed.
type PlanParsedData struct {
	Steps      int  `json:"steps"`
	Skipped    int  `json:"skipped"`
	Terminated bool `json:"terminated"`
}

// StepSkippedData is the payload of TypeStepSkipped.
type StepSkippedData struct {
	Line string `json:"line"`
}

// GraphBuiltData is the payload of TypeGraphBuilt.
type GraphBuiltData struct {
	Nodes      int           `json:"nodes"`
	JoinNodeID int           `json:"join_node_id"`
	Duration   time.Duration `json:"duration"`
}

// ParseFailedData is the payload of TypeParseFailed.
type ParseFailedData struct {
	// Kind is the error taxonomy tag, e.g. "invalid_tool_reference".
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// JoinDecisionData is the payload of TypeJoinDecision.
type JoinDecisionData struct {
	IsReplan  bool `json:"is_replan"`
	HasAnswer bool `json:"has_answer"`
}

// Handler receives emitted events. Handlers run synchronously on the
// emitting goroutine and must not block.
type Handler func(event *Event)

// Filter decides whether a subscription receives an event.
type Filter func(event *Event) bool

// subscription pairs a handler with its optional filter.
type subscription struct {
	id      string
	handler Handler
	filter  Filter
}

// Emitter fans events out to subscribed handlers.
//
// Thread Safety: Emitter is safe for concurrent use.
type Emitter struct {
	mu        sync.RWMutex
	subs      []subscription
	sessionID string
	step      int
}

// NewEmitter creates an emitter for one agent session.
func NewEmitter() *Emitter {
	return &Emitter{sessionID: uuid.NewString()}
}

// SessionID returns the emitter's session id.
func (e *Emitter) SessionID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sessionID
}

// SetStep records the host loop's current replan iteration. Subsequent
// events carry this value.
func (e *Emitter) SetStep(step int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.step = step
}

// Subscribe registers a handler for all events.
//
// Outputs:
//
//	string - Subscription id, usable with Unsubscribe.
func (e *Emitter) Subscribe(handler Handler) string {
	return e.SubscribeWithFilter(handler, nil)
}

// SubscribeWithFilter registers a handler gated by a filter. A nil filter
// receives everything.
func (e *Emitter) SubscribeWithFilter(handler Handler, filter Filter) string {
	if handler == nil {
		return ""
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := uuid.NewString()
	e.subs = append(e.subs, subscription{id: id, handler: handler, filter: filter})
	return id
}

// Unsubscribe removes a subscription.
//
// Outputs:
//
//	bool - True if the subscription existed.
func (e *Emitter) Unsubscribe(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, sub := range e.subs {
		if sub.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return true
		}
	}
	return false
}

// SubscriptionCount returns the number of active subscriptions.
func (e *Emitter) SubscriptionCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}

// Emit delivers an event of the given type to all matching subscriptions.
func (e *Emitter) Emit(eventType EventType, data any) {
	e.mu.RLock()
	event := &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: e.sessionID,
		Step:      e.step,
		Timestamp: time.Now(),
		Data:      data,
	}
	subs := make([]subscription, len(e.subs))
	copy(subs, e.subs)
	e.mu.RUnlock()

	for _, sub := range subs {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		sub.handler(event)
	}
}
