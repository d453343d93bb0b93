// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tools

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrInvalidDescriptor is returned when registering a descriptor that fails
// validation.
var ErrInvalidDescriptor = errors.New("invalid tool descriptor")

// Registry is the concrete capability set handed to the plan parser.
//
// Description:
//
//	Holds tool descriptors keyed by name. Registering an existing name
//	replaces the previous descriptor. The zero value is not usable; call
//	NewRegistry.
//
// Thread Safety:
//
//	Registry is fully thread-safe. All methods can be called concurrently.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Descriptor
}

// NewRegistry creates an empty registry, optionally pre-populated.
//
// Inputs:
//
//	descriptors - Initial descriptors. Invalid ones are rejected.
//
// Outputs:
//
//	*Registry - The registry.
//	error - Non-nil if any initial descriptor is invalid.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds or replaces a descriptor.
//
// Inputs:
//
//	d - The descriptor. Must pass Validate.
//
// Outputs:
//
//	error - ErrInvalidDescriptor (wrapped) if validation fails.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidDescriptor, d.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[d.Name] = d
	return nil
}

// Unregister removes a descriptor.
//
// Outputs:
//
//	bool - True if the name was registered.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; !ok {
		return false
	}
	delete(r.byName, name)
	return true
}

// Get returns a descriptor by name.
//
// Outputs:
//
//	Descriptor - The descriptor if found.
//	bool - True if found.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// Has reports whether a tool name is known. Part of the parser's
// CapabilitySet contract.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

// Names returns all registered tool names, sorted. Part of the parser's
// CapabilitySet contract.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Descriptors returns all descriptors sorted by name.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.byName))
	for _, d := range r.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByCategory returns descriptors in one category, sorted by name.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) ByCategory(category string) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Descriptor
	for _, d := range r.byName {
		if d.Category == category {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
