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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	registry, err := NewRegistry(
		Descriptor{Name: "search", Category: "retrieval", Arity: 1},
		Descriptor{Name: "join", Category: "control", Arity: VariadicArity},
	)
	require.NoError(t, err)

	assert.True(t, registry.Has("search"))
	assert.True(t, registry.Has("join"))
	assert.False(t, registry.Has("fabricate"))
	assert.Equal(t, 2, registry.Count())
	assert.Equal(t, []string{"join", "search"}, registry.Names())

	d, ok := registry.Get("search")
	require.True(t, ok)
	assert.Equal(t, 1, d.Arity)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	registry, err := NewRegistry(Descriptor{Name: "search", Arity: 1})
	require.NoError(t, err)

	require.NoError(t, registry.Register(Descriptor{Name: "search", Arity: 2}))
	assert.Equal(t, 1, registry.Count())

	d, ok := registry.Get("search")
	require.True(t, ok)
	assert.Equal(t, 2, d.Arity)
}

func TestRegistry_InvalidDescriptor(t *testing.T) {
	tests := []struct {
		name       string
		descriptor Descriptor
	}{
		{name: "empty name", descriptor: Descriptor{Name: ""}},
		{name: "name with space", descriptor: Descriptor{Name: "bad name"}},
		{name: "name with dash", descriptor: Descriptor{Name: "bad-name"}},
		{name: "arity below variadic", descriptor: Descriptor{Name: "ok", Arity: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := NewRegistry()
			require.NoError(t, err)
			err = registry.Register(tt.descriptor)
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry, err := NewRegistry(Descriptor{Name: "search"})
	require.NoError(t, err)

	assert.True(t, registry.Unregister("search"))
	assert.False(t, registry.Unregister("search"))
	assert.False(t, registry.Has("search"))
}

func TestRegistry_ByCategory(t *testing.T) {
	registry, err := NewRegistry(
		Descriptor{Name: "search", Category: "retrieval"},
		Descriptor{Name: "fetch", Category: "retrieval"},
		Descriptor{Name: "join", Category: "control"},
	)
	require.NoError(t, err)

	retrieval := registry.ByCategory("retrieval")
	require.Len(t, retrieval, 2)
	assert.Equal(t, "fetch", retrieval[0].Name)
	assert.Equal(t, "search", retrieval[1].Name)

	assert.Empty(t, registry.ByCategory("compute"))
}

func TestRegistry_Descriptors_Sorted(t *testing.T) {
	registry, err := NewRegistry(
		Descriptor{Name: "zeta"},
		Descriptor{Name: "alpha"},
	)
	require.NoError(t, err)

	descriptors := registry.Descriptors()
	require.Len(t, descriptors, 2)
	assert.Equal(t, "alpha", descriptors[0].Name)
	assert.Equal(t, "zeta", descriptors[1].Name)
}
