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
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gopkg.in/yaml.v3"
)

const (
	// MaxRegistryFileSize caps registry YAML at 1MB. Prevents memory
	// issues from large or hostile files.
	MaxRegistryFileSize = 1024 * 1024

	// MaxToolsInRegistry caps the number of tools in one registry file.
	MaxToolsInRegistry = 200
)

// Sentinel errors for registry loading.
var (
	// ErrRegistryTooLarge is returned when the YAML exceeds the size cap.
	ErrRegistryTooLarge = errors.New("registry file too large")

	// ErrRegistryEmpty is returned when the YAML defines no tools.
	ErrRegistryEmpty = errors.New("registry defines no tools")
)

//go:embed registry.yaml
var defaultRegistryYAML []byte

var (
	registryLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planweave_registry_loads_total",
		Help: "Total capability registry loads by status",
	}, []string{"status"})
)

var registryTracer = otel.Tracer("planner.tools")

// registryFile is the root structure for YAML deserialization.
type registryFile struct {
	Tools []Descriptor `yaml:"tools"`
}

// DefaultRegistry loads the embedded default capability set.
//
// Outputs:
//
//	*Registry - Registry with the built-in tools.
//	error - Non-nil only if the embedded YAML is broken, which is a
//	build defect.
func DefaultRegistry(ctx context.Context) (*Registry, error) {
	return parseRegistry(ctx, defaultRegistryYAML, "embedded")
}

// LoadRegistry loads a capability set from a YAML file.
//
// Description:
//
//	Reads, size-checks, parses, and validates the registry file. Every
//	descriptor must pass Validate; one bad entry fails the whole load so
//	a typo cannot silently shrink the capability set.
//
// Inputs:
//
//	ctx - Context for tracing.
//	path - Path to the YAML file.
//
// Outputs:
//
//	*Registry - The loaded registry.
//	error - Non-nil on read, size, parse, or validation failure.
//
// Thread Safety: Safe for concurrent use.
func LoadRegistry(ctx context.Context, path string) (*Registry, error) {
	info, err := os.Stat(path)
	if err != nil {
		registryLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("stat registry file: %w", err)
	}
	if info.Size() > MaxRegistryFileSize {
		registryLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrRegistryTooLarge, info.Size(), MaxRegistryFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		registryLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	return parseRegistry(ctx, data, path)
}

// parseRegistry parses and validates registry YAML bytes.
func parseRegistry(ctx context.Context, data []byte, source string) (*Registry, error) {
	_, span := registryTracer.Start(ctx, "tools.parseRegistry")
	defer span.End()
	span.SetAttributes(attribute.String("registry.source", source))

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		registryLoads.WithLabelValues("error").Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("parse registry %s: %w", source, err)
	}

	if len(file.Tools) == 0 {
		registryLoads.WithLabelValues("error").Inc()
		span.SetStatus(codes.Error, ErrRegistryEmpty.Error())
		return nil, fmt.Errorf("%w: %s", ErrRegistryEmpty, source)
	}
	if len(file.Tools) > MaxToolsInRegistry {
		registryLoads.WithLabelValues("error").Inc()
		err := fmt.Errorf("%w: %d tools (max %d)", ErrRegistryTooLarge, len(file.Tools), MaxToolsInRegistry)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	registry, err := NewRegistry(file.Tools...)
	if err != nil {
		registryLoads.WithLabelValues("error").Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("registry %s: %w", source, err)
	}

	registryLoads.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("registry.tools", registry.Count()))
	return registry, nil
}
