// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tools defines the capability set the plan parser validates
// against: tool descriptors, a thread-safe registry, and a YAML loader with
// an embedded default. The package describes tools, it never executes them;
// execution belongs to the host's scheduler.
package tools

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// VariadicArity marks a tool that accepts any number of arguments.
const VariadicArity = -1

// Descriptor describes one tool a plan may invoke.
//
// Validation of plans uses Name only; Arity and ArgsHint are advisory
// schema information for prompt construction and diagnostics.
type Descriptor struct {
	// Name is the bare-word tool name as it appears in plan text. It must
	// match the tokenizer's \w+ token rule or no plan could ever invoke it.
	Name string `yaml:"name" json:"name" validate:"required,toolname"`

	// Description explains the tool to the planning model.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Category groups related tools, e.g. "retrieval" or "control".
	Category string `yaml:"category,omitempty" json:"category,omitempty"`

	// Arity is the expected argument count, or VariadicArity.
	Arity int `yaml:"arity,omitempty" json:"arity,omitempty" validate:"gte=-1"`

	// ArgsHint sketches the argument shape, e.g. `query: string`.
	ArgsHint string `yaml:"args_hint,omitempty" json:"args_hint,omitempty"`
}

// toolNamePattern mirrors the tokenizer's \w+ tool-name token.
var toolNamePattern = regexp.MustCompile(`^\w+$`)

// descriptorValidator validates Descriptor structs on registration and
// registry load.
var descriptorValidator = newDescriptorValidator()

func newDescriptorValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("toolname", func(fl validator.FieldLevel) bool {
		return toolNamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks the descriptor's structural constraints.
//
// Outputs:
//
//	error - Non-nil if the descriptor is invalid.
func (d Descriptor) Validate() error {
	return descriptorValidator.Struct(d)
}
