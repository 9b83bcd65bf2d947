// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package llm provides clients for the reasoning engine the agent calls
// into. The engine is an external collaborator: the agent delegates scope
// judgment, query reformulation, and answer synthesis to it, but never lets
// it substitute memorized knowledge for retrieval output.
package llm

import (
	"context"

	"github.com/binturaid/iflas-agent/services/agent/datatypes"
)

// ToolDefinition describes a capability exposed to the reasoning engine.
// The agent exposes exactly one: the "expert" retrieval tool.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type GenerationParams struct {
	Temperature     *float32         `json:"temperature"`
	TopK            *int             `json:"top_k"`
	TopP            *float32         `json:"top_p"`
	MaxTokens       *int             `json:"max_tokens"`
	Stop            []string         `json:"stop"`
	ToolDefinitions []ToolDefinition `json:"tools,omitempty"`
}

// LLMClient defines the standard interface for any reasoning backend.
type LLMClient interface {
	// Generate produces a completion for a single prompt. Used for the
	// scope classification and query reformulation calls.
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)

	// Chat produces a completion for a full message exchange. Used for
	// answer synthesis, where the system instruction and the grounding
	// payload travel as separate messages.
	Chat(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error)
}
