// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package advisor

import (
	"context"
	"fmt"

	"github.com/binturaid/iflas-agent/services/agent/datatypes"
	"github.com/binturaid/iflas-agent/services/agent/expert"
	"github.com/binturaid/iflas-agent/services/llm"
)

// ExpertToolName is the single capability the orchestration loop may invoke
// for ground-truth data.
const ExpertToolName = "expert"

// RetrievalFunc executes one retrieval call for a query.
type RetrievalFunc func(ctx context.Context, query string) datatypes.RetrievalResult

// Tool binds a capability definition to its executor.
type Tool struct {
	Definition llm.ToolDefinition
	Run        RetrievalFunc
}

// Toolset is the contract between the orchestration loop and retrieval. It
// is the only sanctioned path from reasoning to ground-truth data: the loop
// obtains every grounding payload through Invoke, and synthesis accepts
// nothing else.
type Toolset struct {
	tools map[string]Tool
}

// NewToolset builds a Toolset from the given tools.
func NewToolset(tools ...Tool) *Toolset {
	ts := &Toolset{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		ts.tools[t.Definition.Name] = t
	}
	return ts
}

// ExpertTool wraps the knowledge-base client as the "expert" capability.
func ExpertTool(client *expert.Client) Tool {
	return Tool{
		Definition: llm.ToolDefinition{
			Name:        ExpertToolName,
			Description: "Get information about the Saudi bankruptcy law from the office's internal legal database.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query about Saudi bankruptcy law.",
					},
				},
				"required": []string{"query"},
			},
		},
		Run: client.Fetch,
	}
}

// Invoke runs the named capability for the query. An unknown name is a
// wiring bug, not a retrieval failure, and surfaces as an error.
func (ts *Toolset) Invoke(ctx context.Context, name, query string) (datatypes.RetrievalResult, error) {
	tool, ok := ts.tools[name]
	if !ok {
		return datatypes.RetrievalResult{}, fmt.Errorf("unknown tool %q", name)
	}
	return tool.Run(ctx, query), nil
}

// Definitions returns the capability schemas advertised to the reasoning
// engine.
func (ts *Toolset) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(ts.tools))
	for _, t := range ts.tools {
		defs = append(defs, t.Definition)
	}
	return defs
}
