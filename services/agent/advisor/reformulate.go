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
	"log/slog"
	"strings"

	"github.com/binturaid/iflas-agent/services/llm"
)

// QueryReformulator turns the user's question into the search query sent to
// the knowledge base. It is a capability boundary: how the query is derived
// is pluggable, and a failed reformulation must never block retrieval.
type QueryReformulator interface {
	Reformulate(ctx context.Context, question string) (string, error)
}

// LLMReformulator asks the reasoning engine for a targeted search query.
type LLMReformulator struct {
	llmClient llm.LLMClient
}

// NewLLMReformulator creates a reformulator using the provided reasoning
// client.
func NewLLMReformulator(llmClient llm.LLMClient) *LLMReformulator {
	return &LLMReformulator{llmClient: llmClient}
}

// Reformulate implements QueryReformulator. On engine failure or an empty
// result it falls back to the verbatim question.
func (r *LLMReformulator) Reformulate(ctx context.Context, question string) (string, error) {
	maxTokens := 128
	query, err := r.llmClient.Generate(ctx, reformulatePrompt(question), llm.GenerationParams{
		MaxTokens: &maxTokens,
	})
	if err != nil {
		slog.Warn("Query reformulation failed, using the question verbatim", "error", err)
		return question, nil
	}
	// Single line only; models occasionally pad with explanation anyway.
	query, _, _ = strings.Cut(strings.TrimSpace(query), "\n")
	if query == "" {
		return question, nil
	}
	return query, nil
}

// PassthroughReformulator sends the question to the knowledge base
// verbatim. Used when no reasoning engine should be spent on reformulation.
type PassthroughReformulator struct{}

// Reformulate implements QueryReformulator.
func (PassthroughReformulator) Reformulate(_ context.Context, question string) (string, error) {
	return question, nil
}
