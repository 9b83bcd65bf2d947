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
	"golang.org/x/sync/singleflight"
)

// ScopeDecision is the outcome of classifying a question against the fixed
// domain.
type ScopeDecision struct {
	// InDomain is true when the question concerns Saudi bankruptcy law.
	InDomain bool

	// Refusal is the text to return when InDomain is false.
	Refusal string
}

// ScopeClassifier decides whether a question falls inside the fixed domain
// before any retrieval occurs. Implementations must have no side effects
// and must not touch the retrieval endpoint.
//
// Classification by a language model is nondeterministic in general, so the
// classifier sits behind this interface and a deterministic rule-based
// implementation can be substituted without touching the orchestration
// loop.
type ScopeClassifier interface {
	Classify(ctx context.Context, question string) (ScopeDecision, error)
}

// =============================================================================
// LLM-backed classifier
// =============================================================================

// LLMScopeClassifier delegates scope judgment to the reasoning engine with
// a fixed classification instruction.
//
// The tie-break policy leans in-domain: an unparseable verdict or an engine
// error classifies as in-domain, because a failed or empty retrieval falls
// through to the no-data response naturally, while a false refusal loses
// the user outright.
type LLMScopeClassifier struct {
	llmClient llm.LLMClient
	inflight  singleflight.Group
}

// NewLLMScopeClassifier creates a classifier using the provided reasoning
// client.
func NewLLMScopeClassifier(llmClient llm.LLMClient) *LLMScopeClassifier {
	return &LLMScopeClassifier{llmClient: llmClient}
}

// Classify implements ScopeClassifier. Concurrent calls for the identical
// question coalesce into one engine call.
func (c *LLMScopeClassifier) Classify(ctx context.Context, question string) (ScopeDecision, error) {
	raw, err, _ := c.inflight.Do(question, func() (interface{}, error) {
		maxTokens := 8
		return c.llmClient.Generate(ctx, classifyPrompt(question), llm.GenerationParams{
			MaxTokens: &maxTokens,
		})
	})
	if err != nil {
		slog.Warn("Scope classification call failed, leaning in-domain", "error", err)
		return ScopeDecision{InDomain: true}, nil
	}
	verdict, _ := raw.(string)

	v := strings.ToUpper(strings.TrimSpace(verdict))
	if strings.Contains(v, "OUT_OF_SCOPE") {
		return ScopeDecision{InDomain: false, Refusal: RefusalText}, nil
	}
	// IN_SCOPE, or anything the model made up instead. Retrieval sorts it
	// out.
	return ScopeDecision{InDomain: true}, nil
}

// =============================================================================
// Rule-based classifier
// =============================================================================

// defaultScopeKeywords are the bankruptcy-law markers the rule-based
// classifier looks for, in Arabic and transliterated/English forms.
var defaultScopeKeywords = []string{
	"إفلاس", "الإفلاس", "افلاس",
	"إعسار", "الإعسار", "اعسار",
	"تصفية", "التصفية",
	"إعادة التنظيم", "اعادة التنظيم", "التنظيم المالي",
	"تسوية وقائية", "التسوية الوقائية",
	"دائن", "الدائن", "الدائنين", "مدين", "المدين", "المدينين",
	"لجنة الإفلاس", "أمين الإفلاس",
	"bankruptcy", "insolvency", "liquidation", "creditor", "debtor",
}

// KeywordScopeClassifier is the deterministic substitute for the LLM-backed
// classifier: a question is in-domain when it contains at least one domain
// keyword.
type KeywordScopeClassifier struct {
	keywords []string
}

// NewKeywordScopeClassifier creates a rule-based classifier. With no
// keywords supplied, the default bankruptcy-law set is used.
func NewKeywordScopeClassifier(keywords ...string) *KeywordScopeClassifier {
	if len(keywords) == 0 {
		keywords = defaultScopeKeywords
	}
	return &KeywordScopeClassifier{keywords: keywords}
}

// Classify implements ScopeClassifier.
func (c *KeywordScopeClassifier) Classify(_ context.Context, question string) (ScopeDecision, error) {
	q := strings.ToLower(question)
	for _, kw := range c.keywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			return ScopeDecision{InDomain: true}, nil
		}
	}
	return ScopeDecision{InDomain: false, Refusal: RefusalText}, nil
}
