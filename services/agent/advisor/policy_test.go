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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMScopeClassifier_InScope(t *testing.T) {
	engine := &fakeLLM{generateFn: func(string) (string, error) { return "IN_SCOPE", nil }}
	c := NewLLMScopeClassifier(engine)

	decision, err := c.Classify(context.Background(), "ما هي حالات الإفلاس؟")
	require.NoError(t, err)
	assert.True(t, decision.InDomain)
}

func TestLLMScopeClassifier_OutOfScope(t *testing.T) {
	engine := &fakeLLM{generateFn: func(string) (string, error) { return "OUT_OF_SCOPE", nil }}
	c := NewLLMScopeClassifier(engine)

	decision, err := c.Classify(context.Background(), "وش أفضل مطعم بالرياض؟")
	require.NoError(t, err)
	assert.False(t, decision.InDomain)
	assert.Equal(t, RefusalText, decision.Refusal)
}

func TestLLMScopeClassifier_VerdictParsingLeansInDomain(t *testing.T) {
	cases := map[string]string{
		"whitespace":  "  in_scope \n",
		"chatty":      "أعتقد أن هذا السؤال IN_SCOPE لأنه يخص الإفلاس",
		"unparseable": "لا أستطيع التصنيف",
		"empty":       "",
	}
	for name, verdict := range cases {
		t.Run(name, func(t *testing.T) {
			engine := &fakeLLM{generateFn: func(string) (string, error) { return verdict, nil }}
			decision, err := NewLLMScopeClassifier(engine).Classify(context.Background(), "سؤال")
			require.NoError(t, err)
			assert.True(t, decision.InDomain)
		})
	}
}

func TestLLMScopeClassifier_ChattyOutOfScopeStillRefuses(t *testing.T) {
	engine := &fakeLLM{generateFn: func(string) (string, error) {
		return "الجواب: OUT_OF_SCOPE بكل وضوح", nil
	}}
	decision, err := NewLLMScopeClassifier(engine).Classify(context.Background(), "سؤال طبخ")
	require.NoError(t, err)
	assert.False(t, decision.InDomain)
}

func TestLLMScopeClassifier_EngineErrorLeansInDomain(t *testing.T) {
	engine := &fakeLLM{generateFn: func(string) (string, error) {
		return "", errors.New("engine unavailable")
	}}
	decision, err := NewLLMScopeClassifier(engine).Classify(context.Background(), "سؤال")
	require.NoError(t, err)
	assert.True(t, decision.InDomain)
}

func TestKeywordScopeClassifier(t *testing.T) {
	c := NewKeywordScopeClassifier()

	inDomain := []string{
		"ما هي إجراءات الإفلاس؟",
		"متى يعتبر المدين معسراً؟",
		"شرح إجراء التصفية",
		"What is bankruptcy liquidation?",
	}
	for _, q := range inDomain {
		decision, err := c.Classify(context.Background(), q)
		require.NoError(t, err)
		assert.True(t, decision.InDomain, "expected in-domain: %s", q)
	}

	decision, err := c.Classify(context.Background(), "كيف أسوي كبسة؟")
	require.NoError(t, err)
	assert.False(t, decision.InDomain)
	assert.Equal(t, RefusalText, decision.Refusal)
}

func TestKeywordScopeClassifier_CustomKeywords(t *testing.T) {
	c := NewKeywordScopeClassifier("غرامة")

	decision, err := c.Classify(context.Background(), "كم الغرامة؟")
	require.NoError(t, err)
	assert.True(t, decision.InDomain)

	decision, err = c.Classify(context.Background(), "سؤال عن الإفلاس")
	require.NoError(t, err)
	assert.False(t, decision.InDomain, "custom keywords replace the default set")
}
