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

func TestLLMReformulator_UsesEngineQuery(t *testing.T) {
	engine := &fakeLLM{generateFn: func(string) (string, error) {
		return "التصفية الإدارية خطوات", nil
	}}
	query, err := NewLLMReformulator(engine).Reformulate(context.Background(),
		"وش تعرف عن التصفية الإدارية؟")
	require.NoError(t, err)
	assert.Equal(t, "التصفية الإدارية خطوات", query)
}

func TestLLMReformulator_KeepsFirstLineOnly(t *testing.T) {
	engine := &fakeLLM{generateFn: func(string) (string, error) {
		return "استعلام البحث\nوهنا شرح إضافي لا نحتاجه", nil
	}}
	query, err := NewLLMReformulator(engine).Reformulate(context.Background(), "سؤال")
	require.NoError(t, err)
	assert.Equal(t, "استعلام البحث", query)
}

func TestLLMReformulator_FallsBackOnError(t *testing.T) {
	engine := &fakeLLM{generateFn: func(string) (string, error) {
		return "", errors.New("engine unavailable")
	}}
	query, err := NewLLMReformulator(engine).Reformulate(context.Background(), "السؤال الأصلي")
	require.NoError(t, err, "a failed reformulation must never block retrieval")
	assert.Equal(t, "السؤال الأصلي", query)
}

func TestLLMReformulator_FallsBackOnEmpty(t *testing.T) {
	engine := &fakeLLM{generateFn: func(string) (string, error) { return "  \n", nil }}
	query, err := NewLLMReformulator(engine).Reformulate(context.Background(), "السؤال الأصلي")
	require.NoError(t, err)
	assert.Equal(t, "السؤال الأصلي", query)
}

func TestPassthroughReformulator(t *testing.T) {
	query, err := PassthroughReformulator{}.Reformulate(context.Background(), "سؤال كما هو")
	require.NoError(t, err)
	assert.Equal(t, "سؤال كما هو", query)
}
