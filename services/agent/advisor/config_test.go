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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg := ConfigFromEnv()

	assert.Equal(t, defaultRetryLimit, cfg.RetryLimit)
	assert.Equal(t, defaultMaxContextChars, cfg.MaxContextChars)
	assert.Equal(t, defaultOfficeName, cfg.OfficeName)
}

func TestConfigFromEnv_RetryLimit(t *testing.T) {
	t.Setenv("EXPERT_RETRY_LIMIT", "5")
	assert.Equal(t, 5, ConfigFromEnv().RetryLimit)
}

func TestConfigFromEnv_NegativeRetryLimitClampsToZero(t *testing.T) {
	t.Setenv("EXPERT_RETRY_LIMIT", "-3")
	assert.Equal(t, 0, ConfigFromEnv().RetryLimit)
}

func TestConfigFromEnv_BadRetryLimitUsesDefault(t *testing.T) {
	t.Setenv("EXPERT_RETRY_LIMIT", "many")
	assert.Equal(t, defaultRetryLimit, ConfigFromEnv().RetryLimit)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("IFLAS_MAX_CONTEXT_CHARS", "1000")
	t.Setenv("IFLAS_OFFICE_NAME", "مكتب آخر")

	cfg := ConfigFromEnv()
	assert.Equal(t, 1000, cfg.MaxContextChars)
	assert.Equal(t, "مكتب آخر", cfg.OfficeName)
}
