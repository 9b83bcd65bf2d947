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
	"log/slog"
	"os"
	"strconv"
)

const (
	defaultRetryLimit      = 2
	defaultMaxContextChars = 24000
	defaultOfficeName      = "مكتب المحامي ناصر بن طريد للمحاماة والاستشارات القانونية"
)

// Config drives the orchestration loop. The earlier deployment carried three
// near-duplicate instruction variants differing only in persona wording and
// retry count; they collapse into this one template-plus-parameters form.
type Config struct {
	// RetryLimit is how many times a failed retrieval is re-invoked after
	// the first attempt. Each retry is a fresh sequential HTTP call.
	RetryLimit int

	// MaxContextChars caps the grounding payload handed to answer
	// synthesis so an oversized knowledge-base response cannot blow the
	// reasoning engine's context window.
	MaxContextChars int

	// OfficeName is the law office persona presented in the instruction
	// template.
	OfficeName string
}

// ConfigFromEnv loads the advisor configuration from the environment with
// the usual defaults.
//
// EXPERT_RETRY_LIMIT defaults to 2; negative values clamp to 0 (no retries,
// a single mandatory attempt still happens). IFLAS_MAX_CONTEXT_CHARS and
// IFLAS_OFFICE_NAME override the synthesis context cap and the persona.
func ConfigFromEnv() Config {
	cfg := Config{
		RetryLimit:      defaultRetryLimit,
		MaxContextChars: defaultMaxContextChars,
		OfficeName:      defaultOfficeName,
	}

	if raw := os.Getenv("EXPERT_RETRY_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			slog.Warn("EXPERT_RETRY_LIMIT is not a number, using default",
				"value", raw, "default", defaultRetryLimit)
		} else {
			if n < 0 {
				n = 0
			}
			cfg.RetryLimit = n
		}
	}

	if raw := os.Getenv("IFLAS_MAX_CONTEXT_CHARS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			slog.Warn("IFLAS_MAX_CONTEXT_CHARS is invalid, using default",
				"value", raw, "default", defaultMaxContextChars)
		} else {
			cfg.MaxContextChars = n
		}
	}

	if name := os.Getenv("IFLAS_OFFICE_NAME"); name != "" {
		cfg.OfficeName = name
	}

	return cfg
}
