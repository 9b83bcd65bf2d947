// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinner_StartStop(t *testing.T) {
	orig := GetPersonality().Level
	defer SetPersonalityLevel(orig)
	SetPersonalityLevel(PersonalityFull)

	s := NewSpinner("working")
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.UpdateMessage("still working")
	s.Stop()

	// Double stop must not panic or block
	require.NotPanics(t, s.Stop)
}

func TestSpinner_MachineModeDoesNotAnimate(t *testing.T) {
	orig := GetPersonality().Level
	defer SetPersonalityLevel(orig)
	SetPersonalityLevel(PersonalityMachine)

	s := NewSpinner("working")
	s.Start()
	s.Stop() // must return immediately, no goroutine to join
}

func TestWithSpinner_PropagatesError(t *testing.T) {
	orig := GetPersonality().Level
	defer SetPersonalityLevel(orig)
	SetPersonalityLevel(PersonalityMachine)

	wantErr := errors.New("boom")
	err := WithSpinner("task", func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	assert.NoError(t, WithSpinner("task", func() error { return nil }))
}
