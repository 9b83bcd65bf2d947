// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIcon_Render(t *testing.T) {
	assert.Contains(t, IconSuccess.Render(), "✓")
	assert.Contains(t, IconWarning.Render(), "⚠")
	assert.Contains(t, IconError.Render(), "✗")
	assert.Equal(t, "•", IconBullet.Render())
}

func TestOutputHelpersDoNotPanic(t *testing.T) {
	orig := GetPersonality().Level
	defer SetPersonalityLevel(orig)

	for _, level := range []PersonalityLevel{PersonalityFull, PersonalityMinimal, PersonalityMachine} {
		SetPersonalityLevel(level)
		require.NotPanics(t, func() {
			Title("عنوان")
			Success("تم")
			Warning("تنبيه")
			Error("خطأ")
			Info("معلومة")
			Muted("ثانوي")
			Answer("الإجابة", "نص الإجابة")
			Refusal("تنبيه", "نص الرفض")
			Meta("outcome", "answered")
		}, "level %s", level)
	}
}
