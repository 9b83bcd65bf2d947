// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConsultMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newConsultMetrics(reg)

	m.ConsultationsTotal.WithLabelValues("answered").Inc()
	m.ConsultationsTotal.WithLabelValues("refused").Inc()
	m.ConsultationsTotal.WithLabelValues("refused").Inc()
	m.RetrievalAttemptsTotal.WithLabelValues("network_error").Inc()
	m.RetrievalDurationSeconds.Observe(0.3)
	m.ActiveConsultations.Inc()

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ConsultationsTotal.WithLabelValues("answered")))
	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.ConsultationsTotal.WithLabelValues("refused")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.RetrievalAttemptsTotal.WithLabelValues("network_error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ActiveConsultations))

	m.ActiveConsultations.Dec()
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ActiveConsultations))
}

func TestHelpersAreNilSafe(t *testing.T) {
	saved := DefaultMetrics
	DefaultMetrics = nil
	defer func() { DefaultMetrics = saved }()

	// Must not panic before InitMetrics
	require.NotPanics(t, func() {
		RecordConsultation("answered")
		RecordRetrieval("success", 0.1)
		ConsultStarted()
		ConsultFinished()
	})
}

func TestHelpersRecordOnDefault(t *testing.T) {
	saved := DefaultMetrics
	DefaultMetrics = newConsultMetrics(prometheus.NewRegistry())
	defer func() { DefaultMetrics = saved }()

	RecordConsultation("no_data")
	RecordRetrieval("http_status_error", 1.2)
	ConsultStarted()

	assert.Equal(t, float64(1),
		testutil.ToFloat64(DefaultMetrics.ConsultationsTotal.WithLabelValues("no_data")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(DefaultMetrics.RetrievalAttemptsTotal.WithLabelValues("http_status_error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(DefaultMetrics.ActiveConsultations))
}
