// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the consultation
// agent.
//
// Metrics are exposed via the /metrics endpoint. All metric operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "iflas"

const consultSubsystem = "consult"

// ConsultMetrics holds the Prometheus metrics for consultation processing.
//
// # Fields
//
//   - ConsultationsTotal: Counter of finished consultations by outcome
//     (answered, no_data, refused, error).
//   - RetrievalAttemptsTotal: Counter of retrieval calls by result
//     (success, network_error, http_status_error).
//   - RetrievalDurationSeconds: Histogram of single retrieval call latency.
//   - ActiveConsultations: Gauge of consultations currently in flight.
type ConsultMetrics struct {
	ConsultationsTotal       *prometheus.CounterVec
	RetrievalAttemptsTotal   *prometheus.CounterVec
	RetrievalDurationSeconds prometheus.Histogram
	ActiveConsultations      prometheus.Gauge
}

// DefaultMetrics is the singleton instance registered on the default
// Prometheus registry. Initialized by InitMetrics().
var DefaultMetrics *ConsultMetrics

var initMetricsOnce sync.Once

// InitMetrics initializes and registers the default metrics instance. Call
// once at application startup; further calls are no-ops.
func InitMetrics() *ConsultMetrics {
	initMetricsOnce.Do(func() {
		DefaultMetrics = newConsultMetrics(prometheus.DefaultRegisterer)
	})
	return DefaultMetrics
}

// newConsultMetrics builds a ConsultMetrics registered on reg. Tests pass
// their own registry to avoid global state.
func newConsultMetrics(reg prometheus.Registerer) *ConsultMetrics {
	factory := promauto.With(reg)
	return &ConsultMetrics{
		ConsultationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: consultSubsystem,
				Name:      "consultations_total",
				Help:      "Total finished consultations by outcome",
			},
			[]string{"outcome"},
		),
		RetrievalAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: consultSubsystem,
				Name:      "retrieval_attempts_total",
				Help:      "Total retrieval calls to the knowledge base by result",
			},
			[]string{"result"},
		),
		RetrievalDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: consultSubsystem,
				Name:      "retrieval_duration_seconds",
				Help:      "Latency of single retrieval calls in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 15.0},
			},
		),
		ActiveConsultations: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: consultSubsystem,
				Name:      "active_consultations",
				Help:      "Consultations currently being processed",
			},
		),
	}
}

// RecordConsultation counts one finished consultation. Safe to call before
// InitMetrics (no-op).
func RecordConsultation(outcome string) {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.ConsultationsTotal.WithLabelValues(outcome).Inc()
}

// RecordRetrieval counts one retrieval call and observes its latency.
func RecordRetrieval(result string, seconds float64) {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.RetrievalAttemptsTotal.WithLabelValues(result).Inc()
	DefaultMetrics.RetrievalDurationSeconds.Observe(seconds)
}

// ConsultStarted marks a consultation as in flight.
func ConsultStarted() {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.ActiveConsultations.Inc()
}

// ConsultFinished marks a consultation as done.
func ConsultFinished() {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.ActiveConsultations.Dec()
}
