// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

// Metric names reported by the controller.
const (
	MetricTransactionsSubmitted = "rdpbridge_transactions_submitted"
	MetricEventsSubmitted       = "rdpbridge_events_submitted"
	MetricInputDropped          = "rdpbridge_input_dropped"
	MetricSessionsStarted       = "rdpbridge_sessions_started"
	MetricSessionsFailed        = "rdpbridge_sessions_failed"
	MetricSessionActive         = "rdpbridge_session_active"
)

// MetricsCollector defines the interface for collecting metrics and observability data.
// Tags are alternating key/value pairs.
type MetricsCollector interface {
	Counter(name string, delta int64, tags ...string)
	Gauge(name string, value float64, tags ...string)
}

// NoOpMetrics is a MetricsCollector implementation that discards all metrics.
type NoOpMetrics struct{}

// Counter discards the increment.
func (m *NoOpMetrics) Counter(name string, delta int64, tags ...string) {}

// Gauge discards the value.
func (m *NoOpMetrics) Gauge(name string, value float64, tags ...string) {}
