package testutils

import (
	"sync"
	"time"

	"github.com/ahrav/go-quiver/internal/ports"
)

// RecordingMetrics implements ports.MetricsCollector by keeping every
// observation in memory. It is safe for concurrent use.
type RecordingMetrics struct {
	mu         sync.Mutex
	latencies  map[string][]time.Duration
	counters   map[string]float64
	gauges     map[string]float64
	histograms map[string][]float64
	labels     map[string][]map[string]string
}

// NewRecordingMetrics creates an empty recorder.
func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{
		latencies:  make(map[string][]time.Duration),
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
		labels:     make(map[string][]map[string]string),
	}
}

func (m *RecordingMetrics) RecordLatency(operation string, d time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencies[operation] = append(m.latencies[operation], d)
	m.labels[operation] = append(m.labels[operation], labels)
}

func (m *RecordingMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[metric] += value
	m.labels[metric] = append(m.labels[metric], labels)
}

func (m *RecordingMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[metric] = value
	m.labels[metric] = append(m.labels[metric], labels)
}

func (m *RecordingMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms[metric] = append(m.histograms[metric], value)
	m.labels[metric] = append(m.labels[metric], labels)
}

// Counter returns the running total for metric.
func (m *RecordingMetrics) Counter(metric string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[metric]
}

// Gauge returns the last value set for metric.
func (m *RecordingMetrics) Gauge(metric string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.gauges[metric]
	return v, ok
}

// Histogram returns the observations recorded for metric.
func (m *RecordingMetrics) Histogram(metric string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.histograms[metric]...)
}

// Latencies returns the durations recorded for operation.
func (m *RecordingMetrics) Latencies(operation string) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.latencies[operation]...)
}

// Labels returns the label sets passed with name, in call order.
func (m *RecordingMetrics) Labels(name string) []map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]string(nil), m.labels[name]...)
}

// Verify interface compliance at compile time.
var _ ports.MetricsCollector = (*RecordingMetrics)(nil)
